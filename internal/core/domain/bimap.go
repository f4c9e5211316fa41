package domain

import (
	"iter"
	"maps"
	"slices"

	"go.trai.ch/zerr"
)

// BiMap is an immutable one-to-one mapping between keys and values.
type BiMap[K, V comparable] struct {
	forward map[K]V
	inverse map[V]K
}

// NewBiMap builds a BiMap from m. It fails when two keys share a value.
func NewBiMap[K, V comparable](m map[K]V) (*BiMap[K, V], error) {
	b := &BiMap[K, V]{
		forward: make(map[K]V, len(m)),
		inverse: make(map[V]K, len(m)),
	}
	for k, v := range m {
		if other, ok := b.inverse[v]; ok {
			return nil, zerr.With(zerr.With(zerr.Wrap(ErrDuplicateMapping, "build bimap"), "value", v), "keys", []K{other, k})
		}
		b.forward[k] = v
		b.inverse[v] = k
	}
	return b, nil
}

// Get returns the value mapped to k.
func (b *BiMap[K, V]) Get(k K) (V, bool) {
	v, ok := b.forward[k]
	return v, ok
}

// Inverse returns the key mapped to v.
func (b *BiMap[K, V]) Inverse(v V) (K, bool) {
	k, ok := b.inverse[v]
	return k, ok
}

// Len returns the number of entries.
func (b *BiMap[K, V]) Len() int {
	return len(b.forward)
}

// All iterates over every entry.
func (b *BiMap[K, V]) All() iter.Seq2[K, V] {
	return maps.All(b.forward)
}

// Keys returns the keys in unspecified order.
func (b *BiMap[K, V]) Keys() []K {
	return slices.Collect(maps.Keys(b.forward))
}
