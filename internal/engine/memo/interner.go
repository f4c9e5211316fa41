// Package memo provides canonical key interning and a single-flight memo store.
package memo

import "sync"

// Interner maps structurally equal keys to one shared instance.
// After interning, pointer equality can be used in place of structural equality.
// An Interner is owned by one invocation; instances live as long as the Interner does.
type Interner[K comparable] struct {
	mu   sync.RWMutex
	pool map[K]*K
}

// NewInterner creates an empty interner.
func NewInterner[K comparable]() *Interner[K] {
	return &Interner[K]{pool: make(map[K]*K)}
}

// Intern returns the canonical instance for key, registering it on first use.
func (in *Interner[K]) Intern(key K) *K {
	in.mu.RLock()
	canonical, ok := in.pool[key]
	in.mu.RUnlock()
	if ok {
		return canonical
	}

	in.mu.Lock()
	defer in.mu.Unlock()

	if canonical, ok := in.pool[key]; ok {
		return canonical
	}
	canonical = new(K)
	*canonical = key
	in.pool[key] = canonical
	return canonical
}

// Len returns the number of distinct keys interned so far.
func (in *Interner[K]) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.pool)
}
