package memo

import (
	"context"
	"sync"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// Key is a canonical key type. FunctionName names the key space.
type Key interface {
	comparable
	FunctionName() string
}

// ComputeFunc produces the value for a key.
type ComputeFunc[V any] func(ctx context.Context) (V, error)

var errComputePanicked = zerr.New("memoized computation panicked")

type call[V any] struct {
	done        chan struct{}
	value       V
	err         error
	invalidated bool
}

type options struct {
	observer ports.CacheObserver
}

// Option configures a Store.
type Option func(*options)

// WithObserver reports hits and misses to o.
func WithObserver(o ports.CacheObserver) Option {
	return func(opts *options) {
		opts.observer = o
	}
}

// Store memoizes values by canonical key.
// Keys are compared by identity, so callers must obtain them from an Interner.
// Concurrent requests for the same key share one computation. Failures are returned
// to every waiter but never stored, so the next request computes again.
type Store[K Key, V any] struct {
	mu       sync.Mutex
	values   map[*K]V
	inflight map[*K]*call[V]
	observer ports.CacheObserver
}

// NewStore creates an empty store.
func NewStore[K Key, V any](opts ...Option) *Store[K, V] {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return &Store[K, V]{
		values:   make(map[*K]V),
		inflight: make(map[*K]*call[V]),
		observer: o.observer,
	}
}

// Get returns the memoized value for key without computing it.
func (s *Store[K, V]) Get(key *K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// GetOrCompute returns the memoized value for key, running compute at most once
// across all concurrent callers when it is missing.
//
// If the computation is cancelled, waiters whose own context is still live start a
// fresh computation. A waiter whose context is cancelled returns a *domain.CancelledError
// without affecting the computation.
func (s *Store[K, V]) GetOrCompute(ctx context.Context, key *K, compute ComputeFunc[V]) (V, error) {
	for {
		s.mu.Lock()
		if v, ok := s.values[key]; ok {
			s.mu.Unlock()
			s.hit(key)
			return v, nil
		}

		if c, ok := s.inflight[key]; ok {
			s.mu.Unlock()
			select {
			case <-c.done:
			case <-ctx.Done():
				var zero V
				return zero, domain.NewCancelledError(ctx.Err())
			}
			if c.err != nil && domain.IsCancelled(c.err) && ctx.Err() == nil {
				continue
			}
			s.hit(key)
			return c.value, c.err
		}

		c := &call[V]{done: make(chan struct{})}
		s.inflight[key] = c
		s.mu.Unlock()

		s.miss(key)
		s.run(ctx, key, c, compute)
		return c.value, c.err
	}
}

func (s *Store[K, V]) run(ctx context.Context, key *K, c *call[V], compute ComputeFunc[V]) {
	finished := false
	defer func() {
		if !finished {
			c.err = zerr.With(errComputePanicked, "key_space", (*key).FunctionName())
		}

		s.mu.Lock()
		if s.inflight[key] == c {
			delete(s.inflight, key)
		}
		if c.err == nil && !c.invalidated {
			s.values[key] = c.value
		}
		s.mu.Unlock()

		close(c.done)
	}()

	c.value, c.err = compute(ctx)
	finished = true
}

// Invalidate drops the memoized value for key. A computation running for key
// still delivers its result to its waiters but does not store it.
func (s *Store[K, V]) Invalidate(key *K) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	if c, ok := s.inflight[key]; ok {
		c.invalidated = true
	}
}

// Len returns the number of memoized values.
func (s *Store[K, V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values)
}

func (s *Store[K, V]) hit(key *K) {
	if s.observer != nil {
		s.observer.CacheHit((*key).FunctionName())
	}
}

func (s *Store[K, V]) miss(key *K) {
	if s.observer != nil {
		s.observer.CacheMiss((*key).FunctionName())
	}
}
