package memo_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.trai.ch/kiln/internal/engine/memo"
	"go.uber.org/mock/gomock"
)

func newActionKey(in *memo.Interner[domain.ActionKey], digest string) *domain.ActionKey {
	return in.Intern(domain.ActionKey{Mnemonic: "Copy", Digest: digest})
}

func TestStore_SingleFlight(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		in := memo.NewInterner[domain.ActionKey]()
		store := memo.NewStore[domain.ActionKey, string]()
		key := newActionKey(in, "k")

		var computations atomic.Int32
		compute := func(context.Context) (string, error) {
			computations.Add(1)
			time.Sleep(time.Second)
			return "value", nil
		}

		const callers = 32
		results := make([]string, callers)
		var wg sync.WaitGroup
		for i := range callers {
			wg.Go(func() {
				v, err := store.GetOrCompute(context.Background(), key, compute)
				assert.NoError(t, err)
				results[i] = v
			})
		}
		wg.Wait()

		assert.Equal(t, int32(1), computations.Load())
		for _, r := range results {
			assert.Equal(t, "value", r)
		}

		v, ok := store.Get(key)
		assert.True(t, ok)
		assert.Equal(t, "value", v)
		assert.Equal(t, 1, store.Len())
	})
}

func TestStore_DistinctKeysComputeIndependently(t *testing.T) {
	in := memo.NewInterner[domain.ActionKey]()
	store := memo.NewStore[domain.ActionKey, string]()

	a, err := store.GetOrCompute(context.Background(), newActionKey(in, "a"), func(context.Context) (string, error) {
		return "A", nil
	})
	require.NoError(t, err)
	b, err := store.GetOrCompute(context.Background(), newActionKey(in, "b"), func(context.Context) (string, error) {
		return "B", nil
	})
	require.NoError(t, err)

	assert.Equal(t, "A", a)
	assert.Equal(t, "B", b)
	assert.Equal(t, 2, store.Len())
}

func TestStore_FailureNotMemoized(t *testing.T) {
	in := memo.NewInterner[domain.ActionKey]()
	store := memo.NewStore[domain.ActionKey, int]()
	key := newActionKey(in, "k")
	boom := errors.New("boom")

	calls := 0
	compute := func(context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, boom
		}
		return 42, nil
	}

	_, err := store.GetOrCompute(context.Background(), key, compute)
	require.ErrorIs(t, err, boom)

	_, ok := store.Get(key)
	assert.False(t, ok)

	v, err := store.GetOrCompute(context.Background(), key, compute)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 2, calls)
}

func TestStore_WaitersShareFailure(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		in := memo.NewInterner[domain.ActionKey]()
		store := memo.NewStore[domain.ActionKey, int]()
		key := newActionKey(in, "k")
		boom := errors.New("boom")

		var computations atomic.Int32
		compute := func(context.Context) (int, error) {
			computations.Add(1)
			time.Sleep(time.Second)
			return 0, boom
		}

		var wg sync.WaitGroup
		for range 4 {
			wg.Go(func() {
				_, err := store.GetOrCompute(context.Background(), key, compute)
				assert.ErrorIs(t, err, boom)
			})
		}
		wg.Wait()

		assert.Equal(t, int32(1), computations.Load())
		assert.Equal(t, 0, store.Len())
	})
}

func TestStore_CancelledOwnerIsRetriedByLiveWaiter(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		in := memo.NewInterner[domain.ActionKey]()
		store := memo.NewStore[domain.ActionKey, string]()
		key := newActionKey(in, "k")

		var computations atomic.Int32
		compute := func(ctx context.Context) (string, error) {
			computations.Add(1)
			select {
			case <-ctx.Done():
				return "", domain.NewCancelledError(ctx.Err())
			case <-time.After(time.Second):
				return "value", nil
			}
		}

		ownerCtx, cancelOwner := context.WithCancel(context.Background())
		ownerDone := make(chan error, 1)
		go func() {
			_, err := store.GetOrCompute(ownerCtx, key, compute)
			ownerDone <- err
		}()
		synctest.Wait()

		waiterDone := make(chan string, 1)
		go func() {
			v, err := store.GetOrCompute(context.Background(), key, compute)
			assert.NoError(t, err)
			waiterDone <- v
		}()
		synctest.Wait()

		cancelOwner()

		ownerErr := <-ownerDone
		assert.Equal(t, domain.OutcomeCancelled, domain.OutcomeOf(ownerErr))
		assert.Equal(t, "value", <-waiterDone)
		assert.Equal(t, int32(2), computations.Load())

		v, ok := store.Get(key)
		assert.True(t, ok)
		assert.Equal(t, "value", v)
	})
}

func TestStore_WaiterCancellation(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		in := memo.NewInterner[domain.ActionKey]()
		store := memo.NewStore[domain.ActionKey, string]()
		key := newActionKey(in, "k")

		compute := func(context.Context) (string, error) {
			time.Sleep(time.Minute)
			return "value", nil
		}

		ownerDone := make(chan struct{})
		go func() {
			defer close(ownerDone)
			v, err := store.GetOrCompute(context.Background(), key, compute)
			assert.NoError(t, err)
			assert.Equal(t, "value", v)
		}()
		synctest.Wait()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		_, err := store.GetOrCompute(ctx, key, compute)
		var cancelled *domain.CancelledError
		require.ErrorAs(t, err, &cancelled)

		<-ownerDone
		_, ok := store.Get(key)
		assert.True(t, ok)
	})
}

func TestStore_Invalidate(t *testing.T) {
	in := memo.NewInterner[domain.ActionKey]()
	store := memo.NewStore[domain.ActionKey, int]()
	key := newActionKey(in, "k")

	calls := 0
	compute := func(context.Context) (int, error) {
		calls++
		return calls, nil
	}

	store.Invalidate(key)

	v, err := store.GetOrCompute(context.Background(), key, compute)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = store.GetOrCompute(context.Background(), key, compute)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	store.Invalidate(key)

	v, err = store.GetOrCompute(context.Background(), key, compute)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestStore_InvalidateDuringComputation(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		in := memo.NewInterner[domain.ActionKey]()
		store := memo.NewStore[domain.ActionKey, string]()
		key := newActionKey(in, "k")

		done := make(chan string, 1)
		go func() {
			v, err := store.GetOrCompute(context.Background(), key, func(context.Context) (string, error) {
				time.Sleep(time.Second)
				return "stale", nil
			})
			assert.NoError(t, err)
			done <- v
		}()
		synctest.Wait()

		store.Invalidate(key)

		assert.Equal(t, "stale", <-done)
		_, ok := store.Get(key)
		assert.False(t, ok)
	})
}

func TestStore_PanicReleasesWaiters(t *testing.T) {
	in := memo.NewInterner[domain.ActionKey]()
	store := memo.NewStore[domain.ActionKey, int]()
	key := newActionKey(in, "k")

	assert.Panics(t, func() {
		_, _ = store.GetOrCompute(context.Background(), key, func(context.Context) (int, error) {
			panic("broken")
		})
	})

	v, err := store.GetOrCompute(context.Background(), key, func(context.Context) (int, error) {
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestStore_Observer(t *testing.T) {
	ctrl := gomock.NewController(t)
	observer := mocks.NewMockCacheObserver(ctrl)

	in := memo.NewInterner[domain.ActionKey]()
	store := memo.NewStore[domain.ActionKey, int](memo.WithObserver(observer))
	key := newActionKey(in, "k")

	gomock.InOrder(
		observer.EXPECT().CacheMiss(domain.FunctionActionExecution).Times(1),
		observer.EXPECT().CacheHit(domain.FunctionActionExecution).Times(2),
	)

	for range 3 {
		_, err := store.GetOrCompute(context.Background(), key, func(context.Context) (int, error) {
			return 1, nil
		})
		require.NoError(t, err)
	}
}
