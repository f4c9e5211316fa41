package watcher

import (
	"context"
	"fmt"
	"time"

	"go.trai.ch/kiln/internal/core/ports"
)

// Invalidate drops memoized work that depends on any of paths and reports how much was dropped.
type Invalidate func(paths []string) int

// Invalidator feeds debounced watch events into an invalidation function.
type Invalidator struct {
	logger     ports.Logger
	watcher    ports.Watcher
	invalidate Invalidate
	window     time.Duration
	onBatch    func(paths []string, invalidated int)
}

// NewInvalidator creates an invalidator. A non-positive window selects DefaultDebounceWindow.
func NewInvalidator(logger ports.Logger, watcher ports.Watcher, invalidate Invalidate, window time.Duration) *Invalidator {
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	return &Invalidator{
		logger:     logger,
		watcher:    watcher,
		invalidate: invalidate,
		window:     window,
	}
}

// OnBatch registers fn to be called after each batch has been invalidated.
func (i *Invalidator) OnBatch(fn func(paths []string, invalidated int)) *Invalidator {
	i.onBatch = fn
	return i
}

// Run watches root until ctx is done or the event stream ends, then stops the watcher
// and flushes pending changes.
func (i *Invalidator) Run(ctx context.Context, root string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := i.watcher.Start(ctx, root); err != nil {
		return err
	}

	debouncer := NewDebouncer(i.window, i.apply)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		_ = i.watcher.Stop()
	}()

	for event := range i.watcher.Events() {
		debouncer.Add(event.Path)
	}

	cancel()
	<-stopped
	debouncer.Flush()
	return nil
}

func (i *Invalidator) apply(paths []string) {
	n := i.invalidate(paths)
	i.logger.Debug(fmt.Sprintf("%d path(s) changed, invalidated %d action(s)", len(paths), n))
	if i.onBatch != nil {
		i.onBatch(paths, n)
	}
}
