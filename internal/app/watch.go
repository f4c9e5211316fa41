package app

import (
	"context"

	"go.trai.ch/kiln/internal/adapters/watcher"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// watch runs build once, then again every time a change under root invalidates a memoized action.
// Build failures are reported and do not end the session.
func (a *App) watch(ctx context.Context, root string, build func(context.Context) error) error {
	if done := a.reportBuild(ctx, build(ctx)); done {
		return nil
	}

	w, err := a.newWatcher()
	if err != nil {
		return zerr.Wrap(err, "failed to create file watcher")
	}

	rebuild := make(chan struct{}, 1)
	inv := watcher.NewInvalidator(a.logger, w, a.executor.InvalidatePaths, watcher.DefaultDebounceWindow).
		OnBatch(func(_ []string, invalidated int) {
			if invalidated == 0 {
				return
			}
			select {
			case rebuild <- struct{}{}:
			default:
			}
		})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.logger.Info("watching " + root + " for changes")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return inv.Run(ctx, root)
	})
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-rebuild:
				if done := a.reportBuild(ctx, build(ctx)); done {
					return nil
				}
			}
		}
	})
	return g.Wait()
}

// reportBuild logs a failed build and reports whether the session was interrupted.
func (a *App) reportBuild(ctx context.Context, err error) bool {
	switch {
	case err == nil:
		return false
	case domain.IsCancelled(err) && ctx.Err() != nil:
		return true
	default:
		a.logger.Error(err)
		a.logger.Info("waiting for changes")
		return false
	}
}
