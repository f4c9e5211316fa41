package app

import (
	"context"
	"fmt"

	"go.trai.ch/kiln/internal/adapters/config"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/engine/extension"
	"go.trai.ch/zerr"
)

// TidyOptions configuration for the Tidy method.
type TidyOptions struct {
	// Check validates imports and fails when use_repo calls need fixing instead of printing the fix.
	Check bool
}

// Tidy evaluates every declared module extension and prints the buildozer commands that bring
// the root module's use_repo calls in line with what the extensions report.
func (a *App) Tidy(ctx context.Context, opts TidyOptions) error {
	ws, err := a.configLoader.Load(".")
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	evaluator := extension.NewEvaluator(a.logger, config.NewStaticRunner(ws), ws.LockfileMode,
		extension.WithObserver(a.metrics))

	values := make([]*domain.SingleExtensionValue, 0, len(ws.Extensions))
	for _, ext := range ws.Extensions {
		var value *domain.SingleExtensionValue
		if opts.Check {
			value, err = evaluator.Evaluate(ctx, ext.ID)
		} else {
			value, err = evaluator.EvaluateUnvalidated(ctx, ext.ID)
		}
		if err != nil {
			return err
		}
		values = append(values, value)
	}

	fixups := extension.AllFixups(values)
	if len(fixups) == 0 {
		a.logger.Info("all use_repo calls are up to date")
		return nil
	}
	if opts.Check {
		return zerr.With(zerr.Wrap(domain.ErrUseRepoOutOfDate, "run 'kiln mod tidy'"), "extensions", len(fixups))
	}

	for _, fixup := range fixups {
		for _, command := range fixup.Commands() {
			if _, err := fmt.Fprintln(a.stdout, command); err != nil {
				return zerr.Wrap(err, "failed to write fixup")
			}
		}
		a.logger.Info(fixup.SuccessMessage())
	}
	return nil
}
