// Package extension evaluates module extensions into memoized, immutable values.
package extension

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/memo"
	"go.trai.ch/zerr"
)

// evaluation is the memoized unvalidated result. The usage is kept for import validation.
type evaluation struct {
	value *domain.SingleExtensionValue
	usage *domain.ModuleExtensionUsage
}

// Evaluator owns the two extension key spaces of one invocation.
type Evaluator struct {
	logger ports.Logger
	runner ports.ExtensionRunner
	mode   domain.LockfileMode

	keys     *memo.Interner[domain.SingleExtensionKey]
	evalKeys *memo.Interner[domain.SingleExtensionEvalKey]

	values      *memo.Store[domain.SingleExtensionKey, *domain.SingleExtensionValue]
	evaluations *memo.Store[domain.SingleExtensionEvalKey, *evaluation]
}

// Option configures an Evaluator.
type Option func(*[]memo.Option)

// WithObserver reports memo hits and misses for both key spaces.
func WithObserver(obs ports.CacheObserver) Option {
	return func(opts *[]memo.Option) {
		*opts = append(*opts, memo.WithObserver(obs))
	}
}

// NewEvaluator creates an Evaluator backed by runner.
func NewEvaluator(
	logger ports.Logger,
	runner ports.ExtensionRunner,
	mode domain.LockfileMode,
	opts ...Option,
) *Evaluator {
	var storeOpts []memo.Option
	for _, opt := range opts {
		opt(&storeOpts)
	}

	return &Evaluator{
		logger:      logger,
		runner:      runner,
		mode:        mode,
		keys:        memo.NewInterner[domain.SingleExtensionKey](),
		evalKeys:    memo.NewInterner[domain.SingleExtensionEvalKey](),
		values:      memo.NewStore[domain.SingleExtensionKey, *domain.SingleExtensionValue](storeOpts...),
		evaluations: memo.NewStore[domain.SingleExtensionEvalKey, *evaluation](storeOpts...),
	}
}

// Key returns the canonical validated key of id.
func (e *Evaluator) Key(id domain.ModuleExtensionID) *domain.SingleExtensionKey {
	return e.keys.Intern(domain.SingleExtensionKey{ID: id})
}

// EvalKey returns the canonical unvalidated key of id.
func (e *Evaluator) EvalKey(id domain.ModuleExtensionID) *domain.SingleExtensionEvalKey {
	return e.evalKeys.Intern(domain.SingleExtensionEvalKey{ID: id})
}

// EvaluateUnvalidated evaluates the extension without checking the root module's imports.
// Only tooling that repairs imports, such as tidy, should use it.
func (e *Evaluator) EvaluateUnvalidated(ctx context.Context, id domain.ModuleExtensionID) (*domain.SingleExtensionValue, error) {
	ev, err := e.evaluate(ctx, id)
	if err != nil {
		return nil, err
	}
	return ev.value, nil
}

// Evaluate evaluates the extension and fails if the root module imports a repo it doesn't generate.
func (e *Evaluator) Evaluate(ctx context.Context, id domain.ModuleExtensionID) (*domain.SingleExtensionValue, error) {
	return e.values.GetOrCompute(ctx, e.Key(id), func(ctx context.Context) (*domain.SingleExtensionValue, error) {
		ev, err := e.evaluate(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := validateImports(id, ev); err != nil {
			return nil, err
		}
		if fixup, ok := ev.value.Fixup(); ok {
			e.logger.Warn(fmt.Sprintf("imports of %s are out of date, fix with:\n  %s",
				id, strings.Join(fixup.Commands(), "\n  ")))
		}
		return ev.value, nil
	})
}

// Invalidate drops both memoized values of id.
func (e *Evaluator) Invalidate(id domain.ModuleExtensionID) {
	e.values.Invalidate(e.Key(id))
	e.evaluations.Invalidate(e.EvalKey(id))
}

func (e *Evaluator) evaluate(ctx context.Context, id domain.ModuleExtensionID) (*evaluation, error) {
	return e.evaluations.GetOrCompute(ctx, e.EvalKey(id), func(ctx context.Context) (*evaluation, error) {
		e.logger.Debug("evaluating extension " + id.String())

		res, err := e.runner.Run(ctx, id)
		if err != nil {
			if domain.IsCancelled(err) {
				return nil, err
			}
			return nil, zerr.With(fmt.Errorf("%w: %w", domain.ErrExtensionEvalFailed, err), "extension", id.String())
		}
		return e.buildEvaluation(id, res)
	})
}

func (e *Evaluator) buildEvaluation(id domain.ModuleExtensionID, res *domain.ExtensionEvalResult) (*evaluation, error) {
	canonical := make(map[string]string, len(res.GeneratedRepoSpecs))
	for internal := range res.GeneratedRepoSpecs {
		canonical[id.CanonicalRepoName(internal)] = internal
	}
	names, err := domain.NewBiMap(canonical)
	if err != nil {
		return nil, zerr.With(err, "extension", id.String())
	}

	opts := domain.SingleExtensionValueOptions{
		GeneratedRepoSpecs:              res.GeneratedRepoSpecs,
		CanonicalRepoNameToInternalName: names,
	}
	if e.mode == domain.LockfileUpdate {
		opts.LockFileInfo = domain.NewLockFileExtension(res.LockFilePayload)
	}
	if res.RootUsage != nil {
		opts.Fixup = ComputeFixup(res.Metadata, *res.RootUsage)
	}

	return &evaluation{value: domain.NewSingleExtensionValue(opts), usage: res.RootUsage}, nil
}

func validateImports(id domain.ModuleExtensionID, ev *evaluation) error {
	if ev.usage == nil {
		return nil
	}
	specs := ev.value.GeneratedRepoSpecs()
	for _, proxy := range ev.usage.Proxies {
		for _, apparent := range slices.Sorted(maps.Keys(proxy.Imports)) {
			internal := proxy.Imports[apparent]
			if _, ok := specs[internal]; ok {
				continue
			}
			err := zerr.Wrap(domain.ErrInvalidExtensionImport,
				fmt.Sprintf("%s: %q", id, internal))
			err = zerr.With(err, "apparent_name", apparent)
			return zerr.With(err, "location", proxy.Location)
		}
	}
	return nil
}
