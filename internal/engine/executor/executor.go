// Package executor runs actions through the memo store, skipping work whose key is unchanged.
package executor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/action"
	"go.trai.ch/kiln/internal/engine/fingerprint"
	"go.trai.ch/kiln/internal/engine/memo"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Status is the terminal state of an action within one run.
type Status string

const (
	// StatusCompleted indicates the action was executed successfully.
	StatusCompleted Status = "Completed"
	// StatusCached indicates the memoized result was reused.
	StatusCached Status = "Cached"
	// StatusFailed indicates the action failed.
	StatusFailed Status = "Failed"
	// StatusCancelled indicates the action was interrupted.
	StatusCancelled Status = "Cancelled"
)

// Report describes how one action ended.
type Report struct {
	Action action.Action
	Key    *domain.ActionKey
	Status Status
	Result *action.Result
	Err    error
}

// Executor memoizes action results by content key.
type Executor struct {
	logger ports.Logger
	tracer ports.Tracer
	inputs ports.InputMetadataProvider

	keys  *memo.Interner[domain.ActionKey]
	store *memo.Store[domain.ActionKey, *action.Result]

	mu     sync.Mutex
	byPath map[string]map[*domain.ActionKey]struct{}
}

type options struct {
	inputs   ports.InputMetadataProvider
	observer ports.CacheObserver
}

// Option configures an Executor.
type Option func(*options)

// WithInputMetadata mixes input content digests into every action key.
func WithInputMetadata(p ports.InputMetadataProvider) Option {
	return func(o *options) {
		o.inputs = p
	}
}

// WithObserver reports memo hits and misses.
func WithObserver(obs ports.CacheObserver) Option {
	return func(o *options) {
		o.observer = obs
	}
}

// New creates an Executor with its own interner and store.
func New(logger ports.Logger, tracer ports.Tracer, opts ...Option) *Executor {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var storeOpts []memo.Option
	if o.observer != nil {
		storeOpts = append(storeOpts, memo.WithObserver(o.observer))
	}

	return &Executor{
		logger: logger,
		tracer: tracer,
		inputs: o.inputs,
		keys:   memo.NewInterner[domain.ActionKey](),
		store:  memo.NewStore[domain.ActionKey, *action.Result](storeOpts...),
		byPath: make(map[string]map[*domain.ActionKey]struct{}),
	}
}

// Key computes the canonical key of an action in the given context.
func (e *Executor) Key(a action.Action, ectx *action.ExecutionContext) (*domain.ActionKey, error) {
	var digests []fingerprint.InputDigest
	if e.inputs != nil {
		inputs := a.Inputs()
		digests = make([]fingerprint.InputDigest, 0, len(inputs))
		for _, in := range inputs {
			d, err := e.inputs.Digest(ectx.Path(in))
			if err != nil {
				return nil, domain.NewExecError(a.InputFailure(in, err),
					fmt.Errorf("%w: %w", domain.ErrInputDigestFailed, err))
			}
			digests = append(digests, fingerprint.InputDigest{Path: in.String(), Digest: d})
		}
	}

	digest := fingerprint.ForAction(a, digests)
	return e.keys.Intern(domain.ActionKey{Mnemonic: a.Mnemonic(), Digest: digest.Hex()}), nil
}

// Execute returns the memoized result of a, running it when no result is stored.
func (e *Executor) Execute(ctx context.Context, a action.Action, ectx *action.ExecutionContext) (*action.Result, error) {
	report := e.execute(ctx, a, ectx)
	return report.Result, report.Err
}

func (e *Executor) execute(ctx context.Context, a action.Action, ectx *action.ExecutionContext) Report {
	report := Report{Action: a}

	ctx, span := e.tracer.Start(ctx, a.ProgressMessage(),
		ports.WithAttribute("kiln.mnemonic", a.Mnemonic()),
		ports.WithAttribute("kiln.owner", a.Owner().String()),
	)
	defer span.End()

	key, err := e.Key(a, ectx)
	if err != nil {
		span.RecordError(err)
		report.Status, report.Err = StatusFailed, err
		return report
	}
	report.Key = key
	e.index(a, ectx, key)
	span.SetAttribute("kiln.key", key.Digest)

	out := *ectx
	if out.Stdout == nil {
		out.Stdout = span
	}
	if out.Stderr == nil {
		out.Stderr = span
	}

	computed := false
	res, err := e.store.GetOrCompute(ctx, key, func(ctx context.Context) (*action.Result, error) {
		computed = true
		e.logger.Debug(fmt.Sprintf("executing %s (%s)", a.ProgressMessage(), key))
		return a.Execute(ctx, &out)
	})
	span.SetAttribute("kiln.cached", !computed && err == nil)

	switch {
	case err == nil && computed:
		report.Status = StatusCompleted
	case err == nil:
		report.Status = StatusCached
	case domain.IsCancelled(err):
		report.Status = StatusCancelled
	default:
		report.Status = StatusFailed
		span.RecordError(err)
	}
	report.Result, report.Err = res, err
	return report
}

// ExecuteAll runs independent actions with at most jobs running at once.
// A failing action does not stop the others; all failures are joined.
func (e *Executor) ExecuteAll(
	ctx context.Context,
	actions []action.Action,
	ectx *action.ExecutionContext,
	jobs int,
) ([]Report, error) {
	if len(actions) == 0 {
		return nil, domain.ErrNoActionsSpecified
	}
	if jobs < 1 {
		jobs = 1
	}

	names := make([]string, 0, len(actions))
	for _, a := range actions {
		names = append(names, a.ProgressMessage())
	}
	e.tracer.EmitPlan(ctx, names)

	reports := make([]Report, len(actions))
	var g errgroup.Group
	g.SetLimit(jobs)
	for i, a := range actions {
		g.Go(func() error {
			reports[i] = e.execute(ctx, a, ectx)
			return nil
		})
	}
	_ = g.Wait()

	var errs error
	for _, r := range reports {
		if r.Err == nil {
			continue
		}
		errs = errors.Join(errs, zerr.With(zerr.Wrap(r.Err, "action execution failed"), "action", r.Action.ProgressMessage()))
	}
	return reports, errs
}

// Invalidate drops the memoized result for key.
func (e *Executor) Invalidate(key *domain.ActionKey) {
	e.store.Invalidate(key)
}

// InvalidatePaths drops every memoized result whose action reads one of paths,
// or a file below one of them. It returns the number of keys invalidated.
func (e *Executor) InvalidatePaths(paths []string) int {
	e.mu.Lock()
	var stale []*domain.ActionKey
	for input, keys := range e.byPath {
		if !slices.ContainsFunc(paths, func(p string) bool { return within(filepath.Clean(p), input) }) {
			continue
		}
		for k := range keys {
			stale = append(stale, k)
		}
		delete(e.byPath, input)
	}
	e.mu.Unlock()

	for _, k := range stale {
		e.store.Invalidate(k)
	}
	if len(stale) > 0 {
		e.logger.Debug(fmt.Sprintf("invalidated %d memoized actions", len(stale)))
	}
	return len(stale)
}

// Len returns the number of memoized results.
func (e *Executor) Len() int {
	return e.store.Len()
}

func (e *Executor) index(a action.Action, ectx *action.ExecutionContext, key *domain.ActionKey) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, in := range a.Inputs() {
		p := filepath.Clean(ectx.Path(in))
		keys, ok := e.byPath[p]
		if !ok {
			keys = make(map[*domain.ActionKey]struct{})
			e.byPath[p] = keys
		}
		keys[key] = struct{}{}
	}
}

// within reports whether changed is input or lies below it.
func within(changed, input string) bool {
	return changed == input || strings.HasPrefix(changed, input+string(filepath.Separator))
}
