// Package app implements the application layer for kiln.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/jonboulle/clockwork"
	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/adapters/local"
	"go.trai.ch/kiln/internal/adapters/metrics"
	"go.trai.ch/kiln/internal/adapters/procfs"
	"go.trai.ch/kiln/internal/adapters/watcher"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/action"
	"go.trai.ch/kiln/internal/engine/dispatch"
	"go.trai.ch/kiln/internal/engine/executor"
	"go.trai.ch/kiln/internal/engine/resource"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// ProbeFactory builds resource probes for processes.
type ProbeFactory interface {
	ports.ProbeFactory
	Probes(pids ...int) map[int64]ports.ResourceProbe
}

// ProbeFactoryFunc creates a ProbeFactory for the given mode.
type ProbeFactoryFunc func(mode domain.ProbeMode) (ProbeFactory, error)

// WatcherFunc creates a file watcher for one watch session.
type WatcherFunc func() (ports.Watcher, error)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	executor     *executor.Executor
	collector    *resource.Collector
	logger       ports.Logger
	tracer       ports.Tracer
	renderer     ports.Renderer
	metrics      *metrics.Metrics

	stdout     io.Writer
	clock      clockwork.Clock
	probes     ProbeFactoryFunc
	newWatcher WatcherFunc
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	exec *executor.Executor,
	collector *resource.Collector,
	log ports.Logger,
	tracer ports.Tracer,
	renderer ports.Renderer,
	m *metrics.Metrics,
) *App {
	return &App{
		configLoader: loader,
		executor:     exec,
		collector:    collector,
		logger:       log,
		tracer:       tracer,
		renderer:     renderer,
		metrics:      m,
		stdout:       os.Stdout,
		clock:        clockwork.NewRealClock(),
		probes: func(mode domain.ProbeMode) (ProbeFactory, error) {
			f, err := procfs.NewDefaultFactory(mode)
			if err != nil {
				return nil, err
			}
			return f, nil
		},
		newWatcher: func() (ports.Watcher, error) {
			w, err := watcher.NewWatcher(log)
			if err != nil {
				return nil, err
			}
			return w, nil
		},
	}
}

// WithOutput sets where command results such as fixup commands and samples are printed.
func (a *App) WithOutput(w io.Writer) *App {
	a.stdout = w
	return a
}

// WithClock replaces the clock used for sampling.
func (a *App) WithClock(c clockwork.Clock) *App {
	a.clock = c
	return a
}

// WithProbeFactory replaces how resource probes are created.
// This is primarily used for testing against a fake proc filesystem.
func (a *App) WithProbeFactory(fn ProbeFactoryFunc) *App {
	a.probes = fn
	return a
}

// WithWatcher replaces how file watchers are created.
func (a *App) WithWatcher(fn WatcherFunc) *App {
	a.newWatcher = fn
	return a
}

// Configure applies the global output flags to the logger.
func (a *App) Configure(verbose, jsonOutput bool) {
	type configurable interface {
		SetVerbose(enable bool)
		SetJSON(enable bool)
	}
	if l, ok := a.logger.(configurable); ok {
		l.SetVerbose(verbose)
		l.SetJSON(jsonOutput)
	}
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	// Jobs bounds how many actions run at once. Zero selects the workspace setting.
	Jobs int
	// Watch keeps running and re-executes actions whose inputs change.
	Watch bool
	// Metrics prints the collected metrics when the run ends.
	Metrics bool
}

// Run executes the named actions declared in the workspace.
func (a *App) Run(ctx context.Context, actionNames []string, opts RunOptions) error {
	// 1. Validate arguments
	if len(actionNames) == 0 {
		return domain.ErrNoActionsSpecified
	}

	// 2. Load the workspace
	ws, err := a.configLoader.Load(".")
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	actions, err := resolveActions(ws, actionNames)
	if err != nil {
		return err
	}

	// 3. Build the strategy chain
	strategy := local.New(a.logger, a.probeFactory(ws.Resources.ProbeMode),
		local.WithAttempts(ws.Execution.LocalAttempts))

	strategies, err := buildStrategies(ws.Execution.Strategies, strategy)
	if err != nil {
		return err
	}
	dispatcher := dispatch.NewDispatcher(a.logger, a.tracer, strategies,
		dispatch.WithLegacyFallback(ws.Execution.LegacyFallback),
		dispatch.WithRegistry(dispatch.Registry{local.StrategyName: strategy}),
	)

	ectx := &action.ExecutionContext{
		ExecRoot: ws.ExecRoot,
		Resolver: fs.NewResolver(ws.ExecRoot),
		Spawner:  dispatcher,
	}
	jobs := resolveJobs(opts.Jobs, ws.Execution.Jobs)

	// 4. Run the sampler and the build concurrently
	sampler := resource.NewSampler(a.collector, strategy, a.clock, ws.Resources.Interval, a.metrics)

	g, ctx := errgroup.WithContext(ctx)
	samplerCtx, stopSampler := context.WithCancel(ctx)

	g.Go(func() error {
		sampler.Run(samplerCtx)
		return nil
	})

	g.Go(func() error {
		defer stopSampler()

		build := func(ctx context.Context) error {
			return a.build(ctx, actions, ectx, jobs)
		}
		if !opts.Watch {
			return build(ctx)
		}
		return a.watch(ctx, ws.Root, build)
	})

	err = g.Wait()
	if opts.Metrics {
		if werr := a.metrics.WriteText(a.stdout); werr != nil {
			a.logger.Error(werr)
		}
	}
	return err
}

func (a *App) build(ctx context.Context, actions []action.Action, ectx *action.ExecutionContext, jobs int) error {
	defer func() {
		_ = a.renderer.Stop()
	}()

	reports, err := a.executor.ExecuteAll(ctx, actions, ectx, jobs)
	a.logger.Debug(summarize(reports))
	if err == nil {
		return nil
	}
	if ctx.Err() != nil && domain.IsCancelled(err) {
		return domain.NewCancelledError(ctx.Err())
	}
	return errors.Join(domain.ErrBuildExecutionFailed, err)
}

func (a *App) probeFactory(mode domain.ProbeMode) ports.ProbeFactory {
	f, err := a.probes(mode)
	if err != nil {
		a.logger.Warn("resource sampling disabled: " + err.Error())
		return nil
	}
	return f
}

// buildStrategies turns the configured chain into strategies in priority order.
// An empty chain runs everything locally.
func buildStrategies(specs []domain.StrategySpec, localStrategy ports.SpawnStrategy) ([]ports.SpawnStrategy, error) {
	if len(specs) == 0 {
		return []ports.SpawnStrategy{localStrategy}, nil
	}

	strategies := make([]ports.SpawnStrategy, 0, len(specs))
	for _, spec := range specs {
		var s ports.SpawnStrategy
		switch spec.Name {
		case local.StrategyName:
			s = localStrategy
		default:
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidStrategy, "unknown strategy"), "strategy", spec.Name)
		}

		if len(spec.Deny) > 0 {
			denied := make([]domain.Platform, 0, len(spec.Deny))
			for _, label := range spec.Deny {
				denied = append(denied, domain.NewPlatform(label))
			}
			s = dispatch.NewPlatformFiltered(s, denied...)
		}
		if spec.Platform != "" {
			s = dispatch.NewPlatformScoped(s, domain.NewPlatform(spec.Platform))
		}
		strategies = append(strategies, s)
	}
	return strategies, nil
}

func resolveActions(ws *domain.Workspace, names []string) ([]action.Action, error) {
	actions := make([]action.Action, 0, len(names))
	for _, name := range names {
		spec, ok := ws.Action(name)
		if !ok {
			return nil, zerr.With(zerr.Wrap(domain.ErrActionNotFound, "unknown action"), "action", name)
		}
		a, err := action.FromSpec(spec)
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, nil
}

func resolveJobs(flag, configured int) int {
	switch {
	case flag > 0:
		return flag
	case configured > 0:
		return configured
	default:
		return runtime.NumCPU()
	}
}

func summarize(reports []executor.Report) string {
	counts := make(map[executor.Status]int, 4)
	for _, r := range reports {
		counts[r.Status]++
	}
	return fmt.Sprintf("%d action(s): %d completed, %d cached, %d failed, %d cancelled",
		len(reports),
		counts[executor.StatusCompleted],
		counts[executor.StatusCached],
		counts[executor.StatusFailed],
		counts[executor.StatusCancelled],
	)
}
