package dispatch

import (
	"context"
	"fmt"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// Registry is a fixed set of named contexts shared by all strategies of one invocation.
type Registry map[string]any

// Lookup implements ports.ActionContextRegistry.
func (r Registry) Lookup(name string) (any, bool) {
	v, ok := r[name]
	return v, ok
}

// Dispatcher runs each spawn on the first strategy able to execute it.
type Dispatcher struct {
	strategies     []ports.SpawnStrategy
	registry       ports.ActionContextRegistry
	legacyFallback bool
	logger         ports.Logger
	tracer         ports.Tracer
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLegacyFallback lets strategies claim spawns through CanExecWithLegacyFallback
// when no strategy claims them through CanExec.
func WithLegacyFallback(enabled bool) Option {
	return func(d *Dispatcher) {
		d.legacyFallback = enabled
	}
}

// WithRegistry sets the context registry handed to strategies.
func WithRegistry(registry ports.ActionContextRegistry) Option {
	return func(d *Dispatcher) {
		d.registry = registry
	}
}

// NewDispatcher creates a dispatcher over strategies in priority order.
func NewDispatcher(logger ports.Logger, tracer ports.Tracer, strategies []ports.SpawnStrategy, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		strategies: strategies,
		registry:   Registry{},
		logger:     logger,
		tracer:     tracer,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Select returns the strategy that would run spawn.
func (d *Dispatcher) Select(spawn *domain.Spawn) (ports.SpawnStrategy, error) {
	for _, s := range d.strategies {
		if s.CanExec(spawn, d.registry) {
			return s, nil
		}
	}

	if d.legacyFallback {
		for _, s := range d.strategies {
			if s.CanExecWithLegacyFallback(spawn, d.registry) {
				d.logger.Debug(fmt.Sprintf("%s: falling back to strategy %s", spawn.Mnemonic, s.Name()))
				return s, nil
			}
		}
	}

	err := zerr.Wrap(domain.ErrNoApplicableStrategy, "dispatch "+spawn.Mnemonic)
	err = zerr.With(err, "platform", spawn.Platform.String())
	err = zerr.With(err, "owner", spawn.Owner.String())
	return nil, err
}

// Exec selects a strategy and runs spawn on it. Strategy errors are returned unchanged.
func (d *Dispatcher) Exec(
	ctx context.Context,
	spawn *domain.Spawn,
	sctx *ports.SpawnExecutionContext,
) ([]domain.SpawnResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewCancelledError(err)
	}

	strategy, err := d.Select(spawn)
	if err != nil {
		return nil, err
	}

	ctx, span := d.tracer.Start(ctx, "spawn "+spawn.Mnemonic,
		ports.WithAttribute("kiln.strategy", strategy.Name()),
		ports.WithAttribute("kiln.platform", spawn.Platform.String()),
	)
	defer span.End()

	d.logger.Debug(fmt.Sprintf("%s: running %s on strategy %s", spawn.Mnemonic, spawn.Owner, strategy.Name()))

	results, err := strategy.Exec(ctx, spawn, sctx)
	if err != nil {
		span.RecordError(err)
	}
	span.SetAttribute("kiln.attempts", len(results))
	return results, err
}
