// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"go.trai.ch/kiln/internal/core/domain"
)

//go:generate mockgen -source=strategy.go -destination=mocks/mock_strategy.go -package=mocks

// SpawnExecutionContext carries per-action state into a strategy.
type SpawnExecutionContext struct {
	// ExecRoot is the directory spawns run in.
	ExecRoot string
	// Stdout receives the spawn's combined output.
	Stdout io.Writer
	// Stderr receives the spawn's error output when it is not merged into Stdout.
	Stderr io.Writer
}

// ActionContextRegistry gives strategies access to the other contexts registered for an invocation.
type ActionContextRegistry interface {
	// Lookup returns the context registered under name.
	Lookup(name string) (any, bool)
}

// SpawnStrategy is one execution backend.
type SpawnStrategy interface {
	// Name identifies the strategy in configuration and logs.
	Name() string
	// Exec runs the spawn and returns the result of every attempt.
	// A failed spawn is reported as a *domain.ExecError, an interrupted one as a *domain.CancelledError.
	Exec(ctx context.Context, spawn *domain.Spawn, sctx *SpawnExecutionContext) ([]domain.SpawnResult, error)
	// CanExec reports whether the strategy can run the spawn.
	CanExec(spawn *domain.Spawn, registry ActionContextRegistry) bool
	// CanExecWithLegacyFallback reports whether the strategy can run the spawn when legacy fallback is enabled.
	CanExecWithLegacyFallback(spawn *domain.Spawn, registry ActionContextRegistry) bool
}
