// Package dispatch selects an execution strategy for each spawn.
package dispatch

import (
	"context"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
)

var (
	_ ports.SpawnStrategy = (*PlatformFilteredStrategy)(nil)
	_ ports.SpawnStrategy = (*PlatformScopedStrategy)(nil)
)

// PlatformFilteredStrategy hides spawns targeting denied platforms from the wrapped strategy.
type PlatformFilteredStrategy struct {
	inner  ports.SpawnStrategy
	denied map[domain.InternedString]struct{}
}

// NewPlatformFiltered wraps inner so that it never claims spawns for the denied platforms.
func NewPlatformFiltered(inner ports.SpawnStrategy, denied ...domain.Platform) *PlatformFilteredStrategy {
	set := make(map[domain.InternedString]struct{}, len(denied))
	for _, p := range denied {
		set[p.Label] = struct{}{}
	}
	return &PlatformFilteredStrategy{inner: inner, denied: set}
}

// Name returns the wrapped strategy's name.
func (s *PlatformFilteredStrategy) Name() string {
	return s.inner.Name()
}

// Exec delegates to the wrapped strategy.
func (s *PlatformFilteredStrategy) Exec(
	ctx context.Context,
	spawn *domain.Spawn,
	sctx *ports.SpawnExecutionContext,
) ([]domain.SpawnResult, error) {
	return s.inner.Exec(ctx, spawn, sctx)
}

// CanExec is false for denied platforms, otherwise the wrapped strategy decides.
func (s *PlatformFilteredStrategy) CanExec(spawn *domain.Spawn, registry ports.ActionContextRegistry) bool {
	if s.isDenied(spawn) {
		return false
	}
	return s.inner.CanExec(spawn, registry)
}

// CanExecWithLegacyFallback is false for denied platforms, otherwise the wrapped strategy decides.
func (s *PlatformFilteredStrategy) CanExecWithLegacyFallback(spawn *domain.Spawn, registry ports.ActionContextRegistry) bool {
	if s.isDenied(spawn) {
		return false
	}
	return s.inner.CanExecWithLegacyFallback(spawn, registry)
}

func (s *PlatformFilteredStrategy) isDenied(spawn *domain.Spawn) bool {
	_, denied := s.denied[spawn.Platform.Label]
	return denied
}

// PlatformScopedStrategy restricts the wrapped strategy to spawns targeting one platform.
// Platforms must match exactly.
type PlatformScopedStrategy struct {
	inner    ports.SpawnStrategy
	platform domain.Platform
}

// NewPlatformScoped wraps inner so that it only claims spawns targeting platform.
func NewPlatformScoped(inner ports.SpawnStrategy, platform domain.Platform) *PlatformScopedStrategy {
	return &PlatformScopedStrategy{inner: inner, platform: platform}
}

// Name returns the wrapped strategy's name.
func (s *PlatformScopedStrategy) Name() string {
	return s.inner.Name()
}

// Exec delegates to the wrapped strategy.
func (s *PlatformScopedStrategy) Exec(
	ctx context.Context,
	spawn *domain.Spawn,
	sctx *ports.SpawnExecutionContext,
) ([]domain.SpawnResult, error) {
	return s.inner.Exec(ctx, spawn, sctx)
}

// CanExec delegates only when the spawn targets the scoped platform.
func (s *PlatformScopedStrategy) CanExec(spawn *domain.Spawn, registry ports.ActionContextRegistry) bool {
	return spawn.Platform == s.platform && s.inner.CanExec(spawn, registry)
}

// CanExecWithLegacyFallback delegates only when the spawn targets the scoped platform.
func (s *PlatformScopedStrategy) CanExecWithLegacyFallback(spawn *domain.Spawn, registry ports.ActionContextRegistry) bool {
	return spawn.Platform == s.platform && s.inner.CanExecWithLegacyFallback(spawn, registry)
}
