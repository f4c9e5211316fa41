package config

import (
	"context"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ExtensionRunner = (*StaticRunner)(nil)

// StaticRunner answers extension evaluations with the results declared in the workspace file.
type StaticRunner struct {
	results map[domain.ModuleExtensionID]domain.ExtensionEvalResult
}

// NewStaticRunner creates a runner over the workspace's declared extensions.
func NewStaticRunner(ws *domain.Workspace) *StaticRunner {
	results := make(map[domain.ModuleExtensionID]domain.ExtensionEvalResult, len(ws.Extensions))
	for _, ext := range ws.Extensions {
		results[ext.ID] = ext.Result
	}
	return &StaticRunner{results: results}
}

// Run returns the declared result for id.
func (r *StaticRunner) Run(ctx context.Context, id domain.ModuleExtensionID) (*domain.ExtensionEvalResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewCancelledError(err)
	}

	result, ok := r.results[id]
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrExtensionNotFound, "no declared evaluation"), "extension", id.String())
	}
	return &result, nil
}
