package ports

import (
	"context"

	"go.trai.ch/kiln/internal/core/domain"
)

// ExtensionRunner evaluates a module extension.
//
//go:generate mockgen -source=extension.go -destination=mocks/mock_extension.go -package=mocks
type ExtensionRunner interface {
	// Run evaluates the extension and returns the repos it generates together with its metadata.
	Run(ctx context.Context, id domain.ModuleExtensionID) (*domain.ExtensionEvalResult, error)
}
