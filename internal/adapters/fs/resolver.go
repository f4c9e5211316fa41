package fs

import (
	"path/filepath"

	"go.trai.ch/kiln/internal/core/ports"
)

var _ ports.PathResolver = (*Resolver)(nil)

// Resolver maps exec paths below a fixed exec root to absolute paths.
type Resolver struct {
	execRoot string
}

// NewResolver creates a Resolver for execRoot.
func NewResolver(execRoot string) *Resolver {
	return &Resolver{execRoot: execRoot}
}

// Resolve joins execPath onto the exec root. Absolute paths are returned cleaned.
func (r *Resolver) Resolve(execPath string) string {
	if filepath.IsAbs(execPath) {
		return filepath.Clean(execPath)
	}
	return filepath.Join(r.execRoot, filepath.FromSlash(execPath))
}
