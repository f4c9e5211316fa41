// Package action implements the units of work the executor runs.
package action

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/fingerprint"
	"go.trai.ch/zerr"
)

// Action is an immutable description of work together with the code that performs it.
type Action interface {
	fingerprint.Keyed
	PrimaryOutput() domain.Artifact
	ProgressMessage() string
	// InputFailure describes a failure to read input in before the action could run.
	InputFailure(in domain.Artifact, err error) domain.FailureDetail
	Execute(ctx context.Context, ectx *ExecutionContext) (*Result, error)
}

// SpawnRunner runs spawns. It is implemented by *dispatch.Dispatcher.
type SpawnRunner interface {
	Exec(ctx context.Context, spawn *domain.Spawn, sctx *ports.SpawnExecutionContext) ([]domain.SpawnResult, error)
}

// ExecutionContext is the environment an action executes in.
type ExecutionContext struct {
	ExecRoot string
	Resolver ports.PathResolver
	Spawner  SpawnRunner
	Stdout   io.Writer
	Stderr   io.Writer
}

// Path returns the on-disk location of an artifact.
func (c *ExecutionContext) Path(a domain.Artifact) string {
	if c.Resolver != nil {
		return c.Resolver.Resolve(a.ExecPath.String())
	}
	return filepath.Join(c.ExecRoot, filepath.FromSlash(a.ExecPath.String()))
}

func (c *ExecutionContext) stdout() io.Writer {
	if c.Stdout == nil {
		return io.Discard
	}
	return c.Stdout
}

func (c *ExecutionContext) stderr() io.Writer {
	if c.Stderr == nil {
		return io.Discard
	}
	return c.Stderr
}

// Result is the successful outcome of an action.
type Result struct {
	Outputs      []domain.Artifact
	SpawnResults []domain.SpawnResult
}

type base struct {
	owner    domain.ActionOwner
	mnemonic string
	inputs   []domain.Artifact
	outputs  []domain.Artifact
	progress string
}

func newBase(owner domain.ActionOwner, mnemonic string, inputs, outputs []domain.Artifact, progress string) (base, error) {
	if len(outputs) == 0 {
		return base{}, zerr.With(zerr.Wrap(domain.ErrNoOutputs, domain.ErrInvalidAction.Error()), "owner", owner.String())
	}

	seen := make(map[domain.InternedString]struct{}, len(outputs))
	for _, out := range outputs {
		if !out.Valid() {
			return base{}, zerr.With(zerr.Wrap(domain.ErrInvalidAction, "invalid output path"), "output", out.String())
		}
		if _, dup := seen[out.ExecPath]; dup {
			return base{}, zerr.With(zerr.Wrap(domain.ErrDuplicateOutput, domain.ErrInvalidAction.Error()), "output", out.String())
		}
		seen[out.ExecPath] = struct{}{}
	}
	for _, in := range inputs {
		if !in.Valid() {
			return base{}, zerr.With(zerr.Wrap(domain.ErrInvalidAction, "invalid input path"), "input", in.String())
		}
	}

	return base{
		owner:    owner,
		mnemonic: mnemonic,
		inputs:   append([]domain.Artifact(nil), inputs...),
		outputs:  append([]domain.Artifact(nil), outputs...),
		progress: progress,
	}, nil
}

// Owner returns the target that created the action.
func (b *base) Owner() domain.ActionOwner { return b.owner }

// Mnemonic returns the short kind name of the action.
func (b *base) Mnemonic() string { return b.mnemonic }

// Inputs returns a copy of the ordered inputs.
func (b *base) Inputs() []domain.Artifact { return append([]domain.Artifact(nil), b.inputs...) }

// Outputs returns a copy of the outputs.
func (b *base) Outputs() []domain.Artifact { return append([]domain.Artifact(nil), b.outputs...) }

// PrimaryOutput returns the first output.
func (b *base) PrimaryOutput() domain.Artifact { return b.outputs[0] }

// ProgressMessage describes the action for humans.
func (b *base) ProgressMessage() string {
	if b.progress != "" {
		return b.progress
	}
	return b.mnemonic + " " + b.outputs[0].String()
}

// InputFailure reports an unreadable input together with the outputs it was meant to produce.
func (b *base) InputFailure(in domain.Artifact, err error) domain.FailureDetail {
	outs := make([]string, len(b.outputs))
	for i, out := range b.outputs {
		outs[i] = "'" + out.String() + "'"
	}
	return domain.FailureDetail{
		Message:  fmt.Sprintf("failed to read input '%s' of %s producing %s: %v", in, b.mnemonic, strings.Join(outs, ", "), err),
		Category: domain.CategoryInput,
		Code:     domain.CodeIOError,
	}
}
