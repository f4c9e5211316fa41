package action

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/fingerprint"
	"go.trai.ch/zerr"
)

const spawnActionGUID = "5e0f9b7a-3d21-4c6e-8a4f-c2b91d07e6f3"

// SpawnSpec describes the process a spawn action runs.
type SpawnSpec struct {
	Args          []string
	Env           map[string]string
	ExecutionInfo map[string]string
	Platform      domain.Platform
}

// SpawnAction runs a single command through the dispatcher.
type SpawnAction struct {
	base
	spec SpawnSpec
}

// NewSpawnAction creates a spawn action. The argv must be non-empty.
func NewSpawnAction(
	owner domain.ActionOwner,
	mnemonic string,
	inputs, outputs []domain.Artifact,
	spec SpawnSpec,
	progress string,
) (*SpawnAction, error) {
	if len(spec.Args) == 0 || spec.Args[0] == "" {
		return nil, zerr.With(zerr.Wrap(domain.ErrEmptyCommand, domain.ErrInvalidAction.Error()), "owner", owner.String())
	}
	if mnemonic == "" {
		mnemonic = "Spawn"
	}
	if spec.Platform.Label.IsZero() {
		spec.Platform = domain.NewPlatform(domain.HostPlatform)
	}

	b, err := newBase(owner, mnemonic, inputs, outputs, progress)
	if err != nil {
		return nil, err
	}

	return &SpawnAction{
		base: b,
		spec: SpawnSpec{
			Args:          slices.Clone(spec.Args),
			Env:           maps.Clone(spec.Env),
			ExecutionInfo: maps.Clone(spec.ExecutionInfo),
			Platform:      spec.Platform,
		},
	}, nil
}

// Platform returns the platform the spawn targets.
func (a *SpawnAction) Platform() domain.Platform {
	return a.spec.Platform
}

// AddToKey adds the command line, environment, execution info and platform.
func (a *SpawnAction) AddToKey(fp *fingerprint.Fingerprint) {
	fp.AddString(spawnActionGUID)
	fp.AddStrings(a.spec.Args)
	fp.AddStringMap(a.spec.Env)
	fp.AddStringMap(a.spec.ExecutionInfo)
	fp.AddString(a.spec.Platform.String())
}

// Spawn builds the spawn handed to the dispatcher.
func (a *SpawnAction) Spawn() (*domain.Spawn, error) {
	spawn, err := domain.NewSpawn(a.mnemonic, a.owner, a.spec.Args, a.spec.Env, a.spec.Platform)
	if err != nil {
		return nil, err
	}
	maps.Copy(spawn.ExecutionInfo, a.spec.ExecutionInfo)
	spawn.PrimaryOutput = a.PrimaryOutput()
	spawn.Inputs = a.Inputs()
	spawn.Outputs = a.Outputs()
	return spawn, nil
}

// Execute runs the spawn and checks that every declared output was created.
func (a *SpawnAction) Execute(ctx context.Context, ectx *ExecutionContext) (*Result, error) {
	if ectx.Spawner == nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrNoApplicableStrategy, "no dispatcher"), "mnemonic", a.mnemonic)
	}

	spawn, err := a.Spawn()
	if err != nil {
		return nil, err
	}

	results, err := ectx.Spawner.Exec(ctx, spawn, &ports.SpawnExecutionContext{
		ExecRoot: ectx.ExecRoot,
		Stdout:   ectx.stdout(),
		Stderr:   ectx.stderr(),
	})
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, out := range a.outputs {
		if _, statErr := os.Stat(ectx.Path(out)); statErr != nil {
			if !errors.Is(statErr, os.ErrNotExist) {
				return nil, zerr.With(zerr.Wrap(statErr, "failed to stat output"), "output", out.String())
			}
			missing = append(missing, out.String())
		}
	}
	if len(missing) > 0 {
		return nil, domain.NewExecError(domain.FailureDetail{
			Message:  fmt.Sprintf("%s did not create declared outputs: %v", a.mnemonic, missing),
			Category: domain.CategorySpawn,
			Code:     domain.CodeOutputsMissing,
		}, nil, results...)
	}

	return &Result{Outputs: a.Outputs(), SpawnResults: results}, nil
}
