package action

import (
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

// FromSpec builds an action from its workspace declaration.
func FromSpec(spec domain.ActionSpec) (Action, error) {
	inputs := make([]domain.Artifact, 0, len(spec.Inputs))
	for _, in := range spec.Inputs {
		inputs = append(inputs, domain.NewSourceArtifact(in))
	}
	outputs := make([]domain.Artifact, 0, len(spec.Outputs))
	for _, out := range spec.Outputs {
		outputs = append(outputs, domain.NewDerivedArtifact(out))
	}

	switch spec.Kind {
	case domain.ActionCopyFile, domain.ActionCopyDirectory:
		if len(inputs) != 1 || len(outputs) != 1 {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidAction, "copy needs exactly one input and one output"), "action", spec.Name)
		}
		var (
			a   *CopyAction
			err error
		)
		if spec.Kind == domain.ActionCopyDirectory {
			a, err = NewCopyDirectory(spec.Owner, inputs[0], outputs[0], spec.Progress)
		} else {
			a, err = NewCopyFile(spec.Owner, inputs[0], outputs[0], spec.Executable, spec.Progress)
		}
		if err != nil {
			return nil, err
		}
		return a, nil
	case domain.ActionSpawn:
		a, err := NewSpawnAction(spec.Owner, spec.Mnemonic, inputs, outputs, SpawnSpec{
			Args:          spec.Args,
			Env:           spec.Env,
			ExecutionInfo: spec.ExecutionInfo,
			Platform:      spec.Platform,
		}, spec.Progress)
		if err != nil {
			return nil, err
		}
		return a, nil
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidAction, "unknown action kind"), "kind", string(spec.Kind))
	}
}
