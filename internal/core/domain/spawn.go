package domain

import (
	"maps"
	"slices"
	"time"
)

// HostPlatform is the label of the platform the engine itself runs on.
const HostPlatform = "//platforms:host"

// ExecutionInfoNoLocal marks a spawn that must not run on the local machine.
const ExecutionInfoNoLocal = "no-local"

// Platform identifies an execution platform by label.
// Platforms are compared by exact label equality.
type Platform struct {
	Label InternedString
}

// NewPlatform creates a platform from its label.
func NewPlatform(label string) Platform {
	return Platform{Label: NewInternedString(label)}
}

// String returns the platform label.
func (p Platform) String() string {
	return p.Label.String()
}

// Spawn is one process invocation requested by an action.
type Spawn struct {
	Mnemonic      string
	Owner         ActionOwner
	PrimaryOutput Artifact
	Args          []string
	Env           map[string]string
	ExecutionInfo map[string]string
	Platform      Platform
	Inputs        []Artifact
	Outputs       []Artifact
}

// NewSpawn creates a spawn; argv must be non-empty.
func NewSpawn(mnemonic string, owner ActionOwner, args []string, env map[string]string, platform Platform) (*Spawn, error) {
	if len(args) == 0 || args[0] == "" {
		return nil, ErrEmptyCommand
	}
	return &Spawn{
		Mnemonic:      mnemonic,
		Owner:         owner,
		Args:          slices.Clone(args),
		Env:           maps.Clone(env),
		ExecutionInfo: map[string]string{},
		Platform:      platform,
	}, nil
}

// HasExecutionInfo reports whether the spawn carries the given execution requirement.
func (s *Spawn) HasExecutionInfo(key string) bool {
	_, ok := s.ExecutionInfo[key]
	return ok
}

// SpawnStatus is the terminal state of a single spawn attempt.
type SpawnStatus uint8

const (
	// SpawnSucceeded means the process exited with status zero.
	SpawnSucceeded SpawnStatus = iota
	// SpawnNonZeroExit means the process exited with a non-zero status.
	SpawnNonZeroExit
	// SpawnKilled means the process was terminated by a signal.
	SpawnKilled
	// SpawnExecutionFailed means the process could not be started.
	SpawnExecutionFailed
)

// String returns a short name for the status.
func (s SpawnStatus) String() string {
	switch s {
	case SpawnSucceeded:
		return "success"
	case SpawnNonZeroExit:
		return "non-zero-exit"
	case SpawnKilled:
		return "killed"
	case SpawnExecutionFailed:
		return "execution-failed"
	default:
		return "unknown"
	}
}

// SpawnResult describes one attempt at running a spawn.
type SpawnResult struct {
	Status     SpawnStatus
	ExitCode   int
	RunnerName string
	Attempt    int
	WallTime   time.Duration
}

// Succeeded reports whether the attempt succeeded.
func (r SpawnResult) Succeeded() bool {
	return r.Status == SpawnSucceeded
}
