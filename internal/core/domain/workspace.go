package domain

import "time"

// ActionKind selects the implementation of a declared action.
type ActionKind string

const (
	// ActionCopyFile copies a single file.
	ActionCopyFile ActionKind = "copy"
	// ActionCopyDirectory copies a directory tree.
	ActionCopyDirectory ActionKind = "copy-dir"
	// ActionSpawn runs a command.
	ActionSpawn ActionKind = "spawn"
)

// ActionSpec is an action declared in the workspace file.
type ActionSpec struct {
	Name          string
	Kind          ActionKind
	Owner         ActionOwner
	Mnemonic      string
	Inputs        []string
	Outputs       []string
	Executable    bool
	Args          []string
	Env           map[string]string
	ExecutionInfo map[string]string
	Platform      Platform
	Progress      string
}

// StrategySpec configures one execution strategy in priority order.
type StrategySpec struct {
	Name string
	// Platform restricts the strategy to spawns targeting exactly this platform.
	Platform string
	// Deny excludes spawns targeting any of these platforms.
	Deny []string
}

// ExecutionSettings configures dispatch and the local backend.
type ExecutionSettings struct {
	Jobs           int
	LegacyFallback bool
	LocalAttempts  int
	Strategies     []StrategySpec
}

// ProbeMode selects how resource usage is read.
type ProbeMode string

const (
	// ProbeProcess reads the resident set size of each process.
	ProbeProcess ProbeMode = "process"
	// ProbeCgroup reads the memory usage of each process's cgroup.
	ProbeCgroup ProbeMode = "cgroup"
)

// ResourceSettings configures resource sampling.
type ResourceSettings struct {
	Interval  time.Duration
	ProbeMode ProbeMode
}

// DeclaredExtension is a module extension whose evaluation is declared in the workspace file.
type DeclaredExtension struct {
	ID     ModuleExtensionID
	Result ExtensionEvalResult
}

// Workspace is the loaded workspace configuration.
type Workspace struct {
	Root         string
	ExecRoot     string
	LockfileMode LockfileMode
	Execution    ExecutionSettings
	Resources    ResourceSettings
	Actions      []ActionSpec
	Extensions   []DeclaredExtension
}

// Action returns the declared action with the given name.
func (w *Workspace) Action(name string) (ActionSpec, bool) {
	for _, a := range w.Actions {
		if a.Name == name {
			return a, true
		}
	}
	return ActionSpec{}, false
}
