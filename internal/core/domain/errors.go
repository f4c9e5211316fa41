package domain

import "go.trai.ch/zerr"

var (
	// ErrInvalidAction is returned when an action description is malformed.
	ErrInvalidAction = zerr.New("invalid action")

	// ErrNoOutputs is returned when an action declares no outputs.
	ErrNoOutputs = zerr.New("action must declare at least one output")

	// ErrDuplicateOutput is returned when an action declares the same output twice.
	ErrDuplicateOutput = zerr.New("duplicate action output")

	// ErrEmptyCommand is returned when a spawn has no arguments.
	ErrEmptyCommand = zerr.New("spawn has an empty command line")

	// ErrNoApplicableStrategy is returned when no registered strategy can execute a spawn.
	ErrNoApplicableStrategy = zerr.New("no applicable execution strategy")

	// ErrActionExecutionFailed is returned when an action fails.
	ErrActionExecutionFailed = zerr.New("action execution failed")

	// ErrActionNotFound is returned when a requested action is not declared in the workspace.
	ErrActionNotFound = zerr.New("action not found")

	// ErrSpawnFailed is returned when a spawn could not be started.
	ErrSpawnFailed = zerr.New("failed to start spawn")

	// ErrInputDigestFailed is returned when an input's content digest cannot be computed.
	ErrInputDigestFailed = zerr.New("failed to compute input digest")

	// ErrInvalidExtensionImport is returned when a usage imports a repo its extension does not generate.
	ErrInvalidExtensionImport = zerr.New("module extension does not generate imported repository")

	// ErrExtensionNotFound is returned when an extension has no known evaluation.
	ErrExtensionNotFound = zerr.New("module extension not found")

	// ErrExtensionEvalFailed is returned when running a module extension fails.
	ErrExtensionEvalFailed = zerr.New("module extension evaluation failed")

	// ErrDuplicateMapping is returned when a bidirectional map would map two keys to one value.
	ErrDuplicateMapping = zerr.New("bidirectional map entries must be unique")

	// ErrInvalidLockfileMode is returned for an unknown lockfile mode.
	ErrInvalidLockfileMode = zerr.New("invalid lockfile mode, expected 'off', 'update' or 'error'")

	// ErrInvalidProbeMode is returned for an unknown resource probe mode.
	ErrInvalidProbeMode = zerr.New("invalid probe mode, expected 'process' or 'cgroup'")

	// ErrProcessNotFound is returned when a probed process or group no longer exists.
	ErrProcessNotFound = zerr.New("process not found")

	// ErrNoMemoryCgroup is returned when a process belongs to no cgroup with memory accounting.
	ErrNoMemoryCgroup = zerr.New("no memory cgroup for process")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigNotFound is returned when the config file cannot be found.
	ErrConfigNotFound = zerr.New("could not find kiln.yaml")

	// ErrInvalidStrategy is returned when a configured strategy is unknown or malformed.
	ErrInvalidStrategy = zerr.New("invalid execution strategy")

	// ErrBuildExecutionFailed is returned when one or more actions of a run failed.
	ErrBuildExecutionFailed = zerr.New("build execution failed")

	// ErrNoActionsSpecified is returned when the run command is given no actions.
	ErrNoActionsSpecified = zerr.New("no actions specified")

	// ErrNoProcessesSpecified is returned when the sample command is given no pids.
	ErrNoProcessesSpecified = zerr.New("no processes specified")

	// ErrUseRepoOutOfDate is returned by a tidy check when use_repo calls need fixing.
	ErrUseRepoOutOfDate = zerr.New("use_repo calls are out of date")
)
