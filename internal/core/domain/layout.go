package domain

const (
	// ConfigFileName is the name of the workspace configuration file.
	ConfigFileName = "kiln.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// ExecutablePerm is the permission given to executable outputs (rwxr-xr-x).
	ExecutablePerm = 0o755
)
