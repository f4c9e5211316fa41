package domain

import (
	"path"
	"strings"
)

// TargetType describes what kind of filesystem entry an action produces.
type TargetType uint8

const (
	// TargetFile is a regular, non-executable file.
	TargetFile TargetType = iota
	// TargetExecutable is a regular file with the executable bits set.
	TargetExecutable
	// TargetDirectory is a directory tree.
	TargetDirectory
)

// String returns the lowercase name of the target type.
func (t TargetType) String() string {
	switch t {
	case TargetFile:
		return "file"
	case TargetExecutable:
		return "executable"
	case TargetDirectory:
		return "directory"
	default:
		return "unknown"
	}
}

// Artifact is a file or directory addressed by its path relative to the exec root.
type Artifact struct {
	ExecPath InternedString
	Source   bool
}

// NewSourceArtifact creates an artifact that is read from the workspace.
func NewSourceArtifact(execPath string) Artifact {
	return Artifact{ExecPath: NewInternedString(cleanExecPath(execPath)), Source: true}
}

// NewDerivedArtifact creates an artifact that is produced by an action.
func NewDerivedArtifact(execPath string) Artifact {
	return Artifact{ExecPath: NewInternedString(cleanExecPath(execPath))}
}

// String returns the exec path.
func (a Artifact) String() string {
	return a.ExecPath.String()
}

// Valid reports whether the artifact has a usable, root-relative path.
func (a Artifact) Valid() bool {
	p := a.ExecPath.String()
	return p != "" && p != "." && !path.IsAbs(p) && p != ".." && !strings.HasPrefix(p, "../")
}

func cleanExecPath(p string) string {
	if p == "" {
		return ""
	}
	return path.Clean(strings.ReplaceAll(p, "\\", "/"))
}
