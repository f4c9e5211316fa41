package domain

import (
	"maps"
	"slices"
	"strings"
)

// MainRepoName is the apparent repository name of the root module.
const MainRepoName = "_main"

// IsolationKey identifies one isolated usage of a module extension.
// The zero value means the usage is not isolated.
type IsolationKey struct {
	Module            string
	UsageExportedName string
}

// IsZero reports whether the key is unset.
func (k IsolationKey) IsZero() bool {
	return k == IsolationKey{}
}

// ModuleExtensionID identifies a module extension by the file defining it and its exported name.
type ModuleExtensionID struct {
	BzlFile      InternedString
	Name         InternedString
	IsolationKey IsolationKey
}

// NewModuleExtensionID creates an extension id for a non-isolated extension.
func NewModuleExtensionID(bzlFile, name string) ModuleExtensionID {
	return ModuleExtensionID{BzlFile: NewInternedString(bzlFile), Name: NewInternedString(name)}
}

// Isolated returns a copy of the id bound to an isolated usage.
func (id ModuleExtensionID) Isolated(key IsolationKey) ModuleExtensionID {
	id.IsolationKey = key
	return id
}

// String renders the id as "<bzl-file>%<name>".
func (id ModuleExtensionID) String() string {
	return id.BzlFile.String() + "%" + id.Name.String()
}

// UniqueName returns the prefix used for the canonical names of the repos the extension generates.
func (id ModuleExtensionID) UniqueName() string {
	name := repoOfLabel(id.BzlFile.String()) + "+" + id.Name.String()
	if !id.IsolationKey.IsZero() {
		name += "+" + id.IsolationKey.UsageExportedName
	}
	return name
}

// CanonicalRepoName returns the canonical name of a repo generated under internalName.
func (id ModuleExtensionID) CanonicalRepoName(internalName string) string {
	return id.UniqueName() + "+" + internalName
}

func repoOfLabel(label string) string {
	if !strings.HasPrefix(label, "@") {
		return MainRepoName
	}
	repo := strings.TrimLeft(label, "@")
	if i := strings.Index(repo, "//"); i >= 0 {
		repo = repo[:i]
	}
	if repo == "" {
		return MainRepoName
	}
	return repo
}

// UsageProxy is one proxy object a module file obtained for an extension.
type UsageProxy struct {
	// DevDependency is true when the proxy was created with dev_dependency = True.
	DevDependency bool
	// Imports maps apparent repo names to the extension's internal repo names.
	Imports map[string]string
	// Location points at the proxy in the module file, e.g. "MODULE.bazel:3:20".
	Location string
}

// ModuleExtensionUsage describes how a module uses one extension.
type ModuleExtensionUsage struct {
	ExtensionBzlFile string
	ExtensionName    string
	IsolationKey     IsolationKey
	Proxies          []UsageProxy
}

// ExtensionID returns the id of the extension this usage refers to.
func (u ModuleExtensionUsage) ExtensionID() ModuleExtensionID {
	return NewModuleExtensionID(u.ExtensionBzlFile, u.ExtensionName).Isolated(u.IsolationKey)
}

// Imports returns the union of all proxies' imports, filtered by dev dependency status.
func (u ModuleExtensionUsage) Imports(dev bool) map[string]string {
	out := make(map[string]string)
	for _, p := range u.Proxies {
		if p.DevDependency == dev {
			maps.Copy(out, p.Imports)
		}
	}
	return out
}

// RepoSpec describes how to fetch one generated repository.
type RepoSpec struct {
	RuleClass  string
	Attributes map[string]string
}

// ExtensionMetadata is what an extension reports about the repos the root module should import.
type ExtensionMetadata struct {
	// HasRootDirectDeps is set when the extension declared its root module direct deps.
	HasRootDirectDeps bool
	RootDirectDeps    []string
	RootDirectDevDeps []string
	Reproducible      bool
}

// ExtensionEvalResult is the raw output of running a module extension.
type ExtensionEvalResult struct {
	GeneratedRepoSpecs map[string]RepoSpec
	Metadata           ExtensionMetadata
	// RootUsage is the root module's usage of the extension, nil if the root module doesn't use it.
	RootUsage *ModuleExtensionUsage
	// LockFilePayload is opaque state recorded in the lockfile.
	LockFilePayload []byte
}

// LockFileExtension is the opaque lockfile entry recorded for an extension evaluation.
type LockFileExtension struct {
	payload []byte
}

// NewLockFileExtension creates a lockfile entry holding a copy of payload.
func NewLockFileExtension(payload []byte) *LockFileExtension {
	return &LockFileExtension{payload: slices.Clone(payload)}
}

// Payload returns a copy of the recorded bytes.
func (l *LockFileExtension) Payload() []byte {
	return slices.Clone(l.payload)
}

// LockfileMode controls how extension evaluations interact with the lockfile.
type LockfileMode string

const (
	// LockfileOff disables lockfile handling.
	LockfileOff LockfileMode = "off"
	// LockfileUpdate records evaluation results in the lockfile.
	LockfileUpdate LockfileMode = "update"
	// LockfileError fails when the lockfile is out of date.
	LockfileError LockfileMode = "error"
)

// ParseLockfileMode validates a lockfile mode, defaulting the empty string to update.
func ParseLockfileMode(s string) (LockfileMode, error) {
	switch LockfileMode(s) {
	case "":
		return LockfileUpdate, nil
	case LockfileOff, LockfileUpdate, LockfileError:
		return LockfileMode(s), nil
	default:
		return "", ErrInvalidLockfileMode
	}
}
