package domain

import "maps"

// SingleExtensionValueOptions carries the parts of a SingleExtensionValue.
type SingleExtensionValueOptions struct {
	GeneratedRepoSpecs map[string]RepoSpec
	// CanonicalRepoNameToInternalName maps canonical repo names to the extension's internal names.
	CanonicalRepoNameToInternalName *BiMap[string, string]
	// LockFileInfo is set only when the lockfile is being updated.
	LockFileInfo *LockFileExtension
	// Fixup is set when the root module's use_repo calls disagree with the extension metadata.
	Fixup *RootModuleFileFixup
}

// SingleExtensionValue is the memoized result of evaluating one module extension.
// It is immutable once built.
type SingleExtensionValue struct {
	generatedRepoSpecs  map[string]RepoSpec
	canonicalToInternal *BiMap[string, string]
	lockFileInfo        *LockFileExtension
	fixup               *RootModuleFileFixup
}

// NewSingleExtensionValue builds a value from opts.
func NewSingleExtensionValue(opts SingleExtensionValueOptions) *SingleExtensionValue {
	names := opts.CanonicalRepoNameToInternalName
	if names == nil {
		names, _ = NewBiMap(map[string]string{})
	}
	return &SingleExtensionValue{
		generatedRepoSpecs:  maps.Clone(opts.GeneratedRepoSpecs),
		canonicalToInternal: names,
		lockFileInfo:        opts.LockFileInfo,
		fixup:               opts.Fixup,
	}
}

// GeneratedRepoSpecs returns a copy of the generated repos keyed by internal name.
func (v *SingleExtensionValue) GeneratedRepoSpecs() map[string]RepoSpec {
	return maps.Clone(v.generatedRepoSpecs)
}

// CanonicalRepoNameToInternalName returns the canonical <-> internal name mapping.
func (v *SingleExtensionValue) CanonicalRepoNameToInternalName() *BiMap[string, string] {
	return v.canonicalToInternal
}

// LockFileInfo returns the lockfile entry, if any.
func (v *SingleExtensionValue) LockFileInfo() (*LockFileExtension, bool) {
	return v.lockFileInfo, v.lockFileInfo != nil
}

// Fixup returns the root module fixup, if any.
func (v *SingleExtensionValue) Fixup() (*RootModuleFileFixup, bool) {
	return v.fixup, v.fixup != nil
}
