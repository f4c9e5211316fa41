package domain

import (
	"fmt"
	"slices"
)

// RootModuleFileFixup is a set of buildozer commands that bring the root module's
// use_repo calls in line with what an extension reports.
type RootModuleFileFixup struct {
	commands []string
	usage    ModuleExtensionUsage
}

// NewRootModuleFileFixup creates a fixup for the given usage.
func NewRootModuleFileFixup(commands []string, usage ModuleExtensionUsage) *RootModuleFileFixup {
	return &RootModuleFileFixup{commands: slices.Clone(commands), usage: usage}
}

// Commands returns the buildozer commands in application order.
func (f *RootModuleFileFixup) Commands() []string {
	return slices.Clone(f.commands)
}

// Usage returns the usage the fixup applies to.
func (f *RootModuleFileFixup) Usage() ModuleExtensionUsage {
	return f.usage
}

// SuccessMessage is reported after the commands have been applied.
func (f *RootModuleFileFixup) SuccessMessage() string {
	extensionID := f.usage.ExtensionBzlFile + "%" + f.usage.ExtensionName
	if f.usage.IsolationKey.IsZero() {
		return "Updated use_repo calls for " + extensionID
	}
	return fmt.Sprintf("Updated use_repo calls for isolated usage '%s' of %s",
		f.usage.IsolationKey.UsageExportedName, extensionID)
}
