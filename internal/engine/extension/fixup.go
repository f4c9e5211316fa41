package extension

import (
	"slices"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
)

// ComputeFixup compares the repos an extension says the root module should import with
// the repos the usage actually imports. It returns nil when the imports are correct or
// the extension declared no root module direct deps.
//
// Removals come before additions so that a repo moving between the dev and non-dev
// lists is never imported twice.
func ComputeFixup(meta domain.ExtensionMetadata, usage domain.ModuleExtensionUsage) *domain.RootModuleFileFixup {
	if !meta.HasRootDirectDeps {
		return nil
	}

	removeProd, addProd := diffImports(usage.Imports(false), meta.RootDirectDeps)
	removeDev, addDev := diffImports(usage.Imports(true), meta.RootDirectDevDeps)

	ref := extensionRef(usage)
	var commands []string
	commands = appendCommand(commands, "use_repo_remove", false, ref, removeProd)
	commands = appendCommand(commands, "use_repo_remove", true, ref, removeDev)
	commands = appendCommand(commands, "use_repo_add", false, ref, addProd)
	commands = appendCommand(commands, "use_repo_add", true, ref, addDev)

	if len(commands) == 0 {
		return nil
	}
	return domain.NewRootModuleFileFixup(commands, usage)
}

// diffImports returns the apparent names to remove and the repos to add.
func diffImports(imports map[string]string, expected []string) (remove, add []string) {
	want := make(map[string]struct{}, len(expected))
	for _, name := range expected {
		want[name] = struct{}{}
	}

	have := make(map[string]struct{}, len(imports))
	for apparent, internal := range imports {
		have[internal] = struct{}{}
		if _, ok := want[internal]; !ok {
			remove = append(remove, apparent)
		}
	}
	for name := range want {
		if _, ok := have[name]; !ok {
			add = append(add, name)
		}
	}

	slices.Sort(remove)
	slices.Sort(add)
	return remove, add
}

func extensionRef(usage domain.ModuleExtensionUsage) string {
	if !usage.IsolationKey.IsZero() {
		return usage.IsolationKey.UsageExportedName
	}
	return usage.ExtensionBzlFile + " " + usage.ExtensionName
}

func appendCommand(commands []string, verb string, dev bool, ref string, repos []string) []string {
	if len(repos) == 0 {
		return commands
	}
	parts := []string{verb}
	if dev {
		parts = append(parts, "dev")
	}
	parts = append(parts, ref)
	parts = append(parts, repos...)
	return append(commands, strings.Join(parts, " "))
}

// AllFixups returns the fixups of values in their given order, skipping values without one.
func AllFixups(values []*domain.SingleExtensionValue) []*domain.RootModuleFileFixup {
	var out []*domain.RootModuleFileFixup
	for _, v := range values {
		if f, ok := v.Fixup(); ok {
			out = append(out, f)
		}
	}
	return out
}
