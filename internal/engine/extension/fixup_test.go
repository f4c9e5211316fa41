package extension_test

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/engine/extension"
)

func usage(proxies ...domain.UsageProxy) domain.ModuleExtensionUsage {
	return domain.ModuleExtensionUsage{
		ExtensionBzlFile: "//:ext.bzl",
		ExtensionName:    "ext",
		Proxies:          proxies,
	}
}

func TestComputeFixup(t *testing.T) {
	tests := []struct {
		name       string
		meta       domain.ExtensionMetadata
		usage      domain.ModuleExtensionUsage
		goldenName string
	}{
		{
			name:       "missing imports are added",
			meta:       domain.ExtensionMetadata{HasRootDirectDeps: true, RootDirectDeps: []string{"foo", "bar"}},
			usage:      usage(),
			goldenName: "fixup_add",
		},
		{
			name: "extra imports are removed and dev deps added",
			meta: domain.ExtensionMetadata{
				HasRootDirectDeps: true,
				RootDirectDeps:    []string{"foo"},
				RootDirectDevDeps: []string{"tool"},
			},
			usage: usage(
				domain.UsageProxy{Imports: map[string]string{"foo": "foo", "old": "old_repo"}},
				domain.UsageProxy{DevDependency: true, Imports: map[string]string{}},
			),
			goldenName: "fixup_remove_and_dev",
		},
		{
			name: "repo moved to dev deps",
			meta: domain.ExtensionMetadata{HasRootDirectDeps: true, RootDirectDevDeps: []string{"x"}},
			usage: usage(
				domain.UsageProxy{Imports: map[string]string{"x": "x"}},
			),
			goldenName: "fixup_moved_to_dev",
		},
		{
			name: "isolated usage is addressed by exported name",
			meta: domain.ExtensionMetadata{HasRootDirectDeps: true, RootDirectDeps: []string{"a"}},
			usage: domain.ModuleExtensionUsage{
				ExtensionBzlFile: "//:ext.bzl",
				ExtensionName:    "ext",
				IsolationKey:     domain.IsolationKey{Module: domain.MainRepoName, UsageExportedName: "my_ext"},
			},
			goldenName: "fixup_isolated",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixup := extension.ComputeFixup(tt.meta, tt.usage)
			require.NotNil(t, fixup)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, []byte(strings.Join(fixup.Commands(), "\n")+"\n"))
		})
	}
}

func TestComputeFixup_NoFixup(t *testing.T) {
	correct := usage(
		domain.UsageProxy{Imports: map[string]string{"my_foo": "foo"}},
		domain.UsageProxy{DevDependency: true, Imports: map[string]string{"tool": "tool"}},
	)
	meta := domain.ExtensionMetadata{
		HasRootDirectDeps: true,
		RootDirectDeps:    []string{"foo"},
		RootDirectDevDeps: []string{"tool"},
	}
	assert.Nil(t, extension.ComputeFixup(meta, correct))

	undeclared := domain.ExtensionMetadata{RootDirectDeps: []string{"other"}}
	assert.Nil(t, extension.ComputeFixup(undeclared, correct))
}

func TestComputeFixup_SuccessMessage(t *testing.T) {
	meta := domain.ExtensionMetadata{HasRootDirectDeps: true, RootDirectDeps: []string{"a"}}

	fixup := extension.ComputeFixup(meta, usage())
	require.NotNil(t, fixup)
	assert.Equal(t, "Updated use_repo calls for //:ext.bzl%ext", fixup.SuccessMessage())

	isolated := usage()
	isolated.IsolationKey = domain.IsolationKey{Module: domain.MainRepoName, UsageExportedName: "my_ext"}
	fixup = extension.ComputeFixup(meta, isolated)
	require.NotNil(t, fixup)
	assert.Equal(t, "Updated use_repo calls for isolated usage 'my_ext' of //:ext.bzl%ext", fixup.SuccessMessage())
}
