package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/app"
	"go.trai.ch/kiln/internal/core/domain"
)

func extensionWorkspace(t *testing.T, usage domain.ModuleExtensionUsage) *domain.Workspace {
	t.Helper()
	id := domain.NewModuleExtensionID(usage.ExtensionBzlFile, usage.ExtensionName)
	if !usage.IsolationKey.IsZero() {
		id = id.Isolated(usage.IsolationKey)
	}

	return &domain.Workspace{
		Root:         t.TempDir(),
		LockfileMode: domain.LockfileOff,
		Extensions: []domain.DeclaredExtension{{
			ID: id,
			Result: domain.ExtensionEvalResult{
				GeneratedRepoSpecs: map[string]domain.RepoSpec{
					"foo": {RuleClass: "http_archive"},
					"bar": {RuleClass: "http_archive"},
				},
				Metadata: domain.ExtensionMetadata{
					HasRootDirectDeps: true,
					RootDirectDeps:    []string{"foo", "bar"},
				},
				RootUsage: &usage,
			},
		}},
	}
}

func TestApp_Tidy(t *testing.T) {
	tests := []struct {
		name    string
		usage   domain.ModuleExtensionUsage
		command string
		message string
	}{
		{
			name: "shared usage",
			usage: domain.ModuleExtensionUsage{
				ExtensionBzlFile: "//:ext.bzl",
				ExtensionName:    "ext",
				Proxies:          []domain.UsageProxy{{Imports: map[string]string{"foo": "foo"}}},
			},
			command: "use_repo_add //:ext.bzl ext bar\n",
			message: "Updated use_repo calls for //:ext.bzl%ext",
		},
		{
			name: "isolated usage",
			usage: domain.ModuleExtensionUsage{
				ExtensionBzlFile: "//:ext.bzl",
				ExtensionName:    "ext",
				IsolationKey:     domain.IsolationKey{Module: "root", UsageExportedName: "my_ext"},
				Proxies:          []domain.UsageProxy{{Imports: map[string]string{"foo": "foo"}}},
			},
			command: "use_repo_add my_ext bar\n",
			message: "Updated use_repo calls for isolated usage 'my_ext' of //:ext.bzl%ext",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApp(t, extensionWorkspace(t, tt.usage))
			ta.logger.EXPECT().Info(tt.message)
			ta.allowLogs()

			require.NoError(t, ta.app.Tidy(context.Background(), app.TidyOptions{}))
			assert.Equal(t, tt.command, ta.out.String())
		})
	}
}

func TestApp_Tidy_UpToDate(t *testing.T) {
	ta := newTestApp(t, extensionWorkspace(t, domain.ModuleExtensionUsage{
		ExtensionBzlFile: "//:ext.bzl",
		ExtensionName:    "ext",
		Proxies:          []domain.UsageProxy{{Imports: map[string]string{"foo": "foo", "bar": "bar"}}},
	}))
	ta.logger.EXPECT().Info("all use_repo calls are up to date")
	ta.allowLogs()

	require.NoError(t, ta.app.Tidy(context.Background(), app.TidyOptions{}))
	assert.Empty(t, ta.out.String())
}

func TestApp_Tidy_Check(t *testing.T) {
	t.Run("out of date", func(t *testing.T) {
		ta := newTestApp(t, extensionWorkspace(t, domain.ModuleExtensionUsage{
			ExtensionBzlFile: "//:ext.bzl",
			ExtensionName:    "ext",
			Proxies:          []domain.UsageProxy{{Imports: map[string]string{"foo": "foo"}}},
		}))
		ta.allowLogs()

		err := ta.app.Tidy(context.Background(), app.TidyOptions{Check: true})
		require.ErrorIs(t, err, domain.ErrUseRepoOutOfDate)
		assert.Empty(t, ta.out.String())
	})

	t.Run("invalid import", func(t *testing.T) {
		ta := newTestApp(t, extensionWorkspace(t, domain.ModuleExtensionUsage{
			ExtensionBzlFile: "//:ext.bzl",
			ExtensionName:    "ext",
			Proxies: []domain.UsageProxy{{
				Imports:  map[string]string{"foo": "foo", "bar": "bar", "baz": "baz"},
				Location: "MODULE.bazel:3:20",
			}},
		}))
		ta.allowLogs()

		err := ta.app.Tidy(context.Background(), app.TidyOptions{Check: true})
		require.ErrorIs(t, err, domain.ErrInvalidExtensionImport)
	})
}
