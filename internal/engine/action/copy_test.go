package action_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.trai.ch/kiln/internal/engine/action"
	"go.uber.org/mock/gomock"
)

var testOwner = domain.NewActionOwner("//pkg:copy", "k8-fastbuild")

func writeFile(t *testing.T, root, rel, content string, perm os.FileMode) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte(content), perm))
}

func TestCopyFile_Execute(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/a.txt", "hello", 0o600)

	a, err := action.NewCopyFile(testOwner,
		domain.NewSourceArtifact("src/a.txt"), domain.NewDerivedArtifact("out/a.txt"), false, "")
	require.NoError(t, err)
	assert.Equal(t, "Copy", a.Mnemonic())
	assert.Equal(t, "Copying src/a.txt to out/a.txt", a.ProgressMessage())

	res, err := a.Execute(context.Background(), &action.ExecutionContext{ExecRoot: root})
	require.NoError(t, err)
	assert.Equal(t, []domain.Artifact{domain.NewDerivedArtifact("out/a.txt")}, res.Outputs)

	got, err := os.ReadFile(filepath.Join(root, "out", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	info, err := os.Stat(filepath.Join(root, "out", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestCopyFile_ExecutableGetsExecuteBits(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "tool.sh", "#!/bin/sh\n", 0o600)

	a, err := action.NewCopyFile(testOwner,
		domain.NewSourceArtifact("tool.sh"), domain.NewDerivedArtifact("bin/tool"), true, "")
	require.NoError(t, err)
	assert.Equal(t, domain.TargetExecutable, a.TargetType())

	_, err = a.Execute(context.Background(), &action.ExecutionContext{ExecRoot: root})
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(root, "bin", "tool"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestCopyDirectory_Execute(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "assets/a.txt", "a", 0o644)
	writeFile(t, root, "assets/nested/b.txt", "b", 0o644)
	writeFile(t, root, "assets/nested/run", "x", 0o755)
	writeFile(t, root, "out/assets/stale.txt", "old", 0o644)

	a, err := action.NewCopyDirectory(testOwner,
		domain.NewSourceArtifact("assets"), domain.NewDerivedArtifact("out/assets"), "")
	require.NoError(t, err)

	_, err = a.Execute(context.Background(), &action.ExecutionContext{ExecRoot: root})
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(root, "out", "assets", "nested", "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "b", string(got))

	info, err := os.Stat(filepath.Join(root, "out", "assets", "nested", "run"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	assert.NoFileExists(t, filepath.Join(root, "out", "assets", "stale.txt"))
}

func TestCopyFile_IOErrorNamesBothPaths(t *testing.T) {
	root := t.TempDir()

	a, err := action.NewCopyFile(testOwner,
		domain.NewSourceArtifact("src/missing.txt"), domain.NewDerivedArtifact("out/x.txt"), false, "")
	require.NoError(t, err)

	res, err := a.Execute(context.Background(), &action.ExecutionContext{ExecRoot: root})
	require.Error(t, err)
	assert.Nil(t, res)

	var execErr *domain.ExecError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, domain.CategoryCopyAction, execErr.Detail.Category)
	assert.Equal(t, domain.CodeIOError, execErr.Detail.Code)
	assert.Contains(t, execErr.Detail.Message, "failed to copy 'src/missing.txt' to 'out/x.txt' due to I/O error:")
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Equal(t, domain.OutcomeFailure, domain.OutcomeOf(err))
}

func TestCopyFile_CancelledBeforeStart(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "a", 0o644)

	a, err := action.NewCopyFile(testOwner,
		domain.NewSourceArtifact("a.txt"), domain.NewDerivedArtifact("b.txt"), false, "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = a.Execute(ctx, &action.ExecutionContext{ExecRoot: root})
	assert.True(t, domain.IsCancelled(err))
	assert.NoFileExists(t, filepath.Join(root, "b.txt"))
}

func TestCopyFile_UsesPathResolver(t *testing.T) {
	ctrl := gomock.NewController(t)
	root := t.TempDir()
	writeFile(t, root, "elsewhere/in.txt", "resolved", 0o644)

	resolver := mocks.NewMockPathResolver(ctrl)
	resolver.EXPECT().Resolve("in.txt").Return(filepath.Join(root, "elsewhere", "in.txt"))
	resolver.EXPECT().Resolve("out.txt").Return(filepath.Join(root, "out.txt"))

	a, err := action.NewCopyFile(testOwner,
		domain.NewSourceArtifact("in.txt"), domain.NewDerivedArtifact("out.txt"), false, "")
	require.NoError(t, err)

	_, err = a.Execute(context.Background(), &action.ExecutionContext{Resolver: resolver})
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(root, "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, "resolved", string(got))
}

func TestCopy_RejectsOverlappingPaths(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		output string
		dir    bool
	}{
		{name: "same path", input: "pkg/data", output: "pkg/data"},
		{name: "output above input", input: "pkg/data", output: "pkg", dir: true},
		{name: "output below input", input: "pkg", output: "pkg/out", dir: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, out := domain.NewSourceArtifact(tt.input), domain.NewDerivedArtifact(tt.output)

			var err error
			if tt.dir {
				_, err = action.NewCopyDirectory(testOwner, in, out, "")
			} else {
				_, err = action.NewCopyFile(testOwner, in, out, false, "")
			}
			require.ErrorIs(t, err, domain.ErrInvalidAction)
		})
	}
}

func TestCopy_SiblingPrefixIsNotOverlap(t *testing.T) {
	_, err := action.NewCopyDirectory(testOwner,
		domain.NewSourceArtifact("pkg"), domain.NewDerivedArtifact("pkg-copy"), "")
	require.NoError(t, err)
}

func TestCopy_InputFailureNamesBothPaths(t *testing.T) {
	a, err := action.NewCopyFile(testOwner,
		domain.NewSourceArtifact("missing.txt"), domain.NewDerivedArtifact("out/dst.txt"), false, "")
	require.NoError(t, err)

	detail := a.InputFailure(domain.NewSourceArtifact("missing.txt"), os.ErrNotExist)
	assert.Equal(t, domain.CategoryCopyAction, detail.Category)
	assert.Equal(t, domain.CodeIOError, detail.Code)
	assert.Equal(t, "failed to copy 'missing.txt' to 'out/dst.txt' due to I/O error: file does not exist", detail.Message)
}
