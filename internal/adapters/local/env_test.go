package local_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/local"
)

func TestResolveEnvironment(t *testing.T) {
	sysEnv := []string{
		"PATH=/usr/bin",
		"HOME=/home/kiln",
		"AWS_SECRET_ACCESS_KEY=hunter2",
		"MALFORMED",
	}

	got := local.ResolveEnvironment(sysEnv, map[string]string{
		"CC":   "clang",
		"HOME": "/tmp/home",
	})

	assert.Equal(t, []string{
		"CC=clang",
		"HOME=/tmp/home",
		"PATH=/usr/bin",
	}, got)
}

func TestLookPath(t *testing.T) {
	dir := t.TempDir()
	tool := filepath.Join(dir, "tool")
	require.NoError(t, os.WriteFile(tool, []byte("#!/bin/sh\n"), 0o755))             //nolint:gosec // test executable
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data"), []byte("x"), 0o600)) //nolint:gosec // test file

	env := []string{"PATH=/nonexistent" + string(os.PathListSeparator) + dir}

	got, err := local.LookPath("tool", env)
	require.NoError(t, err)
	assert.Equal(t, tool, got)

	_, err = local.LookPath("data", env)
	require.ErrorIs(t, err, exec.ErrNotFound)

	_, err = local.LookPath("tool", nil)
	require.ErrorIs(t, err, exec.ErrNotFound)
}
