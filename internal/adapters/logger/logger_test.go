package logger_test

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg, ok := logger.New().(*logger.Logger)
	require.True(t, ok)
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Levels(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Debug("probing pid 42")
	lg.Info("workspace loaded")
	lg.Warn("lockfile is out of date")

	g := goldie.New(t)
	g.Assert(t, "levels", buf.Bytes())
}

func TestLogger_Verbose(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetVerbose(true)

	lg.Debug("probing pid 42")

	g := goldie.New(t)
	g.Assert(t, "debug_verbose", buf.Bytes())
}

func TestLogger_Error(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		goldenName string
	}{
		{
			name:       "simple error",
			err:        os.ErrPermission,
			goldenName: "error_simple",
		},
		{
			name:       "multiline error",
			err:        errors.New("yaml: unmarshal errors:\n  line 3: cannot unmarshal"),
			goldenName: "error_multiline",
		},
		{
			name: "zerr chain with metadata",
			err: zerr.With(
				zerr.Wrap(zerr.Wrap(errors.New("connection refused"), "failed to load workspace"), "run failed"),
				"action", "copy-readme",
			),
			goldenName: "error_chain",
		},
		{
			name:       "metadata on a standard error",
			err:        zerr.With(zerr.With(errors.New("no such process"), "pid", 7), "mode", "cgroup"),
			goldenName: "error_stdlib_metadata",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Error(tt.err)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_Error_Nil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)

	assert.Empty(t, buf.String())
}

func TestLogger_SetJSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)
	lg.Error(zerr.With(zerr.Wrap(errors.New("disk full"), "copy failed"), "output", "dist/app"))

	out := buf.String()
	assert.Contains(t, out, `"level":"ERROR"`)
	assert.Contains(t, out, "copy failed")
	assert.Contains(t, out, "dist/app")
	assert.NotContains(t, out, "✗")
}

func TestLogger_SetJSONKeepsOutputAndLevel(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetVerbose(true)
	lg.SetJSON(true)

	lg.Debug("sampled 3 processes")

	assert.Contains(t, buf.String(), `"level":"DEBUG"`)
}
