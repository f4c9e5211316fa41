package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/kiln/internal/adapters/logger"
)

func TestPrettyHandler_Attrs(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	log := slog.New(logger.NewPrettyHandler(&buf, nil)).
		With("mnemonic", "Copy").
		WithGroup("spawn")

	log.Warn("retrying", "attempt", 2, slog.Group("platform", "label", "//platforms:linux"))

	assert.Equal(t,
		"! retrying (mnemonic=Copy, spawn.attempt=2, spawn.platform.label=//platforms:linux)\n",
		buf.String())
}

func TestPrettyHandler_AttrsStayOnFirstLine(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	log := slog.New(logger.NewPrettyHandler(&buf, nil))

	log.Error("copy failed\n  disk full", "output", "dist/app")

	assert.Equal(t, "✗ copy failed (output=dist/app)\n  disk full\n", buf.String())
}

func TestPrettyHandler_Level(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	level := &slog.LevelVar{}
	h := logger.NewPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: level})

	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
	level.Set(slog.LevelDebug)
	assert.True(t, h.Enabled(context.Background(), slog.LevelDebug))
}
