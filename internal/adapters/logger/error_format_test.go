package logger_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/kiln/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func TestCollectErrorEntries(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantMessages []string
		wantMetadata []map[string]any
	}{
		{
			name:         "standard error",
			err:          errors.New("simple error"),
			wantMessages: []string{"simple error"},
			wantMetadata: []map[string]any{nil},
		},
		{
			name:         "wrapped chain",
			err:          zerr.Wrap(zerr.Wrap(errors.New("root cause"), "middle"), "outer"),
			wantMessages: []string{"outer", "middle", "root cause"},
			wantMetadata: []map[string]any{nil, nil, nil},
		},
		{
			name:         "empty wrapper moves metadata to its cause",
			err:          zerr.With(errors.New("boom"), "pid", 7),
			wantMessages: []string{"boom"},
			wantMetadata: []map[string]any{{"pid": 7}},
		},
		{
			name: "metadata stays on its level",
			err: zerr.With(
				zerr.Wrap(zerr.With(zerr.New("inner"), "inner_key", "a"), "outer"),
				"outer_key", "b",
			),
			wantMessages: []string{"outer", "inner"},
			wantMetadata: []map[string]any{{"outer_key": "b"}, {"inner_key": "a"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := logger.CollectErrorEntries(tt.err)

			var messages []string
			var metadata []map[string]any
			for _, e := range entries {
				messages = append(messages, logger.EntryMessage(e))
				metadata = append(metadata, logger.EntryMetadata(e))
			}

			assert.Equal(t, tt.wantMessages, messages)
			assert.Equal(t, tt.wantMetadata, metadata)
		})
	}
}

func TestFormatErrorEntries_SortsMetadata(t *testing.T) {
	err := zerr.With(zerr.With(zerr.With(zerr.New("validation failed"), "zebra", "z"), "alpha", "a"), "mike", "m")

	got := logger.FormatErrorEntries(logger.CollectErrorEntries(err))

	assert.Equal(t, "Error: validation failed (alpha=a, mike=m, zebra=z)", got)
}
