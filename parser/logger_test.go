package parser

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedAdapter(level slog.Level) (*SlogAdapter, *bytes.Buffer) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level})
	return NewSlogAdapter(slog.New(handler)), &buf
}

func TestNopLogger(t *testing.T) {
	var l Logger = NopLogger{}

	// None of these may panic.
	l.Debug("debug", "key", "value")
	l.Info("info", "key", "value")
	l.Warn("warn", "key", "value")
	l.Error("error", "key", "value")

	_, ok := l.With("key", "value").(NopLogger)
	assert.True(t, ok, "With should return NopLogger")
}

func TestSlogAdapter(t *testing.T) {
	t.Run("nil uses default", func(t *testing.T) {
		adapter := NewSlogAdapter(nil)
		require.NotNil(t, adapter.logger)
	})

	t.Run("levels", func(t *testing.T) {
		tests := []struct {
			name  string
			log   func(Logger)
			level string
			msg   string
		}{
			{"debug", func(l Logger) { l.Debug("resolving ref", "ref", "#/components/schemas/Pet") }, "level=DEBUG", "resolving ref"},
			{"info", func(l Logger) { l.Info("comparison complete", "changed", 2) }, "level=INFO", "comparison complete"},
			{"warn", func(l Logger) { l.Warn("skipping pair", "from", "v1") }, "level=WARN", "skipping pair"},
			{"error", func(l Logger) { l.Error("failed", "err", "boom") }, "level=ERROR", "failed"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				adapter, buf := newBufferedAdapter(slog.LevelDebug)
				tt.log(adapter)
				assert.Contains(t, buf.String(), tt.level)
				assert.Contains(t, buf.String(), tt.msg)
			})
		}
	})

	t.Run("respects handler level", func(t *testing.T) {
		adapter, buf := newBufferedAdapter(slog.LevelWarn)
		adapter.Debug("hidden")
		adapter.Info("hidden")
		assert.Empty(t, buf.String())
	})

	t.Run("With carries attributes", func(t *testing.T) {
		adapter, buf := newBufferedAdapter(slog.LevelDebug)
		child := adapter.With("pair", "v1..v2")
		child.Info("compared")
		assert.Contains(t, buf.String(), "pair=v1..v2")
		assert.Contains(t, buf.String(), "compared")
	})
}
