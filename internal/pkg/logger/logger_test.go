package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestNew_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn", "test", "dev")

	log.Info("hidden")
	assert.Zero(t, buf.Len())

	log.Warn("shown", "user_id", "u-1")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "faculty-attendance")
}
