package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in     string
		want   slog.Level
		wantOK bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"", slog.LevelInfo, true},
		{"warning", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"loud", slog.LevelInfo, false},
	}
	for _, tt := range tests {
		got, ok := ParseLevel(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
	}
}

func TestNew_JSONHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn", "prod")

	logger.Info("hidden")
	logger.Warn("shown", slog.String("kind", "vocabulary_words"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "vocabulary_words", rec["kind"])
	assert.Contains(t, rec, "source")
}

func TestNew_DevHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "debug", "dev")
	logger.Debug("probe", slog.String("kind", "user_progress"))

	out := buf.String()
	assert.Contains(t, out, "probe")
	assert.Contains(t, out, "kind=")
	assert.False(t, json.Valid([]byte(strings.TrimSpace(out))))
}

func TestNew_UnknownLevelWarns(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "loud", "")
	assert.Contains(t, buf.String(), "unknown log level")
}
