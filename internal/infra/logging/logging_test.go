package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skillcoder/specctl/internal/infra/logging"
)

func TestLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		give string
		want slog.Level
	}{
		{give: "debug", want: slog.LevelDebug},
		{give: "INFO", want: slog.LevelInfo},
		{give: "warn", want: slog.LevelWarn},
		{give: "warning", want: slog.LevelWarn},
		{give: "error", want: slog.LevelError},
		{give: "loud", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.give, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.want, logging.Level(tt.give))
		})
	}
}

func TestValid(t *testing.T) {
	t.Parallel()

	require.True(t, logging.Valid("json", "info"))
	require.True(t, logging.Valid("text", "debug"))
	require.False(t, logging.Valid("xml", "info"))
	require.False(t, logging.Valid("json", "trace"))
}

//nolint:paralleltest // replaces the default logger
func TestNewWithWriter(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer

	logger := logging.NewWithWriter(&buf, "json", "warn")
	logger.Info("hidden")
	logger.Warn("shown", "reason", "disk full")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "shown", entry["msg"])
	require.Equal(t, "disk full", entry["reason"])
	require.Same(t, logger, slog.Default())

	buf.Reset()
	logging.NewWithWriter(&buf, "text", "info").Info("plain")
	require.Contains(t, buf.String(), "msg=plain")
}
