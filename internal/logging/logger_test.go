package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON_LevelsAndAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSON(&buf, "info")
	ctx := context.Background()

	log.Debug(ctx, "hidden")
	log.With("req_id", "123").Info(ctx, "hello", "k", "v")
	log.Warn(ctx, "careful")
	log.Error(ctx, "boom", "err", "x")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "INFO", first["level"])
	assert.Equal(t, "hello", first["msg"])
	assert.Equal(t, "123", first["req_id"])
	assert.Equal(t, "v", first["k"])

	assert.Contains(t, lines[1], `"level":"WARN"`)
	assert.Contains(t, lines[2], `"level":"ERROR"`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNop_DoesNotPanic(t *testing.T) {
	log := Nop()
	ctx := context.TODO()
	log.Info(ctx, "ok")
	log.Warn(ctx, "ok")
	log.Error(ctx, "ok")
	log.With("a", 1).Info(ctx, "ok")
}
