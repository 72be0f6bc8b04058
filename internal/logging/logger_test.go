package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("chatty"))
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Service: "geodsolve", Level: "info"}, &buf)
	l.Debug("hidden")
	l.Info("solved", "mode", "inverse", "line", 3)
	require.NoError(t, l.Close())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "solved", rec["msg"])
	assert.Equal(t, "geodsolve", rec["service"])
	assert.Equal(t, "inverse", rec["mode"])
	assert.EqualValues(t, 3, rec["line"])
	assert.Contains(t, rec, "timestamp")
	assert.NotContains(t, rec, "time")
}

func TestTextOutput(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "debug", Format: "text"}, &buf)
	l.Debug("iterations", "newton", 4)
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "newton=4")
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geodsolve.log")
	var buf bytes.Buffer
	l := New(Config{Level: "info", File: path, MaxSize: 1}, &buf)
	l.Info("to file")
	require.NoError(t, l.Close())
	assert.Zero(t, buf.Len())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"to file"`)
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Error("nothing")
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))
	assert.NoError(t, l.Close())
}
