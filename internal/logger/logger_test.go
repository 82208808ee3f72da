package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonLogger(buf *bytes.Buffer, level string) *Logger {
	return New(&Config{Level: level, Format: "json", Output: buf})
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)
	var m map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &m))
	return m
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := jsonLogger(&buf, "info")

	log.Info("walk complete")

	m := lastLine(t, &buf)
	assert.Equal(t, "info", m["level"])
	assert.Equal(t, "walk complete", m["message"])
	assert.Contains(t, m, "time")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := jsonLogger(&buf, "warn")

	log.Debug("hidden")
	log.Info("hidden too")
	assert.Empty(t, buf.Bytes())

	log.Warn("shown")
	assert.Equal(t, "shown", lastLine(t, &buf)["message"])
}

func TestUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := jsonLogger(&buf, "chatty")

	log.Debug("hidden")
	assert.Empty(t, buf.Bytes())

	log.Info("shown")
	assert.Equal(t, "shown", lastLine(t, &buf)["message"])
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := jsonLogger(&buf, "info").With().Str("schema", "app").Int("relations", 3).Logger()

	log.Infof("walked %d schema(s)", 1)

	m := lastLine(t, &buf)
	assert.Equal(t, "app", m["schema"])
	assert.Equal(t, float64(3), m["relations"])
	assert.Equal(t, "walked 1 schema(s)", m["message"])
}

func TestErrorWith(t *testing.T) {
	var buf bytes.Buffer
	log := jsonLogger(&buf, "info")

	log.ErrorWith("snapshot failed", errors.New("connection reset"))

	m := lastLine(t, &buf)
	assert.Equal(t, "error", m["level"])
	assert.Equal(t, "connection reset", m["error"])
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(&Config{Level: "info", Format: "console", Output: &buf})

	log.Info("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())), "console output is not JSON")
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().Error("discarded")
		Nop().With().Str("k", "v").Logger().Info("discarded")
	})
}
