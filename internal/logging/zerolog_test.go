package logging_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miguel-octavio-aguila/secdevops-challenge-1/internal/logging"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		m := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &m), "line: %s", line)
		out = append(out, m)
	}
	return out
}

func TestZerologLogger_WritesJSONWithFields(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l, err := logging.NewZerologLogger(logging.Options{Output: &buf, Component: "server"})
	require.NoError(t, err)

	l.Info("scan submitted", logging.F("filename", "a.txt"), logging.F("size", 12), logging.Err(errors.New("boom")))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "info", lines[0]["level"])
	assert.Equal(t, "scan submitted", lines[0]["message"])
	assert.Equal(t, "server", lines[0]["component"])
	assert.Equal(t, "a.txt", lines[0]["filename"])
	assert.EqualValues(t, 12, lines[0]["size"])
	assert.Equal(t, "boom", lines[0]["error"])
}

func TestZerologLogger_LevelFilters(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l, err := logging.NewZerologLogger(logging.Options{Output: &buf, Level: "warn"})
	require.NoError(t, err)

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")
	l.Error("shown too")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "warn", lines[0]["level"])
	assert.Equal(t, "error", lines[1]["level"])
}

func TestZerologLogger_WithAddsPersistentFields(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l, err := logging.NewZerologLogger(logging.Options{Output: &buf})
	require.NoError(t, err)

	child := l.With(logging.F("request_id", "abc"))
	child.Info("first")
	child.Info("second")
	l.Info("parent")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 3)
	assert.Equal(t, "abc", lines[0]["request_id"])
	assert.Equal(t, "abc", lines[1]["request_id"])
	assert.NotContains(t, lines[2], "request_id")
}

func TestNewZerologLogger_RejectsUnknownLevelAndFormat(t *testing.T) {
	t.Parallel()
	_, err := logging.NewZerologLogger(logging.Options{Level: "loud"})
	assert.Error(t, err)

	_, err = logging.NewZerologLogger(logging.Options{Format: "xml"})
	assert.Error(t, err)
}

func TestErr_NilError(t *testing.T) {
	t.Parallel()
	f := logging.Err(nil)
	assert.Equal(t, "error", f.Key)
	assert.Equal(t, "", f.Value)
}
