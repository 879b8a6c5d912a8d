package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miguel-octavio-aguila/secdevops-challenge-1/internal/testutil"
)

// Not parallel: swaps os.Stdout while the default logger is built.
func TestNewServer_DefaultLoggerWritesOneComponent(t *testing.T) {
	out, err := os.Create(filepath.Join(t.TempDir(), "stdout.log"))
	require.NoError(t, err)
	defer out.Close()

	stdout := os.Stdout
	os.Stdout = out
	s, err := NewServer(Config{Submitter: &testutil.StubSubmitter{}})
	os.Stdout = stdout
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	raw, err := os.ReadFile(out.Name())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.NotEmpty(t, lines)
	for _, line := range lines {
		assert.Equal(t, 1, strings.Count(line, `"component":`), line)
		assert.Contains(t, line, `"component":"server"`)
	}
}
