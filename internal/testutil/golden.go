package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// EnvGoldenUpdate rewrites golden files instead of comparing when set.
const EnvGoldenUpdate = "GOLDEN_UPDATE"

// GoldenPath returns testdata/<name>.golden.
func GoldenPath(name string) string {
	return filepath.Join("testdata", name+".golden")
}

// GoldenString compares rendered output against testdata/<name>.golden and
// shows a line diff on mismatch.
func GoldenString(t *testing.T, name, got string) {
	t.Helper()

	path := GoldenPath(name)
	if os.Getenv(EnvGoldenUpdate) != "" {
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(got), 0644))
		return
	}

	want, err := os.ReadFile(path)
	require.NoError(t, err, "missing golden file, run with %s=1\ngot:\n%s", EnvGoldenUpdate, got)
	assert.Equal(t, string(want), got, "output mismatch for %s", name)
}
