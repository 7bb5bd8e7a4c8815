package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCleanupCSV(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"Events_2024-06-08.csv", "Events_2024-06-08_processed.csv", "Events_2024-06-07.csv"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("data"), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep me"), 0o644))

	removed, err := CleanupCSV(dir, zap.NewNop())

	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	matches, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.FileExists(t, filepath.Join(dir, "notes.txt"))
}

func TestCleanupCSV_EmptyDir(t *testing.T) {
	removed, err := CleanupCSV(t.TempDir(), zap.NewNop())

	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestCleanupCSV_MissingDir(t *testing.T) {
	// Glob reports no matches for a non-existent dir; cleanup stays
	// best effort rather than failing the job.
	removed, err := CleanupCSV(filepath.Join(t.TempDir(), "gone"), zap.NewNop())

	require.NoError(t, err)
	assert.Zero(t, removed)
}
