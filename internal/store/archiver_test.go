package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"msd/internal/models"
	"msd/internal/providers"
	"msd/internal/structures"
	"msd/internal/testutil"
)

func newTestArchiver(t *testing.T) (*Archiver, *GroupStore) {
	t.Helper()
	conf := testConfig(t)
	conf.Backup = structures.BackupConfig{
		Dir:           filepath.Join(conf.Data.Dir, "backups"),
		RetentionDays: 7,
	}
	logger := &testutil.MockLogger{}
	gs, err := NewGroupStore(conf, testutil.NewMockCache(), providers.NewMetricsProvider(&structures.Config{}), logger)
	require.NoError(t, err)
	compressor, err := NewZstdCompressor()
	require.NoError(t, err)
	archiver, err := NewArchiver(conf, gs, compressor, logger)
	require.NoError(t, err)
	return archiver, gs
}

func TestArchiver_BackupRoundTrip(t *testing.T) {
	archiver, gs := newTestArchiver(t)
	require.NoError(t, gs.Save("123", []*models.UserRecord{record("1", 2)}))

	path, err := archiver.Backup("123")
	require.NoError(t, err)
	assert.Contains(t, filepath.Base(path), "123_")
	assert.True(t, filepath.Ext(path) == ".zst")

	compressed, err := os.ReadFile(path)
	require.NoError(t, err)
	original, err := os.ReadFile(gs.FilePath("123"))
	require.NoError(t, err)

	decompressed, err := archiver.compressor.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, original, decompressed)
}

func TestArchiver_BackupMissingGroup(t *testing.T) {
	archiver, _ := newTestArchiver(t)
	_, err := archiver.Backup("999")
	assert.Error(t, err)
}

func TestArchiver_BackupAll(t *testing.T) {
	archiver, gs := newTestArchiver(t)
	require.NoError(t, gs.Save("123", nil))
	require.NoError(t, gs.Save("456", nil))

	paths, err := archiver.BackupAll()
	require.NoError(t, err)
	assert.Len(t, paths, 2)
}

func TestArchiver_CleanupOlderThan(t *testing.T) {
	archiver, gs := newTestArchiver(t)
	require.NoError(t, gs.Save("old", []*models.UserRecord{record("1", 1)}))
	require.NoError(t, gs.Save("fresh", []*models.UserRecord{record("2", 1)}))

	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(gs.FilePath("old"), stale, stale))

	removed, err := archiver.CleanupOlderThan(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	groups, err := gs.ListGroups()
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh"}, groups)

	// The removed group was backed up first.
	entries, err := os.ReadDir(archiver.dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "old_")
}

func TestZstdCompressor_RoundTrip(t *testing.T) {
	compressor, err := NewZstdCompressor()
	require.NoError(t, err)

	payload := []byte(`[{"user_id":"1","history":["2026-08-30"]}]`)
	compressed, err := compressor.Compress(payload)
	require.NoError(t, err)
	decompressed, err := compressor.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, payload, decompressed)
}
