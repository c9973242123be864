package binimage_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"binmerge/internal/binimage"
	"binmerge/internal/testsupport"
)

func TestCleanPartials(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, ".Game.bin-123.partial")
	fresh := filepath.Join(dir, ".Game.bin-456.partial")
	keep := filepath.Join(dir, "Game.bin")
	visible := filepath.Join(dir, "notes.partial")
	for _, p := range []string{stale, fresh, keep, visible} {
		testsupport.WriteFile(t, p, 16, 0)
	}
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	res := binimage.CleanPartials(dir, time.Hour, nil)
	assert.Equal(t, []string{stale}, res.Removed)
	assert.Empty(t, res.Errors)
	assert.NoFileExists(t, stale)
	assert.FileExists(t, fresh)
	assert.FileExists(t, keep)
	assert.FileExists(t, visible)

	res = binimage.CleanPartials(dir, 0, nil)
	assert.Equal(t, []string{fresh}, res.Removed)

	res = binimage.CleanPartials(filepath.Join(dir, "missing"), 0, nil)
	assert.Empty(t, res.Removed)
	assert.Empty(t, res.Errors)
}
