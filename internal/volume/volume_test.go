package volume_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/diskfs/go-diskfs"
	"github.com/diskfs/go-diskfs/disk"
	"github.com/diskfs/go-diskfs/filesystem"
	"github.com/diskfs/go-diskfs/filesystem/iso9660"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"binmerge/internal/testsupport"
	"binmerge/internal/volume"
)

func writeISO(t *testing.T, path, label string) {
	t.Helper()
	d, err := diskfs.Create(path, 4*1024*1024, diskfs.SectorSizeDefault)
	require.NoError(t, err)
	d.LogicalBlocksize = 2048

	fs, err := d.CreateFilesystem(disk.FilesystemSpec{
		Partition:   0,
		FSType:      filesystem.TypeISO9660,
		VolumeLabel: label,
	})
	require.NoError(t, err)

	f, err := fs.OpenFile("/SYSTEM.CNF", os.O_CREATE|os.O_RDWR)
	require.NoError(t, err)
	_, err = f.Write([]byte("BOOT = cdrom:\\SLUS_000.00;1\r\n"))
	require.NoError(t, err)

	iso, ok := fs.(*iso9660.FileSystem)
	require.True(t, ok)
	require.NoError(t, iso.Finalize(iso9660.FinalizeOptions{VolumeIdentifier: label}))
	require.NoError(t, d.Close())
}

func TestLabelReadsISO9660(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.iso")
	writeISO(t, path, "PSXGAME")

	label, err := volume.Label(path)
	require.NoError(t, err)
	assert.Equal(t, "PSXGAME", label)
}

func TestLabelRejectsRawPayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audio.bin")
	testsupport.WriteFile(t, path, 64*2048, 0)

	_, err := volume.Label(path)
	require.ErrorIs(t, err, volume.ErrNoFilesystem)
}

func TestLabelMissingFile(t *testing.T) {
	_, err := volume.Label(filepath.Join(t.TempDir(), "missing.iso"))
	require.Error(t, err)
}
