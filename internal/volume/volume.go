package volume

import (
	"errors"
	"fmt"
	"strings"

	"github.com/diskfs/go-diskfs"
)

// ErrNoFilesystem is returned when a payload carries no filesystem go-diskfs
// recognises.
var ErrNoFilesystem = errors.New("volume: no readable filesystem")

// Label returns the volume label of the filesystem stored in a MODE1/2048
// payload, normally an ISO9660 primary volume descriptor.
func Label(path string) (string, error) {
	d, err := diskfs.Open(path, diskfs.WithOpenMode(diskfs.ReadOnly))
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer d.Close()

	fs, err := d.GetFilesystem(0)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrNoFilesystem, path, err)
	}
	defer fs.Close()
	// the identifier field is fixed width, padded with NULs or spaces
	return strings.TrimRight(fs.Label(), "\x00 "), nil
}
