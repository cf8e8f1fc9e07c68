//go:build unix

package image

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// mapFile maps the file at path into memory read-write and shared, so
// stores into the returned slice reach the file.
func mapFile(path string) ([]byte, func() error, bool, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, nil, false, err
	}
	defer f.Close() // the mapping keeps the pages alive

	info, err := f.Stat()
	if err != nil {
		return nil, nil, false, err
	}
	size := info.Size()
	if size == 0 {
		return []byte{}, nil, false, nil
	}
	if size > int64(^uint(0)>>1) {
		return nil, nil, false, fmt.Errorf("file too large to map (%d bytes)", size)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, false, err
	}
	cleanup := func() error {
		err := unix.Munmap(data)
		if errors.Is(err, unix.EINVAL) {
			// Double unmap.
			return nil
		}
		return err
	}
	return data, cleanup, true, nil
}
