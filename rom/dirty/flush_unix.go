//go:build unix

package dirty

import "golang.org/x/sys/unix"

// msync flushes a memory region to disk.
func msync(data []byte) error {
	return unix.Msync(data, unix.MS_SYNC)
}
