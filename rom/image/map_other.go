//go:build !unix

package image

import "os"

// mapFile reads the whole file where mmap is not available; Flush writes
// it back.
func mapFile(path string) ([]byte, func() error, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, false, err
	}
	return data, nil, false, nil
}
