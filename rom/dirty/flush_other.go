//go:build !unix

package dirty

// msync is a no-op where images are never memory-mapped; the image writes
// its buffer back to the file instead.
func msync([]byte) error { return nil }
