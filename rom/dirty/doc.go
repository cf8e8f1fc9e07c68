// Package dirty tracks which byte ranges of an image have been written.
//
// Writes are recorded with Add, which only appends. Coalesced sorts and
// merges the recorded ranges, optionally rounding them out to page
// boundaries, which is the form msync needs when the image is a
// memory-mapped file. Flush pushes the coalesced ranges of a mapping to disk.
//
// A Tracker is NOT thread-safe.
package dirty
