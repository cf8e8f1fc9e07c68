// Package image provides the mutable, fixed-capacity byte buffer that a
// rebuild pass operates on.
//
// An Image is either an in-memory buffer (New, FromBytes) or a file mapped
// read-write into memory (Open). All writes go through Put or WriteMulti so
// they can be recorded in two places:
//
//   - a dirty.Tracker, so Flush only pushes modified pages to disk, and
//   - an undo journal while a transaction is open (Begin), so Rollback can
//     restore every byte written since Begin.
//
// Multi-byte values are little-endian.
//
// # Thread Safety
//
// An Image is owned by exactly one rebuild pass and is NOT thread-safe.
package image
