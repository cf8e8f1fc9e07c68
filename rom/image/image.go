package image

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/joshuapare/romkit/internal/buf"
	"github.com/joshuapare/romkit/rom/dirty"
)

// undo is one journal entry: the bytes at off before a write.
type undo struct {
	off  int
	prev []byte
}

// Image is a byte-addressable cartridge image.
type Image struct {
	data    []byte
	dt      *dirty.Tracker
	journal []undo
	inTx    bool

	path    string       // backing file, "" for in-memory images
	mapped  bool         // data is a shared mapping of path
	cleanup func() error // unmaps data; nil when not mapped
	closed  bool
}

// New returns a zero-filled in-memory image of size bytes.
func New(size int) *Image {
	return FromBytes(make([]byte, size))
}

// FromBytes wraps b as an image. The image takes ownership of b.
func FromBytes(b []byte) *Image {
	return &Image{data: b, dt: dirty.NewTracker()}
}

// Open maps the file at path read-write. Writes land in the file on Flush.
func Open(path string) (*Image, error) {
	data, cleanup, mapped, err := mapFile(path)
	if err != nil {
		return nil, fmt.Errorf("image: open %s: %w", path, err)
	}
	return &Image{
		data:    data,
		dt:      dirty.NewTracker(),
		path:    path,
		mapped:  mapped,
		cleanup: cleanup,
	}, nil
}

// Len returns the image size in bytes.
func (im *Image) Len() int { return len(im.data) }

// Bytes returns the underlying buffer. Writes made through it bypass dirty
// tracking and the journal.
func (im *Image) Bytes() []byte { return im.data }

// Path returns the backing file path, or "" for in-memory images.
func (im *Image) Path() string { return im.path }

// Slice returns a view of n bytes at off.
func (im *Image) Slice(off, n int) ([]byte, error) {
	b, ok := buf.Slice(im.data, off, n)
	if !ok {
		return nil, fmt.Errorf("%w: read %d bytes at %#x (size %#x)", ErrOutOfBounds, n, off, len(im.data))
	}
	return b, nil
}

// Byte returns the byte at off.
func (im *Image) Byte(off int) (byte, error) {
	b, err := im.Slice(off, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadMulti reads a size-byte little-endian value at off.
func (im *Image) ReadMulti(off, size int) (uint64, error) {
	if size < 1 || size > 8 {
		return 0, fmt.Errorf("%w: %d", ErrBadSize, size)
	}
	b, err := im.Slice(off, size)
	if err != nil {
		return 0, err
	}
	return buf.UintLE(b, size), nil
}

// WriteMulti writes the low size bytes of v at off in little-endian order.
func (im *Image) WriteMulti(off int, v uint64, size int) error {
	if size < 1 || size > 8 {
		return fmt.Errorf("%w: %d", ErrBadSize, size)
	}
	dst, err := im.span(off, size)
	if err != nil {
		return err
	}
	im.record(off, dst)
	buf.PutUintLE(dst, v, size)
	return nil
}

// Put copies p into the image at off.
func (im *Image) Put(off int, p []byte) error {
	dst, err := im.span(off, len(p))
	if err != nil {
		return err
	}
	im.record(off, dst)
	copy(dst, p)
	return nil
}

func (im *Image) span(off, n int) ([]byte, error) {
	if im.closed {
		return nil, ErrClosed
	}
	if _, err := buf.CheckSpan(len(im.data), off, n); err != nil {
		return nil, fmt.Errorf("%w: write: %w", ErrOutOfBounds, err)
	}
	return im.data[off : off+n], nil
}

// record journals the current contents of dst and marks it dirty.
func (im *Image) record(off int, dst []byte) {
	if len(dst) == 0 {
		return
	}
	if im.inTx {
		im.journal = append(im.journal, undo{off: off, prev: slices.Clone(dst)})
	}
	im.dt.Add(off, len(dst))
}

// Begin opens a transaction. Every write until Commit or Rollback is
// journaled. Begin is a no-op while a transaction is already open.
func (im *Image) Begin() {
	if im.inTx {
		return
	}
	im.inTx = true
	im.journal = im.journal[:0]
}

// Commit keeps all writes since Begin and closes the transaction.
func (im *Image) Commit() {
	im.inTx = false
	im.journal = im.journal[:0]
}

// Rollback restores every byte written since Begin and closes the
// transaction. It is a no-op without an open transaction.
func (im *Image) Rollback() {
	if !im.inTx {
		return
	}
	for i := len(im.journal) - 1; i >= 0; i-- {
		u := im.journal[i]
		copy(im.data[u.off:], u.prev)
	}
	im.inTx = false
	im.journal = im.journal[:0]
}

// InTransaction reports whether a transaction is open.
func (im *Image) InTransaction() bool { return im.inTx }

// Dirty returns the coalesced byte ranges written so far.
func (im *Image) Dirty() []dirty.Range { return im.dt.Coalesced(1) }

// Flush pushes modified bytes to the backing file. Mapped images msync only
// their dirty pages; unmapped file images rewrite the file. In-memory images
// just clear their dirty set.
func (im *Image) Flush(ctx context.Context) error {
	if im.closed {
		return ErrClosed
	}
	switch {
	case im.mapped:
		return im.dt.Flush(ctx, im.data)
	case im.path != "":
		if im.dt.Len() == 0 {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := os.WriteFile(im.path, im.data, 0o644); err != nil {
			return fmt.Errorf("image: flush %s: %w", im.path, err)
		}
	}
	im.dt.Reset()
	return nil
}

// Save writes the whole image to path.
func (im *Image) Save(path string) error {
	if im.closed {
		return ErrClosed
	}
	return os.WriteFile(path, im.data, 0o644)
}

// Close releases the mapping, if any. Unflushed changes to a mapped image
// may still reach the file through the kernel's own writeback.
func (im *Image) Close() error {
	if im.closed {
		return nil
	}
	im.closed = true
	if im.cleanup != nil {
		return im.cleanup()
	}
	return nil
}
