package image

import "errors"

var (
	// ErrOutOfBounds indicates a read or write outside the image.
	ErrOutOfBounds = errors.New("image: access out of bounds")

	// ErrBadSize indicates a multi-byte access of an unsupported width.
	ErrBadSize = errors.New("image: multi-byte size must be 1..8")

	// ErrClosed indicates use of an image after Close.
	ErrClosed = errors.New("image: closed")
)
