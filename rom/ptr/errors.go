package ptr

import "errors"

var (
	// ErrNotReadable indicates Read on a kind that stores only part of an address.
	ErrNotReadable = errors.New("ptr: pointer kind is write-only")

	// ErrOutOfRange indicates an address that does not fit the encoding.
	ErrOutOfRange = errors.New("ptr: address out of range for pointer kind")

	// ErrUnknownKind indicates a Ref with an unrecognised Kind.
	ErrUnknownKind = errors.New("ptr: unknown pointer kind")
)
