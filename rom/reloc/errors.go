package reloc

import "errors"

var (
	// ErrUnbound indicates a target with no references in the plan.
	ErrUnbound = errors.New("reloc: target has no bound references")

	// ErrNoReadableRef indicates a target whose references cannot be read back.
	ErrNoReadableRef = errors.New("reloc: target has no readable reference")

	// ErrBadEntrySize indicates a table entry width outside 1..4 bytes.
	ErrBadEntrySize = errors.New("reloc: bad table entry size")

	// ErrUnknownPatch indicates a patch site name missing from the plan.
	ErrUnknownPatch = errors.New("reloc: unknown patch site")
)
