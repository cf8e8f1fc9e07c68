package modules

import "errors"

var (
	// ErrBadMap indicates map tiles with the wrong shape or out-of-range values.
	ErrBadMap = errors.New("modules: malformed map")

	// ErrTooMany indicates more distinct payloads than an index byte can hold.
	ErrTooMany = errors.New("modules: too many distinct payloads")

	// ErrBadTable indicates a table target with no usable size or contents.
	ErrBadTable = errors.New("modules: bad table")

	// ErrNoWindow indicates a doors plan without exactly one reserved
	// destination window inside a single bank.
	ErrNoWindow = errors.New("modules: doors need one destination window in a single bank")

	// ErrNoSlot indicates a text slot with neither a pointer nor a fixed site.
	ErrNoSlot = errors.New("modules: text slot has no location")
)
