package addr

import "errors"

// ErrInvalidAddress indicates an address outside the representable domain.
var ErrInvalidAddress = errors.New("addr: invalid address")
