package nesrom

import "errors"

// Sentinel errors a host can match with errors.Is against whatever
// New returns.
var (
	ErrInvalidFormat     = errors.New("invalid iNES header")
	ErrUnsupportedMapper = errors.New("unsupported mapper")
	ErrIOError           = errors.New("ROM I/O error")
)
