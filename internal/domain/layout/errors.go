package layout

import "errors"

// Sentinel kinds for layout errors. Construction failures are configuration
// errors caught at startup; an out-of-frame rect at render time is an
// invariant violation and fatal.
var (
	ErrInvalidRegion = errors.New("invalid region")
	ErrInvalidScale  = errors.New("invalid scale factor")
	ErrOutOfFrame    = errors.New("rect outside frame bounds")
)
