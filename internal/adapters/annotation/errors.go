package annotation

import "errors"

var (
	// ErrMalformedRow marks a timeline row that cannot be parsed. The run
	// aborts on it; skipping a corrupt row would desync the overlay.
	ErrMalformedRow = errors.New("malformed annotation row")

	// ErrBadSetup marks a file whose header rows do not establish both
	// heroes and both starting life totals.
	ErrBadSetup = errors.New("invalid annotation setup rows")
)
