package carddb

import "errors"

var (
	// ErrNotFound marks a card lookup miss. The run aborts on it; silently
	// omitting a card is worse than failing loudly.
	ErrNotFound = errors.New("card not found")

	// ErrBadIndex marks an index file missing a required column.
	ErrBadIndex = errors.New("invalid card index")
)
