package queue

import "errors"

// Sentinel errors for queue users.
var (
	ErrClosed = errors.New("frame queue closed")
)
