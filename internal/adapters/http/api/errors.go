package api

import "errors"

// Sentinel kinds for ops server errors.
var (
	ErrServe = errors.New("ops serve failed")
)
