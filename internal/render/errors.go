package render

import "errors"

var (
	// ErrMissingDependency indicates the engine was constructed without a
	// required collaborator.
	ErrMissingDependency = errors.New("missing engine dependency")

	// ErrBadFrameRate indicates the source reported a non-positive frame
	// rate, which would stall the media clock.
	ErrBadFrameRate = errors.New("bad source frame rate")
)
