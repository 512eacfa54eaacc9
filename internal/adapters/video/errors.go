package video

import "errors"

var (
	// ErrBadImage indicates a value that did not come from this backend
	// was passed to the compositor.
	ErrBadImage = errors.New("image not produced by this backend")

	// ErrBadProbe indicates ffprobe output that could not be interpreted.
	ErrBadProbe = errors.New("unreadable stream metadata")

	// ErrClosed indicates use of a source or sink after Close.
	ErrClosed = errors.New("stream closed")
)
