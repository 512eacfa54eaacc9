package video

import (
	"context"
	"errors"
	"io"

	"github.com/TrevorCOConnor/go-to-one/internal/render"
)

// FileLooper reads a clip on repeat: when the clip runs out it reopens
// the file and keeps going. Hero art animations and the scoreboard
// background use it.
type FileLooper struct {
	ctx  context.Context
	path string
	src  *FileSource
}

var _ render.Looper = (*FileLooper)(nil)

// OpenLooper opens the clip for looped reading.
func OpenLooper(ctx context.Context, path string) (*FileLooper, error) {
	src, err := OpenSource(ctx, path)
	if err != nil {
		return nil, err
	}
	return &FileLooper{ctx: ctx, path: path, src: src}, nil
}

// Next returns the next frame, restarting the clip at its end.
func (l *FileLooper) Next() (render.Image, error) {
	frame, err := l.src.Next()
	if err == nil {
		return frame, nil
	}
	if !errors.Is(err, io.EOF) {
		return nil, err
	}

	_ = l.src.Close()
	src, err := OpenSource(l.ctx, l.path)
	if err != nil {
		return nil, err
	}
	l.src = src
	return l.src.Next()
}

// Close stops the underlying decoder.
func (l *FileLooper) Close() error {
	return l.src.Close()
}
