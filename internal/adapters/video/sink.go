package video

import (
	"context"
	"fmt"
	"image"
	"io"
	"os/exec"

	"github.com/TrevorCOConnor/go-to-one/internal/domain/layout"
	"github.com/TrevorCOConnor/go-to-one/internal/render"
)

// FileSink encodes raw RGBA frames into a video file through an ffmpeg
// pipe. Close must be called to finish the encode.
type FileSink struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	size   layout.Size
	closed bool
}

var _ render.Sink = (*FileSink)(nil)

// OpenSink starts an encoder writing to the given path, overwriting any
// existing file.
func OpenSink(ctx context.Context, path string, size layout.Size, fps float64) (*FileSink, error) {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-v", "error",
		"-y",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", size.W, size.H),
		"-framerate", fmt.Sprintf("%g", fps),
		"-i", "pipe:0",
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		path,
	)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("encode pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start encoder: %w", err)
	}
	return &FileSink{cmd: cmd, stdin: stdin, size: size}, nil
}

// Write sends one frame to the encoder. The frame must match the sink's
// configured size.
func (s *FileSink) Write(img render.Image) error {
	if s.closed {
		return ErrClosed
	}
	frame, ok := img.(*image.RGBA)
	if !ok {
		return fmt.Errorf("%w: %T", ErrBadImage, img)
	}
	if frame.Bounds().Dx() != s.size.W || frame.Bounds().Dy() != s.size.H {
		return fmt.Errorf("frame size %dx%d does not match sink %dx%d",
			frame.Bounds().Dx(), frame.Bounds().Dy(), s.size.W, s.size.H)
	}
	if _, err := s.stdin.Write(frame.Pix); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// Close flushes the pipe and waits for the encoder to finish.
func (s *FileSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.stdin.Close(); err != nil {
		return fmt.Errorf("close encoder pipe: %w", err)
	}
	if err := s.cmd.Wait(); err != nil {
		return fmt.Errorf("finish encode: %w", err)
	}
	return nil
}
