package video

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/TrevorCOConnor/go-to-one/internal/domain/layout"
	"github.com/TrevorCOConnor/go-to-one/internal/render"
)

const bytesPerPixel = 4

// probeInfo is the subset of stream metadata the source needs.
type probeInfo struct {
	Width  int
	Height int
	FPS    float64
}

// ffprobeOutput mirrors the JSON shape of `ffprobe -of json`.
type ffprobeOutput struct {
	Streams []struct {
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		AvgFrameRate string `json:"avg_frame_rate"`
	} `json:"streams"`
}

// parseProbe interprets ffprobe JSON output for the first video stream.
func parseProbe(data []byte) (probeInfo, error) {
	var out ffprobeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return probeInfo{}, fmt.Errorf("%w: %v", ErrBadProbe, err)
	}
	if len(out.Streams) == 0 {
		return probeInfo{}, fmt.Errorf("%w: no video stream", ErrBadProbe)
	}

	s := out.Streams[0]
	fps, err := parseFrameRate(s.AvgFrameRate)
	if err != nil {
		return probeInfo{}, err
	}
	if s.Width <= 0 || s.Height <= 0 {
		return probeInfo{}, fmt.Errorf("%w: %dx%d frame", ErrBadProbe, s.Width, s.Height)
	}
	return probeInfo{Width: s.Width, Height: s.Height, FPS: fps}, nil
}

// parseFrameRate evaluates ffprobe's rational frame rate, e.g. "30000/1001".
func parseFrameRate(rate string) (float64, error) {
	num, den, found := strings.Cut(rate, "/")
	if !found {
		den = "1"
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: frame rate %q", ErrBadProbe, rate)
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0, fmt.Errorf("%w: frame rate %q", ErrBadProbe, rate)
	}
	fps := n / d
	if fps <= 0 {
		return 0, fmt.Errorf("%w: frame rate %q", ErrBadProbe, rate)
	}
	return fps, nil
}

func probeFile(ctx context.Context, path string) (probeInfo, error) {
	out, err := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,avg_frame_rate",
		"-of", "json",
		path,
	).Output()
	if err != nil {
		return probeInfo{}, fmt.Errorf("probe %s: %w", path, err)
	}
	return parseProbe(out)
}

// FileSource decodes a video file to raw RGBA frames through an ffmpeg
// pipe.
type FileSource struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	buf    []byte
	size   layout.Size
	fps    float64
	closed bool
}

var _ render.Source = (*FileSource)(nil)

// OpenSource probes the file and starts the decoding pipeline.
func OpenSource(ctx context.Context, path string) (*FileSource, error) {
	info, err := probeFile(ctx, path)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-v", "error",
		"-i", path,
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"pipe:1",
	)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("decode pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start decoder: %w", err)
	}

	return &FileSource{
		cmd:    cmd,
		stdout: stdout,
		buf:    make([]byte, info.Width*info.Height*bytesPerPixel),
		size:   layout.Size{W: info.Width, H: info.Height},
		fps:    info.FPS,
	}, nil
}

// Next reads one decoded frame, returning io.EOF when the file ends.
func (s *FileSource) Next() (render.Image, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if _, err := io.ReadFull(s.stdout, s.buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read frame: %w", err)
	}

	frame := image.NewRGBA(image.Rect(0, 0, s.size.W, s.size.H))
	copy(frame.Pix, s.buf)
	return frame, nil
}

// Size is the pixel size of the decoded frames.
func (s *FileSource) Size() layout.Size { return s.size }

// FPS is the source frame rate.
func (s *FileSource) FPS() float64 { return s.fps }

// Close stops the decoder.
func (s *FileSource) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	_ = s.stdout.Close()
	if err := s.cmd.Wait(); err != nil {
		// The decoder gets killed mid-stream on early exit; that is not
		// a failure of the run.
		return nil
	}
	return nil
}
