// Package render orchestrates one overlay run: it owns the media clock,
// replays timeline events against it, and composes every output frame in a
// deterministic per-frame order. Decoding, encoding, and pixel work live
// behind the consumer-side interfaces in this file so the loop itself stays
// free of any imaging backend.
package render

import (
	"github.com/TrevorCOConnor/go-to-one/internal/domain/layout"
)

// Image is an opaque handle to a decoded frame or loaded image. The
// concrete type belongs to the Compositor implementation.
type Image any

// Source yields decoded frames from the input video in presentation order.
type Source interface {
	// Next returns the next frame, or io.EOF when the video is exhausted.
	Next() (Image, error)
	// Size is the pixel size of the output frame.
	Size() layout.Size
	// FPS is the source frame rate.
	FPS() float64
}

// Sink receives composed frames in order.
type Sink interface {
	Write(Image) error
}

// Looper yields frames from a short clip that restarts when it runs out.
// Hero art animations and the scoreboard background use it.
type Looper interface {
	Next() (Image, error)
}

// WarpDirection selects which way a perspective warp rotates the card.
type WarpDirection int

const (
	// WarpOut collapses the card toward its vertical axis as progress
	// approaches 1.
	WarpOut WarpDirection = iota
	// WarpIn expands the card from its vertical axis as progress
	// approaches 1.
	WarpIn
)

// Font selects a typeface family understood by the compositor.
type Font int

const (
	FontSimplex Font = iota
	FontScript
)

// Color is an RGB triple.
type Color struct {
	R, G, B uint8
}

// Shared palette.
var (
	ColorWhite = Color{R: 255, G: 255, B: 255}
	ColorBlack = Color{}
	ColorGreen = Color{G: 255}
)

// Panel border colors, in increasing precedence.
var (
	panelNeutralColor = ColorBlack
	panelActiveColor  = Color{R: 255, G: 100}
	panelWinnerColor  = ColorGreen
)

// TextStyle describes how DrawText renders a string.
type TextStyle struct {
	Font      Font
	Scale     float64
	Thickness int
	Color     Color
}

// Text presets matching the scoreboard design.
var (
	scoreTextStyle = TextStyle{Font: FontScript, Scale: 10, Thickness: 10, Color: ColorWhite}
	labelTextStyle = TextStyle{Font: FontSimplex, Scale: 1.75, Thickness: 3, Color: ColorWhite}
	introNameStyle = TextStyle{Font: FontSimplex, Scale: 4, Thickness: 6, Color: ColorWhite}
)

// Compositor is the imaging backend consumed by the engine. Methods that
// take a frame mutate it in place; methods that take images return new
// ones. Implementations do not need to be safe for concurrent use.
type Compositor interface {
	// LoadImage decodes the image at the given path.
	LoadImage(path string) (Image, error)
	// NewCanvas creates a solid-color image of the given size.
	NewCanvas(size layout.Size, c Color) (Image, error)
	// Bounds returns the pixel size of an image.
	Bounds(img Image) (layout.Size, error)
	// Crop returns the subimage under rect.
	Crop(img Image, rect layout.Rect) (Image, error)
	// Mirror flips an image horizontally.
	Mirror(img Image) (Image, error)
	// Resize scales an image to the rect's dimensions.
	Resize(img Image, rect layout.Rect) (Image, error)
	// PerspectiveWarp rotates an image about its vertical axis by the
	// given progress fraction in the given direction.
	PerspectiveWarp(img Image, progress float64, dir WarpDirection) (Image, error)
	// RemoveColorKey overlays foreground on background, treating pixels
	// matching the key color as transparent.
	RemoveColorKey(background, foreground Image, key Color) (Image, error)
	// Blend mixes two same-sized images; alpha weighs the foreground.
	Blend(background, foreground Image, alpha float64) (Image, error)
	// Extract copies the frame content under rect into a new image.
	Extract(frame Image, rect layout.Rect) (Image, error)
	// FillRect paints a solid rectangle onto the frame.
	FillRect(frame Image, rect layout.Rect, c Color) error
	// StrokeRect outlines a rectangle on the frame.
	StrokeRect(frame Image, rect layout.Rect, c Color, thickness int) error
	// DrawText centers text inside rect on the frame.
	DrawText(frame Image, text string, rect layout.Rect, style TextStyle) error
	// Composite copies an image onto the frame at rect.
	Composite(frame Image, img Image, rect layout.Rect) error
}
