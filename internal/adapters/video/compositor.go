// Package video implements the render engine's media interfaces on
// ffmpeg pipes and the standard image package: frames move between the
// engine and ffmpeg as raw RGBA, and all composition happens in process.
package video

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"

	_ "image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/TrevorCOConnor/go-to-one/internal/domain/layout"
	"github.com/TrevorCOConnor/go-to-one/internal/render"
)

// colorKeyTolerance is the per-channel distance under which a pixel
// matches the key color.
const colorKeyTolerance = 12

// Compositor is an in-process imaging backend. All images it produces
// and consumes are *image.RGBA.
type Compositor struct{}

var _ render.Compositor = (*Compositor)(nil)

// NewCompositor creates the stdlib-backed compositor.
func NewCompositor() *Compositor {
	return &Compositor{}
}

func asRGBA(img render.Image) (*image.RGBA, error) {
	rgba, ok := img.(*image.RGBA)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrBadImage, img)
	}
	return rgba, nil
}

func toNRGBA(c render.Color) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// LoadImage decodes a PNG or JPEG file into RGBA.
func (c *Compositor) LoadImage(path string) (render.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	decoded, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}

	out := image.NewRGBA(image.Rect(0, 0, decoded.Bounds().Dx(), decoded.Bounds().Dy()))
	draw.Draw(out, out.Bounds(), decoded, decoded.Bounds().Min, draw.Src)
	return out, nil
}

// NewCanvas creates a solid-color image.
func (c *Compositor) NewCanvas(size layout.Size, col render.Color) (render.Image, error) {
	out := image.NewRGBA(image.Rect(0, 0, size.W, size.H))
	draw.Draw(out, out.Bounds(), image.NewUniform(toNRGBA(col)), image.Point{}, draw.Src)
	return out, nil
}

// Bounds returns the pixel size of an image.
func (c *Compositor) Bounds(img render.Image) (layout.Size, error) {
	rgba, err := asRGBA(img)
	if err != nil {
		return layout.Size{}, err
	}
	return layout.Size{W: rgba.Bounds().Dx(), H: rgba.Bounds().Dy()}, nil
}

// Crop copies the subimage under rect.
func (c *Compositor) Crop(img render.Image, rect layout.Rect) (render.Image, error) {
	rgba, err := asRGBA(img)
	if err != nil {
		return nil, err
	}
	out := image.NewRGBA(image.Rect(0, 0, rect.W, rect.H))
	draw.Draw(out, out.Bounds(), rgba, image.Pt(rect.X, rect.Y), draw.Src)
	return out, nil
}

// Mirror flips an image horizontally.
func (c *Compositor) Mirror(img render.Image) (render.Image, error) {
	rgba, err := asRGBA(img)
	if err != nil {
		return nil, err
	}
	b := rgba.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			out.Set(x, y, rgba.At(b.Min.X+b.Dx()-1-x, b.Min.Y+y))
		}
	}
	return out, nil
}

// Resize scales an image to the rect's dimensions.
func (c *Compositor) Resize(img render.Image, rect layout.Rect) (render.Image, error) {
	rgba, err := asRGBA(img)
	if err != nil {
		return nil, err
	}
	out := image.NewRGBA(image.Rect(0, 0, rect.W, rect.H))
	xdraw.ApproxBiLinear.Scale(out, out.Bounds(), rgba, rgba.Bounds(), xdraw.Src, nil)
	return out, nil
}

// PerspectiveWarp approximates a card flip by squeezing the image toward
// its vertical axis. The output keeps the input's bounds; the squeezed
// content sits centered with transparent margins.
func (c *Compositor) PerspectiveWarp(img render.Image, progress float64, dir render.WarpDirection) (render.Image, error) {
	rgba, err := asRGBA(img)
	if err != nil {
		return nil, err
	}
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}

	angle := progress * math.Pi / 2
	scale := math.Cos(angle)
	if dir == render.WarpIn {
		scale = math.Sin(angle)
	}

	b := rgba.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	width := int(float64(b.Dx()) * scale)
	if width <= 0 {
		return out, nil
	}

	offset := layout.CenterOffset(width, b.Dx())
	target := image.Rect(offset, 0, offset+width, b.Dy())
	xdraw.ApproxBiLinear.Scale(out, target, rgba, b, xdraw.Src, nil)
	return out, nil
}

// RemoveColorKey overlays the foreground on the background, skipping
// foreground pixels close to the key color.
func (c *Compositor) RemoveColorKey(background, foreground render.Image, key render.Color) (render.Image, error) {
	bg, err := asRGBA(background)
	if err != nil {
		return nil, err
	}
	fg, err := asRGBA(foreground)
	if err != nil {
		return nil, err
	}

	b := bg.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), bg, b.Min, draw.Src)

	fb := fg.Bounds()
	for y := 0; y < fb.Dy() && y < b.Dy(); y++ {
		for x := 0; x < fb.Dx() && x < b.Dx(); x++ {
			px := fg.RGBAAt(fb.Min.X+x, fb.Min.Y+y)
			if matchesKey(px, key) {
				continue
			}
			out.SetRGBA(x, y, px)
		}
	}
	return out, nil
}

func matchesKey(px color.RGBA, key render.Color) bool {
	diff := func(a, b uint8) int {
		d := int(a) - int(b)
		if d < 0 {
			return -d
		}
		return d
	}
	return diff(px.R, key.R) <= colorKeyTolerance &&
		diff(px.G, key.G) <= colorKeyTolerance &&
		diff(px.B, key.B) <= colorKeyTolerance
}

// Blend mixes the foreground into the background by alpha.
func (c *Compositor) Blend(background, foreground render.Image, alpha float64) (render.Image, error) {
	bg, err := asRGBA(background)
	if err != nil {
		return nil, err
	}
	fg, err := asRGBA(foreground)
	if err != nil {
		return nil, err
	}
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}

	b := bg.Bounds()
	fb := fg.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), bg, b.Min, draw.Src)

	mix := func(back, front uint8) uint8 {
		return uint8(float64(back)*(1-alpha) + float64(front)*alpha)
	}
	for y := 0; y < fb.Dy() && y < b.Dy(); y++ {
		for x := 0; x < fb.Dx() && x < b.Dx(); x++ {
			bp := out.RGBAAt(x, y)
			fp := fg.RGBAAt(fb.Min.X+x, fb.Min.Y+y)
			out.SetRGBA(x, y, color.RGBA{
				R: mix(bp.R, fp.R),
				G: mix(bp.G, fp.G),
				B: mix(bp.B, fp.B),
				A: 255,
			})
		}
	}
	return out, nil
}

// Extract copies the frame content under rect into a new image.
func (c *Compositor) Extract(frame render.Image, rect layout.Rect) (render.Image, error) {
	return c.Crop(frame, rect)
}

// FillRect paints a solid rectangle onto the frame.
func (c *Compositor) FillRect(frame render.Image, rect layout.Rect, col render.Color) error {
	rgba, err := asRGBA(frame)
	if err != nil {
		return err
	}
	target := image.Rect(rect.X, rect.Y, rect.X+rect.W, rect.Y+rect.H)
	draw.Draw(rgba, target, image.NewUniform(toNRGBA(col)), image.Point{}, draw.Src)
	return nil
}

// StrokeRect outlines a rectangle with four filled bars.
func (c *Compositor) StrokeRect(frame render.Image, rect layout.Rect, col render.Color, thickness int) error {
	if thickness <= 0 {
		return nil
	}
	bars := []layout.Rect{
		{X: rect.X, Y: rect.Y, W: rect.W, H: thickness},
		{X: rect.X, Y: rect.Y + rect.H - thickness, W: rect.W, H: thickness},
		{X: rect.X, Y: rect.Y, W: thickness, H: rect.H},
		{X: rect.X + rect.W - thickness, Y: rect.Y, W: thickness, H: rect.H},
	}
	for _, bar := range bars {
		if err := c.FillRect(frame, bar, col); err != nil {
			return err
		}
	}
	return nil
}

// DrawText renders the text with the built-in bitmap face, scales it by
// the style's scale factor, and centers it inside rect. The face has one
// weight, so the style's thickness participates only through scale.
func (c *Compositor) DrawText(frame render.Image, text string, rect layout.Rect, style render.TextStyle) error {
	rgba, err := asRGBA(frame)
	if err != nil {
		return err
	}
	if text == "" || rect.W <= 0 || rect.H <= 0 {
		return nil
	}

	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	height := face.Metrics().Height.Ceil()
	if width <= 0 {
		return nil
	}

	glyphs := image.NewRGBA(image.Rect(0, 0, width, height))
	drawer := &font.Drawer{
		Dst:  glyphs,
		Src:  image.NewUniform(toNRGBA(style.Color)),
		Face: face,
		Dot:  fixed.P(0, face.Metrics().Ascent.Ceil()),
	}
	drawer.DrawString(text)

	scale := style.Scale
	if scale <= 0 {
		scale = 1
	}
	scaledW := int(float64(width) * scale)
	scaledH := int(float64(height) * scale)
	if scaledW > rect.W {
		scaledH = scaledH * rect.W / scaledW
		scaledW = rect.W
	}
	if scaledH > rect.H {
		scaledW = scaledW * rect.H / scaledH
		scaledH = rect.H
	}
	if scaledW <= 0 || scaledH <= 0 {
		return nil
	}

	x := rect.X + layout.CenterOffset(scaledW, rect.W)
	y := rect.Y + layout.CenterOffset(scaledH, rect.H)
	target := image.Rect(x, y, x+scaledW, y+scaledH)
	xdraw.ApproxBiLinear.Scale(rgba, target, glyphs, glyphs.Bounds(), xdraw.Over, nil)
	return nil
}

// Composite draws an image over the frame at rect. A rect escaping the
// frame is an invariant violation, not a request to clip, and is
// rejected.
func (c *Compositor) Composite(frame render.Image, img render.Image, rect layout.Rect) error {
	dst, err := asRGBA(frame)
	if err != nil {
		return err
	}
	src, err := asRGBA(img)
	if err != nil {
		return err
	}
	bounds := dst.Bounds()
	if !rect.Within(layout.Size{W: bounds.Dx(), H: bounds.Dy()}) {
		return fmt.Errorf("%w: %+v in %dx%d frame",
			layout.ErrOutOfFrame, rect, bounds.Dx(), bounds.Dy())
	}
	target := image.Rect(rect.X, rect.Y, rect.X+rect.W, rect.Y+rect.H)
	draw.Draw(dst, target, src, src.Bounds().Min, draw.Over)
	return nil
}
