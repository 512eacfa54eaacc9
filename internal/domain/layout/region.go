// Package layout positions overlay elements as fractions of the output
// frame, so the same configuration renders correctly at any resolution.
//
// A Region is a fractional box with independently configurable edge buffers.
// Regions that share a seam can be tagged with a partition so the buffer on
// the shared edge is split instead of doubled. Regions are immutable once
// built; the engine constructs its full set at startup and resolves them to
// pixel rects every frame.
package layout

import (
	"fmt"
	"math"
)

// HorizontalPartition tags which side of a shared vertical seam a region
// occupies.
type HorizontalPartition int

const (
	HorizontalNone HorizontalPartition = iota
	HorizontalLeft
	HorizontalCenter
	HorizontalRight
)

// VerticalPartition tags which side of a shared horizontal seam a region
// occupies.
type VerticalPartition int

const (
	VerticalNone VerticalPartition = iota
	VerticalTop
	VerticalCenter
	VerticalBottom
)

// Region describes a rectangular subregion of the frame in fractional
// coordinates, with optional per-edge buffers and partition tags.
type Region struct {
	x, y          float64
	width, height float64

	leftBuf, rightBuf float64
	topBuf, bottomBuf float64

	hPart HorizontalPartition
	vPart VerticalPartition
}

// Option applies a configuration option to a Region under construction.
type Option func(*Region)

// WithBuffers sets all four edge buffers, each expressed as a fraction of
// the frame dimension on its axis.
func WithBuffers(left, right, top, bottom float64) Option {
	return func(r *Region) {
		r.leftBuf = left
		r.rightBuf = right
		r.topBuf = top
		r.bottomBuf = bottom
	}
}

// WithHorizontalBuffer sets the same buffer on the left and right edges.
func WithHorizontalBuffer(buf float64) Option {
	return func(r *Region) {
		r.leftBuf = buf
		r.rightBuf = buf
	}
}

// WithVerticalBuffer sets the same buffer on the top and bottom edges.
func WithVerticalBuffer(buf float64) Option {
	return func(r *Region) {
		r.topBuf = buf
		r.bottomBuf = buf
	}
}

// WithHorizontalPartition tags the region's side of a vertical seam.
func WithHorizontalPartition(p HorizontalPartition) Option {
	return func(r *Region) {
		r.hPart = p
	}
}

// WithVerticalPartition tags the region's side of a horizontal seam.
func WithVerticalPartition(p VerticalPartition) Option {
	return func(r *Region) {
		r.vPart = p
	}
}

// New validates and builds a Region. Every violated constraint is reported
// by name so misconfigured layouts fail loudly at startup.
func New(x, y, width, height float64, opts ...Option) (Region, error) {
	r := Region{x: x, y: y, width: width, height: height}
	for _, opt := range opts {
		opt(&r)
	}

	if x < 0 || x > 1 {
		return Region{}, fmt.Errorf("%w: x %v outside [0, 1]", ErrInvalidRegion, x)
	}
	if y < 0 || y > 1 {
		return Region{}, fmt.Errorf("%w: y %v outside [0, 1]", ErrInvalidRegion, y)
	}
	if width < 0 || width > 1 {
		return Region{}, fmt.Errorf("%w: width %v outside [0, 1]", ErrInvalidRegion, width)
	}
	if height < 0 || height > 1 {
		return Region{}, fmt.Errorf("%w: height %v outside [0, 1]", ErrInvalidRegion, height)
	}
	if x+width > 1 {
		return Region{}, fmt.Errorf("%w: x + width = %v exceeds 1", ErrInvalidRegion, x+width)
	}
	if y+height > 1 {
		return Region{}, fmt.Errorf("%w: y + height = %v exceeds 1", ErrInvalidRegion, y+height)
	}
	for _, b := range []struct {
		name string
		val  float64
	}{
		{"left buffer", r.leftBuf},
		{"right buffer", r.rightBuf},
		{"top buffer", r.topBuf},
		{"bottom buffer", r.bottomBuf},
	} {
		if b.val < 0 {
			return Region{}, fmt.Errorf("%w: %s %v is negative", ErrInvalidRegion, b.name, b.val)
		}
	}
	if 2*r.leftBuf >= width {
		return Region{}, fmt.Errorf("%w: left buffer %v must be less than half of width %v", ErrInvalidRegion, r.leftBuf, width)
	}
	if 2*r.rightBuf >= width {
		return Region{}, fmt.Errorf("%w: right buffer %v must be less than half of width %v", ErrInvalidRegion, r.rightBuf, width)
	}
	if 2*r.topBuf >= height {
		return Region{}, fmt.Errorf("%w: top buffer %v must be less than half of height %v", ErrInvalidRegion, r.topBuf, height)
	}
	if 2*r.bottomBuf >= height {
		return Region{}, fmt.Errorf("%w: bottom buffer %v must be less than half of height %v", ErrInvalidRegion, r.bottomBuf, height)
	}
	if r.leftBuf+r.rightBuf >= width {
		return Region{}, fmt.Errorf("%w: left + right buffers %v must be less than width %v", ErrInvalidRegion, r.leftBuf+r.rightBuf, width)
	}
	if r.topBuf+r.bottomBuf >= height {
		return Region{}, fmt.Errorf("%w: top + bottom buffers %v must be less than height %v", ErrInvalidRegion, r.topBuf+r.bottomBuf, height)
	}

	return r, nil
}

// MustNew builds a Region and panics on invalid input. Reserved for
// compile-time constant layouts in tests.
func MustNew(x, y, width, height float64, opts ...Option) Region {
	r, err := New(x, y, width, height, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// fractionalBuffers returns the four buffers after applying partition
// semantics: the buffer on a shared seam edge is halved so two adjacent
// regions contribute one full buffer between them.
func (r Region) fractionalBuffers() (left, right, top, bottom float64) {
	left = r.leftBuf
	right = r.rightBuf
	top = r.topBuf
	bottom = r.bottomBuf

	switch r.hPart {
	case HorizontalLeft:
		right *= 0.5
	case HorizontalRight:
		left *= 0.5
	case HorizontalCenter:
		left *= 0.5
		right *= 0.5
	case HorizontalNone:
	}
	switch r.vPart {
	case VerticalTop:
		bottom *= 0.5
	case VerticalBottom:
		top *= 0.5
	case VerticalCenter:
		top *= 0.5
		bottom *= 0.5
	case VerticalNone:
	}
	return left, right, top, bottom
}

// effectiveBuffers converts the partition-adjusted buffers to pixels.
func (r Region) effectiveBuffers(frame Size) (left, right, top, bottom float64) {
	l, rt, t, b := r.fractionalBuffers()
	return l * float64(frame.W), rt * float64(frame.W), t * float64(frame.H), b * float64(frame.H)
}

// Inset folds the effective buffers into the box, returning a buffer-free
// region with the same resolved footprint. Transforms like MoveToward and
// ScaleAboutCenter operate on the box alone, so a buffered region is inset
// first to keep its footprint stable across the transform.
func (r Region) Inset() Region {
	left, right, top, bottom := r.fractionalBuffers()
	return Region{
		x:      r.x + left,
		y:      r.y + top,
		width:  r.width - left - right,
		height: r.height - top - bottom,
	}
}

// MoveToward returns a region of the same size whose center has traveled
// the given fraction of the way toward the point (cx, cy). The move clamps
// so the box stays inside the frame. The result carries no buffers or
// partition tags; it describes the relocated box itself.
func (r Region) MoveToward(cx, cy, fraction float64) (Region, error) {
	if fraction < 0 || fraction > 1 {
		return Region{}, fmt.Errorf("%w: fraction %v outside [0, 1]", ErrInvalidRegion, fraction)
	}

	curX := r.x + r.width/2
	curY := r.y + r.height/2
	newX := curX + (cx-curX)*fraction - r.width/2
	newY := curY + (cy-curY)*fraction - r.height/2

	newX = math.Min(math.Max(0, newX), 1-r.width)
	newY = math.Min(math.Max(0, newY), 1-r.height)

	return New(newX, newY, r.width, r.height)
}

// ResolveRaw converts the fractional box and buffers directly to a pixel
// rect inside the given frame.
func (r Region) ResolveRaw(frame Size) Rect {
	left, right, top, bottom := r.effectiveBuffers(frame)

	outerX := r.x*float64(frame.W) + left
	outerY := r.y*float64(frame.H) + top
	outerW := r.width*float64(frame.W) - (left + right)
	outerH := r.height*float64(frame.H) - (top + bottom)

	return Rect{
		X: int(outerX),
		Y: int(outerY),
		W: int(outerW),
		H: int(outerH),
	}
}

// ResolveFit resolves the region and then shrinks the box to preserve the
// given content aspect ratio (width/height), centering the result inside
// the buffered box. Used to place images with a native aspect ratio without
// distortion.
func (r Region) ResolveFit(frame Size, aspect float64) Rect {
	outer := r.ResolveRaw(frame)
	if aspect <= 0 || outer.W <= 0 || outer.H <= 0 {
		return outer
	}

	potentialH := float64(outer.W) / aspect
	potentialW := float64(outer.H) * aspect

	var w, h int
	if potentialW > float64(outer.W) {
		w, h = outer.W, int(potentialH)
	} else {
		w, h = int(potentialW), outer.H
	}

	return Rect{
		X: outer.X + CenterOffset(w, outer.W),
		Y: outer.Y + CenterOffset(h, outer.H),
		W: w,
		H: h,
	}
}

// ScaleAboutCenter returns a new region grown or shrunk about its own
// center. Growth is clamped to the largest factor that keeps all four edges
// inside the frame, so a zoomed card can never escape [0,1]x[0,1]. The
// result carries no buffers or partition tags; it describes the scaled box
// itself.
func (r Region) ScaleAboutCenter(factor float64) (Region, error) {
	if factor <= 0 {
		return Region{}, fmt.Errorf("%w: %v is not positive", ErrInvalidScale, factor)
	}

	if factor > 1 {
		// Maximum permissible growth per edge; the tightest margin wins.
		leftBound := (r.width + 2*r.x) / r.width
		rightBound := (r.width + 2*(1-r.x-r.width)) / r.width
		topBound := (r.height + 2*r.y) / r.height
		bottomBound := (r.height + 2*(1-r.y-r.height)) / r.height

		for _, bound := range []float64{leftBound, rightBound, topBound, bottomBound} {
			factor = math.Min(factor, bound)
		}
	}

	newW := r.width * factor
	newH := r.height * factor
	newX := r.x - (newW-r.width)/2
	newY := r.y - (newH-r.height)/2

	// Guard against float error nudging an edge past the frame.
	newX = math.Max(0, newX)
	newY = math.Max(0, newY)
	if newX+newW > 1 {
		newW = 1 - newX
	}
	if newY+newH > 1 {
		newH = 1 - newY
	}

	return New(newX, newY, newW, newH)
}

// Bounds returns the fractional box of the region.
func (r Region) Bounds() (x, y, width, height float64) {
	return r.x, r.y, r.width, r.height
}
