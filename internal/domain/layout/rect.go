package layout

// Size is a frame size in pixels.
type Size struct {
	W int
	H int
}

// Rect is a resolved pixel rectangle inside a frame.
type Rect struct {
	X int
	Y int
	W int
	H int
}

// CenterOffset returns the offset that centers a span of inner pixels
// inside a span of outer pixels.
func CenterOffset(inner, outer int) int {
	return (outer - inner) / 2
}

// Within reports whether the rect lies fully inside a frame of the given
// size.
func (r Rect) Within(frame Size) bool {
	return r.X >= 0 && r.Y >= 0 &&
		r.W >= 0 && r.H >= 0 &&
		r.X+r.W <= frame.W && r.Y+r.H <= frame.H
}

// Aspect returns the width/height ratio of the rect. Zero-height rects
// report zero.
func (r Rect) Aspect() float64 {
	if r.H == 0 {
		return 0
	}
	return float64(r.W) / float64(r.H)
}
