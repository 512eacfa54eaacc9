package layout_test

import (
	"errors"
	"testing"

	"github.com/TrevorCOConnor/go-to-one/internal/domain/layout"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRegionConstruction(t *testing.T) {
	Convey("Given fractional box coordinates", t, func() {
		Convey("When the box fits inside the frame", func() {
			r, err := layout.New(0.1, 0.2, 0.5, 0.5)

			So(err, ShouldBeNil)
			x, y, w, h := r.Bounds()
			So(x, ShouldEqual, 0.1)
			So(y, ShouldEqual, 0.2)
			So(w, ShouldEqual, 0.5)
			So(h, ShouldEqual, 0.5)
		})

		Convey("When x and width overflow the frame", func() {
			_, err := layout.New(0.6, 0.0, 0.5, 0.5)

			So(errors.Is(err, layout.ErrInvalidRegion), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "x + width")
		})

		Convey("When y and height overflow the frame", func() {
			_, err := layout.New(0.0, 0.7, 0.5, 0.5)

			So(errors.Is(err, layout.ErrInvalidRegion), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "y + height")
		})

		Convey("When a coordinate is not a valid fraction", func() {
			_, err := layout.New(-0.1, 0.0, 0.5, 0.5)

			So(errors.Is(err, layout.ErrInvalidRegion), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "x")
		})

		Convey("When a buffer is at least half its dimension", func() {
			_, err := layout.New(0.0, 0.0, 0.2, 0.5,
				layout.WithBuffers(0.15, 0.0, 0.0, 0.0))

			So(errors.Is(err, layout.ErrInvalidRegion), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "left buffer")
		})

		Convey("When opposing buffers together consume the dimension", func() {
			_, err := layout.New(0.0, 0.0, 0.5, 0.21,
				layout.WithBuffers(0.0, 0.0, 0.1, 0.1))

			So(errors.Is(err, layout.ErrInvalidRegion), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "top + bottom")
		})

		Convey("When a buffer is negative", func() {
			_, err := layout.New(0.0, 0.0, 0.5, 0.5,
				layout.WithBuffers(0.0, -0.01, 0.0, 0.0))

			So(errors.Is(err, layout.ErrInvalidRegion), ShouldBeTrue)
		})
	})
}

func TestResolveRaw(t *testing.T) {
	frame := layout.Size{W: 1920, H: 1080}

	Convey("Given a buffered region", t, func() {
		r := layout.MustNew(0.0, 0.0, 0.2, 0.5,
			layout.WithBuffers(0.01, 0.01, 0.01, 0.01))

		Convey("When resolved without a partition", func() {
			rect := r.ResolveRaw(frame)

			Convey("Then both edge buffers apply in full", func() {
				wantW := 0.2*1920 - 2*19.2
				wantH := 0.5*1080 - 2*10.8
				So(rect.X, ShouldEqual, 19)
				So(rect.Y, ShouldEqual, 10)
				So(rect.W, ShouldEqual, int(wantW))
				So(rect.H, ShouldEqual, int(wantH))
			})

			Convey("Then the rect stays inside the frame", func() {
				So(rect.Within(frame), ShouldBeTrue)
			})
		})

		Convey("When tagged as the left side of a seam", func() {
			left := layout.MustNew(0.0, 0.0, 0.2, 0.5,
				layout.WithBuffers(0.01, 0.01, 0.01, 0.01),
				layout.WithHorizontalPartition(layout.HorizontalLeft))
			rect := left.ResolveRaw(frame)

			Convey("Then the inner (right) buffer is halved", func() {
				full := r.ResolveRaw(frame)
				So(rect.X, ShouldEqual, full.X)
				So(rect.W, ShouldBeGreaterThan, full.W)
			})
		})

		Convey("When tagged as the bottom side of a seam", func() {
			bottom := layout.MustNew(0.0, 0.5, 0.2, 0.5,
				layout.WithBuffers(0.01, 0.01, 0.01, 0.01),
				layout.WithVerticalPartition(layout.VerticalBottom))
			rect := bottom.ResolveRaw(frame)

			Convey("Then the inner (top) buffer is halved", func() {
				full := layout.MustNew(0.5, 0.5, 0.2, 0.5,
					layout.WithBuffers(0.01, 0.01, 0.01, 0.01)).ResolveRaw(frame)
				So(rect.Y, ShouldBeLessThan, full.Y)
			})
		})
	})
}

func TestResolveFit(t *testing.T) {
	frame := layout.Size{W: 1920, H: 1080}

	Convey("Given a wide region and tall content", t, func() {
		r := layout.MustNew(0.0, 0.0, 0.5, 0.25)
		// Card aspect: 450x628.
		rect := r.ResolveFit(frame, 450.0/628.0)

		Convey("Then the content height fills the box and width shrinks", func() {
			So(rect.H, ShouldEqual, int(0.25*1080))
			So(rect.W, ShouldBeLessThan, int(0.5*1920))
			So(float64(rect.W)/float64(rect.H), ShouldAlmostEqual, 450.0/628.0, 0.01)
		})

		Convey("Then the result is centered inside the raw box", func() {
			raw := r.ResolveRaw(frame)
			So(rect.X-raw.X, ShouldEqual, layout.CenterOffset(rect.W, raw.W))
			So(rect.Within(frame), ShouldBeTrue)
		})
	})

	Convey("Given a tall region and wide content", t, func() {
		r := layout.MustNew(0.0, 0.0, 0.25, 0.9)
		rect := r.ResolveFit(frame, 16.0/9.0)

		Convey("Then the content width fills the box and height shrinks", func() {
			So(rect.W, ShouldEqual, int(0.25*1920))
			So(rect.H, ShouldBeLessThan, int(0.9*1080))
			So(rect.Within(frame), ShouldBeTrue)
		})
	})
}

func TestScaleAboutCenter(t *testing.T) {
	Convey("Given a small centered region", t, func() {
		r := layout.MustNew(0.4, 0.4, 0.2, 0.2)

		Convey("When grown within limits", func() {
			scaled, err := r.ScaleAboutCenter(1.5)

			So(err, ShouldBeNil)
			x, y, w, h := scaled.Bounds()
			So(w, ShouldAlmostEqual, 0.3)
			So(h, ShouldAlmostEqual, 0.3)
			So(x, ShouldAlmostEqual, 0.35)
			So(y, ShouldAlmostEqual, 0.35)
		})

		Convey("When shrunk", func() {
			scaled, err := r.ScaleAboutCenter(0.5)

			So(err, ShouldBeNil)
			x, y, w, h := scaled.Bounds()
			So(w, ShouldAlmostEqual, 0.1)
			So(h, ShouldAlmostEqual, 0.1)
			So(x, ShouldAlmostEqual, 0.45)
			So(y, ShouldAlmostEqual, 0.45)
		})

		Convey("When the factor is not positive", func() {
			_, err := r.ScaleAboutCenter(0)

			So(errors.Is(err, layout.ErrInvalidScale), ShouldBeTrue)
		})
	})

	Convey("Given a region already occupying most of the frame", t, func() {
		r := layout.MustNew(0.05, 0.1, 0.8, 0.8)

		Convey("When asked to double", func() {
			scaled, err := r.ScaleAboutCenter(2.0)

			So(err, ShouldBeNil)
			x, y, w, h := scaled.Bounds()

			Convey("Then the applied factor is strictly less than 2", func() {
				So(w/0.8, ShouldBeLessThan, 2.0)
				So(h/0.8, ShouldBeLessThan, 2.0)
			})

			Convey("Then the result stays inside the unit square", func() {
				So(x, ShouldBeGreaterThanOrEqualTo, 0.0)
				So(y, ShouldBeGreaterThanOrEqualTo, 0.0)
				So(x+w, ShouldBeLessThanOrEqualTo, 1.0)
				So(y+h, ShouldBeLessThanOrEqualTo, 1.0)
			})
		})

		Convey("When the left margin is the tightest bound", func() {
			tight := layout.MustNew(0.01, 0.3, 0.4, 0.4)
			scaled, err := tight.ScaleAboutCenter(2.0)

			So(err, ShouldBeNil)
			x, _, w, _ := scaled.Bounds()
			// Capped by (w + 2x)/w = 1.05.
			So(w, ShouldAlmostEqual, 0.4*1.05, 1e-9)
			So(x, ShouldBeGreaterThanOrEqualTo, 0.0)
		})
	})
}

func TestInset(t *testing.T) {
	Convey("Given a buffered region on a shared seam", t, func() {
		r := layout.MustNew(0.0, 0.5, 0.2, 0.5,
			layout.WithHorizontalBuffer(0.01),
			layout.WithVerticalBuffer(0.01),
			layout.WithHorizontalPartition(layout.HorizontalLeft),
			layout.WithVerticalPartition(layout.VerticalBottom))

		Convey("When the buffers are folded into the box", func() {
			inset := r.Inset()
			x, y, w, h := inset.Bounds()

			Convey("Then the seam-side buffers are halved", func() {
				So(x, ShouldAlmostEqual, 0.01)
				So(y, ShouldAlmostEqual, 0.505)
				So(w, ShouldAlmostEqual, 0.2-0.01-0.005)
				So(h, ShouldAlmostEqual, 0.5-0.005-0.01)
			})

			Convey("Then the footprint matches the buffered resolve", func() {
				frame := layout.Size{W: 1920, H: 1080}
				So(inset.ResolveRaw(frame), ShouldResemble, r.ResolveRaw(frame))
			})
		})
	})
}

func TestMoveToward(t *testing.T) {
	Convey("Given a region in the frame's corner", t, func() {
		r := layout.MustNew(0.0, 0.5, 0.2, 0.5)

		Convey("When moved all the way to the frame center", func() {
			moved, err := r.MoveToward(0.5, 0.5, 1.0)

			So(err, ShouldBeNil)
			x, y, w, h := moved.Bounds()
			So(x+w/2, ShouldAlmostEqual, 0.5)
			So(y+h/2, ShouldAlmostEqual, 0.5)
			So(w, ShouldAlmostEqual, 0.2)
			So(h, ShouldAlmostEqual, 0.5)
		})

		Convey("When moved halfway", func() {
			moved, err := r.MoveToward(0.5, 0.5, 0.5)

			So(err, ShouldBeNil)
			x, y, _, _ := moved.Bounds()
			So(x+0.1, ShouldAlmostEqual, (0.1+0.5)/2)
			So(y+0.25, ShouldAlmostEqual, (0.75+0.5)/2)
		})

		Convey("When not moved at all", func() {
			moved, err := r.MoveToward(0.5, 0.5, 0.0)

			So(err, ShouldBeNil)
			x, y, _, _ := moved.Bounds()
			So(x, ShouldAlmostEqual, 0.0)
			So(y, ShouldAlmostEqual, 0.5)
		})

		Convey("When the fraction is outside the unit interval", func() {
			_, err := r.MoveToward(0.5, 0.5, 1.2)

			So(errors.Is(err, layout.ErrInvalidRegion), ShouldBeTrue)
		})

		Convey("When the target would push the box past an edge", func() {
			moved, err := r.MoveToward(1.0, 1.0, 1.0)

			So(err, ShouldBeNil)
			x, y, w, h := moved.Bounds()
			So(x+w, ShouldBeLessThanOrEqualTo, 1.0)
			So(y+h, ShouldBeLessThanOrEqualTo, 1.0)
		})
	})

	Convey("Given a corner-anchored region that cannot grow in place", t, func() {
		r := layout.MustNew(0.0, 0.5, 0.2, 0.5)

		Convey("When relocated to the center and then grown", func() {
			moved, err := r.MoveToward(0.5, 0.5, 1.0)
			So(err, ShouldBeNil)
			scaled, err := moved.ScaleAboutCenter(1.5)
			So(err, ShouldBeNil)

			Convey("Then the growth is no longer clamped away", func() {
				_, _, w, h := scaled.Bounds()
				So(w, ShouldAlmostEqual, 0.3)
				So(h, ShouldAlmostEqual, 0.75)
			})
		})
	})
}
