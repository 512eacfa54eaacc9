package render

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/TrevorCOConnor/go-to-one/internal/config"
	"github.com/TrevorCOConnor/go-to-one/internal/domain/cardshow"
	"github.com/TrevorCOConnor/go-to-one/internal/domain/layout"
)

// zoomComp records where the card lands. Only the methods the zoom path
// touches are implemented; anything else panics through the nil embed.
type zoomComp struct {
	Compositor
	rects []layout.Rect
}

func (c *zoomComp) Bounds(Image) (layout.Size, error) {
	return layout.Size{W: 450, H: 628}, nil
}

func (c *zoomComp) Resize(_ Image, rect layout.Rect) (Image, error) {
	return rect, nil
}

func (c *zoomComp) Composite(_, _ Image, rect layout.Rect) error {
	c.rects = append(c.rects, rect)
	return nil
}

func zoomEngine(comp *zoomComp) *Engine {
	cfg := config.New()
	regions, err := buildRegions(cfg)
	if err != nil {
		panic(err)
	}
	return &Engine{
		cfg:       cfg,
		comp:      comp,
		regions:   regions,
		frameSize: layout.Size{W: 1920, H: 1080},
	}
}

func TestComposeZoomedCard(t *testing.T) {
	Convey("Given a card fully zoomed in", t, func() {
		comp := &zoomComp{}
		e := zoomEngine(comp)
		resting, err := e.fitRect(e.regions.card, struct{}{})
		So(err, ShouldBeNil)

		err = e.composeZoomedCard(nil, cardshow.Directive{
			Phase: cardshow.PhaseZoomDisplaying,
			Art:   struct{}{},
			Zoom:  1,
		})
		So(err, ShouldBeNil)
		So(len(comp.rects), ShouldEqual, 1)
		zoomed := comp.rects[0]

		Convey("Then the card left its resting rect and grew", func() {
			So(zoomed, ShouldNotResemble, resting)
			So(zoomed.W, ShouldBeGreaterThan, resting.W)
			So(zoomed.H, ShouldBeGreaterThan, resting.H)
			So(zoomed.X, ShouldBeGreaterThan, resting.X)
		})

		Convey("Then the card stays inside the frame", func() {
			So(zoomed.Within(e.frameSize), ShouldBeTrue)
		})
	})

	Convey("Given a zoom just beginning", t, func() {
		comp := &zoomComp{}
		e := zoomEngine(comp)
		resting, err := e.fitRect(e.regions.card, struct{}{})
		So(err, ShouldBeNil)

		err = e.composeZoomedCard(nil, cardshow.Directive{
			Phase: cardshow.PhaseZoomingIn,
			Art:   struct{}{},
			Zoom:  0,
		})
		So(err, ShouldBeNil)
		So(len(comp.rects), ShouldEqual, 1)

		Convey("Then the card sits exactly at its resting rect", func() {
			So(comp.rects[0], ShouldResemble, resting)
		})
	})

	Convey("Given a mid-zoom frame", t, func() {
		comp := &zoomComp{}
		e := zoomEngine(comp)
		resting, err := e.fitRect(e.regions.card, struct{}{})
		So(err, ShouldBeNil)

		err = e.composeZoomedCard(nil, cardshow.Directive{
			Phase: cardshow.PhaseZoomingIn,
			Art:   struct{}{},
			Zoom:  0.5,
		})
		So(err, ShouldBeNil)
		mid := comp.rects[0]

		Convey("Then the card is between its resting and zoomed extents", func() {
			So(mid.W, ShouldBeGreaterThan, resting.W)
			So(mid.X, ShouldBeGreaterThan, resting.X)
			So(mid.Within(e.frameSize), ShouldBeTrue)
		})
	})

	Convey("Given an oversized zoom factor", t, func() {
		comp := &zoomComp{}
		e := zoomEngine(comp)
		e.cfg.ZoomScale = 50

		err := e.composeZoomedCard(nil, cardshow.Directive{
			Phase: cardshow.PhaseZoomDisplaying,
			Art:   struct{}{},
			Zoom:  1,
		})
		So(err, ShouldBeNil)

		Convey("Then the clamped card still fits the frame", func() {
			So(comp.rects[0].Within(e.frameSize), ShouldBeTrue)
		})
	})
}
