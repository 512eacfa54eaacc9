package render

import (
	"context"

	"github.com/TrevorCOConnor/go-to-one/internal/domain/ease"
	"github.com/TrevorCOConnor/go-to-one/internal/domain/layout"
	"github.com/TrevorCOConnor/go-to-one/pkg/logger"
	"github.com/TrevorCOConnor/go-to-one/pkg/metrics"
)

// renderIntro writes the opening sequence: the first hero's art bounces
// into the top half, the second hero's into the bottom half, then both
// hold with the hero names drawn over them. The sequence spans the
// configured intro duration in four equal quarters.
func (e *Engine) renderIntro(ctx context.Context) error {
	quarter := e.introFrames() / 4
	if quarter == 0 {
		return nil
	}

	e.log.Info(ctx, "rendering intro",
		logger.Int("frames", 4*quarter),
	)

	half := e.frameSize.H / 2
	topRect := layout.Rect{W: e.frameSize.W, H: half}
	bottomRect := layout.Rect{Y: half, W: e.frameSize.W, H: half}

	// First hero slides in alone.
	for i := 0; i < quarter; i++ {
		frame, err := e.comp.NewCanvas(e.frameSize, ColorBlack)
		if err != nil {
			return e.renderErr("intro", err)
		}
		top, err := e.introHeroImage(e.hero1Anim, topRect, true)
		if err != nil {
			return err
		}
		p := float64(i) / float64(quarter)
		if err := e.bounceIn(frame, top, p, half, true); err != nil {
			return err
		}
		if err := e.writeIntroFrame(frame); err != nil {
			return err
		}
	}

	// First hero holds while the second slides in.
	for i := 0; i < quarter; i++ {
		frame, err := e.comp.NewCanvas(e.frameSize, ColorBlack)
		if err != nil {
			return e.renderErr("intro", err)
		}
		top, err := e.introHeroImage(e.hero1Anim, topRect, true)
		if err != nil {
			return err
		}
		if err := e.comp.Composite(frame, top, topRect); err != nil {
			return e.renderErr("intro", err)
		}
		bottom, err := e.introHeroImage(e.hero2Anim, bottomRect, false)
		if err != nil {
			return err
		}
		p := float64(i) / float64(quarter)
		if err := e.bounceIn(frame, bottom, p, half, false); err != nil {
			return err
		}
		if err := e.writeIntroFrame(frame); err != nil {
			return err
		}
	}

	// Both hold; the names appear halfway through the hold.
	for i := 0; i < 2*quarter; i++ {
		frame, err := e.comp.NewCanvas(e.frameSize, ColorBlack)
		if err != nil {
			return e.renderErr("intro", err)
		}
		top, err := e.introHeroImage(e.hero1Anim, topRect, true)
		if err != nil {
			return err
		}
		if err := e.comp.Composite(frame, top, topRect); err != nil {
			return e.renderErr("intro", err)
		}
		bottom, err := e.introHeroImage(e.hero2Anim, bottomRect, false)
		if err != nil {
			return err
		}
		if err := e.comp.Composite(frame, bottom, bottomRect); err != nil {
			return e.renderErr("intro", err)
		}

		if i > quarter {
			if err := e.introNames(frame, half); err != nil {
				return err
			}
		}
		if err := e.writeIntroFrame(frame); err != nil {
			return err
		}
	}

	return nil
}

// introHeroImage pulls the next art frame for a half panel, mirroring
// the first hero so the two face each other.
func (e *Engine) introHeroImage(anim Looper, rect layout.Rect, mirror bool) (Image, error) {
	if anim == nil {
		return e.comp.NewCanvas(layout.Size{W: rect.W, H: rect.H}, ColorBlack)
	}
	img, err := anim.Next()
	if err != nil {
		return nil, e.renderErr("intro", err)
	}
	if mirror {
		img, err = e.comp.Mirror(img)
		if err != nil {
			return nil, e.renderErr("intro", err)
		}
	}
	sized, err := e.comp.Resize(img, layout.Rect{W: rect.W, H: rect.H})
	if err != nil {
		return nil, e.renderErr("intro", err)
	}
	return sized, nil
}

// bounceIn reveals a half-frame image by the eased progress fraction.
// The top panel enters showing its right edge first; the bottom panel
// mirrors that from the other side.
func (e *Engine) bounceIn(frame Image, img Image, progress float64, half int, top bool) error {
	width := e.frameSize.W
	visible := int(ease.Bounce.Apply(progress) * float64(width))
	if visible <= 0 {
		return nil
	}
	if visible > width {
		visible = width
	}

	var crop, place layout.Rect
	if top {
		crop = layout.Rect{X: width - visible, W: visible, H: half}
		place = layout.Rect{W: visible, H: half}
	} else {
		crop = layout.Rect{W: visible, H: half}
		place = layout.Rect{X: width - visible, Y: half, W: visible, H: half}
	}

	cropped, err := e.comp.Crop(img, crop)
	if err != nil {
		return e.renderErr("intro", err)
	}
	if err := e.comp.Composite(frame, cropped, place); err != nil {
		return e.renderErr("intro", err)
	}
	return nil
}

// introNames centers each hero's name over their half of the frame.
func (e *Engine) introNames(frame Image, half int) error {
	boxW := 3 * e.frameSize.W / 5
	boxH := 3 * half / 5

	rects := []struct {
		rect layout.Rect
		text string
	}{
		{layout.Rect{
			X: layout.CenterOffset(boxW, e.frameSize.W),
			Y: layout.CenterOffset(boxH, half),
			W: boxW,
			H: boxH,
		}, e.setup.Hero1},
		{layout.Rect{
			X: layout.CenterOffset(boxW, e.frameSize.W),
			Y: half + layout.CenterOffset(boxH, half),
			W: boxW,
			H: boxH,
		}, e.setup.Hero2},
	}
	for _, r := range rects {
		if err := e.comp.DrawText(frame, r.text, r.rect, introNameStyle); err != nil {
			return e.renderErr("intro", err)
		}
	}
	return nil
}

func (e *Engine) writeIntroFrame(frame Image) error {
	if err := e.sink.Write(frame); err != nil {
		return e.renderErr("intro", err)
	}
	metrics.RecordFrameRendered()
	e.frames++
	return nil
}
