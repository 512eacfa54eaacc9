package render

import (
	"fmt"

	"github.com/TrevorCOConnor/go-to-one/internal/domain/cardshow"
	"github.com/TrevorCOConnor/go-to-one/internal/domain/layout"
	"github.com/TrevorCOConnor/go-to-one/internal/domain/match"
)

// compose assembles one output frame: the animated background, the source
// video inside the inner frame, the hero panels and scoreboard furniture
// along the top, the logo, and the card display panel driven by the
// session's directive.
func (e *Engine) compose(src Image, d cardshow.Directive) (Image, error) {
	frame, innerRect, err := e.composeBase(src)
	if err != nil {
		return nil, err
	}
	if err := e.composeHeroes(frame); err != nil {
		return nil, err
	}
	if err := e.composeScoreboard(frame); err != nil {
		return nil, err
	}
	if err := e.composeTurnCounter(frame, innerRect); err != nil {
		return nil, err
	}
	if err := e.comp.Composite(frame, e.logo, e.logoRect); err != nil {
		return nil, e.renderErr("logo", err)
	}
	if err := e.composeCard(frame, d); err != nil {
		return nil, err
	}
	return frame, nil
}

// composeBase draws the looping background across the whole frame and
// fits the cropped source video into the inner region with a border.
func (e *Engine) composeBase(src Image) (Image, layout.Rect, error) {
	full := layout.Rect{W: e.frameSize.W, H: e.frameSize.H}

	var frame Image
	if e.background != nil {
		bg, err := e.background.Next()
		if err != nil {
			return nil, layout.Rect{}, e.renderErr("background", err)
		}
		frame, err = e.comp.Resize(bg, full)
		if err != nil {
			return nil, layout.Rect{}, e.renderErr("background", err)
		}
	} else {
		var err error
		frame, err = e.comp.NewCanvas(e.frameSize, ColorBlack)
		if err != nil {
			return nil, layout.Rect{}, e.renderErr("background", err)
		}
	}

	src, err := e.cropSource(src)
	if err != nil {
		return nil, layout.Rect{}, e.renderErr("inner_frame", err)
	}
	innerRect, err := e.fitRect(e.regions.inner, src)
	if err != nil {
		return nil, layout.Rect{}, e.renderErr("inner_frame", err)
	}
	resized, err := e.comp.Resize(src, innerRect)
	if err != nil {
		return nil, layout.Rect{}, e.renderErr("inner_frame", err)
	}
	if err := e.comp.Composite(frame, resized, innerRect); err != nil {
		return nil, layout.Rect{}, e.renderErr("inner_frame", err)
	}
	if err := e.comp.StrokeRect(frame, innerRect, ColorBlack, innerBorderThickness); err != nil {
		return nil, layout.Rect{}, e.renderErr("inner_frame", err)
	}
	return frame, innerRect, nil
}

// cropSource trims the configured percentages off the source frame's left
// and right edges.
func (e *Engine) cropSource(src Image) (Image, error) {
	if e.cropLeft <= 0 && e.cropRight <= 0 {
		return src, nil
	}
	size, err := e.comp.Bounds(src)
	if err != nil {
		return nil, err
	}
	left := int(float64(size.W) * e.cropLeft / 100)
	right := int(float64(size.W) * e.cropRight / 100)
	return e.comp.Crop(src, layout.Rect{
		X: left,
		Y: 0,
		W: size.W - left - right,
		H: size.H,
	})
}

// composeHeroes draws both hero art panels with their state-colored
// borders. The first hero faces inward, so its art is mirrored.
func (e *Engine) composeHeroes(frame Image) error {
	if err := e.composeHero(frame, e.hero1Anim, e.regions.hero1, match.Player1, true); err != nil {
		return err
	}
	return e.composeHero(frame, e.hero2Anim, e.regions.hero2, match.Player2, false)
}

func (e *Engine) composeHero(frame Image, anim Looper, region layout.Region, p match.Player, mirror bool) error {
	if anim == nil {
		return nil
	}
	img, err := anim.Next()
	if err != nil {
		return e.renderErr("hero_panel", err)
	}
	if mirror {
		img, err = e.comp.Mirror(img)
		if err != nil {
			return e.renderErr("hero_panel", err)
		}
	}
	rect, err := e.fitRect(region, img)
	if err != nil {
		return e.renderErr("hero_panel", err)
	}
	resized, err := e.comp.Resize(img, rect)
	if err != nil {
		return e.renderErr("hero_panel", err)
	}
	if err := e.comp.Composite(frame, resized, rect); err != nil {
		return e.renderErr("hero_panel", err)
	}
	if err := e.comp.StrokeRect(frame, rect, e.panelColor(p), heroBorderThickness); err != nil {
		return e.renderErr("hero_panel", err)
	}
	return nil
}

func (e *Engine) panelColor(p match.Player) Color {
	switch e.state.Panel(p) {
	case match.PanelWinner:
		return panelWinnerColor
	case match.PanelActiveTurn:
		return panelActiveColor
	default:
		return panelNeutralColor
	}
}

// composeScoreboard draws the translucent life boxes, the life totals,
// the life symbol between them, and the player name labels.
func (e *Engine) composeScoreboard(frame Image) error {
	lifeBoxes := []struct {
		region layout.Region
		text   string
	}{
		{e.regions.life1, e.life1.Display()},
		{e.regions.life2, e.life2.Display()},
	}
	for _, box := range lifeBoxes {
		rect := box.region.ResolveRaw(e.frameSize)
		if err := e.composeLifeBox(frame, rect, box.text); err != nil {
			return err
		}
	}

	under, err := e.comp.Extract(frame, e.lifeRect)
	if err != nil {
		return e.renderErr("life_symbol", err)
	}
	keyed, err := e.comp.RemoveColorKey(under, e.lifeSym, ColorWhite)
	if err != nil {
		return e.renderErr("life_symbol", err)
	}
	if err := e.comp.Composite(frame, keyed, e.lifeRect); err != nil {
		return e.renderErr("life_symbol", err)
	}

	names := []struct {
		region layout.Region
		text   string
	}{
		{e.regions.name1, e.setup.Hero1},
		{e.regions.name2, e.setup.Hero2},
	}
	for _, n := range names {
		rect := n.region.ResolveRaw(e.frameSize)
		if err := e.comp.DrawText(frame, n.text, rect, labelTextStyle); err != nil {
			return e.renderErr("player_name", err)
		}
	}
	return nil
}

// composeLifeBox darkens the counter's backdrop and centers the life
// total over it.
func (e *Engine) composeLifeBox(frame Image, rect layout.Rect, text string) error {
	under, err := e.comp.Extract(frame, rect)
	if err != nil {
		return e.renderErr("life_box", err)
	}
	shade, err := e.comp.NewCanvas(layout.Size{W: rect.W, H: rect.H}, ColorBlack)
	if err != nil {
		return e.renderErr("life_box", err)
	}
	blended, err := e.comp.Blend(under, shade, lifeBoxAlpha)
	if err != nil {
		return e.renderErr("life_box", err)
	}
	if err := e.comp.Composite(frame, blended, rect); err != nil {
		return e.renderErr("life_box", err)
	}
	if err := e.comp.DrawText(frame, text, rect, scoreTextStyle); err != nil {
		return e.renderErr("life_box", err)
	}
	return nil
}

// composeTurnCounter draws the turn number in the inner frame's top-right
// corner. Nothing is drawn before the first turn event.
func (e *Engine) composeTurnCounter(frame Image, innerRect layout.Rect) error {
	if e.state.Turn() == 0 {
		return nil
	}
	rect := layout.Rect{
		X: innerRect.X + 7*innerRect.W/8,
		Y: innerRect.Y,
		W: innerRect.W / 8,
		H: innerRect.H / 16,
	}
	if err := e.comp.FillRect(frame, rect, ColorBlack); err != nil {
		return e.renderErr("turn_counter", err)
	}
	text := fmt.Sprintf("Turn %d", e.state.Turn())
	if err := e.comp.DrawText(frame, text, rect, labelTextStyle); err != nil {
		return e.renderErr("turn_counter", err)
	}
	return nil
}

// composeCard renders the card display panel for the session's current
// phase: the card back at rest, a perspective warp mid-flip, the flat
// card while displaying, or the scaled card during a zoom cycle.
func (e *Engine) composeCard(frame Image, d cardshow.Directive) error {
	if d.Art == nil {
		return e.composeWarp(frame, e.cardBack, e.cardRect, d)
	}

	rect, err := e.fitRect(e.regions.card, d.Art)
	if err != nil {
		return e.renderErr("card_panel", err)
	}

	switch d.Phase {
	case cardshow.PhaseZoomingIn, cardshow.PhaseZoomDisplaying, cardshow.PhaseZoomingOut:
		return e.composeZoomedCard(frame, d)
	case cardshow.PhaseDisplaying, cardshow.PhaseExtendedDisplaying, cardshow.PhasePostZoom:
		resized, err := e.comp.Resize(d.Art, rect)
		if err != nil {
			return e.renderErr("card_panel", err)
		}
		if err := e.comp.Composite(frame, resized, rect); err != nil {
			return e.renderErr("card_panel", err)
		}
		return nil
	default:
		return e.composeWarp(frame, d.Art, rect, d)
	}
}

// composeWarp draws the rotating phases. The card back is the subject
// while it rotates out at the start and back in at the end; the card art
// is the subject for its own flip in and out.
func (e *Engine) composeWarp(frame Image, img Image, rect layout.Rect, d cardshow.Directive) error {
	switch d.Phase {
	case cardshow.PhaseCardBackRotatingOut, cardshow.PhaseCardFrontRotatingOut:
		return e.warpOnto(frame, img, rect, d.Progress, WarpOut)
	case cardshow.PhaseCardFrontRotatingIn:
		return e.warpOnto(frame, img, rect, d.Progress, WarpIn)
	case cardshow.PhaseCardBackRotatingIn:
		return e.warpOnto(frame, e.cardBack, e.cardRect, d.Progress, WarpIn)
	default:
		// Idle and any phase without art shows the card back at rest.
		if err := e.comp.Composite(frame, e.cardBack, e.cardRect); err != nil {
			return e.renderErr("card_panel", err)
		}
		return nil
	}
}

func (e *Engine) warpOnto(frame, img Image, rect layout.Rect, progress float64, dir WarpDirection) error {
	sized, err := e.comp.Resize(img, rect)
	if err != nil {
		return e.renderErr("card_panel", err)
	}
	warped, err := e.comp.PerspectiveWarp(sized, progress, dir)
	if err != nil {
		return e.renderErr("card_panel", err)
	}
	if err := e.comp.Composite(frame, warped, rect); err != nil {
		return e.renderErr("card_panel", err)
	}
	return nil
}

// composeZoomedCard slides the card from its panel toward the frame's
// center and grows it, both by the eased zoom fraction. The panel corner
// leaves no room to grow in place, so the card travels to where it can;
// the scale clamps at the frame edges, so an oversized zoom factor
// degrades to the largest fit instead of escaping the frame.
func (e *Engine) composeZoomedCard(frame Image, d cardshow.Directive) error {
	region, err := e.regions.cardZoom.MoveToward(0.5, 0.5, d.Zoom)
	if err != nil {
		return e.renderErr("card_zoom", err)
	}
	factor := 1 + (e.cfg.ZoomScale-1)*d.Zoom
	region, err = region.ScaleAboutCenter(factor)
	if err != nil {
		return e.renderErr("card_zoom", err)
	}
	rect, err := e.fitRect(region, d.Art)
	if err != nil {
		return e.renderErr("card_zoom", err)
	}
	resized, err := e.comp.Resize(d.Art, rect)
	if err != nil {
		return e.renderErr("card_zoom", err)
	}
	if err := e.comp.Composite(frame, resized, rect); err != nil {
		return e.renderErr("card_zoom", err)
	}
	return nil
}
