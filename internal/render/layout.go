package render

import (
	"fmt"

	"github.com/TrevorCOConnor/go-to-one/internal/config"
	"github.com/TrevorCOConnor/go-to-one/internal/domain/layout"
)

// regionSet holds every layout region the engine draws into. All regions
// are built once at startup from the configured panel ratios; a bad ratio
// surfaces here, before any frame is rendered.
type regionSet struct {
	hero1, hero2 layout.Region
	name1, name2 layout.Region
	life1, life2 layout.Region
	lifeSymbol   layout.Region

	inner layout.Region
	logo  layout.Region
	card  layout.Region

	// card's buffered footprint as a plain box; the zoom cycle moves and
	// scales this one so its resting position matches the displayed card.
	cardZoom layout.Region
}

// buildRegions lays out the scoreboard: hero panels and life counters along
// the top, the logo and card display stacked on the left side panel, and
// the inner frame holding the gameplay video in the remaining space.
func buildRegions(cfg *config.Config) (*regionSet, error) {
	side := cfg.SidePanelRatio
	top := cfg.TopPanelRatio
	buf := cfg.BufferRatio
	sym := cfg.LifeSymbolRatio

	r := &regionSet{}
	var err error

	build := func(name string, region *layout.Region, x, y, w, h float64, opts ...layout.Option) {
		if err != nil {
			return
		}
		*region, err = layout.New(x, y, w, h, opts...)
		if err != nil {
			err = fmt.Errorf("%s region: %w", name, err)
		}
	}

	heroWidth := (1.0 / 3.0) * (1 - side)
	lifeWidth := (1.0 / 6.0) * (1 - side)

	build("hero1", &r.hero1, side, 0, heroWidth, top,
		layout.WithBuffers(buf, 0, buf, 0))
	build("hero2", &r.hero2, side+(2.0/3.0)*(1-side), 0, heroWidth, top,
		layout.WithBuffers(0, buf, buf, 0))
	build("name1", &r.name1, side, top, heroWidth, top/4,
		layout.WithBuffers(buf, 0, 0, 0))
	build("name2", &r.name2, side+(2.0/3.0)*(1-side), top, heroWidth, top/4,
		layout.WithBuffers(0, buf, 0, 0))
	build("life1", &r.life1, side+(1.0/3.0)*(1-side), 0, lifeWidth, top,
		layout.WithBuffers(0, buf, buf, 0))
	build("life2", &r.life2, side+0.5*(1-side), 0, lifeWidth, top,
		layout.WithBuffers(buf, 0, buf, 0))
	build("life symbol", &r.lifeSymbol, side+0.5*(1-side)-sym/2, 0, sym, top,
		layout.WithBuffers(0, 0, buf, 0))

	build("inner frame", &r.inner, side, top, 1-side, 1-top,
		layout.WithBuffers(buf/2, buf, buf, buf))

	build("logo", &r.logo, 0, 0, side, 0.5,
		layout.WithHorizontalBuffer(buf),
		layout.WithVerticalBuffer(buf),
		layout.WithHorizontalPartition(layout.HorizontalLeft),
		layout.WithVerticalPartition(layout.VerticalTop))
	build("card", &r.card, 0, 0.5, side, 0.5,
		layout.WithHorizontalBuffer(buf),
		layout.WithVerticalBuffer(buf),
		layout.WithHorizontalPartition(layout.HorizontalLeft),
		layout.WithVerticalPartition(layout.VerticalBottom))

	if err != nil {
		return nil, err
	}
	r.cardZoom = r.card.Inset()
	return r, nil
}
