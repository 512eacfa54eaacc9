package render

import (
	"fmt"

	"github.com/TrevorCOConnor/go-to-one/internal/adapters/carddb"
	"github.com/TrevorCOConnor/go-to-one/internal/domain/cardshow"
	"github.com/TrevorCOConnor/go-to-one/pkg/metrics"
)

// artLoader resolves a played card through the card index and decodes its
// art via the compositor. It backs the card display session's loader.
type artLoader struct {
	cards carddb.Store
	comp  Compositor
}

func (l *artLoader) Load(name string, pitch int) (cardshow.Art, error) {
	card, err := l.cards.Find(name, pitch)
	if err != nil {
		metrics.RecordLookupError()
		return nil, err
	}

	img, err := l.comp.LoadImage(l.cards.ArtPath(card))
	if err != nil {
		metrics.RecordLookupError()
		return nil, fmt.Errorf("card art %q: %w", card.Name, err)
	}
	return img, nil
}
