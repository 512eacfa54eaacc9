// Package timeline models the ordered sequence of timestamped game events
// replayed against the media clock. Events are a closed sum: one concrete
// type per kind, carrying only the fields that kind needs, so invalid
// field combinations are unrepresentable.
package timeline

import (
	"errors"
	"fmt"

	"github.com/TrevorCOConnor/go-to-one/internal/domain/life"
	"github.com/TrevorCOConnor/go-to-one/internal/domain/match"
	"github.com/TrevorCOConnor/go-to-one/internal/domain/timecode"
)

// ErrOutOfOrder reports a timeline whose events are not sorted by
// timestamp. The annotation file contract requires non-decreasing rows.
var ErrOutOfOrder = errors.New("timeline events out of order")

// Kind identifies an event variant.
type Kind int

const (
	KindCardPlayed Kind = iota
	KindTurnChanged
	KindLifeChanged
	KindZoom
	KindWon
)

// String names the kind for logs and metrics labels.
func (k Kind) String() string {
	switch k {
	case KindCardPlayed:
		return "card_played"
	case KindTurnChanged:
		return "turn_changed"
	case KindLifeChanged:
		return "life_changed"
	case KindZoom:
		return "zoom"
	case KindWon:
		return "won"
	default:
		return "unknown"
	}
}

// Event is one timestamped game event.
type Event interface {
	At() timecode.Tick
	Kind() Kind
}

// CardPlayed announces a card for the card display session. Pitch is the
// card's pitch tag, or zero when the card is untagged.
type CardPlayed struct {
	Time  timecode.Tick
	Name  string
	Pitch int
}

func (e CardPlayed) At() timecode.Tick { return e.Time }
func (e CardPlayed) Kind() Kind        { return KindCardPlayed }

// TurnChanged passes the turn to the other player.
type TurnChanged struct {
	Time timecode.Tick
}

func (e TurnChanged) At() timecode.Tick { return e.Time }
func (e TurnChanged) Kind() Kind        { return KindTurnChanged }

// LifeChanged applies an update to one player's life tracker.
type LifeChanged struct {
	Time   timecode.Tick
	Player match.Player
	Update life.Update
}

func (e LifeChanged) At() timecode.Tick { return e.Time }
func (e LifeChanged) Kind() Kind        { return KindLifeChanged }

// Zoom asks the card display session to zoom the current card.
type Zoom struct {
	Time timecode.Tick
}

func (e Zoom) At() timecode.Tick { return e.Time }
func (e Zoom) Kind() Kind        { return KindZoom }

// Won records the match winner for the remainder of the render.
type Won struct {
	Time   timecode.Tick
	Player match.Player
}

func (e Won) At() timecode.Tick { return e.Time }
func (e Won) Kind() Kind        { return KindWon }

// Timeline is a single-consumer cursor over a pre-sorted event sequence.
type Timeline struct {
	events []Event
	cursor int
}

// New wraps a sorted event slice, rejecting out-of-order input.
func New(events []Event) (*Timeline, error) {
	for i := 1; i < len(events); i++ {
		if events[i].At().Before(events[i-1].At()) {
			return nil, fmt.Errorf("%w: event %d at %.3fs precedes event %d at %.3fs",
				ErrOutOfOrder, i, events[i].At().Seconds(), i-1, events[i-1].At().Seconds())
		}
	}
	return &Timeline{events: events}, nil
}

// Peek returns the next event without consuming it.
func (t *Timeline) Peek() (Event, bool) {
	if t.cursor >= len(t.events) {
		return nil, false
	}
	return t.events[t.cursor], true
}

// PopDue consumes and returns every event whose timestamp is at or before
// now, in timeline order. Ownership of the returned events transfers to
// the caller.
func (t *Timeline) PopDue(now timecode.Tick) []Event {
	var due []Event
	for t.cursor < len(t.events) && !t.events[t.cursor].At().After(now) {
		due = append(due, t.events[t.cursor])
		t.cursor++
	}
	return due
}

// Remaining returns the number of unconsumed events.
func (t *Timeline) Remaining() int {
	return len(t.events) - t.cursor
}
