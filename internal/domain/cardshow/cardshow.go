// Package cardshow runs the card display state machine. Played cards queue
// up, flip in over the card back, hold on screen, optionally zoom to the
// center of the frame, and flip back out when the next card is due.
package cardshow

import (
	"fmt"
	"time"

	"github.com/TrevorCOConnor/go-to-one/internal/domain/ease"
	"github.com/TrevorCOConnor/go-to-one/internal/domain/timecode"
)

// Phase is one state of the display state machine. Idle is both the
// initial and the terminal state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseCardBackRotatingOut
	PhaseCardFrontRotatingIn
	PhaseDisplaying
	PhaseExtendedDisplaying
	PhaseZoomingIn
	PhaseZoomDisplaying
	PhaseZoomingOut
	PhasePostZoom
	PhaseCardFrontRotatingOut
	PhaseCardBackRotatingIn
)

var phaseNames = map[Phase]string{
	PhaseIdle:                 "idle",
	PhaseCardBackRotatingOut:  "card_back_rotating_out",
	PhaseCardFrontRotatingIn:  "card_front_rotating_in",
	PhaseDisplaying:           "displaying",
	PhaseExtendedDisplaying:   "extended_displaying",
	PhaseZoomingIn:            "zooming_in",
	PhaseZoomDisplaying:       "zoom_displaying",
	PhaseZoomingOut:           "zooming_out",
	PhasePostZoom:             "post_zoom",
	PhaseCardFrontRotatingOut: "card_front_rotating_out",
	PhaseCardBackRotatingIn:   "card_back_rotating_in",
}

func (p Phase) String() string {
	if n, ok := phaseNames[p]; ok {
		return n
	}
	return "unknown"
}

// Rotating reports whether the phase draws a perspective-warped card.
func (p Phase) Rotating() bool {
	switch p {
	case PhaseCardBackRotatingOut, PhaseCardFrontRotatingIn,
		PhaseCardFrontRotatingOut, PhaseCardBackRotatingIn:
		return true
	}
	return false
}

// Zooming reports whether the phase is part of a zoom cycle.
func (p Phase) Zooming() bool {
	switch p {
	case PhaseZoomingIn, PhaseZoomDisplaying, PhaseZoomingOut, PhasePostZoom:
		return true
	}
	return false
}

// Card identifies a played card by name and pitch. Pitch zero means the
// row carried no pitch tag.
type Card struct {
	Name  string
	Pitch int
}

// Art is an opaque handle to loaded card art; the renderer supplies the
// concrete type through its Loader.
type Art any

// Loader resolves a card to its art, sized for the card region.
type Loader interface {
	Load(name string, pitch int) (Art, error)
}

// Directive tells the renderer what to draw for the current frame.
// Progress is the phase-local fraction in [0,1]. Zoom is the eased scale
// fraction, non-zero only during zoom phases.
type Directive struct {
	Phase    Phase
	Art      Art
	Progress float64
	Zoom     float64
}

// Default phase durations. Rotate covers a full flip, so each rotating
// phase takes half of it.
const (
	DefaultRotate   = 750 * time.Millisecond
	DefaultDisplay  = 6 * time.Second
	DefaultExtended = 12 * time.Second
	DefaultZoomIn   = 2 * time.Second
	DefaultZoomHold = 3 * time.Second
	DefaultZoomOut  = 2 * time.Second
	DefaultPostZoom = time.Second
)

// maxAdvances caps how many phase transitions a single Step may chain.
// When the cap is hit the session keeps its current phase and catches up
// on following frames.
const maxAdvances = 16

// Session owns the queue, the loaded card art, and the phase timer for
// one render run. It is not safe for concurrent use.
type Session struct {
	loader Loader

	phase      Phase
	phaseStart timecode.Tick
	queue      []Card
	art        Art

	zoomPending bool
	zoomCurve   ease.Curve

	rotate   time.Duration
	display  time.Duration
	extended time.Duration
	zoomIn   time.Duration
	zoomHold time.Duration
	zoomOut  time.Duration
	postZoom time.Duration
}

// Option configures a Session.
type Option func(*Session)

// WithRotateDuration sets the full flip duration.
func WithRotateDuration(d time.Duration) Option {
	return func(s *Session) { s.rotate = d }
}

// WithDisplayDuration sets how long a card holds before yielding.
func WithDisplayDuration(d time.Duration) Option {
	return func(s *Session) { s.display = d }
}

// WithExtendedDuration sets the extra hold applied when nothing is queued.
func WithExtendedDuration(d time.Duration) Option {
	return func(s *Session) { s.extended = d }
}

// WithZoomDurations sets the zoom-in, hold, and zoom-out durations.
func WithZoomDurations(in, hold, out time.Duration) Option {
	return func(s *Session) {
		s.zoomIn = in
		s.zoomHold = hold
		s.zoomOut = out
	}
}

// WithPostZoomDuration sets the settle time after a zoom cycle.
func WithPostZoomDuration(d time.Duration) Option {
	return func(s *Session) { s.postZoom = d }
}

// WithZoomCurve overrides the ease curve applied to zoom progress.
func WithZoomCurve(c ease.Curve) Option {
	return func(s *Session) { s.zoomCurve = c }
}

// New creates an idle session whose phase timer starts at start.
func New(loader Loader, start timecode.Tick, opts ...Option) *Session {
	s := &Session{
		loader:     loader,
		phase:      PhaseIdle,
		phaseStart: start,
		zoomCurve:  ease.SCurve,
		rotate:     DefaultRotate,
		display:    DefaultDisplay,
		extended:   DefaultExtended,
		zoomIn:     DefaultZoomIn,
		zoomHold:   DefaultZoomHold,
		zoomOut:    DefaultZoomOut,
		postZoom:   DefaultPostZoom,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enqueue adds a played card to the pending queue.
func (s *Session) Enqueue(c Card) {
	s.queue = append(s.queue, c)
}

// RequestZoom marks the currently loaded card for a zoom cycle. Requests
// while no card is loaded are discarded, and at most one zoom may be
// pending at a time.
func (s *Session) RequestZoom() {
	if s.art == nil || s.zoomPending || s.phase.Zooming() {
		return
	}
	s.zoomPending = true
}

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// QueueLen returns how many cards are waiting.
func (s *Session) QueueLen() int { return len(s.queue) }

// Loaded reports whether card art is currently held.
func (s *Session) Loaded() bool { return s.art != nil }

// Step advances the state machine to the given clock value and returns
// the render directive for this frame. Expired phases chain within the
// same call, with the phase timer carried forward by each phase's exact
// duration so transition times do not drift with the frame rate.
func (s *Session) Step(now timecode.Tick) (Directive, error) {
	for i := 0; i < maxAdvances; i++ {
		advanced, err := s.advance(now)
		if err != nil {
			return Directive{}, err
		}
		if !advanced {
			break
		}
	}
	return s.directive(now), nil
}

func (s *Session) advance(now timecode.Tick) (bool, error) {
	elapsed := now.Sub(s.phaseStart).Seconds()

	switch s.phase {
	case PhaseIdle:
		if len(s.queue) == 0 {
			return false, nil
		}
		if err := s.loadNext(); err != nil {
			return false, err
		}
		s.phase = PhaseCardBackRotatingOut
		s.phaseStart = now
		return true, nil

	case PhaseCardBackRotatingOut:
		return s.timeout(elapsed, s.halfRotate(), PhaseCardFrontRotatingIn), nil

	case PhaseCardFrontRotatingIn:
		return s.timeout(elapsed, s.halfRotate(), PhaseDisplaying), nil

	case PhaseDisplaying:
		if s.zoomPending {
			s.zoomPending = false
			s.phase = PhaseZoomingIn
			s.phaseStart = now
			return true, nil
		}
		if elapsed < s.display.Seconds() {
			return false, nil
		}
		s.phaseStart = s.phaseStart.Advance(s.display.Seconds() * 1000)
		if len(s.queue) == 0 {
			s.phase = PhaseExtendedDisplaying
		} else {
			s.phase = PhaseCardFrontRotatingOut
		}
		return true, nil

	case PhaseExtendedDisplaying:
		if len(s.queue) > 0 {
			s.phase = PhaseCardFrontRotatingOut
			s.phaseStart = now
			return true, nil
		}
		return s.timeout(elapsed, s.extended, PhaseCardFrontRotatingOut), nil

	case PhaseZoomingIn:
		return s.timeout(elapsed, s.zoomIn, PhaseZoomDisplaying), nil

	case PhaseZoomDisplaying:
		return s.timeout(elapsed, s.zoomHold, PhaseZoomingOut), nil

	case PhaseZoomingOut:
		return s.timeout(elapsed, s.zoomOut, PhasePostZoom), nil

	case PhasePostZoom:
		return s.timeout(elapsed, s.postZoom, PhaseCardFrontRotatingOut), nil

	case PhaseCardFrontRotatingOut:
		if elapsed < s.halfRotate().Seconds() {
			return false, nil
		}
		s.phaseStart = s.phaseStart.Advance(s.halfRotate().Seconds() * 1000)
		if len(s.queue) == 0 {
			s.phase = PhaseCardBackRotatingIn
			return true, nil
		}
		if err := s.loadNext(); err != nil {
			return false, err
		}
		s.phase = PhaseCardFrontRotatingIn
		return true, nil

	case PhaseCardBackRotatingIn:
		if !s.timeout(elapsed, s.halfRotate(), PhaseIdle) {
			return false, nil
		}
		s.art = nil
		return true, nil
	}

	return false, nil
}

// timeout advances to next when the phase duration has expired, carrying
// the timer forward by exactly that duration.
func (s *Session) timeout(elapsed float64, d time.Duration, next Phase) bool {
	if elapsed < d.Seconds() {
		return false
	}
	s.phaseStart = s.phaseStart.Advance(d.Seconds() * 1000)
	s.phase = next
	return true
}

func (s *Session) halfRotate() time.Duration {
	return s.rotate / 2
}

func (s *Session) loadNext() error {
	card := s.queue[0]
	s.queue = s.queue[1:]
	art, err := s.loader.Load(card.Name, card.Pitch)
	if err != nil {
		return fmt.Errorf("load card %q pitch %d: %w", card.Name, card.Pitch, err)
	}
	s.art = art
	return nil
}

func (s *Session) directive(now timecode.Tick) Directive {
	d := Directive{Phase: s.phase, Art: s.art}
	elapsed := now.Sub(s.phaseStart).Seconds()

	frac := func(dur time.Duration) float64 {
		sec := dur.Seconds()
		if sec <= 0 {
			return 1
		}
		p := elapsed / sec
		if p > 1 {
			p = 1
		}
		return p
	}

	switch s.phase {
	case PhaseCardBackRotatingOut, PhaseCardFrontRotatingIn,
		PhaseCardFrontRotatingOut, PhaseCardBackRotatingIn:
		d.Progress = frac(s.halfRotate())
	case PhaseDisplaying:
		d.Progress = frac(s.display)
	case PhaseExtendedDisplaying:
		d.Progress = frac(s.extended)
	case PhaseZoomingIn:
		d.Progress = frac(s.zoomIn)
		d.Zoom = s.zoomCurve.Apply(d.Progress)
	case PhaseZoomDisplaying:
		d.Progress = frac(s.zoomHold)
		d.Zoom = 1
	case PhaseZoomingOut:
		d.Progress = frac(s.zoomOut)
		d.Zoom = s.zoomCurve.Apply(1 - d.Progress)
	case PhasePostZoom:
		d.Progress = frac(s.postZoom)
	}
	return d
}
