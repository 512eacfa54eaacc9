package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/TrevorCOConnor/go-to-one/internal/adapters/carddb"
	"github.com/TrevorCOConnor/go-to-one/internal/config"
	"github.com/TrevorCOConnor/go-to-one/internal/domain/cardshow"
	"github.com/TrevorCOConnor/go-to-one/internal/domain/layout"
	"github.com/TrevorCOConnor/go-to-one/internal/domain/life"
	"github.com/TrevorCOConnor/go-to-one/internal/domain/match"
	"github.com/TrevorCOConnor/go-to-one/internal/domain/timecode"
	"github.com/TrevorCOConnor/go-to-one/internal/domain/timeline"
	"github.com/TrevorCOConnor/go-to-one/pkg/logger"
	"github.com/TrevorCOConnor/go-to-one/pkg/metrics"
)

const (
	heroBorderThickness  = 5
	innerBorderThickness = 10
	lifeBoxAlpha         = 0.5

	// Media seconds between progress log lines.
	progressLogInterval = 5
)

// Assets points at the static images the scoreboard needs.
type Assets struct {
	CardBack   string
	Logo       string
	LifeSymbol string
}

// defaultAssets matches the repository data layout.
var defaultAssets = Assets{
	CardBack:   "data/cardback.png",
	Logo:       "data/logo.png",
	LifeSymbol: "data/life.png",
}

// Engine owns one overlay run. It is single-threaded: every frame is
// advanced, composed, and written before the next one starts, so no
// locking is needed anywhere in the loop. Stats reads a per-frame
// snapshot and is safe from other goroutines.
type Engine struct {
	cfg    *config.Config
	setup  match.Setup
	events *timeline.Timeline
	cards  carddb.Store

	source Source
	sink   Sink
	comp   Compositor

	hero1Anim  Looper
	hero2Anim  Looper
	background Looper

	assets    Assets
	timeLimit time.Duration
	cropLeft  float64
	cropRight float64
	runID     string
	log       logger.Logger

	regions   *regionSet
	session   *cardshow.Session
	state     *match.State
	life1     *life.Tracker
	life2     *life.Tracker
	clock     timecode.Tick
	frameStep float64
	frameSize layout.Size

	cardBack Image
	cardRect layout.Rect
	logo     Image
	logoRect layout.Rect
	lifeSym  Image
	lifeRect layout.Rect

	frames     uint64
	lastPhase  cardshow.Phase
	lastLogged uint64

	snapshot atomic.Value // Stats
}

// Stats is a point-in-time snapshot of the run, for tests and progress
// reporting.
type Stats struct {
	Frames          uint64
	Clock           timecode.Tick
	EventsRemaining int
	Phase           cardshow.Phase
	Turn            uint32
	Winner          match.Player
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithLogger sets a custom logger for the engine.
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithRunID overrides the generated run identifier.
func WithRunID(id string) Option {
	return func(e *Engine) {
		if id != "" {
			e.runID = id
		}
	}
}

// WithHeroAnimations sets the looping art sources for the two hero panels.
func WithHeroAnimations(hero1, hero2 Looper) Option {
	return func(e *Engine) {
		e.hero1Anim = hero1
		e.hero2Anim = hero2
	}
}

// WithBackground sets the looping clip drawn behind the scoreboard.
func WithBackground(l Looper) Option {
	return func(e *Engine) {
		e.background = l
	}
}

// WithAssets overrides the static image paths.
func WithAssets(a Assets) Option {
	return func(e *Engine) {
		e.assets = a
	}
}

// WithTimeLimit overrides the configured render time limit. Zero means no
// limit.
func WithTimeLimit(d time.Duration) Option {
	return func(e *Engine) {
		e.timeLimit = d
	}
}

// WithCrop overrides the configured source crop percentages.
func WithCrop(left, right float64) Option {
	return func(e *Engine) {
		e.cropLeft = left
		e.cropRight = right
	}
}

// New wires an engine for one run. Layout regions, the card display
// session, and the life trackers are all built here, so configuration
// problems surface before the first frame.
func New(
	cfg *config.Config,
	setup match.Setup,
	events *timeline.Timeline,
	cards carddb.Store,
	source Source,
	sink Sink,
	comp Compositor,
	opts ...Option,
) (*Engine, error) {
	switch {
	case cfg == nil:
		return nil, fmt.Errorf("%w: config", ErrMissingDependency)
	case events == nil:
		return nil, fmt.Errorf("%w: timeline", ErrMissingDependency)
	case cards == nil:
		return nil, fmt.Errorf("%w: card store", ErrMissingDependency)
	case source == nil:
		return nil, fmt.Errorf("%w: source", ErrMissingDependency)
	case sink == nil:
		return nil, fmt.Errorf("%w: sink", ErrMissingDependency)
	case comp == nil:
		return nil, fmt.Errorf("%w: compositor", ErrMissingDependency)
	}

	fps := source.FPS()
	if fps <= 0 {
		return nil, fmt.Errorf("%w: %v fps", ErrBadFrameRate, fps)
	}

	regions, err := buildRegions(cfg)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:       cfg,
		setup:     setup,
		events:    events,
		cards:     cards,
		source:    source,
		sink:      sink,
		comp:      comp,
		assets:    defaultAssets,
		timeLimit: time.Duration(cfg.TimeLimitSec) * time.Second,
		cropLeft:  cfg.CropLeftPct,
		cropRight: cfg.CropRightPct,
		runID:     uuid.New().String(),
		regions:   regions,
		state:     match.NewState(setup.FirstTurn),
		frameStep: 1000.0 / fps,
		frameSize: source.Size(),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.session = cardshow.New(
		&artLoader{cards: cards, comp: comp},
		timecode.Tick{},
		cardshow.WithRotateDuration(cfg.Rotate()),
		cardshow.WithDisplayDuration(cfg.Display()),
		cardshow.WithExtendedDuration(cfg.Extended()),
		cardshow.WithZoomDurations(cfg.ZoomIn(), cfg.ZoomHold(), cfg.ZoomOut()),
		cardshow.WithPostZoomDuration(cfg.PostZoom()),
	)

	ticks := uint32(math.Round(cfg.LifeTick().Seconds() * 1000 / e.frameStep))
	if ticks == 0 {
		ticks = 1
	}
	e.life1 = life.New(setup.Life1, life.WithTicksPerStep(ticks))
	e.life2 = life.New(setup.Life2, life.WithTicksPerStep(ticks))
	e.storeStats()

	return e, nil
}

// Stats returns the latest per-frame snapshot of the run state.
func (e *Engine) Stats() Stats {
	if s, ok := e.snapshot.Load().(Stats); ok {
		return s
	}
	return Stats{}
}

// storeStats publishes the current run state for Stats readers.
func (e *Engine) storeStats() {
	e.snapshot.Store(Stats{
		Frames:          e.frames,
		Clock:           e.clock,
		EventsRemaining: e.events.Remaining(),
		Phase:           e.session.Phase(),
		Turn:            e.state.Turn(),
		Winner:          e.state.Winner(),
	})
}

// Run renders the intro and then the full overlay, frame by frame, until
// the source is exhausted, the time limit passes, or ctx is canceled. The
// first error aborts the run; nothing is retried.
func (e *Engine) Run(ctx context.Context) error {
	if e.log == nil {
		e.log = logger.Get()
	}

	started := time.Now()
	e.log.Info(ctx, "starting overlay run",
		logger.String("run_id", e.runID),
		logger.String("hero1", e.setup.Hero1),
		logger.String("hero2", e.setup.Hero2),
		logger.Float64("fps", e.source.FPS()),
		logger.Int("events", e.events.Remaining()),
	)

	if err := e.loadStatics(); err != nil {
		return err
	}
	if err := e.renderIntro(ctx); err != nil {
		return err
	}
	if err := e.skipIntroFrames(); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if e.timeLimit > 0 && e.clock.Seconds() > e.timeLimit.Seconds() {
			e.log.Info(ctx, "time limit reached",
				logger.Duration("limit", e.timeLimit))
			break
		}

		e.clock = e.clock.Advance(e.frameStep)
		metrics.UpdateClockSeconds(e.clock.Seconds())

		for _, ev := range e.events.PopDue(e.clock) {
			if err := e.dispatch(ctx, ev); err != nil {
				return err
			}
		}
		metrics.UpdateEventsRemaining(e.events.Remaining())

		e.life1.Tick()
		e.life2.Tick()

		directive, err := e.session.Step(e.clock)
		if err != nil {
			return err
		}
		e.observePhase(directive.Phase)

		src, err := e.source.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read source frame: %w", err)
		}

		frameStart := time.Now()
		frame, err := e.compose(src, directive)
		if err != nil {
			return err
		}
		if err := e.sink.Write(frame); err != nil {
			return fmt.Errorf("write frame: %w", err)
		}

		metrics.RecordFrameLatency(float64(time.Since(frameStart).Microseconds()) / 1000)
		metrics.RecordFrameRendered()
		e.frames++
		e.storeStats()
		e.logProgress(ctx)
	}

	e.storeStats()

	e.log.Info(ctx, "overlay run finished",
		logger.String("run_id", e.runID),
		logger.Uint64("frames", e.frames),
		logger.Float64("clock_sec", e.clock.Seconds()),
		logger.Int("events_remaining", e.events.Remaining()),
		logger.Duration("elapsed", time.Since(started)),
	)
	return nil
}

// dispatch applies one due timeline event to the owning component.
func (e *Engine) dispatch(ctx context.Context, ev timeline.Event) error {
	metrics.RecordEventDispatched(ev.Kind().String())

	switch ev := ev.(type) {
	case timeline.CardPlayed:
		e.session.Enqueue(cardshow.Card{Name: ev.Name, Pitch: ev.Pitch})
		metrics.UpdateCardQueueDepth(e.session.QueueLen())
		e.log.Debug(ctx, "card queued",
			logger.String("card", ev.Name),
			logger.Int("pitch", ev.Pitch),
			logger.Int("queue", e.session.QueueLen()),
		)

	case timeline.TurnChanged:
		e.state.NextTurn()
		e.log.Debug(ctx, "turn passed",
			logger.Uint64("turn", uint64(e.state.Turn())),
			logger.String("active", e.state.Active().String()),
		)

	case timeline.LifeChanged:
		t := e.tracker(ev.Player)
		if t == nil {
			return fmt.Errorf("life event for unknown player %d", ev.Player)
		}
		t.Apply(ev.Update)
		metrics.UpdateLifeGap(ev.Player.String(), t.Target()-t.Displayed())

	case timeline.Zoom:
		e.session.RequestZoom()

	case timeline.Won:
		e.state.SetWinner(ev.Player)
		e.log.Info(ctx, "winner recorded",
			logger.String("winner", ev.Player.String()),
			logger.Float64("clock_sec", e.clock.Seconds()),
		)
	}
	return nil
}

func (e *Engine) tracker(p match.Player) *life.Tracker {
	switch p {
	case match.Player1:
		return e.life1
	case match.Player2:
		return e.life2
	default:
		return nil
	}
}

// observePhase records phase transitions between frames.
func (e *Engine) observePhase(phase cardshow.Phase) {
	if phase == e.lastPhase {
		return
	}
	metrics.RecordPhaseTransition(phase.String())
	if phase == cardshow.PhaseZoomingIn {
		metrics.RecordZoomCycle()
	}
	e.lastPhase = phase
}

func (e *Engine) logProgress(ctx context.Context) {
	mark := e.clock.Sec() / progressLogInterval
	if mark == e.lastLogged {
		return
	}
	e.lastLogged = mark
	e.log.Debug(ctx, "render progress",
		logger.Uint64("frames", e.frames),
		logger.Float64("clock_sec", e.clock.Seconds()),
		logger.Int("events_remaining", e.events.Remaining()),
		logger.String("phase", e.session.Phase().String()),
	)
}

// skipIntroFrames consumes the stretch of source video covered by the
// intro, advancing the clock for each frame so events stay in sync.
func (e *Engine) skipIntroFrames() error {
	for i := 0; i < e.introFrames(); i++ {
		if _, err := e.source.Next(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("skip intro frame: %w", err)
		}
		e.clock = e.clock.Advance(e.frameStep)
		metrics.RecordFrameSkipped()
	}
	return nil
}

func (e *Engine) introFrames() int {
	return int(e.source.FPS() * e.cfg.Intro().Seconds())
}

// loadStatics decodes and pre-sizes the images that never change during
// the run.
func (e *Engine) loadStatics() error {
	back, err := e.comp.LoadImage(e.assets.CardBack)
	if err != nil {
		return e.renderErr("card_back", err)
	}
	e.cardRect, err = e.fitRect(e.regions.card, back)
	if err != nil {
		return e.renderErr("card_back", err)
	}
	e.cardBack, err = e.comp.Resize(back, e.cardRect)
	if err != nil {
		return e.renderErr("card_back", err)
	}

	logo, err := e.comp.LoadImage(e.assets.Logo)
	if err != nil {
		return e.renderErr("logo", err)
	}
	e.logoRect, err = e.fitRect(e.regions.logo, logo)
	if err != nil {
		return e.renderErr("logo", err)
	}
	e.logo, err = e.comp.Resize(logo, e.logoRect)
	if err != nil {
		return e.renderErr("logo", err)
	}
	border := layout.Rect{W: e.logoRect.W, H: e.logoRect.H}
	if err := e.comp.StrokeRect(e.logo, border, ColorBlack, 2*heroBorderThickness); err != nil {
		return e.renderErr("logo", err)
	}

	sym, err := e.comp.LoadImage(e.assets.LifeSymbol)
	if err != nil {
		return e.renderErr("life_symbol", err)
	}
	e.lifeRect, err = e.fitRect(e.regions.lifeSymbol, sym)
	if err != nil {
		return e.renderErr("life_symbol", err)
	}
	e.lifeSym, err = e.comp.Resize(sym, e.lifeRect)
	if err != nil {
		return e.renderErr("life_symbol", err)
	}

	return nil
}

// fitRect resolves a region to the pixel rect that fits the image's
// aspect ratio.
func (e *Engine) fitRect(region layout.Region, img Image) (layout.Rect, error) {
	size, err := e.comp.Bounds(img)
	if err != nil {
		return layout.Rect{}, err
	}
	aspect := 0.0
	if size.H > 0 {
		aspect = float64(size.W) / float64(size.H)
	}
	rect := region.ResolveFit(e.frameSize, aspect)
	if !rect.Within(e.frameSize) {
		return layout.Rect{}, fmt.Errorf("%w: %+v in %dx%d frame",
			layout.ErrOutOfFrame, rect, e.frameSize.W, e.frameSize.H)
	}
	return rect, nil
}

func (e *Engine) renderErr(component string, err error) error {
	metrics.RecordRenderError(component)
	return fmt.Errorf("render %s: %w", component, err)
}
