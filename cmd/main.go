package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/TrevorCOConnor/go-to-one/internal/adapters/annotation"
	"github.com/TrevorCOConnor/go-to-one/internal/adapters/carddb"
	"github.com/TrevorCOConnor/go-to-one/internal/adapters/http/api"
	"github.com/TrevorCOConnor/go-to-one/internal/adapters/mq/worker"
	"github.com/TrevorCOConnor/go-to-one/internal/adapters/video"
	"github.com/TrevorCOConnor/go-to-one/internal/config"
	"github.com/TrevorCOConnor/go-to-one/internal/domain/match"
	"github.com/TrevorCOConnor/go-to-one/internal/domain/timeline"
	"github.com/TrevorCOConnor/go-to-one/internal/render"
	"github.com/TrevorCOConnor/go-to-one/pkg/logger"
	"github.com/TrevorCOConnor/go-to-one/pkg/metrics"
)

const (
	backgroundClip = "data/hexagon.mp4"
	heroArtDir     = "data/heroes"

	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		os.Stderr.WriteString("go-to-one: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run() error {
	if err := logger.Init(); err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx, os.Args[1:])
	if err != nil {
		return err
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	setup, events, err := loadAnnotation(cfg.Annotation)
	if err != nil {
		return err
	}

	cards, err := carddb.OpenFile(cfg.CardIndex, carddb.WithArtDir(cfg.ArtDir))
	if err != nil {
		return err
	}
	if err := validateHeroes(cards, setup); err != nil {
		return err
	}

	source, err := video.OpenSource(ctx, cfg.Video)
	if err != nil {
		return err
	}
	defer source.Close()

	out := cfg.Output
	if out == "" {
		out = deriveOutputPath(cfg.Video)
	}
	sink, err := video.OpenSink(ctx, out, source.Size(), source.FPS())
	if err != nil {
		return err
	}
	// Buffer composed frames so the x264 encoder never stalls composition.
	enc := worker.NewEncodeSink(ctx, sink)

	opts := []render.Option{
		render.WithLogger(log),
		render.WithHeroAnimations(
			openHeroArt(ctx, log, setup.Hero1),
			openHeroArt(ctx, log, setup.Hero2),
		),
	}
	if bg, err := video.OpenLooper(ctx, backgroundClip); err == nil {
		defer bg.Close()
		opts = append(opts, render.WithBackground(bg))
	} else {
		log.Warn(ctx, "background clip unavailable; using a plain backdrop",
			logger.String("path", backgroundClip), logger.Error(err))
	}

	eng, err := render.New(cfg, setup, events, cards, source, enc, video.NewCompositor(), opts...)
	if err != nil {
		return err
	}

	if cfg.MetricsAddr != "" {
		go serveOps(ctx, log, cfg.MetricsAddr, eng)
	}

	if err := eng.Run(ctx); err != nil {
		_ = enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}

	log.Info(ctx, "output written", logger.String("path", out))
	return nil
}

// loadAnnotation parses the annotation timeline file.
func loadAnnotation(path string) (match.Setup, *timeline.Timeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return match.Setup{}, nil, fmt.Errorf("open annotation: %w", err)
	}
	defer f.Close()
	setup, events, err := annotation.Parse(f)
	if err != nil {
		metrics.RecordParseError()
		return match.Setup{}, nil, err
	}
	return setup, events, nil
}

// validateHeroes confirms both heroes exist in the card index before any
// frame is rendered.
func validateHeroes(cards carddb.Store, setup match.Setup) error {
	for _, name := range []string{setup.Hero1, setup.Hero2} {
		found := false
		for _, hero := range cards.Heroes() {
			if hero.Name == name {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("hero %q not in card index: %w", name, carddb.ErrNotFound)
		}
	}
	return nil
}

// openHeroArt opens the hero's looping art clip. A missing clip is not
// fatal; the panel is simply left empty.
func openHeroArt(ctx context.Context, log logger.Logger, hero string) render.Looper {
	path := filepath.Join(heroArtDir, heroSlug(hero)+".mp4")
	l, err := video.OpenLooper(ctx, path)
	if err != nil {
		log.Warn(ctx, "hero art animation unavailable",
			logger.String("hero", hero),
			logger.String("path", path),
			logger.Error(err))
		return nil
	}
	return l
}

// heroSlug converts a hero name to its art clip filename stem.
func heroSlug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == ',':
			b.WriteByte('_')
		}
	}
	return b.String()
}

// deriveOutputPath names the output next to the input video.
func deriveOutputPath(videoPath string) string {
	ext := filepath.Ext(videoPath)
	if ext == "" {
		ext = ".mp4"
	}
	return strings.TrimSuffix(videoPath, ext) + "_overlay" + ext
}

// engineStats adapts the render engine to the ops stats contract.
type engineStats struct {
	eng *render.Engine
}

func (s engineStats) GetStats() map[string]interface{} {
	st := s.eng.Stats()
	return map[string]interface{}{
		"frames":           st.Frames,
		"clock_seconds":    st.Clock.Seconds(),
		"events_remaining": st.EventsRemaining,
		"phase":            st.Phase.String(),
		"turn":             st.Turn,
		"winner":           st.Winner.String(),
	}
}

// serveOps exposes health, run progress, and the Prometheus registry
// until the run ends.
func serveOps(ctx context.Context, log logger.Logger, addr string, eng *render.Engine) {
	mux := http.NewServeMux()
	api.NewServer(engineStats{eng: eng}).Register(mux)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info(ctx, "serving ops endpoints", logger.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error(ctx, "ops server failed", logger.Error(fmt.Errorf("%w: %w", api.ErrServe, err)))
	}
}
