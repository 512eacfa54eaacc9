// Package config defines renderer configuration and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file, env,
//   and command line flags on top.
// - External errors must be wrapped via this package's sentinel errors.
package config

import "time"

// Config contains one render run's configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// MetricsAddr exposes /metrics when non-empty, e.g. ":9090".
	MetricsAddr string `koanf:"metrics_addr"`

	// Video is the source match recording.
	Video string `koanf:"video"`

	// Annotation is the tab-separated game event timeline.
	Annotation string `koanf:"annotation"`

	// Output is the rendered video path. Empty derives one from the input.
	Output string `koanf:"output"`

	// CardIndex is the tab-separated card catalog.
	CardIndex string `koanf:"card_index"`

	// ArtDir holds per-card art images named by unique ID.
	ArtDir string `koanf:"art_dir"`

	// TimeLimitSec stops the render after this many clock seconds; zero
	// renders the whole video.
	TimeLimitSec uint64 `koanf:"time_limit_sec"`

	// Crop percentages trim the source frame per edge before compositing.
	CropLeftPct  float64 `koanf:"crop_left"`
	CropRightPct float64 `koanf:"crop_right"`

	// Card display phase durations in milliseconds.
	RotateMS   int `koanf:"rotate_ms"`
	DisplayMS  int `koanf:"display_ms"`
	ExtendedMS int `koanf:"extended_ms"`
	ZoomInMS   int `koanf:"zoom_in_ms"`
	ZoomHoldMS int `koanf:"zoom_hold_ms"`
	ZoomOutMS  int `koanf:"zoom_out_ms"`
	PostZoomMS int `koanf:"post_zoom_ms"`

	// LifeTickMS is the wall-clock interval between displayed life steps.
	LifeTickMS int `koanf:"life_tick_ms"`

	// IntroMS is the length of the opening title sequence.
	IntroMS int `koanf:"intro_ms"`

	// ZoomScale is the factor a zoomed card grows by, clamped to the frame.
	ZoomScale float64 `koanf:"zoom_scale"`

	// Proportional layout ratios.
	SidePanelRatio  float64 `koanf:"side_panel_ratio"`
	TopPanelRatio   float64 `koanf:"top_panel_ratio"`
	BufferRatio     float64 `koanf:"buffer_ratio"`
	LifeSymbolRatio float64 `koanf:"life_symbol_ratio"`
}

// New creates a Config with the renderer's default tuning.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		CardIndex:       "data/card.tsv",
		ArtDir:          "data/cards",
		RotateMS:        750,
		DisplayMS:       6_000,
		ExtendedMS:      12_000,
		ZoomInMS:        2_000,
		ZoomHoldMS:      3_000,
		ZoomOutMS:       2_000,
		PostZoomMS:      1_000,
		LifeTickMS:      250,
		IntroMS:         8_000,
		ZoomScale:       1.5,
		SidePanelRatio:  0.2,
		TopPanelRatio:   1.0 / 8.0,
		BufferRatio:     1.0 / 100.0,
		LifeSymbolRatio: 1.0 / 30.0,
	}
}

// Rotate returns the full card flip duration.
func (c *Config) Rotate() time.Duration { return time.Duration(c.RotateMS) * time.Millisecond }

// Display returns the card hold duration.
func (c *Config) Display() time.Duration { return time.Duration(c.DisplayMS) * time.Millisecond }

// Extended returns the extra hold applied when nothing is queued.
func (c *Config) Extended() time.Duration { return time.Duration(c.ExtendedMS) * time.Millisecond }

// ZoomIn returns the zoom-in duration.
func (c *Config) ZoomIn() time.Duration { return time.Duration(c.ZoomInMS) * time.Millisecond }

// ZoomHold returns the zoomed hold duration.
func (c *Config) ZoomHold() time.Duration { return time.Duration(c.ZoomHoldMS) * time.Millisecond }

// ZoomOut returns the zoom-out duration.
func (c *Config) ZoomOut() time.Duration { return time.Duration(c.ZoomOutMS) * time.Millisecond }

// PostZoom returns the settle duration after a zoom cycle.
func (c *Config) PostZoom() time.Duration { return time.Duration(c.PostZoomMS) * time.Millisecond }

// LifeTick returns the interval between displayed life steps.
func (c *Config) LifeTick() time.Duration { return time.Duration(c.LifeTickMS) * time.Millisecond }

// Intro returns the opening title sequence duration.
func (c *Config) Intro() time.Duration { return time.Duration(c.IntroMS) * time.Millisecond }
