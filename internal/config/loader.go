package config

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/basicflag"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, env vars, and
// command line flags. Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if GOTOONE_CONFIG is set
//  3. env (prefix GOTOONE_)
//  4. flags
func Load(_ context.Context, args []string) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("GOTOONE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: GOTOONE_VIDEO, GOTOONE_TIME_LIMIT_SEC, ...
	// Map env keys like GOTOONE_LIFE_TICK_MS -> life_tick_ms (flat keys).
	envProvider := env.Provider("GOTOONE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "gotoone_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	fs := flagSet(base)
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}
	if err := k.Load(basicflag.Provider(fs, ".", &basicflag.Opt{KeyMap: k}), nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// flagSet declares the CLI surface. Flag names match the koanf tags so
// the basicflag provider merges them onto the same keys.
func flagSet(base *Config) *flag.FlagSet {
	fs := flag.NewFlagSet("go-to-one", flag.ContinueOnError)
	fs.String("video", base.Video, "source match video path")
	fs.String("annotation", base.Annotation, "annotation timeline path (TSV)")
	fs.String("output", base.Output, "rendered video path")
	fs.String("card_index", base.CardIndex, "card catalog path (TSV)")
	fs.String("art_dir", base.ArtDir, "directory holding card art images")
	fs.Uint64("time_limit_sec", base.TimeLimitSec, "stop rendering after this many seconds")
	fs.Float64("crop_left", base.CropLeftPct, "crop percentage from the left edge")
	fs.Float64("crop_right", base.CropRightPct, "crop percentage from the right edge")
	fs.Float64("zoom_scale", base.ZoomScale, "card zoom scale factor")
	fs.String("log_level", base.LogLevel, "log verbosity: debug, info, warn, error")
	fs.String("metrics_addr", base.MetricsAddr, "expose Prometheus metrics on this address")
	return fs
}

// Validate rejects configuration the renderer cannot start with.
func (c *Config) Validate() error {
	if c.Video == "" {
		return fmt.Errorf("%w: video path must not be empty", ErrInvalidConfig)
	}
	if c.Annotation == "" {
		return fmt.Errorf("%w: annotation path must not be empty", ErrInvalidConfig)
	}
	if c.ZoomScale < 1 {
		return fmt.Errorf("%w: zoom scale %v below 1", ErrInvalidConfig, c.ZoomScale)
	}
	for name, pct := range map[string]float64{
		"crop_left":  c.CropLeftPct,
		"crop_right": c.CropRightPct,
	} {
		if pct < 0 || pct >= 50 {
			return fmt.Errorf("%w: %s %v outside [0, 50)", ErrInvalidConfig, name, pct)
		}
	}
	for name, ms := range map[string]int{
		"rotate_ms":    c.RotateMS,
		"display_ms":   c.DisplayMS,
		"extended_ms":  c.ExtendedMS,
		"zoom_in_ms":   c.ZoomInMS,
		"zoom_hold_ms": c.ZoomHoldMS,
		"zoom_out_ms":  c.ZoomOutMS,
		"post_zoom_ms": c.PostZoomMS,
		"life_tick_ms": c.LifeTickMS,
	} {
		if ms <= 0 {
			return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, name)
		}
	}
	if c.SidePanelRatio <= 0 || c.SidePanelRatio >= 0.5 {
		return fmt.Errorf("%w: side panel ratio %v outside (0, 0.5)", ErrInvalidConfig, c.SidePanelRatio)
	}
	if c.TopPanelRatio <= 0 || c.TopPanelRatio >= 0.5 {
		return fmt.Errorf("%w: top panel ratio %v outside (0, 0.5)", ErrInvalidConfig, c.TopPanelRatio)
	}
	return nil
}
