package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/TrevorCOConnor/go-to-one/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		baseArgs := []string{"-video", "match.mp4", "-annotation", "match.tsv"}

		convey.Convey("When loading config with defaults and required flags", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx, baseArgs)

			convey.Convey("Then it should load with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Video, convey.ShouldEqual, "match.mp4")
				convey.So(cfg.Annotation, convey.ShouldEqual, "match.tsv")
				convey.So(cfg.RotateMS, convey.ShouldEqual, 750)
				convey.So(cfg.LifeTickMS, convey.ShouldEqual, 250)
				convey.So(cfg.ZoomScale, convey.ShouldEqual, 1.5)
				convey.So(cfg.TimeLimitSec, convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("GOTOONE_VIDEO", "env.mp4")
			_ = os.Setenv("GOTOONE_ANNOTATION", "env.tsv")
			_ = os.Setenv("GOTOONE_LIFE_TICK_MS", "125")
			_ = os.Setenv("GOTOONE_LOG_LEVEL", "debug")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, nil)

			convey.Convey("Then env vars should override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Video, convey.ShouldEqual, "env.mp4")
				convey.So(cfg.Annotation, convey.ShouldEqual, "env.tsv")
				convey.So(cfg.LifeTickMS, convey.ShouldEqual, 125)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			yamlContent := `
video: "file.mp4"
annotation: "file.tsv"
display_ms: 4000
zoom_scale: 1.25
time_limit_sec: 90
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("GOTOONE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, nil)

			convey.Convey("Then it should load from the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Video, convey.ShouldEqual, "file.mp4")
				convey.So(cfg.DisplayMS, convey.ShouldEqual, 4000)
				convey.So(cfg.ZoomScale, convey.ShouldEqual, 1.25)
				convey.So(cfg.TimeLimitSec, convey.ShouldEqual, 90)
			})
		})

		convey.Convey("When file, env, and flags all set the same keys", func() {
			yamlContent := `
video: "file.mp4"
annotation: "file.tsv"
crop_left: 5
crop_right: 5
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("GOTOONE_CONFIG", tmpFile)
			_ = os.Setenv("GOTOONE_CROP_LEFT", "10")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, []string{"-crop_right", "2.5"})

			convey.Convey("Then flags beat env, and env beats the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.CropLeftPct, convey.ShouldEqual, 10)   // env over file
				convey.So(cfg.CropRightPct, convey.ShouldEqual, 2.5) // flag over file
				convey.So(cfg.Video, convey.ShouldEqual, "file.mp4") // file only
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("GOTOONE_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, baseArgs)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When required paths are missing", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx, nil)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "video path")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When a phase duration is not positive", func() {
			_ = os.Setenv("GOTOONE_ROTATE_MS", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, baseArgs)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the zoom scale shrinks the card", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx, append(baseArgs, "-zoom_scale", "0.5"))

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, key := range []string{
		"GOTOONE_CONFIG",
		"GOTOONE_VIDEO",
		"GOTOONE_ANNOTATION",
		"GOTOONE_OUTPUT",
		"GOTOONE_CARD_INDEX",
		"GOTOONE_ART_DIR",
		"GOTOONE_TIME_LIMIT_SEC",
		"GOTOONE_CROP_LEFT",
		"GOTOONE_CROP_RIGHT",
		"GOTOONE_ROTATE_MS",
		"GOTOONE_LIFE_TICK_MS",
		"GOTOONE_LOG_LEVEL",
		"GOTOONE_METRICS_ADDR",
	} {
		_ = os.Unsetenv(key)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "gotoone-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	_ = tmpFile.Close()
	return tmpFile.Name()
}
