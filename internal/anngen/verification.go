package anngen

import (
	"context"
	"fmt"
	"os"

	"github.com/TrevorCOConnor/go-to-one/internal/adapters/annotation"
	"github.com/TrevorCOConnor/go-to-one/pkg/logger"
)

// verifyScript re-parses the written file through the real annotation
// parser and checks it against the generation counts.
func verifyScript(ctx context.Context, config *Config, stats *Stats) error {
	log := logger.Get()
	log.Info(ctx, "verifying generated script", logger.String("path", config.Output))

	f, err := os.Open(config.Output)
	if err != nil {
		return fmt.Errorf("reopen output: %w", err)
	}
	defer f.Close()

	setup, tl, err := annotation.Parse(f)
	if err != nil {
		return fmt.Errorf("generated script does not parse: %w", err)
	}

	if setup.Hero1 == "" || setup.Hero2 == "" {
		return fmt.Errorf("parsed setup is missing a hero")
	}
	if setup.Life1 <= 0 || setup.Life2 <= 0 {
		return fmt.Errorf("parsed setup has non-positive starting life")
	}

	// A life row can carry one update per player, so parsed events may
	// outnumber written rows but never the other way around.
	want := stats.Turns + stats.CardsPlayed + stats.LifeUpdates + stats.Zooms + 1
	if tl.Remaining() < want {
		return fmt.Errorf("parsed %d events, generated %d", tl.Remaining(), want)
	}

	log.Info(ctx, "script verification passed",
		logger.String("hero1", setup.Hero1),
		logger.String("hero2", setup.Hero2),
		logger.Int("events", tl.Remaining()))
	return nil
}
