// Package anngen generates synthetic annotation scripts against a real
// card index. The output is a valid timeline file that the overlay
// renderer accepts, useful for exercising the full pipeline without
// hand-annotating a match video.
package anngen

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/TrevorCOConnor/go-to-one/internal/adapters/annotation"
	"github.com/TrevorCOConnor/go-to-one/internal/adapters/carddb"
	"github.com/TrevorCOConnor/go-to-one/pkg/logger"
)

// File permission constants.
const (
	outputFilePermission = 0600
)

// Run executes a complete generate, write, verify pass.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	if config.Duration <= 0 {
		config.Duration = defaultMatchLength
	}
	if config.Turns <= 0 {
		config.Turns = defaultTurns
	}
	if config.MaxPerTurn <= 0 {
		config.MaxPerTurn = defaultMaxPerTurn
	}

	logger.Get().Info(ctx, "starting annotation script generation",
		logger.String("cardIndex", config.CardIndex),
		logger.String("output", config.Output),
		logger.String("matchLength", config.Duration.String()),
		logger.Int("turns", config.Turns),
		logger.Any("verbose", config.Verbose))

	cards, err := carddb.OpenFile(config.CardIndex)
	if err != nil {
		return fmt.Errorf("card index load failed: %w", err)
	}

	rows, err := generateScript(ctx, config, cards, stats)
	if err != nil {
		return fmt.Errorf("script generation failed: %w", err)
	}

	if err := writeScript(config.Output, rows, stats); err != nil {
		return fmt.Errorf("script write failed: %w", err)
	}

	if !config.SkipVerify {
		if err := verifyScript(ctx, config, stats); err != nil {
			return fmt.Errorf("script verification failed: %w", err)
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	logStats(ctx, stats)
	return nil
}

// writeScript emits the header, setup block, and event rows as a
// tab-separated file.
func writeScript(path string, rows []row, stats *Stats) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, outputFilePermission)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = '\t'

	if err := w.Write(annotation.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		if err := w.Write(r.record()); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	stats.RowsWritten = len(rows)
	return nil
}

// logStats reports the final generation summary.
func logStats(ctx context.Context, stats *Stats) {
	logger.Get().Info(ctx, "annotation script generated",
		logger.Int("rows", stats.RowsWritten),
		logger.Int("turns", stats.Turns),
		logger.Int("cards", stats.CardsPlayed),
		logger.Int("lifeUpdates", stats.LifeUpdates),
		logger.Int("zooms", stats.Zooms),
		logger.String("winner", stats.Winner),
		logger.String("took", stats.Duration.String()))
}
