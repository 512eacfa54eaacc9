package anngen

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/TrevorCOConnor/go-to-one/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "anngen_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the script generator.
func ShowHelp() {
	os.Stdout.WriteString(`Annotation Script Generator
===========================

Generates a synthetic match annotation file against a real card index.
The output parses through the overlay's annotation reader, so it can
drive a full render without hand-annotating a video.

Usage:
  go run cmd/annotation-gen/main.go [options]

Options:
  -index string
        Path to the tab-separated card index (default "data/card.tsv")
  -output string
        Output file for the script (default: match_script_TIMESTAMP.tsv)
  -length duration
        Length of the match the script covers (default 10m)
  -turns int
        Number of turn changes to generate (default 12)
  -cards int
        Upper bound on cards played per turn (default 4)
  -log string
        Log file for generation output (default: anngen_log_TIMESTAMP.log)
  -skip-verify
        Skip re-parsing the output as a check
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Generate with default settings
  go run cmd/annotation-gen/main.go

  # A long, busy match
  go run cmd/annotation-gen/main.go -length 25m -turns 20 -cards 6

  # Write to a known path
  go run cmd/annotation-gen/main.go -output testdata/match.tsv
`)
}
