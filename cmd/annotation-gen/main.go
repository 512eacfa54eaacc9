package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/TrevorCOConnor/go-to-one/internal/anngen"
)

// Default configuration constants.
const (
	defaultCardIndex   = "data/card.tsv"
	defaultMatchLength = 10 * time.Minute
	defaultTurns       = 12
	defaultMaxPerTurn  = 4
	defaultRunTimeout  = 1 * time.Minute
)

func main() {
	var (
		cardIndex  = flag.String("index", defaultCardIndex, "Path to the tab-separated card index")
		output     = flag.String("output", "", "Output file for the script (default: match_script_TIMESTAMP.tsv)")
		length     = flag.Duration("length", defaultMatchLength, "Length of the match the script covers")
		turns      = flag.Int("turns", defaultTurns, "Number of turn changes to generate")
		maxCards   = flag.Int("cards", defaultMaxPerTurn, "Upper bound on cards played per turn")
		logFile    = flag.String("log", "", "Log file for generation output (default: anngen_log_TIMESTAMP.log)")
		skipVerify = flag.Bool("skip-verify", false, "Skip re-parsing the output as a check")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		anngen.ShowHelp()
		return
	}

	if err := anngen.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	if *output == "" {
		*output = "match_script_" + time.Now().Format("20060102_150405") + ".tsv"
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &anngen.Config{
		CardIndex:  *cardIndex,
		Output:     *output,
		Duration:   *length,
		Turns:      *turns,
		MaxPerTurn: *maxCards,
		LogFile:    *logFile,
		Verbose:    *verbose,
		SkipVerify: *skipVerify,
	}

	if err := anngen.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Generation failed: " + err.Error() + "\n")
		return
	}
}
