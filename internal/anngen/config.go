package anngen

import "time"

// Config holds configuration for a script generation run.
type Config struct {
	CardIndex  string        // Path to the tab-separated card index
	Output     string        // Output file for the generated annotation script
	Duration   time.Duration // Length of the match the script covers
	Turns      int           // Number of turn changes to generate
	MaxPerTurn int           // Upper bound on cards played per turn
	LogFile    string        // Log file for generation output
	Verbose    bool          // Enable verbose logging
	SkipVerify bool          // Skip the re-parse verification pass
}

// Stats holds generation statistics.
type Stats struct {
	RowsWritten int
	Turns       int
	CardsPlayed int
	LifeUpdates int
	Zooms       int
	Winner      string
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
}
