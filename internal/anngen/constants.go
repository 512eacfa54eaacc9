package anngen

import "time"

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
)

// Odds for per-card follow-up rows.
const (
	damageChance = 0.6
	healChance   = 0.1
	zoomChance   = 0.25
)

// Ranges for generated amounts.
const (
	damageMin   = 1
	damageRange = 8
	healMin     = 1
	healRange   = 3
)

// Script pacing.
const (
	defaultMatchLength = 10 * time.Minute
	defaultTurns       = 12
	defaultMaxPerTurn  = 4
	winDelay           = 1500.0 // ms between the killing blow and the win row
	fallbackStartLife  = 20
)
