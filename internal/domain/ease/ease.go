// Package ease reparameterizes animation progress fractions so motion
// accelerates and decelerates smoothly instead of moving linearly. Each
// curve maps the [0, 1] progress fraction onto an eased fraction starting
// at 0 and settling at or near 1; inputs are clamped into range.
package ease

import "math"

// Tuning constants for the individual curves.
const (
	sCurveSteepness = 6.0
	rushMultiplier  = 10.0
	arcTanLeft      = -5.0
	arcTanRight     = 10.0
	bounceCount     = 4.0
)

// Curve selects a reparameterization of the progress fraction.
type Curve int

const (
	// Linear passes progress through unchanged.
	Linear Curve = iota
	// SCurve is a logistic ease-in-ease-out; used by the card zoom.
	SCurve
	// ArcTan rises fast through the middle with gentle ends.
	ArcTan
	// RushToOne jumps quickly and settles slowly.
	RushToOne
	// Bounce overshoots and rings down; used by the intro panels.
	Bounce
)

// Apply maps a progress fraction through the curve.
func (c Curve) Apply(progress float64) float64 {
	progress = clamp(progress)
	switch c {
	case SCurve:
		return sCurve(progress)
	case ArcTan:
		return arcTan(progress)
	case RushToOne:
		return rushToOne(progress)
	case Bounce:
		return bounce(progress)
	default:
		return progress
	}
}

// Lerp interpolates linearly from start to end by the given fraction.
func Lerp(start, end, progress float64) float64 {
	return (end-start)*progress + start
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Logistic function evaluated over [-steepness, steepness].
func sCurve(progress float64) float64 {
	t := Lerp(-sCurveSteepness, sCurveSteepness, progress)
	return 1 / (1 + math.Exp(-t))
}

func arcTan(progress float64) float64 {
	t := arcTanLeft + (arcTanRight-arcTanLeft)*progress
	return (math.Atan(t) - math.Atan(arcTanLeft)) /
		(math.Atan(arcTanRight) - math.Atan(arcTanLeft))
}

// 1 - 1/(kx+1): most of the distance is covered early.
func rushToOne(progress float64) float64 {
	return 1 - 1/(rushMultiplier*progress+1)
}

// Piecewise: a linear approach followed by damped sine bounces around 1.
func bounce(progress float64) float64 {
	t := Lerp(0, bounceCount, progress)
	k := math.Floor(t)

	if k == 0 {
		return Lerp(0, 1, t)
	}
	frac := t - k
	r := Lerp(math.Pi, 2*math.Pi, frac)
	return 1 + math.Sin(r)/math.Pow(k+1, 4)
}
