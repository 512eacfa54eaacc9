// Package timecode represents elapsed media time as whole seconds plus a
// fractional-millisecond remainder. Ticks are immutable values; the render
// loop creates one per frame and compares them against event timestamps.
package timecode

// milliPerSecond is the carry boundary for the millisecond remainder.
const milliPerSecond = 1000.0

// Tick is a point on the media clock. The zero value is the start of the
// recording. Millis is always normalized into [0, 1000).
type Tick struct {
	sec   uint64
	milli float64
}

// At builds a Tick from raw second and millisecond components, normalizing
// any millisecond overflow into the seconds part.
func At(sec uint64, milli float64) Tick {
	t := Tick{sec: sec, milli: milli}
	return t.normalize()
}

// Sec returns the whole-second component.
func (t Tick) Sec() uint64 { return t.sec }

// Milli returns the fractional-millisecond remainder, in [0, 1000).
func (t Tick) Milli() float64 { return t.milli }

// Advance returns the tick moved forward by deltaMilli milliseconds.
// The clock only moves forward; negative deltas are ignored.
func (t Tick) Advance(deltaMilli float64) Tick {
	if deltaMilli <= 0 {
		return t
	}
	t.milli += deltaMilli
	return t.normalize()
}

// Sub returns the duration between t and other as a Tick, borrowing one
// second when the millisecond component would underflow. If other is after
// t the result clamps to zero; the caller's clock never runs backwards, so
// a clamp only happens on misuse.
func (t Tick) Sub(other Tick) Tick {
	if t.Before(other) {
		return Tick{}
	}
	if t.milli < other.milli {
		return Tick{
			sec:   (t.sec - 1) - other.sec,
			milli: (t.milli + milliPerSecond) - other.milli,
		}
	}
	return Tick{
		sec:   t.sec - other.sec,
		milli: t.milli - other.milli,
	}
}

// Seconds returns the tick as a float64 number of seconds, for comparisons
// against durations expressed in seconds.
func (t Tick) Seconds() float64 {
	return float64(t.sec) + t.milli/milliPerSecond
}

// Before reports whether t is strictly earlier than other. Ordering is
// lexicographic on (sec, milli).
func (t Tick) Before(other Tick) bool {
	if t.sec != other.sec {
		return t.sec < other.sec
	}
	return t.milli < other.milli
}

// After reports whether t is strictly later than other.
func (t Tick) After(other Tick) bool {
	return other.Before(t)
}

// Compare returns -1, 0, or +1 ordering t against other.
func (t Tick) Compare(other Tick) int {
	switch {
	case t.Before(other):
		return -1
	case other.Before(t):
		return 1
	default:
		return 0
	}
}

func (t Tick) normalize() Tick {
	for t.milli >= milliPerSecond {
		t.milli -= milliPerSecond
		t.sec++
	}
	if t.milli < 0 {
		t.milli = 0
	}
	return t
}
