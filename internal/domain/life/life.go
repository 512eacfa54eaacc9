// Package life tracks a player's life total and smooths its on-screen
// display: the displayed value catches up to the target by one unit per
// fixed number of frames, so a big swing counts up or down instead of
// jumping.
package life

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrBadUpdate reports a malformed life-update token. A corrupt annotation
// file cannot be skipped mid-render, so callers abort on it.
var ErrBadUpdate = errors.New("bad life update")

// defaultTicksPerStep moves the displayed value once per frame when no
// cadence is configured.
const defaultTicksPerStep = 1

// Op is a life-update operation.
type Op int

const (
	// Add increases the target by the amount.
	Add Op = iota
	// Subtract decreases the target by the amount, floored at zero.
	Subtract
	// SetEqual replaces the target with the amount.
	SetEqual
)

// Update is a parsed life-update token.
type Update struct {
	Op     Op
	Amount int
}

// ParseUpdate parses a token of the form "+N", "-N", or "=N".
func ParseUpdate(token string) (Update, error) {
	if token == "" {
		return Update{}, fmt.Errorf("%w: empty token", ErrBadUpdate)
	}

	var op Op
	switch token[0] {
	case '+':
		op = Add
	case '-':
		op = Subtract
	case '=':
		op = SetEqual
	default:
		return Update{}, fmt.Errorf("%w: %q does not start with +, -, or =", ErrBadUpdate, token)
	}

	amount, err := strconv.ParseUint(token[1:], 10, 31)
	if err != nil {
		return Update{}, fmt.Errorf("%w: %q magnitude is not a non-negative integer", ErrBadUpdate, token)
	}

	return Update{Op: op, Amount: int(amount)}, nil
}

// Tracker holds a target life total and the value currently displayed.
type Tracker struct {
	target    int
	displayed int

	tickCounter  uint32
	ticksPerStep uint32
}

// Option applies a configuration option to a Tracker.
type Option func(*Tracker)

// WithTicksPerStep sets how many frames elapse between single-unit moves
// of the displayed value.
func WithTicksPerStep(n uint32) Option {
	return func(t *Tracker) {
		if n > 0 {
			t.ticksPerStep = n
		}
	}
}

// New creates a Tracker with the displayed value already at the start.
func New(start int, opts ...Option) *Tracker {
	t := &Tracker{
		target:       start,
		displayed:    start,
		ticksPerStep: defaultTicksPerStep,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Apply moves the target by the given update. Subtractions floor at zero.
func (t *Tracker) Apply(u Update) {
	switch u.Op {
	case Add:
		t.target += u.Amount
	case Subtract:
		t.target -= u.Amount
		if t.target < 0 {
			t.target = 0
		}
	case SetEqual:
		t.target = u.Amount
	}
}

// ApplyToken parses and applies a life-update token.
func (t *Tracker) ApplyToken(token string) error {
	u, err := ParseUpdate(token)
	if err != nil {
		return err
	}
	t.Apply(u)
	return nil
}

// Tick advances the frame counter; every ticksPerStep frames the displayed
// value moves one unit toward the target.
func (t *Tracker) Tick() {
	t.tickCounter++
	if t.tickCounter < t.ticksPerStep {
		return
	}
	t.tickCounter = 0

	switch {
	case t.displayed < t.target:
		t.displayed++
	case t.displayed > t.target:
		t.displayed--
	}
}

// Display renders the displayed value as text for the compositor.
func (t *Tracker) Display() string {
	return strconv.Itoa(t.displayed)
}

// Target returns the true life total.
func (t *Tracker) Target() int { return t.target }

// Displayed returns the value currently shown on screen.
func (t *Tracker) Displayed() int { return t.displayed }

// Settled reports whether the display has caught up with the target.
func (t *Tracker) Settled() bool { return t.displayed == t.target }
