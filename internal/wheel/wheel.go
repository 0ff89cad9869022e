// Package wheel turns pointer input on a drawn click wheel into rotation
// steps and button presses.
package wheel

import "math"

// Threshold is the rotation in radians that produces one scroll step.
const Threshold = 0.1

// Direction is the sense of a rotation step.
type Direction int

const (
	None Direction = iota
	Clockwise
	CounterClockwise
)

func (d Direction) String() string {
	switch d {
	case Clockwise:
		return "clockwise"
	case CounterClockwise:
		return "counter-clockwise"
	default:
		return "none"
	}
}

// Angle returns the angle of (x, y) around (cx, cy). Screen y grows
// downward, so increasing angles run clockwise on screen.
func Angle(x, y, cx, cy float64) float64 {
	return math.Atan2(y-cy, x-cx)
}

// Normalize wraps an angle difference into (-π, π].
func Normalize(diff float64) float64 {
	for diff > math.Pi {
		diff -= 2 * math.Pi
	}
	for diff <= -math.Pi {
		diff += 2 * math.Pi
	}
	return diff
}

// Tracker converts a stream of angles into rotation steps.
type Tracker struct {
	last   float64
	active bool
}

// Begin starts tracking from angle.
func (t *Tracker) Begin(angle float64) {
	t.last = angle
	t.active = true
}

// End stops tracking.
func (t *Tracker) End() {
	t.active = false
}

// Active reports whether a drag is being tracked.
func (t *Tracker) Active() bool {
	return t.active
}

// Move reports a step once the angle has moved past Threshold from the
// reference angle. The reference only moves when a step fires.
func (t *Tracker) Move(angle float64) Direction {
	if !t.active {
		return None
	}
	diff := Normalize(angle - t.last)
	if math.Abs(diff) <= Threshold {
		return None
	}
	t.last = angle
	if diff > 0 {
		return Clockwise
	}
	return CounterClockwise
}
