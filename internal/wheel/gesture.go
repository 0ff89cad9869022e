package wheel

// EventKind says what a gesture produced.
type EventKind int

const (
	EventRotate EventKind = iota + 1
	EventPress
)

// Event is the outcome of a pointer action on the wheel.
type Event struct {
	Kind      EventKind
	Direction Direction // EventRotate
	Zone      Zone      // EventPress: Center or a button
}

// Gesture combines press, drag and release into wheel events. A press and
// release on the same button or the center without any rotation in between
// is a press. Dragging anywhere on the ring rotates.
type Gesture struct {
	Geometry Geometry

	tracker Tracker
	pressed bool
	zone    Zone
	rotated bool
}

// Press starts a gesture. Presses outside the wheel are ignored.
func (g *Gesture) Press(x, y float64) {
	zone := g.Geometry.Hit(x, y)
	if zone == Outside {
		g.reset()
		return
	}
	g.pressed = true
	g.zone = zone
	g.rotated = false
	if zone != Center {
		g.tracker.Begin(g.Geometry.Angle(x, y))
	}
}

// Drag continues a gesture and returns a rotation event when the drag has
// turned far enough.
func (g *Gesture) Drag(x, y float64) (Event, bool) {
	if !g.pressed || !g.tracker.Active() {
		return Event{}, false
	}
	dir := g.tracker.Move(g.Geometry.Angle(x, y))
	if dir == None {
		return Event{}, false
	}
	g.rotated = true
	return Event{Kind: EventRotate, Direction: dir}, true
}

// Release ends a gesture and returns a press event for a clean click on a
// button or the center.
func (g *Gesture) Release(x, y float64) (Event, bool) {
	defer g.reset()
	if !g.pressed || g.rotated {
		return Event{}, false
	}
	if g.zone != Center && !g.zone.IsButton() {
		return Event{}, false
	}
	if g.Geometry.Hit(x, y) != g.zone {
		return Event{}, false
	}
	return Event{Kind: EventPress, Zone: g.zone}, true
}

func (g *Gesture) reset() {
	g.pressed = false
	g.rotated = false
	g.zone = Outside
	g.tracker.End()
}
