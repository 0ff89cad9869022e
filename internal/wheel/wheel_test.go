package wheel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
		{5 * math.Pi, math.Pi},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Normalize(tt.in), 1e-9, "Normalize(%v)", tt.in)
	}
}

func TestAngle(t *testing.T) {
	assert.InDelta(t, 0, Angle(10, 0, 0, 0), 1e-9)
	assert.InDelta(t, math.Pi/2, Angle(0, 10, 0, 0), 1e-9, "below center")
	assert.InDelta(t, -math.Pi/2, Angle(0, -10, 0, 0), 1e-9, "above center")
}

func TestTrackerThreshold(t *testing.T) {
	var tr Tracker
	assert.Equal(t, None, tr.Move(1), "inactive tracker")

	tr.Begin(0)
	assert.Equal(t, None, tr.Move(0.05))
	assert.Equal(t, None, tr.Move(0.1), "exactly the threshold does not fire")
	assert.Equal(t, Clockwise, tr.Move(0.15))
	assert.Equal(t, None, tr.Move(0.2), "reference moved to 0.15")
	assert.Equal(t, CounterClockwise, tr.Move(0))
}

func TestTrackerWrapsAroundPi(t *testing.T) {
	var tr Tracker
	tr.Begin(math.Pi - 0.05)
	assert.Equal(t, Clockwise, tr.Move(-math.Pi+0.1), "crossing ±π clockwise")

	tr.Begin(-math.Pi + 0.05)
	assert.Equal(t, CounterClockwise, tr.Move(math.Pi-0.1))
}

var geo = Geometry{CX: 20, CY: 10, Radius: 8, Aspect: 2, CenterRatio: 0.35}

func TestHit(t *testing.T) {
	tests := []struct {
		name string
		x, y float64
		want Zone
	}{
		{"center", 20, 10, Center},
		{"menu", 20, 3, Menu},
		{"play pause", 20, 17, PlayPause},
		{"next", 34, 10, Next},
		{"previous", 6, 10, Previous},
		{"ring diagonal", 30, 5, Ring},
		{"outside", 20, 0, Outside},
		{"outside horizontally", 38, 10, Outside},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, geo.Hit(tt.x, tt.y))
		})
	}
}

func TestGestureClickOnButton(t *testing.T) {
	g := Gesture{Geometry: geo}
	g.Press(34, 10)
	ev, ok := g.Release(34, 10)
	assert.True(t, ok)
	assert.Equal(t, Event{Kind: EventPress, Zone: Next}, ev)

	g.Press(20, 10)
	ev, ok = g.Release(20, 10)
	assert.True(t, ok)
	assert.Equal(t, Center, ev.Zone)
}

func TestGestureReleaseElsewhereCancels(t *testing.T) {
	g := Gesture{Geometry: geo}
	g.Press(34, 10)
	_, ok := g.Release(20, 10)
	assert.False(t, ok)
}

func TestGestureDragRotates(t *testing.T) {
	g := Gesture{Geometry: geo}

	// Start on the right (NEXT) and drag down toward PLAY/PAUSE.
	g.Press(34, 10)
	var steps []Direction
	for i := 1; i <= 10; i++ {
		a := float64(i) * math.Pi / 20
		x := geo.CX + math.Cos(a)*7*geo.Aspect
		y := geo.CY + math.Sin(a)*7
		if ev, ok := g.Drag(x, y); ok {
			assert.Equal(t, EventRotate, ev.Kind)
			steps = append(steps, ev.Direction)
		}
	}
	assert.NotEmpty(t, steps)
	for _, d := range steps {
		assert.Equal(t, Clockwise, d)
	}

	// A rotated gesture is not also a button press.
	_, ok := g.Release(20, 17)
	assert.False(t, ok)
}

func TestGestureIgnoresOutsideAndCenterDrags(t *testing.T) {
	g := Gesture{Geometry: geo}
	g.Press(0, 0)
	_, ok := g.Drag(34, 10)
	assert.False(t, ok)

	g.Press(20, 10)
	_, ok = g.Drag(21, 10)
	assert.False(t, ok, "the center button does not rotate")
}
