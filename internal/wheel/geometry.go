package wheel

import "math"

// Zone is a region of the wheel.
type Zone int

const (
	Outside Zone = iota
	Ring
	Center
	Menu
	Next
	PlayPause
	Previous
)

func (z Zone) String() string {
	switch z {
	case Ring:
		return "ring"
	case Center:
		return "center"
	case Menu:
		return "menu"
	case Next:
		return "next"
	case PlayPause:
		return "play-pause"
	case Previous:
		return "previous"
	default:
		return "outside"
	}
}

// IsButton reports whether the zone is one of the four ring buttons.
func (z Zone) IsButton() bool {
	return z == Menu || z == Next || z == PlayPause || z == Previous
}

// buttonArc is the half-width of each button's sector on the ring.
const buttonArc = math.Pi / 6

// DefaultCenterRatio is the center button's share of the wheel diameter.
const DefaultCenterRatio = 0.35

// Geometry places the wheel on screen. Radius is measured in rows; Aspect
// is how many columns make up one row's height (about 2 for terminals).
type Geometry struct {
	CX, CY      float64
	Radius      float64
	Aspect      float64
	CenterRatio float64
}

// offset returns the point relative to the center in row units.
func (g Geometry) offset(x, y float64) (dx, dy float64) {
	aspect := g.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	return (x - g.CX) / aspect, y - g.CY
}

// Angle returns the angle of a point around the wheel's center.
func (g Geometry) Angle(x, y float64) float64 {
	dx, dy := g.offset(x, y)
	return math.Atan2(dy, dx)
}

// Hit classifies a point.
func (g Geometry) Hit(x, y float64) Zone {
	dx, dy := g.offset(x, y)
	dist := math.Hypot(dx, dy)

	ratio := g.CenterRatio
	if ratio <= 0 {
		ratio = DefaultCenterRatio
	}

	switch {
	case dist > g.Radius:
		return Outside
	case dist <= g.Radius*ratio:
		return Center
	}

	a := math.Atan2(dy, dx)
	switch {
	case math.Abs(Normalize(a+math.Pi/2)) <= buttonArc:
		return Menu
	case math.Abs(a) <= buttonArc:
		return Next
	case math.Abs(Normalize(a-math.Pi/2)) <= buttonArc:
		return PlayPause
	case math.Abs(Normalize(a-math.Pi)) <= buttonArc:
		return Previous
	}
	return Ring
}
