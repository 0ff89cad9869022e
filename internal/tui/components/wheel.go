package components

import (
	"strings"

	"github.com/tessro/clickwheel/internal/tui/styles"
	"github.com/tessro/clickwheel/internal/wheel"
)

// Wheel draws the click wheel and maps screen cells onto it.
type Wheel struct {
	Radius int     // rows
	Aspect float64 // columns per row
}

// NewWheel returns a wheel sized for the default device frame.
func NewWheel() *Wheel {
	return &Wheel{Radius: 5, Aspect: 2}
}

// Size returns the rendered width and height in cells.
func (w *Wheel) Size() (width, height int) {
	return 2*int(float64(w.Radius)*w.Aspect) + 1, 2*w.Radius + 1
}

// Geometry returns the wheel geometry when its top-left cell is at (x0, y0).
func (w *Wheel) Geometry(x0, y0 int) wheel.Geometry {
	return wheel.Geometry{
		CX:          float64(x0) + float64(w.Radius)*w.Aspect,
		CY:          float64(y0 + w.Radius),
		Radius:      float64(w.Radius) + 0.5,
		Aspect:      w.Aspect,
		CenterRatio: wheel.DefaultCenterRatio,
	}
}

type label struct {
	row, col int
	text     string
}

func (w *Wheel) labels(width int) []label {
	mid := width / 2
	return []label{
		{row: 1, col: mid - 2, text: "MENU"},
		{row: w.Radius, col: 2, text: "◀◀"},
		{row: w.Radius, col: width - 4, text: "▶▶"},
		{row: 2*w.Radius - 1, col: mid - 1, text: "▶❚❚"},
	}
}

// Render draws the wheel. The button labels sit on the ring.
func (w *Wheel) Render(st styles.Styles) string {
	width, height := w.Size()
	geo := w.Geometry(0, 0)

	labelAt := make(map[[2]int]label)
	for _, l := range w.labels(width) {
		labelAt[[2]int{l.row, l.col}] = l
	}

	var b strings.Builder
	for row := 0; row < height; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := 0; col < width; col++ {
			if l, ok := labelAt[[2]int{row, col}]; ok {
				b.WriteString(st.Label.Render(l.text))
				col += len([]rune(l.text)) - 1
				continue
			}
			switch geo.Hit(float64(col), float64(row)) {
			case wheel.Outside:
				b.WriteByte(' ')
			case wheel.Center:
				b.WriteString(st.Center.Render("█"))
			default:
				b.WriteString(st.Wheel.Render("░"))
			}
		}
	}
	return b.String()
}
