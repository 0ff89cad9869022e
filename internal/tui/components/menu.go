package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/clickwheel/internal/menu"
	"github.com/tessro/clickwheel/internal/tui/styles"
)

// Menu renders one menu level as a list with the selection highlighted.
type Menu struct{}

// NewMenu creates a new Menu component
func NewMenu() *Menu {
	return &Menu{}
}

// Render draws level into a width x height area. Navigable items get an
// arrow in the right margin.
func (m *Menu) Render(st styles.Styles, level menu.Level, width, height int) string {
	if len(level.Items) == 0 {
		return st.Item.Width(width).Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(st.Muted.Render("Empty"))
	}

	start, end := level.Window(height)
	lines := make([]string, 0, height)
	for i := start; i < end; i++ {
		it := level.Items[i]
		lines = append(lines, renderItem(st, it, i == level.Selected, width))
	}
	for len(lines) < height {
		lines = append(lines, st.Item.Width(width).Render(""))
	}
	return strings.Join(lines, "\n")
}

func renderItem(st styles.Styles, it menu.Item, selected bool, width int) string {
	arrow := ""
	if it.Navigable() {
		arrow = "›"
	}
	labelWidth := width - 2 - lipgloss.Width(arrow)
	label := truncate(it.Label, labelWidth)
	pad := width - 1 - lipgloss.Width(label) - lipgloss.Width(arrow)
	if pad < 1 {
		pad = 1
	}
	line := " " + label + strings.Repeat(" ", pad) + arrow

	style := st.Item
	if selected {
		style = st.Selected
	}
	return style.Width(width).MaxWidth(width).Render(line)
}

// TitleBar renders the screen title with a play indicator on the right.
func TitleBar(st styles.Styles, title string, playing, loading bool, width int) string {
	left := ""
	if loading {
		left = "…"
	}
	right := ""
	if playing {
		right = styles.StatusIcon(true)
	}
	inner := width - 2
	if inner < 1 {
		inner = 1
	}
	mid := lipgloss.NewStyle().Width(inner - 2).Align(lipgloss.Center).Render(truncate(title, inner-2))
	bar := padRight(left, 1) + mid + padLeft(right, 1)
	return st.TitleBar.Width(width).Render(" " + bar + " ")
}

func padRight(s string, w int) string {
	if n := w - lipgloss.Width(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

func padLeft(s string, w int) string {
	if n := w - lipgloss.Width(s); n > 0 {
		return strings.Repeat(" ", n) + s
	}
	return s
}
