package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/clickwheel/internal/theme"
)

// Fixed colors shared by every theme.
var (
	Text      = lipgloss.Color("#111111")
	TextMuted = lipgloss.Color("#4A4A4A")
	TextDim   = lipgloss.Color("#6B7280")
	Selection = lipgloss.Color("#3B82F6")
	Error     = lipgloss.Color("#EF4444")
	Warning   = lipgloss.Color("#F59E0B")
	Playing   = lipgloss.Color("#10B981")
	Button    = lipgloss.Color("#8E8E93")
)

// Styles are the lipgloss styles for one theme.
type Styles struct {
	Theme theme.Theme

	Frame    lipgloss.Style
	Screen   lipgloss.Style
	TitleBar lipgloss.Style
	Item     lipgloss.Style
	Selected lipgloss.Style
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Muted    lipgloss.Style
	Dim      lipgloss.Style
	Wheel    lipgloss.Style
	Label    lipgloss.Style
	Center   lipgloss.Style
	Status   lipgloss.Style
	Err      lipgloss.Style
	Overlay  lipgloss.Style
}

// New builds the styles for t.
func New(t theme.Theme) Styles {
	border := lipgloss.Color(t.BorderColors[0])
	screen := lipgloss.Color(t.ScreenColor)
	wheel := lipgloss.Color(t.WheelColors[0])

	return Styles{
		Theme: t,

		Frame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),

		Screen: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(TextMuted).
			Background(screen).
			Foreground(Text),

		TitleBar: lipgloss.NewStyle().
			Bold(true).
			Background(screen).
			Foreground(Text).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(TextMuted),

		Item: lipgloss.NewStyle().
			Background(screen).
			Foreground(Text),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Background(Selection).
			Foreground(lipgloss.Color("#FFFFFF")),

		Title:    lipgloss.NewStyle().Bold(true).Background(screen).Foreground(Text),
		Subtitle: lipgloss.NewStyle().Background(screen).Foreground(TextMuted),
		Muted:    lipgloss.NewStyle().Background(screen).Foreground(TextMuted),
		Dim:      lipgloss.NewStyle().Foreground(TextDim),

		Wheel:  lipgloss.NewStyle().Foreground(wheel),
		Label:  lipgloss.NewStyle().Bold(true).Foreground(Button),
		Center: lipgloss.NewStyle().Foreground(lipgloss.Color(t.WheelColors[1])),

		Status: lipgloss.NewStyle().Foreground(TextDim),
		Err:    lipgloss.NewStyle().Foreground(Error),

		Overlay: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(1, 2),
	}
}

// ProgressBar renders a bar of width cells filled to percent.
func (s Styles) ProgressBar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	filledStyle := lipgloss.NewStyle().Background(lipgloss.Color(s.Theme.ScreenColor)).Foreground(Selection)
	emptyStyle := s.Muted

	return filledStyle.Render(strings.Repeat("━", filled)) +
		emptyStyle.Render(strings.Repeat("─", width-filled))
}

// StatusIcon returns an icon for playback status.
func StatusIcon(playing bool) string {
	if playing {
		return "▶"
	}
	return "❚❚"
}
