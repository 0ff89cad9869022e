package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/clickwheel/internal/core"
	"github.com/tessro/clickwheel/internal/tui/styles"
)

// NowPlaying renders the now-playing screen.
type NowPlaying struct{}

// NewNowPlaying creates a new NowPlaying component
func NewNowPlaying() *NowPlaying {
	return &NowPlaying{}
}

// Render draws state into a width x height area.
func (n *NowPlaying) Render(st styles.Styles, state core.PlaybackState, width, height int) string {
	area := st.Item.Width(width).Height(height)
	if state.Track == nil {
		return area.Align(lipgloss.Center, lipgloss.Center).Render(st.Muted.Render("Nothing playing"))
	}
	return area.Render(n.renderTrack(st, state, width))
}

func (n *NowPlaying) renderTrack(st styles.Styles, state core.PlaybackState, width int) string {
	track := state.Track
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	position := ""
	if state.QueueLen > 0 {
		position = fmt.Sprintf("%d of %d", state.QueueIndex+1, state.QueueLen)
	}

	barWidth := width - 12
	if barWidth < 4 {
		barWidth = 4
	}
	progress := fmt.Sprintf("%s %s %s",
		FormatDuration(state.Progress),
		st.ProgressBar(state.ProgressPercent(), barWidth),
		FormatDuration(state.Duration))

	return lipgloss.JoinVertical(lipgloss.Left,
		center.Render(st.Muted.Render(position)),
		"",
		center.Render(st.Title.Render(truncate(track.Title, width))),
		center.Render(st.Subtitle.Render(truncate(track.Artist, width))),
		center.Render(st.Muted.Render(truncate(track.Album, width))),
		"",
		center.Render(progress),
		center.Render(st.Muted.Render(fmt.Sprintf("%s  vol %d%%", styles.StatusIcon(state.IsPlaying), state.Volume))),
	)
}

// FormatDuration renders d as m:ss.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%d:%02d", m, s)
}

// truncate shortens s to width cells, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
