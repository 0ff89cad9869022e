package components

import (
	"github.com/charmbracelet/glamour"
)

// HelpMarkdown is the help overlay source.
const HelpMarkdown = `# Click Wheel

| Key | Button |
| --- | --- |
| ↑ / k | Scroll back (counter-clockwise) |
| ↓ / j | Scroll forward (clockwise) |
| enter / space | Center |
| esc / backspace / m | MENU |
| → / l | Next |
| ← / h | Previous |
| p | Play / Pause |
| / | Search |
| ? | Toggle this help |
| q / ctrl+c | Quit |

## Mouse

Drag around the wheel to scroll. Click **MENU**, the arrows, the play
button or the center to press them. The scroll wheel scrolls too.

## Now Playing

Scrolling changes the volume. Next and Previous skip tracks.
`

// RenderHelp renders the help markdown wrapped to width. If rendering fails
// the raw markdown is returned.
func RenderHelp(width int) string {
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return HelpMarkdown
	}
	out, err := r.Render(HelpMarkdown)
	if err != nil {
		return HelpMarkdown
	}
	return out
}
