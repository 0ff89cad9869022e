// Package wizard holds the interactive pickers used by CLI commands.
package wizard

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/clickwheel/internal/core"
)

// DeviceModel is the bubbletea model for the device picker.
type DeviceModel struct {
	devices  []core.Device
	cursor   int
	selected *core.Device
	width    int
	height   int
}

var (
	deviceTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#5A9BD5"))

	deviceItemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	deviceSelectedStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Background(lipgloss.Color("237"))

	deviceActiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("82"))

	deviceDimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

// NewDeviceModel creates a device picker. The cursor starts on the active
// device when there is exactly one.
func NewDeviceModel(devices []core.Device) DeviceModel {
	m := DeviceModel{
		devices: devices,
		width:   80,
		height:  20,
	}
	if active := ActiveDevice(devices); active != nil {
		for i := range devices {
			if devices[i].ID == active.ID {
				m.cursor = i
			}
		}
	}
	return m
}

// Init initializes the model.
func (m DeviceModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m DeviceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			return m, tea.Quit

		case "enter", " ":
			if len(m.devices) > 0 && m.cursor < len(m.devices) {
				m.selected = &m.devices[m.cursor]
				return m, tea.Quit
			}

		case "up", "k", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j", "ctrl+n":
			if m.cursor < len(m.devices)-1 {
				m.cursor++
			}

		case "home", "g":
			m.cursor = 0

		case "end", "G":
			if len(m.devices) > 0 {
				m.cursor = len(m.devices) - 1
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

// View renders the model.
func (m DeviceModel) View() string {
	var b strings.Builder

	b.WriteString(deviceTitleStyle.Render("Select Playback Device"))
	b.WriteString("\n\n")

	if len(m.devices) == 0 {
		b.WriteString(deviceDimStyle.Render("No devices found"))
		b.WriteString("\n\n")
		b.WriteString(deviceDimStyle.Render("Open Spotify on a phone, computer or speaker and try again."))
		return b.String()
	}

	for i, device := range m.devices {
		var line strings.Builder
		if device.IsActive {
			line.WriteString(deviceActiveStyle.Render("● "))
		} else {
			line.WriteString(deviceDimStyle.Render("○ "))
		}
		line.WriteString(device.Name)
		line.WriteString(" " + deviceDimStyle.Render("("+string(device.Type)+")"))
		if device.Volume > 0 {
			line.WriteString(deviceDimStyle.Render(fmt.Sprintf(" %d%%", device.Volume)))
		}

		if i == m.cursor {
			b.WriteString(deviceSelectedStyle.Render("▸ " + line.String()))
		} else {
			b.WriteString(deviceItemStyle.Render("  " + line.String()))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(deviceDimStyle.Render("↑/↓ navigate • enter select • esc quit"))
	return b.String()
}

// Selected returns the selected device, or nil if none.
func (m DeviceModel) Selected() *core.Device {
	return m.selected
}

// RunDevicePicker runs the device picker and returns the selected device.
func RunDevicePicker(devices []core.Device) (*core.Device, error) {
	p := tea.NewProgram(NewDeviceModel(devices), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	return final.(DeviceModel).Selected(), nil
}
