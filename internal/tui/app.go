package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/tessro/clickwheel/internal/config"
	"github.com/tessro/clickwheel/internal/core"
	"github.com/tessro/clickwheel/internal/screen"
	"github.com/tessro/clickwheel/internal/theme"
	"github.com/tessro/clickwheel/internal/tui/components"
	"github.com/tessro/clickwheel/internal/tui/styles"
	"github.com/tessro/clickwheel/internal/wheel"
)

// Device layout, in cells.
const (
	innerWidth = 36
	screenRows = 8

	errorDuration  = 5 * time.Second
	actionTimeout  = 30 * time.Second
	loadingRefresh = 100 * time.Millisecond
	eventBuffer    = 64
)

// Options configures the TUI.
type Options struct {
	Catalog core.Catalog
	Player  core.Player
	History screen.History
	// ConfigPath is where theme changes are saved. The file is also
	// watched for external edits when Watch is set.
	ConfigPath   string
	Watch        bool
	Theme        string
	Mouse        bool
	HistoryLimit int
	Logger       *zap.Logger
}

// Messages
type playerEventMsg core.Event
type subscriptionClosedMsg struct{}
type actionDoneMsg struct{ err error }
type errMsg error
type clearErrorMsg struct{ at time.Time }
type refreshMsg struct{}
type themeChangedMsg struct{ theme theme.Theme }
type themeReloadedMsg struct{ key string }
type openSearchMsg struct{}
type logoutMsg struct{}

// Model is the bubbletea model for the click-wheel UI.
type Model struct {
	ctx    context.Context
	ctrl   *screen.Controller
	player core.Player
	sub    core.Subscription
	log    *zap.Logger

	configPath string
	mouse      bool
	msgs       chan tea.Msg

	keys keyMap
	help help.Model

	menuView   *components.Menu
	nowPlaying *components.NowPlaying
	wheelView  *components.Wheel
	gesture    *wheel.Gesture
	styleCache map[string]styles.Styles

	width  int
	height int

	showHelp    bool
	showSearch  bool
	searchInput textinput.Model

	lastError   error
	errorExpiry time.Time

	quitting    bool
	quitMessage string
}

// New creates the model and its screen controller.
func New(ctx context.Context, opts Options) Model {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	msgs := make(chan tea.Msg, 16)
	send := func(msg tea.Msg) {
		select {
		case msgs <- msg:
		default:
			log.Warn("dropping ui message", zap.String("type", fmt.Sprintf("%T", msg)))
		}
	}

	ctrl := screen.New(screen.Options{
		Catalog:      opts.Catalog,
		Player:       opts.Player,
		History:      opts.History,
		HistoryLimit: opts.HistoryLimit,
		Theme:        opts.Theme,
		Logger:       log,
		OnTheme:      func(t theme.Theme) { send(themeChangedMsg{theme: t}) },
		OnLogout:     func() { send(logoutMsg{}) },
		OnSearch:     func() { send(openSearchMsg{}) },
	})

	ti := textinput.New()
	ti.Placeholder = "Search tracks..."
	ti.CharLimit = 100
	ti.Width = innerWidth - 6

	h := help.New()
	h.ShortSeparator = "  "

	return Model{
		ctx:         ctx,
		ctrl:        ctrl,
		player:      opts.Player,
		sub:         opts.Player.Subscribe(eventBuffer),
		log:         log,
		configPath:  opts.ConfigPath,
		mouse:       opts.Mouse,
		msgs:        msgs,
		keys:        newKeyMap(),
		help:        h,
		menuView:    components.NewMenu(),
		nowPlaying:  components.NewNowPlaying(),
		wheelView:   components.NewWheel(),
		gesture:     &wheel.Gesture{},
		styleCache:  make(map[string]styles.Styles),
		searchInput: ti,
	}
}

// Controller returns the screen controller driven by the model.
func (m Model) Controller() *screen.Controller {
	return m.ctrl
}

// Commands

func waitForEvent(sub core.Subscription) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-sub.Events()
		if !ok {
			return subscriptionClosedMsg{}
		}
		return playerEventMsg(ev)
	}
}

func waitForMsg(msgs <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-msgs
	}
}

// do runs fn against the controller off the update loop.
func (m Model) do(fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return tea.Batch(
		func() tea.Msg {
			ctx, cancel := context.WithTimeout(ctx, actionTimeout)
			defer cancel()
			return actionDoneMsg{err: fn(ctx)}
		},
		tea.Tick(loadingRefresh, func(time.Time) tea.Msg { return refreshMsg{} }),
	)
}

func (m Model) saveTheme(t theme.Theme) tea.Cmd {
	path := m.configPath
	return func() tea.Msg {
		if path == "" {
			return nil
		}
		if err := config.Set(path, "tui.theme", t.Key); err != nil {
			return errMsg(fmt.Errorf("failed to save theme: %w", err))
		}
		return nil
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForEvent(m.sub),
		waitForMsg(m.msgs),
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case playerEventMsg:
		m.ctrl.Apply(core.Event(msg))
		return m, waitForEvent(m.sub)

	case subscriptionClosedMsg:
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			return m.setError(msg.err)
		}
		return m, nil

	case refreshMsg:
		if m.ctrl.Loading() {
			return m, tea.Tick(loadingRefresh, func(time.Time) tea.Msg { return refreshMsg{} })
		}
		return m, nil

	case errMsg:
		return m.setError(msg)

	case clearErrorMsg:
		if !msg.at.Before(m.errorExpiry) {
			m.lastError = nil
		}
		return m, nil

	case themeChangedMsg:
		return m, tea.Batch(m.saveTheme(msg.theme), waitForMsg(m.msgs))

	case themeReloadedMsg:
		if m.ctrl.SetTheme(msg.key) {
			m.log.Info("theme changed on disk", zap.String("theme", msg.key))
		}
		return m, waitForMsg(m.msgs)

	case openSearchMsg:
		return m.openSearch(waitForMsg(m.msgs))

	case logoutMsg:
		m.quitMessage = "Logged out."
		return m.quit()
	}

	if m.showSearch {
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) setError(err error) (tea.Model, tea.Cmd) {
	if errors.Is(err, context.Canceled) {
		return m, nil
	}
	m.log.Debug("showing error", zap.Error(err))
	m.lastError = err
	m.errorExpiry = time.Now().Add(errorDuration)
	expiry := m.errorExpiry
	return m, tea.Tick(errorDuration, func(time.Time) tea.Msg { return clearErrorMsg{at: expiry} })
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.sub.Close()
	return m, tea.Quit
}

func (m Model) openSearch(cmds ...tea.Cmd) (tea.Model, tea.Cmd) {
	m.showSearch = true
	m.searchInput.SetValue("")
	m.searchInput.Focus()
	return m, tea.Batch(append(cmds, textinput.Blink)...)
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	if m.showHelp {
		switch msg.String() {
		case "?", "esc", "q":
			m.showHelp = false
		}
		return m, nil
	}

	if m.showSearch {
		return m.handleSearchKeyPress(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.Search):
		return m.openSearch()
	case key.Matches(msg, m.keys.Up):
		return m, m.do(m.ctrl.ScrollBackward)
	case key.Matches(msg, m.keys.Down):
		return m, m.do(m.ctrl.ScrollForward)
	case key.Matches(msg, m.keys.Center):
		return m, m.do(m.ctrl.Center)
	case key.Matches(msg, m.keys.Menu):
		m.ctrl.Menu()
		return m, nil
	case key.Matches(msg, m.keys.Next):
		return m, m.do(m.ctrl.Next)
	case key.Matches(msg, m.keys.Previous):
		return m, m.do(m.ctrl.Previous)
	case key.Matches(msg, m.keys.PlayPause):
		return m, m.do(m.ctrl.PlayPause)
	}
	return m, nil
}

func (m Model) handleSearchKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.showSearch = false
		m.searchInput.Blur()
		return m, nil

	case "enter":
		query := strings.TrimSpace(m.searchInput.Value())
		m.showSearch = false
		m.searchInput.Blur()
		if query == "" {
			return m, nil
		}
		return m, m.do(func(ctx context.Context) error {
			return m.ctrl.Search(ctx, query)
		})
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// wheelOrigin returns the top-left cell of the wheel in the rendered view.
func (m Model) wheelOrigin() (x, y int) {
	w, _ := m.wheelView.Size()
	// frame border and padding, then the screen block and a spacer row
	x = 2 + (innerWidth-w)/2
	y = 1 + screenRows + 4 + 1
	return x, y
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.mouse || m.showHelp || m.showSearch {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if msg.Action == tea.MouseActionPress {
			return m, m.do(m.ctrl.ScrollBackward)
		}
		return m, nil
	case tea.MouseButtonWheelDown:
		if msg.Action == tea.MouseActionPress {
			return m, m.do(m.ctrl.ScrollForward)
		}
		return m, nil
	}

	x0, y0 := m.wheelOrigin()
	m.gesture.Geometry = m.wheelView.Geometry(x0, y0)
	x, y := float64(msg.X), float64(msg.Y)

	var ev wheel.Event
	var ok bool
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.gesture.Press(x, y)
		}
		return m, nil
	case tea.MouseActionMotion:
		ev, ok = m.gesture.Drag(x, y)
	case tea.MouseActionRelease:
		ev, ok = m.gesture.Release(x, y)
	}
	if !ok {
		return m, nil
	}
	return m.applyWheelEvent(ev)
}

func (m Model) applyWheelEvent(ev wheel.Event) (tea.Model, tea.Cmd) {
	switch ev.Kind {
	case wheel.EventRotate:
		if ev.Direction == wheel.Clockwise {
			return m, m.do(m.ctrl.ScrollForward)
		}
		return m, m.do(m.ctrl.ScrollBackward)
	case wheel.EventPress:
		switch ev.Zone {
		case wheel.Center:
			return m, m.do(m.ctrl.Center)
		case wheel.Menu:
			m.ctrl.Menu()
			return m, nil
		case wheel.Next:
			return m, m.do(m.ctrl.Next)
		case wheel.Previous:
			return m, m.do(m.ctrl.Previous)
		case wheel.PlayPause:
			return m, m.do(m.ctrl.PlayPause)
		}
	}
	return m, nil
}

func (m Model) stylesFor(t theme.Theme) styles.Styles {
	if st, ok := m.styleCache[t.Key]; ok {
		return st
	}
	st := styles.New(t)
	m.styleCache[t.Key] = st
	return st
}

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	snap := m.ctrl.Snapshot()
	st := m.stylesFor(snap.Theme)

	if m.showHelp {
		return m.renderHelp(st)
	}

	device := st.Frame.Width(innerWidth + 2).Render(lipgloss.JoinVertical(lipgloss.Left,
		m.renderScreen(st, snap),
		"",
		m.renderWheel(st),
	))

	return lipgloss.JoinVertical(lipgloss.Left, device, m.renderStatusBar(st))
}

func (m Model) renderScreen(st styles.Styles, snap screen.Snapshot) string {
	width := innerWidth - 2
	title := components.TitleBar(st, snap.Title, snap.State.IsPlaying, snap.Loading, width)

	var body string
	switch {
	case m.showSearch:
		body = m.renderSearch(st, width)
	case snap.Mode == screen.ModeNowPlaying:
		body = m.nowPlaying.Render(st, snap.State, width, screenRows)
	default:
		body = m.menuView.Render(st, snap.Level, width, screenRows)
	}

	return st.Screen.Width(width).Render(title + "\n" + body)
}

func (m Model) renderSearch(st styles.Styles, width int) string {
	lines := []string{
		st.Title.Render("Search"),
		"",
		m.searchInput.View(),
		"",
		st.Muted.Render("enter: search  esc: cancel"),
	}
	return st.Item.Width(width).Height(screenRows).Render(strings.Join(lines, "\n"))
}

func (m Model) renderWheel(st styles.Styles) string {
	w, _ := m.wheelView.Size()
	pad := strings.Repeat(" ", (innerWidth-w)/2)
	lines := strings.Split(m.wheelView.Render(st), "\n")
	for i := range lines {
		lines[i] = pad + lines[i]
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderStatusBar(st styles.Styles) string {
	if m.lastError != nil && time.Now().Before(m.errorExpiry) {
		return st.Err.Render("Error: " + m.lastError.Error())
	}
	return m.help.View(m.keys)
}

func (m Model) renderHelp(st styles.Styles) string {
	width := m.width - 8
	if width > 72 {
		width = 72
	}
	content := components.RenderHelp(width) + st.Dim.Render("Press ? or esc to close")
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(st.Overlay.Render(content))
}

// Run starts the TUI and blocks until the user quits. The player is not
// closed.
func Run(ctx context.Context, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := New(ctx, opts)

	if opts.Watch && opts.ConfigPath != "" {
		go func() {
			err := config.Watch(ctx, opts.ConfigPath, model.log, func(cfg *config.Config) {
				select {
				case model.msgs <- themeReloadedMsg{key: cfg.TUI.Theme}:
				default:
				}
			})
			if err != nil {
				model.log.Warn("config watch stopped", zap.Error(err))
			}
		}()
	}

	progOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if opts.Mouse {
		progOpts = append(progOpts, tea.WithMouseCellMotion())
	}

	final, err := tea.NewProgram(model, progOpts...).Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	if fm, ok := final.(Model); ok && fm.quitMessage != "" {
		fmt.Println(fm.quitMessage)
	}
	return nil
}
