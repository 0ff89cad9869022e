// Package screen is the click-wheel screen controller. It owns the view
// mode and the menu stack, and keeps a copy of the player state for the
// now-playing view.
package screen

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/tessro/clickwheel/internal/core"
	"github.com/tessro/clickwheel/internal/history"
	"github.com/tessro/clickwheel/internal/menu"
	"github.com/tessro/clickwheel/internal/theme"
)

// ErrNoResults is returned by Search when nothing matches.
var ErrNoResults = errors.New("no results")

// Mode is what the screen is showing.
type Mode int

const (
	ModeMenu Mode = iota
	ModeNowPlaying
)

func (m Mode) String() string {
	if m == ModeNowPlaying {
		return "now-playing"
	}
	return "menu"
}

// Titles shown in the title bar.
const (
	RootTitle       = "iPod"
	NowPlayingTitle = "Now Playing"
	SearchTitle     = "Search"
)

// Level IDs with items that depend on controller state.
const (
	levelRoot     = "root"
	levelSettings = "settings"
	levelColors   = "colors"
	levelSearch   = "search"
)

const (
	volumeStep          = 5
	defaultHistoryLimit = 25
	checkMark           = " ✓"
)

// History is the play history backing the Recently Played and Most Played
// menus.
type History interface {
	Recent(ctx context.Context, limit int) ([]history.Entry, error)
	MostPlayed(ctx context.Context, limit int) ([]history.Entry, error)
}

// Options configures a Controller.
type Options struct {
	Catalog core.Catalog
	Player  core.Player
	// History is optional. Without it the history menus are hidden.
	History      History
	HistoryLimit int
	Theme        string
	Logger       *zap.Logger

	// Hooks run outside the controller lock.
	OnTheme  func(theme.Theme)
	OnLogout func()
	OnSearch func()
}

// Snapshot is an immutable view of the controller for rendering.
type Snapshot struct {
	Mode    Mode
	Title   string
	Level   menu.Level
	State   core.PlaybackState
	Loading bool
	Theme   theme.Theme
	Depth   int
}

// Controller handles click-wheel input. It is safe for concurrent use.
type Controller struct {
	catalog      core.Catalog
	player       core.Player
	history      History
	historyLimit int
	log          *zap.Logger

	onTheme  func(theme.Theme)
	onLogout func()
	onSearch func()

	mu      sync.Mutex
	stack   *menu.Stack
	mode    Mode
	state   core.PlaybackState
	theme   theme.Theme
	loading int
	gen     uint64
}

// New creates a controller showing the root menu.
func New(opts Options) *Controller {
	c := &Controller{
		catalog:      opts.Catalog,
		player:       opts.Player,
		history:      opts.History,
		historyLimit: opts.HistoryLimit,
		log:          opts.Logger,
		onTheme:      opts.OnTheme,
		onLogout:     opts.OnLogout,
		onSearch:     opts.OnSearch,
		theme:        theme.Get(opts.Theme),
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	if c.historyLimit <= 0 {
		c.historyLimit = defaultHistoryLimit
	}
	if c.player != nil {
		c.state = c.player.State()
	}
	c.stack = menu.NewStack(menu.NewLevel(levelRoot, RootTitle, c.rootItems()))
	return c
}

func (c *Controller) rootItems() []menu.Item {
	items := []menu.Item{
		{ID: "playlists", Label: "Playlists", Kind: menu.KindMenu, Source: menu.SourcePlaylists},
		{ID: "top-tracks", Label: "Top Tracks", Kind: menu.KindMenu, Source: menu.SourceTopTracks},
		{ID: "top-artists", Label: "Top Artists", Kind: menu.KindMenu, Source: menu.SourceTopArtists},
	}
	if c.history != nil {
		items = append(items,
			menu.Item{ID: "recently-played", Label: "Recently Played", Kind: menu.KindMenu, Source: menu.SourceRecent},
			menu.Item{ID: "most-played", Label: "Most Played", Kind: menu.KindMenu, Source: menu.SourceMostPlayed},
		)
	}
	return append(items,
		menu.Item{ID: levelSearch, Label: SearchTitle, Kind: menu.KindMenu, Source: menu.SourceSearch},
		menu.Item{ID: "now-playing", Label: NowPlayingTitle, Kind: menu.KindAction, Action: menu.ActionNowPlaying},
		menu.Item{ID: levelSettings, Label: "Settings", Kind: menu.KindMenu, Children: c.settingsItems()},
	)
}

func (c *Controller) settingsItems() []menu.Item {
	logout := "Logout"
	if c.catalog != nil && c.catalog.Kind() == core.CatalogDemo {
		logout = "Exit Demo"
	}
	return []menu.Item{
		{ID: levelColors, Label: "Colors", Kind: menu.KindMenu, Children: c.themeItems()},
		{ID: "logout", Label: logout, Kind: menu.KindAction, Action: menu.ActionLogout},
	}
}

func (c *Controller) themeItems() []menu.Item {
	items := make([]menu.Item, len(theme.All))
	for i, t := range theme.All {
		label := t.Name
		if t.Key == c.theme.Key {
			label += checkMark
		}
		items[i] = menu.Item{
			ID:     "theme:" + t.Key,
			Label:  label,
			Kind:   menu.KindAction,
			Action: menu.ActionTheme,
			Value:  t.Key,
		}
	}
	return items
}

// relabel rebuilds the levels whose labels depend on the theme. The caller
// holds c.mu.
func (c *Controller) relabel() {
	c.stack.Replace(levelRoot, c.rootItems())
	c.stack.Replace(levelSettings, c.settingsItems())
	c.stack.Replace(levelColors, c.themeItems())
}

// Center presses the center button on the selected item.
func (c *Controller) Center(ctx context.Context) error {
	c.mu.Lock()
	if c.mode != ModeMenu {
		c.mu.Unlock()
		return nil
	}
	item, ok := c.stack.SelectedItem()
	if !ok {
		c.mu.Unlock()
		return nil
	}

	switch item.Kind {
	case menu.KindAction:
		return c.action(ctx, item)

	case menu.KindTrack:
		level := c.stack.Current()
		tracks := menu.Tracks(level)
		start := menu.TrackIndex(level, level.Selected)
		c.mu.Unlock()
		return c.playTracks(ctx, tracks, start)

	case menu.KindPlaylist:
		c.mu.Unlock()
		return c.load(ctx, "playlist:"+item.ID, item.Label, func(ctx context.Context) ([]menu.Item, error) {
			tracks, err := c.catalog.PlaylistTracks(ctx, item.ID)
			return menu.TrackItems(tracks), err
		})

	case menu.KindArtist:
		c.mu.Unlock()
		return c.load(ctx, "artist:"+item.ID, item.Label, func(ctx context.Context) ([]menu.Item, error) {
			tracks, err := c.catalog.ArtistTracks(ctx, item.ID)
			return menu.TrackItems(tracks), err
		})

	case menu.KindMenu:
		if item.Source == menu.SourceSearch {
			c.mu.Unlock()
			if c.onSearch != nil {
				c.onSearch()
			}
			return nil
		}
		if item.Source != "" {
			c.mu.Unlock()
			return c.load(ctx, item.ID, item.Label, c.sourceLoader(item.Source))
		}
		defer c.mu.Unlock()
		if len(item.Children) > 0 {
			if err := c.stack.Push(menu.NewLevel(item.ID, item.Label, item.Children)); err == nil {
				c.gen++
			}
		}
		return nil
	}

	c.mu.Unlock()
	return nil
}

// action handles an action item. It is called with c.mu held and releases
// it.
func (c *Controller) action(ctx context.Context, item menu.Item) error {
	switch item.Action {
	case menu.ActionNowPlaying:
		defer c.mu.Unlock()
		if c.player != nil {
			c.state = c.player.State()
		}
		if c.state.Track != nil {
			c.mode = ModeNowPlaying
			c.gen++
		}
		return nil

	case menu.ActionTheme:
		t, ok := theme.Lookup(item.Value)
		if !ok {
			c.mu.Unlock()
			return nil
		}
		c.theme = t
		c.relabel()
		c.mu.Unlock()
		if c.onTheme != nil {
			c.onTheme(t)
		}
		return nil

	case menu.ActionLogout:
		c.mu.Unlock()
		if err := c.catalog.Logout(ctx); err != nil {
			c.log.Error("logout failed", zap.Error(err))
			return err
		}
		if c.onLogout != nil {
			c.onLogout()
		}
		return nil
	}

	c.mu.Unlock()
	return nil
}

func (c *Controller) sourceLoader(src menu.Source) func(context.Context) ([]menu.Item, error) {
	return func(ctx context.Context) ([]menu.Item, error) {
		switch src {
		case menu.SourcePlaylists:
			playlists, err := c.catalog.Playlists(ctx)
			return menu.PlaylistItems(playlists), err
		case menu.SourceTopTracks:
			tracks, err := c.catalog.TopTracks(ctx)
			return menu.TrackItems(tracks), err
		case menu.SourceTopArtists:
			artists, err := c.catalog.TopArtists(ctx)
			return menu.ArtistItems(artists), err
		case menu.SourceRecent:
			entries, err := c.history.Recent(ctx, c.historyLimit)
			return menu.TrackItems(history.Tracks(entries)), err
		case menu.SourceMostPlayed:
			entries, err := c.history.MostPlayed(ctx, c.historyLimit)
			return menu.TrackItems(history.Tracks(entries)), err
		}
		return nil, nil
	}
}

// load runs fetch without holding the lock and pushes the result as a new
// level, showing the menu. Results for a navigation the user has since left
// are dropped.
func (c *Controller) load(ctx context.Context, id, title string, fetch func(context.Context) ([]menu.Item, error)) error {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.loading++
	c.mu.Unlock()

	items, err := fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading--

	if err != nil {
		c.log.Warn("failed to load menu", zap.String("level", id), zap.Error(err))
		return err
	}
	if gen != c.gen {
		c.log.Debug("discarding stale load", zap.String("level", id))
		return nil
	}
	if len(items) == 0 {
		return nil
	}
	if err := c.stack.Push(menu.NewLevel(id, title, items)); err != nil {
		return err
	}
	c.mode = ModeMenu
	c.gen++
	return nil
}

func (c *Controller) playTracks(ctx context.Context, tracks []core.Track, start int) error {
	if len(tracks) == 0 || start < 0 {
		return nil
	}
	if err := c.player.SetQueue(ctx, tracks, start); err != nil {
		return err
	}
	if err := c.player.Play(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = c.player.State()
	c.mode = ModeNowPlaying
	c.gen++
	return nil
}

// Search pushes a level with the tracks matching query. An empty query
// does nothing.
func (c *Controller) Search(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	empty := false
	err := c.load(ctx, levelSearch, SearchTitle, func(ctx context.Context) ([]menu.Item, error) {
		tracks, err := c.catalog.SearchTracks(ctx, query)
		empty = err == nil && len(tracks) == 0
		return menu.TrackItems(tracks), err
	})
	if err != nil {
		return err
	}
	if empty {
		return ErrNoResults
	}
	return nil
}

// Menu presses the MENU button: leave now-playing, otherwise go up a level.
func (c *Controller) Menu() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == ModeNowPlaying {
		c.mode = ModeMenu
		c.gen++
		return
	}
	if c.stack.Pop() {
		c.gen++
	}
}

// ScrollForward handles a clockwise wheel step.
func (c *Controller) ScrollForward(ctx context.Context) error {
	return c.scroll(ctx, 1)
}

// ScrollBackward handles a counter-clockwise wheel step.
func (c *Controller) ScrollBackward(ctx context.Context) error {
	return c.scroll(ctx, -1)
}

func (c *Controller) scroll(ctx context.Context, dir int) error {
	c.mu.Lock()
	if c.mode == ModeMenu {
		c.stack.MoveBy(dir)
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	if err := c.player.AdjustVolume(ctx, dir*volumeStep); err != nil {
		return err
	}
	c.sync()
	return nil
}

// Next presses the NEXT button.
func (c *Controller) Next(ctx context.Context) error {
	return c.skip(ctx, 1)
}

// Previous presses the PREVIOUS button.
func (c *Controller) Previous(ctx context.Context) error {
	return c.skip(ctx, -1)
}

func (c *Controller) skip(ctx context.Context, dir int) error {
	c.mu.Lock()
	if c.mode == ModeMenu {
		c.stack.MoveBy(dir)
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	var err error
	if dir > 0 {
		err = c.player.Next(ctx)
	} else {
		err = c.player.Previous(ctx)
	}
	if err != nil {
		return err
	}
	c.sync()
	return nil
}

// PlayPause toggles playback in either mode.
func (c *Controller) PlayPause(ctx context.Context) error {
	if c.player == nil {
		return nil
	}
	if err := c.player.PlayPause(ctx); err != nil {
		return err
	}
	c.sync()
	return nil
}

func (c *Controller) sync() {
	st := c.player.State()
	c.mu.Lock()
	c.state = st
	c.mu.Unlock()
}

// Apply copies a player event's state into the now-playing view. Losing
// the track while in now-playing returns to the menu.
func (c *Controller) Apply(ev core.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = ev.State
	if c.mode == ModeNowPlaying && ev.State.Track == nil {
		c.mode = ModeMenu
	}
}

// SetTheme changes the theme without running the OnTheme hook, for changes
// that did not come from the menu.
func (c *Controller) SetTheme(key string) bool {
	t, ok := theme.Lookup(key)
	if !ok {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.Key == c.theme.Key {
		return false
	}
	c.theme = t
	c.relabel()
	return true
}

// Loading reports whether a menu load is in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading > 0
}

// Mode returns the current view mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Snapshot returns a copy of everything the view needs.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	level := c.stack.Current()
	title := level.Title
	switch {
	case c.mode == ModeNowPlaying:
		title = NowPlayingTitle
	case c.stack.Depth() == 1:
		title = RootTitle
	}

	return Snapshot{
		Mode:    c.mode,
		Title:   title,
		Level:   level,
		State:   c.state,
		Loading: c.loading > 0,
		Theme:   c.theme,
		Depth:   c.stack.Depth(),
	}
}
