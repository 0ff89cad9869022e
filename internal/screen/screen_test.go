package screen

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tessro/clickwheel/internal/catalog/demo"
	"github.com/tessro/clickwheel/internal/core"
	"github.com/tessro/clickwheel/internal/history"
	"github.com/tessro/clickwheel/internal/menu"
	"github.com/tessro/clickwheel/internal/player"
	"github.com/tessro/clickwheel/internal/theme"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// Root indexes without history.
const (
	idxPlaylists = iota
	idxTopTracks
	idxTopArtists
	idxSearch
	idxNowPlaying
	idxSettings
)

func newTestPlayer(t *testing.T) *player.Player {
	t.Helper()
	p := player.New(player.Options{TickInterval: time.Hour})
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func newTestController(t *testing.T, opts Options) (*Controller, *player.Player) {
	t.Helper()
	p := newTestPlayer(t)
	if opts.Catalog == nil {
		opts.Catalog = demo.New(0)
	}
	opts.Player = p
	return New(opts), p
}

func labels(l menu.Level) []string {
	out := make([]string, len(l.Items))
	for i, it := range l.Items {
		out[i] = it.Label
	}
	return out
}

func selectIndex(t *testing.T, c *Controller, i int) {
	t.Helper()
	c.mu.Lock()
	c.stack.SetSelected(i)
	c.mu.Unlock()
	require.Equal(t, i, c.Snapshot().Level.Selected)
}

type fakeHistory struct {
	recent []history.Entry
	most   []history.Entry
}

func (f *fakeHistory) Recent(context.Context, int) ([]history.Entry, error) { return f.recent, nil }
func (f *fakeHistory) MostPlayed(context.Context, int) ([]history.Entry, error) {
	return f.most, nil
}

// stubCatalog overrides parts of the demo catalog.
type stubCatalog struct {
	core.Catalog
	playlistsErr error
	release      chan struct{}
}

func (s *stubCatalog) Playlists(ctx context.Context) ([]core.Playlist, error) {
	if s.playlistsErr != nil {
		return nil, s.playlistsErr
	}
	return s.Catalog.Playlists(ctx)
}

func (s *stubCatalog) TopTracks(ctx context.Context) ([]core.Track, error) {
	if s.release != nil {
		<-s.release
	}
	return s.Catalog.TopTracks(ctx)
}

func TestRootMenu(t *testing.T) {
	c, _ := newTestController(t, Options{})
	snap := c.Snapshot()

	assert.Equal(t, ModeMenu, snap.Mode)
	assert.Equal(t, RootTitle, snap.Title)
	assert.Equal(t, 1, snap.Depth)
	assert.Equal(t, 0, snap.Level.Selected)
	assert.Equal(t, []string{"Playlists", "Top Tracks", "Top Artists", "Search", "Now Playing", "Settings"}, labels(snap.Level))
	assert.Equal(t, theme.Default().Key, snap.Theme.Key)
}

func TestRootMenuWithHistory(t *testing.T) {
	c, _ := newTestController(t, Options{History: &fakeHistory{}})
	assert.Equal(t, []string{
		"Playlists", "Top Tracks", "Top Artists", "Recently Played", "Most Played",
		"Search", "Now Playing", "Settings",
	}, labels(c.Snapshot().Level))
}

func TestBrowsePlaylistAndPlay(t *testing.T) {
	c, p := newTestController(t, Options{})
	ctx := context.Background()

	require.NoError(t, c.Center(ctx))
	snap := c.Snapshot()
	assert.Equal(t, "Playlists", snap.Title)
	assert.Equal(t, 2, snap.Depth)
	assert.Equal(t, []string{"Classic Rock Hits", "Throwback Jams", "Road Trip Mix"}, labels(snap.Level))

	require.NoError(t, c.Center(ctx))
	snap = c.Snapshot()
	assert.Equal(t, "Classic Rock Hits", snap.Title)
	require.Len(t, snap.Level.Items, 5)
	assert.Equal(t, "Bohemian Rhapsody - Queen", snap.Level.Items[0].Label)

	require.NoError(t, c.Next(ctx))
	require.NoError(t, c.Next(ctx))
	require.NoError(t, c.Center(ctx))

	snap = c.Snapshot()
	assert.Equal(t, ModeNowPlaying, snap.Mode)
	assert.Equal(t, NowPlayingTitle, snap.Title)
	require.NotNil(t, snap.State.Track)
	assert.Equal(t, "Hotel California", snap.State.Track.Title)
	assert.True(t, snap.State.IsPlaying)

	q := p.Queue()
	assert.Equal(t, 5, q.Len())
	assert.Equal(t, 2, q.CurrentIndex)
}

func TestMenuLeavesNowPlayingThenPops(t *testing.T) {
	c, _ := newTestController(t, Options{})
	ctx := context.Background()

	selectIndex(t, c, idxTopTracks)
	require.NoError(t, c.Center(ctx))
	selectIndex(t, c, 3)
	require.NoError(t, c.Center(ctx))
	require.Equal(t, ModeNowPlaying, c.Mode())

	c.Menu()
	snap := c.Snapshot()
	assert.Equal(t, ModeMenu, snap.Mode)
	assert.Equal(t, "Top Tracks", snap.Title)
	assert.Equal(t, 3, snap.Level.Selected)

	c.Menu()
	snap = c.Snapshot()
	assert.Equal(t, 1, snap.Depth)
	assert.Equal(t, idxTopTracks, snap.Level.Selected, "parent selection is restored")

	c.Menu()
	assert.Equal(t, 1, c.Snapshot().Depth, "root can not be popped")
}

func TestScrollClampsInMenu(t *testing.T) {
	c, _ := newTestController(t, Options{})
	ctx := context.Background()

	require.NoError(t, c.ScrollBackward(ctx))
	assert.Equal(t, 0, c.Snapshot().Level.Selected)

	for i := 0; i < 20; i++ {
		require.NoError(t, c.ScrollForward(ctx))
	}
	assert.Equal(t, idxSettings, c.Snapshot().Level.Selected)

	require.NoError(t, c.Previous(ctx))
	assert.Equal(t, idxNowPlaying, c.Snapshot().Level.Selected)
}

func TestNowPlayingControls(t *testing.T) {
	c, p := newTestController(t, Options{})
	ctx := context.Background()

	selectIndex(t, c, idxTopTracks)
	require.NoError(t, c.Center(ctx))
	require.NoError(t, c.Center(ctx))
	require.Equal(t, ModeNowPlaying, c.Mode())

	require.NoError(t, c.ScrollForward(ctx))
	assert.Equal(t, player.DefaultVolume+5, p.State().Volume)
	assert.Equal(t, player.DefaultVolume+5, c.Snapshot().State.Volume)
	require.NoError(t, c.ScrollBackward(ctx))
	require.NoError(t, c.ScrollBackward(ctx))
	assert.Equal(t, player.DefaultVolume-5, p.State().Volume)

	require.NoError(t, c.Next(ctx))
	assert.Equal(t, "Stairway to Heaven", c.Snapshot().State.Track.Title)
	require.NoError(t, c.Previous(ctx))
	assert.Equal(t, "Bohemian Rhapsody", c.Snapshot().State.Track.Title)

	require.NoError(t, c.PlayPause(ctx))
	assert.False(t, c.Snapshot().State.IsPlaying)
	require.NoError(t, c.PlayPause(ctx))
	assert.True(t, c.Snapshot().State.IsPlaying)

	// The menu selection is untouched by now-playing controls.
	c.Menu()
	assert.Equal(t, 0, c.Snapshot().Level.Selected)
}

func TestNowPlayingActionNeedsTrack(t *testing.T) {
	c, p := newTestController(t, Options{})
	ctx := context.Background()

	selectIndex(t, c, idxNowPlaying)
	require.NoError(t, c.Center(ctx))
	assert.Equal(t, ModeMenu, c.Mode())

	top, err := demo.New(0).TopTracks(ctx)
	require.NoError(t, err)
	require.NoError(t, p.SetQueue(ctx, top, 0))

	require.NoError(t, c.Center(ctx))
	assert.Equal(t, ModeNowPlaying, c.Mode())
}

func TestThemeSelection(t *testing.T) {
	var mu sync.Mutex
	var applied []string
	c, _ := newTestController(t, Options{
		OnTheme: func(th theme.Theme) {
			mu.Lock()
			defer mu.Unlock()
			applied = append(applied, th.Key)
		},
	})
	ctx := context.Background()

	selectIndex(t, c, idxSettings)
	require.NoError(t, c.Center(ctx))
	assert.Equal(t, []string{"Colors", "Exit Demo"}, labels(c.Snapshot().Level))

	require.NoError(t, c.Center(ctx))
	snap := c.Snapshot()
	assert.Equal(t, "Colors", snap.Title)
	assert.Equal(t, "Classic White ✓", snap.Level.Items[0].Label)

	selectIndex(t, c, 2)
	require.NoError(t, c.Center(ctx))

	snap = c.Snapshot()
	assert.Equal(t, "pink", snap.Theme.Key)
	assert.Equal(t, "Classic White", snap.Level.Items[0].Label)
	assert.Equal(t, "Pink ✓", snap.Level.Items[2].Label)
	assert.Equal(t, 2, snap.Level.Selected)

	mu.Lock()
	assert.Equal(t, []string{"pink"}, applied)
	mu.Unlock()

	// Re-entering the submenu shows the new check mark.
	c.Menu()
	require.NoError(t, c.Center(ctx))
	assert.Equal(t, "Pink ✓", c.Snapshot().Level.Items[2].Label)
}

func TestSetThemeRelabelsWithoutHook(t *testing.T) {
	called := false
	c, _ := newTestController(t, Options{Theme: "blue", OnTheme: func(theme.Theme) { called = true }})
	assert.Equal(t, "blue", c.Snapshot().Theme.Key)

	assert.False(t, c.SetTheme("blue"))
	assert.False(t, c.SetTheme("nope"))
	assert.True(t, c.SetTheme("red"))
	assert.Equal(t, "red", c.Snapshot().Theme.Key)
	assert.False(t, called)

	selectIndex(t, c, idxSettings)
	require.NoError(t, c.Center(context.Background()))
	require.NoError(t, c.Center(context.Background()))
	assert.Contains(t, labels(c.Snapshot().Level), "Product RED ✓")
}

func TestLogout(t *testing.T) {
	loggedOut := make(chan struct{})
	c, _ := newTestController(t, Options{OnLogout: func() { close(loggedOut) }})
	ctx := context.Background()

	selectIndex(t, c, idxSettings)
	require.NoError(t, c.Center(ctx))
	selectIndex(t, c, 1)
	require.NoError(t, c.Center(ctx))

	select {
	case <-loggedOut:
	default:
		t.Fatal("logout hook not called")
	}
}

func TestSearch(t *testing.T) {
	c, _ := newTestController(t, Options{})
	ctx := context.Background()

	require.NoError(t, c.Search(ctx, "   "))
	assert.Equal(t, 1, c.Snapshot().Depth)

	require.NoError(t, c.Search(ctx, "queen"))
	snap := c.Snapshot()
	assert.Equal(t, SearchTitle, snap.Title)
	assert.Equal(t, []string{"Bohemian Rhapsody - Queen"}, labels(snap.Level))

	err := c.Search(ctx, "zzzzzzzzzz")
	assert.ErrorIs(t, err, ErrNoResults)
	assert.Equal(t, 2, c.Snapshot().Depth)
}

func TestSearchFromNowPlayingShowsResults(t *testing.T) {
	c, _ := newTestController(t, Options{})
	ctx := context.Background()

	selectIndex(t, c, idxTopTracks)
	require.NoError(t, c.Center(ctx))
	require.NoError(t, c.Center(ctx))
	require.Equal(t, ModeNowPlaying, c.Mode())

	require.NoError(t, c.Search(ctx, "queen"))
	snap := c.Snapshot()
	assert.Equal(t, ModeMenu, snap.Mode)
	assert.Equal(t, SearchTitle, snap.Title)
	assert.Equal(t, 3, snap.Depth)

	// A miss leaves now-playing alone.
	c.mu.Lock()
	c.mode = ModeNowPlaying
	c.mu.Unlock()
	assert.ErrorIs(t, c.Search(ctx, "zzzzzzzzzz"), ErrNoResults)
	assert.Equal(t, ModeNowPlaying, c.Mode())
}

// slowStatePlayer widens the gap between reading and writing player state.
type slowStatePlayer struct {
	*player.Player
}

func (s slowStatePlayer) State() core.PlaybackState {
	time.Sleep(20 * time.Millisecond)
	return s.Player.State()
}

func TestConcurrentScrollKeepsEveryVolumeStep(t *testing.T) {
	p := newTestPlayer(t)
	c := New(Options{Catalog: demo.New(0), Player: slowStatePlayer{p}})
	ctx := context.Background()

	selectIndex(t, c, idxTopTracks)
	require.NoError(t, c.Center(ctx))
	require.NoError(t, c.Center(ctx))
	require.Equal(t, ModeNowPlaying, c.Mode())

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, c.ScrollForward(ctx))
		}()
	}
	wg.Wait()
	assert.Equal(t, player.DefaultVolume+20, p.State().Volume)
}

func TestSearchItemRunsHook(t *testing.T) {
	opened := false
	c, _ := newTestController(t, Options{OnSearch: func() { opened = true }})

	selectIndex(t, c, idxSearch)
	require.NoError(t, c.Center(context.Background()))
	assert.True(t, opened)
	assert.Equal(t, 1, c.Snapshot().Depth)
}

func TestArtistTracks(t *testing.T) {
	c, _ := newTestController(t, Options{})
	ctx := context.Background()

	selectIndex(t, c, idxTopArtists)
	require.NoError(t, c.Center(ctx))
	assert.Equal(t, []string{"Queen", "Led Zeppelin", "Eagles"}, labels(c.Snapshot().Level))

	selectIndex(t, c, 2)
	require.NoError(t, c.Center(ctx))
	snap := c.Snapshot()
	assert.Equal(t, "Eagles", snap.Title)
	assert.Equal(t, []string{"Hotel California - Eagles"}, labels(snap.Level))
}

func TestHistoryMenus(t *testing.T) {
	top, err := demo.New(0).TopTracks(context.Background())
	require.NoError(t, err)
	h := &fakeHistory{
		recent: []history.Entry{{Track: top[3]}, {Track: top[0]}},
		most:   []history.Entry{{Track: top[1], Plays: 4}},
	}
	c, _ := newTestController(t, Options{History: h})
	ctx := context.Background()

	selectIndex(t, c, 3)
	require.NoError(t, c.Center(ctx))
	snap := c.Snapshot()
	assert.Equal(t, "Recently Played", snap.Title)
	assert.Equal(t, []string{"Imagine - John Lennon", "Bohemian Rhapsody - Queen"}, labels(snap.Level))

	c.Menu()
	selectIndex(t, c, 4)
	require.NoError(t, c.Center(ctx))
	assert.Equal(t, []string{"Stairway to Heaven - Led Zeppelin"}, labels(c.Snapshot().Level))
}

func TestEmptyHistoryDoesNotPush(t *testing.T) {
	c, _ := newTestController(t, Options{History: &fakeHistory{}})

	selectIndex(t, c, 3)
	require.NoError(t, c.Center(context.Background()))
	assert.Equal(t, 1, c.Snapshot().Depth)
}

func TestLoadErrorKeepsStack(t *testing.T) {
	boom := errors.New("boom")
	c, _ := newTestController(t, Options{Catalog: &stubCatalog{Catalog: demo.New(0), playlistsErr: boom}})

	err := c.Center(context.Background())
	assert.ErrorIs(t, err, boom)
	snap := c.Snapshot()
	assert.Equal(t, 1, snap.Depth)
	assert.False(t, snap.Loading)
}

func TestStaleLoadIsDiscarded(t *testing.T) {
	stub := &stubCatalog{Catalog: demo.New(0), release: make(chan struct{})}
	c, _ := newTestController(t, Options{Catalog: stub})
	ctx := context.Background()

	selectIndex(t, c, idxTopTracks)
	errc := make(chan error, 1)
	go func() { errc <- c.Center(ctx) }()

	require.Eventually(t, c.Loading, time.Second, 5*time.Millisecond)

	// Navigate elsewhere while the load is in flight.
	selectIndex(t, c, idxSettings)
	require.NoError(t, c.Center(ctx))

	close(stub.release)
	require.NoError(t, <-errc)

	snap := c.Snapshot()
	assert.False(t, snap.Loading)
	assert.Equal(t, 2, snap.Depth)
	assert.Equal(t, "Settings", snap.Title)
}

func TestApply(t *testing.T) {
	c, _ := newTestController(t, Options{})
	tr := core.Track{ID: "x", URI: "demo:track:x", Title: "X"}

	c.Apply(core.Event{Type: core.EventTrack, State: core.PlaybackState{Track: &tr, Volume: 70}})
	snap := c.Snapshot()
	require.NotNil(t, snap.State.Track)
	assert.Equal(t, "X", snap.State.Track.Title)
	assert.Equal(t, 70, snap.State.Volume)

	selectIndex(t, c, idxNowPlaying)
	c.mu.Lock()
	c.mode = ModeNowPlaying
	c.mu.Unlock()

	c.Apply(core.Event{Type: core.EventTrack, State: core.PlaybackState{}})
	assert.Equal(t, ModeMenu, c.Mode())
}

func TestCenterInNowPlayingIsNoop(t *testing.T) {
	c, _ := newTestController(t, Options{})
	ctx := context.Background()

	selectIndex(t, c, idxTopTracks)
	require.NoError(t, c.Center(ctx))
	require.NoError(t, c.Center(ctx))
	depth := c.Snapshot().Depth

	require.NoError(t, c.Center(ctx))
	assert.Equal(t, ModeNowPlaying, c.Mode())
	assert.Equal(t, depth, c.Snapshot().Depth)
}
