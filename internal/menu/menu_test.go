package menu

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessro/clickwheel/internal/core"
)

func items(n int) []Item {
	out := make([]Item, n)
	for i := range out {
		out[i] = Item{ID: fmt.Sprint(i), Label: fmt.Sprintf("Item %d", i), Kind: KindAction}
	}
	return out
}

func TestNavigable(t *testing.T) {
	tests := []struct {
		name string
		item Item
		want bool
	}{
		{"menu with children", Item{Kind: KindMenu, Children: items(1)}, true},
		{"menu with source", Item{Kind: KindMenu, Source: SourcePlaylists}, true},
		{"empty menu", Item{Kind: KindMenu}, false},
		{"playlist", Item{Kind: KindPlaylist}, true},
		{"artist", Item{Kind: KindArtist}, true},
		{"track", Item{Kind: KindTrack}, false},
		{"action", Item{Kind: KindAction, Action: ActionNowPlaying}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.item.Navigable())
		})
	}
}

func TestSelectionIsClampedWithoutWrap(t *testing.T) {
	s := NewStack(NewLevel("root", "iPod", items(3)))
	assert.Equal(t, 0, s.Selected())

	assert.False(t, s.Prev(), "no wrap at the top")
	assert.Equal(t, 0, s.Selected())

	assert.True(t, s.Next())
	assert.True(t, s.Next())
	assert.False(t, s.Next(), "no wrap at the bottom")
	assert.Equal(t, 2, s.Selected())

	assert.True(t, s.MoveBy(-10))
	assert.Equal(t, 0, s.Selected())
	assert.True(t, s.SetSelected(99))
	assert.Equal(t, 2, s.Selected())
}

func TestEmptyLevelHasNoSelection(t *testing.T) {
	s := NewStack(NewLevel("root", "iPod", nil))
	assert.Equal(t, -1, s.Selected())
	assert.False(t, s.Next())
	_, ok := s.SelectedItem()
	assert.False(t, ok)
}

func TestPushPop(t *testing.T) {
	s := NewStack(NewLevel("root", "iPod", items(5)))
	s.SetSelected(3)

	assert.ErrorIs(t, s.Push(NewLevel("empty", "Empty", nil)), ErrEmptyLevel)
	assert.Equal(t, 1, s.Depth())

	child := NewLevel("child", "Child", items(4))
	child.Selected = 2
	require.NoError(t, s.Push(child))
	assert.Equal(t, 2, s.Depth())
	assert.Equal(t, 0, s.Selected(), "push resets the new level's selection")
	assert.Equal(t, "Child", s.Current().Title)

	s.Next()
	assert.True(t, s.Pop())
	assert.Equal(t, 3, s.Selected(), "pop restores the parent's selection")

	assert.False(t, s.Pop(), "the root can not be popped")
	assert.Equal(t, 1, s.Depth())
}

func TestReset(t *testing.T) {
	s := NewStack(NewLevel("root", "iPod", items(2)))
	require.NoError(t, s.Push(NewLevel("a", "A", items(2))))
	s.Reset(NewLevel("root", "iPod", items(1)))
	assert.Equal(t, 1, s.Depth())
	assert.Equal(t, 0, s.Selected())
}

func TestReplaceKeepsSelectionInRange(t *testing.T) {
	s := NewStack(NewLevel("root", "iPod", items(2)))
	require.NoError(t, s.Push(NewLevel("colors", "Colors", items(5))))
	s.SetSelected(4)

	assert.True(t, s.Replace("colors", items(3)))
	assert.Equal(t, 2, s.Selected())
	assert.False(t, s.Replace("missing", items(1)))
}

func TestCurrentIsACopy(t *testing.T) {
	s := NewStack(NewLevel("root", "iPod", items(2)))
	cur := s.Current()
	cur.Items[0].Label = "changed"
	item, ok := s.SelectedItem()
	require.True(t, ok)
	assert.Equal(t, "Item 0", item.Label)
}

func TestWindow(t *testing.T) {
	tests := []struct {
		name      string
		n, sel, h int
		start     int
		end       int
	}{
		{"fits", 3, 2, 5, 0, 3},
		{"top", 20, 0, 5, 0, 5},
		{"middle", 20, 10, 5, 8, 13},
		{"bottom", 20, 19, 5, 15, 20},
		{"zero height", 20, 3, 0, 0, 0},
		{"empty", 0, -1, 5, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Level{Items: items(tt.n), Selected: tt.sel}
			start, end := l.Window(tt.h)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
			if tt.n > 0 && tt.h > 0 {
				assert.True(t, tt.sel >= start && tt.sel < end, "selection visible")
			}
		})
	}
}

func TestTrackItemsAndIndex(t *testing.T) {
	tracks := []core.Track{
		{ID: "a", Title: "Imagine", Artist: "John Lennon"},
		{ID: "b", Title: "Hey Jude", Artist: "The Beatles"},
	}
	trackItems := TrackItems(tracks)
	assert.Equal(t, "Imagine - John Lennon", trackItems[0].Label)
	assert.Equal(t, KindTrack, trackItems[1].Kind)
	assert.Equal(t, "b", trackItems[1].Track.ID)

	mixed := append([]Item{{ID: "x", Kind: KindAction}}, trackItems...)
	level := NewLevel("mixed", "Mixed", mixed)

	got := Tracks(level)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)

	assert.Equal(t, -1, TrackIndex(level, 0))
	assert.Equal(t, 0, TrackIndex(level, 1))
	assert.Equal(t, 1, TrackIndex(level, 2))
	assert.Equal(t, -1, TrackIndex(level, 3))
}

func TestPlaylistAndArtistItems(t *testing.T) {
	pl := PlaylistItems([]core.Playlist{{ID: "p", Name: "Chill Vibes"}})
	assert.Equal(t, "Chill Vibes", pl[0].Label)
	assert.True(t, pl[0].Navigable())

	ar := ArtistItems([]core.Artist{{ID: "a", Name: "Queen"}})
	assert.Equal(t, "Queen", ar[0].Label)
	assert.Equal(t, "a", ar[0].Artist.ID)
}
