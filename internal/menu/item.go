// Package menu implements the click-wheel menu hierarchy: items, levels and
// the navigation stack.
package menu

import "github.com/tessro/clickwheel/internal/core"

// Kind is the kind of a menu item.
type Kind int

const (
	KindMenu Kind = iota
	KindAction
	KindPlaylist
	KindArtist
	KindTrack
)

func (k Kind) String() string {
	switch k {
	case KindMenu:
		return "menu"
	case KindAction:
		return "action"
	case KindPlaylist:
		return "playlist"
	case KindArtist:
		return "artist"
	case KindTrack:
		return "track"
	default:
		return "unknown"
	}
}

// Source names a loader that fills a submenu on demand.
type Source string

const (
	SourcePlaylists  Source = "playlists"
	SourceTopTracks  Source = "top-tracks"
	SourceTopArtists Source = "top-artists"
	SourceRecent     Source = "recently-played"
	SourceMostPlayed Source = "most-played"
	SourceSearch     Source = "search"
)

// Action names what an action item does when pressed.
type Action string

const (
	ActionNowPlaying Action = "now-playing"
	ActionTheme      Action = "theme"
	ActionLogout     Action = "logout"
)

// Item is one row in a menu.
type Item struct {
	ID       string
	Label    string
	Kind     Kind
	Children []Item
	Source   Source
	Action   Action
	Value    string

	Track    *core.Track
	Playlist *core.Playlist
	Artist   *core.Artist
}

// Navigable reports whether pressing the item opens another level. These
// items are drawn with an arrow.
func (it Item) Navigable() bool {
	switch it.Kind {
	case KindMenu:
		return len(it.Children) > 0 || it.Source != ""
	case KindPlaylist, KindArtist:
		return true
	default:
		return false
	}
}

// TrackItems builds track items labelled "Title - Artist".
func TrackItems(tracks []core.Track) []Item {
	items := make([]Item, len(tracks))
	for i := range tracks {
		t := tracks[i]
		items[i] = Item{
			ID:    t.ID,
			Label: t.Label(),
			Kind:  KindTrack,
			Track: &t,
		}
	}
	return items
}

// PlaylistItems builds playlist items.
func PlaylistItems(playlists []core.Playlist) []Item {
	items := make([]Item, len(playlists))
	for i := range playlists {
		p := playlists[i]
		items[i] = Item{ID: p.ID, Label: p.Name, Kind: KindPlaylist, Playlist: &p}
	}
	return items
}

// ArtistItems builds artist items.
func ArtistItems(artists []core.Artist) []Item {
	items := make([]Item, len(artists))
	for i := range artists {
		a := artists[i]
		items[i] = Item{ID: a.ID, Label: a.Name, Kind: KindArtist, Artist: &a}
	}
	return items
}

// Tracks collects the tracks of a level's track items, in order.
func Tracks(level Level) []core.Track {
	var tracks []core.Track
	for _, it := range level.Items {
		if it.Kind == KindTrack && it.Track != nil {
			tracks = append(tracks, *it.Track)
		}
	}
	return tracks
}

// TrackIndex returns the position of the item at index among the level's
// track items, or -1 if that item is not a track.
func TrackIndex(level Level, index int) int {
	if index < 0 || index >= len(level.Items) {
		return -1
	}
	if it := level.Items[index]; it.Kind != KindTrack || it.Track == nil {
		return -1
	}
	n := 0
	for i := 0; i < index; i++ {
		if it := level.Items[i]; it.Kind == KindTrack && it.Track != nil {
			n++
		}
	}
	return n
}
