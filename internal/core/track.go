package core

import "time"

// Source indicates where a track came from.
type Source string

const (
	SourceSpotify Source = "spotify"
	SourceDemo    Source = "demo"
)

// Track represents a playable audio track.
type Track struct {
	ID         string        `json:"id"`
	URI        string        `json:"uri"`
	Title      string        `json:"title"`
	Artist     string        `json:"artist"`
	Artists    []string      `json:"artists,omitempty"`
	Album      string        `json:"album"`
	AlbumArt   string        `json:"album_art,omitempty"`
	Duration   time.Duration `json:"duration"`
	PreviewURL string        `json:"preview_url,omitempty"`
	Source     Source        `json:"source"`
}

// Label returns the "Title - Artist" form used in track menus.
func (t Track) Label() string {
	if t.Artist == "" {
		return t.Title
	}
	return t.Title + " - " + t.Artist
}

// Playlist is a named collection of tracks.
type Playlist struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ImageURL   string `json:"image_url,omitempty"`
	TrackCount int    `json:"track_count"`
}

// Artist is a performer in the catalog.
type Artist struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url,omitempty"`
}
