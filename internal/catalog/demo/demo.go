// Package demo is a canned catalog for running clickwheel without a
// Spotify account.
package demo

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/agnivade/levenshtein"

	"github.com/tessro/clickwheel/internal/core"
)

// DefaultLatency imitates a network round trip.
const DefaultLatency = 300 * time.Millisecond

// maxDistance is the largest edit distance accepted by the fuzzy fallback.
const maxDistance = 2

// Catalog serves the demo dataset.
type Catalog struct {
	latency time.Duration
}

// New returns a demo catalog that waits latency before each answer.
func New(latency time.Duration) *Catalog {
	if latency < 0 {
		latency = 0
	}
	return &Catalog{latency: latency}
}

// Kind identifies the catalog.
func (c *Catalog) Kind() core.CatalogKind {
	return core.CatalogDemo
}

func (c *Catalog) wait(ctx context.Context) error {
	if c.latency == 0 {
		return ctx.Err()
	}
	t := time.NewTimer(c.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func clone[T any](s []T) []T {
	return append([]T(nil), s...)
}

// Playlists returns the three demo playlists.
func (c *Catalog) Playlists(ctx context.Context) ([]core.Playlist, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	return clone(playlists), nil
}

// PlaylistTracks returns a different slice of the dataset per playlist.
func (c *Catalog) PlaylistTracks(ctx context.Context, playlistID string) ([]core.Track, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	switch playlistID {
	case "demo-playlist-1":
		return clone(tracks[0:5]), nil
	case "demo-playlist-2":
		return clone(tracks[5:8]), nil
	default:
		return clone(tracks[3:7]), nil
	}
}

// TopTracks returns the first seven tracks.
func (c *Catalog) TopTracks(ctx context.Context) ([]core.Track, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	return clone(tracks[0:7]), nil
}

// TopArtists returns the three demo artists.
func (c *Catalog) TopArtists(ctx context.Context) ([]core.Artist, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	return clone(artists), nil
}

// ArtistTracks returns the tracks credited to the artist.
func (c *Catalog) ArtistTracks(ctx context.Context, artistID string) ([]core.Track, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	var name string
	for _, a := range artists {
		if a.ID == artistID {
			name = a.Name
			break
		}
	}
	if name == "" {
		return nil, nil
	}

	var out []core.Track
	for _, t := range tracks {
		if strings.EqualFold(t.Artist, name) {
			out = append(out, t)
		}
	}
	return out, nil
}

// SearchTracks matches the query against title, artist and album. When
// nothing contains the query it falls back to words within a small edit
// distance, so "imagne" still finds "Imagine".
func (c *Catalog) SearchTracks(ctx context.Context, query string) ([]core.Track, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}

	var out []core.Track
	for _, t := range tracks {
		if strings.Contains(strings.ToLower(t.Title), q) ||
			strings.Contains(strings.ToLower(t.Artist), q) ||
			strings.Contains(strings.ToLower(t.Album), q) {
			out = append(out, t)
		}
	}
	if len(out) > 0 {
		return out, nil
	}

	for _, t := range tracks {
		if fuzzyMatch(q, t.Title) || fuzzyMatch(q, t.Artist) {
			out = append(out, t)
		}
	}
	return out, nil
}

func fuzzyMatch(query, text string) bool {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
	for _, w := range words {
		if levenshtein.ComputeDistance(query, w) <= maxDistance {
			return true
		}
	}
	return false
}

// Authenticated is always true for the demo catalog.
func (c *Catalog) Authenticated() bool {
	return true
}

// Logout does nothing for the demo catalog.
func (c *Catalog) Logout(context.Context) error {
	return nil
}

var _ core.Catalog = (*Catalog)(nil)
