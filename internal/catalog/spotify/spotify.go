// Package spotify serves the catalog from the Spotify Web API.
package spotify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tessro/clickwheel/internal/core"
	"github.com/tessro/clickwheel/internal/spotify/client"
)

// UnknownArtist labels tracks that carry no artist.
const UnknownArtist = "Unknown Artist"

// Catalog maps Spotify library endpoints onto core types.
type Catalog struct {
	client *client.Client
	log    *zap.Logger
}

// New returns a catalog backed by c.
func New(c *client.Client, log *zap.Logger) *Catalog {
	if log == nil {
		log = zap.NewNop()
	}
	return &Catalog{client: c, log: log}
}

// Kind identifies the catalog.
func (c *Catalog) Kind() core.CatalogKind {
	return core.CatalogSpotify
}

// Playlists returns the user's playlists.
func (c *Catalog) Playlists(ctx context.Context) ([]core.Playlist, error) {
	items, err := c.client.GetMyPlaylists(ctx, client.PlaylistLimit)
	if err != nil {
		return nil, c.fail("playlists", err)
	}
	out := make([]core.Playlist, 0, len(items))
	for _, p := range items {
		out = append(out, core.Playlist{
			ID:         p.ID,
			Name:       p.Name,
			ImageURL:   client.FirstImageURL(p.Images),
			TrackCount: p.Tracks.Total,
		})
	}
	return out, nil
}

// PlaylistTracks returns the playable tracks of a playlist.
func (c *Catalog) PlaylistTracks(ctx context.Context, playlistID string) ([]core.Track, error) {
	items, err := c.client.GetPlaylistItems(ctx, playlistID, client.PlaylistTrackLimit)
	if err != nil {
		return nil, c.fail("playlist tracks", err)
	}
	out := make([]core.Track, 0, len(items))
	for _, it := range items {
		if it.Track == nil {
			continue
		}
		out = append(out, ConvertTrack(*it.Track))
	}
	return out, nil
}

// TopTracks returns the user's top tracks.
func (c *Catalog) TopTracks(ctx context.Context) ([]core.Track, error) {
	tracks, err := c.client.GetTopTracks(ctx, client.TopLimit)
	if err != nil {
		return nil, c.fail("top tracks", err)
	}
	return convertTracks(tracks), nil
}

// TopArtists returns the user's top artists.
func (c *Catalog) TopArtists(ctx context.Context) ([]core.Artist, error) {
	artists, err := c.client.GetTopArtists(ctx, client.TopLimit)
	if err != nil {
		return nil, c.fail("top artists", err)
	}
	out := make([]core.Artist, 0, len(artists))
	for _, a := range artists {
		out = append(out, core.Artist{
			ID:       a.ID,
			Name:     a.Name,
			ImageURL: client.FirstImageURL(a.Images),
		})
	}
	return out, nil
}

// ArtistTracks returns an artist's top tracks.
func (c *Catalog) ArtistTracks(ctx context.Context, artistID string) ([]core.Track, error) {
	tracks, err := c.client.GetArtistTopTracks(ctx, artistID)
	if err != nil {
		return nil, c.fail("artist tracks", err)
	}
	return convertTracks(tracks), nil
}

// SearchTracks searches Spotify for tracks.
func (c *Catalog) SearchTracks(ctx context.Context, query string) ([]core.Track, error) {
	if query == "" {
		return nil, nil
	}
	tracks, err := c.client.SearchTracks(ctx, query, client.SearchLimit)
	if err != nil {
		return nil, c.fail("search", err)
	}
	return convertTracks(tracks), nil
}

// Authenticated reports whether a token is stored.
func (c *Catalog) Authenticated() bool {
	return c.client.HasToken()
}

// Logout forgets and deletes the stored token.
func (c *Catalog) Logout(context.Context) error {
	return c.client.ClearToken()
}

func (c *Catalog) fail(what string, err error) error {
	c.log.Warn("spotify catalog request failed", zap.String("request", what), zap.Error(err))
	return fmt.Errorf("failed to load %s: %w", what, err)
}

// ConvertTrack maps a Spotify track onto a core track.
func ConvertTrack(t client.Track) core.Track {
	artists := make([]string, len(t.Artists))
	for i, a := range t.Artists {
		artists[i] = a.Name
	}

	artist := UnknownArtist
	if len(artists) > 0 && artists[0] != "" {
		artist = artists[0]
	}

	return core.Track{
		ID:         t.ID,
		URI:        t.URI,
		Title:      t.Name,
		Artist:     artist,
		Artists:    artists,
		Album:      t.Album.Name,
		AlbumArt:   client.FirstImageURL(t.Album.Images),
		Duration:   time.Duration(t.DurationMS) * time.Millisecond,
		PreviewURL: t.PreviewURL,
		Source:     core.SourceSpotify,
	}
}

func convertTracks(tracks []client.Track) []core.Track {
	out := make([]core.Track, 0, len(tracks))
	for _, t := range tracks {
		out = append(out, ConvertTrack(t))
	}
	return out
}

var _ core.Catalog = (*Catalog)(nil)
