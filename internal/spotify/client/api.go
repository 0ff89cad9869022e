package client

import (
	"context"
	"errors"
	"net/url"
	"strconv"
)

// Page sizes requested from the library endpoints.
const (
	PlaylistLimit      = 50
	PlaylistTrackLimit = 50
	TopLimit           = 20
	SearchLimit        = 20
)

// GetCurrentUser returns the current user's profile.
func (c *Client) GetCurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.Get(ctx, "/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetMyPlaylists returns the first page of the user's playlists.
func (c *Client) GetMyPlaylists(ctx context.Context, limit int) ([]Playlist, error) {
	var page Page[Playlist]
	path := BuildURL("/me/playlists", map[string]string{"limit": strconv.Itoa(limit)})
	if err := c.Get(ctx, path, &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}

// GetPlaylistItems returns the first page of a playlist's items.
func (c *Client) GetPlaylistItems(ctx context.Context, playlistID string, limit int) ([]PlaylistItem, error) {
	var page Page[PlaylistItem]
	path := BuildURL("/playlists/"+url.PathEscape(playlistID)+"/tracks",
		map[string]string{"limit": strconv.Itoa(limit)})
	if err := c.Get(ctx, path, &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}

// GetTopTracks returns the user's top tracks.
func (c *Client) GetTopTracks(ctx context.Context, limit int) ([]Track, error) {
	var page Page[Track]
	path := BuildURL("/me/top/tracks", map[string]string{"limit": strconv.Itoa(limit)})
	if err := c.Get(ctx, path, &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}

// GetTopArtists returns the user's top artists.
func (c *Client) GetTopArtists(ctx context.Context, limit int) ([]Artist, error) {
	var page Page[Artist]
	path := BuildURL("/me/top/artists", map[string]string{"limit": strconv.Itoa(limit)})
	if err := c.Get(ctx, path, &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}

// GetArtistTopTracks returns an artist's most popular tracks in the user's
// market.
func (c *Client) GetArtistTopTracks(ctx context.Context, artistID string) ([]Track, error) {
	var resp TopTracksResponse
	path := BuildURL("/artists/"+url.PathEscape(artistID)+"/top-tracks",
		map[string]string{"market": "from_token"})
	if err := c.Get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Tracks, nil
}

// SearchTracks searches the catalog for tracks.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]Track, error) {
	if query == "" {
		return nil, errors.New("search query cannot be empty")
	}

	var resp SearchResponse
	path := BuildURL("/search", map[string]string{
		"q":     query,
		"type":  "track",
		"limit": strconv.Itoa(limit),
	})
	if err := c.Get(ctx, path, &resp); err != nil {
		return nil, err
	}
	if resp.Tracks == nil {
		return nil, nil
	}
	return resp.Tracks.Items, nil
}
