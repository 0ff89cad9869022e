package core

import "context"

// CatalogKind names a catalog implementation.
type CatalogKind string

const (
	CatalogDemo    CatalogKind = "demo"
	CatalogSpotify CatalogKind = "spotify"
)

// Catalog is the read-only music library the menus browse.
type Catalog interface {
	Kind() CatalogKind

	Playlists(ctx context.Context) ([]Playlist, error)
	PlaylistTracks(ctx context.Context, playlistID string) ([]Track, error)
	TopTracks(ctx context.Context) ([]Track, error)
	TopArtists(ctx context.Context) ([]Artist, error)
	ArtistTracks(ctx context.Context, artistID string) ([]Track, error)
	SearchTracks(ctx context.Context, query string) ([]Track, error)

	Authenticated() bool
	Logout(ctx context.Context) error
}
