package spotify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessro/clickwheel/internal/core"
	"github.com/tessro/clickwheel/internal/spotify/auth"
	"github.com/tessro/clickwheel/internal/spotify/client"
)

const trackJSON = `{
	"id": "t1",
	"name": "Around the World",
	"uri": "spotify:track:t1",
	"duration_ms": 429000,
	"preview_url": "https://p.scdn.co/preview",
	"artists": [{"id": "a1", "name": "Daft Punk"}, {"id": "a2", "name": "Guest"}],
	"album": {"name": "Homework", "images": [{"url": "https://i.scdn.co/big"}, {"url": "https://i.scdn.co/small"}]}
}`

func newCatalog(t *testing.T, routes map[string]string) (*Catalog, *auth.TokenStorage) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"status":404,"message":"Not found"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	storage, err := auth.NewTokenStorage(filepath.Join(t.TempDir(), "token.json"))
	require.NoError(t, err)

	c := client.New(&auth.TokenClient{ClientID: "id"}, storage,
		client.WithBaseURL(srv.URL), client.WithRetryWait(time.Millisecond))
	require.NoError(t, c.SetToken(&auth.Token{AccessToken: "a", RefreshToken: "r", ExpiresAt: time.Now().Add(time.Hour)}))

	return New(c, nil), storage
}

func TestConvertTrack(t *testing.T) {
	var raw client.Track
	require.NoError(t, json.Unmarshal([]byte(trackJSON), &raw))

	want := core.Track{
		ID:         "t1",
		URI:        "spotify:track:t1",
		Title:      "Around the World",
		Artist:     "Daft Punk",
		Artists:    []string{"Daft Punk", "Guest"},
		Album:      "Homework",
		AlbumArt:   "https://i.scdn.co/big",
		Duration:   429 * time.Second,
		PreviewURL: "https://p.scdn.co/preview",
		Source:     core.SourceSpotify,
	}
	if diff := cmp.Diff(want, ConvertTrack(raw)); diff != "" {
		t.Errorf("ConvertTrack() mismatch (-want +got):\n%s", diff)
	}
}

func TestConvertTrackWithoutArtistOrArt(t *testing.T) {
	got := ConvertTrack(client.Track{ID: "x", Name: "Mystery"})
	assert.Equal(t, UnknownArtist, got.Artist)
	assert.Empty(t, got.AlbumArt)
	assert.Equal(t, "Mystery - Unknown Artist", got.Label())
}

func TestCatalogEndpoints(t *testing.T) {
	cat, _ := newCatalog(t, map[string]string{
		"/me/playlists":          `{"items":[{"id":"p1","name":"Focus","images":[{"url":"https://img"}],"tracks":{"total":12}}]}`,
		"/playlists/p1/tracks":   `{"items":[{"track":` + trackJSON + `},{"track":null}]}`,
		"/me/top/tracks":         `{"items":[` + trackJSON + `]}`,
		"/me/top/artists":        `{"items":[{"id":"a1","name":"Daft Punk","images":[]}]}`,
		"/artists/a1/top-tracks": `{"tracks":[` + trackJSON + `]}`,
		"/search":                `{"tracks":{"items":[` + trackJSON + `]}}`,
	})
	ctx := context.Background()

	pls, err := cat.Playlists(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.Playlist{{ID: "p1", Name: "Focus", ImageURL: "https://img", TrackCount: 12}}, pls)

	tracks, err := cat.PlaylistTracks(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, tracks, 1, "null tracks are skipped")

	tracks, err = cat.TopTracks(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Around the World", tracks[0].Title)

	artists, err := cat.TopArtists(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.Artist{{ID: "a1", Name: "Daft Punk"}}, artists)

	tracks, err = cat.ArtistTracks(ctx, "a1")
	require.NoError(t, err)
	assert.Len(t, tracks, 1)

	tracks, err = cat.SearchTracks(ctx, "around")
	require.NoError(t, err)
	assert.Len(t, tracks, 1)

	tracks, err = cat.SearchTracks(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, tracks)
}

func TestCatalogReturnsErrors(t *testing.T) {
	cat, _ := newCatalog(t, nil)

	_, err := cat.Playlists(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load playlists")

	var apiErr *client.APIError
	assert.ErrorAs(t, err, &apiErr)
}

func TestLogout(t *testing.T) {
	cat, storage := newCatalog(t, nil)
	assert.True(t, cat.Authenticated())
	assert.True(t, storage.Exists())

	require.NoError(t, cat.Logout(context.Background()))
	assert.False(t, cat.Authenticated())
	assert.False(t, storage.Exists())
}
