// Package cache wraps a catalog with a TTL cache. Identical requests that
// are in flight at the same time share one call to the wrapped catalog.
package cache

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/tessro/clickwheel/internal/core"
)

type entry struct {
	value   interface{}
	expires time.Time
}

// Catalog is a caching core.Catalog.
type Catalog struct {
	next core.Catalog
	ttl  time.Duration
	log  *zap.Logger
	now  func() time.Time

	group singleflight.Group

	mu      sync.Mutex
	entries map[string]entry
	epoch   uint64 // bumped by Invalidate
}

// New wraps next. A ttl of zero or less disables caching but still
// collapses concurrent requests.
func New(next core.Catalog, ttl time.Duration, log *zap.Logger) *Catalog {
	if log == nil {
		log = zap.NewNop()
	}
	return &Catalog{
		next:    next,
		ttl:     ttl,
		log:     log,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

// Kind reports the wrapped catalog's kind.
func (c *Catalog) Kind() core.CatalogKind {
	return c.next.Kind()
}

func (c *Catalog) lookup(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expires) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

func (c *Catalog) currentEpoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

// store keeps v unless the cache was invalidated since epoch.
func (c *Catalog) store(epoch uint64, key string, v interface{}) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch {
		c.log.Debug("dropping result fetched before invalidation", zap.String("key", key))
		return
	}
	c.entries[key] = entry{value: v, expires: c.now().Add(c.ttl)}
}

// load returns the cached value for key or calls fn once for all
// concurrent callers. Errors are never cached.
func load[T any](ctx context.Context, c *Catalog, key string, fn func(context.Context) (T, error)) (T, error) {
	if v, ok := c.lookup(key); ok {
		c.log.Debug("catalog cache hit", zap.String("key", key))
		return v.(T), nil
	}

	// The shared call must not die with the first caller's context.
	callCtx := context.WithoutCancel(ctx)
	// Calls started before an invalidation are not joined after it.
	epoch := c.currentEpoch()
	flightKey := key + "@" + strconv.FormatUint(epoch, 10)
	ch := c.group.DoChan(flightKey, func() (interface{}, error) {
		v, err := fn(callCtx)
		if err != nil {
			return nil, err
		}
		c.store(epoch, key, v)
		return v, nil
	})

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			var zero T
			return zero, res.Err
		}
		if res.Shared {
			c.log.Debug("catalog request shared", zap.String("key", key))
		}
		return res.Val.(T), nil
	}
}

// Playlists returns the user's playlists.
func (c *Catalog) Playlists(ctx context.Context) ([]core.Playlist, error) {
	return load(ctx, c, "playlists", c.next.Playlists)
}

// PlaylistTracks returns the tracks of a playlist.
func (c *Catalog) PlaylistTracks(ctx context.Context, playlistID string) ([]core.Track, error) {
	return load(ctx, c, "playlist:"+playlistID, func(ctx context.Context) ([]core.Track, error) {
		return c.next.PlaylistTracks(ctx, playlistID)
	})
}

// TopTracks returns the user's top tracks.
func (c *Catalog) TopTracks(ctx context.Context) ([]core.Track, error) {
	return load(ctx, c, "top-tracks", c.next.TopTracks)
}

// TopArtists returns the user's top artists.
func (c *Catalog) TopArtists(ctx context.Context) ([]core.Artist, error) {
	return load(ctx, c, "top-artists", c.next.TopArtists)
}

// ArtistTracks returns an artist's tracks.
func (c *Catalog) ArtistTracks(ctx context.Context, artistID string) ([]core.Track, error) {
	return load(ctx, c, "artist:"+artistID, func(ctx context.Context) ([]core.Track, error) {
		return c.next.ArtistTracks(ctx, artistID)
	})
}

// SearchTracks searches for tracks. Queries differing only in case or
// surrounding space share a cache entry.
func (c *Catalog) SearchTracks(ctx context.Context, query string) ([]core.Track, error) {
	key := "search:" + strings.ToLower(strings.TrimSpace(query))
	return load(ctx, c, key, func(ctx context.Context) ([]core.Track, error) {
		return c.next.SearchTracks(ctx, query)
	})
}

// Authenticated reports the wrapped catalog's state.
func (c *Catalog) Authenticated() bool {
	return c.next.Authenticated()
}

// Logout clears the cache and logs out of the wrapped catalog.
func (c *Catalog) Logout(ctx context.Context) error {
	c.Invalidate()
	return c.next.Logout(ctx)
}

// Invalidate drops every cached entry.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
	c.epoch++
}

var _ core.Catalog = (*Catalog)(nil)
