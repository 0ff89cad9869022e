// Package history records played tracks in a local SQLite database and
// serves the "Recently Played" and "Most Played" menus.
package history

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/tessro/clickwheel/internal/core"
)

//go:embed migrations/*.sql
var migrations embed.FS

// DefaultLimit is used when a query asks for zero or fewer rows.
const DefaultLimit = 25

// Entry is one distinct track from the play history.
type Entry struct {
	Track      core.Track `json:"track"`
	Plays      int        `json:"plays"`
	LastPlayed time.Time  `json:"last_played"`
}

// Store is a play history backed by SQLite.
type Store struct {
	db *sqlx.DB
}

// Open opens (creating if needed) the history database at path and applies
// pending migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate history database: %w", err)
	}

	return &Store{db: db}, nil
}

// runMigrations applies the embedded up migrations. The migrate instance is
// not closed because that would close db as well.
func runMigrations(db *sqlx.DB) error {
	driver, err := sqlite.WithInstance(db.DB, &sqlite.Config{})
	if err != nil {
		return err
	}
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores one play of track at the given time.
func (s *Store) Record(ctx context.Context, track core.Track, at time.Time) error {
	if track.URI == "" {
		return errors.New("track has no URI")
	}
	const query = `
		insert into plays (uri, track_id, title, artist, album, duration_ms, source, played_at)
		values (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		track.URI, track.ID, track.Title, track.Artist, track.Album,
		track.Duration.Milliseconds(), string(track.Source), at.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to record play: %w", err)
	}
	return nil
}

// row is the shape shared by the Recent and MostPlayed queries.
type row struct {
	URI        string `db:"uri"`
	TrackID    string `db:"track_id"`
	Title      string `db:"title"`
	Artist     string `db:"artist"`
	Album      string `db:"album"`
	DurationMS int64  `db:"duration_ms"`
	Source     string `db:"source"`
	Plays      int    `db:"plays"`
	LastPlayed int64  `db:"last_played"`
	LastID     int64  `db:"last_id"`
}

func (r row) entry() Entry {
	t := core.Track{
		ID:       r.TrackID,
		URI:      r.URI,
		Title:    r.Title,
		Artist:   r.Artist,
		Album:    r.Album,
		Duration: time.Duration(r.DurationMS) * time.Millisecond,
		Source:   core.Source(r.Source),
	}
	if r.Artist != "" {
		t.Artists = []string{r.Artist}
	}
	return Entry{
		Track:      t,
		Plays:      r.Plays,
		LastPlayed: time.UnixMilli(r.LastPlayed),
	}
}

// Track columns come from the latest play of each URI.
const selectEntries = `
	select p.uri, p.track_id, p.title, p.artist, p.album, p.duration_ms, p.source,
		g.plays, g.last_played, g.last_id
	from plays as p
	join (
		select uri, count(*) as plays, max(played_at) as last_played, max(id) as last_id
		from plays
		group by uri
	) as g on p.id = g.last_id`

// Recent returns distinct tracks, most recently played first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	return s.query(ctx, selectEntries+`
	order by last_played desc, last_id desc
	limit ?`, limit)
}

// MostPlayed returns distinct tracks ordered by play count, then recency.
func (s *Store) MostPlayed(ctx context.Context, limit int) ([]Entry, error) {
	return s.query(ctx, selectEntries+`
	order by plays desc, last_played desc, last_id desc
	limit ?`, limit)
}

func (s *Store) query(ctx context.Context, query string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	var rows []row
	if err := s.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	entries := make([]Entry, len(rows))
	for i, r := range rows {
		entries[i] = r.entry()
	}
	return entries, nil
}

// Clear deletes all recorded plays.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `delete from plays`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Tracks extracts the tracks from entries, preserving order.
func Tracks(entries []Entry) []core.Track {
	tracks := make([]core.Track, len(entries))
	for i, e := range entries {
		tracks[i] = e.Track
	}
	return tracks
}
