package cli

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tessro/clickwheel/internal/catalog/cache"
	"github.com/tessro/clickwheel/internal/catalog/demo"
	spotifycatalog "github.com/tessro/clickwheel/internal/catalog/spotify"
	"github.com/tessro/clickwheel/internal/config"
	"github.com/tessro/clickwheel/internal/core"
	clierrors "github.com/tessro/clickwheel/internal/errors"
	"github.com/tessro/clickwheel/internal/history"
	"github.com/tessro/clickwheel/internal/player"
	"github.com/tessro/clickwheel/internal/screen"
	"github.com/tessro/clickwheel/internal/spotify/auth"
	"github.com/tessro/clickwheel/internal/spotify/client"
	spotifyplayer "github.com/tessro/clickwheel/internal/spotify/player"
)

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// newSpotifyClient builds an API client and loads any stored token.
func newSpotifyClient() (*client.Client, error) {
	if cfg.Spotify.ClientID == "" {
		return nil, clierrors.ErrNotConfigured
	}

	storage, err := auth.NewTokenStorage("")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token storage: %w", err)
	}

	ac := auth.NewConfig(cfg.Spotify.ClientID, cfg.Spotify.ClientSecret, cfg.Spotify.RedirectURI)
	c := client.New(ac.TokenClient(), storage, client.WithLogger(log.Named("spotify")))
	if err := c.LoadToken(); err != nil {
		return nil, fmt.Errorf("failed to load token: %w", err)
	}
	return c, nil
}

// requireSpotifyClient is newSpotifyClient for commands that need a login.
func requireSpotifyClient() (*client.Client, error) {
	c, err := newSpotifyClient()
	if err != nil {
		return nil, err
	}
	if !c.HasToken() {
		return nil, clierrors.ErrNotAuthenticated
	}
	return c, nil
}

// session holds everything the player UI runs on.
type session struct {
	Catalog core.Catalog
	Player  *player.Player
	History *history.Store

	log      *zap.Logger
	recorder chan struct{}
}

// newSession builds the catalog, player and history store from cfg. When
// demo is set the demo catalog is used regardless of the config.
func newSession(ctx context.Context, cfg *config.Config, demoMode bool) (*session, error) {
	s := &session{log: log}

	var api *client.Client
	if demoMode || cfg.DemoMode() {
		s.Catalog = demo.New(ms(cfg.Demo.Latency))
		log.Info("using demo catalog")
	} else {
		c, err := requireSpotifyClient()
		if err != nil {
			return nil, err
		}
		api = c
		s.Catalog = cache.New(
			spotifycatalog.New(c, log.Named("catalog")),
			time.Duration(cfg.Cache.TTL)*time.Second,
			log.Named("cache"),
		)
		log.Info("using spotify catalog")
	}

	opts := player.Options{
		TickInterval:     ms(cfg.Player.TickInterval),
		RestartThreshold: ms(cfg.Player.RestartThreshold),
		Volume:           cfg.Player.Volume,
		Logger:           log.Named("player"),
	}
	if api != nil && cfg.Player.Output == config.OutputSpotify {
		opts.Output = spotifyplayer.New(api, cfg.Player.Device, log.Named("output"))
	}
	s.Player = player.New(opts)

	if cfg.History.HistoryEnabled() {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			// History is optional; the player still works without it.
			log.Warn("history unavailable", zap.String("path", cfg.History.Path), zap.Error(err))
		} else {
			s.History = store
			s.recorder = make(chan struct{})
			rec := history.NewRecorder(store, log.Named("history"))
			sub := s.Player.Subscribe(player.DefaultBuffer)
			go func() {
				defer close(s.recorder)
				rec.Run(ctx, sub)
			}()
		}
	}

	return s, nil
}

// historyOrNil keeps a nil store from becoming a non-nil interface.
func (s *session) historyOrNil() screen.History {
	if s.History == nil {
		return nil
	}
	return s.History
}

// Close stops the player, waits for the recorder and closes the store.
func (s *session) Close() error {
	err := s.Player.Close()
	if s.recorder != nil {
		<-s.recorder
	}
	if s.History != nil {
		if cerr := s.History.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// openHistory opens the history store for the history commands.
func openHistory() (*history.Store, error) {
	if !cfg.History.HistoryEnabled() {
		return nil, clierrors.ErrHistoryDisabled
	}
	return history.Open(cfg.History.Path)
}
