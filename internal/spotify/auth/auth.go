// Package auth implements the Spotify authorization code flow used by
// clickwheel: PKCE parameters, the loopback callback, manual code entry,
// token exchange and on-disk token storage.
package auth

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	// SpotifyAuthURL is the Spotify authorization endpoint.
	SpotifyAuthURL = "https://accounts.spotify.com/authorize"

	// SpotifyTokenURL is the Spotify token endpoint.
	SpotifyTokenURL = "https://accounts.spotify.com/api/token"

	// DefaultRedirectURI is the default callback URI for the local server.
	DefaultRedirectURI = "http://127.0.0.1:8888/callback"
)

// LibraryScopes grant read access to the catalog shown in the menus.
var LibraryScopes = []string{
	"user-read-private",
	"user-read-email",
	"user-library-read",
	"user-top-read",
	"playlist-read-private",
	"playlist-read-collaborative",
}

// PlaybackScopes allow mirroring playback onto a Connect device.
var PlaybackScopes = []string{
	"user-read-playback-state",
	"user-modify-playback-state",
	"user-read-currently-playing",
}

// DefaultScopes is every scope clickwheel asks for.
var DefaultScopes = append(append([]string{}, LibraryScopes...), PlaybackScopes...)

// Config holds the OAuth configuration.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scopes       []string
}

// AuthURLParams contains the parameters for building an authorization URL.
type AuthURLParams struct {
	ClientID    string
	RedirectURI string
	Scopes      []string
}

// BuildAuthURL constructs the Spotify authorization URL with PKCE parameters.
func BuildAuthURL(params AuthURLParams, pkce *PKCE) string {
	u, _ := url.Parse(SpotifyAuthURL)

	q := u.Query()
	q.Set("client_id", params.ClientID)
	q.Set("response_type", "code")
	q.Set("redirect_uri", params.RedirectURI)
	q.Set("code_challenge_method", "S256")
	q.Set("code_challenge", pkce.Challenge)
	q.Set("state", pkce.State)

	if len(params.Scopes) > 0 {
		q.Set("scope", strings.Join(params.Scopes, " "))
	}

	u.RawQuery = q.Encode()
	return u.String()
}

// NewConfig creates a new OAuth configuration with defaults.
func NewConfig(clientID, clientSecret, redirectURI string) *Config {
	if redirectURI == "" {
		redirectURI = DefaultRedirectURI
	}
	return &Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURI:  redirectURI,
		Scopes:       DefaultScopes,
	}
}

// BuildAuthURL builds an auth URL from the config.
func (c *Config) BuildAuthURL(pkce *PKCE) string {
	return BuildAuthURL(AuthURLParams{
		ClientID:    c.ClientID,
		RedirectURI: c.RedirectURI,
		Scopes:      c.Scopes,
	}, pkce)
}

// TokenClient returns a token client for this configuration.
func (c *Config) TokenClient() *TokenClient {
	return &TokenClient{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURI:  c.RedirectURI,
	}
}

// CallbackPort returns the port in the redirect URI, or 0 when it has none.
func (c *Config) CallbackPort() int {
	u, err := url.Parse(c.RedirectURI)
	if err != nil {
		return 0
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		return 0
	}
	return port
}
