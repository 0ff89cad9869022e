package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

const (
	// CodeVerifierLength is the length of the PKCE code verifier.
	// Spotify accepts 43 to 128 characters.
	CodeVerifierLength = 64

	// StateLength is the length of the state parameter.
	StateLength = 32
)

// PKCE holds the code verifier, S256 challenge and state for one
// authorization attempt.
type PKCE struct {
	Verifier  string
	Challenge string
	State     string
}

// NewPKCE generates a fresh verifier, challenge and state.
func NewPKCE() (*PKCE, error) {
	verifier, err := randomString(CodeVerifierLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate code verifier: %w", err)
	}

	state, err := randomString(StateLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate state: %w", err)
	}

	return &PKCE{
		Verifier:  verifier,
		Challenge: challengeFor(verifier),
		State:     state,
	}, nil
}

// randomString returns n URL-safe base64 characters from crypto/rand.
func randomString(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf)[:n], nil
}

// challengeFor computes base64url(sha256(verifier)).
func challengeFor(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
