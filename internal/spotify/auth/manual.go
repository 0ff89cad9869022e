package auth

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrStateMismatch is returned when a callback carries a state other than
// the one sent with the authorization request.
var ErrStateMismatch = errors.New("state mismatch: possible CSRF attack")

// ParseCallbackInput extracts the authorization code from what the user
// pasted during the manual flow. The input may be the full redirect URL the
// browser landed on, a bare query string, or just the code. When the input
// carries a state it must equal wantState.
func ParseCallbackInput(input, wantState string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", errors.New("no authorization code provided")
	}

	query, ok := callbackQuery(input)
	if !ok {
		return input, nil
	}

	if e := query.Get("error"); e != "" {
		return "", fmt.Errorf("authorization denied: %s", e)
	}
	if state := query.Get("state"); state != "" && wantState != "" && state != wantState {
		return "", ErrStateMismatch
	}

	code := query.Get("code")
	if code == "" {
		return "", errors.New("no authorization code found in input")
	}
	return code, nil
}

func callbackQuery(input string) (url.Values, bool) {
	if strings.Contains(input, "://") {
		u, err := url.Parse(input)
		if err != nil {
			return nil, false
		}
		return u.Query(), true
	}

	raw := strings.TrimPrefix(input, "?")
	if !strings.Contains(raw, "=") {
		return nil, false
	}
	q, err := url.ParseQuery(raw)
	if err != nil {
		return nil, false
	}
	return q, true
}
