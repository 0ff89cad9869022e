package auth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startCallbackServer(t *testing.T) *CallbackServer {
	t.Helper()
	server, err := NewCallbackServer(0)
	require.NoError(t, err)
	server.Start()
	t.Cleanup(func() { _ = server.Shutdown(context.Background()) })
	require.NotZero(t, server.Port())
	return server
}

func hitCallback(t *testing.T, port int, query string) (int, string) {
	t.Helper()
	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/callback?%s", port, query))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestCallbackServerSuccess(t *testing.T) {
	server := startCallbackServer(t)

	status, body := hitCallback(t, server.Port(), "code=test_code&state=test_state")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "connected")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	result, err := server.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, "test_code", result.Code)
	assert.NoError(t, result.Validate("test_state"))
	assert.ErrorIs(t, result.Validate("other"), ErrStateMismatch)
}

func TestCallbackServerDenied(t *testing.T) {
	server := startCallbackServer(t)

	status, body := hitCallback(t, server.Port(), "error=%3Cscript%3E&state=s")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotContains(t, body, "<script>")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	result, err := server.Wait(ctx)
	require.NoError(t, err)
	assert.ErrorContains(t, result.Validate("s"), "authorization denied")
}

func TestCallbackServerTimeout(t *testing.T) {
	server := startCallbackServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := server.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
