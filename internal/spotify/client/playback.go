package client

import (
	"context"
	"strconv"
)

// PlayOptions configures a play request.
type PlayOptions struct {
	ContextURI string      `json:"context_uri,omitempty"`
	URIs       []string    `json:"uris,omitempty"`
	Offset     *PlayOffset `json:"offset,omitempty"`
	PositionMS int         `json:"position_ms,omitempty"`
}

// PlayOffset specifies where to start playback in a context.
type PlayOffset struct {
	Position int    `json:"position,omitempty"` // Track index
	URI      string `json:"uri,omitempty"`      // Track URI
}

func devicePath(path, deviceID string, params map[string]string) string {
	if deviceID != "" {
		if params == nil {
			params = map[string]string{}
		}
		params["device_id"] = deviceID
	}
	return BuildURL(path, params)
}

// Play starts or resumes playback. A nil opts resumes the current track.
// An empty deviceID targets the active device.
func (c *Client) Play(ctx context.Context, deviceID string, opts *PlayOptions) error {
	// Spotify wants a JSON body even for a plain resume.
	body := opts
	if body == nil {
		body = &PlayOptions{}
	}
	return c.Put(ctx, devicePath("/me/player/play", deviceID, nil), body, nil)
}

// Pause pauses playback.
func (c *Client) Pause(ctx context.Context, deviceID string) error {
	return c.Put(ctx, devicePath("/me/player/pause", deviceID, nil), nil, nil)
}

// Seek seeks to a position in the current track.
func (c *Client) Seek(ctx context.Context, positionMs int, deviceID string) error {
	return c.Put(ctx, devicePath("/me/player/seek", deviceID, map[string]string{
		"position_ms": strconv.Itoa(positionMs),
	}), nil, nil)
}

// SetVolume sets the playback volume (0-100).
func (c *Client) SetVolume(ctx context.Context, percent int, deviceID string) error {
	return c.Put(ctx, devicePath("/me/player/volume", deviceID, map[string]string{
		"volume_percent": strconv.Itoa(percent),
	}), nil, nil)
}

// GetDevices returns the user's available playback devices.
func (c *Client) GetDevices(ctx context.Context) ([]Device, error) {
	var resp DevicesResponse
	if err := c.Get(ctx, "/me/player/devices", &resp); err != nil {
		return nil, err
	}
	return resp.Devices, nil
}

// GetPlaybackState returns the current playback state, or nil when nothing
// is playing.
func (c *Client) GetPlaybackState(ctx context.Context) (*PlaybackState, error) {
	var state PlaybackState
	if err := c.Get(ctx, "/me/player", &state); err != nil {
		return nil, err
	}
	if state.Item == nil && state.Device.ID == "" {
		return nil, nil
	}
	return &state, nil
}

// TransferPlayback transfers playback to a different device.
func (c *Client) TransferPlayback(ctx context.Context, deviceID string, play bool) error {
	body := map[string]interface{}{
		"device_ids": []string{deviceID},
		"play":       play,
	}
	return c.Put(ctx, "/me/player", body, nil)
}
