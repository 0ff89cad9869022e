// Package player mirrors the local clickwheel player onto a Spotify Connect
// device.
package player

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tessro/clickwheel/internal/core"
	"github.com/tessro/clickwheel/internal/spotify/client"
)

// API is the subset of the Spotify client the output needs.
type API interface {
	Play(ctx context.Context, deviceID string, opts *client.PlayOptions) error
	Pause(ctx context.Context, deviceID string) error
	Seek(ctx context.Context, positionMs int, deviceID string) error
	SetVolume(ctx context.Context, percent int, deviceID string) error
	GetDevices(ctx context.Context) ([]client.Device, error)
}

// Output sends local transport changes to a Connect device. Tracks without
// a Spotify URI (the demo catalog) are not mirrored.
type Output struct {
	api      API
	deviceID string
	log      *zap.Logger

	mirroring bool
}

// New creates an output targeting deviceID. An empty deviceID targets
// whichever device is active.
func New(api API, deviceID string, log *zap.Logger) *Output {
	if log == nil {
		log = zap.NewNop()
	}
	return &Output{api: api, deviceID: deviceID, log: log}
}

// SetDevice sets the target device for playback commands.
func (o *Output) SetDevice(deviceID string) {
	o.deviceID = deviceID
}

// Start plays track from the beginning.
func (o *Output) Start(ctx context.Context, track core.Track) error {
	o.mirroring = strings.HasPrefix(track.URI, "spotify:")
	if !o.mirroring {
		o.log.Debug("not mirroring track without spotify uri", zap.String("uri", track.URI))
		return nil
	}
	return o.api.Play(ctx, o.deviceID, &client.PlayOptions{URIs: []string{track.URI}})
}

// Resume continues the current track.
func (o *Output) Resume(ctx context.Context) error {
	if !o.mirroring {
		return nil
	}
	err := o.api.Play(ctx, o.deviceID, nil)
	if client.IsAlreadyPlayingError(err) {
		return nil
	}
	return err
}

// Pause pauses the device.
func (o *Output) Pause(ctx context.Context) error {
	if !o.mirroring {
		return nil
	}
	return o.api.Pause(ctx, o.deviceID)
}

// Seek moves the device to position.
func (o *Output) Seek(ctx context.Context, position time.Duration) error {
	if !o.mirroring {
		return nil
	}
	return o.api.Seek(ctx, int(position/time.Millisecond), o.deviceID)
}

// SetVolume sets the device volume.
func (o *Output) SetVolume(ctx context.Context, percent int) error {
	if !o.mirroring {
		return nil
	}
	return o.api.SetVolume(ctx, percent, o.deviceID)
}

// Devices returns the user's available Connect devices.
func (o *Output) Devices(ctx context.Context) ([]core.Device, error) {
	return Devices(ctx, o.api)
}

// Devices lists Connect devices through api.
func Devices(ctx context.Context, api API) ([]core.Device, error) {
	devices, err := api.GetDevices(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]core.Device, len(devices))
	for i := range devices {
		result[i] = convertDevice(&devices[i])
	}
	return result, nil
}

// convertDevice converts a Spotify device to a core device.
func convertDevice(d *client.Device) core.Device {
	deviceType := core.DeviceType(strings.ToLower(d.Type))
	switch d.Type {
	case "Computer":
		deviceType = core.DeviceTypeComputer
	case "Smartphone":
		deviceType = core.DeviceTypePhone
	case "Speaker":
		deviceType = core.DeviceTypeSpeaker
	case "TV":
		deviceType = core.DeviceTypeTV
	}

	volume := 0
	if d.VolumePercent != nil {
		volume = *d.VolumePercent
	}

	return core.Device{
		ID:       d.ID,
		Name:     d.Name,
		Type:     deviceType,
		IsActive: d.IsActive,
		Volume:   volume,
	}
}
