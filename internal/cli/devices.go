package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tessro/clickwheel/internal/core"
	spotifyplayer "github.com/tessro/clickwheel/internal/spotify/player"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List Spotify Connect devices",
	Long: `Lists the Spotify Connect devices playback can be mirrored to. The
configured player.device is marked with *.`,
	RunE: runDevices,
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}

func runDevices(cmd *cobra.Command, args []string) error {
	c, err := requireSpotifyClient()
	if err != nil {
		return err
	}

	devices, err := spotifyplayer.Devices(cmd.Context(), c)
	if err != nil {
		return fmt.Errorf("failed to get devices: %w", err)
	}

	if JSONOutput() {
		if devices == nil {
			devices = []core.Device{}
		}
		return printJSON(devices)
	}

	if len(devices) == 0 {
		fmt.Println("No devices found. Open Spotify on a device and try again.")
		return nil
	}

	t := NewTable("", "NAME", "TYPE", "VOLUME", "ID")
	for _, d := range devices {
		name := d.Name
		if d.ID == cfg.Player.Device {
			name += " *"
		}
		t.Row(StatusIcon(d.IsActive), name, string(d.Type), fmt.Sprintf("%d%%", d.Volume), d.ID)
	}
	t.Flush()
	return nil
}
