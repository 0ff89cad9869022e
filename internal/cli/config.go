package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tessro/clickwheel/internal/config"
	clierrors "github.com/tessro/clickwheel/internal/errors"
	spotifyplayer "github.com/tessro/clickwheel/internal/spotify/player"
	"github.com/tessro/clickwheel/internal/wizard"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Commands for viewing and editing clickwheel configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration, after defaults and environment overrides.`,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long:  `Create a new configuration file with default values.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	RunE:  runConfigPath,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

Supported keys:
  ` + strings.Join(config.SettableKeys(), "\n  ") + `

Examples:
  clickwheel config set tui.theme red
  clickwheel config set player.volume 70`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configSetDeviceCmd = &cobra.Command{
	Use:   "set-device",
	Short: "Interactively select the playback device",
	Long: `Shows a picker to select the Spotify Connect device that playback is
mirrored to when player.output is "spotify".`,
	RunE: runConfigSetDevice,
}

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing config file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configSetDeviceCmd)
	rootCmd.AddCommand(configCmd)
}

// redacted returns a copy of cfg that is safe to print.
func redacted(c *config.Config) config.Config {
	out := *c
	if out.Spotify.ClientSecret != "" {
		out.Spotify.ClientSecret = "********"
	}
	return out
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	shown := redacted(cfg)
	if JSONOutput() {
		return printJSON(shown)
	}

	encoder := toml.NewEncoder(os.Stdout)
	encoder.Indent = "  "
	return encoder.Encode(shown)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configPath()
	if err := config.Init(path, configInitForce); err != nil {
		if errors.Is(err, os.ErrExist) {
			return clierrors.WithSuggestion(err, "Pass --force to overwrite it")
		}
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{
			"status": "created",
			"path":   path,
		})
	}
	fmt.Printf("Created config file: %s\n", path)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Run 'clickwheel auth setup' to enter your Spotify app credentials")
	fmt.Println("  2. Run 'clickwheel auth login' to authenticate with Spotify")
	fmt.Println("  Or run 'clickwheel --demo' to try the demo library.")
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path := configPath()
	_, err := os.Stat(path)
	exists := err == nil

	if JSONOutput() {
		return printJSON(map[string]interface{}{"path": path, "exists": exists})
	}
	fmt.Println(path)
	if Verbose() && !exists {
		fmt.Fprintln(os.Stderr, "(file does not exist yet)")
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	return setConfigValue(key, value)
}

func setConfigValue(key, value string) error {
	path := configPath()
	if err := config.Set(path, key, value); err != nil {
		return err
	}
	log.Info("config updated", zap.String("key", key), zap.String("path", path))

	if JSONOutput() {
		return printJSON(map[string]string{
			"status": "updated",
			"key":    key,
			"value":  value,
		})
	}
	fmt.Printf("Set %s = %s\n", key, value)
	return nil
}

func runConfigSetDevice(cmd *cobra.Command, args []string) error {
	c, err := requireSpotifyClient()
	if err != nil {
		return err
	}

	devices, err := spotifyplayer.Devices(cmd.Context(), c)
	if err != nil {
		return fmt.Errorf("failed to get devices: %w", err)
	}
	if len(devices) == 0 {
		return clierrors.ErrNoActiveDevice
	}

	interactive := wizard.NewInteractive()
	interactive.SetEnabled(!JSONOutput())
	interactive.SetDevices(devices)

	selected, err := interactive.PromptDevice()
	if err != nil {
		return fmt.Errorf("device picker failed: %w", err)
	}
	if selected == nil && !interactive.CanInteract() {
		// Without a terminal, fall back to the single active device.
		selected = wizard.ActiveDevice(devices)
	}
	if selected == nil {
		return clierrors.WithSuggestion(errors.New("no device selected"),
			"Run 'clickwheel devices' to list devices, then 'clickwheel config set player.device <id>'")
	}

	return setConfigValue("player.device", selected.ID)
}
