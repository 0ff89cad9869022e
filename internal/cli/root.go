package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tessro/clickwheel/internal/config"
	clierrors "github.com/tessro/clickwheel/internal/errors"
	"github.com/tessro/clickwheel/internal/logging"
)

var (
	cfgFile string
	jsonOut bool
	verbose bool

	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "clickwheel",
	Short: "A click-wheel music player for the terminal",
	Long: `clickwheel puts a classic click-wheel player in your terminal.

Browse your Spotify playlists, top tracks and artists with the wheel, or
try it offline with the built-in demo library.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
	RunE:          runUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.clickwheelrc)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	addUIFlags(rootCmd)
}

func initConfig(cmd *cobra.Command) error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return clierrors.WithSuggestion(
			fmt.Errorf("failed to load config: %w", err),
			"Check the file with 'clickwheel config path', or recreate it with 'clickwheel config init --force'")
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", clierrors.ErrInvalidConfig, err)
	}

	opts := logging.Options{}
	// The UI owns the terminal, so only plain commands log to stderr.
	if verbose && !isUICommand(cmd) {
		opts.Console = os.Stderr
		opts.ConsoleLevel = "debug"
	}
	log, err = logging.New(cfg.Log, opts)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	log.Debug("config loaded", zap.String("path", cfg.Path()), zap.Bool("demo", cfg.DemoMode()))

	return nil
}

func isUICommand(cmd *cobra.Command) bool {
	return !cmd.HasParent() || cmd.Name() == "ui"
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, clierrors.Format(err))
		os.Exit(1)
	}
}

// Config returns the loaded configuration.
func Config() *config.Config {
	return cfg
}

// JSONOutput returns true if JSON output is requested.
func JSONOutput() bool {
	return jsonOut
}

// Verbose returns true if verbose output is requested.
func Verbose() bool {
	return verbose
}

// configPath is where config changes are written.
func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return cfg.Path()
}
