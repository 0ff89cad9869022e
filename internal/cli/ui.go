package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tessro/clickwheel/internal/tui"
)

var (
	uiDemo    bool
	uiNoWatch bool
	uiNoMouse bool
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Launch the click-wheel player",
	Long: `Launch the interactive click-wheel player.

Scroll with the arrow keys, j/k, the mouse wheel or by dragging around the
wheel. Press enter for the center button and esc for MENU.

Without a Spotify client id (or with --demo) a built-in demo library is
used, so no account is needed.`,
	RunE: runUI,
}

func addUIFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&uiDemo, "demo", false, "use the built-in demo library")
	cmd.Flags().BoolVar(&uiNoWatch, "no-watch", false, "don't reload the config file when it changes")
	cmd.Flags().BoolVar(&uiNoMouse, "no-mouse", false, "disable mouse input")
}

func init() {
	addUIFlags(uiCmd)
	rootCmd.AddCommand(uiCmd)
}

func runUI(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := newSession(ctx, cfg, uiDemo)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			log.Warn("shutdown failed", zap.Error(err))
		}
	}()

	return tui.Run(ctx, tui.Options{
		Catalog:    s.Catalog,
		Player:     s.Player,
		History:    s.historyOrNil(),
		ConfigPath: configPath(),
		Watch:      !uiNoWatch,
		Theme:      cfg.TUI.Theme,
		Mouse:      cfg.TUI.MouseEnabled() && !uiNoMouse,
		Logger:     log.Named("tui"),
	})
}
