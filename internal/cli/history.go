package cli

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/tessro/clickwheel/internal/history"
)

var (
	historyMostPlayed bool
	historyLimit      int
	historyClearYes   bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently played tracks",
	Long: `Lists tracks played in the click-wheel player, most recent first.
With --most-played, tracks are ordered by play count.`,
	RunE: runHistory,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the play history",
	RunE:  runHistoryClear,
}

func init() {
	historyCmd.Flags().BoolVar(&historyMostPlayed, "most-played", false, "order by play count")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", history.DefaultLimit, "maximum number of tracks")
	historyClearCmd.Flags().BoolVarP(&historyClearYes, "yes", "y", false, "don't ask for confirmation")

	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	var entries []history.Entry
	if historyMostPlayed {
		entries, err = store.MostPlayed(cmd.Context(), historyLimit)
	} else {
		entries, err = store.Recent(cmd.Context(), historyLimit)
	}
	if err != nil {
		return err
	}

	if JSONOutput() {
		if entries == nil {
			entries = []history.Entry{}
		}
		return printJSON(entries)
	}

	if len(entries) == 0 {
		fmt.Println("Nothing played yet.")
		return nil
	}

	now := time.Now()
	t := NewTable("#", "TITLE", "ARTIST", "PLAYS", "LAST PLAYED")
	for i, e := range entries {
		t.Row(
			strconv.Itoa(i+1),
			TruncateString(e.Track.Title, 40),
			TruncateString(e.Track.Artist, 30),
			strconv.Itoa(e.Plays),
			FormatAgo(e.LastPlayed, now),
		)
	}
	t.Flush()
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	if !historyClearYes && !JSONOutput() {
		confirm := false
		err := huh.NewConfirm().
			Title("Delete the entire play history?").
			Affirmative("Delete").
			Negative("Cancel").
			Value(&confirm).
			Run()
		if err != nil && !errors.Is(err, huh.ErrUserAborted) {
			return err
		}
		if !confirm {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Clear(cmd.Context()); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "cleared"})
	}
	fmt.Println("Play history cleared.")
	return nil
}
