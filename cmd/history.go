package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"streamdex/internal/media"
	"streamdex/internal/metadata"
	"streamdex/internal/ui"
	"streamdex/internal/watch"
)

var flagHistoryClear bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Resume from watch history",
	RunE:  historyRun,
}

func init() {
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Remove all watch history")
}

func historyRun(cmd *cobra.Command, args []string) error {
	st, c, err := openStore()
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	tracker := watch.New(st)

	entries, err := tracker.Load()
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	if flagHistoryClear {
		for _, e := range entries {
			if err := tracker.Remove(e.Kind, e.ID, e.Season, e.Episode); err != nil {
				return fmt.Errorf("clearing history: %w", err)
			}
		}
		fmt.Printf("Removed %d entries.\n", len(entries))
		return nil
	}

	if len(entries) == 0 {
		fmt.Println("No history entries found.")
		return nil
	}

	if jsonOutput() {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	items := watch.FormatForDisplay(entries)
	idx, err := ui.Select("History", items)
	if err != nil {
		return err
	}

	selected := entries[idx]
	debugf("resuming: %s (id %d)", selected.Title, selected.ID)

	flagSeason = selected.Season
	flagEpisode = selected.Episode

	meta := metadata.New(cfg.MetadataBase, cfg.APIKey, cfg.Locale)
	details, err := meta.Details(selected.Kind, selected.ID)
	if err != nil {
		return fmt.Errorf("looking up %q: %w", selected.Title, err)
	}

	return locateSources(c, meta, tracker, media.SearchResult{
		ID:    selected.ID,
		Kind:  selected.Kind,
		Title: selected.Title,
		Year:  details.Year,
	})
}
