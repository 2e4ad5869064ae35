package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"streamdex/internal/media"
	"streamdex/internal/metadata"
	"streamdex/internal/ui"
	"streamdex/internal/watch"
)

var watchlistCmd = &cobra.Command{
	Use:   "watchlist",
	Short: "Manage the watchlist",
	RunE:  watchlistListRun,
}

var watchlistAddCmd = &cobra.Command{
	Use:   "add <query>",
	Short: "Search and add a title to the watchlist",
	Args:  cobra.MinimumNArgs(1),
	RunE:  watchlistAddRun,
}

var watchlistRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove a title from the watchlist",
	RunE:  watchlistRemoveRun,
}

func init() {
	watchlistCmd.AddCommand(watchlistAddCmd)
	watchlistCmd.AddCommand(watchlistRemoveCmd)
}

func watchlistListRun(cmd *cobra.Command, args []string) error {
	st, c, err := openStore()
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	tracker := watch.New(st)
	items, err := tracker.Watchlist()
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Println("Watchlist is empty. Add titles with `streamdex watchlist add <query>`.")
		return nil
	}

	if jsonOutput() {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	labels := watchlistLabels(items)
	idx, err := ui.Select("Watchlist", labels)
	if err != nil {
		return err
	}

	selected := items[idx]
	meta := metadata.New(cfg.MetadataBase, cfg.APIKey, cfg.Locale)
	return locateSources(c, meta, tracker, media.SearchResult{
		ID:    selected.ID,
		Kind:  selected.Kind,
		Title: selected.Title,
		Year:  selected.Year,
	})
}

func watchlistAddRun(cmd *cobra.Command, args []string) error {
	st, _, err := openStore()
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	query := strings.Join(args, " ")
	meta := metadata.New(cfg.MetadataBase, cfg.APIKey, cfg.Locale)

	results, err := meta.Search(query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if len(results) == 0 {
		return fmt.Errorf("no results for %q", query)
	}

	labels := make([]string, len(results))
	for i, r := range results {
		labels[i] = metadata.FormatDisplayTitle(r)
	}
	idx, err := ui.Select("Add to watchlist", labels)
	if err != nil {
		return err
	}

	selected := results[idx]
	tracker := watch.New(st)
	if err := tracker.AddToWatchlist(media.WatchlistItem{
		ID:    selected.ID,
		Kind:  selected.Kind,
		Title: selected.Title,
		Year:  selected.Year,
	}); err != nil {
		return fmt.Errorf("adding to watchlist: %w", err)
	}

	fmt.Printf("Added %s.\n", metadata.FormatDisplayTitle(selected))
	return nil
}

func watchlistRemoveRun(cmd *cobra.Command, args []string) error {
	st, _, err := openStore()
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	tracker := watch.New(st)
	items, err := tracker.Watchlist()
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("Watchlist is empty.")
		return nil
	}

	idx, err := ui.Select("Remove from watchlist", watchlistLabels(items))
	if err != nil {
		return err
	}

	selected := items[idx]
	if err := tracker.RemoveFromWatchlist(selected.Kind, selected.ID); err != nil {
		return fmt.Errorf("removing from watchlist: %w", err)
	}

	fmt.Printf("Removed %s.\n", selected.Title)
	return nil
}

func watchlistLabels(items []media.WatchlistItem) []string {
	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = metadata.FormatDisplayTitle(media.SearchResult{
			Title: item.Title,
			Year:  item.Year,
			Kind:  item.Kind,
		})
	}
	return labels
}
