package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"streamdex/internal/index"
	"streamdex/internal/media"
	"streamdex/internal/relay"
	"streamdex/internal/tui"
)

var (
	flagBrowseTV   bool
	flagBrowseLast bool
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the remote file index manually",
	Long: `Browse opens an interactive directory browser over the remote file
index, starting at the movies root (or the TV root with --tv). Use the
arrow keys for back/forward, enter to descend, r to refresh past the
cache, / to filter.`,
	RunE: browseRun,
}

func init() {
	browseCmd.Flags().BoolVarP(&flagBrowseTV, "tv", "t", false, "Start at the TV shows root")
	browseCmd.Flags().BoolVarP(&flagBrowseLast, "last", "l", false, "Resume at the last browsed path")
}

func browseRun(cmd *cobra.Command, args []string) error {
	st, c, err := openStore()
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	resolver := index.NewPathResolver(cfg.IndexBase, cfg.MoviesRoot, cfg.TVRoot)
	fetcher := index.NewFetcher(relay.New(cfg.Relay))

	kind := media.Movie
	if flagBrowseTV {
		kind = media.TV
	}
	startPath := resolver.SearchRoot(kind)
	if flagBrowseLast {
		if last, ok := c.LastPath(); ok {
			startPath = last
		}
	}

	selected, err := tui.Browse(fetcher, c, startPath)
	if err != nil {
		return err
	}
	if selected == nil {
		return nil
	}

	if jsonOutput() {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(selected)
	}
	fmt.Println(selected.URL)
	return nil
}
