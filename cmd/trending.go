package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"streamdex/internal/media"
	"streamdex/internal/metadata"
	"streamdex/internal/ui"
	"streamdex/internal/watch"
)

var trendingCmd = &cobra.Command{
	Use:   "trending [movies|tv]",
	Short: "Browse trending content",
	Args:  cobra.MaximumNArgs(1),
	RunE:  trendingRun,
}

func trendingRun(cmd *cobra.Command, args []string) error {
	kind := media.Movie
	if len(args) > 0 {
		switch strings.ToLower(args[0]) {
		case "movies", "movie":
			kind = media.Movie
		case "tv", "shows":
			kind = media.TV
		default:
			return fmt.Errorf("unknown media type %q (use movies or tv)", args[0])
		}
	}

	st, c, err := openStore()
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	meta := metadata.New(cfg.MetadataBase, cfg.APIKey, cfg.Locale)
	results, err := meta.Trending(kind)
	if err != nil {
		return fmt.Errorf("getting trending: %w", err)
	}
	if len(results) == 0 {
		return fmt.Errorf("no trending %s found", kind)
	}

	items := make([]string, len(results))
	for i, r := range results {
		items[i] = metadata.FormatDisplayTitle(r)
	}
	idx, err := ui.Select("Trending", items)
	if err != nil {
		return err
	}

	return locateSources(c, meta, watch.New(st), results[idx])
}
