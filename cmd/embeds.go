package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"streamdex/internal/embed"
	"streamdex/internal/media"
	"streamdex/internal/metadata"
	"streamdex/internal/relay"
)

var (
	flagEmbedTV      bool
	flagEmbedSeason  int
	flagEmbedEpisode int
)

var embedsCmd = &cobra.Command{
	Use:   "embeds <metadata-id>",
	Short: "Locate embed players for a title",
	Long: `Embeds resolves a metadata id to playable embed URLs on the source
site. For episodes, pass --tv with --season and --episode.`,
	Args: cobra.ExactArgs(1),
	RunE: embedsRun,
}

func init() {
	embedsCmd.Flags().BoolVarP(&flagEmbedTV, "tv", "t", false, "Resolve a TV episode")
	embedsCmd.Flags().IntVarP(&flagEmbedSeason, "season", "s", 1, "Season number")
	embedsCmd.Flags().IntVarP(&flagEmbedEpisode, "episode", "e", 1, "Episode number")
}

func embedsRun(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil || id <= 0 {
		return fmt.Errorf("metadata id must be a positive number, got %q", args[0])
	}

	req := embed.Request{ID: id, Kind: media.Movie}
	if flagEmbedTV {
		req.Kind = media.TV
		req.Season = flagEmbedSeason
		req.Episode = flagEmbedEpisode
	}

	meta := metadata.New(cfg.MetadataBase, cfg.APIKey, cfg.Locale)
	resolver := embed.New(cfg.SourceBase, relay.New(cfg.Relay), meta, cfg.Locale)

	candidates, err := resolver.Resolve(req)
	if err != nil {
		return fmt.Errorf("%w\ntry `streamdex browse` to locate a file directly", err)
	}

	if jsonOutput() {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(candidates)
	}

	for _, cand := range candidates {
		fmt.Printf("%-24s %s\n", cand.EmbedID, cand.URL)
	}
	return nil
}
