// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"streamdex/internal/cache"
	"streamdex/internal/config"
	"streamdex/internal/store"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Global flags
var (
	flagSeason  int
	flagEpisode int
	flagJSON    bool
	flagDebug   bool
)

// cfg holds the loaded configuration (merged: defaults < config file < flags).
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "streamdex [query]",
	Short: "Find playable sources for movies and TV shows from the terminal",
	Long: `Streamdex searches movie/TV metadata, resolves titles to a remote
file index, and locates playable files and embed players for them.`,
	Args:              cobra.ArbitraryArgs,
	PersistentPreRunE: loadConfig,
	RunE:              searchRun,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagJSON, "json", "j", false, "Output results as JSON")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "x", false, "Debug logging to stderr")
	rootCmd.Flags().IntVarP(&flagSeason, "season", "s", 0, "Season number (TV)")
	rootCmd.Flags().IntVarP(&flagEpisode, "episode", "e", 0, "Episode number (TV)")

	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(embedsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(watchlistCmd)
	rootCmd.AddCommand(trendingCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads and merges configuration: defaults < config file < CLI flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if flagDebug {
		cfg.Debug = true
	}

	log.SetOutput(os.Stderr)
	if cfg.Debug {
		log.SetPrefix("[streamdex] ")
	} else {
		log.SetFlags(0)
	}

	return nil
}

// openStore opens the persistent store and a cache over it, sweeping
// expired listings on the way in. The caller closes the store.
func openStore() (store.Store, *cache.Cache, error) {
	path, err := config.StorePath()
	if err != nil {
		return nil, nil, err
	}
	st, err := store.OpenSQLite(path)
	if err != nil {
		return nil, nil, err
	}
	c := cache.New(st)
	if err := c.CleanupExpiredEntries(); err != nil {
		debugf("cache sweep failed: %v", err)
	}
	return st, c, nil
}

// jsonOutput reports whether results should be printed as JSON: the
// explicit flag, or stdout not being a terminal.
func jsonOutput() bool {
	return flagJSON || !term.IsTerminal(int(os.Stdout.Fd()))
}

// debugf logs a message if debug mode is enabled.
func debugf(format string, args ...interface{}) {
	if cfg != nil && cfg.Debug {
		log.Printf(format, args...)
	}
}
