package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"streamdex/internal/cache"
	"streamdex/internal/media"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the listing cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [movies|tv]",
	Short: "Drop cached listings (all scopes by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  cacheClearRun,
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
}

func cacheClearRun(cmd *cobra.Command, args []string) error {
	st, c, err := openStore()
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	if len(args) == 0 {
		if err := c.ClearAll(); err != nil {
			return fmt.Errorf("clearing cache: %w", err)
		}
		fmt.Println("Cache cleared.")
		return nil
	}

	var key string
	switch args[0] {
	case "movies":
		key = cache.RootKey(media.Movie)
	case "tv":
		key = cache.RootKey(media.TV)
	default:
		return fmt.Errorf("unknown cache scope %q (use movies or tv)", args[0])
	}

	if err := c.Invalidate(key); err != nil {
		return fmt.Errorf("invalidating %s: %w", args[0], err)
	}
	fmt.Printf("Cleared %s scope.\n", args[0])
	return nil
}
