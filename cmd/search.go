package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"streamdex/internal/cache"
	"streamdex/internal/index"
	"streamdex/internal/media"
	"streamdex/internal/metadata"
	"streamdex/internal/relay"
	"streamdex/internal/ui"
	"streamdex/internal/watch"
)

// searchRun is the default command: streamdex <query>
func searchRun(cmd *cobra.Command, args []string) error {
	st, c, err := openStore()
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	query := strings.Join(args, " ")
	if query == "" {
		query, err = ui.Input("Search", c.SearchHistory())
		if err != nil {
			return fmt.Errorf("no search query provided")
		}
	}
	if err := c.AddSearchTerm(query); err != nil {
		debugf("recording search term failed: %v", err)
	}

	meta := metadata.New(cfg.MetadataBase, cfg.APIKey, cfg.Locale)

	results, err := meta.Search(query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if len(results) == 0 {
		return fmt.Errorf("no results for %q; try `streamdex browse` to explore the index directly", query)
	}

	items := make([]string, len(results))
	for i, r := range results {
		items[i] = metadata.FormatDisplayTitle(r)
	}
	idx, err := ui.Select("Select", items)
	if err != nil {
		return err
	}
	selected := results[idx]
	debugf("selected: %s (id %d, %s)", selected.Title, selected.ID, selected.Kind)

	return locateSources(c, meta, watch.New(st), selected)
}

// locateSources resolves a selected title to ranked files on the
// remote index.
func locateSources(c *cache.Cache, meta *metadata.Client, tracker *watch.Tracker, selected media.SearchResult) error {
	resolver := index.NewPathResolver(cfg.IndexBase, cfg.MoviesRoot, cfg.TVRoot)
	fetcher := index.NewFetcher(relay.New(cfg.Relay))

	season := flagSeason
	if selected.Kind == media.TV && season == 0 {
		details, err := meta.Details(selected.Kind, selected.ID)
		if err != nil {
			return fmt.Errorf("getting details: %w", err)
		}
		season, err = pickSeason(details.Seasons)
		if err != nil {
			return err
		}
	}

	entries, path, err := fetchForTitle(c, fetcher, resolver, selected, season)
	if err != nil {
		var fetchErr *relay.FetchError
		if errors.As(err, &fetchErr) {
			return fmt.Errorf("%w\nthe title may be named differently on the index; try `streamdex browse`", err)
		}
		return err
	}
	debugf("resolved path: %s (%d entries)", path, len(entries))

	episode := flagEpisode
	if selected.Kind == media.TV {
		groups := index.GroupEpisodes(entries)
		if episode == 0 {
			episode, err = pickEpisode(groups)
			if err != nil {
				return err
			}
		}
		if bucket, ok := groups[episode]; ok {
			entries = bucket
		}
	}

	ranked := index.Rank(entries, episode, "")
	if err := printEntries(ranked, path); err != nil {
		return err
	}
	recordProgress(tracker, selected, season, episode)
	return nil
}

// fetchForTitle builds the candidate path for a title and fetches its
// listing through the root-scope cache. Movies try the year-qualified
// path first and fall back to the bare title path.
func fetchForTitle(c *cache.Cache, fetcher *index.Fetcher, resolver *index.PathResolver, selected media.SearchResult, season int) ([]media.FileEntry, string, error) {
	var paths []string
	if selected.Kind == media.TV {
		paths = []string{resolver.TVShowPath(selected.Title, season)}
	} else {
		if selected.Year != "" {
			paths = append(paths, resolver.MoviePath(selected.Title, selected.Year))
		}
		paths = append(paths, resolver.MoviePath(selected.Title, ""))
	}

	key := cache.RootKey(selected.Kind)
	var lastErr error
	for _, path := range paths {
		if entry, ok := c.Get(key); ok && entry.Path == path {
			return entry.Data, path, nil
		}

		listing, err := fetcher.Fetch(path)
		if err != nil {
			lastErr = err
			continue
		}
		if len(listing.Entries) == 0 {
			lastErr = fmt.Errorf("empty listing at %s", path)
			continue
		}
		if err := c.Set(key, listing.Entries, path, false); err != nil {
			debugf("caching listing failed: %v", err)
		}
		return listing.Entries, path, nil
	}

	return nil, "", lastErr
}

// pickSeason prompts for a season when the show has more than one.
func pickSeason(total int) (int, error) {
	if total <= 1 {
		return 1, nil
	}
	items := make([]string, total)
	for i := range items {
		items[i] = fmt.Sprintf("Season %d", i+1)
	}
	idx, err := ui.Select("Season", items)
	if err != nil {
		return 0, err
	}
	return idx + 1, nil
}

// pickEpisode prompts with the episode buckets found in the listing.
func pickEpisode(groups map[int][]media.FileEntry) (int, error) {
	nums := index.EpisodeNumbers(groups)
	if len(nums) == 0 {
		// Nothing attributable; the sentinel bucket is all there is.
		return 0, nil
	}

	items := make([]string, len(nums))
	for i, n := range nums {
		items[i] = fmt.Sprintf("Episode %d (%d file(s))", n, len(groups[n]))
	}
	if other := groups[0]; len(other) > 0 {
		items = append(items, fmt.Sprintf("Other (%d file(s))", len(other)))
		nums = append(nums, 0)
	}

	idx, err := ui.Select("Episode", items)
	if err != nil {
		return 0, err
	}
	return nums[idx], nil
}

// printEntries writes ranked entries to stdout, as JSON when not
// attached to a terminal.
func printEntries(entries []media.FileEntry, path string) error {
	if len(entries) == 0 {
		fmt.Printf("No playable files under %s; try `streamdex browse`.\n", path)
		return nil
	}

	if jsonOutput() {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(media.DirectoryListing{Path: path, Entries: entries})
	}

	fmt.Printf("Files under %s:\n", path)
	for _, e := range entries {
		tags := []string{}
		if q := index.Quality(e.Name); q != "" {
			tags = append(tags, q)
		}
		if s := index.Source(e.Name); s != "" {
			tags = append(tags, s)
		}
		line := "  " + e.Name
		if len(tags) > 0 {
			line += " [" + strings.Join(tags, " ") + "]"
		}
		if e.MatchScore > 0 {
			line += fmt.Sprintf(" (score %d)", e.MatchScore)
		}
		fmt.Println(line)
		fmt.Println("    " + e.URL)
	}
	return nil
}

// recordProgress saves a zero-position watch entry so the title shows
// up in history even before playback is reported.
func recordProgress(tracker *watch.Tracker, selected media.SearchResult, season, episode int) {
	if !cfg.History {
		return
	}
	entry := media.WatchEntry{
		ID:      selected.ID,
		Title:   selected.Title,
		Kind:    selected.Kind,
		Season:  season,
		Episode: episode,
	}
	if err := tracker.Save(entry); err != nil {
		debugf("saving watch entry failed: %v", err)
	}
}
