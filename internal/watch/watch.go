// Package watch tracks watch progress and the watchlist in the
// persistent store.
package watch

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"streamdex/internal/media"
	"streamdex/internal/store"
)

const (
	progressPrefix  = "watch:"
	watchlistPrefix = "watchlist:"
)

// Tracker persists watch progress and the watchlist.
type Tracker struct {
	store store.Store
}

// New creates a Tracker over st.
func New(st store.Store) *Tracker {
	return &Tracker{store: st}
}

func progressKey(kind media.Kind, id, season, episode int) string {
	return fmt.Sprintf("%s%s:%d:%d:%d", progressPrefix, kind, id, season, episode)
}

func watchlistKey(kind media.Kind, id int) string {
	return fmt.Sprintf("%s%s:%d", watchlistPrefix, kind, id)
}

// Save writes or updates a watch-progress entry.
func (t *Tracker) Save(entry media.WatchEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding watch entry: %w", err)
	}
	return t.store.Set(progressKey(entry.Kind, entry.ID, entry.Season, entry.Episode), string(data))
}

// Load returns all watch-progress entries, sorted by title then
// season/episode. Malformed stored entries are skipped.
func (t *Tracker) Load() ([]media.WatchEntry, error) {
	keys, err := t.store.Keys(progressPrefix)
	if err != nil {
		return nil, fmt.Errorf("listing watch entries: %w", err)
	}

	var entries []media.WatchEntry
	for _, key := range keys {
		raw, ok, err := t.store.Get(key)
		if err != nil || !ok {
			continue
		}
		var entry media.WatchEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Title != entries[j].Title {
			return strings.ToLower(entries[i].Title) < strings.ToLower(entries[j].Title)
		}
		if entries[i].Season != entries[j].Season {
			return entries[i].Season < entries[j].Season
		}
		return entries[i].Episode < entries[j].Episode
	})

	return entries, nil
}

// Resume returns the saved position for one title, or ok=false.
func (t *Tracker) Resume(kind media.Kind, id, season, episode int) (media.WatchEntry, bool) {
	raw, ok, err := t.store.Get(progressKey(kind, id, season, episode))
	if err != nil || !ok {
		return media.WatchEntry{}, false
	}
	var entry media.WatchEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return media.WatchEntry{}, false
	}
	return entry, true
}

// Remove deletes one watch-progress entry.
func (t *Tracker) Remove(kind media.Kind, id, season, episode int) error {
	return t.store.Delete(progressKey(kind, id, season, episode))
}

// AddToWatchlist bookmarks a title. Re-adding is a no-op overwrite.
func (t *Tracker) AddToWatchlist(item media.WatchlistItem) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encoding watchlist item: %w", err)
	}
	return t.store.Set(watchlistKey(item.Kind, item.ID), string(data))
}

// RemoveFromWatchlist drops a title from the watchlist.
func (t *Tracker) RemoveFromWatchlist(kind media.Kind, id int) error {
	return t.store.Delete(watchlistKey(kind, id))
}

// OnWatchlist reports whether a title is bookmarked.
func (t *Tracker) OnWatchlist(kind media.Kind, id int) bool {
	_, ok, err := t.store.Get(watchlistKey(kind, id))
	return err == nil && ok
}

// Watchlist returns all bookmarked titles sorted by title.
func (t *Tracker) Watchlist() ([]media.WatchlistItem, error) {
	keys, err := t.store.Keys(watchlistPrefix)
	if err != nil {
		return nil, fmt.Errorf("listing watchlist: %w", err)
	}

	var items []media.WatchlistItem
	for _, key := range keys {
		raw, ok, err := t.store.Get(key)
		if err != nil || !ok {
			continue
		}
		var item media.WatchlistItem
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			continue
		}
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool {
		return strings.ToLower(items[i].Title) < strings.ToLower(items[j].Title)
	})

	return items, nil
}

// FormatForDisplay creates display strings for fzf selection from
// watch-progress entries.
func FormatForDisplay(entries []media.WatchEntry) []string {
	var items []string
	for _, e := range entries {
		var display string
		if e.Kind == media.TV {
			display = fmt.Sprintf("%s S%02dE%02d", e.Title, e.Season, e.Episode)
		} else {
			display = e.Title
		}
		if e.Position > 0 && e.Duration > 0 {
			display += fmt.Sprintf(" [%.0f%%]", e.Position/e.Duration*100)
		}
		items = append(items, display)
	}
	return items
}
