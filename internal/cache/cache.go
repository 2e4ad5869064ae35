// Package cache persists fetched directory listings with schema
// versioning and expiry, plus small browse metadata (last path, search
// history). It fronts the index fetcher: callers consult the cache
// first and repopulate it after a fresh fetch.
package cache

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"streamdex/internal/media"
	"streamdex/internal/store"
)

// SchemaVersion gates stored entries: a mismatch is treated as absent.
// Bump when the entry layout changes.
const SchemaVersion = 3

// Expiry is how long a stored listing stays valid.
const Expiry = 24 * time.Hour

const (
	listingPrefix  = "listing:"
	lastPathKey    = "meta:lastPath"
	searchHistKey  = "meta:searchHistory"
	searchHistSize = 10
)

// Entry is a persisted, versioned listing snapshot.
type Entry struct {
	Version      int               `json:"version"`
	Timestamp    int64             `json:"timestamp"` // epoch millis
	Path         string            `json:"path"`
	IsManualMode bool              `json:"isManualMode"`
	Data         []media.FileEntry `json:"data"`
}

// Cache is a versioned, expiring listing cache over an injected store.
type Cache struct {
	store store.Store
	now   func() time.Time
}

// New creates a Cache over st.
func New(st store.Store) *Cache {
	return &Cache{store: st, now: time.Now}
}

// RootKey is the cache key for an auto-resolved root scope.
func RootKey(kind media.Kind) string {
	if kind == media.TV {
		return listingPrefix + "tv"
	}
	return listingPrefix + "movies"
}

// ManualKey is the cache key for a manual-mode (browse) path.
func ManualKey(path string) string {
	return listingPrefix + "manual:" + path
}

// SearchKey is the cache key for a search-scoped view under a path.
func SearchKey(path, query string) string {
	return ManualKey(path) + ":search:" + strings.ToLower(query)
}

// Get returns the entry under key, or ok=false when the entry is
// absent, version-mismatched, expired, or corrupt. Expired and invalid
// entries are evicted on encounter.
func (c *Cache) Get(key string) (*Entry, bool) {
	raw, ok, err := c.store.Get(key)
	if err != nil || !ok {
		return nil, false
	}

	entry, err := decodeEntry(raw)
	if err != nil {
		// Corrupt entries are misses, not fatal errors.
		c.store.Delete(key)
		return nil, false
	}

	if entry.Version != SchemaVersion {
		c.store.Delete(key)
		return nil, false
	}

	if c.expired(entry) {
		c.store.Delete(key)
		return nil, false
	}

	return entry, true
}

// Set stores entries under key, stamped with the current time and
// schema version. The write replaces any previous value atomically.
func (c *Cache) Set(key string, entries []media.FileEntry, path string, manual bool) error {
	entry := &Entry{
		Version:      SchemaVersion,
		Timestamp:    c.now().UnixMilli(),
		Path:         path,
		IsManualMode: manual,
		Data:         entries,
	}
	return c.store.Set(key, encodeEntry(entry))
}

// Invalidate removes the entry under key and any search-scoped
// sub-entries beneath it.
func (c *Cache) Invalidate(key string) error {
	if err := c.store.Delete(key); err != nil {
		return err
	}
	subs, err := c.store.Keys(key + ":")
	if err != nil {
		return err
	}
	for _, sub := range subs {
		if err := c.store.Delete(sub); err != nil {
			return err
		}
	}
	return nil
}

// ClearAll removes every cached listing. Browse metadata is kept.
func (c *Cache) ClearAll() error {
	keys, err := c.store.Keys(listingPrefix)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := c.store.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

// CleanupExpiredEntries sweeps expired or invalid listings. Idempotent
// and safe to call at any time, typically at startup.
func (c *Cache) CleanupExpiredEntries() error {
	keys, err := c.store.Keys(listingPrefix)
	if err != nil {
		return err
	}
	for _, key := range keys {
		c.Get(key) // lazy eviction does the work
	}
	return nil
}

// LastPath returns the most recently recorded browse path.
func (c *Cache) LastPath() (string, bool) {
	path, ok, err := c.store.Get(lastPathKey)
	if err != nil {
		return "", false
	}
	return path, ok && path != ""
}

// SetLastPath records the current browse path.
func (c *Cache) SetLastPath(path string) error {
	return c.store.Set(lastPathKey, path)
}

// SearchHistory returns prior search terms, most recent first.
func (c *Cache) SearchHistory() []string {
	raw, ok, err := c.store.Get(searchHistKey)
	if err != nil || !ok {
		return nil
	}
	var terms []string
	if err := json.Unmarshal([]byte(raw), &terms); err != nil {
		return nil
	}
	return terms
}

// AddSearchTerm records a search term at the front of the history,
// de-duplicated and capped at 10 entries.
func (c *Cache) AddSearchTerm(term string) error {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}

	terms := []string{term}
	for _, t := range c.SearchHistory() {
		if strings.EqualFold(t, term) {
			continue
		}
		terms = append(terms, t)
		if len(terms) == searchHistSize {
			break
		}
	}

	data, err := json.Marshal(terms)
	if err != nil {
		return err
	}
	return c.store.Set(searchHistKey, string(data))
}

func (c *Cache) expired(e *Entry) bool {
	age := c.now().UnixMilli() - e.Timestamp
	return age > Expiry.Milliseconds()
}

// encodeEntry serializes an entry to JSON and base64-encodes it to keep
// the stored form opaque and compact. Falls back to plain JSON when
// marshaling through the encoder is not possible.
func encodeEntry(e *Entry) string {
	data, err := json.Marshal(e)
	if err != nil {
		// Marshal of this shape cannot realistically fail; store an
		// empty versioned entry so the key never holds garbage.
		data = []byte(`{}`)
	}
	return base64.StdEncoding.EncodeToString(data)
}

// decodeEntry reverses encodeEntry, accepting plain JSON written by a
// fallback path or an older build rather than dropping the entry.
func decodeEntry(raw string) (*Entry, error) {
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		data = []byte(raw)
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}
