// Package media defines shared types for the streamdex application.
package media

import "fmt"

// Kind represents whether content is a movie or TV show.
// It is resolved once at the metadata API boundary; nothing downstream
// infers the kind from field shapes.
type Kind int

const (
	Movie Kind = iota
	TV
)

func (k Kind) String() string {
	switch k {
	case Movie:
		return "movie"
	case TV:
		return "tv"
	default:
		return "unknown"
	}
}

// ParseKind maps a metadata-provider media_type string to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "movie":
		return Movie, nil
	case "tv", "show":
		return TV, nil
	default:
		return Movie, fmt.Errorf("unknown media kind %q", s)
	}
}

// VideoExtensions is the allow-list of playable file extensions,
// matched case-insensitively against the final dot-suffix.
var VideoExtensions = []string{"mkv", "mp4", "avi", "mov", "webm"}

// FileEntry is one discovered entry in a remote directory listing.
// Exactly one of IsDirectory/IsVideo is true for any surfaced entry;
// parent/self pseudo-entries are never surfaced.
type FileEntry struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	IsDirectory bool   `json:"isDirectory"`
	IsVideo     bool   `json:"isVideo"`
	Size        string `json:"size,omitempty"`
	MatchScore  int    `json:"matchScore,omitempty"` // 0-100, set only by ranking
}

// DirectoryListing is the parsed result of one directory fetch.
// Entries preserve document order; a listing is never mutated after
// creation (a re-fetch produces a new listing).
type DirectoryListing struct {
	Path    string      `json:"path"`
	Entries []FileEntry `json:"entries"`
}

// SearchResult is a single result from the metadata provider.
type SearchResult struct {
	ID    int    // provider-assigned numeric id
	Kind  Kind   // resolved at the API boundary
	Title string // display title in the request locale
	Year  string // release year, "" if unknown
}

// Details carries the metadata fields the resolution layer needs.
type Details struct {
	ID            int
	Kind          Kind
	Title         string
	OriginalTitle string
	Year          string
	Seasons       int
}

// EmbedCandidate is one playable embed located on the source site.
type EmbedCandidate struct {
	EmbedID string `json:"embedId"` // provider tag, e.g. "streamwish-latino"
	URL     string `json:"url"`
}

// WatchEntry is a single watch-progress record.
type WatchEntry struct {
	ID       int     `json:"id"`
	Title    string  `json:"title"`
	Kind     Kind    `json:"kind"`
	Season   int     `json:"season"`  // 0 for movies
	Episode  int     `json:"episode"` // 0 for movies
	Position float64 `json:"position"`
	Duration float64 `json:"duration"`
}

// WatchlistItem is a bookmarked title.
type WatchlistItem struct {
	ID    int    `json:"id"`
	Kind  Kind   `json:"kind"`
	Title string `json:"title"`
	Year  string `json:"year,omitempty"`
}
