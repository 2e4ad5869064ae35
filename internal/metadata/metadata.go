// Package metadata is a thin client for the movie/TV metadata API.
// It is a read-only collaborator: search, details, localized titles and
// trending lists. The movie/TV discriminant is resolved here, at the
// API boundary, so nothing downstream inspects raw field shapes.
package metadata

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"streamdex/internal/httputil"
	"streamdex/internal/media"
)

// Client talks to a TMDB-style metadata API.
type Client struct {
	base   string
	apiKey string
	locale string
	client *http.Client
}

// New creates a metadata client.
func New(base, apiKey, locale string) *Client {
	return &Client{
		base:   strings.TrimRight(base, "/"),
		apiKey: apiKey,
		locale: locale,
		client: httputil.NewClient(),
	}
}

// rawResult is the wire shape shared by movie and TV records. Movies
// carry title/release_date, shows carry name/first_air_date; the
// discriminant is folded into media.Kind here and nowhere else.
type rawResult struct {
	ID            int    `json:"id"`
	MediaType     string `json:"media_type"`
	Title         string `json:"title"`
	Name          string `json:"name"`
	OriginalTitle string `json:"original_title"`
	OriginalName  string `json:"original_name"`
	ReleaseDate   string `json:"release_date"`
	FirstAirDate  string `json:"first_air_date"`
	SeasonCount   int    `json:"number_of_seasons"`
}

func (r rawResult) kind() (media.Kind, bool) {
	if r.MediaType != "" {
		k, err := media.ParseKind(r.MediaType)
		return k, err == nil
	}
	// Detail endpoints omit media_type; the caller already knows.
	return media.Movie, false
}

func (r rawResult) displayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Name
}

func (r rawResult) originalTitle() string {
	if r.OriginalTitle != "" {
		return r.OriginalTitle
	}
	return r.OriginalName
}

func (r rawResult) year() string {
	date := r.ReleaseDate
	if date == "" {
		date = r.FirstAirDate
	}
	if len(date) >= 4 {
		return date[:4]
	}
	return ""
}

// Search queries the multi-search endpoint and returns typed results.
// Records that are neither movies nor shows (people, collections) are
// dropped.
func (c *Client) Search(query string) ([]media.SearchResult, error) {
	endpoint := fmt.Sprintf("%s/search/multi?api_key=%s&language=%s&query=%s",
		c.base, url.QueryEscape(c.apiKey), url.QueryEscape(c.locale), url.QueryEscape(query))

	var payload struct {
		Results []rawResult `json:"results"`
	}
	if err := c.getJSON(endpoint, &payload); err != nil {
		return nil, fmt.Errorf("searching for %q: %w", query, err)
	}

	var results []media.SearchResult
	for _, r := range payload.Results {
		kind, ok := r.kind()
		if !ok {
			continue
		}
		title := r.displayTitle()
		if title == "" {
			continue
		}
		results = append(results, media.SearchResult{
			ID:    r.ID,
			Kind:  kind,
			Title: title,
			Year:  r.year(),
		})
	}

	return results, nil
}

// Details fetches full metadata for one title.
func (c *Client) Details(kind media.Kind, id int) (*media.Details, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid metadata id %d", id)
	}

	endpoint := fmt.Sprintf("%s/%s/%d?api_key=%s&language=%s",
		c.base, kind, id, url.QueryEscape(c.apiKey), url.QueryEscape(c.locale))

	var r rawResult
	if err := c.getJSON(endpoint, &r); err != nil {
		return nil, fmt.Errorf("getting %s details for id %d: %w", kind, id, err)
	}

	return &media.Details{
		ID:            id,
		Kind:          kind,
		Title:         r.displayTitle(),
		OriginalTitle: r.originalTitle(),
		Year:          r.year(),
		Seasons:       r.SeasonCount,
	}, nil
}

// Title returns the localized display title for a given id. locale
// overrides the client default when non-empty.
func (c *Client) Title(kind media.Kind, id int, locale string) (string, error) {
	if locale == "" {
		locale = c.locale
	}

	endpoint := fmt.Sprintf("%s/%s/%d?api_key=%s&language=%s",
		c.base, kind, id, url.QueryEscape(c.apiKey), url.QueryEscape(locale))

	var r rawResult
	if err := c.getJSON(endpoint, &r); err != nil {
		return "", fmt.Errorf("getting %s title for id %d: %w", kind, id, err)
	}

	title := r.displayTitle()
	if title == "" {
		return "", fmt.Errorf("no title for %s id %d", kind, id)
	}
	return title, nil
}

// Trending returns the daily trending list for a kind.
func (c *Client) Trending(kind media.Kind) ([]media.SearchResult, error) {
	endpoint := fmt.Sprintf("%s/trending/%s/day?api_key=%s&language=%s",
		c.base, kind, url.QueryEscape(c.apiKey), url.QueryEscape(c.locale))

	var payload struct {
		Results []rawResult `json:"results"`
	}
	if err := c.getJSON(endpoint, &payload); err != nil {
		return nil, fmt.Errorf("getting trending %s: %w", kind, err)
	}

	var results []media.SearchResult
	for _, r := range payload.Results {
		title := r.displayTitle()
		if title == "" {
			continue
		}
		results = append(results, media.SearchResult{
			ID:    r.ID,
			Kind:  kind,
			Title: title,
			Year:  r.year(),
		})
	}

	return results, nil
}

func (c *Client) getJSON(endpoint string, v interface{}) error {
	body, err := httputil.GetJSON(c.client, endpoint)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

// FormatDisplayTitle creates a display string for fzf selection.
func FormatDisplayTitle(r media.SearchResult) string {
	parts := []string{r.Title}
	if r.Year != "" {
		parts = append(parts, fmt.Sprintf("(%s)", r.Year))
	}
	if r.Kind == media.TV {
		parts = append(parts, "[TV]")
	} else {
		parts = append(parts, "[Movie]")
	}
	return strings.Join(parts, " ")
}
