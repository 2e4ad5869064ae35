package metadata

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"streamdex/internal/media"
)

const multiSearchJSON = `{
	"results": [
		{"id": 438631, "media_type": "movie", "title": "Dune", "release_date": "2021-10-22"},
		{"id": 1396, "media_type": "tv", "name": "Breaking Bad", "first_air_date": "2008-01-20"},
		{"id": 999, "media_type": "person", "name": "Some Actor"},
		{"id": 7, "media_type": "movie", "title": "", "release_date": ""}
	]
}`

func testServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, "test-key", "es-MX")
}

func TestSearchResolvesKindAtBoundary(t *testing.T) {
	c := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/search/multi") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("api_key") != "test-key" {
			t.Error("api_key not forwarded")
		}
		if r.URL.Query().Get("language") != "es-MX" {
			t.Error("locale not forwarded")
		}
		fmt.Fprint(w, multiSearchJSON)
	})

	results, err := c.Search("dune")
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}

	// Person records and empty titles are dropped.
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d: %+v", len(results), results)
	}

	if results[0].Kind != media.Movie || results[0].Title != "Dune" || results[0].Year != "2021" {
		t.Errorf("results[0] = %+v", results[0])
	}
	if results[1].Kind != media.TV || results[1].Title != "Breaking Bad" || results[1].Year != "2008" {
		t.Errorf("results[1] = %+v", results[1])
	}
}

func TestDetails(t *testing.T) {
	c := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tv/1396" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"id": 1396, "name": "Breaking Bad", "original_name": "Breaking Bad",
			"first_air_date": "2008-01-20", "number_of_seasons": 5}`)
	})

	details, err := c.Details(media.TV, 1396)
	if err != nil {
		t.Fatalf("Details() error: %v", err)
	}
	if details.Title != "Breaking Bad" || details.Seasons != 5 || details.Year != "2008" {
		t.Errorf("details = %+v", details)
	}
	if details.Kind != media.TV {
		t.Errorf("Kind = %v, want TV", details.Kind)
	}
}

func TestDetailsRejectsBadID(t *testing.T) {
	c := New("https://unused.example.com", "k", "en-US")
	if _, err := c.Details(media.Movie, 0); err == nil {
		t.Fatal("Details(0) should fail before any request")
	}
}

func TestTitleLocaleOverride(t *testing.T) {
	c := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("language") {
		case "en-US":
			fmt.Fprint(w, `{"id": 438631, "title": "Dune"}`)
		default:
			fmt.Fprint(w, `{"id": 438631, "title": "Duna"}`)
		}
	})

	title, err := c.Title(media.Movie, 438631, "en-US")
	if err != nil {
		t.Fatalf("Title() error: %v", err)
	}
	if title != "Dune" {
		t.Errorf("Title with override = %q, want Dune", title)
	}

	title, err = c.Title(media.Movie, 438631, "")
	if err != nil {
		t.Fatalf("Title() error: %v", err)
	}
	if title != "Duna" {
		t.Errorf("Title with default locale = %q, want Duna", title)
	}
}

func TestTrending(t *testing.T) {
	c := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/trending/tv/day" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"results": [{"id": 1, "name": "Show A", "first_air_date": "2024-05-01"}]}`)
	})

	results, err := c.Trending(media.TV)
	if err != nil {
		t.Fatalf("Trending() error: %v", err)
	}
	if len(results) != 1 || results[0].Kind != media.TV || results[0].Title != "Show A" {
		t.Errorf("results = %+v", results)
	}
}

func TestFormatDisplayTitle(t *testing.T) {
	got := FormatDisplayTitle(media.SearchResult{Title: "Dune", Year: "2021", Kind: media.Movie})
	if got != "Dune (2021) [Movie]" {
		t.Errorf("FormatDisplayTitle = %q", got)
	}
	got = FormatDisplayTitle(media.SearchResult{Title: "Dark", Kind: media.TV})
	if got != "Dark [TV]" {
		t.Errorf("FormatDisplayTitle = %q", got)
	}
}
