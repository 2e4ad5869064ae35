package embed

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"streamdex/internal/media"
)

// relayFunc adapts a function to the Relay interface.
type relayFunc func(string) ([]byte, error)

func (f relayFunc) Fetch(target string) ([]byte, error) { return f(target) }

// titleFunc adapts a function to the TitleSource interface.
type titleFunc func(kind media.Kind, id int, locale string) (string, error)

func (f titleFunc) Title(kind media.Kind, id int, locale string) (string, error) {
	return f(kind, id, locale)
}

func fixedTitle(title string) TitleSource {
	return titleFunc(func(media.Kind, int, string) (string, error) { return title, nil })
}

// moviePage wraps a videos map into page HTML carrying the JSON marker,
// with trailing script text after the data object as real pages have.
func moviePage(videos string) []byte {
	return []byte(fmt.Sprintf(
		`<html><body><script>self.__DATA = {"props":{"pageProps":{"thisMovie":{"videos":%s}}}};next()</script></body></html>`,
		videos))
}

func newTestResolver(t *testing.T, r Relay, titles TitleSource) *Resolver {
	t.Helper()
	res := New("https://source.example.com", r, titles, "es-MX")
	// No fallback table unless a test installs one.
	res.SetFallbackURL("http://127.0.0.1:0/unreachable.json")
	return res
}

func TestResolveRequiresID(t *testing.T) {
	res := newTestResolver(t, relayFunc(func(string) ([]byte, error) {
		t.Fatal("no fetch expected")
		return nil, nil
	}), fixedTitle("x"))

	_, err := res.Resolve(Request{ID: 0, Kind: media.Movie})

	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %v, want *NotFoundError", err)
	}
}

func TestResolveMovie(t *testing.T) {
	embedSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<script>var url = 'https://streamwish.to/e/abc123';</script>`)
	}))
	defer embedSrv.Close()

	var fetchedPage string
	r := relayFunc(func(target string) ([]byte, error) {
		fetchedPage = target
		return moviePage(fmt.Sprintf(
			`{"latino":[{"cyberlocker":"streamwish","result":"%s","quality":"1080p"}]}`,
			embedSrv.URL)), nil
	})

	res := newTestResolver(t, r, fixedTitle("Curación Total"))

	candidates, err := res.Resolve(Request{ID: 42, Kind: media.Movie})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	if fetchedPage != "https://source.example.com/pelicula/curacion-total" {
		t.Errorf("page URL = %q", fetchedPage)
	}
	if len(candidates) != 1 {
		t.Fatalf("got %d candidates, want 1", len(candidates))
	}
	if candidates[0].EmbedID != "streamwish-latino" {
		t.Errorf("EmbedID = %q, want streamwish-latino", candidates[0].EmbedID)
	}
	if candidates[0].URL != "https://streamwish.to/e/abc123" {
		t.Errorf("URL = %q", candidates[0].URL)
	}
}

func TestResolveEpisodePageURL(t *testing.T) {
	var fetchedPage string
	r := relayFunc(func(target string) ([]byte, error) {
		fetchedPage = target
		return moviePage(`{}`), nil
	})

	res := newTestResolver(t, r, fixedTitle("Dark"))
	res.Resolve(Request{ID: 7, Kind: media.TV, Season: 2, Episode: 5})

	if fetchedPage != "https://source.example.com/serie/dark/temporada/2/episodio/5" {
		t.Errorf("page URL = %q", fetchedPage)
	}
}

func TestResolveDropsDeadAndDisallowedCandidates(t *testing.T) {
	goodSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `var url = "https://filemoon.sx/e/ok";`)
	}))
	defer goodSrv.Close()

	deadSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer deadSrv.Close()

	offListSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `var url = "https://evil.example.com/e/bad";`)
	}))
	defer offListSrv.Close()

	r := relayFunc(func(string) ([]byte, error) {
		return moviePage(fmt.Sprintf(`{
			"latino": [{"cyberlocker":"filemoon","result":"%s"}],
			"spanish": [{"cyberlocker":"voe","result":"%s"}],
			"english": [{"cyberlocker":"doodstream","result":"%s"}]
		}`, goodSrv.URL, deadSrv.URL, offListSrv.URL)), nil
	})

	res := newTestResolver(t, r, fixedTitle("Movie"))

	candidates, err := res.Resolve(Request{ID: 9, Kind: media.Movie})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	// One dead embed and one off-allow-list embed must not abort the rest.
	if len(candidates) != 1 {
		t.Fatalf("got %d candidates, want 1: %+v", len(candidates), candidates)
	}
	if candidates[0].EmbedID != "filemoon" || candidates[0].URL != "https://filemoon.sx/e/ok" {
		t.Errorf("candidate = %+v", candidates[0])
	}
}

func TestResolveParseFailureIsNotFound(t *testing.T) {
	r := relayFunc(func(string) ([]byte, error) {
		return []byte(`<html><body>no marker here</body></html>`), nil
	})

	res := newTestResolver(t, r, fixedTitle("Movie"))
	_, err := res.Resolve(Request{ID: 9, Kind: media.Movie})

	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %v, want *NotFoundError", err)
	}
	if !strings.Contains(err.Error(), "marker") {
		t.Errorf("underlying cause should be preserved, got %q", err.Error())
	}
}

func TestResolveFallbackTitleRetriesExactlyOnce(t *testing.T) {
	fallbackSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"12345": "Alt Title"}`)
	}))
	defer fallbackSrv.Close()

	var pages []string
	r := relayFunc(func(target string) ([]byte, error) {
		pages = append(pages, target)
		return moviePage(`{}`), nil // zero embeds on every attempt
	})

	res := newTestResolver(t, r, fixedTitle("Primary Title"))
	res.SetFallbackURL(fallbackSrv.URL)

	_, err := res.Resolve(Request{ID: 12345, Kind: media.Movie})

	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %v, want *NotFoundError", err)
	}

	if len(pages) != 2 {
		t.Fatalf("fetched %d pages, want exactly 2 (primary + one retry): %v", len(pages), pages)
	}
	if !strings.HasSuffix(pages[0], "/pelicula/primary-title") {
		t.Errorf("first attempt = %q", pages[0])
	}
	if !strings.HasSuffix(pages[1], "/pelicula/alt-title") {
		t.Errorf("retry should use the substituted title, got %q", pages[1])
	}
}

func TestResolveFallbackSuccess(t *testing.T) {
	embedSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `var url = "https://voe.sx/e/xyz";`)
	}))
	defer embedSrv.Close()

	fallbackSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"777": "Known Title"}`)
	}))
	defer fallbackSrv.Close()

	r := relayFunc(func(target string) ([]byte, error) {
		if strings.HasSuffix(target, "/pelicula/known-title") {
			return moviePage(fmt.Sprintf(`{"spanish":[{"cyberlocker":"voe","result":"%s"}]}`, embedSrv.URL)), nil
		}
		return moviePage(`{}`), nil
	})

	res := newTestResolver(t, r, fixedTitle("Unknown Title"))
	res.SetFallbackURL(fallbackSrv.URL)

	candidates, err := res.Resolve(Request{ID: 777, Kind: media.Movie})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if len(candidates) != 1 || candidates[0].EmbedID != "voe" {
		t.Fatalf("candidates = %+v", candidates)
	}
}

func TestProviderTag(t *testing.T) {
	tests := []struct {
		cyberlocker string
		language    string
		want        string
	}{
		{"streamwish", "latino", "streamwish-latino"},
		{"streamwish", "spanish", "streamwish-spanish"},
		{"streamwish", "english", "streamwish-english"},
		{"streamwish", "japanese", "streamwish-latino"}, // unrecognized defaults to latino
		{"Filemoon", "latino", "filemoon"},
		{"", "latino", "unknown"},
	}
	for _, tt := range tests {
		if got := providerTag(tt.cyberlocker, tt.language); got != tt.want {
			t.Errorf("providerTag(%q, %q) = %q, want %q", tt.cyberlocker, tt.language, got, tt.want)
		}
	}
}

func TestResolveOrderIsDeterministic(t *testing.T) {
	embedSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Every embed page resolves to a URL derived from its path.
		fmt.Fprintf(w, `var url = "https://streamwish.to/e/%s";`, strings.TrimPrefix(r.URL.Path, "/"))
	}))
	defer embedSrv.Close()

	r := relayFunc(func(string) ([]byte, error) {
		return moviePage(fmt.Sprintf(`{
			"english": [{"cyberlocker":"streamwish","result":"%s/en1"}],
			"latino": [{"cyberlocker":"streamwish","result":"%s/la1"},{"cyberlocker":"streamwish","result":"%s/la2"}],
			"spanish": [{"cyberlocker":"streamwish","result":"%s/es1"}]
		}`, embedSrv.URL, embedSrv.URL, embedSrv.URL, embedSrv.URL)), nil
	})

	res := newTestResolver(t, r, fixedTitle("Movie"))

	for run := 0; run < 3; run++ {
		candidates, err := res.Resolve(Request{ID: 1, Kind: media.Movie})
		if err != nil {
			t.Fatalf("Resolve() error: %v", err)
		}
		want := []string{
			"https://streamwish.to/e/la1",
			"https://streamwish.to/e/la2",
			"https://streamwish.to/e/es1",
			"https://streamwish.to/e/en1",
		}
		if len(candidates) != len(want) {
			t.Fatalf("got %d candidates, want %d", len(candidates), len(want))
		}
		for i, cand := range candidates {
			if cand.URL != want[i] {
				t.Fatalf("run %d: candidates out of order: %+v", run, candidates)
			}
		}
	}
}
