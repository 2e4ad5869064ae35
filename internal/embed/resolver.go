package embed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"streamdex/internal/httputil"
	"streamdex/internal/media"
)

// jsonMarker identifies the inline script carrying the page's embedded
// data blob; the JSON object starts at the marker.
const jsonMarker = `{"props":{"pageProps"`

// streamURLRe matches the JS string-literal assignment on an embed page
// that carries the actual stream URL.
var streamURLRe = regexp.MustCompile(`(?:var|let|const)\s+url\s*=\s*['"]([^'"]+)['"]`)

// embedDomains is the allow-list of known embed hosting providers.
// Candidates resolving anywhere else are discarded.
var embedDomains = []string{
	"streamwish.to",
	"filemoon.sx",
	"voe.sx",
	"vidhidepro.com",
	"filelions.to",
}

// streamwishTag is the provider that gets a 3-way language sub-tag.
const streamwishTag = "streamwish"

// languageOrder fixes the iteration order over per-language video
// arrays so joined results are deterministic.
var languageOrder = []string{"latino", "spanish", "english"}

// Relay fetches a remote URL body. Satisfied by *relay.Client.
type Relay interface {
	Fetch(target string) ([]byte, error)
}

// TitleSource supplies localized titles for metadata ids. Satisfied by
// *metadata.Client.
type TitleSource interface {
	Title(kind media.Kind, id int, locale string) (string, error)
}

// Request identifies the content to resolve embeds for.
type Request struct {
	ID      int
	Kind    media.Kind
	Season  int // episodes only
	Episode int // episodes only
}

// Resolver locates embed URLs on the source site.
type Resolver struct {
	base        string // source site base URL
	relay       Relay
	titles      TitleSource
	locale      string
	fallbackURL string
	client      *http.Client
}

// New creates a Resolver against the source site at base.
func New(base string, r Relay, titles TitleSource, locale string) *Resolver {
	return &Resolver{
		base:        strings.TrimRight(base, "/"),
		relay:       r,
		titles:      titles,
		locale:      locale,
		fallbackURL: defaultFallbackURL,
		client:      httputil.NewClient(),
	}
}

// Resolve runs the full pipeline: title lookup, page scrape, concurrent
// per-candidate stream resolution, and one fallback-title retry. The
// only terminal failure is *NotFoundError.
func (r *Resolver) Resolve(req Request) ([]media.EmbedCandidate, error) {
	if req.ID <= 0 {
		return nil, &NotFoundError{Reason: "missing metadata id"}
	}

	title, err := r.titles.Title(req.Kind, req.ID, r.locale)
	if err != nil {
		return nil, &NotFoundError{Reason: "resolving title", Err: err}
	}

	candidates, err := r.resolveTitle(req, title)
	if err != nil {
		return nil, err
	}
	if len(candidates) > 0 {
		return candidates, nil
	}

	// No embeds under the primary title: consult the community-maintained
	// substitution table and retry exactly once.
	alt, ok := r.fallbackTitle(req.ID)
	if !ok || alt == title {
		return nil, &NotFoundError{Reason: fmt.Sprintf("no embeds for %q", title)}
	}

	candidates, err = r.resolveTitle(req, alt)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, &NotFoundError{Reason: fmt.Sprintf("no embeds for %q or fallback %q", title, alt)}
	}
	return candidates, nil
}

// resolveTitle runs one scrape-and-resolve pass for a single title.
// Zero candidates with a parseable page is not an error here; the
// caller decides whether to retry or fail.
func (r *Resolver) resolveTitle(req Request, title string) ([]media.EmbedCandidate, error) {
	pageURL := r.pageURL(req, Slugify(title))

	page, err := r.relay.Fetch(pageURL)
	if err != nil {
		return nil, &NotFoundError{Reason: "fetching page", Err: err}
	}

	videos, err := parseVideoMap(page)
	if err != nil {
		return nil, &NotFoundError{Reason: "parsing page data", Err: err}
	}

	return r.resolveStreams(videos), nil
}

// pageURL builds the movie or episode page URL for a slug.
func (r *Resolver) pageURL(req Request, slug string) string {
	if req.Kind == media.TV {
		return fmt.Sprintf("%s/serie/%s/temporada/%d/episodio/%d", r.base, slug, req.Season, req.Episode)
	}
	return fmt.Sprintf("%s/pelicula/%s", r.base, slug)
}

// videoEntry is one per-language embed reference in the page data.
type videoEntry struct {
	Cyberlocker string `json:"cyberlocker"`
	Result      string `json:"result"`
	Quality     string `json:"quality"`
}

// pageData is the slice of the inline JSON blob the resolver needs.
// Movie pages nest videos under thisMovie, episode pages under episode.
type pageData struct {
	Props struct {
		PageProps struct {
			ThisMovie struct {
				Videos map[string][]videoEntry `json:"videos"`
			} `json:"thisMovie"`
			Episode struct {
				Videos map[string][]videoEntry `json:"videos"`
			} `json:"episode"`
		} `json:"pageProps"`
	} `json:"props"`
}

// parseVideoMap locates the inline script containing the JSON marker
// and parses the per-language video entries out of it. A missing marker
// or malformed JSON is a ParseError-grade failure wrapped with its
// cause, never silently swallowed.
func parseVideoMap(page []byte) (map[string][]videoEntry, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parsing page HTML: %w", err)
	}

	var blob string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if idx := strings.Index(text, jsonMarker); idx >= 0 {
			blob = text[idx:]
			return false
		}
		return true
	})

	if blob == "" {
		return nil, fmt.Errorf("page data marker not found")
	}

	// The script text continues past the data object, so decode a
	// single JSON value instead of insisting the whole slice is JSON.
	var data pageData
	if err := json.NewDecoder(strings.NewReader(blob)).Decode(&data); err != nil {
		return nil, fmt.Errorf("parsing page data JSON: %w", err)
	}

	videos := data.Props.PageProps.ThisMovie.Videos
	if len(videos) == 0 {
		videos = data.Props.PageProps.Episode.Videos
	}
	return videos, nil
}

// candidateResult makes the drop-failures-keep-going contract explicit:
// each slot holds either a candidate or the error that killed it.
type candidateResult struct {
	candidate media.EmbedCandidate
	err       error
}

// resolveStreams fans out one goroutine per video entry to resolve the
// actual stream URL, then joins in the original per-language iteration
// order. A dead embed drops only its own slot.
func (r *Resolver) resolveStreams(videos map[string][]videoEntry) []media.EmbedCandidate {
	type job struct {
		language string
		entry    videoEntry
	}

	var jobs []job
	for _, lang := range languageOrder {
		for _, entry := range videos[lang] {
			if entry.Result == "" {
				continue
			}
			jobs = append(jobs, job{language: lang, entry: entry})
		}
	}

	results := make([]candidateResult, len(jobs))
	var wg sync.WaitGroup
	for i, j := range jobs {
		wg.Add(1)
		go func(i int, j job) {
			defer wg.Done()
			results[i] = r.resolveOne(j.language, j.entry)
		}(i, j)
	}
	wg.Wait()

	var candidates []media.EmbedCandidate
	for _, res := range results {
		if res.err != nil {
			continue
		}
		candidates = append(candidates, res.candidate)
	}
	return candidates
}

// resolveOne fetches one embed page and extracts its stream URL.
func (r *Resolver) resolveOne(language string, entry videoEntry) candidateResult {
	resp, err := httputil.Get(r.client, entry.Result)
	if err != nil {
		return candidateResult{err: fmt.Errorf("fetching embed page: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return candidateResult{err: fmt.Errorf("embed page status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 5*1024*1024))
	if err != nil {
		return candidateResult{err: fmt.Errorf("reading embed page: %w", err)}
	}

	m := streamURLRe.FindSubmatch(body)
	if m == nil {
		return candidateResult{err: fmt.Errorf("no stream URL in embed page")}
	}
	streamURL := string(m[1])

	if !httputil.HostAllowed(streamURL, embedDomains) {
		return candidateResult{err: fmt.Errorf("stream host not on allow-list: %s", streamURL)}
	}

	return candidateResult{candidate: media.EmbedCandidate{
		EmbedID: providerTag(entry.Cyberlocker, language),
		URL:     streamURL,
	}}
}

// providerTag derives the candidate's embed id from its cyberlocker
// name. Streamwish gets a 3-way language variant sub-tag; unrecognized
// languages default to latino.
func providerTag(cyberlocker, language string) string {
	tag := strings.ToLower(strings.TrimSpace(cyberlocker))
	if tag == "" {
		tag = "unknown"
	}
	if tag != streamwishTag {
		return tag
	}
	switch language {
	case "spanish", "english":
		return tag + "-" + language
	default:
		return tag + "-latino"
	}
}
