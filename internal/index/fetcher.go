package index

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"streamdex/internal/media"
)

// ParseError reports a structural assumption about fetched HTML that
// did not hold. The underlying cause is always preserved.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing listing at %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Relay fetches the body of a remote URL. Satisfied by *relay.Client.
type Relay interface {
	Fetch(target string) ([]byte, error)
}

// Fetcher retrieves and parses autoindex directory listings.
type Fetcher struct {
	relay Relay
}

// NewFetcher creates a Fetcher over the given relay client.
func NewFetcher(r Relay) *Fetcher {
	return &Fetcher{relay: r}
}

// Fetch retrieves the listing at path through the relay and parses it.
// Entries come back in document order. An empty listing is not an error.
func (f *Fetcher) Fetch(path string) (*media.DirectoryListing, error) {
	body, err := f.relay.Fetch(path)
	if err != nil {
		return nil, err
	}
	return ParseListing(path, body)
}

// ParseListing parses autoindex HTML into a DirectoryListing. Anchors
// ending in "/" become directories; anchors whose extension is on the
// video allow-list become videos; everything else (including ../ and ./
// pseudo-entries) is dropped.
func ParseListing(path string, html []byte) (*media.DirectoryListing, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	listing := &media.DirectoryListing{Path: path}

	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		if !exists || href == "" {
			return
		}
		if isPseudoEntry(href) {
			return
		}

		name := strings.TrimSpace(s.Text())
		if name == "" {
			name = decodeName(href)
		}

		if strings.HasSuffix(href, "/") {
			listing.Entries = append(listing.Entries, media.FileEntry{
				Name:        strings.TrimSuffix(name, "/"),
				URL:         resolveHref(path, href),
				IsDirectory: true,
			})
			return
		}

		if !isVideoName(href) {
			return
		}
		listing.Entries = append(listing.Entries, media.FileEntry{
			Name:    name,
			URL:     resolveHref(path, href),
			IsVideo: true,
			Size:    sizeFromRow(s),
		})
	})

	return listing, nil
}

// isPseudoEntry reports whether href is a parent/self navigation link.
func isPseudoEntry(href string) bool {
	switch strings.TrimSuffix(href, "/") {
	case "", ".", "..":
		return true
	}
	// Some autoindex pages link the parent as an absolute path or query sort links.
	return strings.HasPrefix(href, "?") || strings.HasPrefix(href, "#")
}

// isVideoName checks the final dot-suffix against the allow-list,
// case-insensitively. Unsupported extensions are dropped, never
// defaulted to video.
func isVideoName(name string) bool {
	idx := strings.LastIndex(name, ".")
	if idx < 0 || idx == len(name)-1 {
		return false
	}
	ext := strings.ToLower(name[idx+1:])
	for _, allowed := range media.VideoExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// resolveHref resolves an anchor href against the listing path.
// Autoindex hrefs are relative to the current directory, so the common
// case is plain concatenation.
func resolveHref(path, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "/") {
		// Absolute path on the same host.
		if u, err := url.Parse(path); err == nil && u.Host != "" {
			return u.Scheme + "://" + u.Host + href
		}
	}
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return path + href
}

// decodeName turns an href back into a display name when the anchor has
// no text of its own.
func decodeName(href string) string {
	trimmed := strings.TrimSuffix(href, "/")
	if decoded, err := url.PathUnescape(trimmed); err == nil {
		return decoded
	}
	return trimmed
}

// sizeFromRow extracts a best-effort size column from table-style
// autoindex pages (nginx fancyindex, Apache). Absent on plain listings.
func sizeFromRow(s *goquery.Selection) string {
	row := s.Closest("tr")
	if row.Length() == 0 {
		return ""
	}
	var size string
	row.Find("td").Each(func(_ int, td *goquery.Selection) {
		text := strings.TrimSpace(td.Text())
		if looksLikeSize(text) {
			size = text
		}
	})
	return size
}

func looksLikeSize(text string) bool {
	if text == "" || text == "-" {
		return false
	}
	upper := strings.ToUpper(text)
	for _, unit := range []string{"K", "M", "G", "T", "KB", "MB", "GB", "TB", "KIB", "MIB", "GIB"} {
		if strings.HasSuffix(upper, unit) && len(upper) > len(unit) {
			rest := strings.TrimSpace(upper[:len(upper)-len(unit)])
			if _, ok := parseFloatPrefix(rest); ok {
				return true
			}
		}
	}
	return false
}

func parseFloatPrefix(s string) (float64, bool) {
	var v float64
	if _, err := fmt.Sscanf(s, "%f", &v); err != nil {
		return 0, false
	}
	return v, true
}
