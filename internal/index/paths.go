// Package index resolves titles to remote file-index paths, fetches and
// parses autoindex directory listings, and ranks the discovered files
// against a wanted episode or search query.
package index

import (
	"fmt"

	"streamdex/internal/httputil"
	"streamdex/internal/media"
)

// PathResolver builds canonical remote paths from display titles.
// Pure string construction; no network access.
type PathResolver struct {
	base       string // file-index server base URL
	moviesRoot string
	tvRoot     string
}

// NewPathResolver creates a resolver over the two well-known index roots.
func NewPathResolver(base, moviesRoot, tvRoot string) *PathResolver {
	return &PathResolver{base: base, moviesRoot: moviesRoot, tvRoot: tvRoot}
}

// MoviePath returns the candidate path for a movie title. When year is
// non-empty it is appended as a " (YYYY)" disambiguator; callers that
// get a miss on the year-qualified path retry with year == "".
func (r *PathResolver) MoviePath(title, year string) string {
	seg := title
	if year != "" {
		seg = fmt.Sprintf("%s (%s)", title, year)
	}
	return httputil.BuildURL(r.base, r.moviesRoot, seg) + "/"
}

// TVShowPath returns the candidate path for a show, descending into a
// "Season {n}" segment when season > 0.
func (r *PathResolver) TVShowPath(title string, season int) string {
	if season > 0 {
		return httputil.BuildURL(r.base, r.tvRoot, title, fmt.Sprintf("Season %d", season)) + "/"
	}
	return httputil.BuildURL(r.base, r.tvRoot, title) + "/"
}

// SearchRoot returns the bare movies or TV root, the starting point for
// manual browsing when automatic resolution fails.
func (r *PathResolver) SearchRoot(kind media.Kind) string {
	if kind == media.TV {
		return httputil.BuildURL(r.base, r.tvRoot) + "/"
	}
	return httputil.BuildURL(r.base, r.moviesRoot) + "/"
}
