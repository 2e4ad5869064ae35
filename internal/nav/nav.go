// Package nav maintains a browser-style back/forward stack over
// visited directory paths.
package nav

// History is an ordered stack of visited paths with a cursor.
// NavigateTo discards forward entries; Back and Forward only move the
// cursor. The zero value is ready to use.
type History struct {
	paths []string
	index int
}

// New creates an empty navigation history.
func New() *History {
	return &History{index: -1}
}

// NavigateTo records a visit to path, truncating any forward entries.
func (h *History) NavigateTo(path string) {
	if h.index < len(h.paths)-1 {
		h.paths = h.paths[:h.index+1]
	}
	h.paths = append(h.paths, path)
	h.index = len(h.paths) - 1
}

// Back moves the cursor one step back and returns the path there.
func (h *History) Back() (string, bool) {
	if !h.CanGoBack() {
		return "", false
	}
	h.index--
	return h.paths[h.index], true
}

// Forward moves the cursor one step forward and returns the path there.
func (h *History) Forward() (string, bool) {
	if !h.CanGoForward() {
		return "", false
	}
	h.index++
	return h.paths[h.index], true
}

// CanGoBack reports whether Back has somewhere to go.
func (h *History) CanGoBack() bool {
	return h.index > 0
}

// CanGoForward reports whether Forward has somewhere to go.
func (h *History) CanGoForward() bool {
	return h.index >= 0 && h.index < len(h.paths)-1
}

// Current returns the path at the cursor.
func (h *History) Current() (string, bool) {
	if h.index < 0 || h.index >= len(h.paths) {
		return "", false
	}
	return h.paths[h.index], true
}

// Len returns the number of recorded paths.
func (h *History) Len() int {
	return len(h.paths)
}
