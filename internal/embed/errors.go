// Package embed locates playable embed URLs for a title on the source
// site: translate the metadata id to a localized title, slugify it,
// scrape the page's inline JSON, resolve each per-language video entry
// concurrently, and retry once with a community fallback title when the
// primary lookup yields nothing.
package embed

import "fmt"

// NotFoundError is the single terminal failure of embed resolution:
// missing id, unparseable page JSON, or zero surviving candidates after
// the fallback-title retry.
type NotFoundError struct {
	Reason string
	Err    error
}

func (e *NotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("embed not found: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("embed not found: %s", e.Reason)
}

func (e *NotFoundError) Unwrap() error { return e.Err }
