package embed

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripDiacritics decomposes accented characters and removes the
// combining marks, so "Curación" becomes "Curacion".
var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify normalizes a display title into the source site's URL slug:
// diacritics stripped, lowercased, non-alphanumerics dropped (hyphens
// and spaces kept), whitespace collapsed to single hyphens, repeated
// hyphens collapsed.
func Slugify(title string) string {
	plain, _, err := transform.String(stripDiacritics, title)
	if err != nil {
		plain = title
	}

	var b strings.Builder
	for _, r := range strings.ToLower(plain) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	// Fields collapses runs of spaces, so repeated separators in the
	// source title come out as a single hyphen.
	return strings.Join(strings.Fields(b.String()), "-")
}
