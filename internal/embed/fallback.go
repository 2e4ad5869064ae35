package embed

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
)

// defaultFallbackURL points at the community-maintained title
// substitution table: a static JSON document keyed by metadata id.
// The host only serves plain HTTP, which is why this fetch bypasses
// the HTTPS-only relay client.
const defaultFallbackURL = "http://fallback-titles.wafflehacker.io/titles.json"

// fallbackTitle looks up an alternate title for id in the substitution
// table. Any failure (unreachable host, malformed JSON, absent key)
// just reports no fallback; the table is best-effort by nature.
func (r *Resolver) fallbackTitle(id int) (string, bool) {
	req, err := http.NewRequest(http.MethodGet, r.fallbackURL, nil)
	if err != nil {
		return "", false
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024*1024))
	if err != nil {
		return "", false
	}

	var table map[string]string
	if err := json.Unmarshal(body, &table); err != nil {
		return "", false
	}

	title, ok := table[strconv.Itoa(id)]
	return title, ok && title != ""
}

// SetFallbackURL overrides the substitution table location. Used by
// tests and by deployments mirroring the table.
func (r *Resolver) SetFallbackURL(u string) {
	if u != "" {
		r.fallbackURL = u
	}
}
