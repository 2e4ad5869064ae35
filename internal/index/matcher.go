package index

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"streamdex/internal/media"
)

// Filename metadata extraction. All functions here are pure: the same
// input string always yields the same tag.

var (
	qualityRe = regexp.MustCompile(`(?i)(720p|1080p|2160p|4K)`)
	sourceRe  = regexp.MustCompile(`(?i)(BluRay|WEB-DL|WEBDL|WEBRip|HDRip|BRRip|DVDRip)`)

	// Episode-number heuristic, tried in order; first match wins:
	//   1. S01E02 / s1e2
	//   2. E02 / Ep02 / Ep.02 / Ep 02
	//   3. " - 02" separator form (Show - 02 - Title.mkv)
	episodeRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)[Ss]\d{1,2}[Ee](\d{1,3})`),
		regexp.MustCompile(`(?i)\bE[Pp]?\.?\s?(\d{1,3})\b`),
		regexp.MustCompile(`\s-\s(\d{1,3})\b`),
	}
)

// Quality extracts the resolution tag from a filename, uppercased.
// Returns "" when no tag is present.
func Quality(name string) string {
	return strings.ToUpper(qualityRe.FindString(name))
}

// Source extracts the release-source tag from a filename, with WEBDL
// normalized to WEB-DL.
func Source(name string) string {
	m := sourceRe.FindString(name)
	if m == "" {
		return ""
	}
	upper := strings.ToUpper(m)
	if upper == "WEBDL" {
		return "WEB-DL"
	}
	return upper
}

// Extension returns the final dot-suffix of a filename, uppercased,
// or "" when there is none.
func Extension(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 || idx == len(name)-1 {
		return ""
	}
	return strings.ToUpper(name[idx+1:])
}

// EpisodeNumber parses an episode number out of a filename using the
// ordered heuristic above. Returns 0 when no pattern matches.
func EpisodeNumber(name string) int {
	for _, re := range episodeRes {
		if m := re.FindStringSubmatch(name); m != nil {
			n, err := strconv.Atoi(m[1])
			if err == nil && n > 0 {
				return n
			}
		}
	}
	return 0
}

// GroupEpisodes buckets the video entries of a listing by parsed
// episode number. Entries that cannot be attributed to an episode land
// in the sentinel bucket 0. Every video entry appears in exactly one
// bucket, in original fetch order. Directories are not grouped.
func GroupEpisodes(entries []media.FileEntry) map[int][]media.FileEntry {
	groups := make(map[int][]media.FileEntry)
	for _, e := range entries {
		if !e.IsVideo {
			continue
		}
		n := EpisodeNumber(e.Name)
		groups[n] = append(groups[n], e)
	}
	return groups
}

// EpisodeNumbers returns the sorted non-sentinel bucket keys of groups.
func EpisodeNumbers(groups map[int][]media.FileEntry) []int {
	var nums []int
	for n := range groups {
		if n != 0 {
			nums = append(nums, n)
		}
	}
	sort.Ints(nums)
	return nums
}

// Filter retains entries whose name contains query case-insensitively.
// An empty query retains everything.
func Filter(entries []media.FileEntry, query string) []media.FileEntry {
	if query == "" {
		return entries
	}
	lower := strings.ToLower(query)
	var kept []media.FileEntry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Name), lower) {
			kept = append(kept, e)
		}
	}
	return kept
}

// Match-score tiers. Monotonic in match quality; an exact match for the
// currently targeted episode is always the top tier.
const (
	scoreExactEpisode     = 100
	scoreSecondaryEpisode = 90
	scoreQuerySubstring   = 70
	scoreAllWords         = 55
)

// Score computes a 0-100 relevance value for one entry against a
// targeted episode number (0 = none) and a free-text query ("" = none).
func Score(e media.FileEntry, episode int, query string) int {
	if episode > 0 && e.IsVideo {
		n := EpisodeNumber(e.Name)
		if n == episode {
			// SxxExx names are unambiguous; looser forms score one tier down.
			if episodeRes[0].MatchString(e.Name) {
				return scoreExactEpisode
			}
			return scoreSecondaryEpisode
		}
	}

	if query != "" {
		lowerName := strings.ToLower(e.Name)
		lowerQuery := strings.ToLower(query)
		if strings.Contains(lowerName, lowerQuery) {
			return scoreQuerySubstring
		}
		words := strings.Fields(lowerQuery)
		if len(words) > 0 {
			all := true
			for _, w := range words {
				if !strings.Contains(lowerName, w) {
					all = false
					break
				}
			}
			if all {
				return scoreAllWords
			}
		}
	}

	return 0
}

// Rank returns entries annotated with match scores, ordered best-first.
// Ties keep the original fetch order.
func Rank(entries []media.FileEntry, episode int, query string) []media.FileEntry {
	ranked := make([]media.FileEntry, len(entries))
	copy(ranked, entries)
	for i := range ranked {
		ranked[i].MatchScore = Score(ranked[i], episode, query)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MatchScore > ranked[j].MatchScore
	})
	return ranked
}
