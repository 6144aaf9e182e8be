package aggregate

import (
	"strings"

	"github.com/hyperifyio/lyricsai/internal/search"
)

// Dedupe drops results whose URL string was already seen, keeping the first
// occurrence so rank order survives. URLs are compared exactly after
// trimming surrounding whitespace; empty URLs are dropped.
func Dedupe(results []search.Result) []search.Result {
	seen := make(map[string]struct{}, len(results))
	out := make([]search.Result, 0, len(results))
	for _, r := range results {
		key := strings.TrimSpace(r.URL)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		r.URL = key
		out = append(out, r)
	}
	return out
}

// DedupeStrings is Dedupe for plain URL lists.
func DedupeStrings(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
