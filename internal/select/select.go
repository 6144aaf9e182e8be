package selecter

import (
	"net/url"
	"strings"

	"github.com/hyperifyio/lyricsai/internal/search"
)

// Options configures which candidate hosts are tried.
type Options struct {
	// MaxTotal caps the number of results. Zero means unlimited.
	MaxTotal int
	// PerDomain caps results per host. Zero means unlimited.
	PerDomain int
	// Allow, when non-empty, keeps only these hosts and their subdomains.
	Allow []string
	// Deny drops these hosts and their subdomains. Deny takes precedence over Allow.
	Deny []string
}

// Select filters results by host policy while keeping rank order. Results
// without a parseable host are dropped.
func Select(results []search.Result, opt Options) []search.Result {
	domainCounts := map[string]int{}
	out := make([]search.Result, 0, len(results))
	for _, r := range results {
		u, err := url.Parse(strings.TrimSpace(r.URL))
		if err != nil || u.Host == "" {
			continue
		}
		host := strings.ToLower(u.Hostname())
		if matchesAny(host, opt.Deny) {
			continue
		}
		if len(opt.Allow) > 0 && !matchesAny(host, opt.Allow) {
			continue
		}
		if opt.PerDomain > 0 && domainCounts[host] >= opt.PerDomain {
			continue
		}
		domainCounts[host]++
		out = append(out, r)
		if opt.MaxTotal > 0 && len(out) >= opt.MaxTotal {
			break
		}
	}
	return out
}

// matchesAny reports whether host equals or is a subdomain of any entry.
func matchesAny(host string, domains []string) bool {
	for _, d := range domains {
		d = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(d), "."))
		if d == "" {
			continue
		}
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
