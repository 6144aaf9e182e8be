package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hyperifyio/lyricsai/internal/aggregate"
)

// ApplyEnvOverrides overrides cfg fields with environment variables that are
// set. It runs after the config file so env wins over file values, while
// flags applied afterwards stay highest precedence.
func ApplyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}

	if v := os.Getenv("LYRICS_SEARCH_PROVIDER"); v != "" {
		cfg.SearchProvider = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("LYRICS_SEARCH_URL"); v != "" {
		cfg.SearchURL = v
	}
	// Support both SEARX_URL and SEARXNG_URL; prefer SEARX_URL if set
	if v := os.Getenv("SEARXNG_URL"); v != "" {
		cfg.SearxURL = v
	}
	if v := os.Getenv("SEARX_URL"); v != "" {
		cfg.SearxURL = v
	}
	if v := os.Getenv("SEARXNG_KEY"); v != "" {
		cfg.SearxKey = v
	}
	if v := os.Getenv("SEARX_KEY"); v != "" {
		cfg.SearxKey = v
	}
	if v := os.Getenv("SEARX_CATEGORIES"); strings.TrimSpace(v) != "" {
		cfg.SearxCategories = strings.Join(SplitList(v), ",")
	}
	if v := os.Getenv("SEARCH_FILE"); v != "" {
		cfg.FileSearchPath = v
	}
	if v := os.Getenv("LYRICS_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}

	setInt := func(dst *int, envKey string) {
		if s := strings.TrimSpace(os.Getenv(envKey)); s != "" {
			if n, err := strconv.Atoi(s); err == nil {
				*dst = n
			}
		}
	}
	setInt(&cfg.NumResults, "LYRICS_NUM_RESULTS")
	setInt(&cfg.MinChars, "LYRICS_MIN_CHARS")
	setInt(&cfg.AcceptChars, "LYRICS_ACCEPT_CHARS")
	setInt(&cfg.CheckWorkers, "LYRICS_CHECK_WORKERS")
	setInt(&cfg.ScanWorkers, "LYRICS_SCAN_WORKERS")
	setInt(&cfg.MaxAttempts, "LYRICS_MAX_ATTEMPTS")
	setInt(&cfg.MaxConcurrent, "LYRICS_MAX_CONCURRENT")
	setInt(&cfg.MaxCandidates, "LYRICS_MAX_CANDIDATES")
	setInt(&cfg.PerDomainCap, "DOMAINS_PER_HOST")

	if s := os.Getenv("LYRICS_TIMEOUT"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			cfg.Timeout = d
		}
	}

	if v := os.Getenv("DOMAINS_ALLOW"); strings.TrimSpace(v) != "" {
		cfg.DomainAllowlist = SplitList(v)
	}
	if v := os.Getenv("DOMAINS_DENY"); strings.TrimSpace(v) != "" {
		cfg.DomainDenylist = SplitList(v)
	}

	// Booleans override when env present and truthy/falsey
	setBool := func(dst *bool, envKey string) {
		if s := strings.ToLower(strings.TrimSpace(os.Getenv(envKey))); s != "" {
			switch s {
			case "1", "true", "yes", "on":
				*dst = true
			case "0", "false", "no", "off":
				*dst = false
			}
		}
	}
	setBool(&cfg.Verbose, "VERBOSE")
	setBool(&cfg.SSLVerify, "SSL_VERIFY")
}

// SplitList parses a comma-separated list, dropping blanks and repeats.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			list = append(list, v)
		}
	}
	return aggregate.DedupeStrings(list)
}
