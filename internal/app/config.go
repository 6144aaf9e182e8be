package app

import (
	"time"

	"github.com/hyperifyio/lyricsai/internal/blocks"
	"github.com/hyperifyio/lyricsai/internal/candidates"
	"github.com/hyperifyio/lyricsai/internal/fetch"
	"github.com/hyperifyio/lyricsai/internal/finder"
	"github.com/hyperifyio/lyricsai/internal/search"
)

// Search provider names accepted by Config.SearchProvider.
const (
	ProviderGoogle  = "google"
	ProviderSearxNG = "searxng"
	ProviderFile    = "file"
)

// Config holds runtime configuration for a lookup.
type Config struct {
	// Search
	SearchProvider string
	SearchURL      string
	SearxURL       string
	SearxKey       string
	// SearxCategories is sent as the SearxNG categories parameter.
	SearxCategories string
	FileSearchPath  string
	NumResults      int
	// MaxCandidates caps the pages kept after host filtering. Zero means unlimited.
	MaxCandidates int

	// HTTP
	UserAgent   string
	Timeout     time.Duration
	MaxAttempts int
	SSLVerify   bool

	// Selection
	MinChars        int
	AcceptChars     int
	DomainAllowlist []string
	DomainDenylist  []string
	// PerDomainCap limits candidates per host. Zero means unlimited.
	PerDomainCap int

	// Concurrency
	CheckWorkers int
	ScanWorkers  int
	// MaxConcurrent caps in-flight HTTP requests across all workers. Zero
	// means unlimited.
	MaxConcurrent int

	Verbose bool
}

// DefaultConfig returns the configuration used when nothing else is set. It
// reproduces the reference behavior: the google results page, fifteen
// candidates and a strictly sequential scan.
func DefaultConfig() Config {
	return Config{
		SearchProvider:  ProviderGoogle,
		SearchURL:       search.DefaultGoogleURL,
		SearxCategories: search.DefaultSearxCategories,
		NumResults:      candidates.DefaultNumResults,
		UserAgent:       fetch.DefaultUserAgent,
		Timeout:         20 * time.Second,
		MaxAttempts:     1,
		SSLVerify:       true,
		MinChars:        blocks.DefaultMinChars,
		AcceptChars:     finder.DefaultAcceptChars,
		CheckWorkers:    candidates.DefaultCheckWorkers,
		ScanWorkers:     1,
	}
}
