// Package lyricsai finds song lyrics by searching the web for the song and
// extracting the most lyrics-like block of text from the results.
//
// The package-level functions never fail: any failure, from a network error
// to a page without lyrics, yields an empty string. Use Lookup to learn why a
// lookup came back empty.
package lyricsai

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/hyperifyio/lyricsai/internal/app"
	"github.com/hyperifyio/lyricsai/internal/finder"
	"github.com/hyperifyio/lyricsai/internal/query"
)

// ErrNotFound is returned by Lookup when no strategy produced lyrics.
var ErrNotFound = finder.ErrNotFound

// ErrEmptyTitle is returned by Lookup when the title is blank.
var ErrEmptyTitle = app.ErrEmptyQuery

// TransportError is returned by Lookup when the search listing itself could
// not be fetched.
type TransportError = finder.TransportError

// Options tunes a Client. Zero values select the defaults.
type Options struct {
	HTTPClient *http.Client
	UserAgent  string
	// SearchURL is the results endpoint, https://www.google.com/search by default.
	SearchURL  string
	NumResults int
	// MinChars is the length a density block must exceed (200).
	MinChars int
	// AcceptChars is the length a candidate page block must exceed (600).
	AcceptChars  int
	CheckWorkers int
	// ScanWorkers above one fetches candidate pages concurrently.
	ScanWorkers int
	Timeout     time.Duration
	MaxAttempts int
	AllowHosts  []string
	DenyHosts   []string
	// PerHost caps candidates per host. Zero means unlimited.
	PerHost int
	// MaxCandidates caps the candidate pages considered. Zero means unlimited.
	MaxCandidates int
	// MaxConcurrent caps in-flight HTTP requests. Zero means unlimited.
	MaxConcurrent int
	// Registerer receives the lookup counters. Nil leaves them unregistered.
	// Clients sharing a Registerer share their counters.
	Registerer prometheus.Registerer
	// Logger receives lookup diagnostics. Nil keeps the client silent.
	Logger *zerolog.Logger
}

// Client looks up lyrics. It is safe for concurrent use.
type Client struct {
	app *app.App
}

// New builds a Client from opts.
func New(opts Options) (*Client, error) {
	cfg := app.DefaultConfig()
	if opts.UserAgent != "" {
		cfg.UserAgent = opts.UserAgent
	}
	if opts.SearchURL != "" {
		cfg.SearchURL = opts.SearchURL
	}
	if opts.NumResults > 0 {
		cfg.NumResults = opts.NumResults
	}
	if opts.MinChars > 0 {
		cfg.MinChars = opts.MinChars
	}
	if opts.AcceptChars > 0 {
		cfg.AcceptChars = opts.AcceptChars
	}
	if opts.CheckWorkers > 0 {
		cfg.CheckWorkers = opts.CheckWorkers
	}
	if opts.ScanWorkers > 0 {
		cfg.ScanWorkers = opts.ScanWorkers
	}
	if opts.Timeout > 0 {
		cfg.Timeout = opts.Timeout
	}
	if opts.MaxAttempts > 0 {
		cfg.MaxAttempts = opts.MaxAttempts
	}
	cfg.DomainAllowlist = opts.AllowHosts
	cfg.DomainDenylist = opts.DenyHosts
	cfg.PerDomainCap = opts.PerHost
	cfg.MaxCandidates = opts.MaxCandidates
	cfg.MaxConcurrent = opts.MaxConcurrent

	a, err := app.New(cfg, app.Deps{HTTPClient: opts.HTTPClient, Registerer: opts.Registerer, Logger: opts.Logger})
	if err != nil {
		return nil, err
	}
	return &Client{app: a}, nil
}

// Lookup returns lyrics for title and the optional artist, or the reason
// none were found.
func (c *Client) Lookup(ctx context.Context, title, artist string) (string, error) {
	res, err := c.app.Find(ctx, query.Query{Title: title, Artist: artist})
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// FindLyricsBySongTitle returns lyrics for title, or "" when none are found.
func (c *Client) FindLyricsBySongTitle(ctx context.Context, title string) string {
	text, _ := c.Lookup(ctx, title, "")
	return text
}

// FindLyricsBySongTitleAndArtist returns lyrics for title by artist, or ""
// when none are found.
func (c *Client) FindLyricsBySongTitleAndArtist(ctx context.Context, title, artist string) string {
	text, _ := c.Lookup(ctx, title, artist)
	return text
}

var (
	defaultOnce   sync.Once
	defaultClient *Client
	defaultErr    error
)

func getDefault() (*Client, error) {
	defaultOnce.Do(func() {
		defaultClient, defaultErr = New(Options{})
	})
	return defaultClient, defaultErr
}

// Lookup uses the default client.
func Lookup(ctx context.Context, title, artist string) (string, error) {
	c, err := getDefault()
	if err != nil {
		return "", err
	}
	return c.Lookup(ctx, title, artist)
}

// FindLyricsBySongTitle uses the default client.
func FindLyricsBySongTitle(ctx context.Context, title string) string {
	text, _ := Lookup(ctx, title, "")
	return text
}

// FindLyricsBySongTitleAndArtist uses the default client.
func FindLyricsBySongTitleAndArtist(ctx context.Context, title, artist string) string {
	text, _ := Lookup(ctx, title, artist)
	return text
}
