package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/hyperifyio/lyricsai/internal/blocks"
	"github.com/hyperifyio/lyricsai/internal/candidates"
	"github.com/hyperifyio/lyricsai/internal/fetch"
	"github.com/hyperifyio/lyricsai/internal/finder"
	"github.com/hyperifyio/lyricsai/internal/metrics"
	"github.com/hyperifyio/lyricsai/internal/query"
	"github.com/hyperifyio/lyricsai/internal/search"
	selecter "github.com/hyperifyio/lyricsai/internal/select"
)

// ErrEmptyQuery is returned when a lookup has no title.
var ErrEmptyQuery = errors.New("empty song title")

// Deps carries collaborators that are not plain configuration. Zero values
// select the defaults.
type Deps struct {
	HTTPClient *http.Client
	Registerer prometheus.Registerer
	// Logger receives pipeline diagnostics. Nil discards them.
	Logger *zerolog.Logger
}

// App is a configured lyrics lookup pipeline.
type App struct {
	cfg     Config
	links   *candidates.Finder
	finder  *finder.Finder
	metrics *metrics.Metrics
	log     *zerolog.Logger
}

func New(cfg Config, deps Deps) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	hc := deps.HTTPClient
	if hc == nil {
		hc = newHighThroughputHTTPClient(cfg.Timeout, cfg.SSLVerify)
	}
	fc := &fetch.Client{
		HTTPClient:        hc,
		UserAgent:         cfg.UserAgent,
		MaxAttempts:       cfg.MaxAttempts,
		PerRequestTimeout: cfg.Timeout,
		MaxConcurrent:     cfg.MaxConcurrent,
	}
	m, err := metrics.New(deps.Registerer)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	logger := deps.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	provider, snippets := buildProvider(cfg, fc, hc)
	links := &candidates.Finder{
		Provider:     provider,
		Checker:      fc,
		NumResults:   cfg.NumResults,
		CheckWorkers: cfg.CheckWorkers,
		Policy: selecter.Options{
			MaxTotal:  cfg.MaxCandidates,
			Allow:     cfg.DomainAllowlist,
			Deny:      cfg.DomainDenylist,
			PerDomain: cfg.PerDomainCap,
		},
		Metrics: m,
		Logger:  logger,
	}
	f := &finder.Finder{
		Snippets:    snippets,
		Candidates:  links,
		Fetcher:     fc,
		Selector:    blocks.Selector{MinChars: cfg.MinChars},
		AcceptChars: cfg.AcceptChars,
		ScanWorkers: cfg.ScanWorkers,
		Metrics:     m,
		Logger:      logger,
	}
	logger.Debug().Str("provider", provider.Name()).Int("scanWorkers", cfg.ScanWorkers).Int("maxConcurrent", cfg.MaxConcurrent).Msg("lyrics pipeline ready")
	return &App{cfg: cfg, links: links, finder: f, metrics: m, log: logger}, nil
}

// buildProvider returns the configured search provider and, when it has a
// results page worth inspecting, the snippet source.
func buildProvider(cfg Config, fc *fetch.Client, hc *http.Client) (search.Provider, search.SnippetSource) {
	switch cfg.SearchProvider {
	case ProviderSearxNG:
		return &search.SearxNG{
			BaseURL:    cfg.SearxURL,
			APIKey:     cfg.SearxKey,
			Categories: cfg.SearxCategories,
			HTTPClient: hc,
			UserAgent:  cfg.UserAgent,
		}, nil
	case ProviderFile:
		return &search.FileProvider{Path: cfg.FileSearchPath}, nil
	default:
		g := &search.Google{BaseURL: cfg.SearchURL, Client: fc}
		return g, g
	}
}

// Find runs a lookup and surfaces why it failed.
func (a *App) Find(ctx context.Context, q query.Query) (finder.Result, error) {
	if q.IsZero() {
		return finder.Result{}, ErrEmptyQuery
	}
	return a.finder.Find(ctx, q)
}

// Links returns the ranked candidate pages for q without scanning them.
func (a *App) Links(ctx context.Context, q query.Query) ([]string, error) {
	if q.IsZero() {
		return nil, ErrEmptyQuery
	}
	return a.links.Links(ctx, q.SearchPhrase())
}

// Metrics exposes the lookup counters.
func (a *App) Metrics() *metrics.Metrics { return a.metrics }

// Run looks up q and writes the lyrics to w.
func (a *App) Run(ctx context.Context, q query.Query, w io.Writer) error {
	res, err := a.Find(ctx, q)
	if err != nil {
		return err
	}
	a.log.Info().Str("strategy", string(res.Strategy)).Str("url", res.SourceURL).Str("title", res.Title).Int("attempts", res.Attempts).Msg("lyrics found")
	if _, err := fmt.Fprintln(w, res.Text); err != nil {
		return fmt.Errorf("write lyrics: %w", err)
	}
	return nil
}
