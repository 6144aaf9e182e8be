// Package candidates turns a search phrase into the ranked list of pages
// worth scanning for lyrics.
package candidates

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/hyperifyio/lyricsai/internal/aggregate"
	"github.com/hyperifyio/lyricsai/internal/metrics"
	"github.com/hyperifyio/lyricsai/internal/search"
	selecter "github.com/hyperifyio/lyricsai/internal/select"
)

const (
	// DefaultNumResults is the result count requested from the provider.
	DefaultNumResults = 15
	// DefaultCheckWorkers bounds concurrent content-type checks.
	DefaultCheckWorkers = 4
)

var errNoProvider = errors.New("candidates: no search provider")

// Checker reports whether a URL serves an HTML page. fetch.Client satisfies it.
type Checker interface {
	IsWebpage(ctx context.Context, url string) bool
}

// Finder searches, de-duplicates, filters by host policy and keeps only
// links that answer as HTML pages.
type Finder struct {
	Provider     search.Provider
	Checker      Checker
	NumResults   int
	CheckWorkers int
	Policy       selecter.Options
	Metrics      *metrics.Metrics
	// Logger receives dropped-link diagnostics. Nil discards them.
	Logger *zerolog.Logger
}

// Links returns candidate page URLs for phrase in provider rank order. A
// provider failure is returned; check failures only drop the link.
func (f *Finder) Links(ctx context.Context, phrase string) ([]string, error) {
	if f.Provider == nil {
		return nil, errNoProvider
	}
	results, err := f.Provider.Search(ctx, phrase, f.numResults())
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", f.Provider.Name(), err)
	}
	results = aggregate.Dedupe(results)
	results = selecter.Select(results, f.Policy)

	urls := make([]string, len(results))
	for i, r := range results {
		urls[i] = r.URL
	}
	if f.Checker == nil {
		return urls, nil
	}

	keep := make([]bool, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.checkWorkers())
	for i, u := range urls {
		i, u := i, u
		g.Go(func() error {
			ok := f.Checker.IsWebpage(gctx, u)
			f.Metrics.PageCheck(ok)
			if !ok {
				f.logger().Debug().Str("stage", "candidates").Str("url", u).Int("rank", i).Msg("not an html page")
			}
			keep[i] = ok
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(urls))
	for i, u := range urls {
		if keep[i] {
			out = append(out, u)
		}
	}
	f.logger().Debug().Str("stage", "candidates").Int("found", len(results)).Int("html", len(out)).Msg("candidate links")
	return out, nil
}

var nopLogger = zerolog.Nop()

func (f *Finder) logger() *zerolog.Logger {
	if f.Logger == nil {
		return &nopLogger
	}
	return f.Logger
}

func (f *Finder) numResults() int {
	if f.NumResults <= 0 {
		return DefaultNumResults
	}
	return f.NumResults
}

func (f *Finder) checkWorkers() int {
	if f.CheckWorkers <= 0 {
		return DefaultCheckWorkers
	}
	return f.CheckWorkers
}
