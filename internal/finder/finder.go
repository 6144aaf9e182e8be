// Package finder runs a lyrics lookup: the inline answer on the search
// results page first, then a scan of the ranked candidate pages.
package finder

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/hyperifyio/lyricsai/internal/blocks"
	"github.com/hyperifyio/lyricsai/internal/metrics"
	"github.com/hyperifyio/lyricsai/internal/query"
	"github.com/hyperifyio/lyricsai/internal/render"
	"github.com/hyperifyio/lyricsai/internal/search"
)

// DefaultAcceptChars is the rendered length a candidate page block must
// exceed before it is returned.
const DefaultAcceptChars = 600

// ErrNotFound is returned when no strategy produced lyrics.
var ErrNotFound = errors.New("lyrics not found")

// Strategy names the way lyrics were found.
type Strategy string

const (
	StrategySnippet Strategy = "snippet"
	StrategyDensity Strategy = "density"
)

// Result is a successful lookup.
type Result struct {
	Text      string
	SourceURL string
	// Title is the <title> of the source page, empty for snippets.
	Title    string
	Strategy Strategy
	// Attempts is the number of candidate pages examined, zero for snippets.
	Attempts int
}

// TransportError reports that the search listing itself could not be
// retrieved, as opposed to a lookup that ran and found nothing.
type TransportError struct {
	Stage string
	URL   string
	Err   error
}

func (e *TransportError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("%s: fetch %s: %v", e.Stage, e.URL, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// LinkFinder returns candidate page URLs in rank order.
type LinkFinder interface {
	Links(ctx context.Context, phrase string) ([]string, error)
}

// Finder wires the strategies together. Snippets may be nil when the
// configured provider has no results page to inspect.
type Finder struct {
	Snippets   search.SnippetSource
	Candidates LinkFinder
	Fetcher    search.Getter
	Selector   blocks.Selector
	// AcceptChars is the rendered rune count a candidate block must exceed.
	// Zero means DefaultAcceptChars.
	AcceptChars int
	// ScanWorkers above one scans candidates concurrently. The lowest ranked
	// success still wins.
	ScanWorkers int
	Metrics     *metrics.Metrics
	// Logger receives per-stage diagnostics. Nil discards them.
	Logger *zerolog.Logger
}

var nopLogger = zerolog.Nop()

func (f *Finder) logger() *zerolog.Logger {
	if f.Logger == nil {
		return &nopLogger
	}
	return f.Logger
}

// Find looks up lyrics for q.
func (f *Finder) Find(ctx context.Context, q query.Query) (Result, error) {
	res, err := f.find(ctx, q)
	var te *TransportError
	switch {
	case err == nil:
		f.Metrics.Lookup(string(res.Strategy))
	case errors.As(err, &te):
		f.Metrics.Lookup(metrics.OutcomeTransportError)
	case errors.Is(err, ErrNotFound):
		f.Metrics.Lookup(metrics.OutcomeNotFound)
	}
	return res, err
}

func (f *Finder) find(ctx context.Context, q query.Query) (Result, error) {
	phrase := q.SearchPhrase()

	if f.Snippets != nil {
		body, err := f.Snippets.Page(ctx, phrase, 0)
		if err != nil {
			f.logger().Warn().Err(err).Str("stage", "snippet").Str("query", phrase).Msg("search results page failed")
			return Result{}, &TransportError{Stage: "snippet", URL: failedURL(err), Err: err}
		}
		if text, ok := f.snippet(body); ok {
			f.logger().Debug().Str("stage", "snippet").Int("chars", utf8.RuneCountInString(text)).Msg("inline lyrics found")
			return Result{Text: text, Strategy: StrategySnippet}, nil
		}
	}

	if f.Candidates == nil {
		return Result{}, fmt.Errorf("%w: no candidate source", ErrNotFound)
	}
	links, err := f.Candidates.Links(ctx, phrase)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
		f.logger().Warn().Err(err).Str("stage", "candidates").Str("query", phrase).Msg("candidate search failed")
		return Result{}, &TransportError{Stage: "candidates", URL: failedURL(err), Err: err}
	}
	f.logger().Debug().Str("stage", "candidates").Int("count", len(links)).Msg("scanning candidates")

	if f.ScanWorkers > 1 && len(links) > 1 {
		return f.scanParallel(ctx, links)
	}
	return f.scanSequential(ctx, links)
}

// snippet renders the inline answer without the bracket filter.
func (f *Finder) snippet(body []byte) (string, bool) {
	doc, err := blocks.Parse(body)
	if err != nil {
		return "", false
	}
	n, ok := blocks.Snippet(doc)
	if !ok {
		return "", false
	}
	text := f.Selector.Render(n)
	return text, text != ""
}

func (f *Finder) scanSequential(ctx context.Context, links []string) (Result, error) {
	for i, u := range links {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if o := f.candidate(ctx, i, u); o.ok {
			return Result{Text: o.text, SourceURL: u, Title: o.title, Strategy: StrategyDensity, Attempts: i + 1}, nil
		}
	}
	return Result{}, fmt.Errorf("%w: %d candidates tried", ErrNotFound, len(links))
}

type outcome struct {
	text  string
	title string
	ok    bool
}

// scanParallel fetches candidates concurrently but consumes outcomes in
// rank order, so a slow high-ranked page still beats a fast low-ranked one.
func (f *Finder) scanParallel(ctx context.Context, links []string) (Result, error) {
	scanCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	outcomes := make([]chan outcome, len(links))
	for i := range outcomes {
		outcomes[i] = make(chan outcome, 1)
	}

	g, gctx := errgroup.WithContext(scanCtx)
	g.SetLimit(f.ScanWorkers)
	launched := make(chan struct{})
	go func() {
		defer close(launched)
		for i, u := range links {
			i, u := i, u
			if gctx.Err() != nil {
				return
			}
			g.Go(func() error {
				if gctx.Err() != nil {
					outcomes[i] <- outcome{}
					return nil
				}
				outcomes[i] <- f.candidate(gctx, i, u)
				return nil
			})
		}
	}()
	stop := func() {
		cancel()
		<-launched
		_ = g.Wait()
	}

	for i, u := range links {
		select {
		case o := <-outcomes[i]:
			if o.ok {
				stop()
				return Result{Text: o.text, SourceURL: u, Title: o.title, Strategy: StrategyDensity, Attempts: i + 1}, nil
			}
		case <-ctx.Done():
			stop()
			return Result{}, ctx.Err()
		}
	}
	stop()
	return Result{}, fmt.Errorf("%w: %d candidates tried", ErrNotFound, len(links))
}

// candidate fetches one page and applies the density strategy and the
// acceptance threshold. Failures are logged and counted, never returned.
func (f *Finder) candidate(ctx context.Context, rank int, u string) outcome {
	if f.Fetcher == nil {
		return outcome{}
	}
	body, _, err := f.Fetcher.Get(ctx, u)
	if err != nil {
		if ctx.Err() == nil {
			f.logger().Debug().Err(err).Str("stage", "scan").Str("url", u).Int("rank", rank).Msg("candidate fetch failed")
			f.Metrics.CandidateFailure(metrics.ReasonFetch)
		}
		return outcome{}
	}
	doc, err := blocks.Parse(body)
	if err != nil {
		f.logger().Debug().Err(err).Str("stage", "scan").Str("url", u).Int("rank", rank).Msg("candidate parse failed")
		f.Metrics.CandidateFailure(metrics.ReasonNoBlock)
		return outcome{}
	}
	b, text, ok := f.Selector.Select(doc)
	if b.Node == nil {
		f.logger().Debug().Str("stage", "scan").Str("url", u).Int("rank", rank).Msg("no candidate block")
		f.Metrics.CandidateFailure(metrics.ReasonNoBlock)
		return outcome{}
	}
	chars := utf8.RuneCountInString(text)
	if !ok || chars <= f.acceptChars() {
		f.logger().Debug().Str("stage", "scan").Str("url", u).Int("rank", rank).Int("chars", chars).Int("breaks", b.BreakCount).Msg("block too short")
		f.Metrics.CandidateFailure(metrics.ReasonTooShort)
		return outcome{}
	}
	filtered := render.RemoveLinesWithBrackets(text)
	if strings.TrimSpace(filtered) == "" {
		f.Metrics.CandidateFailure(metrics.ReasonTooShort)
		return outcome{}
	}
	f.logger().Debug().Str("stage", "scan").Str("url", u).Int("rank", rank).Int("chars", chars).Msg("lyrics block accepted")
	return outcome{text: filtered, title: render.Title(doc.Get(0)), ok: true}
}

func (f *Finder) acceptChars() int {
	if f.AcceptChars <= 0 {
		return DefaultAcceptChars
	}
	return f.AcceptChars
}

// failedURL recovers the request URL from a net/http error, if any.
func failedURL(err error) string {
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.URL
	}
	return ""
}
