package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/lyricsai/internal/app"
	"github.com/hyperifyio/lyricsai/internal/finder"
	"github.com/hyperifyio/lyricsai/internal/query"
)

// options holds the command-line flags.
type options struct {
	configPath    string
	envFiles      string
	title         string
	artist        string
	searchURL     string
	provider      string
	numResults    int
	scanWorkers   int
	maxConcurrent int
	maxCandidates int
	timeout       time.Duration
	verbose       bool
	showVersion   bool
}

func newFlagSet(o *options) *flag.FlagSet {
	fs := flag.NewFlagSet("lyricsai", flag.ExitOnError)
	fs.StringVar(&o.configPath, "config", os.Getenv("LYRICS_CONFIG"), "Path to YAML or JSON config file")
	fs.StringVar(&o.envFiles, "env", ".env", "Comma-separated dotenv files to load before reading the environment")
	fs.StringVar(&o.title, "title", "", "Song title")
	fs.StringVar(&o.artist, "artist", "", "Artist name (optional)")
	fs.StringVar(&o.searchURL, "search.url", "", "Search results endpoint")
	fs.StringVar(&o.provider, "search.provider", "", "Search provider: google, searxng or file")
	fs.IntVar(&o.numResults, "num", 0, "Number of search results to consider")
	fs.IntVar(&o.scanWorkers, "workers.scan", 0, "Candidate pages fetched concurrently (1 = sequential)")
	fs.IntVar(&o.maxConcurrent, "max.concurrent", 0, "Cap on in-flight HTTP requests (0 = unlimited)")
	fs.IntVar(&o.maxCandidates, "max.candidates", 0, "Cap on candidate pages after host filtering (0 = unlimited)")
	fs.DurationVar(&o.timeout, "timeout", 0, "Per-request timeout")
	fs.BoolVar(&o.verbose, "v", false, "Verbose logging")
	fs.BoolVar(&o.showVersion, "version", false, "Print version and exit")
	return fs
}

// applyFlags overlays the flags explicitly set on fs onto cfg, so they take
// precedence over file and env values.
func applyFlags(fs *flag.FlagSet, o options, cfg *app.Config) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "search.url":
			cfg.SearchURL = o.searchURL
		case "search.provider":
			cfg.SearchProvider = strings.ToLower(strings.TrimSpace(o.provider))
		case "num":
			cfg.NumResults = o.numResults
		case "workers.scan":
			cfg.ScanWorkers = o.scanWorkers
		case "max.concurrent":
			cfg.MaxConcurrent = o.maxConcurrent
		case "max.candidates":
			cfg.MaxCandidates = o.maxCandidates
		case "timeout":
			cfg.Timeout = o.timeout
		case "v":
			cfg.Verbose = o.verbose
		}
	})
}

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var o options
	fs := newFlagSet(&o)
	_ = fs.Parse(os.Args[1:])

	if o.showVersion {
		fmt.Println(app.VersionString())
		return
	}

	if err := app.LoadEnvFiles(app.SplitList(o.envFiles)...); err != nil {
		log.Error().Err(err).Msg("load env files")
		os.Exit(1)
	}
	cfg, err := app.LoadConfig(o.configPath)
	if err != nil {
		log.Error().Err(err).Msg("load config")
		os.Exit(1)
	}
	applyFlags(fs, o, &cfg)

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	q := query.Query{Title: o.title, Artist: o.artist}
	if q.IsZero() {
		q = query.Parse(strings.Join(fs.Args(), " "))
	}
	if q.IsZero() {
		fmt.Fprintln(os.Stderr, "usage: lyricsai [flags] \"Title - Artist\"")
		fs.PrintDefaults()
		os.Exit(1)
	}

	a, err := app.New(cfg, app.Deps{Logger: &log.Logger})
	if err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := a.Run(ctx, q, os.Stdout); err != nil {
		var te *finder.TransportError
		switch {
		case errors.Is(err, finder.ErrNotFound):
			log.Warn().Str("query", q.Phrase()).Msg("no lyrics found")
		case errors.As(err, &te):
			log.Error().Err(err).Str("stage", te.Stage).Msg("search failed")
		default:
			log.Error().Err(err).Msg("lookup failed")
		}
		stop()
		os.Exit(2)
	}
}
