package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/lyricsai/internal/app"
	"github.com/hyperifyio/lyricsai/internal/query"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	_ = app.LoadEnvFiles(".env")
	cfg, err := app.LoadConfig(os.Getenv("LYRICS_CONFIG"))
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	q := query.Query{Title: "Let It Be", Artist: "The Beatles"}
	if len(os.Args) > 1 {
		q = query.Parse(strings.Join(os.Args[1:], " "))
	}
	a, err := app.New(cfg, app.Deps{Logger: &log.Logger})
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	links, err := a.Links(ctx, q)
	fmt.Println("query:", q.SearchPhrase(), "provider:", cfg.SearchProvider)
	fmt.Println("err:", err)
	for i, u := range links {
		fmt.Printf("%d. %s\n", i+1, u)
	}
}
