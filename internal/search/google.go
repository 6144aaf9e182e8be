package search

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// DefaultGoogleURL is the results endpoint queried when BaseURL is empty.
const DefaultGoogleURL = "https://www.google.com/search"

var (
	resultContainer = cascadia.MustCompile(`div[class=yuRUbf]`)
	anchor          = cascadia.MustCompile(`a`)
)

// Google scrapes the HTML results page of the search engine.
type Google struct {
	// BaseURL is the full results endpoint, e.g. https://www.google.com/search.
	BaseURL string
	Client  Getter
}

func (g *Google) Name() string { return "google" }

// Page fetches the raw results page for query. A positive limit is sent as
// the num= result-count hint.
func (g *Google) Page(ctx context.Context, query string, limit int) ([]byte, error) {
	if g.Client == nil {
		return nil, errors.New("google: missing http client")
	}
	u, err := g.pageURL(query, limit)
	if err != nil {
		return nil, err
	}
	body, _, err := g.Client.Get(ctx, u)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// Search returns the primary link of every organic result container in
// page order. Containers without an href are skipped.
func (g *Google) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	body, err := g.Page(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	base, _ := url.Parse(g.baseURL())
	return ParseGoogleResults(body, base)
}

func (g *Google) baseURL() string {
	if g.BaseURL != "" {
		return g.BaseURL
	}
	return DefaultGoogleURL
}

func (g *Google) pageURL(query string, limit int) (string, error) {
	u, err := url.Parse(g.baseURL())
	if err != nil {
		return "", fmt.Errorf("google base url: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	if limit > 0 {
		q.Set("num", strconv.Itoa(limit))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ParseGoogleResults extracts result links from a results page. Relative
// links are resolved against base and /url?q= redirect wrappers unwrapped.
func ParseGoogleResults(body []byte, base *url.URL) ([]Result, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse results page: %w", err)
	}
	var out []Result
	doc.FindMatcher(resultContainer).Each(func(_ int, s *goquery.Selection) {
		a := s.FindMatcher(anchor).First()
		href, ok := a.Attr("href")
		href = strings.TrimSpace(href)
		if !ok || href == "" {
			return
		}
		out = append(out, Result{
			Title:  strings.TrimSpace(a.Find("h3").First().Text()),
			URL:    resolveHref(base, href),
			Source: "google",
		})
	})
	return out, nil
}

func resolveHref(base *url.URL, href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	relative := !u.IsAbs()
	if base != nil && relative {
		u = base.ResolveReference(u)
	}
	if relative && u.Path == "/url" {
		if target := u.Query().Get("q"); target != "" {
			return target
		}
		if target := u.Query().Get("url"); target != "" {
			return target
		}
	}
	return u.String()
}
