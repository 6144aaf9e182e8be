package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultSearxCategories asks SearxNG for web pages plus its music engines,
// which index the lyrics sites directly.
const DefaultSearxCategories = "general,music"

// SearxNG implements Provider against a SearxNG instance's JSON /search
// endpoint. It has no inline lyrics answer, so lookups through it go straight
// to the candidate scan.
type SearxNG struct {
	BaseURL string
	APIKey  string // optional
	// Categories is the comma-separated SearxNG category list. Empty means
	// DefaultSearxCategories.
	Categories string
	HTTPClient *http.Client
	UserAgent  string // optional custom UA
}

func (s *SearxNG) Name() string { return "searxng" }

// Search sends the lyrics phrase unchanged and returns up to limit page
// results in engine rank order. Non-HTTP links are dropped.
func (s *SearxNG) Search(ctx context.Context, phrase string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 15
	}
	endpoint, err := s.endpoint(phrase)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}
	resp, err := s.client().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("searxng status: %d", resp.StatusCode)
	}

	var payload searxPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode searxng response: %w", err)
	}
	out := make([]Result, 0, min(limit, len(payload.Results)))
	for _, hit := range payload.Results {
		if len(out) == limit {
			break
		}
		link := strings.TrimSpace(hit.URL)
		if !isPageLink(link) {
			continue
		}
		out = append(out, Result{
			Title:   strings.TrimSpace(hit.Title),
			URL:     link,
			Snippet: strings.TrimSpace(hit.Content),
			Source:  s.Name(),
		})
	}
	return out, nil
}

func (s *SearxNG) endpoint(phrase string) (string, error) {
	if strings.TrimSpace(s.BaseURL) == "" {
		return "", errors.New("searxng: missing base url")
	}
	u, err := url.Parse(s.BaseURL)
	if err != nil {
		return "", fmt.Errorf("searxng: base url: %w", err)
	}
	if !strings.HasSuffix(u.Path, "/search") {
		u.Path = strings.TrimRight(u.Path, "/") + "/search"
	}
	categories := s.Categories
	if categories == "" {
		categories = DefaultSearxCategories
	}
	q := u.Query()
	q.Set("q", phrase)
	q.Set("format", "json")
	q.Set("categories", categories)
	if s.APIKey != "" {
		q.Set("apikey", s.APIKey)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (s *SearxNG) client() *http.Client {
	if s.HTTPClient != nil {
		return s.HTTPClient
	}
	return &http.Client{Timeout: 10 * time.Second}
}

func isPageLink(link string) bool {
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

type searxPayload struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}
