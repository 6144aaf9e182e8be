package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// FileProvider loads search results from a local JSON file for offline and
// testing use. The file holds either an array of results, returned for every
// query, or an object mapping a query phrase to its array of results:
//
//	[{"title": "...", "url": "...", "snippet": "..."}]
//	{"yesterday lyrics": [{"url": "..."}]}
//
// Query keys are matched case-insensitively after trimming.
type FileProvider struct {
	Path string
}

func (f *FileProvider) Name() string { return "file" }

func (f *FileProvider) Search(_ context.Context, query string, limit int) ([]Result, error) {
	if strings.TrimSpace(f.Path) == "" {
		return nil, errors.New("file provider path is empty")
	}
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	raw, err := decodeResults(b, query)
	if err != nil {
		return nil, fmt.Errorf("file provider %s: %w", f.Path, err)
	}
	out := make([]Result, 0, len(raw))
	for _, r := range raw {
		if r.URL == "" {
			continue
		}
		r.Source = f.Name()
		out = append(out, r)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

type fileResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

func decodeResults(b []byte, query string) ([]Result, error) {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var byQuery map[string][]fileResult
		if err := json.Unmarshal(trimmed, &byQuery); err != nil {
			return nil, err
		}
		want := strings.ToLower(strings.TrimSpace(query))
		for k, v := range byQuery {
			if strings.ToLower(strings.TrimSpace(k)) == want {
				return toResults(v), nil
			}
		}
		return nil, nil
	}
	var list []fileResult
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return nil, err
	}
	return toResults(list), nil
}

func toResults(in []fileResult) []Result {
	out := make([]Result, 0, len(in))
	for _, r := range in {
		out = append(out, Result{Title: r.Title, URL: r.URL, Snippet: r.Snippet})
	}
	return out
}
