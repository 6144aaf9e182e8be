package search

import (
	"context"
)

// Result represents a single search hit from any provider.
type Result struct {
	Title   string
	URL     string
	Snippet string
	Source  string // provider name for observability
}

// Provider is a minimal interface for search providers. Results are
// returned in the provider's rank order.
type Provider interface {
	Search(ctx context.Context, query string, limit int) ([]Result, error)
	Name() string
}

// SnippetSource is implemented by providers that can return their raw
// results page, which may carry an inline lyrics answer.
type SnippetSource interface {
	Page(ctx context.Context, query string, limit int) ([]byte, error)
}

// Getter fetches a page body. fetch.Client satisfies it.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, string, error)
}
