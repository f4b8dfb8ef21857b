package search

import "context"

// Result is one ranked web search hit.
type Result struct {
	Title   string
	Link    string
	Snippet string
}

// Provider describes a web search and page retrieval backend.
type Provider interface {
	Search(ctx context.Context, query string, limit int) ([]Result, error)
	Fetch(ctx context.Context, link string) (string, error)
}
