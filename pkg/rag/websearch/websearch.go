package websearch

import "context"

// Result is one external search hit.
type Result struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
}

// Searcher produces external-source snippets when the knowledge base
// cannot answer. Implementations are swappable; callers only depend on
// this interface.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Result, error)
}
