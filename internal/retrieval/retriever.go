package retrieval

import "context"

// Retriever returns passages ranked by semantic similarity to a query.
// An empty result means nothing relevant is stored.
type Retriever interface {
	Search(ctx context.Context, query string, topK int) ([]string, error)
}
