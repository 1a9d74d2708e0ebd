package retrieval

import "context"

// Embedder turns text into a dense vector
type Embedder interface {
	// Name returns the embedder identifier
	Name() string

	// Embed returns the embedding vector for the given text
	Embed(ctx context.Context, text string) ([]float32, error)
}
