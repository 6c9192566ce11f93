// Package embedding provides text embedding backends and caching.
package embedding

import "context"

// Embedder produces fixed-dimension vector embeddings for text. All stored
// vectors and query vectors must come from embedders with the same Dimensions.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}
