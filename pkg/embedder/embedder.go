package embedder

import "context"

// Client generates fixed-dimension embedding vectors for text. The dimension
// is fixed per deployment; all facts in one graph share it.
type Client interface {
	// Embed generates embeddings for the given texts, one vector per text
	// in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedSingle generates an embedding for a single text.
	EmbedSingle(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the vector dimension produced by this client.
	Dimensions() int

	// Close cleans up any resources.
	Close() error
}

// Config holds shared embedding client settings.
type Config struct {
	Model      string
	Dimensions int
	BatchSize  int
}

// ZeroVector returns the zero embedding of the given dimension. Used as the
// stored fallback when a provider call fails.
func ZeroVector(dimensions int) []float32 {
	return make([]float32, dimensions)
}
