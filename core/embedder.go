package core

import "context"

// Embedder is the text-embedding provider boundary: one synchronous call
// returning a fixed-dimension vector for a text input. The model identifier
// is provider configuration, not caller-selectable.
type Embedder interface {
	// Embed returns the embedding vector for text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the dimensionality of vectors produced by this
	// embedder (1536 for the observed OpenAI models).
	Dimensions() int

	// Model returns the fixed model identifier, useful for logging.
	Model() string
}
