// Package openai provides a core.Embedder implementation using the OpenAI
// Embeddings API. It adapts the SDK's response into the fixed-dimension
// float32 vectors stored alongside content nodes.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/hupe1980/threadmem/core"
)

// Options configure the OpenAI embedder.
// Fields mirror a subset of the Embeddings API parameters intentionally kept
// minimal; the model identifier is configuration, not caller-selectable per
// request.
type Options struct {
	Model      openai.EmbeddingModel
	Dimensions int
}

// Embedder wraps the OpenAI Embeddings API behind the core.Embedder interface.
type Embedder struct {
	client *openai.Client
	opts   Options
}

// Compile-time interface conformance.
var _ core.Embedder = (*Embedder)(nil)

// NewEmbedder creates a new OpenAI embedder using the official client
// (credentials from the environment).
func NewEmbedder(optFns ...func(o *Options)) *Embedder {
	client := openai.NewClient()
	return NewEmbedderFromClient(&client, optFns...)
}

// NewEmbedderFromClient creates a new OpenAI embedder from an existing client.
func NewEmbedderFromClient(client *openai.Client, optFns ...func(o *Options)) *Embedder {
	opts := Options{
		Model:      openai.EmbeddingModelTextEmbedding3Small,
		Dimensions: 1536,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Embedder{client: client, opts: opts}
}

// Embed implements core.Embedder with a single synchronous API call.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("embed: empty text")
	}
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model: e.opts.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai embeddings: no data returned")
	}
	raw := resp.Data[0].Embedding
	vec := make([]float32, len(raw))
	for i, v := range raw {
		vec[i] = float32(v)
	}
	return vec, nil
}

// Dimensions implements core.Embedder.
func (e *Embedder) Dimensions() int { return e.opts.Dimensions }

// Model implements core.Embedder.
func (e *Embedder) Model() string { return string(e.opts.Model) }
