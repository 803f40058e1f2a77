package embedding

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/hupe1980/threadmem/core"
)

// MockEmbedder is a lightweight in-memory Embedder useful for tests &
// examples. It returns canned vectors registered via AddVector and falls
// back to a deterministic hash-derived vector for unknown text, so equal
// inputs always embed identically. Calls are counted for collaboration
// assertions.
type MockEmbedder struct {
	mu      sync.Mutex
	dims    int
	vectors map[string][]float32
	calls   int
	err     error
}

// Compile-time interface conformance.
var _ core.Embedder = (*MockEmbedder)(nil)

// NewMockEmbedder constructs a MockEmbedder producing vectors of the given
// dimensionality.
func NewMockEmbedder(dims int) *MockEmbedder {
	return &MockEmbedder{dims: dims, vectors: make(map[string][]float32)}
}

// AddVector registers a deterministic canned vector for an input text.
func (m *MockEmbedder) AddVector(text string, vector []float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vectors[text] = vector
}

// FailWith makes every subsequent Embed call return err.
func (m *MockEmbedder) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Embed has been invoked.
func (m *MockEmbedder) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Embed implements core.Embedder.
func (m *MockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if v, ok := m.vectors[text]; ok {
		out := make([]float32, len(v))
		copy(out, v)
		return out, nil
	}
	return hashVector(text, m.dims), nil
}

// Dimensions implements core.Embedder.
func (m *MockEmbedder) Dimensions() int { return m.dims }

// Model implements core.Embedder.
func (m *MockEmbedder) Model() string { return "mock-embedder" }

// hashVector derives a stable pseudo-embedding from the text so unknown
// inputs still round-trip deterministically.
func hashVector(text string, dims int) []float32 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	state := h.Sum64()
	vec := make([]float32, dims)
	for i := range vec {
		// xorshift64 keeps the sequence stable per seed.
		state ^= state << 13
		state ^= state >> 7
		state ^= state << 17
		vec[i] = float32(int64(state%2000)-1000) / 1000
	}
	return vec
}
