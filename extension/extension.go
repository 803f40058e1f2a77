// Package extension provides an explicit registry for optional modules that
// build on top of the memory client (learning pipelines, recall hooks,
// maintenance jobs). Extensions are registered by an explicit call at
// startup and initialized in registration order with their collaborators
// injected; there is no directory scanning or import-side-effect discovery.
package extension

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/threadmem/core"
	"github.com/hupe1980/threadmem/logging"
)

// Deps are the collaborators handed to every extension at initialization.
type Deps struct {
	Index     core.SearchIndex
	Embedder  core.Embedder
	IndexName string
	Logger    logging.Logger
}

// Extension is an optional module initialized once at startup.
type Extension interface {
	// Name uniquely identifies the extension within a registry.
	Name() string
	// Init wires the extension to its collaborators. Returning an error
	// aborts initialization of the remaining extensions.
	Init(ctx context.Context, deps Deps) error
}

// Registry holds extensions in registration order.
type Registry struct {
	mu    sync.Mutex
	names map[string]struct{}
	exts  []Extension
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

// Register adds an extension; duplicate names are rejected.
func (r *Registry) Register(ext Extension) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.names[ext.Name()]; ok {
		return fmt.Errorf("extension %q already registered", ext.Name())
	}
	r.names[ext.Name()] = struct{}{}
	r.exts = append(r.exts, ext)
	return nil
}

// Extensions returns the registered extensions in registration order.
func (r *Registry) Extensions() []Extension {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Extension, len(r.exts))
	copy(out, r.exts)
	return out
}

// InitAll initializes every registered extension in order, stopping at the
// first failure.
func (r *Registry) InitAll(ctx context.Context, deps Deps) error {
	for _, ext := range r.Extensions() {
		if err := ext.Init(ctx, deps); err != nil {
			return fmt.Errorf("init extension %q: %w", ext.Name(), err)
		}
	}
	return nil
}

// defaultRegistry backs the package-level Register/Default helpers.
var defaultRegistry = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry { return defaultRegistry }

// Register adds an extension to the process-wide registry.
func Register(ext Extension) error { return defaultRegistry.Register(ext) }
