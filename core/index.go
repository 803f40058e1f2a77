package core

import "context"

// Spec is a structured search request against a SearchIndex. Concrete spec
// types live in the query package; Body renders the request in the store's
// wire shape (the de facto schema shared with pre-existing index contents).
type Spec interface {
	Body() (map[string]any, error)
}

// Hit is one retrieved node with the score the index ranked it by. For
// blended-relevance queries the score is the summed factor total, not the
// store's raw text-match score.
type Hit struct {
	ID    string
	Score float64
	Node  ContentNode
}

// Result is the envelope returned by SearchIndex.Search. Hits arrive in the
// order the spec's sort clauses produced.
type Result struct {
	Total int64
	Hits  []Hit
}

// WriteAck is the store's acknowledgement of an upsert.
type WriteAck struct {
	// Result is the store's outcome tag, "created" or "updated".
	Result  string
	Index   string
	ID      string
	Version int64
}

// SearchIndex is the document/vector store boundary. A single logical index
// holds all content nodes regardless of owner. Implementations can back
// search with any engine able to honor the spec's scoring and sort
// semantics; storage, durability and query execution are entirely theirs.
// Short method names align with the store's own API surface.
type SearchIndex interface {
	// Search executes a ranked-retrieval or thread spec against the named
	// index.
	Search(ctx context.Context, index string, spec Spec) (*Result, error)

	// Index upserts one node under an explicit document id, creating or
	// fully overwriting the record (no field merging).
	Index(ctx context.Context, index, id string, node *ContentNode) (*WriteAck, error)
}
