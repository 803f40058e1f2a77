package core

import (
	"time"
)

// DefaultOwner is the reserved sentinel owner meaning "no specific owner".
// Queries scoped to it fall back to IP-based scoping instead of an owner
// match.
const DefaultOwner = "default"

// ContentNode is one stored unit of conversational content. Nodes form a
// forest per owner via ParentID. The JSON tags are the persisted record
// shape shared with any pre-existing index contents and must not change.
type ContentNode struct {
	// NodeID is unique within an owner's scope.
	NodeID string `json:"content_node_id"`
	// ParentID references the node this one descends from; empty for roots.
	// Referential integrity is not enforced by the store, orphans are allowed.
	ParentID string `json:"parent_id"`
	// Owner is the logical user/session scope partitioning retrieval.
	Owner   string `json:"content_owner"`
	Creator string `json:"content_creator"`
	// CreatorIP records where the content originated and doubles as the
	// retrieval scope when Owner is the DefaultOwner sentinel.
	CreatorIP string `json:"creator_ip"`
	// Content is the raw generated text.
	Content string `json:"generated_content"`
	// Vector is the embedding of Content. Its length must equal the index's
	// configured dimensionality.
	Vector []float32 `json:"content_vector"`
	// Importance is a caller-supplied static priority independent of recency
	// or relevance. It contributes linearly and unbounded to the blended
	// score; absent means 0.
	Importance float64 `json:"content_importance"`
	// CreationTime is set once at insert.
	CreationTime time.Time `json:"content_creation_time"`
	// LastAccessTime drives the recency decay factor. It is stamped at
	// insert; refreshing it on read is opt-in (see the client's touch-on-read
	// option).
	LastAccessTime time.Time `json:"content_last_access_time"`
	// LeafDepth is carried for schema compatibility; always written as 0.
	LeafDepth int `json:"content_leaf_depth"`
	// ContentType is carried for schema compatibility; always written as 1.
	ContentType int `json:"content_type"`
}

// DocumentID returns the record identity within the index. Inserting with
// the same owner/node pair overwrites the prior record (upsert semantics).
func (n *ContentNode) DocumentID() string { return n.Owner + "_" + n.NodeID }

// Validate checks the fields required for persistence. dims is the index's
// configured vector dimensionality; a mismatching vector fails the write
// before it reaches the store.
func (n *ContentNode) Validate(dims int) error {
	switch {
	case n.NodeID == "":
		return &FieldError{Field: "content_node_id", Err: ErrMissingField}
	case n.Owner == "":
		return &FieldError{Field: "content_owner", Err: ErrMissingField}
	case n.Content == "":
		return &FieldError{Field: "generated_content", Err: ErrMissingField}
	}
	if dims > 0 && len(n.Vector) != dims {
		return &DimensionError{Want: dims, Got: len(n.Vector)}
	}
	return nil
}

// Clone returns a deep copy so callers can mutate results without touching
// store-internal state.
func (n *ContentNode) Clone() *ContentNode {
	c := *n
	if n.Vector != nil {
		c.Vector = make([]float32, len(n.Vector))
		copy(c.Vector, n.Vector)
	}
	return &c
}
