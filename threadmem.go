// Package threadmem is a thin integration layer connecting a document-store
// search engine with a text-embedding provider for conversational memory
// retrieval: tree-structured content nodes are persisted per owner and prior
// content is recalled for a new query via a blended relevance score (text
// match, recency decay, static importance, vector similarity). Most
// applications interact with this package by:
//  1. Creating a Client via New() (optionally overriding the in-memory index
//     and mock embedder with production backends)
//  2. Inserting content nodes as a conversation unfolds (Insert)
//  3. Recalling relevant history (Search / SearchByVector) and optionally
//     expanding matched nodes into full threads (FetchThread)
//
// All defaults are safe for local development and testing; production
// deployments typically supply the Elasticsearch index backend, the OpenAI
// embedder and a structured logger.
package threadmem

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/threadmem/core"
	"github.com/hupe1980/threadmem/embedding"
	"github.com/hupe1980/threadmem/extension"
	"github.com/hupe1980/threadmem/index"
	"github.com/hupe1980/threadmem/logging"
	"github.com/hupe1980/threadmem/query"
	"github.com/hupe1980/threadmem/scoring"
)

const (
	// DefaultIndexName is the single logical collection holding all content
	// nodes regardless of owner.
	DefaultIndexName = "lang_chat_content"

	// DefaultDimensions matches the observed embedding provider.
	DefaultDimensions = 1536

	// DefaultSearchSize is the fixed result cardinality of Search.
	DefaultSearchSize = 3

	// DefaultVectorSearchSize is the fixed result cardinality of SearchByVector.
	DefaultVectorSearchSize = 5
)

var (
	// ErrEmbeddingFailed wraps embedding-provider call failures.
	ErrEmbeddingFailed = fmt.Errorf("embedding provider call failed")

	// ErrStoreUnavailable wraps search-index call failures.
	ErrStoreUnavailable = fmt.Errorf("search index call failed")
)

// Options configures the Client.
type Options struct {
	// Index is the document/vector store backend (defaults to an in-memory
	// index if not provided).
	Index core.SearchIndex

	// Embedder computes vectors for text inserts that do not supply one
	// (defaults to a deterministic mock).
	Embedder core.Embedder

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger

	// IndexName is the logical collection name.
	IndexName string

	// Dimensions is the index's configured vector dimensionality. Zero
	// means "ask the embedder".
	Dimensions int

	// Scoring carries the blended-score parameters shared by all relevance
	// queries.
	Scoring scoring.Config

	// SearchSize and VectorSearchSize fix the top-K of the two search
	// variants; they are deployment configuration, not per-call knobs.
	SearchSize       int
	VectorSearchSize int

	// TouchOnRead refreshes content_last_access_time on every node a search
	// returns, making the recency factor track true last access. Off by
	// default: historically the stamp was only written at insert, so decay
	// degenerates to time-since-creation.
	TouchOnRead bool

	// Clock supplies the current instant for timestamps (defaults to
	// time.Now; override in tests).
	Clock func() time.Time
}

// Client is the high-level façade aggregating the index and embedder
// collaborators. It holds no mutable state of its own; every operation is a
// single synchronous round trip.
type Client struct {
	opts Options
}

// New creates a new Client with optional overrides. Any unset collaborator
// is initialized with an in-memory implementation.
func New(optFns ...func(o *Options)) *Client {
	opts := Options{
		Index:            index.NewInMemoryIndex(),
		Embedder:         embedding.NewMockEmbedder(DefaultDimensions),
		Logger:           logging.NoOpLogger{},
		IndexName:        DefaultIndexName,
		Scoring:          scoring.DefaultConfig(),
		SearchSize:       DefaultSearchSize,
		VectorSearchSize: DefaultVectorSearchSize,
		Clock:            time.Now,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Client{opts: opts}
}

// InsertParams are the inputs of Insert. Vector and Text select the write
// variant: a non-nil Vector is persisted as supplied, a nil Vector is
// computed from Text via the embedder. The two modes are mutually exclusive
// variants, not a fallback chain.
type InsertParams struct {
	// NodeID is the node's id within the owner's scope; empty generates one.
	NodeID string
	// ParentID is the node this one descends from; empty for roots.
	ParentID string
	// Owner scopes the node for retrieval; CreatorIP doubles as the scope
	// for the sentinel owner.
	Owner     string
	Creator   string
	CreatorIP string
	// Text is the raw generated content.
	Text string
	// Importance is the static priority contribution, unbounded.
	Importance float64
	// Vector is an optional precomputed embedding of Text.
	Vector []float32
}

// Insert persists one content node as a single record, keyed by
// owner + "_" + node id; re-inserting the same pair fully overwrites the
// prior record. Both timestamps are stamped with the same current instant.
func (c *Client) Insert(ctx context.Context, p InsertParams) (*core.WriteAck, error) {
	nodeID := p.NodeID
	if nodeID == "" {
		nodeID = uuid.NewString()
	}

	vector := p.Vector
	if vector == nil {
		v, err := c.opts.Embedder.Embed(ctx, p.Text)
		if err != nil {
			c.opts.Logger.Error("embedding failed", "model", c.opts.Embedder.Model(), "error", err)
			return nil, fmt.Errorf("%w: %w", ErrEmbeddingFailed, err)
		}
		vector = v
	}

	now := c.opts.Clock()
	node := &core.ContentNode{
		NodeID:         nodeID,
		ParentID:       p.ParentID,
		Owner:          p.Owner,
		Creator:        p.Creator,
		CreatorIP:      p.CreatorIP,
		Content:        p.Text,
		Vector:         vector,
		Importance:     p.Importance,
		CreationTime:   now,
		LastAccessTime: now,
		LeafDepth:      0,
		ContentType:    1,
	}
	if err := node.Validate(c.dimensions()); err != nil {
		c.opts.Logger.Error("invalid content node", "node_id", nodeID, "error", err)
		return nil, err
	}

	ack, err := c.opts.Index.Index(ctx, c.opts.IndexName, node.DocumentID(), node)
	if err != nil {
		c.opts.Logger.Error("index write failed", "doc_id", node.DocumentID(), "error", err)
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	c.opts.Logger.Debug("content node written", "doc_id", ack.ID, "result", ack.Result)
	return ack, nil
}

// Search returns the top matching nodes for a query, ranked by the blended
// score. Scope is mandatory: a concrete owner wins, the sentinel owner (or
// none) falls back to ip, and with neither the call fails fast with
// query.ErrScopeMissing before any external call. text and vector are each
// optional; supplying both blends all four factors.
func (c *Client) Search(ctx context.Context, text string, vector []float32, owner, ip string) ([]core.Hit, error) {
	spec, err := query.NewRelevanceSpec(text, vector, owner, ip, c.opts.SearchSize, c.opts.Scoring)
	if err != nil {
		c.opts.Logger.Warn("search without owner or ip scope")
		return nil, err
	}
	return c.search(ctx, spec)
}

// SearchByVector is the vector-only variant: no text factor, no IP fallback,
// a larger fixed top-K. The owner must be concrete.
func (c *Client) SearchByVector(ctx context.Context, vector []float32, owner string) ([]core.Hit, error) {
	spec, err := query.NewRelevanceSpec("", vector, owner, "", c.opts.VectorSearchSize, c.opts.Scoring)
	if err != nil {
		c.opts.Logger.Warn("vector search without owner scope")
		return nil, err
	}
	return c.search(ctx, spec)
}

func (c *Client) search(ctx context.Context, spec *query.RelevanceSpec) ([]core.Hit, error) {
	res, err := c.opts.Index.Search(ctx, c.opts.IndexName, spec)
	if err != nil {
		c.opts.Logger.Error("index search failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	hits := res.Hits
	if c.opts.TouchOnRead {
		c.touch(ctx, hits)
	}
	return hits, nil
}

// FetchThread retrieves the given nodes and their direct children, ordered
// by creation time ascending, to reconstruct a conversation thread. No
// owner scoping is applied.
func (c *Client) FetchThread(ctx context.Context, nodeIDs []string) ([]core.ContentNode, error) {
	spec, err := query.NewThreadSpec(nodeIDs)
	if err != nil {
		return nil, err
	}
	res, err := c.opts.Index.Search(ctx, c.opts.IndexName, spec)
	if err != nil {
		c.opts.Logger.Error("thread fetch failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	nodes := make([]core.ContentNode, 0, len(res.Hits))
	for _, h := range res.Hits {
		nodes = append(nodes, h.Node)
	}
	return nodes, nil
}

// InitExtensions initializes every extension in reg (the process-wide
// registry if nil) with this client's collaborators injected.
func (c *Client) InitExtensions(ctx context.Context, reg *extension.Registry) error {
	if reg == nil {
		reg = extension.Default()
	}
	return reg.InitAll(ctx, extension.Deps{
		Index:     c.opts.Index,
		Embedder:  c.opts.Embedder,
		IndexName: c.opts.IndexName,
		Logger:    c.opts.Logger,
	})
}

// touch re-indexes the hit nodes with a refreshed last-access stamp. The
// returned hits carry the refreshed stamp too. Touch failures are logged
// and never fail the read.
func (c *Client) touch(ctx context.Context, hits []core.Hit) {
	now := c.opts.Clock()
	for i := range hits {
		hits[i].Node.LastAccessTime = now
		node := hits[i].Node
		if _, err := c.opts.Index.Index(ctx, c.opts.IndexName, node.DocumentID(), &node); err != nil {
			c.opts.Logger.Warn("touch on read failed", "doc_id", node.DocumentID(), "error", err)
		}
	}
}

func (c *Client) dimensions() int {
	if c.opts.Dimensions > 0 {
		return c.opts.Dimensions
	}
	if c.opts.Embedder != nil {
		return c.opts.Embedder.Dimensions()
	}
	return 0
}
