package index

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	vecsearch "github.com/viant/vec/search"

	"github.com/hupe1980/threadmem/core"
	"github.com/hupe1980/threadmem/query"
)

// Options configure the in-memory index.
type Options struct {
	// Clock supplies "now" for the recency factor. Defaults to time.Now;
	// override in tests for deterministic decay.
	Clock func() time.Time
}

// InMemoryIndex is a volatile core.SearchIndex storing nodes in process
// local maps. It evaluates relevance and thread specs semantically: the
// text factor approximates the store's native match score with a query-term
// overlap count before the logistic squash, recency and similarity use the
// same closed-form factor math as the wire queries. Safe for concurrent
// access; every stored or returned node is cloned to prevent external
// mutation of internal state. Best suited for tests and ephemeral demos.
type InMemoryIndex struct {
	mu       sync.RWMutex
	docs     map[string]map[string]*core.ContentNode // index -> doc id -> node
	versions map[string]int64                        // index + doc id -> version
	clock    func() time.Time
}

// Compile-time interface conformance.
var _ core.SearchIndex = (*InMemoryIndex)(nil)

// NewInMemoryIndex constructs an empty in-memory index.
func NewInMemoryIndex(optFns ...func(o *Options)) *InMemoryIndex {
	opts := Options{Clock: time.Now}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &InMemoryIndex{
		docs:     make(map[string]map[string]*core.ContentNode),
		versions: make(map[string]int64),
		clock:    opts.Clock,
	}
}

// Index upserts a node under the explicit document id, fully overwriting any
// prior record (no field merging). Last write wins under concurrency.
func (s *InMemoryIndex) Index(ctx context.Context, index, id string, node *core.ContentNode) (*core.WriteAck, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[index]; !ok {
		s.docs[index] = make(map[string]*core.ContentNode)
	}
	result := "created"
	if _, ok := s.docs[index][id]; ok {
		result = "updated"
	}
	s.docs[index][id] = node.Clone()
	vk := index + "/" + id
	s.versions[vk]++
	return &core.WriteAck{Result: result, Index: index, ID: id, Version: s.versions[vk]}, nil
}

// Search evaluates a relevance or thread spec over the named index.
func (s *InMemoryIndex) Search(ctx context.Context, index string, spec core.Spec) (*core.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch sp := spec.(type) {
	case *query.RelevanceSpec:
		return s.searchRelevance(index, sp)
	case *query.ThreadSpec:
		return s.searchThread(index, sp)
	default:
		return nil, fmt.Errorf("in-memory index: unsupported spec type %T", spec)
	}
}

func (s *InMemoryIndex) searchRelevance(index string, sp *query.RelevanceSpec) (*core.Result, error) {
	if sp.Scope.Owner == "" && sp.Scope.IP == "" {
		return nil, query.ErrScopeMissing
	}
	now := s.clock()
	queryTerms := tokenize(sp.Text)

	var hits []core.Hit
	for id, node := range s.docs[index] {
		if sp.Scope.Owner != "" && node.Owner != sp.Scope.Owner {
			continue
		}
		if sp.Scope.IP != "" && node.CreatorIP != sp.Scope.IP {
			continue
		}

		score := sp.Scoring.RecencyFactor(node.LastAccessTime, now) + node.Importance
		if len(queryTerms) > 0 {
			if overlap := matchScore(queryTerms, node.Content); overlap > 0 {
				score += sp.Scoring.TextFactor(overlap)
			}
		}
		if sp.Vector != nil {
			score += sp.Scoring.SimilarityFactor(cosine(sp.Vector, node.Vector))
		}
		hits = append(hits, core.Hit{ID: id, Score: score, Node: *node.Clone()})
	}

	// Blended score descending, creation time descending on ties.
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Node.CreationTime.After(hits[j].Node.CreationTime)
	})
	total := int64(len(hits))
	if sp.Size > 0 && len(hits) > sp.Size {
		hits = hits[:sp.Size]
	}
	return &core.Result{Total: total, Hits: hits}, nil
}

func (s *InMemoryIndex) searchThread(index string, sp *query.ThreadSpec) (*core.Result, error) {
	if len(sp.IDs) == 0 {
		return nil, query.ErrNoIDs
	}
	wanted := make(map[string]struct{}, len(sp.IDs))
	for _, id := range sp.IDs {
		wanted[id] = struct{}{}
	}
	var hits []core.Hit
	for id, node := range s.docs[index] {
		_, self := wanted[node.NodeID]
		_, child := wanted[node.ParentID]
		if !self && !child {
			continue
		}
		hits = append(hits, core.Hit{ID: id, Node: *node.Clone()})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Node.CreationTime.Before(hits[j].Node.CreationTime)
	})
	return &core.Result{Total: int64(len(hits)), Hits: hits}, nil
}

// matchScore counts how many distinct query terms occur in the content,
// standing in for the store's native match score. The logistic squash keeps
// the approximation's magnitude from mattering.
func matchScore(queryTerms []string, content string) float64 {
	contentTerms := make(map[string]struct{})
	for _, t := range tokenize(content) {
		contentTerms[t] = struct{}{}
	}
	var n float64
	for _, t := range queryTerms {
		if _, ok := contentTerms[t]; ok {
			n++
		}
	}
	return n
}

func tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

// cosine returns the cosine similarity between two vectors, 0 for empty,
// mismatched or zero-magnitude input.
func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	va := vecsearch.Float32s(a)
	ma := va.Magnitude()
	mb := vecsearch.Float32s(b).Magnitude()
	if ma == 0 || mb == 0 {
		return 0
	}
	return 1 - float64(va.CosineDistanceWithMagnitudesNeon(b, ma, mb))
}
