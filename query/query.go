package query

import (
	"fmt"

	"github.com/hupe1980/threadmem/core"
	"github.com/hupe1980/threadmem/scoring"
)

var (
	// ErrScopeMissing is returned when neither an owner nor a requester IP
	// is available to scope a relevance query. Scope is mandatory: the
	// query is never sent.
	ErrScopeMissing = fmt.Errorf("relevance query requires an owner or ip scope")

	// ErrNoIDs is returned when a thread spec is built without node ids.
	ErrNoIDs = fmt.Errorf("thread query requires at least one node id")
)

// Compile-time spec conformance.
var (
	_ core.Spec = (*RelevanceSpec)(nil)
	_ core.Spec = (*ThreadSpec)(nil)
)

// Scope restricts the candidate set of a relevance query. Exactly one field
// is set: Owner for an exact owner match, IP for a creator-ip match.
type Scope struct {
	Owner string
	IP    string
}

// ResolveScope picks the retrieval scope: a concrete owner wins, the
// sentinel owner (or none) falls back to the requester IP, and with neither
// the query must not run.
func ResolveScope(owner, ip string) (Scope, error) {
	if owner != "" && owner != core.DefaultOwner {
		return Scope{Owner: owner}, nil
	}
	if ip != "" {
		return Scope{IP: ip}, nil
	}
	return Scope{}, ErrScopeMissing
}

// RelevanceSpec is a ranked-retrieval request. Text and Vector are optional
// independently: an empty Text omits the text-relevance factor, a nil
// Vector omits the similarity factor. The remaining factors always apply.
type RelevanceSpec struct {
	Size    int
	Scope   Scope
	Text    string
	Vector  []float32
	Scoring scoring.Config
}

// NewRelevanceSpec validates the scope and assembles a relevance spec.
func NewRelevanceSpec(text string, vector []float32, owner, ip string, size int, cfg scoring.Config) (*RelevanceSpec, error) {
	scope, err := ResolveScope(owner, ip)
	if err != nil {
		return nil, err
	}
	return &RelevanceSpec{Size: size, Scope: scope, Text: text, Vector: vector, Scoring: cfg}, nil
}

// Body renders the function_score request: independent scoring functions
// summed ("score_mode": "sum") with the total replacing the base match
// score ("boost_mode": "replace"), plus a creation-time tie-break sort.
func (s *RelevanceSpec) Body() (map[string]any, error) {
	if s.Scope.Owner == "" && s.Scope.IP == "" {
		return nil, ErrScopeMissing
	}

	var scope map[string]any
	if s.Scope.Owner != "" {
		scope = map[string]any{"term": map[string]any{"content_owner": s.Scope.Owner}}
	} else {
		scope = map[string]any{"match": map[string]any{"creator_ip": s.Scope.IP}}
	}

	functions := make([]map[string]any, 0, 4)
	if s.Text != "" {
		functions = append(functions, map[string]any{
			"filter": map[string]any{"match": map[string]any{
				"generated_content": map[string]any{"query": s.Text},
			}},
			"script_score": map[string]any{"script": map[string]any{
				"source": fmt.Sprintf("1 / (1 + Math.exp(-_score / %.1f))", s.Scoring.LogisticDivisor),
			}},
		})
	}
	functions = append(functions,
		map[string]any{
			"filter": map[string]any{"match_all": map[string]any{}},
			"exp": map[string]any{"content_last_access_time": map[string]any{
				"scale": s.Scoring.ScaleString(),
				"decay": s.Scoring.Decay,
			}},
		},
		map[string]any{
			"filter": map[string]any{"match_all": map[string]any{}},
			"field_value_factor": map[string]any{
				"field":   "content_importance",
				"missing": 0,
			},
		},
	)
	if s.Vector != nil {
		source := "(cosineSimilarity(params.query_vector, 'content_vector') + 1.0) / 2.0"
		if s.Scoring.Remap == scoring.RemapShifted {
			source = "cosineSimilarity(params.query_vector, 'content_vector') + 1.0"
		}
		functions = append(functions, map[string]any{
			"filter": map[string]any{"match_all": map[string]any{}},
			"script_score": map[string]any{"script": map[string]any{
				"source": source,
				"params": map[string]any{"query_vector": s.Vector},
			}},
		})
	}

	return map[string]any{
		"size": s.Size,
		"query": map[string]any{
			"function_score": map[string]any{
				"query":      scope,
				"score_mode": "sum",
				"boost_mode": "replace",
				"functions":  functions,
			},
		},
		"sort": []map[string]any{
			{"content_creation_time": map[string]any{"order": "desc"}},
		},
	}, nil
}

// ThreadSpec fetches the given nodes and their direct children, index-wide
// (no owner scoping), in conversation chronological order.
type ThreadSpec struct {
	IDs []string
}

// NewThreadSpec assembles a thread spec over the given node ids.
func NewThreadSpec(ids []string) (*ThreadSpec, error) {
	if len(ids) == 0 {
		return nil, ErrNoIDs
	}
	return &ThreadSpec{IDs: ids}, nil
}

// Body renders the union query: a record matches if its parent_id or its
// own content_node_id is in the input set, at least one clause required.
func (s *ThreadSpec) Body() (map[string]any, error) {
	if len(s.IDs) == 0 {
		return nil, ErrNoIDs
	}
	return map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"should": []map[string]any{
					{"terms": map[string]any{"parent_id": s.IDs}},
					{"terms": map[string]any{"content_node_id": s.IDs}},
				},
				"minimum_should_match": 1,
			},
		},
		"sort": []map[string]any{
			{"content_creation_time": map[string]any{"order": "asc"}},
		},
	}, nil
}
