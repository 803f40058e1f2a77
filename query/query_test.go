package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/threadmem/scoring"
)

func TestResolveScope(t *testing.T) {
	s, err := ResolveScope("alice", "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, Scope{Owner: "alice"}, s, "concrete owner wins over ip")

	s, err = ResolveScope("default", "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, Scope{IP: "1.2.3.4"}, s, "sentinel owner falls back to ip")

	s, err = ResolveScope("", "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, Scope{IP: "1.2.3.4"}, s)

	_, err = ResolveScope("", "")
	assert.ErrorIs(t, err, ErrScopeMissing)

	_, err = ResolveScope("default", "")
	assert.ErrorIs(t, err, ErrScopeMissing)
}

func TestRelevanceSpec_BodyOwnerScope(t *testing.T) {
	spec, err := NewRelevanceSpec("hello world", []float32{0.1, 0.2}, "alice", "", 3, scoring.DefaultConfig())
	require.NoError(t, err)

	body, err := spec.Body()
	require.NoError(t, err)
	assert.Equal(t, 3, body["size"])

	fs := body["query"].(map[string]any)["function_score"].(map[string]any)
	assert.Equal(t, "sum", fs["score_mode"], "factors are summed, not multiplied")
	assert.Equal(t, "replace", fs["boost_mode"], "the sum replaces the base match score")
	assert.Equal(t,
		map[string]any{"term": map[string]any{"content_owner": "alice"}},
		fs["query"])

	functions := fs["functions"].([]map[string]any)
	require.Len(t, functions, 4)

	// Text factor: match-filtered logistic squash of the native score.
	text := functions[0]
	assert.Equal(t,
		map[string]any{"match": map[string]any{"generated_content": map[string]any{"query": "hello world"}}},
		text["filter"])
	script := text["script_score"].(map[string]any)["script"].(map[string]any)
	assert.Equal(t, "1 / (1 + Math.exp(-_score / 10.0))", script["source"])

	// Recency factor: exponential decay over the last-access stamp.
	decay := functions[1]["exp"].(map[string]any)["content_last_access_time"].(map[string]any)
	assert.Equal(t, "1h", decay["scale"])
	assert.Equal(t, 0.5, decay["decay"])

	// Importance factor: raw field value, missing means 0.
	fvf := functions[2]["field_value_factor"].(map[string]any)
	assert.Equal(t, "content_importance", fvf["field"])
	assert.Equal(t, 0, fvf["missing"])

	// Similarity factor: cosine remapped to [0,1].
	sim := functions[3]["script_score"].(map[string]any)["script"].(map[string]any)
	assert.Equal(t, "(cosineSimilarity(params.query_vector, 'content_vector') + 1.0) / 2.0", sim["source"])
	assert.Equal(t, map[string]any{"query_vector": []float32{0.1, 0.2}}, sim["params"])

	sort := body["sort"].([]map[string]any)
	require.Len(t, sort, 1)
	assert.Equal(t, map[string]any{"order": "desc"}, sort[0]["content_creation_time"])
}

func TestRelevanceSpec_BodyIPScope(t *testing.T) {
	spec, err := NewRelevanceSpec("hi", nil, "default", "10.0.0.7", 3, scoring.DefaultConfig())
	require.NoError(t, err)

	body, err := spec.Body()
	require.NoError(t, err)
	fs := body["query"].(map[string]any)["function_score"].(map[string]any)
	assert.Equal(t,
		map[string]any{"match": map[string]any{"creator_ip": "10.0.0.7"}},
		fs["query"])

	// No vector supplied: similarity function omitted.
	assert.Len(t, fs["functions"].([]map[string]any), 3)
}

func TestRelevanceSpec_BodyVectorOnly(t *testing.T) {
	spec, err := NewRelevanceSpec("", []float32{1, 0}, "bob", "", 5, scoring.DefaultConfig())
	require.NoError(t, err)

	body, err := spec.Body()
	require.NoError(t, err)
	assert.Equal(t, 5, body["size"])
	fs := body["query"].(map[string]any)["function_score"].(map[string]any)

	// No text: match-filtered function omitted, the rest remain.
	functions := fs["functions"].([]map[string]any)
	require.Len(t, functions, 3)
	_, hasExp := functions[0]["exp"]
	assert.True(t, hasExp, "first function should be the decay factor when text is absent")
}

func TestRelevanceSpec_ShiftedRemapVariant(t *testing.T) {
	cfg := scoring.DefaultConfig()
	cfg.Remap = scoring.RemapShifted
	spec, err := NewRelevanceSpec("", []float32{1, 0}, "bob", "", 5, cfg)
	require.NoError(t, err)

	body, err := spec.Body()
	require.NoError(t, err)
	functions := body["query"].(map[string]any)["function_score"].(map[string]any)["functions"].([]map[string]any)
	script := functions[2]["script_score"].(map[string]any)["script"].(map[string]any)
	assert.Equal(t, "cosineSimilarity(params.query_vector, 'content_vector') + 1.0", script["source"])
}

func TestNewRelevanceSpec_ScopeMissing(t *testing.T) {
	_, err := NewRelevanceSpec("hello", nil, "", "", 3, scoring.DefaultConfig())
	assert.ErrorIs(t, err, ErrScopeMissing)
}

func TestThreadSpec_Body(t *testing.T) {
	spec, err := NewThreadSpec([]string{"A", "B"})
	require.NoError(t, err)

	body, err := spec.Body()
	require.NoError(t, err)

	boolQ := body["query"].(map[string]any)["bool"].(map[string]any)
	should := boolQ["should"].([]map[string]any)
	require.Len(t, should, 2)
	assert.Equal(t, map[string]any{"parent_id": []string{"A", "B"}}, should[0]["terms"])
	assert.Equal(t, map[string]any{"content_node_id": []string{"A", "B"}}, should[1]["terms"])
	assert.Equal(t, 1, boolQ["minimum_should_match"], "union semantics, at least one clause must match")

	sort := body["sort"].([]map[string]any)
	require.Len(t, sort, 1)
	assert.Equal(t, map[string]any{"order": "asc"}, sort[0]["content_creation_time"])
}

func TestNewThreadSpec_NoIDs(t *testing.T) {
	_, err := NewThreadSpec(nil)
	assert.ErrorIs(t, err, ErrNoIDs)
}
