package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentNode_DocumentID(t *testing.T) {
	n := &ContentNode{NodeID: "n1", Owner: "alice"}
	assert.Equal(t, "alice_n1", n.DocumentID())
}

func TestContentNode_Validate(t *testing.T) {
	valid := func() *ContentNode {
		return &ContentNode{NodeID: "n1", Owner: "alice", Content: "hi", Vector: []float32{1, 2, 3}}
	}

	assert.NoError(t, valid().Validate(3))
	assert.NoError(t, valid().Validate(0), "zero dims disables the length check")

	n := valid()
	n.NodeID = ""
	assert.ErrorIs(t, n.Validate(3), ErrMissingField)

	n = valid()
	n.Owner = ""
	assert.ErrorIs(t, n.Validate(3), ErrMissingField)

	n = valid()
	n.Content = ""
	assert.ErrorIs(t, n.Validate(3), ErrMissingField)

	n = valid()
	err := n.Validate(4)
	require.ErrorIs(t, err, ErrDimensionMismatch)
	var dimErr *DimensionError
	require.ErrorAs(t, err, &dimErr)
	assert.Equal(t, 4, dimErr.Want)
	assert.Equal(t, 3, dimErr.Got)
}

func TestContentNode_Clone(t *testing.T) {
	n := &ContentNode{NodeID: "n1", Owner: "alice", Content: "hi", Vector: []float32{1, 2}}
	c := n.Clone()
	c.Vector[0] = 99
	c.Content = "changed"
	assert.Equal(t, float32(1), n.Vector[0], "clone must not share vector storage")
	assert.Equal(t, "hi", n.Content)
}

// The JSON tags are the persisted record shape shared with pre-existing
// index contents; renaming any of them breaks interoperability.
func TestContentNode_WireFieldNames(t *testing.T) {
	n := ContentNode{
		NodeID:         "n1",
		ParentID:       "p1",
		Owner:          "alice",
		Creator:        "bot",
		CreatorIP:      "1.2.3.4",
		Content:        "hello",
		Vector:         []float32{0.5},
		Importance:     1.5,
		CreationTime:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		LastAccessTime: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		ContentType:    1,
	}
	raw, err := json.Marshal(n)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))

	want := []string{
		"content_node_id",
		"parent_id",
		"content_owner",
		"content_creator",
		"creator_ip",
		"generated_content",
		"content_vector",
		"content_importance",
		"content_creation_time",
		"content_last_access_time",
		"content_leaf_depth",
		"content_type",
	}
	assert.Len(t, fields, len(want))
	for _, name := range want {
		assert.Contains(t, fields, name)
	}
}
