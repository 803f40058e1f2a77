// Package elasticsearch provides an Elasticsearch backed core.SearchIndex
// using the official low-level client. Specs are executed by rendering their
// wire body verbatim, so records written here interoperate bit-for-bit with
// pre-existing index contents.
package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/hupe1980/threadmem/core"
)

// Index adapts an Elasticsearch cluster to the core.SearchIndex interface.
type Index struct {
	client *es.Client
}

// Compile-time interface conformance.
var _ core.SearchIndex = (*Index)(nil)

// NewIndex wraps an existing Elasticsearch client.
func NewIndex(client *es.Client) *Index {
	return &Index{client: client}
}

// NewIndexFromAddresses constructs a client for the given node addresses
// (e.g. "http://localhost:9200") and wraps it.
func NewIndexFromAddresses(addresses ...string) (*Index, error) {
	client, err := es.NewClient(es.Config{Addresses: addresses})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	return NewIndex(client), nil
}

// searchEnvelope mirrors the subset of the search response we consume.
type searchEnvelope struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string           `json:"_id"`
			Score  *float64         `json:"_score"`
			Source core.ContentNode `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// writeEnvelope mirrors the subset of the index response we consume.
type writeEnvelope struct {
	Index   string `json:"_index"`
	ID      string `json:"_id"`
	Version int64  `json:"_version"`
	Result  string `json:"result"`
}

// Search executes a spec against the named index and decodes the hits.
func (i *Index) Search(ctx context.Context, index string, spec core.Spec) (*core.Result, error) {
	body, err := spec.Body()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("encode search body: %w", err)
	}

	res, err := i.client.Search(
		i.client.Search.WithContext(ctx),
		i.client.Search.WithIndex(index),
		i.client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, apiError("search", index, res)
	}

	var envelope searchEnvelope
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	result := &core.Result{Total: envelope.Hits.Total.Value, Hits: make([]core.Hit, 0, len(envelope.Hits.Hits))}
	for _, h := range envelope.Hits.Hits {
		hit := core.Hit{ID: h.ID, Node: h.Source}
		if h.Score != nil {
			hit.Score = *h.Score
		}
		result.Hits = append(result.Hits, hit)
	}
	return result, nil
}

// Index upserts a node document under the explicit id, creating or fully
// overwriting the record.
func (i *Index) Index(ctx context.Context, index, id string, node *core.ContentNode) (*core.WriteAck, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(node); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	req := esapi.IndexRequest{Index: index, DocumentID: id, Body: &buf}
	res, err := req.Do(ctx, i.client)
	if err != nil {
		return nil, fmt.Errorf("index %q doc %q: %w", index, id, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, apiError("index", index, res)
	}

	var envelope writeEnvelope
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode index response: %w", err)
	}
	return &core.WriteAck{Result: envelope.Result, Index: envelope.Index, ID: envelope.ID, Version: envelope.Version}, nil
}

func apiError(op, index string, res *esapi.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(res.Body, 512))
	return fmt.Errorf("%s %q: %s: %s", op, index, res.Status(), bytes.TrimSpace(snippet))
}
