// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

package es

import (
	"encoding/json"

	"github.com/elastic/go-elasticsearch/v8"
)

// Client wraps the Elasticsearch client with staffsearch-specific functionality
type Client struct {
	es *elasticsearch.Client
}

// Hit is a single matched document from a search response.
type Hit struct {
	Index     string                 `json:"_index"`
	ID        string                 `json:"_id"`
	Score     float64                `json:"_score"`
	Source    json.RawMessage        `json:"_source,omitempty"`
	Highlight map[string][]string    `json:"highlight,omitempty"`
	InnerHits map[string]InnerResult `json:"inner_hits,omitempty"`
	Nested    *NestedIdentity        `json:"_nested,omitempty"`
}

// NestedIdentity locates an inner hit inside its parent document.
type NestedIdentity struct {
	Field  string `json:"field"`
	Offset int    `json:"offset"`
}

// InnerResult holds the nested sub-elements that matched for one path.
type InnerResult struct {
	Total int64 `json:"total"`
	Hits  []Hit `json:"hits"`
}

// SearchResult contains the relevance-ordered hits of a search.
type SearchResult struct {
	Took     int
	TimedOut bool
	Total    int64
	MaxScore float64
	Hits     []Hit
}

// IDs returns the document ids of all hits in order.
func (r *SearchResult) IDs() []string {
	if r == nil {
		return nil
	}
	ids := make([]string, 0, len(r.Hits))
	for _, h := range r.Hits {
		ids = append(ids, h.ID)
	}
	return ids
}

// Document is the result of a point lookup by id.
type Document struct {
	Index  string          `json:"_index"`
	ID     string          `json:"_id"`
	Found  bool            `json:"found"`
	Source json.RawMessage `json:"_source,omitempty"`
}

// BulkResult summarizes a bulk response.
type BulkResult struct {
	Took   int
	Errors bool
	Items  []BulkItem
}

// BulkItem is the per-action outcome inside a bulk response.
type BulkItem struct {
	Action string
	Index  string
	ID     string
	Status int
	Result string // created, updated, ...
	Error  *ErrorCause
}

// Failed returns the items that carry an error.
func (r *BulkResult) Failed() []BulkItem {
	if r == nil {
		return nil
	}
	var failed []BulkItem
	for _, item := range r.Items {
		if item.Error != nil {
			failed = append(failed, item)
		}
	}
	return failed
}

// ErrorCause is the "error" object of an Elasticsearch error response.
type ErrorCause struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
	Index  string `json:"index,omitempty"`
}
