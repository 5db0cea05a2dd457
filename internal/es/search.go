// Copyright 2026 Elasticsearch B.V. and contributors
// SPDX-License-Identifier: Apache-2.0

package es

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/staffsearch/internal/es/errfmt"
)

// Search runs a search body against index and returns the hits in the
// engine's relevance order.
func (c *Client) Search(ctx context.Context, index string, queryJSON []byte) (*SearchResult, error) {
	body, statusCode, status, isError, err := doSearch(ctx, c.es, index, queryJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", index, err)
	}
	defer body.Close()

	if isError {
		respBody, _ := io.ReadAll(body)
		return nil, errfmt.WithQuery(parseResponseError(OpSearch, statusCode, status, respBody), queryJSON)
	}

	return parseSearchResponse(body)
}

type rawHits struct {
	Total struct {
		Value int64 `json:"value"`
	} `json:"total"`
	MaxScore *float64 `json:"max_score"`
	Hits     []rawHit `json:"hits"`
}

type rawHit struct {
	Index     string              `json:"_index"`
	ID        string              `json:"_id"`
	Score     *float64            `json:"_score"`
	Source    json.RawMessage     `json:"_source"`
	Highlight map[string][]string `json:"highlight"`
	Nested    *NestedIdentity     `json:"_nested"`
	InnerHits map[string]struct {
		Hits rawHits `json:"hits"`
	} `json:"inner_hits"`
}

func (h rawHit) toHit() Hit {
	hit := Hit{
		Index:     h.Index,
		ID:        h.ID,
		Source:    h.Source,
		Highlight: h.Highlight,
		Nested:    h.Nested,
	}
	// _score is null when a sort is applied
	if h.Score != nil {
		hit.Score = *h.Score
	}
	if len(h.InnerHits) > 0 {
		hit.InnerHits = make(map[string]InnerResult, len(h.InnerHits))
		for path, inner := range h.InnerHits {
			res := InnerResult{
				Total: inner.Hits.Total.Value,
				Hits:  make([]Hit, 0, len(inner.Hits.Hits)),
			}
			for _, ih := range inner.Hits.Hits {
				res.Hits = append(res.Hits, ih.toHit())
			}
			hit.InnerHits[path] = res
		}
	}
	return hit
}

func parseSearchResponse(body io.Reader) (*SearchResult, error) {
	var response struct {
		Took     int     `json:"took"`
		TimedOut bool    `json:"timed_out"`
		Hits     rawHits `json:"hits"`
	}

	if err := json.NewDecoder(body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	result := &SearchResult{
		Took:     response.Took,
		TimedOut: response.TimedOut,
		Total:    response.Hits.Total.Value,
		Hits:     make([]Hit, 0, len(response.Hits.Hits)),
	}
	if response.Hits.MaxScore != nil {
		result.MaxScore = *response.Hits.MaxScore
	}

	for _, h := range response.Hits.Hits {
		result.Hits = append(result.Hits, h.toHit())
	}

	return result, nil
}
