// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/elastic/staffsearch/internal/metrics"
)

// Operations are organized as follows:
// - Connection and write operations: client.go (NewFromConfig, Ping, CreateIndex, DeleteIndex, GetMapping, Bulk, Get, Count)
// - Search operations: search.go (Search, parseSearchResponse)
// - Error mapping: errors.go (ResponseError, BulkError, sentinels)

// DefaultURL is the local development endpoint.
const DefaultURL = "http://localhost:9200"

// NewFromConfig creates a client for url, authenticating with an API key when
// one is given and with basic auth otherwise.
func NewFromConfig(url, apiKey, username, password string) (*Client, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{url},
	}
	if apiKey != "" {
		cfg.APIKey = apiKey
	} else if username != "" {
		cfg.Username = username
		cfg.Password = password
	}
	return newClient(cfg)
}

func newClient(cfg elasticsearch.Config) (*Client, error) {
	es, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create ES client: %w", err)
	}
	return &Client{es: es}, nil
}

// observe records the outcome of one request. res is nil on transport errors.
func observe(op string, start time.Time, res *esapi.Response) {
	status := 0
	if res != nil {
		status = res.StatusCode
	}
	metrics.ObserveRequest(op, status, time.Since(start))
}

// Ping checks if Elasticsearch is reachable
func (c *Client) Ping(ctx context.Context) error {
	start := time.Now()
	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	observe(OpPing, start, res)
	if err != nil {
		return fmt.Errorf("failed to ping ES: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("ES ping failed: %s", res.Status())
	}

	return nil
}

// CreateIndex creates index with the given settings/mappings body.
// An existing index yields a *ResponseError matching ErrIndexExists.
func (c *Client) CreateIndex(ctx context.Context, index string, body []byte) error {
	start := time.Now()
	res, err := c.es.Indices.Create(
		index,
		c.es.Indices.Create.WithContext(ctx),
		c.es.Indices.Create.WithBody(bytes.NewReader(body)),
	)
	observe(OpCreateIndex, start, res)
	if err != nil {
		return fmt.Errorf("failed to create index %s: %w", index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return newResponseError(OpCreateIndex, res)
	}
	return nil
}

// DeleteIndex removes index. A missing index yields a *ResponseError
// matching ErrNotFound.
func (c *Client) DeleteIndex(ctx context.Context, index string) error {
	start := time.Now()
	res, err := c.es.Indices.Delete(
		[]string{index},
		c.es.Indices.Delete.WithContext(ctx),
	)
	observe(OpDeleteIndex, start, res)
	if err != nil {
		return fmt.Errorf("failed to delete index %s: %w", index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return newResponseError(OpDeleteIndex, res)
	}
	return nil
}

// GetMapping returns the mappings object of index.
func (c *Client) GetMapping(ctx context.Context, index string) (json.RawMessage, error) {
	start := time.Now()
	res, err := c.es.Indices.GetMapping(
		c.es.Indices.GetMapping.WithContext(ctx),
		c.es.Indices.GetMapping.WithIndex(index),
	)
	observe(OpGetMapping, start, res)
	if err != nil {
		return nil, fmt.Errorf("failed to get mapping of %s: %w", index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, newResponseError(OpGetMapping, res)
	}

	var response map[string]struct {
		Mappings json.RawMessage `json:"mappings"`
	}
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode mapping: %w", err)
	}
	entry, ok := response[index]
	if !ok {
		return nil, fmt.Errorf("mapping response has no entry for %s", index)
	}
	return entry.Mappings, nil
}

// IndexExists reports whether index exists.
func (c *Client) IndexExists(ctx context.Context, index string) (bool, error) {
	start := time.Now()
	res, err := c.es.Indices.Exists(
		[]string{index},
		c.es.Indices.Exists.WithContext(ctx),
	)
	observe(OpIndexExists, start, res)
	if err != nil {
		return false, fmt.Errorf("failed to check index %s: %w", index, err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, newResponseError(OpIndexExists, res)
	}
}

// Bulk submits an NDJSON bulk body in a single request. With refresh set the
// written documents are visible to searches as soon as Bulk returns.
//
// Per-item failures do not produce an error here; callers inspect
// BulkResult.Errors and BulkResult.Failed.
func (c *Client) Bulk(ctx context.Context, body []byte, refresh bool) (*BulkResult, error) {
	opts := []func(*esapi.BulkRequest){
		c.es.Bulk.WithContext(ctx),
	}
	if refresh {
		opts = append(opts, c.es.Bulk.WithRefresh("true"))
	}

	start := time.Now()
	res, err := c.es.Bulk(bytes.NewReader(body), opts...)
	observe(OpBulk, start, res)
	if err != nil {
		return nil, fmt.Errorf("failed to execute bulk: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, newResponseError(OpBulk, res)
	}

	return parseBulkResponse(res.Body)
}

func parseBulkResponse(body io.Reader) (*BulkResult, error) {
	var response struct {
		Took   int  `json:"took"`
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			Index  string      `json:"_index"`
			ID     string      `json:"_id"`
			Status int         `json:"status"`
			Result string      `json:"result"`
			Error  *ErrorCause `json:"error"`
		} `json:"items"`
	}

	if err := json.NewDecoder(body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode bulk response: %w", err)
	}

	result := &BulkResult{
		Took:   response.Took,
		Errors: response.Errors,
		Items:  make([]BulkItem, 0, len(response.Items)),
	}
	// Each item is a single-key object keyed by the action name.
	for _, item := range response.Items {
		for action, outcome := range item {
			result.Items = append(result.Items, BulkItem{
				Action: action,
				Index:  outcome.Index,
				ID:     outcome.ID,
				Status: outcome.Status,
				Result: outcome.Result,
				Error:  outcome.Error,
			})
		}
	}

	return result, nil
}

// Get fetches a single document by id. A missing document yields a
// *ResponseError matching ErrNotFound.
func (c *Client) Get(ctx context.Context, index, id string) (*Document, error) {
	start := time.Now()
	res, err := c.es.Get(index, id, c.es.Get.WithContext(ctx))
	observe(OpGet, start, res)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s/%s: %w", index, id, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, newResponseError(OpGet, res)
	}

	var doc Document
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return &doc, nil
}

// Count returns the number of documents in index.
func (c *Client) Count(ctx context.Context, index string) (int64, error) {
	start := time.Now()
	res, err := c.es.Count(
		c.es.Count.WithContext(ctx),
		c.es.Count.WithIndex(index),
	)
	observe(OpCount, start, res)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, newResponseError(OpCount, res)
	}

	var response struct {
		Count int64 `json:"count"`
	}
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return 0, fmt.Errorf("failed to parse response: %w", err)
	}
	return response.Count, nil
}
