// Copyright 2026 Elasticsearch B.V. and contributors
// SPDX-License-Identifier: Apache-2.0

package es

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
)

// doSearch executes a search request with the provided body against index.
func doSearch(ctx context.Context, client *elasticsearch.Client, index string, queryJSON []byte) (io.ReadCloser, int, string, bool, error) {
	start := time.Now()
	res, err := client.Search(
		client.Search.WithContext(ctx),
		client.Search.WithIndex(index),
		client.Search.WithBody(bytes.NewReader(queryJSON)),
	)
	observe(OpSearch, start, res)
	if err != nil {
		return nil, 0, "", false, fmt.Errorf("failed to execute search: %w", err)
	}
	return res.Body, res.StatusCode, res.Status(), res.IsError(), nil
}
