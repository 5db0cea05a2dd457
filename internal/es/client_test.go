// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

package es

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient points a Client at an httptest server. Every response carries
// the product header the client requires.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c, err := NewFromConfig(srv.URL, "", "", "")
	require.NoError(t, err)
	return c
}

func TestCreateIndex(t *testing.T) {
	t.Parallel()

	var gotBody string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/employees", r.URL.Path)
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		_, _ = io.WriteString(w, `{"acknowledged":true,"shards_acknowledged":true,"index":"employees"}`)
	})

	err := c.CreateIndex(context.Background(), "employees", []byte(`{"mappings":{}}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"mappings":{}}`, gotBody)
}

func TestCreateIndex_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantExists bool
		wantType   string
	}{
		{
			name:       "already exists",
			body:       `{"error":{"type":"resource_already_exists_exception","reason":"index [employees/abc] already exists","index":"employees"},"status":400}`,
			wantExists: true,
			wantType:   "resource_already_exists_exception",
		},
		{
			name:     "malformed mapping",
			body:     `{"error":{"type":"mapper_parsing_exception","reason":"No handler for type [strnig] declared on field [name]"},"status":400}`,
			wantType: "mapper_parsing_exception",
		},
		{
			name: "unparseable body",
			body: `bad request`,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = io.WriteString(w, tc.body)
			})

			err := c.CreateIndex(context.Background(), "employees", []byte(`{}`))
			require.Error(t, err)
			assert.Equal(t, tc.wantExists, errors.Is(err, ErrIndexExists))

			var respErr *ResponseError
			require.True(t, errors.As(err, &respErr))
			assert.Equal(t, http.StatusBadRequest, respErr.StatusCode)
			assert.Equal(t, tc.wantType, respErr.Cause.Type)
			assert.Equal(t, OpCreateIndex, respErr.Op)
		})
	}
}

func TestIndexExists(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		if r.URL.Path == "/employees" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	ok, err := c.IndexExists(context.Background(), "employees")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.IndexExists(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteIndex(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		if r.URL.Path == "/employees" {
			_, _ = io.WriteString(w, `{"acknowledged":true}`)
			return
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":{"type":"index_not_found_exception","reason":"no such index [missing]"},"status":404}`)
	})

	require.NoError(t, c.DeleteIndex(context.Background(), "employees"))

	err := c.DeleteIndex(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), OpDeleteIndex)
}

func TestGetMapping(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		if r.URL.Path == "/projects/_mapping" {
			_, _ = io.WriteString(w, `{"projects":{"mappings":{"properties":{"budget":{"type":"float"}}}}}`)
			return
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":{"type":"index_not_found_exception","reason":"no such index [missing]"},"status":404}`)
	})

	mapping, err := c.GetMapping(context.Background(), "projects")
	require.NoError(t, err)
	assert.JSONEq(t, `{"properties":{"budget":{"type":"float"}}}`, string(mapping))

	_, err = c.GetMapping(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestBulk(t *testing.T) {
	t.Parallel()

	body := []byte("{\"index\":{\"_index\":\"employees\",\"_id\":\"E1\"}}\n{\"employee_id\":\"E1\"}\n" +
		"{\"index\":{\"_index\":\"employees\",\"_id\":\"E2\"}}\n{\"employee_id\":\"E2\",\"age\":\"old\"}\n")

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/_bulk", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("refresh"))
		got, _ := io.ReadAll(r.Body)
		assert.Equal(t, string(body), string(got))
		_, _ = io.WriteString(w, `{
			"took": 12,
			"errors": true,
			"items": [
				{"index": {"_index": "employees", "_id": "E1", "status": 201, "result": "created"}},
				{"index": {"_index": "employees", "_id": "E2", "status": 400,
					"error": {"type": "document_parsing_exception", "reason": "failed to parse field [age]"}}}
			]
		}`)
	})

	res, err := c.Bulk(context.Background(), body, true)
	require.NoError(t, err)
	assert.Equal(t, 12, res.Took)
	assert.True(t, res.Errors)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "index", res.Items[0].Action)
	assert.Equal(t, "created", res.Items[0].Result)

	failed := res.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "E2", failed[0].ID)
	assert.Equal(t, "document_parsing_exception", failed[0].Error.Type)
}

func TestBulk_NoRefresh(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("refresh"))
		_, _ = io.WriteString(w, `{"took":1,"errors":false,"items":[]}`)
	})

	res, err := c.Bulk(context.Background(), []byte("{}\n"), false)
	require.NoError(t, err)
	assert.False(t, res.Errors)
	assert.Empty(t, res.Failed())
}

func TestGet(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/employees/_doc/E1" {
			_, _ = io.WriteString(w, `{"_index":"employees","_id":"E1","found":true,"_source":{"employee_id":"E1","name":"Alice"}}`)
			return
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"_index":"employees","_id":"E9","found":false}`)
	})

	doc, err := c.Get(context.Background(), "employees", "E1")
	require.NoError(t, err)
	assert.True(t, doc.Found)
	assert.Equal(t, "E1", doc.ID)
	assert.JSONEq(t, `{"employee_id":"E1","name":"Alice"}`, string(doc.Source))

	_, err = c.Get(context.Background(), "employees", "E9")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrIndexExists))
}

func TestCount(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/projects/_count", r.URL.Path)
		_, _ = io.WriteString(w, `{"count":7,"_shards":{"total":1,"successful":1,"skipped":0,"failed":0}}`)
	})

	n, err := c.Count(context.Background(), "projects")
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
}

func TestPing(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	err := c.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestParseResponseError(t *testing.T) {
	t.Parallel()

	t.Run("string error", func(t *testing.T) {
		t.Parallel()
		e := parseResponseError(OpSearch, 400, "400 Bad Request", []byte(`{"error":"Incorrect HTTP method","status":405}`))
		assert.Equal(t, "Incorrect HTTP method", e.Cause.Reason)
		assert.Empty(t, e.Cause.Type)
	})

	t.Run("index not found matches ErrNotFound", func(t *testing.T) {
		t.Parallel()
		e := parseResponseError(OpSearch, 404, "404 Not Found", []byte(`{"error":{"type":"index_not_found_exception","reason":"no such index [projects]"},"status":404}`))
		assert.True(t, errors.Is(e, ErrNotFound))
		assert.Contains(t, e.Error(), "index_not_found_exception")
	})

	t.Run("empty body", func(t *testing.T) {
		t.Parallel()
		e := parseResponseError(OpBulk, 500, "500 Internal Server Error", nil)
		assert.Equal(t, "bulk failed: 500 Internal Server Error", e.Error())
	})
}

func TestBulkError(t *testing.T) {
	t.Parallel()

	err := &BulkError{
		Total: 3,
		Failed: []BulkItem{{
			Index:  "employees",
			ID:     "E2",
			Status: 400,
			Error:  &ErrorCause{Type: "document_parsing_exception", Reason: "bad age"},
		}},
	}
	assert.Equal(t, "bulk: 1 of 3 items failed; first [employees/E2] status 400: document_parsing_exception: bad age", err.Error())
}
