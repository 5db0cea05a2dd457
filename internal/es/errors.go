// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

package es

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// Sentinel errors matched with errors.Is against a *ResponseError.
var (
	ErrIndexExists = errors.New("es: index already exists")
	ErrNotFound    = errors.New("es: not found")
)

// Error types reported by Elasticsearch that map to sentinels.
const (
	typeResourceAlreadyExists = "resource_already_exists_exception"
	typeIndexNotFound         = "index_not_found_exception"
)

// Operation names used in errors and metrics.
const (
	OpPing        = "ping"
	OpCreateIndex = "indices.create"
	OpDeleteIndex = "indices.delete"
	OpIndexExists = "indices.exists"
	OpGetMapping  = "indices.get_mapping"
	OpBulk        = "bulk"
	OpGet         = "get"
	OpSearch      = "search"
	OpCount       = "count"
)

// ResponseError is an Elasticsearch response with an error status.
type ResponseError struct {
	Op         string
	StatusCode int
	Status     string
	Cause      ErrorCause
	Body       []byte
}

func (e *ResponseError) Error() string {
	if e.Cause.Type != "" {
		return fmt.Sprintf("%s failed: %s: %s: %s", e.Op, e.Status, e.Cause.Type, e.Cause.Reason)
	}
	if len(e.Body) > 0 {
		return fmt.Sprintf("%s failed: %s - %s", e.Op, e.Status, string(e.Body))
	}
	return fmt.Sprintf("%s failed: %s", e.Op, e.Status)
}

// Is reports whether the response corresponds to one of the package sentinels.
// Only the resource_already_exists_exception type matches ErrIndexExists;
// other 400 responses (bad mappings, parse errors) do not.
func (e *ResponseError) Is(target error) bool {
	switch target {
	case ErrIndexExists:
		return e.Cause.Type == typeResourceAlreadyExists
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound || e.Cause.Type == typeIndexNotFound
	}
	return false
}

// newResponseError reads and parses the body of an error response.
func newResponseError(op string, res *esapi.Response) *ResponseError {
	body, _ := io.ReadAll(res.Body)
	return parseResponseError(op, res.StatusCode, res.Status(), body)
}

func parseResponseError(op string, statusCode int, status string, body []byte) *ResponseError {
	e := &ResponseError{
		Op:         op,
		StatusCode: statusCode,
		Status:     status,
		Body:       body,
	}

	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Error) == 0 {
		return e
	}

	// "error" is an object for most APIs but a plain string for a few.
	var cause ErrorCause
	if err := json.Unmarshal(envelope.Error, &cause); err == nil {
		e.Cause = cause
		return e
	}
	var reason string
	if err := json.Unmarshal(envelope.Error, &reason); err == nil {
		e.Cause.Reason = reason
	}
	return e
}

// BulkError reports the items a bulk request failed to apply.
type BulkError struct {
	Total  int
	Failed []BulkItem
}

func (e *BulkError) Error() string {
	if len(e.Failed) == 0 {
		return fmt.Sprintf("bulk: 0 of %d items failed", e.Total)
	}
	first := e.Failed[0]
	msg := fmt.Sprintf("bulk: %d of %d items failed; first [%s/%s] status %d", len(e.Failed), e.Total, first.Index, first.ID, first.Status)
	if first.Error != nil {
		msg += fmt.Sprintf(": %s: %s", first.Error.Type, first.Error.Reason)
	}
	return msg
}
