// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// Fixture errors, matched with errors.Is.
var (
	ErrMalformedFixture = errors.New("fixture is not a JSON array of objects")
	ErrMissingID        = errors.New("fixture document has no identifier")
)

// Document is one fixture element ready for the bulk body.
type Document struct {
	ID     string
	Source []byte // compact JSON, exactly the fields read from disk
}

// ReadFixture reads a JSON array of objects from path and keys each element
// by the string value of idField.
func ReadFixture(path, idField string) ([]Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	docs, err := ParseFixture(data, idField)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return docs, nil
}

// ParseFixture is ReadFixture on bytes already in memory.
func ParseFixture(data []byte, idField string) ([]Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedFixture)
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: top level is %s", ErrMalformedFixture, root.Type)
	}

	elems := root.Array()
	docs := make([]Document, 0, len(elems))
	for i, elem := range elems {
		if !elem.IsObject() {
			return nil, fmt.Errorf("%w: element %d is %s", ErrMalformedFixture, i, elem.Type)
		}
		id := elem.Get(gjson.Escape(idField))
		if id.Type != gjson.String || id.Str == "" {
			return nil, fmt.Errorf("%w: element %d lacks a string %q", ErrMissingID, i, idField)
		}
		docs = append(docs, Document{
			ID:     id.Str,
			Source: pretty.Ugly([]byte(elem.Raw)),
		})
	}
	return docs, nil
}

// bulkAction is the action line preceding each document.
type bulkAction struct {
	Index bulkMeta `json:"index"`
}

type bulkMeta struct {
	Index string `json:"_index"`
	ID    string `json:"_id"`
}

// BuildBulkBody renders docs as NDJSON index actions against index.
func BuildBulkBody(index string, docs []Document) []byte {
	var buf []byte
	for _, doc := range docs {
		action, _ := json.Marshal(bulkAction{Index: bulkMeta{Index: index, ID: doc.ID}})
		buf = append(buf, action...)
		buf = append(buf, '\n')
		buf = append(buf, doc.Source...)
		buf = append(buf, '\n')
	}
	return buf
}

// uniqueIDs counts distinct document ids.
func uniqueIDs(docs []Document) int {
	seen := make(map[string]struct{}, len(docs))
	for _, doc := range docs {
		seen[doc.ID] = struct{}{}
	}
	return len(seen)
}
