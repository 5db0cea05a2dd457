// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

package es

import (
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// PrettyJSON best-effort pretty prints a raw JSON document, keeping the
// original key order. Invalid JSON is returned as is.
func PrettyJSON(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	if !gjson.ValidBytes(raw) {
		return string(raw)
	}
	return strings.TrimRight(string(pretty.Pretty(raw)), "\n")
}

// CompactJSON returns raw on a single line, or raw unchanged if it is not JSON.
func CompactJSON(raw []byte) string {
	if !gjson.ValidBytes(raw) {
		return string(raw)
	}
	return string(pretty.Ugly(raw))
}
