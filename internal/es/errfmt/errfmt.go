// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

package errfmt

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// PrettyQuery indents queryJSON. Invalid JSON is returned as is.
func PrettyQuery(queryJSON []byte) string {
	if !gjson.ValidBytes(queryJSON) {
		return string(queryJSON)
	}
	return strings.TrimRight(string(pretty.Pretty(queryJSON)), "\n")
}

// WithQuery wraps err with the pretty-printed query that caused it.
// The original error stays reachable through errors.Is and errors.As.
func WithQuery(err error, queryJSON []byte) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w\n\nQuery:\n%s", err, PrettyQuery(queryJSON))
}
