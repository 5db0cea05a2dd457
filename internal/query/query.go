// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

// Package query is a small declarative Query DSL. Each clause kind is a Go
// value that renders to the JSON object Elasticsearch expects, so queries
// can be built and inspected without a cluster.
package query

import "encoding/json"

// DefaultFuzziness lets the engine pick the edit distance from term length.
const DefaultFuzziness = "AUTO"

// Clause is a leaf or compound query clause.
type Clause interface {
	// Source returns the clause as a JSON-ready map.
	Source() map[string]any
}

// TermQuery matches an exact, unanalyzed value.
type TermQuery struct {
	Field string
	Value any
}

// Term builds a term clause.
func Term(field string, value any) TermQuery {
	return TermQuery{Field: field, Value: value}
}

func (q TermQuery) Source() map[string]any {
	return map[string]any{
		"term": map[string]any{q.Field: q.Value},
	}
}

// TermsQuery matches any one of a set of exact values.
type TermsQuery struct {
	Field  string
	Values []any
}

// Terms builds a terms clause over values.
func Terms[T any](field string, values []T) TermsQuery {
	vals := make([]any, 0, len(values))
	for _, v := range values {
		vals = append(vals, v)
	}
	return TermsQuery{Field: field, Values: vals}
}

func (q TermsQuery) Source() map[string]any {
	return map[string]any{
		"terms": map[string]any{q.Field: q.Values},
	}
}

// RangeQuery bounds a numeric or date field. Unset bounds are omitted.
type RangeQuery struct {
	Field string
	gte   any
	gt    any
	lte   any
	lt    any
}

// Range starts a range clause on field.
func Range(field string) RangeQuery {
	return RangeQuery{Field: field}
}

// Gte sets the inclusive lower bound.
func (q RangeQuery) Gte(v any) RangeQuery { q.gte = v; return q }

// Gt sets the exclusive lower bound.
func (q RangeQuery) Gt(v any) RangeQuery { q.gt = v; return q }

// Lte sets the inclusive upper bound.
func (q RangeQuery) Lte(v any) RangeQuery { q.lte = v; return q }

// Lt sets the exclusive upper bound.
func (q RangeQuery) Lt(v any) RangeQuery { q.lt = v; return q }

func (q RangeQuery) Source() map[string]any {
	bounds := map[string]any{}
	if q.gte != nil {
		bounds["gte"] = q.gte
	}
	if q.gt != nil {
		bounds["gt"] = q.gt
	}
	if q.lte != nil {
		bounds["lte"] = q.lte
	}
	if q.lt != nil {
		bounds["lt"] = q.lt
	}
	return map[string]any{
		"range": map[string]any{q.Field: bounds},
	}
}

// MatchQuery is an analyzed full-text match.
type MatchQuery struct {
	Field     string
	Query     string
	Fuzziness string
}

// Match builds a match clause.
func Match(field, text string) MatchQuery {
	return MatchQuery{Field: field, Query: text}
}

// WithFuzziness makes the match tolerant to edits, e.g. "AUTO" or "2".
func (q MatchQuery) WithFuzziness(f string) MatchQuery {
	q.Fuzziness = f
	return q
}

func (q MatchQuery) Source() map[string]any {
	if q.Fuzziness == "" {
		return map[string]any{
			"match": map[string]any{q.Field: q.Query},
		}
	}
	return map[string]any{
		"match": map[string]any{
			q.Field: map[string]any{
				"query":     q.Query,
				"fuzziness": q.Fuzziness,
			},
		},
	}
}

// FuzzyQuery matches terms within an edit distance of Value.
type FuzzyQuery struct {
	Field     string
	Value     string
	Fuzziness string
}

// Fuzzy builds a fuzzy clause with DefaultFuzziness.
func Fuzzy(field, value string) FuzzyQuery {
	return FuzzyQuery{Field: field, Value: value, Fuzziness: DefaultFuzziness}
}

func (q FuzzyQuery) Source() map[string]any {
	fuzziness := q.Fuzziness
	if fuzziness == "" {
		fuzziness = DefaultFuzziness
	}
	return map[string]any{
		"fuzzy": map[string]any{
			q.Field: map[string]any{
				"value":     q.Value,
				"fuzziness": fuzziness,
			},
		},
	}
}

// WildcardQuery matches an unanalyzed glob pattern (* and ?). The pattern
// is compared against indexed terms, which are lowercased for text fields,
// so text fields need CaseInsensitive.
type WildcardQuery struct {
	Field           string
	Pattern         string
	CaseInsensitive bool
}

// Wildcard builds a wildcard clause.
func Wildcard(field, pattern string) WildcardQuery {
	return WildcardQuery{Field: field, Pattern: pattern}
}

// WithCaseInsensitive matches the pattern regardless of letter case.
func (q WildcardQuery) WithCaseInsensitive() WildcardQuery {
	q.CaseInsensitive = true
	return q
}

func (q WildcardQuery) Source() map[string]any {
	if !q.CaseInsensitive {
		return map[string]any{
			"wildcard": map[string]any{q.Field: q.Pattern},
		}
	}
	return map[string]any{
		"wildcard": map[string]any{
			q.Field: map[string]any{
				"value":            q.Pattern,
				"case_insensitive": true,
			},
		},
	}
}

// NestedQuery scopes Query to the elements of a nested field, so conditions
// on one element never combine with fields of a sibling element.
type NestedQuery struct {
	Path      string
	Query     Clause
	InnerHits bool
}

// Nested builds a nested clause over path.
func Nested(path string, q Clause) NestedQuery {
	return NestedQuery{Path: path, Query: q}
}

// WithInnerHits asks the engine to report which nested elements matched.
func (q NestedQuery) WithInnerHits() NestedQuery {
	q.InnerHits = true
	return q
}

func (q NestedQuery) Source() map[string]any {
	nested := map[string]any{
		"path":  q.Path,
		"query": q.Query.Source(),
	}
	if q.InnerHits {
		nested["inner_hits"] = map[string]any{}
	}
	return map[string]any{"nested": nested}
}

// BoolQuery combines clauses: must (AND), should (OR), filter (AND without
// scoring) and must_not.
type BoolQuery struct {
	must               []Clause
	should             []Clause
	filter             []Clause
	mustNot            []Clause
	minimumShouldMatch *int
}

// Bool creates an empty bool clause.
func Bool() *BoolQuery {
	return &BoolQuery{}
}

// Must adds clauses that all have to match.
func (q *BoolQuery) Must(clauses ...Clause) *BoolQuery {
	q.must = append(q.must, clauses...)
	return q
}

// Should adds alternative clauses. Without must or filter clauses at least
// one of them has to match.
func (q *BoolQuery) Should(clauses ...Clause) *BoolQuery {
	q.should = append(q.should, clauses...)
	return q
}

// Filter adds clauses that have to match but do not contribute to the score.
func (q *BoolQuery) Filter(clauses ...Clause) *BoolQuery {
	q.filter = append(q.filter, clauses...)
	return q
}

// MustNot adds clauses that must not match.
func (q *BoolQuery) MustNot(clauses ...Clause) *BoolQuery {
	q.mustNot = append(q.mustNot, clauses...)
	return q
}

// MinimumShouldMatch sets how many should clauses are required.
func (q *BoolQuery) MinimumShouldMatch(n int) *BoolQuery {
	q.minimumShouldMatch = &n
	return q
}

func (q *BoolQuery) Source() map[string]any {
	boolQuery := map[string]any{}
	addClauses(boolQuery, "must", q.must)
	addClauses(boolQuery, "should", q.should)
	addClauses(boolQuery, "filter", q.filter)
	addClauses(boolQuery, "must_not", q.mustNot)
	if q.minimumShouldMatch != nil {
		boolQuery["minimum_should_match"] = *q.minimumShouldMatch
	}
	return map[string]any{"bool": boolQuery}
}

func addClauses(dst map[string]any, key string, clauses []Clause) {
	if len(clauses) == 0 {
		return
	}
	out := make([]map[string]any, 0, len(clauses))
	for _, c := range clauses {
		out = append(out, c.Source())
	}
	dst[key] = out
}

// Request is a complete search body.
type Request struct {
	Query     Clause
	Highlight []string // fields to return highlighted fragments for
	Size      int      // 0 keeps the engine default
}

// Source returns the search body as a JSON-ready map.
func (r Request) Source() map[string]any {
	body := map[string]any{}
	if r.Query != nil {
		body["query"] = r.Query.Source()
	}
	if len(r.Highlight) > 0 {
		fields := make(map[string]any, len(r.Highlight))
		for _, f := range r.Highlight {
			fields[f] = map[string]any{}
		}
		body["highlight"] = map[string]any{"fields": fields}
	}
	if r.Size > 0 {
		body["size"] = r.Size
	}
	return body
}

// MarshalJSON implements json.Marshaler.
func (r Request) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Source())
}
