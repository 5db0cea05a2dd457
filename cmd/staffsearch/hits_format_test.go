// Copyright 2026 Elasticsearch B.V. and contributors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/elastic/staffsearch/internal/catalog"
	"github.com/elastic/staffsearch/internal/es"
	"github.com/elastic/staffsearch/internal/fields"
)

func newTestPrinter(buf *bytes.Buffer) *hitsPrinter {
	return &hitsPrinter{out: buf, width: 100, employees: "employees", projects: "projects"}
}

func sampleResult() *catalog.Result {
	return &catalog.Result{
		Query: catalog.NestedCertFuzzySkills,
		Steps: []catalog.Step{{
			Label: catalog.LabelEmployees,
			Index: "employees",
			Result: &es.SearchResult{
				Total: 1,
				Hits: []es.Hit{{
					Index:     "employees",
					ID:        "E1",
					Score:     2.5,
					Source:    json.RawMessage(`{"employee_id":"E1","name":"Alice","is_active":true,"salary":95000,"join_date":"2021-03-01","skills":["Python","React"]}`),
					Highlight: map[string][]string{"skills": {"<em>React</em>"}},
					InnerHits: map[string]es.InnerResult{
						"certifications": {Total: 1, Hits: []es.Hit{{Source: json.RawMessage(`{"cert_name": "AWS Solutions Architect", "issuer": "Amazon"}`)}}},
					},
				}},
			},
		}},
	}
}

func TestColumnsForKind(t *testing.T) {
	t.Parallel()

	t.Run("employees", func(t *testing.T) {
		t.Parallel()

		cols := columnsForKind(fields.KindEmployees)
		require.Greater(t, len(cols), 2)
		assert.Equal(t, fieldID, cols[0].Field)
		assert.Equal(t, fieldScore, cols[1].Field)
		assert.Equal(t, "name", cols[2].Field)
	})

	t.Run("projects", func(t *testing.T) {
		t.Parallel()

		cols := columnsForKind(fields.KindProjects)
		labels := make([]string, 0, len(cols))
		for _, c := range cols {
			labels = append(labels, c.Label)
		}
		assert.Contains(t, labels, "BUDGET")
		assert.Contains(t, labels, "EMPLOYEE")
	})

	t.Run("other index shows the source", func(t *testing.T) {
		t.Parallel()

		cols := columnsForKind(fields.KindOther)
		require.Len(t, cols, 3)
		assert.Equal(t, "SOURCE", cols[2].Label)
	})
}

func TestComputeColumnWidths(t *testing.T) {
	t.Parallel()

	cols := []displayColumn{{Width: 6}, {Width: 0}, {Width: 4}}
	widths := computeColumnWidths(cols, 40)
	assert.Equal(t, []int{6, 40 - 10 - 2, 4}, widths)

	// Never narrower than 10 for the flexible column
	widths = computeColumnWidths(cols, 12)
	assert.Equal(t, 10, widths[1])

	widths = computeColumnWidths(cols, 0)
	assert.Equal(t, 80-10-2, widths[1])
}

func TestPadOrTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ab  ", padOrTruncate("ab", 4))
	assert.Equal(t, "abc", padOrTruncate("abcdef", 3))
	assert.Equal(t, "abcdef", padOrTruncate("abcdef", 0))

	// widths are terminal cells, not bytes
	assert.Equal(t, "Zo", padOrTruncate("Zoë", 2))
	assert.Equal(t, "Zoë", padOrTruncate("Zoë", 3))
	assert.Equal(t, "Zoë  ", padOrTruncate("Zoë", 5))
	assert.True(t, utf8.ValidString(padOrTruncate("Zoë", 3)))
	assert.Equal(t, "日本  ", padOrTruncate("日本", 6))
	assert.Equal(t, "日 ", padOrTruncate("日本", 3))
}

func TestSourceValue(t *testing.T) {
	t.Parallel()

	src := `{"skills":["Go","Python"],"skill":"Go","salary":95000.5,"active":false,"loc":{"lat":1,"lon":2},"none":null}`
	tests := map[string]string{
		"skills":  "Go, Python",
		"skill":   "Go",
		"salary":  "95000.5",
		"active":  "false",
		"loc":     `{"lat":1,"lon":2}`,
		"none":    "",
		"missing": "",
	}
	for path, want := range tests {
		assert.Equal(t, want, sourceValue(gjson.Get(src, path)), path)
	}
}

func TestHitsPrinter_Report(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, newTestPrinter(&buf).Report(sampleResult()))
	out := buf.String()

	assert.Contains(t, out, "nested-cert-fuzzy-skills: employees (1 hits)")
	assert.Contains(t, out, "ID     SCORE  NAME")
	assert.Contains(t, out, "E1     2.50   Alice")
	assert.Contains(t, out, "Python, React")
	assert.Contains(t, out, "highlight skills: <em>React</em>")
	assert.Contains(t, out, `matched certifications: {"cert_name":"AWS Solutions Architect","issuer":"Amazon"}`)
	// Plain output when not on a terminal
	assert.NotContains(t, out, "\x1b[")
}

func TestHitsPrinter_ReportNoMatches(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	res := &catalog.Result{
		Query: catalog.QualifiedEmployeeProjects,
		Steps: []catalog.Step{{Label: catalog.LabelEmployees, Index: "employees", Result: &es.SearchResult{}}},
		Note:  catalog.NoMatchingEmployees,
	}
	require.NoError(t, newTestPrinter(&buf).Report(res))

	out := buf.String()
	assert.Contains(t, out, "(no hits)")
	assert.Contains(t, out, catalog.NoMatchingEmployees)
	assert.NotContains(t, out, "projects (")
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, (&jsonReporter{out: &buf}).Report(sampleResult()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	line := lines[0]
	assert.Equal(t, catalog.NestedCertFuzzySkills, gjson.Get(line, "query").String())
	assert.Equal(t, "employees", gjson.Get(line, "step").String())
	assert.Equal(t, "E1", gjson.Get(line, "_id").String())
	assert.Equal(t, 2.5, gjson.Get(line, "_score").Float())
	assert.Equal(t, "Alice", gjson.Get(line, "_source.name").String())
	assert.Equal(t, "<em>React</em>", gjson.Get(line, "highlight.skills.0").String())
	assert.Equal(t, "Amazon", gjson.Get(line, "inner_hits.certifications.hits.0._source.issuer").String())
}
