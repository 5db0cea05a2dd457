// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/tidwall/gjson"
	"golang.org/x/term"

	"github.com/elastic/staffsearch/internal/catalog"
	"github.com/elastic/staffsearch/internal/config"
	"github.com/elastic/staffsearch/internal/es"
	"github.com/elastic/staffsearch/internal/fields"
)

type displayColumn struct {
	Field string
	Label string
	Width int
}

// Fixed leading columns of every table.
const (
	fieldID    = "_id"
	fieldScore = "_score"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	detailStyle = lipgloss.NewStyle().Faint(true)
	noteStyle   = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("3"))
)

// hitsPrinter writes query results to a terminal or a pipe.
type hitsPrinter struct {
	out       io.Writer
	width     int
	styled    bool
	employees string
	projects  string
}

// newReporter returns the reporter for --json or table output on w.
func newReporter(w io.Writer, cfg config.Config, jsonOut bool) catalog.Reporter {
	if jsonOut {
		return &jsonReporter{out: w}
	}
	tty := false
	if f, ok := w.(*os.File); ok {
		tty = term.IsTerminal(int(f.Fd()))
	}
	return &hitsPrinter{
		out:       w,
		width:     detectTerminalWidth(),
		styled:    tty,
		employees: cfg.Indices.Employees,
		projects:  cfg.Indices.Projects,
	}
}

func (p *hitsPrinter) style(s lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return s.Render(text)
}

// Report implements catalog.Reporter.
func (p *hitsPrinter) Report(res *catalog.Result) error {
	for _, step := range res.Steps {
		total := int64(0)
		if step.Result != nil {
			total = step.Result.Total
		}
		title := fmt.Sprintf("%s: %s (%d hits)", res.Query, step.Label, total)
		if _, err := fmt.Fprintln(p.out, p.style(titleStyle, title)); err != nil {
			return err
		}
		if step.Result == nil || len(step.Result.Hits) == 0 {
			if _, err := fmt.Fprintln(p.out, "  (no hits)"); err != nil {
				return err
			}
			continue
		}

		kind := fields.KindOf(step.Index, p.employees, p.projects)
		cols := columnsForKind(kind)
		widths := computeColumnWidths(cols, p.width)
		if err := p.renderHeader(cols, widths); err != nil {
			return err
		}
		for _, hit := range step.Result.Hits {
			if err := p.renderHit(hit, cols, widths); err != nil {
				return err
			}
		}
	}
	if res.Note != "" {
		if _, err := fmt.Fprintln(p.out, p.style(noteStyle, res.Note)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(p.out)
	return err
}

func columnsForKind(kind fields.Kind) []displayColumn {
	cols := []displayColumn{
		{Field: fieldID, Label: "ID", Width: 6},
		{Field: fieldScore, Label: "SCORE", Width: 6},
	}
	for _, field := range fields.DefaultFields(kind) {
		cols = append(cols, displayColumn{
			Field: field.Name,
			Label: field.Label,
			Width: field.Width,
		})
	}
	if len(cols) == 2 {
		// Unknown index: show the whole source
		cols = append(cols, displayColumn{Field: "", Label: "SOURCE", Width: 0})
	}
	return cols
}

func computeColumnWidths(columns []displayColumn, totalWidth int) []int {
	if totalWidth <= 0 {
		totalWidth = 80
	}
	widths := make([]int, len(columns))
	separators := len(columns) - 1
	if separators < 0 {
		separators = 0
	}
	fixed := 0
	flexIdx := -1
	for i, col := range columns {
		if col.Width > 0 {
			fixed += col.Width
		} else if flexIdx < 0 {
			flexIdx = i
		}
	}
	available := totalWidth - fixed - separators
	if available < 10 {
		available = 10
	}
	for i, col := range columns {
		if col.Width > 0 {
			widths[i] = col.Width
		} else if i == flexIdx {
			widths[i] = available
		} else {
			widths[i] = 10
		}
	}
	return widths
}

func detectTerminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	if env := os.Getenv("COLUMNS"); env != "" {
		if val, err := strconv.Atoi(env); err == nil && val > 0 {
			return val
		}
	}
	return 80
}

func (p *hitsPrinter) renderHeader(cols []displayColumn, widths []int) error {
	parts := make([]string, len(cols))
	for i, col := range cols {
		parts[i] = padOrTruncate(col.Label, widths[i])
	}
	_, err := fmt.Fprintln(p.out, p.style(headerStyle, strings.Join(parts, " ")))
	return err
}

func (p *hitsPrinter) renderHit(hit es.Hit, cols []displayColumn, widths []int) error {
	parts := make([]string, len(cols))
	for i, col := range cols {
		value := hitFieldValue(hit, col.Field)
		value = strings.ReplaceAll(value, "\n", " ")
		value = strings.ReplaceAll(value, "\r", " ")
		parts[i] = padOrTruncate(value, widths[i])
	}
	if _, err := fmt.Fprintln(p.out, strings.Join(parts, " ")); err != nil {
		return err
	}
	for _, line := range detailLines(hit) {
		if _, err := fmt.Fprintln(p.out, p.style(detailStyle, "    "+line)); err != nil {
			return err
		}
	}
	return nil
}

// hitFieldValue renders one cell. An empty field means the whole source.
func hitFieldValue(hit es.Hit, field string) string {
	switch field {
	case fieldID:
		return hit.ID
	case fieldScore:
		return strconv.FormatFloat(hit.Score, 'f', 2, 64)
	case "":
		return es.CompactJSON(hit.Source)
	}
	return sourceValue(gjson.GetBytes(hit.Source, field))
}

// sourceValue flattens a JSON value for a table cell; arrays are joined.
func sourceValue(v gjson.Result) string {
	if !v.Exists() || v.Type == gjson.Null {
		return ""
	}
	if v.IsArray() {
		items := v.Array()
		parts := make([]string, 0, len(items))
		for _, item := range items {
			parts = append(parts, sourceValue(item))
		}
		return strings.Join(parts, ", ")
	}
	if v.IsObject() {
		return v.Raw
	}
	return v.String()
}

// detailLines lists highlighted fragments and matched nested elements.
func detailLines(hit es.Hit) []string {
	var lines []string

	fieldNames := make([]string, 0, len(hit.Highlight))
	for f := range hit.Highlight {
		fieldNames = append(fieldNames, f)
	}
	sort.Strings(fieldNames)
	for _, f := range fieldNames {
		lines = append(lines, fmt.Sprintf("highlight %s: %s", f, strings.Join(hit.Highlight[f], " ... ")))
	}

	paths := make([]string, 0, len(hit.InnerHits))
	for path := range hit.InnerHits {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		for _, inner := range hit.InnerHits[path].Hits {
			lines = append(lines, fmt.Sprintf("matched %s: %s", path, es.CompactJSON(inner.Source)))
		}
	}
	return lines
}

// padOrTruncate fits value to width terminal cells. Width is measured in
// cells, so wide runes and ANSI sequences do not break alignment.
func padOrTruncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if ansi.StringWidth(value) > width {
		value = ansi.Truncate(value, width, "")
	}
	// a wide rune cut at the edge leaves one cell short
	return value + strings.Repeat(" ", width-ansi.StringWidth(value))
}

// jsonReporter prints one JSON object per hit.
type jsonReporter struct {
	out io.Writer
}

type jsonHit struct {
	Query string `json:"query"`
	Step  string `json:"step"`
	es.Hit
}

// Report implements catalog.Reporter.
func (r *jsonReporter) Report(res *catalog.Result) error {
	enc := json.NewEncoder(r.out)
	enc.SetEscapeHTML(false)
	for _, step := range res.Steps {
		if step.Result == nil {
			continue
		}
		for _, hit := range step.Result.Hits {
			if err := enc.Encode(jsonHit{Query: res.Query, Step: step.Label, Hit: hit}); err != nil {
				return fmt.Errorf("encode hit: %w", err)
			}
		}
	}
	return nil
}
