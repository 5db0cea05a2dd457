// Copyright 2026 Elasticsearch B.V. and contributors
// SPDX-License-Identifier: Apache-2.0

// Package fields provides the columns shown for each kind of document.
package fields

// Kind identifies which index a hit came from
type Kind int

const (
	KindEmployees Kind = iota
	KindProjects
	KindOther // Any other index: only _id and _score are shown
)

func (k Kind) String() string {
	switch k {
	case KindEmployees:
		return "Employees"
	case KindProjects:
		return "Projects"
	default:
		return "Other"
	}
}

// KindOf maps an index name to its Kind given the configured names.
func KindOf(indexName, employees, projects string) Kind {
	switch indexName {
	case employees:
		return KindEmployees
	case projects:
		return KindProjects
	default:
		return KindOther
	}
}

// DisplayField represents a _source field shown as a table column
type DisplayField struct {
	Name  string // Source path in gjson syntax (e.g., "name", "certifications.#.cert_name")
	Label string // Column header (e.g., "NAME", "SKILLS")
	Width int    // Column width (0 = flexible/remaining)
}

// DefaultFields returns the columns for a kind of document. The _id and
// _score columns are always rendered first and are not listed here.
func DefaultFields(kind Kind) []DisplayField {
	switch kind {
	case KindEmployees:
		return []DisplayField{
			{Name: "name", Label: "NAME", Width: 18},
			{Name: "is_active", Label: "ACTIVE", Width: 6},
			{Name: "salary", Label: "SALARY", Width: 9},
			{Name: "join_date", Label: "JOINED", Width: 10},
			// skills is a single tag or a list of tags
			{Name: "skills", Label: "SKILLS", Width: 0},
		}
	case KindProjects:
		return []DisplayField{
			{Name: "name", Label: "NAME", Width: 22},
			{Name: "employee_id", Label: "EMPLOYEE", Width: 8},
			{Name: "budget", Label: "BUDGET", Width: 10},
			{Name: "start_date", Label: "START", Width: 10},
		}
	default:
		return nil
	}
}
