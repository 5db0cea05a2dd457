// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

// Package catalog holds the canned staff queries and runs them.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/elastic/staffsearch/internal/es"
	"github.com/elastic/staffsearch/internal/index"
	"github.com/elastic/staffsearch/internal/query"
)

// Query names, usable as CLI arguments.
const (
	QualifiedEmployees           = "qualified-employees"
	CompositeFuzzyWildcard       = "composite-fuzzy-wildcard"
	NestedCertFuzzySkills        = "nested-cert-fuzzy-skills"
	EmployeesFuzzyWildcardSalary = "employees-fuzzy-wildcard-salary"
	QualifiedEmployeeProjects    = "qualified-employee-projects"
	EmployeesAndProjects         = "employees-and-projects"
)

// DefaultMinBudget is the budget floor of the compound queries.
const DefaultMinBudget = 100000

// Step labels.
const (
	LabelEmployees = "employees"
	LabelProjects  = "projects"
)

// ErrUnknownQuery is returned for a name not in the catalog.
var ErrUnknownQuery = errors.New("unknown query")

// Searcher runs a search body against an index.
type Searcher interface {
	Search(ctx context.Context, index string, body []byte) (*es.SearchResult, error)
}

// Query is a named, runnable canned query.
type Query interface {
	Name() string
	Description() string
	Run(ctx context.Context, s Searcher) (*Result, error)
}

// Step is one round trip of a query.
type Step struct {
	Label   string // "employees" or "projects"
	Index   string
	Request query.Request
	Result  *es.SearchResult
}

// Result is everything a query produced, in execution order.
type Result struct {
	Query string
	Steps []Step
	Note  string // set when a query stopped early
}

// Options configures the catalog.
type Options struct {
	EmployeesIndex string
	ProjectsIndex  string
	MinBudget      float64
}

// Catalog is the ordered set of canned queries.
type Catalog struct {
	queries []Query
	byName  map[string]Query
}

// DefaultOptions returns the default index names and budget floor.
func DefaultOptions() Options {
	return Options{
		EmployeesIndex: index.Employees,
		ProjectsIndex:  index.Projects,
		MinBudget:      DefaultMinBudget,
	}
}

// New builds the catalog. Empty index names fall back to the defaults;
// MinBudget is used as given, so zero selects every budget.
func New(opts Options) *Catalog {
	if opts.EmployeesIndex == "" {
		opts.EmployeesIndex = index.Employees
	}
	if opts.ProjectsIndex == "" {
		opts.ProjectsIndex = index.Projects
	}

	qualified := &Single{
		name:        QualifiedEmployees,
		description: "Active employees earning at least 80000 with Python skills",
		index:       opts.EmployeesIndex,
		request:     qualifiedEmployees(),
	}
	composite := &Single{
		name:        CompositeFuzzyWildcard,
		description: "Fuzzy Python, A* names, Amazon certifications or developer history",
		index:       opts.EmployeesIndex,
		request:     compositeFuzzyWildcard(),
	}

	c := &Catalog{byName: make(map[string]Query)}
	c.add(
		qualified,
		composite,
		&Single{
			name:        NestedCertFuzzySkills,
			description: "Amazon or CNCF certified, joined since 2020, Javascript or React skills",
			index:       opts.EmployeesIndex,
			request:     nestedCertFuzzySkills(),
		},
		&Single{
			name:        EmployeesFuzzyWildcardSalary,
			description: "Python, Jonh-like or Al* names earning at least 70000",
			index:       opts.EmployeesIndex,
			request:     employeesFuzzyWildcardSalary(),
		},
		&Compound{
			name:          QualifiedEmployeeProjects,
			description:   "High-budget projects of qualified employees",
			Seed:          qualified,
			ProjectsIndex: opts.ProjectsIndex,
			MinBudget:     opts.MinBudget,
		},
		&Compound{
			name:          EmployeesAndProjects,
			description:   "High-budget projects of composite fuzzy/wildcard matches",
			Seed:          composite,
			ProjectsIndex: opts.ProjectsIndex,
			MinBudget:     opts.MinBudget,
		},
	)
	return c
}

func (c *Catalog) add(qs ...Query) {
	for _, q := range qs {
		c.queries = append(c.queries, q)
		c.byName[q.Name()] = q
	}
}

// All returns every query in catalog order.
func (c *Catalog) All() []Query {
	return append([]Query(nil), c.queries...)
}

// Names returns the query names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.queries))
	for _, q := range c.queries {
		names = append(names, q.Name())
	}
	return names
}

// Lookup returns the named query.
func (c *Catalog) Lookup(name string) (Query, error) {
	q, ok := c.byName[name]
	if !ok {
		known := c.Names()
		sort.Strings(known)
		return nil, fmt.Errorf("%w %q (known: %s)", ErrUnknownQuery, name, strings.Join(known, ", "))
	}
	return q, nil
}

// Single is a query answered by one search.
type Single struct {
	name        string
	description string
	index       string
	request     query.Request
}

func (q *Single) Name() string        { return q.name }
func (q *Single) Description() string { return q.description }

// Request returns the search body.
func (q *Single) Request() query.Request { return q.request }

// Index returns the index searched.
func (q *Single) Index() string { return q.index }

// Run executes the search.
func (q *Single) Run(ctx context.Context, s Searcher) (*Result, error) {
	step, err := search(ctx, s, LabelEmployees, q.index, q.request)
	if err != nil {
		return nil, err
	}
	return &Result{Query: q.name, Steps: []Step{step}}, nil
}

func search(ctx context.Context, s Searcher, label, idx string, req query.Request) (Step, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Step{}, fmt.Errorf("encode %s query: %w", label, err)
	}
	res, err := s.Search(ctx, idx, body)
	if err != nil {
		return Step{}, fmt.Errorf("search %s: %w", idx, err)
	}
	return Step{Label: label, Index: idx, Request: req, Result: res}, nil
}
