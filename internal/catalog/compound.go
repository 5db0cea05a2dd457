// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/elastic/staffsearch/internal/domain"
	"github.com/elastic/staffsearch/internal/es"
	"github.com/elastic/staffsearch/internal/logger"
)

// NoMatchingEmployees is the Result note of a compound query whose seed
// matched nobody.
const NoMatchingEmployees = "no matching employees found"

// Compound runs Seed against the employees index, then searches the
// projects of the matched employees.
type Compound struct {
	name          string
	description   string
	Seed          *Single
	ProjectsIndex string
	MinBudget     float64
}

func (q *Compound) Name() string        { return q.name }
func (q *Compound) Description() string { return q.description }

// Run executes the seed and, when it matched anyone, the projects search.
func (q *Compound) Run(ctx context.Context, s Searcher) (*Result, error) {
	log := logger.FromContext(ctx).With(zap.String("query", q.name))

	seed, err := search(ctx, s, LabelEmployees, q.Seed.index, q.Seed.request)
	if err != nil {
		return nil, err
	}
	res := &Result{Query: q.name, Steps: []Step{seed}}

	ids := EmployeeIDs(seed.Result)
	if len(ids) == 0 {
		log.Info("seed matched no employees, skipping projects search")
		res.Note = NoMatchingEmployees
		return res, nil
	}
	log.Debug("seed matched employees", zap.Strings("employee_ids", ids))

	projects, err := search(ctx, s, LabelProjects, q.ProjectsIndex, projectsOf(ids, q.MinBudget))
	if err != nil {
		return nil, err
	}
	res.Steps = append(res.Steps, projects)
	return res, nil
}

// EmployeeIDs collects employee_id from the _source of each hit, in hit
// order and without duplicates. Hits lacking the field are skipped.
func EmployeeIDs(res *es.SearchResult) []string {
	if res == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(res.Hits))
	ids := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		id := gjson.GetBytes(hit.Source, domain.EmployeeIDField)
		if id.Type != gjson.String || id.Str == "" {
			continue
		}
		if _, dup := seen[id.Str]; dup {
			continue
		}
		seen[id.Str] = struct{}{}
		ids = append(ids, id.Str)
	}
	return ids
}
