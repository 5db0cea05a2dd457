// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/elastic/staffsearch/internal/logger"
	"github.com/elastic/staffsearch/internal/metrics"
)

// Reporter receives each query result as soon as it is available.
type Reporter interface {
	Report(res *Result) error
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(res *Result) error

// Report calls f(res).
func (f ReporterFunc) Report(res *Result) error { return f(res) }

// Runner runs catalog queries in order.
type Runner struct {
	catalog  *Catalog
	searcher Searcher
	reporter Reporter
}

// NewRunner returns a Runner. A nil reporter discards results.
func NewRunner(c *Catalog, s Searcher, r Reporter) *Runner {
	if r == nil {
		r = ReporterFunc(func(*Result) error { return nil })
	}
	return &Runner{catalog: c, searcher: s, reporter: r}
}

// Run executes the named queries, or the whole catalog when no names are
// given. Names are resolved before anything is sent. The first failing
// query aborts the ones after it.
func (r *Runner) Run(ctx context.Context, names ...string) error {
	queries := r.catalog.All()
	if len(names) > 0 {
		queries = queries[:0]
		for _, name := range names {
			q, err := r.catalog.Lookup(name)
			if err != nil {
				return err
			}
			queries = append(queries, q)
		}
	}

	log := logger.FromContext(ctx)
	for _, q := range queries {
		log.Info("running query", zap.String("query", q.Name()))

		res, err := q.Run(ctx, r.searcher)
		if err != nil {
			return fmt.Errorf("query %s: %w", q.Name(), err)
		}
		recordHits(res)

		if err := r.reporter.Report(res); err != nil {
			return fmt.Errorf("report %s: %w", q.Name(), err)
		}
	}
	return nil
}

func recordHits(res *Result) {
	for _, step := range res.Steps {
		label := res.Query + "/" + step.Label
		var total float64
		if step.Result != nil {
			total = float64(step.Result.Total)
		}
		metrics.QueryHits.WithLabelValues(label).Set(total)
	}
}
