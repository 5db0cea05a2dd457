// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

// Package pipeline runs provisioning, loading and querying end to end.
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/elastic/staffsearch/internal/catalog"
	"github.com/elastic/staffsearch/internal/domain"
	"github.com/elastic/staffsearch/internal/es"
	"github.com/elastic/staffsearch/internal/loader"
	"github.com/elastic/staffsearch/internal/logger"
	"github.com/elastic/staffsearch/internal/schema"
)

// Client is the subset of *es.Client the pipeline needs.
type Client interface {
	schema.IndexCreator
	loader.BulkWriter
	catalog.Searcher
}

var _ Client = (*es.Client)(nil)

// Config names the indices and fixtures of a run.
type Config struct {
	EmployeesIndex string
	ProjectsIndex  string
	EmployeesData  string
	ProjectsData   string
	MinBudget      float64
}

// Fixtures returns the load specs for employees then projects.
func (c Config) Fixtures() []loader.FixtureSpec {
	return []loader.FixtureSpec{
		{Index: c.EmployeesIndex, Path: c.EmployeesData, IDField: domain.EmployeeIDField},
		{Index: c.ProjectsIndex, Path: c.ProjectsData, IDField: domain.ProjectIDField},
	}
}

// Catalog returns the query catalog bound to the configured indices.
func (c Config) Catalog() *catalog.Catalog {
	return catalog.New(catalog.Options{
		EmployeesIndex: c.EmployeesIndex,
		ProjectsIndex:  c.ProjectsIndex,
		MinBudget:      c.MinBudget,
	})
}

// Run provisions both indices, loads both fixtures and runs every query,
// strictly in that order. The first failure stops the run.
func Run(ctx context.Context, client Client, cfg Config, reporter catalog.Reporter) error {
	log := logger.FromContext(ctx)

	log.Info("provisioning indices")
	if err := schema.NewProvisioner(client).Ensure(ctx, schema.Defaults(cfg.EmployeesIndex, cfg.ProjectsIndex)...); err != nil {
		return fmt.Errorf("provision: %w", err)
	}

	log.Info("loading fixtures")
	stats, err := loader.New(client).LoadAll(ctx, cfg.Fixtures()...)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	for _, s := range stats {
		log.Debug("loaded", zap.String("index", s.Index), zap.Int("documents", s.Documents))
	}

	log.Info("running queries")
	if err := catalog.NewRunner(cfg.Catalog(), client, reporter).Run(ctx); err != nil {
		return fmt.Errorf("queries: %w", err)
	}
	return nil
}
