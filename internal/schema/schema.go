// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

// Package schema provisions the employees and projects indices.
package schema

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/elastic/staffsearch/internal/es"
	"github.com/elastic/staffsearch/internal/index"
	"github.com/elastic/staffsearch/internal/logger"
)

// IndexCreator creates an index from a settings/mappings body.
type IndexCreator interface {
	CreateIndex(ctx context.Context, index string, body []byte) error
}

// IndexSpec pairs an index name with its creation body.
type IndexSpec struct {
	Name string
	Body map[string]any
}

type props = map[string]any

func field(typ string) props { return props{"type": typ} }

// EmployeesMapping returns the creation body of the employees index.
func EmployeesMapping() map[string]any {
	return map[string]any{
		"mappings": props{
			"properties": props{
				"employee_id": field("keyword"),
				"name":        field("text"),
				"age":         field("integer"),
				"salary":      field("float"),
				"is_active":   field("boolean"),
				"join_date":   field("date"),
				"skills":      field("text"),
				"location":    field("geo_point"),
				"certifications": props{
					"type": "nested",
					"properties": props{
						"cert_name":  field("text"),
						"issue_date": field("date"),
						"issuer":     field("keyword"),
					},
				},
				"previous_jobs": props{
					"type": "nested",
					"properties": props{
						"company": field("text"),
						"role":    field("text"),
						"years":   field("float"),
					},
				},
			},
		},
	}
}

// ProjectsMapping returns the creation body of the projects index.
func ProjectsMapping() map[string]any {
	return map[string]any{
		"mappings": props{
			"properties": props{
				"project_id":  field("keyword"),
				"name":        field("text"),
				"employee_id": field("keyword"),
				"budget":      field("float"),
				"start_date":  field("date"),
			},
		},
	}
}

// Defaults returns the specs of both indices under the given names. Empty
// names fall back to the package defaults.
func Defaults(employees, projects string) []IndexSpec {
	if employees == "" {
		employees = index.Employees
	}
	if projects == "" {
		projects = index.Projects
	}
	return []IndexSpec{
		{Name: employees, Body: EmployeesMapping()},
		{Name: projects, Body: ProjectsMapping()},
	}
}

// Provisioner makes sure index schemas exist.
type Provisioner struct {
	client IndexCreator
}

// NewProvisioner returns a Provisioner creating indices through client.
func NewProvisioner(client IndexCreator) *Provisioner {
	return &Provisioner{client: client}
}

// Ensure creates each index in order. An index that already exists is left
// untouched and counts as success; any other failure stops provisioning.
func (p *Provisioner) Ensure(ctx context.Context, specs ...IndexSpec) error {
	log := logger.FromContext(ctx)

	for _, spec := range specs {
		body, err := json.Marshal(spec.Body)
		if err != nil {
			return fmt.Errorf("encode mapping for %s: %w", spec.Name, err)
		}

		err = p.client.CreateIndex(ctx, spec.Name, body)
		switch {
		case err == nil:
			log.Info("index created", zap.String("index", spec.Name))
		case errors.Is(err, es.ErrIndexExists):
			log.Info("index already exists", zap.String("index", spec.Name))
		default:
			return fmt.Errorf("create index %s: %w", spec.Name, err)
		}
	}
	return nil
}
