// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

// Package loader bulk-loads JSON fixture files into an index.
package loader

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/elastic/staffsearch/internal/es"
	"github.com/elastic/staffsearch/internal/logger"
	"github.com/elastic/staffsearch/internal/metrics"
)

// BulkWriter submits an NDJSON bulk body.
type BulkWriter interface {
	Bulk(ctx context.Context, body []byte, refresh bool) (*es.BulkResult, error)
}

// FixtureSpec names a fixture file, the index it goes to and the field
// holding each document's natural id.
type FixtureSpec struct {
	Index   string
	Path    string
	IDField string
}

// Stats describes one load.
type Stats struct {
	Index     string
	Documents int // actions submitted
	UniqueIDs int // documents the index holds afterwards, for fresh ids
}

// Loader writes fixtures through a BulkWriter.
type Loader struct {
	client BulkWriter
}

// New returns a Loader writing through client.
func New(client BulkWriter) *Loader {
	return &Loader{client: client}
}

// Load reads the fixture and submits all of it in one refreshed bulk request.
// Documents are indexed under their natural id, so reloading replaces them.
// An empty fixture submits nothing.
func (l *Loader) Load(ctx context.Context, spec FixtureSpec) (Stats, error) {
	log := logger.FromContext(ctx).With(zap.String("index", spec.Index), zap.String("path", spec.Path))

	docs, err := ReadFixture(spec.Path, spec.IDField)
	if err != nil {
		return Stats{}, fmt.Errorf("load %s: %w", spec.Index, err)
	}

	stats := Stats{Index: spec.Index, Documents: len(docs), UniqueIDs: uniqueIDs(docs)}
	if len(docs) == 0 {
		log.Info("fixture is empty, nothing to load")
		return stats, nil
	}
	if stats.UniqueIDs < stats.Documents {
		log.Warn("fixture repeats ids, the last occurrence wins",
			zap.Int("documents", stats.Documents),
			zap.Int("unique_ids", stats.UniqueIDs))
	}

	res, err := l.client.Bulk(ctx, BuildBulkBody(spec.Index, docs), true)
	if err != nil {
		return Stats{}, fmt.Errorf("load %s: %w", spec.Index, err)
	}
	if failed := res.Failed(); res.Errors || len(failed) > 0 {
		return Stats{}, fmt.Errorf("load %s: %w", spec.Index, &es.BulkError{Total: len(res.Items), Failed: failed})
	}

	metrics.DocumentsLoaded.WithLabelValues(spec.Index).Add(float64(stats.Documents))
	log.Info("fixture loaded",
		zap.Int("documents", stats.Documents),
		zap.Int("unique_ids", stats.UniqueIDs),
		zap.Int("took_ms", res.Took))
	return stats, nil
}

// LoadAll loads each fixture in order and stops at the first failure.
func (l *Loader) LoadAll(ctx context.Context, specs ...FixtureSpec) ([]Stats, error) {
	all := make([]Stats, 0, len(specs))
	for _, spec := range specs {
		stats, err := l.Load(ctx, spec)
		if err != nil {
			return all, err
		}
		all = append(all, stats)
	}
	return all, nil
}
