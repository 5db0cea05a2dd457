// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/elastic/staffsearch/internal/logger"
)

// Watch reloads a fixture whenever its file is written or re-created, until
// ctx is cancelled. Parent directories are watched so that editors replacing
// the file by rename are picked up. Reloads run one at a time; onLoad, when
// set, receives the outcome of each.
func (l *Loader) Watch(ctx context.Context, specs []FixtureSpec, onLoad func(Stats, error)) error {
	log := logger.FromContext(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	byPath := make(map[string]FixtureSpec, len(specs))
	dirs := make(map[string]struct{})
	for _, spec := range specs {
		abs, err := filepath.Abs(spec.Path)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", spec.Path, err)
		}
		byPath[abs] = spec
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	log.Info("watching fixtures", zap.Int("files", len(byPath)))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher closed")
			}
			// Some editors recreate the file instead of writing it
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			spec, ok := byPath[abs]
			if !ok {
				continue
			}
			log.Debug("fixture changed", zap.String("path", spec.Path), zap.Stringer("op", event.Op))
			stats, err := l.Load(ctx, spec)
			if err != nil {
				log.Error("reload failed", zap.String("index", spec.Index), zap.Error(err))
			}
			if onLoad != nil {
				onLoad(stats, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher closed")
			}
			return fmt.Errorf("watch fixtures: %w", err)
		}
	}
}
