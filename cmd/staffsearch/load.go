// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/elastic/staffsearch/internal/loader"
	"github.com/elastic/staffsearch/internal/logger"
)

var loadWatch bool

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Bulk-load the employees and projects fixtures",
	Long: `Loads each fixture file with a single bulk request, keyed by the document's
natural id, and refreshes the index so the documents are searchable at once.
Loading again replaces documents with the same id.

With --watch, the fixtures are reloaded every time one of the files changes,
until interrupted.

Examples:
  staffsearch load
  staffsearch load --employees-data ./my-staff.json
  staffsearch load --watch`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLoad(cmd.Context())
	},
}

func init() {
	addDataFlags(loadCmd)
	loadCmd.Flags().BoolVarP(&loadWatch, "watch", "w", false, "Reload a fixture whenever its file changes")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(parentCtx context.Context) error {
	cfg, err := loadedConfig(parentCtx)
	if err != nil {
		return err
	}

	client, err := connect(parentCtx, cfg)
	if err != nil {
		return err
	}

	specs := pipelineConfig(cfg).Fixtures()
	l := loader.New(client)

	ctx, cancel := context.WithTimeout(parentCtx, cfg.ES.Timeout)
	defer cancel()
	if _, err := l.LoadAll(ctx, specs...); err != nil {
		return err
	}

	if !loadWatch {
		return nil
	}

	log := logger.FromContext(parentCtx)
	return l.Watch(parentCtx, specs, func(stats loader.Stats, err error) {
		// Failures are logged by Watch and do not stop it.
		if err != nil {
			return
		}
		log.Info("reloaded", zap.String("index", stats.Index), zap.Int("documents", stats.Documents))
	})
}
