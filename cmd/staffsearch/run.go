// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/elastic/staffsearch/internal/config"
	"github.com/elastic/staffsearch/internal/pipeline"
)

var runJSON bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Provision both indices, load the fixtures and run every query",
	Long: `Runs the whole demo in order: create the employees and projects indices
(existing ones are kept), bulk-load both fixture files, then run every canned
query and print the matches. The first failure stops the run.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd.Context())
	},
}

func init() {
	addDataFlags(runCmd)
	runCmd.Flags().Float64("min-budget", config.DefaultMinBudget, "Budget floor of the employee/project queries (env: STAFFSEARCH_QUERY_MIN_BUDGET)")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "Print hits as JSON lines")
	rootCmd.AddCommand(runCmd)
}

func addDataFlags(cmd *cobra.Command) {
	cmd.Flags().String("employees-data", config.DefaultEmployeesData, "Employees fixture file (env: STAFFSEARCH_DATA_EMPLOYEES)")
	cmd.Flags().String("projects-data", config.DefaultProjectsData, "Projects fixture file (env: STAFFSEARCH_DATA_PROJECTS)")
}

func runPipeline(parentCtx context.Context) error {
	cfg, err := loadedConfig(parentCtx)
	if err != nil {
		return err
	}

	client, err := connect(parentCtx, cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(parentCtx, cfg.ES.Timeout)
	defer cancel()

	return pipeline.Run(ctx, client, pipelineConfig(cfg), newReporter(os.Stdout, cfg, runJSON))
}
