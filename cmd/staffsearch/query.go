// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/elastic/staffsearch/internal/catalog"
	"github.com/elastic/staffsearch/internal/config"
)

var queryJSON bool

var queryCmd = &cobra.Command{
	Use:   "query [name...]",
	Short: "Run canned queries (all of them when no name is given)",
	Long: `Runs the named canned queries in the order given, or the whole catalog in
catalog order. List the names with 'staffsearch queries'.

Examples:
  staffsearch query
  staffsearch query qualified-employees
  staffsearch query employees-and-projects --min-budget 250000
  staffsearch query nested-cert-fuzzy-skills --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd.Context(), args)
	},
}

var queriesCmd = &cobra.Command{
	Use:   "queries",
	Short: "List the canned queries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadedConfig(cmd.Context())
		if err != nil {
			return err
		}
		for _, q := range pipelineConfig(cfg).Catalog().All() {
			fmt.Printf("%-34s %s\n", q.Name(), q.Description())
		}
		return nil
	},
}

func init() {
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "Print hits as JSON lines")
	queryCmd.Flags().Float64("min-budget", config.DefaultMinBudget, "Budget floor of the employee/project queries (env: STAFFSEARCH_QUERY_MIN_BUDGET)")

	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(queriesCmd)
}

func runQuery(parentCtx context.Context, names []string) error {
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

	runner := catalog.NewRunner(pipelineConfig(cfg).Catalog(), client, newReporter(os.Stdout, cfg, queryJSON))
	return runner.Run(ctx, names...)
}
