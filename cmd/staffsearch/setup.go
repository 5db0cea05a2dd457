// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/elastic/staffsearch/internal/schema"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the employees and projects indices",
	Long: `Creates both indices with their mappings. An index that already exists is
left as it is, so setup can be run any number of times.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetup(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(parentCtx context.Context) error {
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

	return schema.NewProvisioner(client).Ensure(ctx, schema.Defaults(cfg.Indices.Employees, cfg.Indices.Projects)...)
}
