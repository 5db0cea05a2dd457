// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Show the number of documents in each index",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCount(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(countCmd)
}

func runCount(parentCtx context.Context) error {
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

	for _, index := range []string{cfg.Indices.Employees, cfg.Indices.Projects} {
		exists, err := client.IndexExists(ctx, index)
		if err != nil {
			return err
		}
		if !exists {
			fmt.Printf("%-12s missing (run 'staffsearch setup')\n", index)
			continue
		}
		n, err := client.Count(ctx, index)
		if err != nil {
			return err
		}
		fmt.Printf("%-12s %d\n", index, n)
	}
	return nil
}
