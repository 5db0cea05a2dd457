// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/elastic/staffsearch/internal/es"
)

var getCmd = &cobra.Command{
	Use:   "get <index> <id>",
	Short: "Fetch one document by id",
	Long: `Prints the stored source of a single document.

Examples:
  staffsearch get employees E1
  staffsearch get projects P1`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGet(cmd.Context(), args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(parentCtx context.Context, index, id string) error {
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

	doc, err := client.Get(ctx, index, id)
	if errors.Is(err, es.ErrNotFound) {
		return fmt.Errorf("document %s/%s not found", index, id)
	}
	if err != nil {
		return err
	}

	fmt.Println(es.PrettyJSON(doc.Source))
	return nil
}
