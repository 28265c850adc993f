// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lyh1028/arxiv-tracker/internal/fetch"
	"github.com/lyh1028/arxiv-tracker/internal/logging"
	"github.com/lyh1028/arxiv-tracker/internal/query"
	"github.com/lyh1028/arxiv-tracker/internal/store"
)

var reprocessCmd = &cobra.Command{
	Use:   "reprocess",
	Short: "Re-derive announcement dates for every stored paper",
	Long: `Reprocess runs the announcement-date derivation over all stored papers
and writes the results back. Useful after API-mode crawls, which store
the submission date in place of a real announcement date.`,
	RunE: runReprocess,
}

func runReprocess(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	log := logging.New(cfg.Logging)

	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	c, err := fetch.New(cfg.Fetch, query.Expression{}, st, nil, log)
	if err != nil {
		return err
	}

	n, err := c.Reprocess(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("Reprocessed %d papers\n", n)
	return nil
}

func init() {
	rootCmd.AddCommand(reprocessCmd)
}
