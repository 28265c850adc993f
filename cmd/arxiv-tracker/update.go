// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lyh1028/arxiv-tracker/internal/fetch"
	"github.com/lyh1028/arxiv-tracker/internal/logging"
	"github.com/lyh1028/arxiv-tracker/internal/store"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Fetch papers announced since the newest stored one",
	Long: `Update crawls forward from the newest announcement already in the store,
stopping as soon as it reaches papers stored by a previous run. The store
must contain at least one paper; run fetch first on an empty store.`,
	RunE: runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	log := logging.New(cfg.Logging)

	expr, chatTranslate, err := chatExpression(cmd, cfg)
	if err != nil {
		return err
	}
	tr, err := buildTranslator(cfg, chatTranslate)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	c, err := fetch.New(cfg.Fetch, expr, st, tr, log)
	if err != nil {
		return err
	}

	ctx := context.Background()
	papers, err := c.FetchUpdates(ctx)
	if errors.Is(err, store.ErrEmptyStore) {
		return fmt.Errorf("store is empty, run fetch first: %w", err)
	}
	if err != nil {
		return err
	}

	backfillTranslations(ctx, st, tr, cfg, log)

	fmt.Printf("Stored %d new papers\n", len(papers))
	return nil
}

func init() {
	updateCmd.Flags().String("chat", "", "chat whose keyword subscription to use (default: the default subscription)")

	rootCmd.AddCommand(updateCmd)
}
