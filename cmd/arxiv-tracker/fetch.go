// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lyh1028/arxiv-tracker/internal/fetch"
	"github.com/lyh1028/arxiv-tracker/internal/logging"
	"github.com/lyh1028/arxiv-tracker/internal/store"
	"github.com/lyh1028/arxiv-tracker/pkg/types"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Crawl a window of announced papers into the store",
	Long: `Fetch crawls every paper announced in [--from, --until] and stores the
results. Bulk mode walks the advanced-search listing month by month and
derives real announcement dates. API mode walks the Atom feed instead;
the feed carries no announcement schedule, so papers are stored with the
announcement date equal to the submission date, and the window may span
at most 31 days.`,
	RunE: runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	from, until, err := dateWindow(cmd)
	if err != nil {
		return err
	}
	mode, _ := cmd.Flags().GetString("mode")
	if mode != "bulk" && mode != "api" {
		return fmt.Errorf("unsupported mode %q: use bulk or api", mode)
	}

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
	var papers []types.Paper
	if mode == "api" {
		papers, err = c.FetchAllAPI(ctx, from, until)
	} else {
		papers, err = c.FetchAll(ctx, from, until)
	}
	if err != nil {
		return err
	}

	backfillTranslations(ctx, st, tr, cfg, log)

	fmt.Printf("Stored %d papers for %s..%s\n",
		len(papers), from.Format("2006-01-02"), until.Format("2006-01-02"))
	return nil
}

func init() {
	fetchCmd.Flags().String("from", "", "window start (YYYY-MM-DD)")
	fetchCmd.Flags().String("until", "", "window end (YYYY-MM-DD, default: --from)")
	fetchCmd.Flags().String("mode", "bulk", "crawl mode: bulk or api")
	fetchCmd.Flags().String("chat", "", "chat whose keyword subscription to use (default: the default subscription)")

	rootCmd.AddCommand(fetchCmd)
}
