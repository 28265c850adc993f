// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lyh1028/arxiv-tracker/internal/fetch"
	"github.com/lyh1028/arxiv-tracker/internal/logging"
	"github.com/lyh1028/arxiv-tracker/internal/store"
)

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Show a chat's papers for a date window, crawling on demand",
	Long: `Daily shows the papers matching a chat's subscription for a date window,
both dates defaulting to today. The store answers first; only a window the
store knows nothing about triggers a crawl. A single-day window that stays
empty after the crawl is retried widened a few days back, since the newest
announcement day usually carries papers submitted earlier.`,
	RunE: runDaily,
}

func runDaily(cmd *cobra.Command, args []string) error {
	today := todayUTC()
	from, until := today, today
	if s, _ := cmd.Flags().GetString("from"); s != "" {
		var err error
		if from, err = time.Parse("2006-01-02", s); err != nil {
			return fmt.Errorf("parsing --from: %w", err)
		}
	}
	if s, _ := cmd.Flags().GetString("until"); s != "" {
		var err error
		if until, err = time.Parse("2006-01-02", s); err != nil {
			return fmt.Errorf("parsing --until: %w", err)
		}
	}
	if until.Before(from) {
		return fmt.Errorf("--until %s is before --from %s",
			until.Format("2006-01-02"), from.Format("2006-01-02"))
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
	papers, err := c.DailyPapers(ctx, from, until, mode == "api")
	if err != nil {
		return err
	}

	backfillTranslations(ctx, st, tr, cfg, log)

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatListOutput(papers, jsonOutput)
}

func init() {
	dailyCmd.Flags().String("from", "", "window start (YYYY-MM-DD, default: today)")
	dailyCmd.Flags().String("until", "", "window end (YYYY-MM-DD, default: today)")
	dailyCmd.Flags().String("mode", "api", "crawl mode when the store misses: api or bulk")
	dailyCmd.Flags().String("chat", "", "chat whose keyword subscription to use (default: the default subscription)")
	dailyCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(dailyCmd)
}
