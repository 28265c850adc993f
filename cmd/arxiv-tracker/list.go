// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lyh1028/arxiv-tracker/internal/query"
	"github.com/lyh1028/arxiv-tracker/internal/store"
	"github.com/lyh1028/arxiv-tracker/pkg/types"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Query stored papers by keywords and announcement window",
	Long: `List queries the store. Every --required keyword must appear in the
title or the abstract; each --optional flag names a comma-separated group
of which at least one keyword must appear. Dates bound the announcement
window inclusively. Without filters, list shows the whole store newest
first.`,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	var from, until time.Time
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

	expr := exprFromFlags(cmd)
	limit, _ := cmd.Flags().GetInt("limit")

	cfg := loadConfig()
	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	papers, err := st.Search(context.Background(), expr, from, until, limit)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatListOutput(papers, jsonOutput)
}

func exprFromFlags(cmd *cobra.Command) query.Expression {
	required, _ := cmd.Flags().GetStringArray("required")
	optionalRaw, _ := cmd.Flags().GetStringArray("optional")
	return query.Expression{Required: required, Optional: splitGroups(optionalRaw)}
}

func formatListOutput(papers []types.Paper, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(papers)
	}

	if len(papers) == 0 {
		fmt.Println("No papers found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-10s  %-60s  %s\n", "Announced", "Title", "URL")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for _, p := range papers {
		title := p.Title
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-10s  %-60s  %s\n",
			p.FirstAnnouncedDate.Format("2006-01-02"), title, p.URL)
	}

	fmt.Fprintf(os.Stdout, "\n%d papers\n", len(papers))
	return nil
}

func init() {
	listCmd.Flags().String("from", "", "announcement window start (YYYY-MM-DD)")
	listCmd.Flags().String("until", "", "announcement window end (YYYY-MM-DD)")
	listCmd.Flags().StringArray("required", nil, "keyword that must match (repeatable)")
	listCmd.Flags().StringArray("optional", nil, "comma-separated OR-group of keywords (repeatable)")
	listCmd.Flags().Int("limit", 0, "maximum results (0 = all)")
	listCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(listCmd)
}
