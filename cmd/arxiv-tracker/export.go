// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lyh1028/arxiv-tracker/internal/export"
	"github.com/lyh1028/arxiv-tracker/internal/logging"
	"github.com/lyh1028/arxiv-tracker/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render per-day digests of stored papers",
	Long: `Export writes one digest file per announcement day in [--from, --until].
Papers matching the category whitelist group under their primary category;
the rest are listed with the reason they were filtered.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	from, until, err := dateWindow(cmd)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")

	cfg := loadConfig()
	if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
		cfg.Export.Dir = dir
	}
	log := logging.New(cfg.Logging)

	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	e := export.New(st, cfg.Export, log)
	ctx := context.Background()

	switch format {
	case "markdown", "md":
		err = e.Markdown(ctx, from, until)
	case "csv":
		err = e.CSV(ctx, from, until)
	default:
		return fmt.Errorf("unsupported format %q: use markdown or csv", format)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Exported %s..%s to %s\n",
		from.Format("2006-01-02"), until.Format("2006-01-02"), cfg.Export.Dir)
	return nil
}

func init() {
	exportCmd.Flags().String("from", "", "window start (YYYY-MM-DD)")
	exportCmd.Flags().String("until", "", "window end (YYYY-MM-DD, default: --from)")
	exportCmd.Flags().String("dir", "", "output directory (overrides config)")
	exportCmd.Flags().String("format", "markdown", "digest format: markdown or csv")

	rootCmd.AddCommand(exportCmd)
}
