// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lyh1028/arxiv-tracker/internal/store"
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove papers announced in a date window",
	Long: `Delete removes every paper whose announcement date falls in
[--from, --until]. The usual remedy for a bad crawl is delete followed by
a fresh fetch of the same window.`,
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	from, until, err := dateWindow(cmd)
	if err != nil {
		return err
	}

	cfg := loadConfig()
	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	n, err := st.DeleteRange(context.Background(), from, until)
	if err != nil {
		return err
	}

	fmt.Printf("Deleted %d papers announced %s..%s\n",
		n, from.Format("2006-01-02"), until.Format("2006-01-02"))
	return nil
}

func init() {
	deleteCmd.Flags().String("from", "", "window start (YYYY-MM-DD)")
	deleteCmd.Flags().String("until", "", "window end (YYYY-MM-DD, default: --from)")

	rootCmd.AddCommand(deleteCmd)
}
