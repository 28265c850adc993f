// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export renders stored papers into per-day digest files.
// Each announcement day in the requested window becomes one file,
// partitioned into papers matching the category whitelist and papers
// set aside with the reason they were filtered.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/lyh1028/arxiv-tracker/internal/store"
	"github.com/lyh1028/arxiv-tracker/pkg/types"
)

// Exporter renders per-day digests from the store.
type Exporter struct {
	store *store.Store
	cfg   types.ExportConfig
	log   zerolog.Logger
}

func New(st *store.Store, cfg types.ExportConfig, log zerolog.Logger) *Exporter {
	return &Exporter{store: st, cfg: cfg, log: log}
}

// Markdown writes one markdown digest per announcement day in
// [from, until], named YYYY-MM-DD.md.
func (e *Exporter) Markdown(ctx context.Context, from, until time.Time) error {
	return e.renderDays(ctx, from, until, "md", e.markdownBody)
}

// CSV writes one CSV digest per announcement day in [from, until],
// named YYYY-MM-DD.csv.
func (e *Exporter) CSV(ctx context.Context, from, until time.Time) error {
	return e.renderDays(ctx, from, until, "csv", e.csvBody)
}

type renderFunc func(day time.Time, chosen, filtered []Record) ([]byte, error)

func (e *Exporter) renderDays(ctx context.Context, from, until time.Time, ext string, render renderFunc) error {
	if err := os.MkdirAll(e.cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	for day := from; !day.After(until); day = day.AddDate(0, 0, 1) {
		papers, err := e.store.PapersOn(ctx, day)
		if err != nil {
			return fmt.Errorf("loading papers for %s: %w", day.Format("2006-01-02"), err)
		}
		chosen, filtered := Partition(papers, e.cfg.Whitelist, e.cfg.Blacklist)

		body, err := render(day, chosen, filtered)
		if err != nil {
			return err
		}

		name := day.Format("2006-01-02") + "." + ext
		if err := writeFile(filepath.Join(e.cfg.Dir, name), body); err != nil {
			return err
		}
		e.log.Info().
			Str("file", name).
			Int("chosen", len(chosen)).
			Int("filtered", len(filtered)).
			Msg("exported")
	}
	return nil
}

// writeFile writes atomically: a temp file in the target directory,
// renamed into place once fully written.
func writeFile(destPath string, data []byte) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".export-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing export: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// orDash substitutes "-" for an empty field so digests never render a
// blank value.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
