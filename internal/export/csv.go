// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"time"
)

var csvHeader = []string{
	"Title", "Interest", "Title Translated", "Categories", "Authors",
	"URL", "PapersCool", "First Submitted Date", "First Announced Date",
	"Abstract", "Abstract Translated", "Comments", "Note",
}

// csvBody renders one day's digest as CSV, chosen rows first.
func (e *Exporter) csvBody(_ time.Time, chosen, filtered []Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, rec := range chosen {
		if err := w.Write(csvRow(rec)); err != nil {
			return nil, err
		}
	}
	for _, rec := range filtered {
		if err := w.Write(csvRow(rec)); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func csvRow(rec Record) []string {
	p := rec.Paper
	interest := "filtered"
	if rec.Chosen() {
		interest = "chosen"
	}
	return []string{
		p.Title,
		interest,
		orDash(p.TitleTranslated),
		strings.Join(p.Categories, ","),
		p.Authors,
		p.URL,
		p.PapersCoolURL(),
		p.FirstSubmittedDate.Format("2006-01-02"),
		p.FirstAnnouncedDate.Format("2006-01-02"),
		p.Abstract,
		orDash(p.AbstractTranslated),
		p.Comments,
		rec.Reason,
	}
}
