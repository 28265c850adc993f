// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lyh1028/arxiv-tracker/pkg/types"
)

// FeedResults holds one parsed batch from the Atom API.
type FeedResults struct {
	// Total is the opensearch totalResults value; zero when the feed does
	// not carry one, in which case the caller falls back to batch-length
	// heuristics.
	Total int

	Papers []types.Paper
}

// atomFeed mirrors the subset of the arXiv Atom response the pipeline uses.
type atomFeed struct {
	TotalResults int         `xml:"totalResults"`
	Entries      []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID         string         `xml:"id"`
	Title      string         `xml:"title"`
	Summary    string         `xml:"summary"`
	Published  string         `xml:"published"`
	Comment    string         `xml:"comment"`
	Authors    []atomAuthor   `xml:"author"`
	Categories []atomCategory `xml:"category"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

// Feed parses one Atom batch from the programmatic API. A feed that does
// not decode at all is an error for the whole batch; individual entries
// with no usable identity or date are dropped and logged.
func Feed(r io.Reader, log zerolog.Logger) (*FeedResults, error) {
	var feed atomFeed
	if err := xml.NewDecoder(r).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	out := &FeedResults{Total: feed.TotalResults}
	for _, entry := range feed.Entries {
		paper, err := entryToPaper(entry)
		if err != nil {
			log.Warn().Err(err).Msg("dropping unreadable feed entry")
			continue
		}
		out.Papers = append(out.Papers, paper)
	}
	return out, nil
}

func entryToPaper(entry atomEntry) (types.Paper, error) {
	if entry.ID == "" {
		return types.Paper{}, fmt.Errorf("entry has no id")
	}

	submitted, err := time.Parse(time.RFC3339, entry.Published)
	if err != nil {
		return types.Paper{}, fmt.Errorf("%s: parsing published date: %w", entry.ID, err)
	}
	submitted = time.Date(submitted.Year(), submitted.Month(), submitted.Day(), 0, 0, 0, 0, time.UTC)

	authors := make([]string, 0, len(entry.Authors))
	for _, a := range entry.Authors {
		authors = append(authors, strings.TrimSpace(a.Name))
	}

	var categories []string
	for _, c := range entry.Categories {
		if c.Term != "" {
			categories = append(categories, c.Term)
		}
	}

	return types.Paper{
		URL:                entry.ID,
		Title:              normalizeWhitespace(entry.Title),
		Abstract:           normalizeWhitespace(entry.Summary),
		Authors:            strings.Join(authors, ", "),
		Categories:         categories,
		Comments:           normalizeWhitespace(entry.Comment),
		FirstSubmittedDate: submitted,
	}, nil
}
