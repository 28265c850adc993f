// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parse extracts normalized paper records from the two upstream
// result formats: the advanced-search HTML listing and the Atom API feed.
// Malformed individual entries are dropped and logged; they never fail the
// surrounding page.
package parse

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/lyh1028/arxiv-tracker/pkg/types"
)

// SearchResults holds one parsed page of the advanced-search listing.
type SearchResults struct {
	// Total is the result count reported by the page header. Only the
	// first page of a crawl carries a meaningful one. TotalKnown is false
	// when the header is missing or unreadable; the caller then falls back
	// to short-page termination.
	Total      int
	TotalKnown bool

	Papers []types.Paper
}

// Search parses an advanced-search result page.
func Search(r io.Reader, log zerolog.Logger) (*SearchResults, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing search page: %w", err)
	}

	out := &SearchResults{}
	out.Total, out.TotalKnown = searchTotal(doc)

	doc.Find("li.arxiv-result").Each(func(_ int, result *goquery.Selection) {
		paper, err := searchResult(result)
		if err != nil {
			log.Warn().Err(err).Msg("dropping unreadable search result")
			return
		}
		out.Papers = append(out.Papers, paper)
	})
	return out, nil
}

// searchTotal reads the "Showing 1–50 of 2,542 results" header. A query
// with no hits renders an apology line instead and counts as zero. A
// missing or unreadable header is reported as unknown, not an error.
func searchTotal(doc *goquery.Document) (int, bool) {
	header := doc.Find("#main-container > div.level.is-marginless > div.level-left > h1")
	if header.Length() == 0 {
		return 0, false
	}
	text := header.First().Text()
	if strings.Contains(text, "Sorry") {
		return 0, true
	}

	of := strings.Index(text, "of")
	results := strings.Index(text, "results")
	if of < 0 || results < 0 || results <= of {
		return 0, false
	}
	raw := strings.ReplaceAll(strings.TrimSpace(text[of+len("of"):results]), ",", "")
	total, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return total, true
}

func searchResult(result *goquery.Selection) (types.Paper, error) {
	url, ok := result.Find("a").First().Attr("href")
	if !ok || url == "" {
		return types.Paper{}, fmt.Errorf("result has no link")
	}

	dateText := strippedText(result.Find("p.is-size-7").First())
	submitted, err := submittedDate(dateText)
	if err != nil {
		return types.Paper{}, fmt.Errorf("%s: %w", url, err)
	}

	var categories []string
	result.Find("span.tag").Each(func(_ int, tag *goquery.Selection) {
		if tag.HasClass("tooltip") {
			categories = append(categories, strings.TrimSpace(tag.Text()))
		}
	})

	abstract := result.Find("span.abstract-full")
	if abstract.Length() == 0 {
		abstract = result.Find("span.abstract-short")
	}

	return types.Paper{
		URL:                url,
		Title:              strings.TrimSpace(flattenedText(result.Find("p.title"))),
		Abstract:           strings.TrimSpace(flattenedText(abstract)),
		Authors:            strings.TrimPrefix(strippedText(result.Find("p.authors")), "Authors:"),
		Categories:         categories,
		Comments:           strings.TrimPrefix(strippedText(result.Find("p.comments").First()), "Comments:"),
		FirstSubmittedDate: submitted,
	}, nil
}

// CSOnly keeps papers whose category tags all sit inside the computer
// science taxonomy. This is the hard allow-list applied after parsing,
// distinct from the display whitelist used by the exporters.
func CSOnly(papers []types.Paper) []types.Paper {
	var kept []types.Paper
	for _, p := range papers {
		if len(p.Categories) == 0 {
			continue
		}
		all := true
		for _, cat := range p.Categories {
			if !strings.HasPrefix(cat, "cs.") {
				all = false
				break
			}
		}
		if all {
			kept = append(kept, p)
		}
	}
	return kept
}
