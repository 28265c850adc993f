// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

var whitespaceRE = regexp.MustCompile(`\s+`)

const dateLayout = "2 January, 2006"

// normalizeWhitespace collapses all runs of whitespace to single spaces and
// trims the ends, flattening multi-line feed values to one line.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// strippedText renders a node the way a label-and-value fragment reads once
// surrounding markup is removed: every text node is trimmed and the pieces
// concatenate with no separator. "Submitted 9 August, 2024;" therefore
// becomes "Submitted9 August, 2024;" with the label fused to the value.
func strippedText(sel *goquery.Selection) string {
	var b strings.Builder
	sel.Contents().Each(func(_ int, child *goquery.Selection) {
		if goquery.NodeName(child) == "#text" {
			b.WriteString(strings.TrimSpace(child.Text()))
			return
		}
		b.WriteString(strippedText(child))
	})
	return b.String()
}

// flattenedText renders a title or abstract to a single line. Text nodes
// have whitespace runs collapsed, search-hit highlight spans keep their text
// inline as plain text, and the show-more/show-less toggle anchors are
// dropped. Unrecognized child elements are skipped.
func flattenedText(sel *goquery.Selection) string {
	var b strings.Builder
	sel.Contents().Each(func(_ int, child *goquery.Selection) {
		switch goquery.NodeName(child) {
		case "#text":
			b.WriteString(whitespaceRE.ReplaceAllString(child.Text(), " "))
		case "span":
			if child.HasClass("search-hit") {
				b.WriteString(whitespaceRE.ReplaceAllString(child.Text(), " "))
			}
		}
	})
	return b.String()
}

// submittedDate extracts the original submission date from a stripped date
// fragment. Two layouts exist:
//
//	Submitted9 August, 2024;v1submitted 8 August, 2024;originally announced August 2024.
//	Submitted8 August, 2024;originally announced August 2024.
//
// When a v1 marker is present the fragment lists revision history and the
// v1 date is the original submission; the leading "Submitted" date is the
// latest revision and must not be used.
func submittedDate(text string) (time.Time, error) {
	marker := "Submitted"
	if strings.Contains(text, "v1submitted") {
		marker = "v1submitted"
	}
	i := strings.Index(text, marker)
	if i < 0 {
		return time.Time{}, fmt.Errorf("no submission marker in %q", text)
	}
	rest := text[i+len(marker):]
	if end := strings.Index(rest, ";"); end >= 0 {
		rest = rest[:end]
	}
	t, err := time.Parse(dateLayout, strings.TrimSpace(rest))
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing submission date: %w", err)
	}
	return t, nil
}
