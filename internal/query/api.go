// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MaxWindowDays is the widest date window the programmatic API mode accepts.
const MaxWindowDays = 31

// ErrWindowTooWide reports a programmatic-mode window beyond MaxWindowDays.
// The check runs before any network traffic.
var ErrWindowTooWide = errors.New("date window exceeds 31 days")

// CheckWindow validates a programmatic-mode date window.
func CheckWindow(from, until time.Time) error {
	if until.Sub(from) > MaxWindowDays*24*time.Hour {
		return fmt.Errorf("%s to %s: %w",
			from.Format("2006-01-02"), until.Format("2006-01-02"), ErrWindowTooWide)
	}
	return nil
}

// APIParams builds the query string for the Atom API endpoint (programmatic
// mode): optional OR-groups first, then required keywords, all joined with
// AND; each keyword must appear in the title or the abstract. Results sort
// by submission date, newest first. An empty expression searches all titles
// and abstracts.
func APIParams(expr Expression, start, max int) string {
	var parts []string
	for _, group := range expr.Optional {
		if len(group) == 0 {
			continue
		}
		terms := make([]string, 0, len(group))
		for _, kw := range group {
			terms = append(terms, fieldTerm(kw))
		}
		parts = append(parts, "("+strings.Join(terms, "+OR+")+")")
	}
	for _, kw := range expr.Required {
		parts = append(parts, fieldTerm(kw))
	}

	q := "ti:*+OR+abs:*"
	if len(parts) > 0 {
		q = strings.Join(parts, "+AND+")
	}
	return fmt.Sprintf("search_query=%s&start=%d&max_results=%d&sortBy=submittedDate&sortOrder=descending",
		q, start, max)
}

// fieldTerm scopes one keyword to the title or the abstract. Words of a
// multi-word keyword join with '+' the way the API expects.
func fieldTerm(kw string) string {
	w := strings.Join(strings.Fields(kw), "+")
	return fmt.Sprintf("(ti:%s+OR+abs:%s)", w, w)
}
