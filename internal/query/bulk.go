// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// SearchParams builds the query string for the advanced-search endpoint
// (bulk mode). Required keywords come first, each its own AND term; every
// optional group follows with its first keyword ANDed to the preceding
// terms and the rest ORed within the group. All terms search every field.
//
// The date window is month-granular: the endpoint only filters by
// first-announced month, ordered newest first, scoped to computer science
// with cross-lists included.
func SearchParams(expr Expression, from, until time.Time, start, size int) string {
	var b strings.Builder
	b.WriteString("advanced=")

	idx := 0
	term := func(op, kw string) {
		fmt.Fprintf(&b, "&terms-%d-operator=%s&terms-%d-term=%s&terms-%d-field=all",
			idx, op, idx, url.QueryEscape(kw), idx)
		idx++
	}

	for _, kw := range expr.Required {
		term("AND", kw)
	}
	for _, group := range expr.Optional {
		for i, kw := range group {
			if i == 0 {
				term("AND", kw)
			} else {
				term("OR", kw)
			}
		}
	}

	fmt.Fprintf(&b, "&classification-computer_science=y&classification-physics_archives=all"+
		"&classification-include_cross_list=include"+
		"&date-year=&date-filter_by=date_range&date-from_date=%s&date-to_date=%s"+
		"&date-date_type=announced_date_first&abstracts=show&size=%d&order=-announced_date_first&start=%d",
		from.Format("2006-01"), until.Format("2006-01"), size, start)
	return b.String()
}
