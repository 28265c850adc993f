// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package announce encodes arXiv's announcement calendar. arXiv lists new
// submissions only on business days, so every date-facing stage of the
// pipeline maps calendar dates onto valid announcement days through this
// package.
package announce

import (
	"time"

	"github.com/lyh1028/arxiv-tracker/pkg/types"
)

// NextDay returns the first valid announcement day on or after t, truncated
// to midnight. Weekdays map to themselves; Saturday and Sunday roll forward
// to Monday.
func NextDay(t time.Time) time.Time {
	switch t.Weekday() {
	case time.Saturday:
		t = t.AddDate(0, 0, 2)
	case time.Sunday:
		t = t.AddDate(0, 0, 1)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// MonthStart returns midnight on the first day of t's month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// MonthFloor returns the earliest announcement day a month-scoped search can
// attribute to t's month. arXiv files papers announced on a month's first
// valid day under the previous month, so the reachable floor sits one
// announcement cycle later than the naive first valid day.
func MonthFloor(t time.Time) time.Time {
	return NextDay(NextDay(MonthStart(t)).AddDate(0, 0, 1))
}

// Resolve assigns FirstAnnouncedDate to every paper in place. Papers are
// expected in fetch order (newest submission first); the walk runs oldest
// first so announcement dates never decrease along the submission timeline.
//
// firstPossible is the earliest announcement day any of these papers could
// have: the month floor for a bulk crawl, or the update anchor for an
// incremental one.
func Resolve(papers []types.Paper, firstPossible time.Time) {
	floor := NextDay(firstPossible)
	for i := len(papers) - 1; i >= 0; i-- {
		// A submission on day T is announced no earlier than the first
		// valid day after T; the upstream's end-of-day cutoff can push it
		// later, never earlier.
		candidate := NextDay(papers[i].FirstSubmittedDate.AddDate(0, 0, 1))
		if candidate.After(floor) {
			floor = candidate
		}
		papers[i].FirstAnnouncedDate = floor
	}
}
