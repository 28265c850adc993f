// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/lyh1028/arxiv-tracker/internal/announce"
	"github.com/lyh1028/arxiv-tracker/internal/parse"
	"github.com/lyh1028/arxiv-tracker/internal/query"
	"github.com/lyh1028/arxiv-tracker/pkg/types"
)

// apiTotalCap bounds how deep the Atom API walk goes when the reported
// total is large or unknown.
const apiTotalCap = 1000

// FetchAll crawls every result of the window [from, until] through the
// advanced-search endpoint. The first page is fetched synchronously to
// learn the result count; the remaining pages fan out concurrently. Only
// pure cs papers are kept; they are translated, resolved against the
// month floor, and stored. Returns the accepted papers, newest first.
func (c *Coordinator) FetchAll(ctx context.Context, from, until time.Time) ([]types.Paper, error) {
	searchFrom, searchUntil := monthWindow(from, until)
	floor := announce.MonthFloor(from)

	c.log.Info().
		Str("from", searchFrom.Format("2006-01")).
		Str("until", searchUntil.Format("2006-01")).
		Msg("fetching first page")

	first, err := c.fetchSearchPage(ctx, searchFrom, searchUntil, 0)
	if err != nil {
		return nil, fmt.Errorf("fetching first page: %w", err)
	}

	total := first.Total
	if !first.TotalKnown {
		c.log.Warn().Msg("result count unreadable, keeping the first page only")
		total = len(first.Papers)
	}
	papers := first.Papers
	c.log.Info().Int("total", total).Msg("results found")

	if total > c.cfg.PageSize {
		var starts []int
		for start := c.cfg.PageSize; start < total; start += c.cfg.PageSize {
			starts = append(starts, start)
		}

		// One goroutine per page, one result slot per page: concatenation
		// preserves page order, which the resolver depends on.
		pages := make([][]types.Paper, len(starts))
		var wg sync.WaitGroup
		for i, start := range starts {
			wg.Add(1)
			go func(i, start int) {
				defer wg.Done()
				res, err := c.fetchSearchPage(ctx, searchFrom, searchUntil, start)
				if err != nil {
					c.log.Warn().Err(err).Int("start", start).Msg("page failed, skipping")
					return
				}
				pages[i] = res.Papers
			}(i, start)
		}
		wg.Wait()

		for _, page := range pages {
			papers = append(papers, page...)
		}
	}

	papers = parse.CSOnly(papers)
	c.translateAll(ctx, papers)
	announce.Resolve(papers, floor)
	if err := c.persist(ctx, papers); err != nil {
		return nil, err
	}

	c.log.Info().Int("papers", len(papers)).Msg("fetch completed")
	return papers, nil
}

// FetchAllAPI crawls the window [from, until] through the Atom API. The
// window may span at most 31 days; a single-day window is widened backward
// by the look-back so fresh submissions that have not surfaced yet are
// still caught. Batches walk sequentially, stopping early on a short batch
// or once submissions fall behind the window. The API exposes no
// announcement schedule, so accepted papers carry first-announced equal to
// first-submitted.
func (c *Coordinator) FetchAllAPI(ctx context.Context, from, until time.Time) ([]types.Paper, error) {
	if err := query.CheckWindow(from, until); err != nil {
		return nil, err
	}
	if from.Equal(until) {
		from = until.AddDate(0, 0, -c.lookBackDays())
	}

	c.log.Info().
		Str("from", from.Format("2006-01-02")).
		Str("until", until.Format("2006-01-02")).
		Msg("fetching first batch")

	first, err := c.fetchFeedBatch(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("fetching first batch: %w", err)
	}
	fetched := first.Papers

	total := first.Total
	if total == 0 && len(fetched) > 0 {
		if len(fetched) < c.cfg.PageSize {
			total = len(fetched)
		} else {
			total = apiTotalCap
		}
	}
	if total > apiTotalCap {
		total = apiTotalCap
	}
	c.log.Info().Int("total", total).Msg("results found")

	lookBehind := from.AddDate(0, 0, -c.lookBackDays())
	for start := c.cfg.PageSize; start < total; start += c.cfg.PageSize {
		batch, err := c.fetchFeedBatch(ctx, start)
		if err != nil {
			c.log.Warn().Err(err).Int("start", start).Msg("batch failed, stopping walk")
			break
		}
		fetched = append(fetched, batch.Papers...)
		if len(batch.Papers) < c.cfg.PageSize {
			break
		}
		if earliestSubmission(batch.Papers).Before(lookBehind) {
			break
		}
	}

	// The feed sorts by submission, not the window, so enforce the strict
	// bounds before anything is stored.
	var papers []types.Paper
	for _, p := range fetched {
		if p.FirstSubmittedDate.Before(from) || p.FirstSubmittedDate.After(until) {
			continue
		}
		papers = append(papers, p)
	}

	papers = parse.CSOnly(papers)
	for i := range papers {
		papers[i].FirstAnnouncedDate = papers[i].FirstSubmittedDate
	}
	c.translateAll(ctx, papers)
	if err := c.persist(ctx, papers); err != nil {
		return nil, err
	}

	c.log.Info().Int("papers", len(papers)).Msg("API fetch completed")
	return papers, nil
}

// FetchUpdates crawls forward from the newest stored announcement. Pages
// walk sequentially newest-first; the first page containing an already
// stored paper ends the walk, and everything after the known paper on that
// page is discarded. Unlike the full crawl there is no cs-only filter:
// the stop decision compares against everything previously stored.
func (c *Coordinator) FetchUpdates(ctx context.Context) ([]types.Paper, error) {
	anchor, err := c.store.NewestUpdateTime(ctx)
	if err != nil {
		return nil, fmt.Errorf("finding update anchor: %w", err)
	}

	searchFrom, floor := updateWindow(anchor)
	searchUntil := time.Now().UTC()
	c.log.Info().
		Str("last_update", anchor.Format("2006-01-02 15:04:05")).
		Str("search_from", searchFrom.Format("2006-01-02")).
		Msg("updating from newest stored announcement")
	if !searchFrom.Equal(floor) {
		c.log.Info().
			Str("announce_day", floor.Format("2006-01-02")).
			Msg("month-first announcement day, searching the previous month")
	}

	var papers []types.Paper
	total := 0
	for start := 0; start == 0 || start < total; start += c.cfg.PageSize {
		res, err := c.fetchSearchPage(ctx, searchFrom, searchUntil, start)
		if err != nil {
			if start == 0 {
				return nil, fmt.Errorf("fetching first page: %w", err)
			}
			// Without the page there is no way to tell whether the walk
			// reached known papers; stop rather than skip.
			c.log.Warn().Err(err).Int("start", start).Msg("page failed, stopping walk")
			break
		}

		if start == 0 {
			total = res.Total
			if !res.TotalKnown {
				total = len(res.Papers)
			}
			if total == 0 {
				break
			}
		}

		cnt, err := c.store.CountNew(ctx, res.Papers)
		if err != nil {
			return nil, fmt.Errorf("counting new papers: %w", err)
		}
		papers = append(papers, res.Papers...)
		if cnt < c.cfg.PageSize {
			papers = papers[:start+cnt]
			break
		}
	}

	c.translateAll(ctx, papers)
	announce.Resolve(papers, floor)
	if err := c.persist(ctx, papers); err != nil {
		return nil, err
	}

	c.log.Info().Int("papers", len(papers)).Msg("update completed")
	return papers, nil
}

// DailyPapers returns the papers for [from, until] matching the
// coordinator's expression, reading the store first and crawling only when
// the store has nothing for the window. A single-day window that is still
// empty after the crawl retries widened backward by the look-back, since
// the newest announcement day often carries papers submitted a few days
// earlier.
func (c *Coordinator) DailyPapers(ctx context.Context, from, until time.Time, useAPI bool) ([]types.Paper, error) {
	existing, err := c.store.Search(ctx, c.expr, from, until, 0)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	var fetched []types.Paper
	if useAPI {
		fetched, err = c.FetchAllAPI(ctx, from, until)
	} else {
		// A reasonably fresh store can update incrementally; a stale or
		// empty one needs the full crawl.
		anchor, anchorErr := c.store.NewestUpdateTime(ctx)
		if anchorErr == nil && !anchor.Before(from.AddDate(0, 0, -7)) {
			fetched, err = c.FetchUpdates(ctx)
		} else {
			fetched, err = c.FetchAll(ctx, from, until)
		}
	}
	if err != nil {
		return nil, err
	}
	if len(fetched) > 0 {
		return fetched, nil
	}

	papers, err := c.store.Search(ctx, c.expr, from, until, 0)
	if err != nil {
		return nil, err
	}
	if len(papers) == 0 && from.Equal(until) {
		widened := from.AddDate(0, 0, -c.lookBackDays())
		c.log.Info().
			Str("from", widened.Format("2006-01-02")).
			Str("until", until.Format("2006-01-02")).
			Msg("no papers for the day, widening the window")
		return c.store.Search(ctx, c.expr, widened, until, 0)
	}
	return papers, nil
}

// Reprocess re-derives the announcement date of every stored paper and
// writes the results back. It returns how many papers were reprocessed.
func (c *Coordinator) Reprocess(ctx context.Context) (int, error) {
	papers, err := c.store.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading papers: %w", err)
	}
	if len(papers) == 0 {
		return 0, nil
	}

	// The resolver wants newest submissions first.
	sort.SliceStable(papers, func(i, j int) bool {
		return papers[i].FirstSubmittedDate.After(papers[j].FirstSubmittedDate)
	})

	earliest := papers[len(papers)-1].FirstSubmittedDate
	announce.Resolve(papers, announce.MonthFloor(earliest))
	if err := c.persist(ctx, papers); err != nil {
		return 0, err
	}
	return len(papers), nil
}

func (c *Coordinator) lookBackDays() int {
	if c.cfg.LookBackDays > 0 {
		return c.cfg.LookBackDays
	}
	return 4
}

func earliestSubmission(papers []types.Paper) time.Time {
	earliest := papers[0].FirstSubmittedDate
	for _, p := range papers[1:] {
		if p.FirstSubmittedDate.Before(earliest) {
			earliest = p.FirstSubmittedDate
		}
	}
	return earliest
}
