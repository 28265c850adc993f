// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch coordinates the crawl workflows: full crawls of a date
// window over the advanced-search page or the Atom API, and incremental
// updates that walk backward from the newest stored announcement.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/lyh1028/arxiv-tracker/internal/announce"
	"github.com/lyh1028/arxiv-tracker/internal/httputil"
	"github.com/lyh1028/arxiv-tracker/internal/query"
	"github.com/lyh1028/arxiv-tracker/internal/store"
	"github.com/lyh1028/arxiv-tracker/internal/translate"
	"github.com/lyh1028/arxiv-tracker/pkg/types"
)

// Coordinator runs crawl workflows against one Store. Per-run results live
// in local values, never on the Coordinator, so one instance can serve
// successive or concurrent runs.
type Coordinator struct {
	client  *http.Client
	limiter *rate.Limiter
	store   *store.Store
	tr      translate.Translator
	log     zerolog.Logger
	cfg     types.FetchConfig
	expr    query.Expression
}

// New builds a Coordinator. tr may be nil to disable translation.
func New(cfg types.FetchConfig, expr query.Expression, st *store.Store, tr translate.Translator, log zerolog.Logger) (*Coordinator, error) {
	client, err := httputil.NewClient(cfg.HTTPConfig)
	if err != nil {
		return nil, fmt.Errorf("building HTTP client: %w", err)
	}

	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}
	rps := cfg.RatePerSecond
	if rps <= 0 {
		rps = 1
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}

	return &Coordinator{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		store:   st,
		tr:      tr,
		log:     log,
		cfg:     cfg,
		expr:    expr,
	}, nil
}

// monthWindow widens a day-granular window to the month-granular one the
// advanced-search endpoint filters by. A window inside a single month must
// end at the first of the next month or the endpoint returns nothing for
// it.
func monthWindow(from, until time.Time) (time.Time, time.Time) {
	searchFrom := announce.MonthStart(from)
	searchUntil := announce.MonthStart(until)
	if searchFrom.Equal(searchUntil) {
		searchUntil = announce.MonthStart(searchFrom.AddDate(0, 0, 31))
	}
	return searchFrom, searchUntil
}

// updateWindow derives the incremental search start and announcement floor
// from the stored anchor. When the next announcement day is its month's
// first valid day, those papers are filed under the previous month by the
// search endpoint, so the search start rewinds one month while the floor
// stays put.
func updateWindow(anchor time.Time) (searchFrom, floor time.Time) {
	searchFrom = announce.NextDay(anchor)
	floor = searchFrom
	if searchFrom.Equal(announce.NextDay(announce.MonthStart(searchFrom))) {
		searchFrom = searchFrom.AddDate(0, 0, -31)
	}
	return searchFrom, floor
}

// translateAll fills the translated fields in place. A failed field keeps
// its original text; the backfill pass picks it up later.
func (c *Coordinator) translateAll(ctx context.Context, papers []types.Paper) {
	if c.tr == nil || c.cfg.TranslateTo == "" {
		return
	}
	for i := range papers {
		title, err := c.tr.Translate(ctx, papers[i].Title, c.cfg.TranslateTo)
		if err != nil {
			c.log.Debug().Err(err).Str("url", papers[i].URL).Msg("title translation failed")
		} else {
			papers[i].TitleTranslated = title
		}

		abstract, err := c.tr.Translate(ctx, papers[i].Abstract, c.cfg.TranslateTo)
		if err != nil {
			c.log.Debug().Err(err).Str("url", papers[i].URL).Msg("abstract translation failed")
		} else {
			papers[i].AbstractTranslated = abstract
		}
	}
}

func (c *Coordinator) persist(ctx context.Context, papers []types.Paper) error {
	if len(papers) == 0 {
		return nil
	}
	if err := c.store.Upsert(ctx, papers); err != nil {
		return fmt.Errorf("storing papers: %w", err)
	}
	return nil
}
