// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/lyh1028/arxiv-tracker/internal/httputil"
	"github.com/lyh1028/arxiv-tracker/internal/parse"
	"github.com/lyh1028/arxiv-tracker/internal/query"
)

// Endpoint bases; tests point these at local servers.
var (
	searchBase = "https://arxiv.org/search/advanced"
	apiBase    = "http://export.arxiv.org/api/query"
)

// fetchSearchPage retrieves and parses one advanced-search result page.
// start is the record offset; the window is month-granular.
func (c *Coordinator) fetchSearchPage(ctx context.Context, from, until time.Time, start int) (*parse.SearchResults, error) {
	u := searchBase + "?" + query.SearchParams(c.expr, from, until, start, c.cfg.PageSize)
	body, err := c.fetchURL(ctx, u)
	if err != nil {
		return nil, err
	}
	return parse.Search(bytes.NewReader(body), c.log)
}

// fetchFeedBatch retrieves and parses one Atom API batch.
func (c *Coordinator) fetchFeedBatch(ctx context.Context, start int) (*parse.FeedResults, error) {
	u := apiBase + "?" + query.APIParams(c.expr, start, c.cfg.PageSize)
	body, err := c.fetchURL(ctx, u)
	if err != nil {
		return nil, err
	}
	return parse.Feed(bytes.NewReader(body), c.log)
}

func (c *Coordinator) fetchURL(ctx context.Context, u string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	c.log.Debug().Str("url", u).Msg("requesting")
	return httputil.FetchText(ctx, c.client, req, c.cfg.MaxRetries)
}
