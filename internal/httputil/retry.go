// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the retrying HTTP transport shared by both
// fetch modes.
package httputil

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/lyh1028/arxiv-tracker/pkg/types"
)

// RetryBaseDelay controls the base duration for exponential backoff between
// attempts. Tests override this to avoid real sleeps.
var RetryBaseDelay = 1 * time.Second

const defaultMaxRetries = 3

// NewClient builds the HTTP client both fetch modes share: fixed timeout,
// optional proxy. Each call through it is a single attempt; retries live in
// FetchText.
func NewClient(cfg types.HTTPConfig) (*http.Client, error) {
	client := &http.Client{Timeout: cfg.Timeout}
	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			return nil, fmt.Errorf("parsing proxy URL: %w", err)
		}
		client.Transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	}
	return client, nil
}

// FetchText executes an HTTP request and returns the response body,
// retrying on any transport failure: connection errors, timeouts, and
// non-2xx statuses all count. The delay starts at RetryBaseDelay and
// doubles each attempt.
//
// When maxRetries is 0 the default (3) is used. Failed response bodies are
// drained and closed before sleeping. If the context is cancelled during a
// backoff wait the function returns ctx.Err(). After exhausting retries the
// last failure is returned; the caller decides whether a dead page aborts
// its run.
func FetchText(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) ([]byte, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	var lastErr error
	for attempt := 0; ; attempt++ {
		body, err := fetchOnce(ctx, client, req)
		if err == nil {
			return body, nil
		}
		lastErr = err

		// Cancellation is not a retryable failure.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt >= maxRetries {
			return nil, fmt.Errorf("after %d attempts: %w", attempt+1, lastErr)
		}

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

func fetchOnce(ctx context.Context, client *http.Client, req *http.Request) ([]byte, error) {
	resp, err := client.Do(req.Clone(ctx))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return body, nil
}
