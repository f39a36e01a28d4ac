// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the PubMed provider, the
// backlog dataset and the registry importer.
package httputil

import (
	"context"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/pdiddy/bioregistry-curator/internal/logger"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// throttled responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

// maxRetryAfter caps how long a server-supplied Retry-After may stall us.
const maxRetryAfter = 60 * time.Second

const defaultMaxRetries = 3

// retryable reports whether a status signals a transient throttle.
func retryable(code int) bool {
	return code == http.StatusTooManyRequests || code == http.StatusServiceUnavailable
}

// DoWithRetry executes an HTTP request and retries on HTTP 429 and 503 with
// exponential backoff starting at RetryBaseDelay. A Retry-After header given
// in seconds replaces the computed backoff for that attempt.
//
// When maxRetries is 0 the default (3) is used. The body of a throttled
// response is drained and closed before sleeping. If the context is
// cancelled during a backoff wait the function returns ctx.Err(). After
// exhausting retries the last throttled response is returned so the caller
// can inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if !retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		if d, ok := retryAfter(resp.Header.Get("Retry-After")); ok {
			backoff = d
		}
		logger.Logger.Debugw("throttled, retrying",
			"url", req.URL.Redacted(), "status", resp.StatusCode,
			"backoff", backoff, "attempt", attempt+1, "max_retries", maxRetries)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

func retryAfter(v string) (time.Duration, bool) {
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0, false
	}
	d := time.Duration(secs) * time.Second
	if d > maxRetryAfter {
		d = maxRetryAfter
	}
	return d, true
}
