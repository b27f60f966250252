// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across source connectors.
package httputil

import (
	"context"
	"io"
	"math/rand"
	"net/http"
	"time"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// transient responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

// RetryJitter is the upper bound of the random delay added to each
// backoff wait, spreading out retries from concurrent connectors.
var RetryJitter = 500 * time.Millisecond

const defaultMaxRetries = 3

// transient reports whether an HTTP status is worth retrying:
// 429 or any 5xx.
func transient(code int) bool {
	return code == http.StatusTooManyRequests || (code >= 500 && code < 600)
}

// DoWithRetry executes an HTTP request and retries on transient statuses
// (429 and 5xx) with jittered exponential backoff: RetryBaseDelay doubles
// each attempt, plus up to RetryJitter of random spread.
//
// When maxRetries is 0 the default (3) is used. On each transient response
// the body is drained and closed before sleeping. If the context is
// cancelled during a backoff wait the function returns ctx.Err(). After
// exhausting retries the last response is returned so the caller can
// inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if !transient(resp.StatusCode) {
			return resp, nil
		}

		// Exhausted retries — return the transient response as-is.
		if attempt >= maxRetries {
			return resp, nil
		}

		// Drain and close the body before retrying.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := RetryBaseDelay << attempt
		if RetryJitter > 0 {
			backoff += time.Duration(rand.Int63n(int64(RetryJitter)))
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}
