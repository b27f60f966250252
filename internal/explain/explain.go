// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package explain produces short structured explanations of why a document
// matches a research profile, through a cache -> heuristic -> generative
// fallback chain. Implements: prd003-explanation (R1-R5).
package explain

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/jpreyes/paperradarai-bot/pkg/types"
)

// Backoff constants for the generative retry loop. Package-level vars so
// tests avoid real sleeps.
var (
	backoffBase   = 800 * time.Millisecond
	backoffJitter = 600 * time.Millisecond
)

const defaultMaxRetries = 3

// Provider owns the explanation pipeline: a persistent cache of generative
// results plus an optional generative backend. A nil backend means the
// provider never leaves the heuristic path.
type Provider struct {
	cache      *Cache
	backend    Backend
	maxRetries int
}

// NewProvider builds a provider. maxRetries <= 0 uses the default (3).
func NewProvider(cache *Cache, backend Backend, maxRetries int) *Provider {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	return &Provider{cache: cache, backend: backend, maxRetries: maxRetries}
}

// Explain returns an explanation for the (profile, document) pair. With
// allowGenerative false or no backend configured, the heuristic path runs
// with no cache lookup and no network. Otherwise the cache is consulted
// first (a hit never triggers a network call), then the assistant is
// called with retries, falling back to the heuristic on failure.
//
// Explain always returns a usable record; no failure propagates.
func (p *Provider) Explain(ctx context.Context, profileSummary string, topics []string, title, abstract string, allowGenerative bool) types.Explanation {
	if !allowGenerative || p.backend == nil {
		return Heuristic(profileSummary, topics, title, abstract)
	}

	key := cacheKey(profileSummary, topics, title, abstract)
	if cached, ok := p.cache.Get(key); ok {
		cached.Tag = types.TagGenerativeCached
		return cached
	}

	var lastErr error
	for attempt := 0; attempt < p.maxRetries; attempt++ {
		resp, err := p.backend.Ideas(ctx, profileSummary, topics, title, abstract)
		if err == nil {
			result := types.Explanation{
				Similarities: truncate(resp.Similarities, maxSimilarities),
				Ideas:        truncate(resp.Ideas, maxIdeas),
				Tag:          types.TagGenerative,
			}
			// Only genuine generative results enter the cache; a cached
			// heuristic would outlive the outage that produced it.
			p.cache.Put(key, result)
			return result
		}

		lastErr = err
		if !retryable(err) || attempt == p.maxRetries-1 {
			break
		}
		if !sleepBackoff(ctx, attempt) {
			break
		}
	}

	fmt.Fprintf(os.Stderr, "warning: assistant failed, using heuristic: %v\n", lastErr)
	out := Heuristic(profileSummary, topics, title, abstract)
	out.Tag = types.TagGenerativeFailed
	return out
}

// sleepBackoff waits base*2^attempt plus uniform jitter, returning false
// when the context is cancelled during the wait.
func sleepBackoff(ctx context.Context, attempt int) bool {
	delay := backoffBase << attempt
	if backoffJitter > 0 {
		delay += time.Duration(rand.Int63n(int64(backoffJitter)))
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(delay):
		return true
	}
}
