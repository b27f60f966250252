// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch pulls candidate documents from external catalogs and
// normalizes them into the common document shape. Implements: prd001-ingest
// (R1, R2, R5).
package fetch

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/jpreyes/paperradarai-bot/pkg/types"
)

// Source pulls recent documents from a single external catalog. Each
// connector (arXiv, Crossref) implements this interface per the Strategy
// pattern (R1.3).
type Source interface {
	Name() string
	Fetch(ctx context.Context, cfg types.FetchConfig) ([]types.Document, error)
}

// Output holds the merged documents and per-source statistics.
type Output struct {
	Documents    []types.Document
	DupsRemoved  int
	SourceErrors []string
}

// FetchAll fans out to all sources concurrently, merges duplicates, and
// returns the combined document list. A failing source is reported as a
// warning and skipped; only an empty source list is an error (R1.4).
func FetchAll(ctx context.Context, sources []Source, cfg types.FetchConfig, w io.Writer) (Output, error) {
	if len(sources) == 0 {
		return Output{}, fmt.Errorf("no document sources configured")
	}

	type sourceResult struct {
		docs []types.Document
		err  error
		name string
	}

	ch := make(chan sourceResult, len(sources))
	var wg sync.WaitGroup

	for _, s := range sources {
		wg.Add(1)
		go func(s Source) {
			defer wg.Done()
			docs, err := s.Fetch(ctx, cfg)
			ch <- sourceResult{docs: docs, err: err, name: s.Name()}
		}(s)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	var all []types.Document
	var sourceErrors []string
	for sr := range ch {
		if sr.err != nil {
			msg := fmt.Sprintf("%s: %v", sr.name, sr.err)
			sourceErrors = append(sourceErrors, msg)
			fmt.Fprintf(w, "warning: source %s failed: %v\n", sr.name, sr.err)
			continue
		}
		all = append(all, sr.docs...)
	}

	merged, removed := Merge(all)
	return Output{
		Documents:    merged,
		DupsRemoved:  removed,
		SourceErrors: sourceErrors,
	}, nil
}

// Merge removes duplicate documents across sources, keyed by identifier,
// URL, or content hash (see Document.Key). The first occurrence wins,
// preserving source priority order (R2.4).
func Merge(docs []types.Document) ([]types.Document, int) {
	seen := make(map[string]bool, len(docs))
	var out []types.Document
	removed := 0

	for _, d := range docs {
		key := d.Key()
		if seen[key] {
			removed++
			continue
		}
		seen[key] = true
		out = append(out, d)
	}
	return out, removed
}

// DefaultSearchTerms are the baseline query expressions used when the
// configuration supplies none. Profile-derived topics replace these once
// a user uploads a profile.
func DefaultSearchTerms() []string {
	return []string{
		`"operational modal analysis"`,
		`stochastic subspace`,
		`system identification`,
		`structural health monitoring`,
		`"damage detection" bridge`,
		`"damage detection" building`,
		`"soil-structure interaction" bridge`,
		`"soil-structure interaction" building`,
		`"modal parameters" bridge`,
		`"modal parameters" building`,
		`"seismic" bridge modal`,
		`"seismic" building modal`,
	}
}
