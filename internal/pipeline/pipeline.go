// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline wires fetching, filtering, ranking, and explanation
// into one recommendation pass. Implements: prd001-ingest (R6),
// prd002-ranking (R5), prd003-explanation (R4).
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/jpreyes/paperradarai-bot/internal/explain"
	"github.com/jpreyes/paperradarai-bot/internal/fetch"
	"github.com/jpreyes/paperradarai-bot/internal/filters"
	"github.com/jpreyes/paperradarai-bot/internal/rank"
	"github.com/jpreyes/paperradarai-bot/internal/store"
	"github.com/jpreyes/paperradarai-bot/pkg/types"
)

// Recommendation pairs a ranked document with its explanation bullets.
type Recommendation struct {
	types.ScoredDocument
	Explanation types.Explanation
}

// Result summarizes one recommendation pass.
type Result struct {
	Fetched         int
	DupsRemoved     int
	Recent          int
	Ranked          int
	Suppressed      int
	GenerativeCalls int
	Recommendations []Recommendation
}

// Pipeline runs recommendation passes for a profile.
type Pipeline struct {
	cfg       types.PipelineConfig
	sources   []fetch.Source
	store     *store.Store
	explainer *explain.Provider
	warnings  io.Writer
}

// New builds a pipeline. The store may be nil, in which case sent-state
// suppression and history recording are skipped. The explainer may be nil,
// in which case documents carry heuristic bullets only.
func New(cfg types.PipelineConfig, sources []fetch.Source, st *store.Store, prov *explain.Provider, warnings io.Writer) *Pipeline {
	if prov == nil {
		prov = explain.NewProvider(nil, nil, 0)
	}
	return &Pipeline{
		cfg:       cfg,
		sources:   sources,
		store:     st,
		explainer: prov,
		warnings:  warnings,
	}
}

// SelectTop applies the similarity threshold and size cap to an already
// ranked list. Order is preserved.
func SelectTop(ranked []types.ScoredDocument, cfg types.RankingConfig) []types.ScoredDocument {
	var selected []types.ScoredDocument
	for _, sd := range ranked {
		if sd.Score < cfg.SimThreshold {
			continue
		}
		selected = append(selected, sd)
		if cfg.TopN > 0 && len(selected) >= cfg.TopN {
			break
		}
	}
	return selected
}

// Run executes one full pass for the profile: fetch, recency filter, rank,
// select, explain, and record. Source failures degrade the pass rather
// than aborting it; Run errors only when nothing could be fetched at all.
func (p *Pipeline) Run(ctx context.Context, profile types.Profile) (*Result, error) {
	out, err := fetch.FetchAll(ctx, p.sources, p.cfg.Fetch, p.warnings)
	if err != nil {
		return nil, fmt.Errorf("fetching documents: %w", err)
	}

	result := &Result{
		Fetched:     len(out.Documents) + out.DupsRemoved,
		DupsRemoved: out.DupsRemoved,
	}

	docs := filters.Recent(out.Documents, p.cfg.Ranking.MaxAgeHours)
	result.Recent = len(docs)

	return p.recommend(ctx, profile, docs, result)
}

// RunWithDocuments executes a pass over an already fetched document set,
// bypassing the connectors. Used by offline reranking.
func (p *Pipeline) RunWithDocuments(ctx context.Context, profile types.Profile, docs []types.Document) (*Result, error) {
	result := &Result{Fetched: len(docs)}
	docs = filters.Recent(docs, p.cfg.Ranking.MaxAgeHours)
	result.Recent = len(docs)
	return p.recommend(ctx, profile, docs, result)
}

func (p *Pipeline) recommend(ctx context.Context, profile types.Profile, docs []types.Document, result *Result) (*Result, error) {
	ranked := rank.Rank(profile.Summary, profile.Likes, profile.Dislikes, docs,
		profile.TopicWeights, p.cfg.Ranking)
	result.Ranked = len(ranked)

	generativeUsed := 0
	for _, sd := range SelectTop(ranked, p.cfg.Ranking) {
		if p.store != nil && profile.Name != "" {
			sent, err := p.store.WasSent(ctx, profile.Name, sd.Document.Key())
			if err != nil {
				return nil, err
			}
			if sent {
				result.Suppressed++
				continue
			}
		}

		allowGenerative := sd.Score >= p.cfg.Explain.Threshold &&
			generativeUsed < p.cfg.Explain.MaxPerRun
		expl := p.explainer.Explain(ctx, profile.Summary, profile.Topics,
			sd.Document.Title, sd.Document.Abstract, allowGenerative)
		// Cache hits do not consume the per-pass generative budget.
		if expl.Tag == types.TagGenerative || expl.Tag == types.TagGenerativeFailed {
			generativeUsed++
		}

		if p.store != nil && profile.Name != "" {
			if err := p.store.RecordHistory(ctx, profile.Name, sd, expl, ""); err != nil {
				return nil, err
			}
			if err := p.store.MarkSent(ctx, profile.Name, sd.Document.Key()); err != nil {
				return nil, err
			}
		}

		result.Recommendations = append(result.Recommendations, Recommendation{
			ScoredDocument: sd,
			Explanation:    expl,
		})
	}
	result.GenerativeCalls = generativeUsed
	return result, nil
}
