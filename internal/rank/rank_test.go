// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpreyes/paperradarai-bot/pkg/types"
)

func testRankingCfg() types.RankingConfig {
	return types.DefaultRankingConfig()
}

func bridgeDocs() []types.Document {
	return []types.Document{
		{
			ID:       "docA",
			Title:    "Operational modal analysis for bridge damage detection",
			Abstract: "We apply damage detection and modal analysis to highway bridges. Damage detection via modal analysis is validated on field data.",
		},
		{
			ID:       "docB",
			Title:    "Unrelated topic about gardening",
			Abstract: "Growing tomatoes and tulips in a home garden.",
		},
	}
}

func scoreOf(t *testing.T, ranked []types.ScoredDocument, id string) float64 {
	t.Helper()
	for _, r := range ranked {
		if r.Document.ID == id {
			return r.Score
		}
	}
	t.Fatalf("document %s missing from ranked result", id)
	return 0
}

func TestRankEmptyInputs(t *testing.T) {
	cfg := testRankingCfg()
	docs := bridgeDocs()

	if got := Rank("", nil, nil, docs, nil, cfg); got != nil {
		t.Errorf("empty profile: got %d results, want none", len(got))
	}
	if got := Rank("   ", nil, nil, docs, nil, cfg); got != nil {
		t.Errorf("blank profile: got %d results, want none", len(got))
	}
	if got := Rank("damage detection", nil, nil, nil, nil, cfg); got != nil {
		t.Errorf("empty documents: got %d results, want none", len(got))
	}
}

func TestRankReturnsAllDocumentsWithFiniteScores(t *testing.T) {
	cfg := testRankingCfg()
	docs := append(bridgeDocs(), types.Document{ID: "docC", Title: "A third paper", Abstract: ""})

	ranked := Rank("damage detection in bridges using modal analysis", nil, nil, docs, nil, cfg)
	require.Len(t, ranked, len(docs))
	for _, r := range ranked {
		assert.False(t, math.IsNaN(r.Score) || math.IsInf(r.Score, 0),
			"score for %s is not finite: %v", r.Document.ID, r.Score)
	}
}

func TestRankIsDeterministic(t *testing.T) {
	cfg := testRankingCfg()
	docs := bridgeDocs()
	weights := map[string]float64{"damage detection": 0.3, "modal analysis": 0.3}
	likes := []string{"bridge monitoring with accelerometers"}
	dislikes := []string{"gardening tips for tomatoes"}

	first := Rank("damage detection in bridges using modal analysis", likes, dislikes, docs, weights, cfg)
	second := Rank("damage detection in bridges using modal analysis", likes, dislikes, docs, weights, cfg)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Document.ID, second[i].Document.ID, "ordering differs at %d", i)
		assert.Equal(t, first[i].Score, second[i].Score, "score differs for %s", first[i].Document.ID)
	}
}

func TestRankEndToEndScenario(t *testing.T) {
	cfg := testRankingCfg()
	weights := map[string]float64{"damage detection": 0.3, "modal analysis": 0.3}

	ranked := Rank("damage detection in bridges using modal analysis", nil, nil, bridgeDocs(), weights, cfg)
	require.Len(t, ranked, 2)

	assert.Equal(t, "docA", ranked[0].Document.ID, "relevant paper should rank first")
	assert.Greater(t, ranked[0].Score, ranked[1].Score, "expected a strictly positive score gap")
	assert.Greater(t, ranked[0].Score, 0.0)
}

func TestRankTopicWeightMonotonicity(t *testing.T) {
	cfg := testRankingCfg()
	docs := bridgeDocs()
	profile := "damage detection in bridges using modal analysis"

	without := Rank(profile, nil, nil, docs, nil, cfg)
	with := Rank(profile, nil, nil, docs, map[string]float64{"damage detection": 0.3}, cfg)

	assert.Greater(t, scoreOf(t, with, "docA"), scoreOf(t, without, "docA"),
		"weighting a topic present in docA must increase its score")
}

func TestRankDislikePenalty(t *testing.T) {
	cfg := testRankingCfg()
	docs := bridgeDocs()
	profile := "damage detection in bridges using modal analysis"

	// The disliked snippet carries exactly the token multiset of docA's
	// boosted text, so its projected vector matches docA's and the
	// centroid similarity is 1.
	docA := docs[0]
	dislike := docA.Title + " " + docA.Title + " " + docA.Title + " " + docA.Abstract

	clean := Rank(profile, nil, nil, docs, nil, cfg)
	penalized := Rank(profile, nil, []string{dislike}, docs, nil, cfg)

	delta := scoreOf(t, clean, "docA") - scoreOf(t, penalized, "docA")
	assert.InDelta(t, cfg.DislikePenalty*1.0, delta, 1e-6,
		"penalty should be DislikePenalty x simNegative")
}

func TestRankDislikeVocabularyMismatchIsHarmless(t *testing.T) {
	cfg := testRankingCfg()
	docs := bridgeDocs()
	profile := "damage detection in bridges using modal analysis"

	clean := Rank(profile, nil, nil, docs, nil, cfg)
	// Dislike text shares no vocabulary with the fitted corpus: the
	// penalty degrades to zero instead of failing the ranking.
	penalized := Rank(profile, nil, []string{"zzz qqq xxyy"}, docs, nil, cfg)

	require.Len(t, penalized, len(clean))
	for i := range clean {
		assert.Equal(t, clean[i].Score, penalized[i].Score)
	}
}

func TestRankStableOnTies(t *testing.T) {
	cfg := testRankingCfg()
	// Two documents with no vocabulary overlap with the profile score
	// identically (zero); input order must be preserved.
	docs := []types.Document{
		{ID: "first", Title: "Gardening tulips", Abstract: "tomatoes compost"},
		{ID: "second", Title: "Baking sourdough", Abstract: "flour hydration"},
	}
	ranked := Rank("operational modal analysis of the bridge deck and the girder", nil, nil, docs, nil, cfg)
	require.Len(t, ranked, 2)
	assert.Equal(t, "first", ranked[0].Document.ID)
	assert.Equal(t, "second", ranked[1].Document.ID)
}

func TestRankDoesNotMutateInputs(t *testing.T) {
	cfg := testRankingCfg()
	docs := bridgeDocs()
	titleBefore := docs[0].Title
	weights := map[string]float64{"modal analysis": 0.3}

	Rank("damage detection in bridges", []string{"like"}, []string{"dislike"}, docs, weights, cfg)

	assert.Equal(t, titleBefore, docs[0].Title)
	assert.Equal(t, 0.3, weights["modal analysis"])
	assert.Len(t, weights, 1)
}
