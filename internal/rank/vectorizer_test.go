// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"math"
	"testing"
)

func newTestVectorizer() *Vectorizer {
	return NewVectorizer(VectorizerOptions{
		NgramMin:    1,
		NgramMax:    3,
		MinDocFreq:  2,
		MaxFeatures: 100_000,
		SublinearTF: true,
	})
}

func TestAnalyzeDropsStopWordsAndShortTokens(t *testing.T) {
	v := NewVectorizer(VectorizerOptions{NgramMin: 1, NgramMax: 1})
	terms := v.analyze("The analysis of a bridge")
	want := []string{"analysis", "bridge"}
	if len(terms) != len(want) {
		t.Fatalf("analyze returned %v, want %v", terms, want)
	}
	for i := range want {
		if terms[i] != want[i] {
			t.Errorf("terms[%d] = %q, want %q", i, terms[i], want[i])
		}
	}
}

func TestAnalyzeBuildsNgramsAfterStopWordRemoval(t *testing.T) {
	v := NewVectorizer(VectorizerOptions{NgramMin: 1, NgramMax: 2})
	terms := v.analyze("damage of bridges")
	// "of" is removed first, so the bigram spans the gap.
	found := false
	for _, term := range terms {
		if term == "damage bridges" {
			found = true
		}
	}
	if !found {
		t.Errorf("analyze(%q) = %v, missing bigram %q", "damage of bridges", terms, "damage bridges")
	}
}

func TestFitTransformMinDocFreq(t *testing.T) {
	v := newTestVectorizer()
	corpus := []string{
		"modal analysis bridges",
		"modal analysis buildings",
		"gardening tulips compost",
	}
	vecs, err := v.FitTransform(corpus)
	if err != nil {
		t.Fatalf("FitTransform: %v", err)
	}
	if len(vecs) != 3 {
		t.Fatalf("got %d vectors, want 3", len(vecs))
	}

	// Gardening terms appear in only one entry and are dropped, so the
	// third vector is empty and orthogonal to everything.
	if len(vecs[2]) != 0 {
		t.Errorf("vector for gardening entry has %d terms, want 0", len(vecs[2]))
	}
	if sim := vecs[0].Dot(vecs[2]); sim != 0 {
		t.Errorf("similarity to pruned entry = %v, want 0", sim)
	}
	if sim := vecs[0].Dot(vecs[1]); sim <= 0 {
		t.Errorf("similarity between overlapping entries = %v, want > 0", sim)
	}
}

func TestFitTransformEmptyVocabulary(t *testing.T) {
	v := newTestVectorizer()
	// No term appears in two entries.
	_, err := v.FitTransform([]string{"alpha beta", "gamma delta"})
	if err == nil {
		t.Fatal("expected empty-vocabulary error")
	}
}

func TestFitTransformVectorsAreNormalized(t *testing.T) {
	v := newTestVectorizer()
	vecs, err := v.FitTransform([]string{
		"damage detection modal analysis",
		"damage detection modal analysis methods",
	})
	if err != nil {
		t.Fatalf("FitTransform: %v", err)
	}
	for i, vec := range vecs {
		if n := vec.Norm(); math.Abs(n-1) > 1e-9 {
			t.Errorf("vector %d norm = %v, want 1", i, n)
		}
	}
}

func TestTransformUnknownVocabularyYieldsZeroVector(t *testing.T) {
	v := newTestVectorizer()
	if _, err := v.FitTransform([]string{"modal analysis", "modal analysis"}); err != nil {
		t.Fatalf("FitTransform: %v", err)
	}
	vec := v.Transform("completely unrelated gardening text")
	if len(vec) != 0 {
		t.Errorf("Transform of out-of-vocabulary text has %d terms, want 0", len(vec))
	}
	if n := vec.Norm(); n != 0 {
		t.Errorf("norm = %v, want 0", n)
	}
}

func TestTransformMatchesFittedVector(t *testing.T) {
	v := newTestVectorizer()
	text := "modal analysis of bridges"
	vecs, err := v.FitTransform([]string{text, text})
	if err != nil {
		t.Fatalf("FitTransform: %v", err)
	}
	got := v.Transform(text)
	if sim := got.Dot(vecs[0]); math.Abs(sim-1) > 1e-9 {
		t.Errorf("cosine between fitted and transformed copies = %v, want 1", sim)
	}
}

func TestMaxFeaturesKeepsMostFrequentTerms(t *testing.T) {
	v := NewVectorizer(VectorizerOptions{NgramMin: 1, NgramMax: 1, MinDocFreq: 2, MaxFeatures: 1})
	_, err := v.FitTransform([]string{
		"bridge bridge bridge deck",
		"bridge bridge deck",
	})
	if err != nil {
		t.Fatalf("FitTransform: %v", err)
	}
	if len(v.vocab) != 1 {
		t.Fatalf("vocab size = %d, want 1", len(v.vocab))
	}
	if _, ok := v.vocab["bridge"]; !ok {
		t.Errorf("vocab kept %v, want the most frequent term %q", v.vocab, "bridge")
	}
}

func TestCentroid(t *testing.T) {
	a := SparseVector{0: 1}
	b := SparseVector{0: 0.5, 1: 1}
	cent := Centroid([]SparseVector{a, b})
	if math.Abs(cent[0]-0.75) > 1e-12 || math.Abs(cent[1]-0.5) > 1e-12 {
		t.Errorf("centroid = %v, want {0:0.75 1:0.5}", cent)
	}

	if n := Centroid(nil).Norm(); n != 0 {
		t.Errorf("empty centroid norm = %v, want 0", n)
	}
}

func TestCosineZeroVector(t *testing.T) {
	if sim := Cosine(SparseVector{}, SparseVector{0: 1}); sim != 0 {
		t.Errorf("cosine with zero vector = %v, want 0", sim)
	}
}
