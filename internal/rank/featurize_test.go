// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"strings"
	"testing"

	"github.com/jpreyes/paperradarai-bot/pkg/types"
)

func TestBoostProfileTextTopicTiers(t *testing.T) {
	weights := map[string]float64{
		"heavy":  0.3,  // x3
		"medium": 0.1,  // x2
		"light":  0.02, // x1
	}
	got := BoostProfileText("summary text", nil, weights, 25)

	for term, want := range map[string]int{"heavy": 3, "medium": 2, "light": 1} {
		if n := strings.Count(got, term); n != want {
			t.Errorf("term %q repeated %d times, want %d", term, n, want)
		}
	}
	if !strings.HasPrefix(got, "summary text") {
		t.Errorf("boosted text does not start with the summary: %q", got)
	}
}

func TestBoostProfileTextIncludesLikes(t *testing.T) {
	got := BoostProfileText("summary", []string{"liked snippet one", "liked snippet two"}, nil, 25)
	if !strings.Contains(got, "liked snippet one") || !strings.Contains(got, "liked snippet two") {
		t.Errorf("boosted text missing liked snippets: %q", got)
	}
}

func TestBoostProfileTextMaxTopics(t *testing.T) {
	weights := map[string]float64{
		"first":  0.9,
		"second": 0.8,
		"third":  0.7,
	}
	got := BoostProfileText("summary", nil, weights, 2)
	if strings.Contains(got, "third") {
		t.Errorf("boosted text includes topic beyond the cap: %q", got)
	}
	if !strings.Contains(got, "first") || !strings.Contains(got, "second") {
		t.Errorf("boosted text missing top topics: %q", got)
	}
}

func TestBoostProfileTextNoWeights(t *testing.T) {
	if got := BoostProfileText("just the summary", nil, nil, 25); got != "just the summary" {
		t.Errorf("BoostProfileText without weights = %q, want the summary unchanged", got)
	}
}

func TestBoostDocumentTextTriplesTitle(t *testing.T) {
	doc := types.Document{Title: "Damage detection", Abstract: "An abstract about bridges."}
	got := BoostDocumentText(doc, nil)
	if n := strings.Count(got, "Damage detection"); n != 3 {
		t.Errorf("title appears %d times, want 3", n)
	}
	if !strings.Contains(got, "An abstract about bridges.") {
		t.Errorf("boosted text missing abstract: %q", got)
	}
}

func TestBoostDocumentTextTopicRepeats(t *testing.T) {
	doc := types.Document{Title: "Modal analysis of bridges", Abstract: "Field measurements."}
	weights := map[string]float64{
		"modal analysis": 0.3,  // present, weight > 0.1 -> x2
		"bridges":        0.05, // present, low weight  -> x1
		"gardening":      0.9,  // absent -> no repeat
	}
	got := BoostDocumentText(doc, weights)
	base := mixTitleAbstract(doc)

	appended := strings.TrimSpace(strings.TrimPrefix(got, base))
	if n := strings.Count(appended, "modal analysis"); n != 2 {
		t.Errorf("appended %q, want %q twice", appended, "modal analysis")
	}
	if n := strings.Count(appended, "bridges"); n != 1 {
		t.Errorf("appended %q, want %q once", appended, "bridges")
	}
	if strings.Contains(appended, "gardening") {
		t.Errorf("appended absent topic: %q", appended)
	}
}

func TestTopicPrior(t *testing.T) {
	weights := map[string]float64{
		"modal":     0.3,
		"gardening": 0.5,
	}
	got := TopicPrior("operational modal analysis of a bridge", weights)
	if got != 0.3 {
		t.Errorf("TopicPrior = %v, want 0.3", got)
	}
	if TopicPrior("anything", nil) != 0 {
		t.Error("TopicPrior with no weights should be 0")
	}
}

func TestTopicPriorSubstringMatchesPartialWords(t *testing.T) {
	// "art" matches inside "smart"; the substring semantics are intentional.
	got := TopicPrior("smart sensing platforms", map[string]float64{"art": 0.2})
	if got != 0.2 {
		t.Errorf("TopicPrior = %v, want 0.2 (substring match)", got)
	}
}
