// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package explain

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/jpreyes/paperradarai-bot/pkg/types"
)

// overlapWordRE matches words long enough to carry topical signal.
var overlapWordRE = regexp.MustCompile(`[a-zA-Z]{4,}`)

const (
	maxSimilarities = 3
	maxIdeas        = 2
)

// Heuristic builds an explanation from lexical overlap between the
// profile (plus topics) and the document, with no network access. It is
// deterministic and always returns at least one similarity and one idea.
// Per prd003-explanation R2.1-R2.3.
func Heuristic(profileSummary string, topics []string, title, abstract string) types.Explanation {
	profileWords := wordSet(profileSummary + " " + strings.Join(topics, " "))
	docWords := wordSet(title + " " + abstract)

	var overlap []string
	for w := range profileWords {
		if docWords[w] {
			overlap = append(overlap, w)
		}
	}
	sort.Strings(overlap)
	if len(overlap) > 6 {
		overlap = overlap[:6]
	}

	docLower := strings.ToLower(title + " " + abstract)

	var sims []string
	if len(overlap) > 0 {
		shown := overlap
		if len(shown) > 4 {
			shown = shown[:4]
		}
		sims = append(sims, "Overlaps on: "+strings.Join(shown, ", "))
	}
	for _, topic := range topics {
		if topic != "" && strings.Contains(docLower, strings.ToLower(topic)) {
			sims = append(sims, fmt.Sprintf("Shared focus on %s.", topic))
		}
	}
	if len(sims) == 0 {
		sims = []string{"Methodological overlap in modeling and validation approaches."}
	}

	var ideas []string
	for _, topic := range topics {
		if topic != "" && strings.Contains(docLower, strings.ToLower(topic)) {
			ideas = append(ideas, fmt.Sprintf("Examine how this work informs your research on %s.", topic))
		}
	}
	if len(ideas) == 0 {
		ideas = []string{"Apply the paper's approach to your own datasets as a validation exercise."}
	}

	return types.Explanation{
		Similarities: truncate(sims, maxSimilarities),
		Ideas:        truncate(ideas, maxIdeas),
		Tag:          types.TagHeuristic,
	}
}

// wordSet extracts the lowercased words of length >= 4 from text.
func wordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range overlapWordRE.FindAllString(strings.ToLower(text), -1) {
		set[w] = true
	}
	return set
}

// truncate limits a bullet list to n entries.
func truncate(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
