// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"sort"
	"strings"

	"github.com/jpreyes/paperradarai-bot/pkg/types"
)

// topicsByWeight returns topic terms ordered by descending weight, ties
// broken alphabetically so boosted texts are deterministic.
func topicsByWeight(weights map[string]float64) []string {
	terms := make([]string, 0, len(weights))
	for term := range weights {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if weights[terms[i]] != weights[terms[j]] {
			return weights[terms[i]] > weights[terms[j]]
		}
		return terms[i] < terms[j]
	})
	return terms
}

// BoostProfileText builds the profile side of the scoring corpus: the
// free-text summary, liked-document snippets, and the top maxTopics topic
// terms repeated proportionally to their weight (x3 above 0.2, x2 above
// 0.05, else x1). Repetition biases the shared vocabulary toward
// emphasized topics without touching the vectorizer. Per prd002-ranking R1.1.
func BoostProfileText(summary string, likes []string, weights map[string]float64, maxTopics int) string {
	text := summary
	if len(likes) > 0 {
		text = summary + " " + strings.Join(likes, " ")
	}
	if len(weights) == 0 {
		return text
	}

	terms := topicsByWeight(weights)
	if maxTopics > 0 && len(terms) > maxTopics {
		terms = terms[:maxTopics]
	}

	var additions []string
	for _, term := range terms {
		repeats := 1
		switch w := weights[term]; {
		case w > 0.2:
			repeats = 3
		case w > 0.05:
			repeats = 2
		}
		for i := 0; i < repeats; i++ {
			additions = append(additions, term)
		}
	}
	if len(additions) == 0 {
		return text
	}
	return text + " " + strings.Join(additions, " ")
}

// BoostDocumentText builds the document side of the corpus: the title
// tripled (titles carry most of the discriminative signal) followed by the
// abstract, with any topic term appearing as a substring of the lowercased
// text appended once more (twice above weight 0.1). Per prd002-ranking R1.2.
func BoostDocumentText(doc types.Document, weights map[string]float64) string {
	text := mixTitleAbstract(doc)
	if len(weights) == 0 {
		return text
	}

	lower := strings.ToLower(text)
	var additions []string
	for _, term := range topicsByWeight(weights) {
		if !strings.Contains(lower, strings.ToLower(term)) {
			continue
		}
		repeats := 1
		if weights[term] > 0.1 {
			repeats = 2
		}
		for i := 0; i < repeats; i++ {
			additions = append(additions, term)
		}
	}
	if len(additions) == 0 {
		return text
	}
	return text + " " + strings.Join(additions, " ")
}

// mixTitleAbstract concatenates three copies of the title with the abstract.
func mixTitleAbstract(doc types.Document) string {
	title := " " + doc.Title + " "
	return title + title + title + " " + doc.Abstract
}

// TopicPrior sums the weights of every topic term appearing as a substring
// of the lowercased boosted document text. The substring check matches
// partial words (topic "art" hits "smart"); that behavior is load-bearing
// for existing scores. TODO(jpreyes): evaluate word-boundary matching
// against a scored corpus before changing it.
func TopicPrior(boostedText string, weights map[string]float64) float64 {
	if len(weights) == 0 {
		return 0
	}
	lower := strings.ToLower(boostedText)
	var sum float64
	for _, term := range topicsByWeight(weights) {
		if strings.Contains(lower, strings.ToLower(term)) {
			sum += weights[term]
		}
	}
	return sum
}
