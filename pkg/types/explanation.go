// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ExplanationTag records which path produced an explanation.
// Per prd003-explanation R1.3.
type ExplanationTag string

const (
	// TagHeuristic marks a lexical-overlap explanation computed locally.
	TagHeuristic ExplanationTag = "heuristic"

	// TagGenerative marks a fresh response from the generative assistant.
	TagGenerative ExplanationTag = "generative"

	// TagGenerativeCached marks a replayed generative response from the cache.
	TagGenerativeCached ExplanationTag = "generative-cached"

	// TagGenerativeFailed marks a heuristic fallback after the assistant
	// failed, so operators can distinguish outages from the heuristic-only path.
	TagGenerativeFailed ExplanationTag = "generative-failed"
)

// Explanation is a short structured explanation of why a document matches
// a profile: up to 3 similarity bullets and up to 2 idea bullets.
type Explanation struct {
	Similarities []string       `json:"similarities" yaml:"similarities"`
	Ideas        []string       `json:"ideas" yaml:"ideas"`
	Tag          ExplanationTag `json:"tag" yaml:"tag"`
}
