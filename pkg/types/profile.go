// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Profile is a user's research profile: a free-text summary plus weighted
// topics and like/dislike exemplars. The ranking core reads it and never
// mutates it. Per prd004-profiles R1.1.
type Profile struct {
	// Name identifies the profile (a user may keep several).
	Name string `json:"name" yaml:"name"`

	// Summary is the free-text research description.
	Summary string `json:"summary" yaml:"summary"`

	// Topics lists extracted topic terms in weight order.
	Topics []string `json:"topics" yaml:"topics"`

	// TopicWeights maps a topic term to a weight in [0,1].
	TopicWeights map[string]float64 `json:"topic_weights" yaml:"topic_weights"`

	// Likes holds text snippets of documents the user marked as relevant.
	Likes []string `json:"likes" yaml:"likes"`

	// Dislikes holds text snippets of documents the user marked as irrelevant.
	Dislikes []string `json:"dislikes" yaml:"dislikes"`
}
