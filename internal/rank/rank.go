// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank scores candidate documents against a research profile using
// a weighted TF-IDF vector-space model with like/dislike feedback and
// topic priors. Implements: prd002-ranking (R1-R5).
package rank

import (
	"sort"
	"strings"

	"github.com/jpreyes/paperradarai-bot/pkg/types"
)

// Rank scores every document against the profile and returns them in
// descending score order, ties keeping input order. The result always has
// one entry per input document; an empty profile summary or empty document
// list yields an empty result.
//
// The final score is
//
//	cosine(profile, doc) - DislikePenalty*cosine(doc, dislikeCentroid) + TopicPriorScale*prior(doc)
//
// Dislike snippets are projected onto the vocabulary fitted from the
// profile and documents; snippets sharing no vocabulary simply contribute
// zero penalty. No failure in here reaches the caller.
func Rank(profileSummary string, likes, dislikes []string, docs []types.Document, topicWeights map[string]float64, cfg types.RankingConfig) []types.ScoredDocument {
	if strings.TrimSpace(profileSummary) == "" || len(docs) == 0 {
		return nil
	}

	corpus := make([]string, 0, len(docs)+1)
	corpus = append(corpus, BoostProfileText(profileSummary, likes, topicWeights, cfg.MaxTopics))
	for _, doc := range docs {
		corpus = append(corpus, BoostDocumentText(doc, topicWeights))
	}

	v := NewVectorizer(VectorizerOptions{
		NgramMin:    1,
		NgramMax:    3,
		MinDocFreq:  cfg.MinDocFreq,
		MaxFeatures: cfg.MaxFeatures,
		SublinearTF: true,
	})

	simPos := make([]float64, len(docs))
	penalty := make([]float64, len(docs))

	vecs, err := v.FitTransform(corpus)
	if err == nil {
		profVec := vecs[0]
		for i := range docs {
			// Vectors are L2-normalized, so the dot product is the cosine.
			simPos[i] = profVec.Dot(vecs[i+1])
		}

		if len(dislikes) > 0 {
			dvecs := make([]SparseVector, 0, len(dislikes))
			for _, d := range dislikes {
				dvecs = append(dvecs, v.Transform(BoostProfileText(d, nil, topicWeights, cfg.MaxTopics)))
			}
			cent := Centroid(dvecs)
			if cent.Norm() > 0 {
				for i := range docs {
					penalty[i] = Cosine(vecs[i+1], cent)
				}
			}
		}
	}

	ranked := make([]types.ScoredDocument, len(docs))
	for i, doc := range docs {
		prior := cfg.TopicPriorScale * TopicPrior(corpus[i+1], topicWeights)
		ranked[i] = types.ScoredDocument{
			Document: doc,
			Score:    simPos[i] - cfg.DislikePenalty*penalty[i] + prior,
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}
