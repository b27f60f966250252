// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

// tokenRE matches word tokens of two or more characters, mirroring the
// default token pattern of the vectorizer the scoring model was tuned on.
var tokenRE = regexp.MustCompile(`[a-z0-9_]{2,}`)

// VectorizerOptions configures vocabulary construction.
type VectorizerOptions struct {
	// NgramMin and NgramMax bound the n-gram sizes (inclusive).
	NgramMin int
	NgramMax int

	// MinDocFreq drops terms appearing in fewer corpus entries. Terms in
	// only one entry carry no pairwise signal and mostly add noise.
	MinDocFreq int

	// MaxFeatures caps the vocabulary, keeping the most frequent terms.
	MaxFeatures int

	// SublinearTF replaces raw term frequency with 1+ln(tf).
	SublinearTF bool
}

// SparseVector is a sparse TF-IDF vector keyed by vocabulary index.
type SparseVector map[int]float64

// Dot returns the dot product of two sparse vectors. Terms are summed in
// index order so repeated rankings produce bit-identical scores.
func (a SparseVector) Dot(b SparseVector) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	idxs := make([]int, 0, len(a))
	for i := range a {
		if _, ok := b[i]; ok {
			idxs = append(idxs, i)
		}
	}
	sort.Ints(idxs)

	var sum float64
	for _, i := range idxs {
		sum += a[i] * b[i]
	}
	return sum
}

// Norm returns the Euclidean norm of the vector, summed in index order.
func (a SparseVector) Norm() float64 {
	idxs := make([]int, 0, len(a))
	for i := range a {
		idxs = append(idxs, i)
	}
	sort.Ints(idxs)

	var sum float64
	for _, i := range idxs {
		sum += a[i] * a[i]
	}
	return math.Sqrt(sum)
}

// Vectorizer converts texts to L2-normalized TF-IDF vectors over a shared
// vocabulary fitted from a corpus. Per prd002-ranking R2.1-R2.4.
type Vectorizer struct {
	opts  VectorizerOptions
	vocab map[string]int
	idf   []float64
}

// NewVectorizer returns a vectorizer with the given options. Zero values
// fall back to unigrams, no frequency floor, and no feature cap.
func NewVectorizer(opts VectorizerOptions) *Vectorizer {
	if opts.NgramMin <= 0 {
		opts.NgramMin = 1
	}
	if opts.NgramMax < opts.NgramMin {
		opts.NgramMax = opts.NgramMin
	}
	if opts.MinDocFreq <= 0 {
		opts.MinDocFreq = 1
	}
	return &Vectorizer{opts: opts}
}

// analyze lowercases text, drops stop words, and emits n-grams joined by
// single spaces. Stop words are removed before n-gram construction.
func (v *Vectorizer) analyze(text string) []string {
	raw := tokenRE.FindAllString(strings.ToLower(text), -1)
	tokens := raw[:0]
	for _, tok := range raw {
		if !englishStopWords[tok] {
			tokens = append(tokens, tok)
		}
	}

	var terms []string
	for n := v.opts.NgramMin; n <= v.opts.NgramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}

// FitTransform builds the vocabulary from corpus and returns one vector
// per entry, in order. It fails only when the corpus yields no vocabulary
// at all (e.g. every term falls under the document-frequency floor).
func (v *Vectorizer) FitTransform(corpus []string) ([]SparseVector, error) {
	counts := make([]map[string]int, len(corpus))
	df := make(map[string]int)
	total := make(map[string]int)

	for i, text := range corpus {
		c := make(map[string]int)
		for _, term := range v.analyze(text) {
			c[term]++
		}
		counts[i] = c
		for term, n := range c {
			df[term]++
			total[term] += n
		}
	}

	var kept []string
	for term, n := range df {
		if n >= v.opts.MinDocFreq {
			kept = append(kept, term)
		}
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("empty vocabulary: no term appears in at least %d corpus entries", v.opts.MinDocFreq)
	}

	if v.opts.MaxFeatures > 0 && len(kept) > v.opts.MaxFeatures {
		sort.Slice(kept, func(i, j int) bool {
			if total[kept[i]] != total[kept[j]] {
				return total[kept[i]] > total[kept[j]]
			}
			return kept[i] < kept[j]
		})
		kept = kept[:v.opts.MaxFeatures]
	}
	sort.Strings(kept)

	v.vocab = make(map[string]int, len(kept))
	v.idf = make([]float64, len(kept))
	n := float64(len(corpus))
	for i, term := range kept {
		v.vocab[term] = i
		// Smoothed IDF: pretend one extra document contains every term.
		v.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	vecs := make([]SparseVector, len(corpus))
	for i, c := range counts {
		vecs[i] = v.vectorize(c)
	}
	return vecs, nil
}

// Transform maps a text onto the fitted vocabulary. Terms outside the
// vocabulary contribute nothing; a text sharing no vocabulary yields an
// empty vector, never an error.
func (v *Vectorizer) Transform(text string) SparseVector {
	if v.vocab == nil {
		return SparseVector{}
	}
	c := make(map[string]int)
	for _, term := range v.analyze(text) {
		if _, ok := v.vocab[term]; ok {
			c[term]++
		}
	}
	return v.vectorize(c)
}

// vectorize converts term counts into an L2-normalized TF-IDF vector.
func (v *Vectorizer) vectorize(counts map[string]int) SparseVector {
	vec := make(SparseVector, len(counts))
	for term, n := range counts {
		idx, ok := v.vocab[term]
		if !ok {
			continue
		}
		tf := float64(n)
		if v.opts.SublinearTF {
			tf = 1 + math.Log(tf)
		}
		vec[idx] = tf * v.idf[idx]
	}
	if norm := vec.Norm(); norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

// Centroid returns the mean of the given vectors. An empty input or
// all-zero vectors produce an empty centroid.
func Centroid(vecs []SparseVector) SparseVector {
	cent := make(SparseVector)
	if len(vecs) == 0 {
		return cent
	}
	for _, v := range vecs {
		for i, x := range v {
			cent[i] += x
		}
	}
	n := float64(len(vecs))
	for i := range cent {
		cent[i] /= n
	}
	return cent
}

// Cosine returns the cosine similarity between two vectors. Either vector
// having zero norm yields zero.
func Cosine(a, b SparseVector) float64 {
	na, nb := a.Norm(), b.Norm()
	if na == 0 || nb == 0 {
		return 0
	}
	return a.Dot(b) / (na * nb)
}
