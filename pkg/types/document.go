// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"crypto/sha1"
	"encoding/hex"
)

// maxKeyLen caps dedup keys so pathological URLs cannot blow up storage keys.
const maxKeyLen = 200

// Document is a normalized research item produced by a source connector.
// One Document lives for a single ranking pass; the core never mutates or
// persists it. Per prd001-ingest R2.1.
type Document struct {
	// ID is the source-native identifier (arXiv ID, DOI). May be empty.
	ID string `json:"id" yaml:"id"`

	// Title is the item title.
	Title string `json:"title" yaml:"title"`

	// Abstract is the item abstract or summary. May be empty.
	Abstract string `json:"abstract" yaml:"abstract"`

	// URL is the landing page for the item.
	URL string `json:"url" yaml:"url"`

	// Published is the publication timestamp as an ISO-8601 string,
	// or empty when the source did not report one.
	Published string `json:"published" yaml:"published"`

	// Source identifies the connector that produced the item (e.g. "arxiv", "crossref").
	Source string `json:"source" yaml:"source"`

	// Authors lists author names in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Venue is the journal or conference name, when known.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// Year is the publication year as a string, or empty.
	Year string `json:"year,omitempty" yaml:"year,omitempty"`
}

// Key returns the dedup/primary key for the document: the ID when present,
// otherwise the URL, otherwise a content hash of title+abstract. The result
// is truncated to 200 characters. Per prd001-ingest R2.4.
func (d Document) Key() string {
	key := d.ID
	if key == "" {
		key = d.URL
	}
	if key == "" {
		base := d.Title + d.Abstract
		if len(base) > 400 {
			base = base[:400]
		}
		sum := sha1.Sum([]byte(base))
		key = hex.EncodeToString(sum[:])
	}
	if len(key) > maxKeyLen {
		key = key[:maxKeyLen]
	}
	return key
}

// ScoredDocument pairs a document with its final relevance score.
type ScoredDocument struct {
	Document Document `json:"document" yaml:"document"`
	Score    float64  `json:"score" yaml:"score"`
}
