// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paperradar/0.1"). Per prd001-ingest R5.2.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIConfig holds shared settings for the generative assistant.
type AIConfig struct {
	// Model is the assistant model identifier (default "gpt-4o-mini").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key. An empty key disables the
	// generative path and selects heuristic explanations.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of attempts for assistant calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// Timeout bounds a single assistant request (default 30s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// RankingConfig holds the scoring constants for the relevance engine.
// Per prd002-ranking R4.1-R4.6.
type RankingConfig struct {
	// DislikePenalty scales the dislike-centroid similarity subtracted
	// from the positive score (default 0.40).
	DislikePenalty float64 `json:"dislike_penalty" yaml:"dislike_penalty"`

	// TopicPriorScale scales the additive topic-weight bonus (default 0.5).
	TopicPriorScale float64 `json:"topic_prior_scale" yaml:"topic_prior_scale"`

	// MinDocFreq drops vocabulary terms appearing in fewer corpus entries
	// (default 2).
	MinDocFreq int `json:"min_doc_freq" yaml:"min_doc_freq"`

	// MaxFeatures caps the vectorizer vocabulary (default 100000).
	MaxFeatures int `json:"max_features" yaml:"max_features"`

	// MaxTopics caps how many weighted topics boost the profile text
	// (default 25).
	MaxTopics int `json:"max_topics" yaml:"max_topics"`

	// SimThreshold is the minimum score for surfacing a document
	// (default 0.55). Applied by callers, not by the scorer itself.
	SimThreshold float64 `json:"sim_threshold" yaml:"sim_threshold"`

	// TopN is the number of documents surfaced per ranking pass (default 12).
	TopN int `json:"top_n" yaml:"top_n"`

	// MaxAgeHours drops documents older than this before scoring.
	// Zero disables the recency filter (default 0).
	MaxAgeHours int `json:"max_age_hours" yaml:"max_age_hours"`
}

// DefaultRankingConfig returns the scoring constants the engine ships with.
func DefaultRankingConfig() RankingConfig {
	return RankingConfig{
		DislikePenalty:  0.40,
		TopicPriorScale: 0.5,
		MinDocFreq:      2,
		MaxFeatures:     100_000,
		MaxTopics:       25,
		SimThreshold:    0.55,
		TopN:            12,
		MaxAgeHours:     0,
	}
}

// ExplainConfig holds settings for the explanation provider.
// Per prd003-explanation R5.1-R5.4.
type ExplainConfig struct {
	AIConfig `yaml:",inline"`

	// CachePath is the on-disk JSON cache of generative explanations.
	CachePath string `json:"cache_path" yaml:"cache_path"`

	// Threshold is the minimum relevance score for spending a generative
	// call on a document (default 0.70).
	Threshold float64 `json:"threshold" yaml:"threshold"`

	// MaxPerRun caps generative calls per ranking pass (default 2).
	MaxPerRun int `json:"max_per_run" yaml:"max_per_run"`
}

// FetchConfig holds settings for the source connectors.
// Per prd001-ingest R5.1-R5.4.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// EnableArxiv controls whether the arXiv connector runs.
	EnableArxiv bool `json:"enable_arxiv" yaml:"enable_arxiv"`

	// EnableCrossref controls whether the Crossref connector runs.
	EnableCrossref bool `json:"enable_crossref" yaml:"enable_crossref"`

	// MaxArxivResults caps results per arXiv query (default 100).
	MaxArxivResults int `json:"max_arxiv_results" yaml:"max_arxiv_results"`

	// MaxCrossrefResults caps results per Crossref query (default 50).
	MaxCrossrefResults int `json:"max_crossref_results" yaml:"max_crossref_results"`

	// SearchTerms lists the query expressions sent to each connector.
	SearchTerms []string `json:"search_terms" yaml:"search_terms"`

	// CrossrefMailto is the polite-pool contact address for Crossref.
	CrossrefMailto string `json:"crossref_mailto,omitempty" yaml:"crossref_mailto,omitempty"`
}

// StoreConfig holds settings for the profile and history store.
type StoreConfig struct {
	// DataDir is the base directory for the SQLite database and the
	// explanation cache (default "data").
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// PipelineConfig groups all stage configurations for one ranking pass.
type PipelineConfig struct {
	Fetch   FetchConfig   `json:"fetch" yaml:"fetch"`
	Ranking RankingConfig `json:"ranking" yaml:"ranking"`
	Explain ExplainConfig `json:"explain" yaml:"explain"`
	Store   StoreConfig   `json:"store" yaml:"store"`
}
