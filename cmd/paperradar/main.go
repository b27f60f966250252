// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paperradar CLI.
// Implements: prd001-ingest, prd002-ranking, prd003-explanation,
//             prd004-profiles (CLI surface).
package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jpreyes/paperradarai-bot/internal/explain"
	"github.com/jpreyes/paperradarai-bot/internal/fetch"
	"github.com/jpreyes/paperradarai-bot/internal/secrets"
	"github.com/jpreyes/paperradarai-bot/internal/store"
	"github.com/jpreyes/paperradarai-bot/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const defaultUserAgent = "paperradar/0.1"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, otherwise the secret value for key.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the paperradar CLI.
var rootCmd = &cobra.Command{
	Use:   "paperradar",
	Short: "Personalized academic paper recommendations",
	Long: `paperradar fetches recent papers from academic APIs, ranks them against
a personal research profile using weighted text similarity with like/dislike
feedback and topic priors, and attaches short explanations of why each
recommendation matches.

Each stage is a subcommand: fetch, rank, recommend, explain, and profile.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; a missing file is the normal case.
		_ = godotenv.Load()

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paperradar.yaml or ~/.config/paperradar/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "data directory for the profile database (default: data)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paperradar")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paperradar"))
		}
	}

	defaults := types.DefaultRankingConfig()
	viper.SetDefault("ranking.dislike_penalty", defaults.DislikePenalty)
	viper.SetDefault("ranking.topic_prior_scale", defaults.TopicPriorScale)
	viper.SetDefault("ranking.min_doc_freq", defaults.MinDocFreq)
	viper.SetDefault("ranking.max_features", defaults.MaxFeatures)
	viper.SetDefault("ranking.max_topics", defaults.MaxTopics)
	viper.SetDefault("ranking.sim_threshold", defaults.SimThreshold)
	viper.SetDefault("ranking.top_n", defaults.TopN)
	viper.SetDefault("ranking.max_age_hours", defaults.MaxAgeHours)
	viper.SetDefault("explain.model", "gpt-4o-mini")
	viper.SetDefault("explain.threshold", 0.70)
	viper.SetDefault("explain.max_per_run", 2)
	viper.SetDefault("explain.cache_path", filepath.Join("data", "explain_cache.json"))
	viper.SetDefault("fetch.arxiv", true)
	viper.SetDefault("fetch.crossref", true)
	viper.SetDefault("fetch.max_arxiv_results", 100)
	viper.SetDefault("fetch.max_crossref_results", 50)
	viper.SetDefault("fetch.timeout", 30*time.Second)
	viper.SetDefault("data_dir", "data")

	viper.SetEnvPrefix("PAPERRADAR")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func rankingConfig() types.RankingConfig {
	return types.RankingConfig{
		DislikePenalty:  viper.GetFloat64("ranking.dislike_penalty"),
		TopicPriorScale: viper.GetFloat64("ranking.topic_prior_scale"),
		MinDocFreq:      viper.GetInt("ranking.min_doc_freq"),
		MaxFeatures:     viper.GetInt("ranking.max_features"),
		MaxTopics:       viper.GetInt("ranking.max_topics"),
		SimThreshold:    viper.GetFloat64("ranking.sim_threshold"),
		TopN:            viper.GetInt("ranking.top_n"),
		MaxAgeHours:     viper.GetInt("ranking.max_age_hours"),
	}
}

func fetchConfig() types.FetchConfig {
	return types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("fetch.timeout"),
			UserAgent: defaultUserAgent,
		},
		EnableArxiv:        viper.GetBool("fetch.arxiv"),
		EnableCrossref:     viper.GetBool("fetch.crossref"),
		MaxArxivResults:    viper.GetInt("fetch.max_arxiv_results"),
		MaxCrossrefResults: viper.GetInt("fetch.max_crossref_results"),
		SearchTerms:        viper.GetStringSlice("fetch.search_terms"),
		CrossrefMailto:     secretDefault("crossref-mailto", viper.GetString("fetch.crossref_mailto")),
	}
}

func explainConfig() types.ExplainConfig {
	return types.ExplainConfig{
		AIConfig: types.AIConfig{
			Model:   viper.GetString("explain.model"),
			APIKey:  secretDefault("openai-api-key", viper.GetString("explain.api_key")),
			Timeout: viper.GetDuration("fetch.timeout"),
		},
		CachePath: viper.GetString("explain.cache_path"),
		Threshold: viper.GetFloat64("explain.threshold"),
		MaxPerRun: viper.GetInt("explain.max_per_run"),
	}
}

func storeConfig() types.StoreConfig {
	dataDir, _ := rootCmd.PersistentFlags().GetString("data-dir")
	if dataDir == "" {
		dataDir = viper.GetString("data_dir")
	}
	return types.StoreConfig{DataDir: dataDir}
}

func openStore() (*store.Store, error) {
	return store.NewStore(storeConfig())
}

// newSources builds the enabled connectors with a shared HTTP client.
func newSources(cfg types.FetchConfig) []fetch.Source {
	client := &http.Client{Timeout: cfg.Timeout}
	var sources []fetch.Source
	if cfg.EnableArxiv {
		sources = append(sources, &fetch.ArxivSource{Client: client})
	}
	if cfg.EnableCrossref {
		sources = append(sources, &fetch.CrossrefSource{Client: client})
	}
	return sources
}

// newProvider builds the explanation provider. Without an API key the
// provider stays heuristic-only.
func newProvider(cfg types.ExplainConfig) *explain.Provider {
	cache := explain.OpenCache(cfg.CachePath)
	var backend explain.Backend
	if cfg.APIKey != "" {
		backend = &explain.OpenAIBackend{
			APIKey: cfg.APIKey,
			Model:  cfg.Model,
			Client: &http.Client{Timeout: cfg.Timeout},
		}
	}
	return explain.NewProvider(cache, backend, cfg.MaxRetries)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
