// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jpreyes/paperradarai-bot/internal/pipeline"
	"github.com/jpreyes/paperradarai-bot/pkg/types"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank a saved document set against a profile",
	Long: `Rank scores documents from a JSON file (produced by fetch --out) against
a stored profile, offline. No history is recorded and nothing is marked
sent; use recommend for a full recorded pass.`,
	RunE: runRank,
}

func init() {
	rankCmd.Flags().String("profile", "", "profile name (required)")
	rankCmd.Flags().String("docs", "", "JSON file of documents to rank (required)")
	rankCmd.Flags().Float64("threshold", -1, "minimum score to include (default from config)")
	rankCmd.Flags().Int("top", 0, "maximum results (default from config)")
	rankCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, args []string) error {
	profileName, _ := cmd.Flags().GetString("profile")
	docsPath, _ := cmd.Flags().GetString("docs")
	if profileName == "" || docsPath == "" {
		return fmt.Errorf("both --profile and --docs are required")
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	profile, err := st.GetProfile(ctx, profileName)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(docsPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", docsPath, err)
	}
	var docs []types.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return fmt.Errorf("decoding %s: %w", docsPath, err)
	}

	cfg := types.PipelineConfig{
		Ranking: rankingConfig(),
		Explain: explainConfig(),
	}
	if threshold, _ := cmd.Flags().GetFloat64("threshold"); threshold >= 0 {
		cfg.Ranking.SimThreshold = threshold
	}
	if top, _ := cmd.Flags().GetInt("top"); top > 0 {
		cfg.Ranking.TopN = top
	}
	// Offline: heuristic bullets only, no store side effects.
	cfg.Explain.APIKey = ""

	p := pipeline.New(cfg, nil, nil, newProvider(cfg.Explain), os.Stderr)
	result, err := p.RunWithDocuments(ctx, profile, docs)
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result.Recommendations)
	}

	printRecommendations(result)
	return nil
}

func printRecommendations(result *pipeline.Result) {
	if len(result.Recommendations) == 0 {
		fmt.Println("No documents above the similarity threshold.")
		return
	}

	for i, rec := range result.Recommendations {
		fmt.Printf("%2d. [%0.3f] %s\n", i+1, rec.Score, rec.Document.Title)
		fmt.Printf("    %s\n", rec.Document.URL)
		for _, s := range rec.Explanation.Similarities {
			fmt.Printf("      - %s\n", s)
		}
		for _, idea := range rec.Explanation.Ideas {
			fmt.Printf("      > %s\n", idea)
		}
	}

	fmt.Fprintf(os.Stderr, "\n%d of %d ranked documents shown%s\n",
		len(result.Recommendations), result.Ranked, suppressedNote(result))
}

func suppressedNote(result *pipeline.Result) string {
	if result.Suppressed == 0 {
		return ""
	}
	return fmt.Sprintf(" (%d already sent, suppressed)", result.Suppressed)
}

// splitTopics parses a comma-separated topic list.
func splitTopics(s string) []string {
	if s == "" {
		return nil
	}
	var topics []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}
	return topics
}
