// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jpreyes/paperradarai-bot/internal/pipeline"
	"github.com/jpreyes/paperradarai-bot/pkg/types"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Run a full recommendation pass for a profile",
	Long: `Recommend fetches recent papers, ranks them against the profile, attaches
explanations (generative for the strongest matches when an API key is
configured), records the results in history, and marks them sent so the
next pass surfaces only new material.`,
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().String("profile", "", "profile name (required)")
	recommendCmd.Flags().Bool("dry-run", false, "do not record history or sent state")
	recommendCmd.Flags().Bool("no-generative", false, "heuristic explanations only")
	recommendCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, args []string) error {
	profileName, _ := cmd.Flags().GetString("profile")
	if profileName == "" {
		return fmt.Errorf("--profile is required")
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

	cfg := types.PipelineConfig{
		Fetch:   fetchConfig(),
		Ranking: rankingConfig(),
		Explain: explainConfig(),
		Store:   storeConfig(),
	}
	if noGen, _ := cmd.Flags().GetBool("no-generative"); noGen {
		cfg.Explain.APIKey = ""
	}

	recordingStore := st
	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		recordingStore = nil
	}

	p := pipeline.New(cfg, newSources(cfg.Fetch), recordingStore,
		newProvider(cfg.Explain), os.Stderr)
	result, err := p.Run(ctx, profile)
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Fprintf(os.Stderr, "Fetched %d documents (%d duplicates removed), %d recent, %d ranked\n",
		result.Fetched, result.DupsRemoved, result.Recent, result.Ranked)
	printRecommendations(result)
	if result.GenerativeCalls > 0 {
		fmt.Fprintf(os.Stderr, "%d generative explanation call(s)\n", result.GenerativeCalls)
	}
	return nil
}
