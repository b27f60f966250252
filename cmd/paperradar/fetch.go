// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jpreyes/paperradarai-bot/internal/fetch"
	"github.com/jpreyes/paperradarai-bot/internal/filters"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [search terms...]",
	Short: "Fetch recent papers from academic APIs",
	Long: `Fetch queries the enabled connectors (arXiv, Crossref) for recent papers
matching the configured search terms, deduplicates the results across
sources, and prints them. Use --out to save the documents as JSON for
later offline ranking.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("out", "", "write fetched documents as JSON to this file")
	fetchCmd.Flags().Bool("json", false, "print documents as JSON to stdout")
	fetchCmd.Flags().Int("max-age-hours", 0, "drop documents older than this (0 = keep all)")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := fetchConfig()
	if len(args) > 0 {
		cfg.SearchTerms = args
	}

	sources := newSources(cfg)
	out, err := fetch.FetchAll(context.Background(), sources, cfg, os.Stderr)
	if err != nil {
		return err
	}

	docs := out.Documents
	if maxAge, _ := cmd.Flags().GetInt("max-age-hours"); maxAge > 0 {
		docs = filters.Recent(docs, maxAge)
	}

	if outPath, _ := cmd.Flags().GetString("out"); outPath != "" {
		data, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding documents: %w", err)
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %d documents to %s (%d duplicates removed)\n",
			len(docs), outPath, out.DupsRemoved)
		return nil
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(docs)
	}

	for _, d := range docs {
		fmt.Printf("[%s] %s\n    %s\n", d.Source, d.Title, d.URL)
	}
	fmt.Fprintf(os.Stderr, "\n%d documents (%d duplicates removed)\n", len(docs), out.DupsRemoved)
	return nil
}
