// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Explain why one paper matches a profile",
	Long: `Explain produces the similarity and idea bullets for a single
(profile, paper) pair. By default the heuristic path runs; pass
--generative to use the assistant when an API key is configured.
Generative results are cached, so repeating a pair is free.`,
	RunE: runExplain,
}

func init() {
	explainCmd.Flags().String("profile", "", "profile name (required)")
	explainCmd.Flags().String("title", "", "paper title (required)")
	explainCmd.Flags().String("abstract", "", "paper abstract")
	explainCmd.Flags().Bool("generative", false, "allow a generative explanation call")
	explainCmd.Flags().Bool("json", false, "output the explanation as JSON")

	rootCmd.AddCommand(explainCmd)
}

func runExplain(cmd *cobra.Command, args []string) error {
	profileName, _ := cmd.Flags().GetString("profile")
	title, _ := cmd.Flags().GetString("title")
	if profileName == "" || title == "" {
		return fmt.Errorf("both --profile and --title are required")
	}
	abstract, _ := cmd.Flags().GetString("abstract")

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

	generative, _ := cmd.Flags().GetBool("generative")
	prov := newProvider(explainConfig())
	expl := prov.Explain(ctx, profile.Summary, profile.Topics, title, abstract, generative)

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(expl)
	}

	fmt.Printf("Tag: %s\n", expl.Tag)
	for _, s := range expl.Similarities {
		fmt.Printf("  - %s\n", s)
	}
	for _, idea := range expl.Ideas {
		fmt.Printf("  > %s\n", idea)
	}
	return nil
}
