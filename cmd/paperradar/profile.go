// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jpreyes/paperradarai-bot/internal/store"
	"github.com/jpreyes/paperradarai-bot/pkg/types"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage research profiles (set, show, like, dislike, export)",
	Long: `Profile manages the stored research profiles that drive ranking. A profile
holds a free-text research summary, optional weighted topics, and the
like/dislike feedback that tunes future recommendations.`,
}

// --- set subcommand ---

var profileSetCmd = &cobra.Command{
	Use:   "set [name]",
	Short: "Create or update a profile",
	RunE:  runProfileSet,
}

func runProfileSet(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one profile name")
	}
	summary, _ := cmd.Flags().GetString("summary")
	if summary == "" {
		return fmt.Errorf("--summary is required")
	}

	topics := splitTopics(mustString(cmd, "topics"))
	weights := make(map[string]float64, len(topics))
	for _, spec := range splitTopics(mustString(cmd, "weights")) {
		name, value, ok := strings.Cut(spec, "=")
		if !ok {
			return fmt.Errorf("bad weight %q: use topic=0.3", spec)
		}
		var w float64
		if _, err := fmt.Sscanf(value, "%g", &w); err != nil {
			return fmt.Errorf("bad weight %q: %w", spec, err)
		}
		weights[strings.TrimSpace(name)] = w
	}
	// Topics carrying a weight count as topics even when --topics omits them.
	for name := range weights {
		if !containsString(topics, name) {
			topics = append(topics, name)
		}
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	p := types.Profile{
		Name:         args[0],
		Summary:      summary,
		Topics:       topics,
		TopicWeights: weights,
	}
	if err := st.SaveProfile(context.Background(), p); err != nil {
		return err
	}
	fmt.Printf("Saved profile %s (%d topics)\n", p.Name, len(topics))
	return nil
}

// --- show / list subcommands ---

var profileShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show a profile with its feedback",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("provide exactly one profile name")
		}
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		p, err := st.GetProfile(context.Background(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Profile: %s\n%s\n", p.Name, p.Summary)
		if len(p.Topics) > 0 {
			fmt.Printf("Topics: %s\n", strings.Join(p.Topics, ", "))
		}
		for topic, w := range p.TopicWeights {
			fmt.Printf("  %s = %g\n", topic, w)
		}
		if len(p.Likes) > 0 {
			fmt.Printf("Likes (%d):\n", len(p.Likes))
			for _, l := range p.Likes {
				fmt.Printf("  + %s\n", l)
			}
		}
		if len(p.Dislikes) > 0 {
			fmt.Printf("Dislikes (%d):\n", len(p.Dislikes))
			for _, d := range p.Dislikes {
				fmt.Printf("  - %s\n", d)
			}
		}
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		names, err := st.ListProfiles(context.Background())
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

// --- like / dislike subcommands ---

func feedbackCommand(kind string, record func(*store.Store, context.Context, string, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   kind + " [name] [snippet]",
		Short: "Record a " + kind + " snippet for a profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return fmt.Errorf("provide a profile name and a text snippet")
			}
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			snippet := strings.Join(args[1:], " ")
			if err := record(st, context.Background(), args[0], snippet); err != nil {
				return err
			}
			fmt.Printf("Recorded %s for %s\n", kind, args[0])
			return nil
		},
	}
}

// --- history / export subcommands ---

var profileHistoryCmd = &cobra.Command{
	Use:   "history [name]",
	Short: "Show recently recommended papers for a profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("provide exactly one profile name")
		}
		limit, _ := cmd.Flags().GetInt("limit")

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		records, err := st.History(context.Background(), args[0], limit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No history.")
			return nil
		}
		for _, rec := range records {
			fmt.Printf("%s  [%0.3f, %s]  %s\n", rec.Timestamp, rec.Score, rec.Tag, rec.Title)
		}
		return nil
	},
}

var profileExportCmd = &cobra.Command{
	Use:   "export [name]",
	Short: "Export a profile with feedback and history as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("provide exactly one profile name")
		}
		limit, _ := cmd.Flags().GetInt("limit")

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		return st.ExportProfile(context.Background(), args[0], limit, os.Stdout)
	},
}

// --- shared helpers ---

func mustString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func init() {
	profileSetCmd.Flags().String("summary", "", "free-text research summary (required)")
	profileSetCmd.Flags().String("topics", "", "comma-separated topic list")
	profileSetCmd.Flags().String("weights", "", "comma-separated topic weights, e.g. 'modal analysis=0.3'")

	profileHistoryCmd.Flags().Int("limit", 20, "maximum history records to show")
	profileExportCmd.Flags().Int("limit", 100, "maximum history records to include")

	profileCmd.AddCommand(profileSetCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(feedbackCommand("like", func(st *store.Store, ctx context.Context, name, snippet string) error {
		return st.AddLike(ctx, name, snippet)
	}))
	profileCmd.AddCommand(feedbackCommand("dislike", func(st *store.Store, ctx context.Context, name, snippet string) error {
		return st.AddDislike(ctx, name, snippet)
	}))
	profileCmd.AddCommand(profileHistoryCmd)
	profileCmd.AddCommand(profileExportCmd)

	rootCmd.AddCommand(profileCmd)
}
