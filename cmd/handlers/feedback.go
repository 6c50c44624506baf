package handlers

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"anchorwriter/internal/config"
	"anchorwriter/internal/logger"
)

// NewFeedbackCmd creates the title feedback management command
func NewFeedbackCmd() *cobra.Command {
	feedbackCmd := &cobra.Command{
		Use:   "feedback",
		Short: "Inspect and score the title feedback store",
		Long: `Accepted titles are logged to a SQLite store with their structure
pattern. Scores recorded here steer future title prompts toward the
patterns that performed best.`,
	}

	feedbackCmd.AddCommand(newFeedbackStatsCmd())
	feedbackCmd.AddCommand(newFeedbackTopCmd())
	feedbackCmd.AddCommand(newFeedbackScoreCmd())
	feedbackCmd.AddCommand(newFeedbackPruneCmd())

	return feedbackCmd
}

func newFeedbackStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show feedback and article counts",
		Run: func(cmd *cobra.Command, args []string) {
			if err := runFeedbackStats(); err != nil {
				logger.Error("Failed to get feedback stats", err)
				os.Exit(1)
			}
		},
	}
}

func runFeedbackStats() error {
	fb, closeFB, err := openFeedback(config.Get())
	if err != nil {
		return err
	}
	defer closeFB()

	stats, err := fb.Stats()
	if err != nil {
		return fmt.Errorf("failed to get feedback statistics: %w", err)
	}

	fmt.Println(headingStyle.Render("📊 Feedback Statistics"))
	fmt.Println(kv("Store", fb.Path()))
	fmt.Println(kv("Titles", stats.FeedbackCount))
	fmt.Println(kv("Scored", stats.ScoredCount))
	fmt.Println(kv("Articles", stats.ArticleCount))
	fmt.Println(kv("Fallback titles", stats.FallbackCount))
	if stats.ScoredCount > 0 {
		fmt.Println(kv("Avg performance", fmt.Sprintf("%.2f", stats.AvgPerformance)))
		fmt.Println(kv("Avg feedback", fmt.Sprintf("%.2f", stats.AvgFeedback)))
	}

	if len(stats.ByTheme) > 0 {
		themes := make([]string, 0, len(stats.ByTheme))
		for t := range stats.ByTheme {
			themes = append(themes, t)
		}
		sort.Strings(themes)
		fmt.Println("\n🏷️  By theme:")
		for _, t := range themes {
			fmt.Printf("  %-16s %d\n", t, stats.ByTheme[t])
		}
	}
	return nil
}

func newFeedbackTopCmd() *cobra.Command {
	var (
		theme string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "top",
		Short: "List the best-scoring title structure patterns",
		RunE: func(cmd *cobra.Command, args []string) error {
			fb, closeFB, err := openFeedback(config.Get())
			if err != nil {
				return err
			}
			defer closeFB()

			top, err := fb.TopPatterns(theme, limit)
			if err != nil {
				return fmt.Errorf("failed to rank patterns: %w", err)
			}
			if len(top) == 0 {
				fmt.Println("📭 No scored titles yet")
				return nil
			}
			fmt.Println(headingStyle.Render("🏆 Top title patterns"))
			for i, p := range top {
				fmt.Printf("  %d. %-40s n=%d perf=%.2f feedback=%.2f\n",
					i+1, p.Pattern, p.Count, p.AvgPerformance, p.AvgFeedback)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&theme, "theme", "", "only titles of this theme")
	cmd.Flags().IntVar(&limit, "limit", 5, "number of patterns to show")
	return cmd
}

func newFeedbackScoreCmd() *cobra.Command {
	var performance, editorial float64
	cmd := &cobra.Command{
		Use:   "score ID_OR_TITLE",
		Short: "Record performance and editorial scores for a title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fb, closeFB, err := openFeedback(config.Get())
			if err != nil {
				return err
			}
			defer closeFB()

			entry, err := fb.Get(args[0])
			if err != nil {
				entry, err = fb.FindByTitle(args[0])
			}
			if err != nil {
				return fmt.Errorf("no feedback entry for %q: %w", args[0], err)
			}
			if err := fb.UpdateScores(entry.ID, performance, editorial); err != nil {
				return err
			}
			fmt.Printf("✅ Scored %q (perf=%.2f feedback=%.2f)\n", entry.Title, performance, editorial)
			return nil
		},
	}
	cmd.Flags().Float64Var(&performance, "performance", 0, "measured performance, e.g. click-through rate")
	cmd.Flags().Float64Var(&editorial, "feedback", 0, "editorial rating")
	return cmd
}

func newFeedbackPruneCmd() *cobra.Command {
	var olderThan time.Duration
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete unscored feedback older than a cutoff",
		RunE: func(cmd *cobra.Command, args []string) error {
			fb, closeFB, err := openFeedback(config.Get())
			if err != nil {
				return err
			}
			defer closeFB()

			if err := fb.Prune(olderThan); err != nil {
				return fmt.Errorf("failed to prune feedback: %w", err)
			}
			fmt.Printf("🧹 Removed unscored entries older than %s\n", olderThan)
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 90*24*time.Hour, "age cutoff")
	return cmd
}
