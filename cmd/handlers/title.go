package handlers

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"anchorwriter/internal/config"
	"anchorwriter/internal/titles"
)

// NewTitleCmd creates the title command
func NewTitleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "title",
		Short: "Check titles without calling the model",
	}
	cmd.AddCommand(newTitleValidateCmd())
	cmd.AddCommand(newTitleSimilarityCmd())
	cmd.AddCommand(newTitleFallbackCmd())
	return cmd
}

func newTitleValidateCmd() *cobra.Command {
	var (
		anchor   string
		existing bool
	)
	cmd := &cobra.Command{
		Use:   "validate TITLE",
		Short: "Clean a raw title and report whether it would be accepted",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := titles.NewDefaultValidator().Validate(strings.Join(args, " "), anchor, existing)
			fmt.Print(formatValidation(res))
			return nil
		},
	}
	cmd.Flags().StringVar(&anchor, "anchor", "", "anchor word expected in the title")
	cmd.Flags().BoolVar(&existing, "existing", false, "treat as the title of an existing document (no word-count gate)")
	return cmd
}

func formatValidation(res titles.Result) string {
	var b strings.Builder
	if res.Accepted {
		b.WriteString(okStyle.Render("✅ accepted") + "\n")
	} else {
		b.WriteString(errStyle.Render("❌ rejected: "+string(res.Reason)) + "\n")
	}
	b.WriteString(kv("Title", res.Title) + "\n")
	b.WriteString(kv("Words", res.Words) + "\n")
	if res.Title != "" {
		b.WriteString(kv("Pattern", titles.StructurePattern(res.Title)) + "\n")
		if cats := titles.Categories(res.Title); len(cats) > 0 {
			b.WriteString(kv("Categories", strings.Join(cats, ", ")) + "\n")
		}
	}
	if res.Accepted {
		b.WriteString(kv("Has anchor", res.HasAnchorWord) + "\n")
	}
	return b.String()
}

func newTitleSimilarityCmd() *cobra.Command {
	var threshold float64
	cmd := &cobra.Command{
		Use:   "similarity TITLE_A TITLE_B",
		Short: "Score how alike two titles are",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if threshold <= 0 {
				threshold = config.Get().Generation.SimilarityThreshold
			}
			if threshold <= 0 {
				threshold = titles.DefaultSimilarityThreshold
			}
			score := titles.Similarity(args[0], args[1])
			fmt.Println(kv("Similarity", fmt.Sprintf("%.3f", score)))
			fmt.Println(kv("Edit ratio", fmt.Sprintf("%.3f", titles.EditRatio(args[0], args[1]))))
			if score > threshold {
				fmt.Println(warnStyle.Render(fmt.Sprintf("⚠️  near duplicate (> %.2f)", threshold)))
			} else {
				fmt.Println(okStyle.Render(fmt.Sprintf("✅ distinct (<= %.2f)", threshold)))
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "near-duplicate threshold (default from generation.similarity_threshold)")
	return cmd
}

func newTitleFallbackCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "fallback ANCHOR_WORD",
		Short: "Show the constructed title used when generation keeps failing",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(titles.FallbackTitle(strings.Join(args, " "), n))
			return nil
		},
	}
	cmd.Flags().IntVar(&n, "n", 0, "rotation index (titles already accepted in the run)")
	return cmd
}
