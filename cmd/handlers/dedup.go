package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"anchorwriter/internal/config"
	"anchorwriter/internal/dedup"
)

// NewDedupCmd creates the dedup command
func NewDedupCmd() *cobra.Command {
	var (
		threshold float64
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "dedup [FILE]",
		Short: "Find near-duplicate articles in a JSON list",
		Long: `Read a JSON array of {"title": ..., "body": ...} objects from FILE (or
stdin) and report the pairs that score above the threshold, plus the
indexes that would be rewritten.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = os.Stdin
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", args[0], err)
				}
				defer f.Close()
				r = f
			}
			if threshold <= 0 {
				threshold = config.Get().Dedup.Threshold
			}
			return runDedup(r, cmd.OutOrStdout(), threshold, asJSON)
		},
	}

	cmd.Flags().Float64Var(&threshold, "threshold", 0, "combined similarity threshold (default from dedup.threshold)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

type dedupReport struct {
	Pairs    []dedup.Pair `json:"pairs"`
	Rewrites []int        `json:"rewrites"`
}

func runDedup(r io.Reader, w io.Writer, threshold float64, asJSON bool) error {
	var items []dedup.Item
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return fmt.Errorf("failed to decode articles: %w", err)
	}
	if threshold <= 0 {
		threshold = dedup.DefaultThreshold
	}

	pairs := dedup.FindSimilar(items, threshold)
	report := dedupReport{Pairs: pairs, Rewrites: dedup.SelectRewrites(pairs)}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	if len(pairs) == 0 {
		fmt.Fprintf(w, "✅ No duplicates among %d articles (threshold %.2f)\n", len(items), threshold)
		return nil
	}
	fmt.Fprintf(w, "🔁 %d similar pairs among %d articles\n", len(pairs), len(items))
	for _, p := range pairs {
		fmt.Fprintf(w, "  %d ↔ %d  %.3f  %q / %q\n", p.I, p.J, p.Score, items[p.I].Title, items[p.J].Title)
	}
	fmt.Fprintf(w, "✏️  Rewrite: %v\n", report.Rewrites)
	return nil
}
