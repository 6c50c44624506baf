package handlers

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"anchorwriter/internal/config"
	"anchorwriter/internal/core"
	"anchorwriter/internal/llm"
	"anchorwriter/internal/logger"
	"anchorwriter/internal/titles"
	"anchorwriter/internal/workflow"
)

type runOptions struct {
	source
	Limit     int
	DryRun    bool
	LocalDocs bool
	FolderID  string
	Delay     time.Duration
	NoDedup   bool
}

// NewRunCmd creates the run command
func NewRunCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate and publish articles for the rows of one tab",
		Long: `Process every row of a tab: rows that already have a document URL or lack
an anchor word are skipped; the rest get a validated title, a generated
article body, a published document and a write-back of the document URL.

Examples:
  anchorwriter run --sheet SHEET_ID --tab "Links"
  anchorwriter run --xlsx links.xlsx --tab Links --limit 5
  anchorwriter run --sheet SHEET_ID --tab Links --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.SheetID, "sheet", "", "Google Sheets spreadsheet id (default from config)")
	cmd.Flags().StringVar(&opts.Tab, "tab", "", "tab name (default from config)")
	cmd.Flags().StringVar(&opts.XLSX, "xlsx", "", "read and write a local .xlsx workbook instead of Google Sheets")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "stop after this many generated rows (0 = all)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "generate titles and bodies without publishing or writing back")
	cmd.Flags().BoolVar(&opts.LocalDocs, "local-docs", false, "write markdown files to app.output_dir instead of Google Docs")
	cmd.Flags().StringVar(&opts.FolderID, "folder", "", "Drive folder id (default from docs.default_folder_id)")
	cmd.Flags().DurationVar(&opts.Delay, "delay", -1, "pause between rows (default from generation.delay)")
	cmd.Flags().BoolVar(&opts.NoDedup, "no-dedup", false, "skip rewriting near-duplicate articles after the run")

	return cmd
}

func runRun(ctx context.Context, opts runOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()
	opts.source = opts.source.resolve(cfg)
	if opts.Tab == "" {
		return fmt.Errorf("no tab given. Use --tab or sheets.tab, or pick one with 'anchorwriter tabs --pick'")
	}

	backend, closeBackend, err := openBackend(ctx, cfg, opts.source)
	if err != nil {
		return err
	}
	defer closeBackend()

	gen, closeGen, err := openGenerator(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeGen()

	// Workbook runs have no Google credentials to publish with.
	docStore, err := openDocs(ctx, cfg, opts.LocalDocs || opts.DryRun || opts.XLSX != "")
	if err != nil {
		return err
	}

	fb, closeFB, err := openFeedback(cfg)
	if err != nil {
		return err
	}
	defer closeFB()

	history := titles.NewHistory(cfg.Generation.SimilarityThreshold, cfg.Generation.HistorySize)
	if cfg.Generation.HistorySize > 0 {
		recent, err := fb.RecentTitles(cfg.Generation.HistorySize)
		if err != nil {
			logger.Warn("Failed to load recent titles", "error", err.Error())
		}
		slices.Reverse(recent)
		for _, t := range recent {
			history.Add(t)
		}
	}

	wopts := workflowOptions(cfg, opts)
	wf, err := workflow.New(workflow.Deps{
		Sheets:    backend,
		Generator: gen,
		Docs:      docStore,
		Feedback:  fb,
		History:   history,
	}, wopts)
	if err != nil {
		return err
	}

	fmt.Println(headingStyle.Render(fmt.Sprintf("✍️  Processing %q", opts.Tab)))
	summary, err := wf.Run(ctx, opts.SheetID, opts.Tab)
	if summary != nil {
		printSummary(summary)
	}
	return err
}

func workflowOptions(cfg *config.Config, opts runOptions) workflow.Options {
	wopts := workflow.DefaultOptions()
	wopts.Delay = cfg.Generation.Delay
	if opts.Delay >= 0 {
		wopts.Delay = opts.Delay
	}
	wopts.TitleRetries = cfg.Generation.TitleRetries
	wopts.TemperatureStep = cfg.Generation.TemperatureStep
	wopts.Sampling = llm.SamplingParams{
		Temperature: cfg.Gemini.Temperature,
		TopP:        cfg.Gemini.TopP,
		TopK:        cfg.Gemini.TopK,
		MaxTokens:   cfg.Gemini.MaxTokens,
	}
	wopts.Language = cfg.Generation.Language
	wopts.BodyWords = cfg.Generation.BodyWords
	wopts.Model = cfg.Gemini.Model
	wopts.FolderID = opts.FolderID
	wopts.Limit = opts.Limit
	wopts.DryRun = opts.DryRun
	wopts.DedupThreshold = cfg.Dedup.Threshold
	if opts.NoDedup {
		wopts.DedupThreshold = 0
	}
	return wopts
}

func printSummary(s *workflow.Summary) {
	fmt.Println()
	for _, r := range s.Rows {
		switch r.Outcome {
		case core.RowProcessed:
			line := fmt.Sprintf("✅ row %d: %s", r.SheetRow, r.Article.Title)
			if r.Article.UsedFallback {
				line += warnStyle.Render(" (fallback title)")
			}
			fmt.Println(okStyle.Render(line))
			if r.Article.DocumentURL != "" {
				fmt.Println(dimStyle.Render("   " + r.Article.DocumentURL))
			}
		case core.RowFailed:
			fmt.Println(errStyle.Render(fmt.Sprintf("❌ row %d: %s", r.SheetRow, r.Reason)))
		case core.RowSkipped:
			fmt.Println(dimStyle.Render(fmt.Sprintf("⏭️  row %d: %s", r.SheetRow, r.Reason)))
		}
	}

	lines := []string{
		kv("Processed", s.Processed),
		kv("Skipped", s.Skipped),
		kv("Failed", s.Failed),
		kv("Fallback titles", s.Fallbacks),
		kv("Rewritten", s.Rewritten),
	}
	body := ""
	for i, l := range lines {
		if i > 0 {
			body += "\n"
		}
		body += l
	}
	fmt.Println(boxStyle.Render(body))
}
