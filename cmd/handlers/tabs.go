package handlers

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"anchorwriter/internal/config"
	"anchorwriter/internal/tui"
)

// NewTabsCmd creates the tabs command
func NewTabsCmd() *cobra.Command {
	var (
		src  source
		pick bool
		run  runOptions
	)

	cmd := &cobra.Command{
		Use:   "tabs",
		Short: "List the tabs of a spreadsheet, or pick one and run it",
		Long: `List every tab of the spreadsheet. With --pick an interactive picker opens
and the chosen tab is processed as if passed to 'anchorwriter run --tab'.

Examples:
  anchorwriter tabs --sheet SHEET_ID
  anchorwriter tabs --xlsx links.xlsx --pick --limit 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTabs(cmd.Context(), src, pick, run)
		},
	}

	cmd.Flags().StringVar(&src.SheetID, "sheet", "", "Google Sheets spreadsheet id (default from config)")
	cmd.Flags().StringVar(&src.XLSX, "xlsx", "", "local .xlsx workbook")
	cmd.Flags().BoolVar(&pick, "pick", false, "choose a tab interactively and run it")
	cmd.Flags().IntVar(&run.Limit, "limit", 0, "with --pick: stop after this many generated rows")
	cmd.Flags().BoolVar(&run.DryRun, "dry-run", false, "with --pick: generate without publishing")
	cmd.Flags().BoolVar(&run.LocalDocs, "local-docs", false, "with --pick: write markdown files instead of Google Docs")
	run.Delay = -1

	return cmd
}

func runTabs(ctx context.Context, src source, pick bool, run runOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	src = src.resolve(config.Get())

	backend, closeBackend, err := openBackend(ctx, config.Get(), src)
	if err != nil {
		return err
	}
	tabs, err := backend.Tabs(ctx, src.SheetID)
	closeBackend()
	if err != nil {
		return fmt.Errorf("failed to list tabs: %w", err)
	}
	if len(tabs) == 0 {
		fmt.Println("📭 Spreadsheet has no tabs")
		return nil
	}

	if !pick {
		fmt.Println(headingStyle.Render(fmt.Sprintf("📑 %d tabs", len(tabs))))
		for i, t := range tabs {
			fmt.Printf("  %2d. %s\n", i+1, t)
		}
		return nil
	}

	tab, err := tui.PickTab("Choose a tab to process", tabs)
	if err != nil {
		return err
	}
	run.source = src
	run.Tab = tab
	return runRun(ctx, run)
}
