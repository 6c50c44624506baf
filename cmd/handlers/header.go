package handlers

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"anchorwriter/internal/config"
	"anchorwriter/internal/sheets"
)

// NewHeaderCmd creates the header command
func NewHeaderCmd() *cobra.Command {
	var src source

	cmd := &cobra.Command{
		Use:   "header",
		Short: "Show how a tab's header row is bound to article fields",
		Long: `Locate the header row of a tab and print which column each field
(anchor word, anchor URL, title, document URL, ...) was bound to.
Use it to check a new sheet before running it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHeader(cmd.Context(), src)
		},
	}

	cmd.Flags().StringVar(&src.SheetID, "sheet", "", "Google Sheets spreadsheet id (default from config)")
	cmd.Flags().StringVar(&src.Tab, "tab", "", "tab name (default from config)")
	cmd.Flags().StringVar(&src.XLSX, "xlsx", "", "local .xlsx workbook")

	return cmd
}

func runHeader(ctx context.Context, src source) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := config.Get()
	src = src.resolve(cfg)
	if src.Tab == "" {
		return fmt.Errorf("no tab given. Use --tab or sheets.tab")
	}

	backend, closeBackend, err := openBackend(ctx, cfg, src)
	if err != nil {
		return err
	}
	defer closeBackend()

	grid, err := backend.ReadGrid(ctx, src.SheetID, src.Tab)
	if err != nil {
		return fmt.Errorf("failed to read tab %q: %w", src.Tab, err)
	}
	aliases := sheets.DefaultAliases()
	hm, err := sheets.Resolve(grid, aliases)
	if err != nil {
		return err
	}

	fmt.Println(headingStyle.Render(fmt.Sprintf("🧭 Header of %q at row %d (%d of %d fields bound)",
		src.Tab, hm.HeaderRow+1, hm.Score(), len(aliases))))
	var unbound []string
	for _, f := range aliases.Fields() {
		b, ok := hm.Binding(f)
		if !ok {
			unbound = append(unbound, string(f))
			continue
		}
		letter, err := sheets.ColumnIndexToLetter(b.Index)
		if err != nil {
			return err
		}
		fmt.Println(kv(string(f), fmt.Sprintf("%s  %s", letter, b.Name)))
	}
	for _, f := range unbound {
		fmt.Println(dimStyle.Render(kv(f, "(not found)")))
	}
	fmt.Printf("\n📄 Data starts at row %d\n", hm.DataStartRow())
	return nil
}
