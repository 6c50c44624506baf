package sheets

import (
	"strings"

	"anchorwriter/internal/core"
)

// Row is one data line below the header.
type Row struct {
	SheetRow int                   // 1-based sheet row, used for write-back
	Values   map[core.Field]string // Trimmed value per bound field
}

// Value returns the trimmed value of f, or "" when unbound or empty.
func (r Row) Value(f core.Field) string {
	return r.Values[f]
}

// Rows extracts the data rows below hm's header. Blank lines are skipped but
// SheetRow numbering stays absolute: SheetRow = DataStartRow + local index.
func Rows(grid [][]string, hm *HeaderMap) []Row {
	if hm.HeaderRow+1 >= len(grid) {
		return nil
	}

	start := hm.DataStartRow()
	var rows []Row
	for i, cells := range grid[hm.HeaderRow+1:] {
		if nonEmpty(cells) == 0 {
			continue
		}
		row := Row{
			SheetRow: start + i,
			Values:   make(map[core.Field]string, len(hm.Bindings)),
		}
		for field, b := range hm.Bindings {
			if b.Index < len(cells) {
				row.Values[field] = strings.TrimSpace(cells[b.Index])
			}
		}
		rows = append(rows, row)
	}
	return rows
}
