package sheets

import (
	"fmt"
	"strings"

	"anchorwriter/internal/core"
	"anchorwriter/internal/textnorm"
)

const (
	// HeaderSearchRows bounds how far down the grid the header row may sit.
	HeaderSearchRows = 20
	// MinMatchingHeaders is the number of semantic fields a header row must bind.
	MinMatchingHeaders = 3
)

// HeaderMap is the frozen binding of semantic fields to physical columns for one tab.
type HeaderMap struct {
	HeaderRow int                              // 0-based index of the header row in the grid
	Columns   []string                         // Deduplicated column names, one per physical column
	Bindings  map[core.Field]core.FieldBinding // Resolved semantic fields
}

// Binding returns the column bound to f.
func (h *HeaderMap) Binding(f core.Field) (core.FieldBinding, bool) {
	b, ok := h.Bindings[f]
	return b, ok
}

// DataStartRow is the 1-based sheet row of the first line below the header.
func (h *HeaderMap) DataStartRow() int {
	return h.HeaderRow + 2
}

// Score is the number of semantic fields bound.
func (h *HeaderMap) Score() int {
	return len(h.Bindings)
}

// Resolve locates the header row within the first HeaderSearchRows rows of grid
// and binds each semantic field of aliases to the first matching column.
//
// Binding is greedy: fields are tried in table order, cells left to right, and
// a column claimed by one field is not reconsidered for later fields. The row
// with the strictly highest score wins; ties keep the earlier row.
func Resolve(grid [][]string, aliases AliasTable) (*HeaderMap, error) {
	if len(grid) == 0 {
		return nil, fmt.Errorf("%w: grid is empty", ErrNoHeaderFound)
	}

	sets := aliases.folded()
	window := min(len(grid), HeaderSearchRows)

	bestRow, bestScore := -1, 0
	var bestBindings map[core.Field]int

	for i := 0; i < window; i++ {
		row := grid[i]
		if nonEmpty(row) < MinMatchingHeaders {
			continue
		}

		folded := make([]string, len(row))
		for c, cell := range row {
			folded[c] = textnorm.Fold(cell)
		}

		claimed := make(map[int]bool, len(aliases))
		bindings := make(map[core.Field]int, len(aliases))
		for k, fa := range aliases {
			for c, cell := range folded {
				if cell == "" || claimed[c] {
					continue
				}
				if sets[k][cell] {
					bindings[fa.Field] = c
					claimed[c] = true
					break
				}
			}
		}

		if len(bindings) > bestScore {
			bestRow, bestScore, bestBindings = i, len(bindings), bindings
		}
	}

	if bestScore < MinMatchingHeaders {
		return nil, fmt.Errorf("%w: best candidate matched %d of %d required fields in first %d rows",
			ErrNoHeaderFound, bestScore, MinMatchingHeaders, window)
	}

	columns := dedupeColumns(grid[bestRow], gridWidth(grid))
	hm := &HeaderMap{
		HeaderRow: bestRow,
		Columns:   columns,
		Bindings:  make(map[core.Field]core.FieldBinding, len(bestBindings)),
	}
	for field, idx := range bestBindings {
		hm.Bindings[field] = core.FieldBinding{Name: columns[idx], Index: idx}
	}
	return hm, nil
}

// dedupeColumns names every physical column. Blank headers become Unnamed_N
// (N is the column index); repeated headers get .1, .2, ... suffixes in order.
func dedupeColumns(header []string, width int) []string {
	width = max(width, len(header))
	columns := make([]string, width)
	seen := make(map[string]int, width)
	for i := 0; i < width; i++ {
		name := ""
		if i < len(header) {
			name = textnorm.Collapse(header[i])
		}
		if name == "" {
			columns[i] = fmt.Sprintf("Unnamed_%d", i)
			continue
		}
		key := textnorm.Fold(name)
		if n := seen[key]; n > 0 {
			columns[i] = fmt.Sprintf("%s.%d", name, n)
		} else {
			columns[i] = name
		}
		seen[key]++
	}
	return columns
}

func nonEmpty(row []string) int {
	n := 0
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			n++
		}
	}
	return n
}

func gridWidth(grid [][]string) int {
	w := 0
	for _, row := range grid {
		w = max(w, len(row))
	}
	return w
}
