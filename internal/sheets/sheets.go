// Package sheets reads content spreadsheets: it finds the header row, binds
// semantic fields to columns and addresses cells for write-back.
package sheets

import (
	"context"
	"errors"
)

var (
	// ErrNoHeaderFound is returned when no row in the search window binds enough fields.
	ErrNoHeaderFound = errors.New("no header row found")

	// ErrInvalidColumnIndex is returned for negative column indexes.
	ErrInvalidColumnIndex = errors.New("invalid column index")

	// ErrInvalidColumnLetter is returned when a column reference contains non-letters.
	ErrInvalidColumnLetter = errors.New("invalid column letter")

	// ErrTabNotFound is returned when the requested tab does not exist.
	ErrTabNotFound = errors.New("tab not found")
)

// Reader fetches the raw cell grid of a tab. Rows are returned from sheet row 1.
type Reader interface {
	ReadGrid(ctx context.Context, sheetID, tab string) ([][]string, error)
}

// Writer updates one cell. row is the 1-based sheet row, col an A1 column letter.
type Writer interface {
	WriteCell(ctx context.Context, sheetID, tab string, row int, col, value string) error
}

// TabLister lists the tabs of a spreadsheet.
type TabLister interface {
	Tabs(ctx context.Context, sheetID string) ([]string, error)
}

// Backend is a full spreadsheet implementation.
type Backend interface {
	Reader
	Writer
	TabLister
}
