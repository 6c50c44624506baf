package sheets

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/xuri/excelize/v2"
)

// Workbook is a Backend over a local .xlsx file. The sheetID argument of the
// Backend methods is ignored; every write is saved to disk immediately.
type Workbook struct {
	mu   sync.Mutex
	path string
	file *excelize.File
}

// OpenWorkbook opens an existing workbook.
func OpenWorkbook(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	return &Workbook{path: path, file: f}, nil
}

// ReadGrid returns every row of tab.
func (w *Workbook) ReadGrid(_ context.Context, _, tab string) ([][]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if idx, _ := w.file.GetSheetIndex(tab); idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrTabNotFound, tab)
	}
	rows, err := w.file.GetRows(tab)
	if err != nil {
		return nil, fmt.Errorf("failed to read tab %s: %w", tab, err)
	}
	return rows, nil
}

// WriteCell sets col/row of tab and saves the workbook.
func (w *Workbook) WriteCell(_ context.Context, _, tab string, row int, col, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if idx, _ := w.file.GetSheetIndex(tab); idx < 0 {
		return fmt.Errorf("%w: %s", ErrTabNotFound, tab)
	}
	axis := col + strconv.Itoa(row)
	if err := w.file.SetCellValue(tab, axis, value); err != nil {
		return fmt.Errorf("failed to set %s!%s: %w", tab, axis, err)
	}
	if err := w.file.Save(); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", w.path, err)
	}
	return nil
}

// Tabs lists the workbook's sheet names.
func (w *Workbook) Tabs(_ context.Context, _ string) ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.file.GetSheetList()), nil
}

// Close releases the workbook.
func (w *Workbook) Close() error {
	return w.file.Close()
}
