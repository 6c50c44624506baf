package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// GoogleSheets is a Backend over the Sheets v4 API.
type GoogleSheets struct {
	svc *gsheets.Service
}

// NewGoogleSheets creates a Sheets client with the given options (see gcp.ClientOptions).
func NewGoogleSheets(ctx context.Context, opts ...option.ClientOption) (*GoogleSheets, error) {
	svc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &GoogleSheets{svc: svc}, nil
}

// ReadGrid returns the formatted values of the whole tab.
func (g *GoogleSheets) ReadGrid(ctx context.Context, sheetID, tab string) ([][]string, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(sheetID, TabRange(tab)).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s/%s: %w", sheetID, tab, err)
	}
	return toGrid(resp.Values), nil
}

// WriteCell writes value into col/row of tab, letting Sheets parse it as typed input.
func (g *GoogleSheets) WriteCell(ctx context.Context, sheetID, tab string, row int, col, value string) error {
	ref := CellRef(tab, col, row)
	vr := &gsheets.ValueRange{Values: [][]interface{}{{value}}}
	_, err := g.svc.Spreadsheets.Values.Update(sheetID, ref, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to write %s in %s: %w", ref, sheetID, err)
	}
	return nil
}

// Tabs lists tab titles in sheet order.
func (g *GoogleSheets) Tabs(ctx context.Context, sheetID string) ([]string, error) {
	ss, err := g.svc.Spreadsheets.Get(sheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to load spreadsheet %s: %w", sheetID, err)
	}
	tabs := make([]string, 0, len(ss.Sheets))
	for _, s := range ss.Sheets {
		if s.Properties != nil {
			tabs = append(tabs, s.Properties.Title)
		}
	}
	return tabs, nil
}

func toGrid(values [][]interface{}) [][]string {
	grid := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			if v != nil {
				cells[j] = fmt.Sprint(v)
			}
		}
		grid[i] = cells
	}
	return grid
}
