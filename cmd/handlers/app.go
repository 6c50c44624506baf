package handlers

import (
	"context"
	"fmt"

	"google.golang.org/api/option"

	"anchorwriter/internal/config"
	"anchorwriter/internal/docs"
	"anchorwriter/internal/gcp"
	"anchorwriter/internal/llm"
	"anchorwriter/internal/logger"
	"anchorwriter/internal/sheets"
	"anchorwriter/internal/store"
)

// source identifies the spreadsheet a command works on. For workbooks the
// file path doubles as the sheet id.
type source struct {
	SheetID string
	Tab     string
	XLSX    string
}

func (s source) resolve(cfg *config.Config) source {
	if s.XLSX == "" {
		s.XLSX = cfg.Sheets.XLSXPath
	}
	if s.SheetID == "" {
		s.SheetID = cfg.Sheets.SheetID
	}
	if s.Tab == "" {
		s.Tab = cfg.Sheets.Tab
	}
	if s.XLSX != "" {
		s.SheetID = s.XLSX
	}
	return s
}

func clientOptions(cfg *config.Config) []option.ClientOption {
	return gcp.ClientOptions(gcp.Credentials{
		File: cfg.Google.CredentialsFile,
		JSON: cfg.Google.CredentialsJSON,
	})
}

// openBackend returns the spreadsheet backend for src and a close function.
func openBackend(ctx context.Context, cfg *config.Config, src source) (sheets.Backend, func(), error) {
	if src.XLSX != "" {
		wb, err := sheets.OpenWorkbook(src.XLSX)
		if err != nil {
			return nil, nil, err
		}
		return wb, func() {
			if err := wb.Close(); err != nil {
				logger.Error("Failed to close workbook", err)
			}
		}, nil
	}
	if src.SheetID == "" {
		return nil, nil, fmt.Errorf("no spreadsheet given. Use --sheet, --xlsx, sheets.sheet_id or ANCHORWRITER_SHEET_ID")
	}
	gs, err := sheets.NewGoogleSheets(ctx, clientOptions(cfg)...)
	if err != nil {
		return nil, nil, err
	}
	return gs, func() {}, nil
}

// openGenerator returns a quota-retrying Gemini generator.
func openGenerator(ctx context.Context, cfg *config.Config) (llm.Generator, func(), error) {
	if err := cfg.RequireGemini(); err != nil {
		return nil, nil, err
	}
	client, err := llm.NewGeminiClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		return nil, nil, err
	}
	return llm.NewRetrier(client), func() {
		if err := client.Close(); err != nil {
			logger.Error("Failed to close Gemini client", err)
		}
	}, nil
}

// openDocs returns the document store. Local runs write markdown files.
func openDocs(ctx context.Context, cfg *config.Config, local bool) (docs.Store, error) {
	if local {
		return docs.NewLocalStore(cfg.App.OutputDir)
	}
	return docs.NewGoogleDocs(ctx, cfg.Docs.DefaultFolderID, cfg.Docs.FallbackFolderName, clientOptions(cfg)...)
}

// openFeedback opens the SQLite feedback store.
func openFeedback(cfg *config.Config) (*store.Store, func(), error) {
	fb, err := store.NewStore(cfg.Feedback.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open feedback store: %w", err)
	}
	return fb, func() {
		if err := fb.Close(); err != nil {
			logger.Error("Failed to close feedback store", err)
		}
	}, nil
}
