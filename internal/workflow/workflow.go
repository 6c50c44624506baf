// Package workflow turns spreadsheet rows into published articles.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"anchorwriter/internal/core"
	"anchorwriter/internal/dedup"
	"anchorwriter/internal/docs"
	"anchorwriter/internal/llm"
	"anchorwriter/internal/logger"
	"anchorwriter/internal/sheets"
	"anchorwriter/internal/store"
	"anchorwriter/internal/titles"
)

// ErrMissingColumn is returned when a tab lacks a column the workflow needs.
var ErrMissingColumn = errors.New("required column missing")

// Sheets reads and writes the source spreadsheet.
type Sheets interface {
	sheets.Reader
	sheets.Writer
}

// Feedback receives accepted titles and generated articles. *store.Store
// satisfies it.
type Feedback interface {
	Record(fb store.TitleFeedback) (string, error)
	RecordArticle(article core.Article, sheetID, tab string) error
	TopPatterns(theme string, limit int) ([]store.PatternStat, error)
}

// Deps are the collaborators of a Workflow. Feedback may be nil; the
// remaining nil fields get defaults in New.
type Deps struct {
	Sheets    Sheets
	Generator llm.Generator
	Docs      docs.Store
	Feedback  Feedback
	Validator *titles.Validator
	History   *titles.History
	Cache     *sheets.HeaderCache
}

// Options tunes a run.
type Options struct {
	Delay           time.Duration // pause after each generated row
	TitleRetries    int
	TemperatureStep float32
	Sampling        llm.SamplingParams
	Language        string
	BodyWords       int
	Model           string
	FolderID        string
	Limit           int     // stop after this many processed rows, 0 for no limit
	DryRun          bool    // generate only; nothing is published or written back
	DedupThreshold  float64 // rewrite near-duplicate bodies after the run, 0 disables
	AvoidRecent     int     // recent titles quoted in the title prompt
}

// DefaultOptions returns the production settings.
func DefaultOptions() Options {
	return Options{
		Delay:           5 * time.Second,
		TitleRetries:    3,
		TemperatureStep: 0.1,
		Sampling:        llm.DefaultSampling(),
		Language:        llm.DefaultLanguage,
		BodyWords:       800,
		Model:           llm.DefaultModel,
		DedupThreshold:  dedup.DefaultThreshold,
		AvoidRecent:     5,
	}
}

// RowResult records what happened to one row.
type RowResult struct {
	SheetRow int
	Outcome  core.RowOutcome
	Reason   string
	Article  *core.Article
}

// Summary is the outcome of Run.
type Summary struct {
	SheetID   string
	Tab       string
	Processed int
	Skipped   int
	Failed    int
	Fallbacks int
	Rewritten int
	Rows      []RowResult
}

// Articles returns the articles produced by processed rows, in sheet order.
func (s *Summary) Articles() []core.Article {
	var out []core.Article
	for _, r := range s.Rows {
		if r.Article != nil {
			out = append(out, *r.Article)
		}
	}
	return out
}

// Workflow processes the rows of one tab at a time, sequentially.
type Workflow struct {
	sheets    Sheets
	gen       llm.Generator
	docs      docs.Store
	feedback  Feedback
	validator *titles.Validator
	history   *titles.History
	cache     *sheets.HeaderCache
	opts      Options
	sleep     func(ctx context.Context, d time.Duration) error
	log       zerolog.Logger
}

// New builds a Workflow. Sheets, Generator and Docs are required.
func New(d Deps, opts Options) (*Workflow, error) {
	if d.Sheets == nil || d.Generator == nil || d.Docs == nil {
		return nil, fmt.Errorf("workflow requires sheets, generator and docs collaborators")
	}
	if d.Validator == nil {
		d.Validator = titles.NewDefaultValidator()
	}
	if d.History == nil {
		d.History = titles.NewHistory(titles.DefaultSimilarityThreshold, 0)
	}
	if d.Cache == nil {
		d.Cache = sheets.NewHeaderCache(sheets.DefaultAliases())
	}
	if opts.TitleRetries < 1 {
		opts.TitleRetries = 1
	}
	return &Workflow{
		sheets:    d.Sheets,
		gen:       d.Generator,
		docs:      d.Docs,
		feedback:  d.Feedback,
		validator: d.Validator,
		history:   d.History,
		cache:     d.Cache,
		opts:      opts,
		sleep:     llm.SleepContext,
		log:       logger.Component("workflow"),
	}, nil
}

// Run processes every data row of tab. Only header resolution, a missing
// required column, or ctx cancellation end the run early; row-level failures
// are counted in the summary.
func (w *Workflow) Run(ctx context.Context, sheetID, tab string) (*Summary, error) {
	grid, err := w.sheets.ReadGrid(ctx, sheetID, tab)
	if err != nil {
		return nil, fmt.Errorf("failed to read tab %q: %w", tab, err)
	}
	hm, err := w.cache.Resolve(sheetID, tab, grid)
	if err != nil {
		return nil, fmt.Errorf("tab %q: %w", tab, err)
	}
	for _, f := range []core.Field{core.FieldAnchorWord, core.FieldDocumentURL} {
		if _, ok := hm.Binding(f); !ok {
			return nil, fmt.Errorf("%w: tab %q has no %s column", ErrMissingColumn, tab, f)
		}
	}

	rows := sheets.Rows(grid, hm)
	run := &runState{folderID: w.opts.FolderID}
	summary := &Summary{SheetID: sheetID, Tab: tab}
	log := w.log.With().Str("sheet_id", sheetID).Str("tab", tab).Logger()
	log.Info().Int("header_row", hm.DataStartRow()-1).Int("rows", len(rows)).Msg("processing tab")

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if w.opts.Limit > 0 && summary.Processed >= w.opts.Limit {
			break
		}

		res := w.processRow(ctx, run, sheetID, tab, hm, row)
		summary.Rows = append(summary.Rows, res)
		switch res.Outcome {
		case core.RowProcessed:
			summary.Processed++
			if res.Article.UsedFallback {
				summary.Fallbacks++
			}
		case core.RowSkipped:
			summary.Skipped++
			log.Debug().Int("row", row.SheetRow).Str("reason", res.Reason).Msg("row skipped")
			continue
		case core.RowFailed:
			summary.Failed++
			log.Warn().Int("row", row.SheetRow).Str("reason", res.Reason).Msg("row failed")
		}

		if w.opts.Delay > 0 {
			if err := w.sleep(ctx, w.opts.Delay); err != nil {
				return summary, err
			}
		}
	}

	if w.opts.DedupThreshold > 0 && !w.opts.DryRun {
		n, err := w.rewriteDuplicates(ctx, run, summary)
		summary.Rewritten = n
		if err != nil {
			return summary, err
		}
	}

	log.Info().
		Int("processed", summary.Processed).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Int("fallbacks", summary.Fallbacks).
		Int("rewritten", summary.Rewritten).
		Msg("tab finished")
	return summary, nil
}

// runState carries what one Run learns along the way.
type runState struct {
	// folderID starts as Options.FolderID and follows the folder the document
	// store actually used, so a fallback is resolved once per run.
	folderID string
}

func (w *Workflow) processRow(ctx context.Context, run *runState, sheetID, tab string, hm *sheets.HeaderMap, row sheets.Row) RowResult {
	result := RowResult{SheetRow: row.SheetRow}
	skip := func(reason string) RowResult {
		result.Outcome, result.Reason = core.RowSkipped, reason
		return result
	}
	fail := func(reason string, err error) RowResult {
		result.Outcome, result.Reason = core.RowFailed, reason
		if err != nil {
			result.Reason = fmt.Sprintf("%s: %v", reason, err)
		}
		return result
	}

	if row.Value(core.FieldDocumentURL) != "" {
		return skip("already has a document")
	}
	anchor := row.Value(core.FieldAnchorWord)
	if anchor == "" {
		return skip("empty anchor word")
	}

	theme := row.Value(core.FieldTheme)
	if theme == "" {
		theme = titles.Theme(anchor)
	}
	language := row.Value(core.FieldLanguage)
	if language == "" {
		language = w.opts.Language
	}

	gen, err := w.title(ctx, row, anchor, theme, language)
	if err != nil {
		return fail("title generation failed", err)
	}

	body, err := w.gen.Generate(ctx, llm.BodyPrompt(llm.BodyRequest{
		Title:      gen.Title,
		AnchorWord: anchor,
		Theme:      theme,
		Language:   language,
		Words:      w.opts.BodyWords,
	}), w.opts.Sampling)
	if err != nil {
		return fail("body generation failed", err)
	}
	gen.Body = llm.StripCodeFence(body)
	if gen.Body == "" {
		return fail("body generation failed", llm.ErrEmptyResponse)
	}

	article := &core.Article{
		ID:           uuid.NewString(),
		SheetRow:     row.SheetRow,
		AnchorWord:   anchor,
		AnchorURL:    row.Value(core.FieldAnchorURL),
		Theme:        theme,
		Language:     language,
		Title:        gen.Title,
		Body:         gen.Body,
		ModelUsed:    w.opts.Model,
		DateCreated:  time.Now().UTC(),
		TitleRetries: gen.Attempts,
		UsedFallback: gen.UsedFallback,
	}
	result.Article = article

	if w.opts.DryRun {
		w.history.Add(article.Title)
		result.Outcome = core.RowProcessed
		return result
	}

	pub, err := w.docs.CreateOrUpdate(ctx, docs.Document{
		Title:      article.Title,
		Body:       article.Body,
		AnchorWord: article.AnchorWord,
		AnchorURL:  article.AnchorURL,
		FolderID:   run.folderID,
	})
	if err != nil {
		return fail("publish failed", err)
	}
	article.DocumentID, article.DocumentURL = pub.ID, pub.URL
	if pub.FolderID != "" && pub.FolderID != run.folderID {
		w.log.Info().Str("requested", run.folderID).Str("folder_id", pub.FolderID).Msg("using resolved document folder for the rest of the run")
		run.folderID = pub.FolderID
	}

	// The document URL marks the row as done, so it is written last.
	if existing := row.Value(core.FieldTitle); existing != article.Title {
		if b, ok := hm.Binding(core.FieldTitle); ok {
			if err := w.writeCell(ctx, sheetID, tab, row.SheetRow, b, article.Title); err != nil {
				return fail("title write-back failed", err)
			}
		}
	}
	b, _ := hm.Binding(core.FieldDocumentURL)
	if err := w.writeCell(ctx, sheetID, tab, row.SheetRow, b, article.DocumentURL); err != nil {
		return fail("document write-back failed", err)
	}

	w.history.Add(article.Title)
	w.record(sheetID, tab, article)
	result.Outcome = core.RowProcessed
	return result
}

// title returns the row's existing title when it validates, otherwise a
// generated one. Rejected candidates are retried with rising temperature; when
// every attempt fails a constructed title is used.
func (w *Workflow) title(ctx context.Context, row sheets.Row, anchor, theme, language string) (core.GenerationResult, error) {
	if existing := row.Value(core.FieldTitle); existing != "" {
		if res := w.validator.Validate(existing, anchor, true); res.Accepted {
			return core.GenerationResult{Title: res.Title}, nil
		}
	}

	req := llm.TitleRequest{
		AnchorWord:        anchor,
		Theme:             theme,
		Language:          language,
		Avoid:             w.recentTitles(),
		PreferredPatterns: w.preferredPatterns(theme),
	}
	prompt := llm.TitlePrompt(req)
	log := w.log.With().Int("row", row.SheetRow).Str("anchor", anchor).Logger()

	for attempt := 1; attempt <= w.opts.TitleRetries; attempt++ {
		params := w.opts.Sampling.WithTemperature(w.opts.Sampling.Temperature + w.opts.TemperatureStep*float32(attempt-1))
		raw, err := w.gen.Generate(ctx, prompt, params)
		if err != nil {
			return core.GenerationResult{}, err
		}

		res := w.validator.Validate(llm.FirstLine(raw), anchor, false)
		if !res.Accepted {
			log.Debug().Int("attempt", attempt).Str("candidate", res.Title).Str("reason", string(res.Reason)).Msg("title rejected")
			continue
		}
		if dup, match, score := w.history.TooSimilar(res.Title); dup {
			log.Debug().Int("attempt", attempt).Str("candidate", res.Title).Str("match", match).Float64("score", score).Msg("title too similar")
			continue
		}
		return core.GenerationResult{Title: res.Title, Attempts: attempt}, nil
	}

	fallback := titles.FallbackTitle(anchor, w.history.Len())
	log.Info().Str("title", fallback).Msg("using fallback title")
	return core.GenerationResult{Title: fallback, Attempts: w.opts.TitleRetries, UsedFallback: true}, nil
}

func (w *Workflow) recentTitles() []string {
	all := w.history.Titles()
	if w.opts.AvoidRecent <= 0 || len(all) == 0 {
		return nil
	}
	return all[max(0, len(all)-w.opts.AvoidRecent):]
}

func (w *Workflow) preferredPatterns(theme string) []string {
	if w.feedback == nil {
		return nil
	}
	stats, err := w.feedback.TopPatterns(theme, 3)
	if err != nil {
		w.log.Warn().Err(err).Msg("failed to load title patterns")
		return nil
	}
	var patterns []string
	for _, s := range stats {
		if s.AvgPerformance+s.AvgFeedback > 0 {
			patterns = append(patterns, s.Pattern)
		}
	}
	return patterns
}

func (w *Workflow) writeCell(ctx context.Context, sheetID, tab string, row int, b core.FieldBinding, value string) error {
	col, err := sheets.ColumnIndexToLetter(b.Index)
	if err != nil {
		return err
	}
	if err := w.sheets.WriteCell(ctx, sheetID, tab, row, col, value); err != nil {
		return fmt.Errorf("%s: %w", sheets.CellRef(tab, col, row), err)
	}
	return nil
}

func (w *Workflow) record(sheetID, tab string, article *core.Article) {
	if w.feedback == nil {
		return
	}
	_, err := w.feedback.Record(store.TitleFeedback{
		Title:            article.Title,
		AnchorWord:       article.AnchorWord,
		Theme:            article.Theme,
		StructurePattern: titles.StructurePattern(article.Title),
		CreatedAt:        article.DateCreated,
	})
	if err != nil {
		w.log.Warn().Err(err).Int("row", article.SheetRow).Msg("failed to record title feedback")
	}
	if err := w.feedback.RecordArticle(*article, sheetID, tab); err != nil {
		w.log.Warn().Err(err).Int("row", article.SheetRow).Msg("failed to record article")
	}
}
