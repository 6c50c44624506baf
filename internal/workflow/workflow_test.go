package workflow

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"anchorwriter/internal/core"
	"anchorwriter/internal/dedup"
	"anchorwriter/internal/docs"
	"anchorwriter/internal/llm"
	"anchorwriter/internal/sheets"
	"anchorwriter/internal/store"
	"anchorwriter/internal/titles"
)

const (
	titleAviator  = "Como Jogar Aviator Online com Segurança e Estratégia Todos os Dias"
	titleExplains = "Aviator Explicado: Regras Básicas, Multiplicadores e Limites Para Jogar Com Responsabilidade"
	repeatedBody  = "## Guia\n\nConteúdo repetido sobre apostas e jogos online."
)

type fakeSheets struct {
	grid    [][]string
	writes  map[string]string
	failCol string
}

func (f *fakeSheets) ReadGrid(_ context.Context, _, _ string) ([][]string, error) {
	return f.grid, nil
}

func (f *fakeSheets) WriteCell(_ context.Context, _, _ string, row int, col, value string) error {
	if col == f.failCol {
		return errors.New("permission denied")
	}
	if f.writes == nil {
		f.writes = make(map[string]string)
	}
	f.writes[fmt.Sprintf("%s%d", col, row)] = value
	return nil
}

type fakeGenerator struct {
	titles     []string
	body       string
	failAnchor string
	titleTemps []float32
	prompts    []string
	bodyCalls  int
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string, p llm.SamplingParams) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.failAnchor != "" && strings.Contains(prompt, `"`+g.failAnchor+`"`) {
		return "", &llm.FatalError{Err: errors.New("model refused")}
	}
	if strings.HasPrefix(prompt, "Write ONE SEO article title") {
		g.titleTemps = append(g.titleTemps, p.Temperature)
		if len(g.titles) == 0 {
			return "", nil
		}
		t := g.titles[0]
		g.titles = g.titles[1:]
		return t, nil
	}
	g.bodyCalls++
	if g.body != "" {
		return g.body, nil
	}
	return fmt.Sprintf("```markdown\n## Parte %d\n\nTexto único número %d.\n```", g.bodyCalls, g.bodyCalls), nil
}

type fakeDocs struct {
	docs []docs.Document
	fail bool
	// resolvedFolder, when set, is reported as the folder actually used.
	resolvedFolder string
}

func (d *fakeDocs) CreateOrUpdate(_ context.Context, doc docs.Document) (docs.Published, error) {
	if d.fail {
		return docs.Published{}, errors.New("drive unavailable")
	}
	d.docs = append(d.docs, doc)
	id := doc.ExistingID
	if id == "" {
		id = fmt.Sprintf("doc-%d", len(d.docs))
	}
	folder := doc.FolderID
	if d.resolvedFolder != "" {
		folder = d.resolvedFolder
	}
	return docs.Published{ID: id, URL: "https://docs/" + id, FolderID: folder}, nil
}

type fakeFeedback struct {
	feedback []store.TitleFeedback
	articles []core.Article
	patterns []store.PatternStat
}

func (f *fakeFeedback) Record(fb store.TitleFeedback) (string, error) {
	f.feedback = append(f.feedback, fb)
	return fmt.Sprintf("fb-%d", len(f.feedback)), nil
}

func (f *fakeFeedback) RecordArticle(a core.Article, _, _ string) error {
	f.articles = append(f.articles, a)
	return nil
}

func (f *fakeFeedback) TopPatterns(string, int) ([]store.PatternStat, error) {
	return f.patterns, nil
}

var header = []string{"ID", "Site", "Palavra Âncora", "URL Âncora", "Título", "URL do Documento", "Tema"}

func gridWith(rows ...[]string) [][]string {
	return append([][]string{{"Planilha de links"}, header}, rows...)
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Delay = 0
	opts.DedupThreshold = 0
	opts.FolderID = "folder-1"
	return opts
}

func newTestWorkflow(t *testing.T, sh *fakeSheets, gen *fakeGenerator, d *fakeDocs, fb *fakeFeedback, opts Options) *Workflow {
	t.Helper()
	deps := Deps{Sheets: sh, Generator: gen, Docs: d}
	if fb != nil {
		deps.Feedback = fb
	}
	w, err := New(deps, opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return w
}

func TestRunProcessesRows(t *testing.T) {
	sh := &fakeSheets{grid: gridWith(
		[]string{"1", "a.com", "cassino", "https://a.com", "", "https://docs/existing", ""},
		[]string{"2", "b.com", "", "https://b.com", "", "", ""},
		[]string{"3", "c.com", "aviator", "https://c.com", "", "", "casino"},
		[]string{},
		[]string{"4", "d.com", "pix", "https://d.com", "Guia do Pix para Apostas", "", ""},
	)}
	gen := &fakeGenerator{titles: []string{"Título: " + titleAviator}}
	d := &fakeDocs{}
	fb := &fakeFeedback{patterns: []store.PatternStat{{Pattern: "how-to", AvgFeedback: 4}}}
	w := newTestWorkflow(t, sh, gen, d, fb, testOptions())

	summary, err := w.Run(context.Background(), "sheet", "Links")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Processed != 2 || summary.Skipped != 2 || summary.Failed != 0 {
		t.Errorf("summary = %+v", summary)
	}

	wantWrites := map[string]string{
		"E5": titleAviator,
		"F5": "https://docs/doc-1",
		"F7": "https://docs/doc-2",
	}
	if len(sh.writes) != len(wantWrites) {
		t.Errorf("writes = %v, want %v", sh.writes, wantWrites)
	}
	for cell, want := range wantWrites {
		if sh.writes[cell] != want {
			t.Errorf("%s = %q, want %q", cell, sh.writes[cell], want)
		}
	}

	if len(d.docs) != 2 {
		t.Fatalf("published %d docs, want 2", len(d.docs))
	}
	if d.docs[0].AnchorURL != "https://c.com" || d.docs[0].FolderID != "folder-1" {
		t.Errorf("doc = %+v", d.docs[0])
	}
	if strings.Contains(d.docs[0].Body, "```") {
		t.Errorf("code fence not stripped: %q", d.docs[0].Body)
	}
	if d.docs[1].Title != "Guia do Pix para Apostas" {
		t.Errorf("existing title not reused: %q", d.docs[1].Title)
	}

	if len(fb.feedback) != 2 || fb.feedback[0].Theme != "casino" || fb.feedback[0].StructurePattern == "" {
		t.Errorf("feedback = %+v", fb.feedback)
	}
	if len(fb.articles) != 2 || fb.articles[0].DocumentURL != "https://docs/doc-1" || fb.articles[0].SheetRow != 5 {
		t.Errorf("articles = %+v", fb.articles)
	}
	if !strings.Contains(gen.prompts[0], "how-to") {
		t.Error("title prompt should carry preferred patterns")
	}
	if got := len(summary.Articles()); got != 2 {
		t.Errorf("Articles() = %d, want 2", got)
	}
}

func TestRunFallsBackAfterRejectedTitles(t *testing.T) {
	sh := &fakeSheets{grid: gridWith([]string{"1", "a.com", "aviator", "https://a.com", "", "", ""})}
	gen := &fakeGenerator{titles: []string{
		"Título: curto",
		"Em resumo, isto não é um título completo de verdade aqui",
		"Um título muito bom que infelizmente termina com de",
	}}
	w := newTestWorkflow(t, sh, gen, &fakeDocs{}, nil, testOptions())

	summary, err := w.Run(context.Background(), "sheet", "Links")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Processed != 1 || summary.Fallbacks != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	article := summary.Rows[0].Article
	if !article.UsedFallback || article.TitleRetries != 3 {
		t.Errorf("article = %+v", article)
	}
	if want := titles.FallbackTitle("aviator", 0); article.Title != want {
		t.Errorf("title = %q, want %q", article.Title, want)
	}

	want := []float32{0.8, 0.9, 1.0}
	if len(gen.titleTemps) != len(want) {
		t.Fatalf("temps = %v", gen.titleTemps)
	}
	for i := range want {
		if math.Abs(float64(gen.titleTemps[i]-want[i])) > 1e-6 {
			t.Errorf("attempt %d temperature = %v, want %v", i+1, gen.titleTemps[i], want[i])
		}
	}
}

func TestRunRejectsNearDuplicateTitles(t *testing.T) {
	sh := &fakeSheets{grid: gridWith([]string{"1", "a.com", "aviator", "https://a.com", "", "", ""})}
	gen := &fakeGenerator{titles: []string{titleAviator, titleExplains}}
	history := titles.NewHistory(0.65, 0)
	history.Add(titleAviator)

	w, err := New(Deps{Sheets: sh, Generator: gen, Docs: &fakeDocs{}, History: history}, testOptions())
	if err != nil {
		t.Fatal(err)
	}
	summary, err := w.Run(context.Background(), "sheet", "Links")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	article := summary.Rows[0].Article
	if article.Title != titleExplains || article.TitleRetries != 2 || article.UsedFallback {
		t.Errorf("article = %+v", article)
	}
	if history.Len() != 2 {
		t.Errorf("history length = %d, want 2", history.Len())
	}
	if !strings.Contains(gen.prompts[0], titleAviator) {
		t.Error("title prompt should list recent titles to avoid")
	}
}

func TestRunGenerationErrorAbortsRowOnly(t *testing.T) {
	sh := &fakeSheets{grid: gridWith(
		[]string{"1", "a.com", "bad", "https://a.com", "", "", ""},
		[]string{"2", "b.com", "aviator", "https://b.com", "", "", ""},
	)}
	gen := &fakeGenerator{titles: []string{titleAviator}, failAnchor: "bad"}
	w := newTestWorkflow(t, sh, gen, &fakeDocs{}, nil, testOptions())

	summary, err := w.Run(context.Background(), "sheet", "Links")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Failed != 1 || summary.Processed != 1 {
		t.Errorf("summary = %+v", summary)
	}
	if !strings.Contains(summary.Rows[0].Reason, "title generation failed") {
		t.Errorf("reason = %q", summary.Rows[0].Reason)
	}
	if _, ok := sh.writes["F3"]; ok {
		t.Error("failed row should not be marked")
	}
	if sh.writes["F4"] == "" {
		t.Error("next row should be processed")
	}
}

func TestRunWriteFailureLeavesRowUnmarked(t *testing.T) {
	sh := &fakeSheets{grid: gridWith([]string{"1", "a.com", "aviator", "https://a.com", "", "", ""}), failCol: "F"}
	fb := &fakeFeedback{}
	w := newTestWorkflow(t, sh, &fakeGenerator{titles: []string{titleAviator}}, &fakeDocs{}, fb, testOptions())

	summary, err := w.Run(context.Background(), "sheet", "Links")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Failed != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if !strings.Contains(summary.Rows[0].Reason, "document write-back failed") {
		t.Errorf("reason = %q", summary.Rows[0].Reason)
	}
	if len(fb.feedback) != 0 {
		t.Error("feedback should not be recorded for unmarked rows")
	}
}

func TestRunPublishFailure(t *testing.T) {
	sh := &fakeSheets{grid: gridWith([]string{"1", "a.com", "aviator", "https://a.com", "", "", ""})}
	w := newTestWorkflow(t, sh, &fakeGenerator{titles: []string{titleAviator}}, &fakeDocs{fail: true}, nil, testOptions())

	summary, err := w.Run(context.Background(), "sheet", "Links")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Failed != 1 || len(sh.writes) != 0 {
		t.Errorf("summary = %+v writes = %v", summary, sh.writes)
	}
}

func TestRunHeaderErrors(t *testing.T) {
	tests := []struct {
		name string
		grid [][]string
		want error
	}{
		{"no header", [][]string{{"a", "b"}, {"c"}}, sheets.ErrNoHeaderFound},
		{"no document column", [][]string{{"ID", "Palavra Âncora", "Título", "Tema"}}, ErrMissingColumn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorkflow(t, &fakeSheets{grid: tt.grid}, &fakeGenerator{}, &fakeDocs{}, nil, testOptions())
			_, err := w.Run(context.Background(), "sheet", "Links")
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRunDryRunAndLimit(t *testing.T) {
	sh := &fakeSheets{grid: gridWith(
		[]string{"1", "a.com", "aviator", "https://a.com", "", "", ""},
		[]string{"2", "b.com", "roleta", "https://b.com", "", "", ""},
	)}
	d := &fakeDocs{}
	opts := testOptions()
	opts.DryRun = true
	opts.Limit = 1
	w := newTestWorkflow(t, sh, &fakeGenerator{titles: []string{titleAviator, titleExplains}}, d, nil, opts)

	summary, err := w.Run(context.Background(), "sheet", "Links")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Processed != 1 || len(summary.Rows) != 1 {
		t.Errorf("summary = %+v", summary)
	}
	if len(d.docs) != 0 || len(sh.writes) != 0 {
		t.Errorf("dry run published %d docs and wrote %v", len(d.docs), sh.writes)
	}
	if summary.Rows[0].Article.Title != titleAviator {
		t.Errorf("title = %q", summary.Rows[0].Article.Title)
	}
}

func TestRunRewritesDuplicateBodies(t *testing.T) {
	sh := &fakeSheets{grid: gridWith(
		[]string{"1", "a.com", "aviator", "https://a.com", "", "", ""},
		[]string{"2", "b.com", "aviator", "https://b.com", "", "", ""},
	)}
	gen := &fakeGenerator{titles: []string{titleAviator, titleExplains}, body: repeatedBody}
	d := &fakeDocs{}
	opts := testOptions()
	opts.DedupThreshold = dedup.DefaultThreshold
	w := newTestWorkflow(t, sh, gen, d, nil, opts)

	summary, err := w.Run(context.Background(), "sheet", "Links")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Rewritten != 1 {
		t.Fatalf("Rewritten = %d, want 1", summary.Rewritten)
	}
	last := d.docs[len(d.docs)-1]
	if last.ExistingID != "doc-2" {
		t.Errorf("rewrite targeted %q, want doc-2", last.ExistingID)
	}
	if !strings.Contains(gen.prompts[len(gen.prompts)-1], "different angle") {
		t.Error("rewrite prompt should ask for a different angle")
	}
}

func TestRunReusesResolvedFolder(t *testing.T) {
	sh := &fakeSheets{grid: gridWith(
		[]string{"1", "a.com", "aviator", "https://a.com", titleAviator, "", ""},
		[]string{"2", "b.com", "aviator", "https://b.com", titleExplains, "", ""},
	)}
	d := &fakeDocs{resolvedFolder: "fallback-folder"}
	opts := testOptions()
	w := newTestWorkflow(t, sh, &fakeGenerator{}, d, nil, opts)

	if _, err := w.Run(context.Background(), "sheet", "Links"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(d.docs) != 2 {
		t.Fatalf("published %d docs, want 2", len(d.docs))
	}
	if d.docs[0].FolderID != "folder-1" {
		t.Errorf("first publish used %q, want folder-1", d.docs[0].FolderID)
	}
	if d.docs[1].FolderID != "fallback-folder" {
		t.Errorf("second publish used %q, want fallback-folder", d.docs[1].FolderID)
	}
	if w.opts.FolderID != "folder-1" {
		t.Errorf("options mutated: FolderID = %q", w.opts.FolderID)
	}
}

func TestRunRewriteKeepsRowLanguage(t *testing.T) {
	sh := &fakeSheets{grid: [][]string{
		{"ID", "Palavra Âncora", "URL Âncora", "Título", "URL do Documento", "Idioma"},
		{"1", "aviator", "https://a.com", titleAviator, "", "English"},
		{"2", "aviator", "https://b.com", titleExplains, "", "English"},
	}}
	gen := &fakeGenerator{body: repeatedBody}
	d := &fakeDocs{}
	opts := testOptions()
	opts.DedupThreshold = dedup.DefaultThreshold
	w := newTestWorkflow(t, sh, gen, d, nil, opts)

	summary, err := w.Run(context.Background(), "sheet", "Links")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Rewritten != 1 {
		t.Fatalf("Rewritten = %d, want 1", summary.Rewritten)
	}
	if got := summary.Articles()[0].Language; got != "English" {
		t.Errorf("article language = %q, want English", got)
	}
	last := gen.prompts[len(gen.prompts)-1]
	if !strings.Contains(last, "different angle") || !strings.Contains(last, "Write an SEO article in English") {
		t.Errorf("rewrite prompt lost the row language: %q", last)
	}
}

func TestRewriteSelectsLaterDuplicate(t *testing.T) {
	w := newTestWorkflow(t, &fakeSheets{}, &fakeGenerator{}, &fakeDocs{}, nil, testOptions())
	items := []dedup.Item{
		{Title: "Guia de apostas", Body: repeatedBody},
		{Title: "Guia de apostas online", Body: repeatedBody},
		{Title: "Receita de bolo", Body: "Farinha, ovos e açúcar misturados no forno quente."},
	}
	got := w.Rewrite(items)
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("Rewrite = %v, want [1]", got)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	sh := &fakeSheets{grid: gridWith([]string{"1", "a.com", "aviator", "https://a.com", "", "", ""})}
	w := newTestWorkflow(t, sh, &fakeGenerator{}, &fakeDocs{}, nil, testOptions())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := w.Run(ctx, "sheet", "Links"); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestNewRequiresCollaborators(t *testing.T) {
	if _, err := New(Deps{}, testOptions()); err == nil {
		t.Error("expected error without collaborators")
	}
}
