package workflow

import (
	"context"

	"anchorwriter/internal/core"
	"anchorwriter/internal/dedup"
	"anchorwriter/internal/docs"
	"anchorwriter/internal/llm"
)

// rewriteTemperatureBoost is added to the sampling temperature for rewrites.
const rewriteTemperatureBoost = 0.2

// Rewrite returns the indexes of items that read too much like another item
// and should be regenerated.
func (w *Workflow) Rewrite(items []dedup.Item) []int {
	threshold := w.opts.DedupThreshold
	if threshold <= 0 {
		threshold = dedup.DefaultThreshold
	}
	return dedup.SelectRewrites(dedup.FindSimilar(items, threshold))
}

// rewriteDuplicates regenerates the bodies of published articles from this
// run that duplicate each other, updating the existing documents in place.
// Failures are logged and leave the original document untouched.
func (w *Workflow) rewriteDuplicates(ctx context.Context, run *runState, summary *Summary) (int, error) {
	var published []*core.Article
	for _, r := range summary.Rows {
		if r.Outcome == core.RowProcessed && r.Article != nil && r.Article.DocumentID != "" {
			published = append(published, r.Article)
		}
	}
	if len(published) < 2 {
		return 0, nil
	}

	items := make([]dedup.Item, len(published))
	for i, a := range published {
		items[i] = dedup.Item{Title: a.Title, Body: a.Body}
	}

	rewritten := 0
	for _, i := range w.Rewrite(items) {
		if err := ctx.Err(); err != nil {
			return rewritten, err
		}
		a := published[i]
		log := w.log.With().Int("row", a.SheetRow).Str("document_id", a.DocumentID).Logger()

		params := w.opts.Sampling.WithTemperature(w.opts.Sampling.Temperature + rewriteTemperatureBoost)
		body, err := w.gen.Generate(ctx, llm.BodyPrompt(llm.BodyRequest{
			Title:      a.Title,
			AnchorWord: a.AnchorWord,
			Theme:      a.Theme,
			Language:   orDefault(a.Language, w.opts.Language),
			Words:      w.opts.BodyWords,
			Rewrite:    true,
		}), params)
		if err != nil {
			log.Warn().Err(err).Msg("rewrite generation failed")
			continue
		}
		body = llm.StripCodeFence(body)
		if body == "" {
			continue
		}

		_, err = w.docs.CreateOrUpdate(ctx, docs.Document{
			ExistingID: a.DocumentID,
			Title:      a.Title,
			Body:       body,
			AnchorWord: a.AnchorWord,
			AnchorURL:  a.AnchorURL,
			FolderID:   run.folderID,
		})
		if err != nil {
			log.Warn().Err(err).Msg("rewrite publish failed")
			continue
		}
		a.Body = body
		rewritten++
		log.Info().Msg("rewrote near-duplicate article")
	}
	return rewritten, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
