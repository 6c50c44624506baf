// Package titles cleans and gates machine-generated article titles and
// measures how alike two titles are.
package titles

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"anchorwriter/internal/textnorm"
)

// Reason explains why a title was rejected.
type Reason string

const (
	ReasonNone               Reason = ""
	ReasonEmpty              Reason = "empty"
	ReasonEmptyAfterPrefix   Reason = "empty after prefix strip"
	ReasonContinuation       Reason = "starts with continuation phrase"
	ReasonDanglingSemicolon  Reason = "ends with semicolon"
	ReasonDanglingWord       Reason = "ends with dangling word"
	ReasonEmptyAfterEllipsis Reason = "empty after ellipsis strip"
	ReasonWordCount          Reason = "word count out of range"
)

// Result is the outcome of Validate. Title holds the cleaned text even when
// rejected, for diagnostics.
type Result struct {
	Accepted      bool
	Title         string
	Reason        Reason
	Words         int
	HasAnchorWord bool
}

// Options tunes the validator. Phrase and word lists are compared folded.
type Options struct {
	MinWords            int
	MaxWords            int
	MaxChars            int
	BodyTextChars       int // longer input is treated as body text
	BodyTruncateWords   int // words kept from body text
	ContinuationPhrases []string
	DanglingWords       []string
}

// DefaultOptions returns the production limits.
func DefaultOptions() Options {
	return Options{
		MinWords:            9,
		MaxWords:            15,
		MaxChars:            100,
		BodyTextChars:       250,
		BodyTruncateWords:   10,
		ContinuationPhrases: defaultContinuationPhrases,
		DanglingWords:       defaultDanglingWords,
	}
}

// Validator is safe for concurrent use.
type Validator struct {
	opts         Options
	labelPrefix  *regexp.Regexp
	continuation []string
	dangling     map[string]bool
}

// NewValidator builds a Validator from opts.
func NewValidator(opts Options) *Validator {
	v := &Validator{
		opts:        opts,
		labelPrefix: labelPrefixPattern(),
		dangling:    make(map[string]bool, len(opts.DanglingWords)),
	}
	for _, p := range opts.ContinuationPhrases {
		v.continuation = append(v.continuation, textnorm.Fold(p))
	}
	for _, w := range opts.DanglingWords {
		v.dangling[textnorm.Fold(w)] = true
	}
	return v
}

// NewDefaultValidator returns a Validator with DefaultOptions.
func NewDefaultValidator() *Validator {
	return NewValidator(DefaultOptions())
}

func labelPrefixPattern() *regexp.Regexp {
	alts := make([]string, len(labelPrefixes))
	for i, p := range labelPrefixes {
		alts[i] = regexp.QuoteMeta(p)
	}
	return regexp.MustCompile(`(?i)^[#>\s]*(?:` + strings.Join(alts, "|") + `)(?:\s*:\s*|\s+|$)`)
}

// Validate cleans raw and decides whether it is an acceptable title.
// existingDocTitle skips the word-count gate for titles taken from
// documents that already exist.
//
// Stages run in order and any of them may end the pipeline with a rejection.
func (v *Validator) Validate(raw, anchorWord string, existingDocTitle bool) Result {
	reject := func(title string, reason Reason) Result {
		return Result{Title: title, Reason: reason, Words: len(strings.Fields(title))}
	}

	title := textnorm.Collapse(raw)
	if title == "" {
		return reject("", ReasonEmpty)
	}

	title = strings.ReplaceAll(title, "*", "")

	title = strings.TrimSpace(v.labelPrefix.ReplaceAllString(title, ""))
	if title == "" {
		return reject("", ReasonEmptyAfterPrefix)
	}

	title = strings.TrimRight(title, "*# ")
	title = strings.TrimLeft(title, "*#>-–: ")
	title = trimQuotes(title)
	if title == "" {
		return reject("", ReasonEmptyAfterPrefix)
	}

	folded := textnorm.Fold(title)
	words := strings.Fields(folded)
	if len(words) == 0 {
		return reject(title, ReasonEmpty)
	}
	for _, phrase := range v.continuation {
		if strings.HasPrefix(folded, phrase) {
			return reject(title, ReasonContinuation)
		}
	}

	if strings.HasSuffix(title, ";") {
		return reject(title, ReasonDanglingSemicolon)
	}
	if last := strings.TrimRight(words[len(words)-1], ",:"); v.dangling[last] {
		return reject(title, ReasonDanglingWord)
	}

	if utf8.RuneCountInString(title) > v.opts.BodyTextChars {
		fields := strings.Fields(title)
		title = strings.Join(fields[:min(len(fields), v.opts.BodyTruncateWords)], " ") + "..."
	}

	if trimmed, ok := trimEllipsis(title); ok {
		title = trimmed
		if title == "" {
			return reject("", ReasonEmptyAfterEllipsis)
		}
	}

	if utf8.RuneCountInString(title) > v.opts.MaxChars {
		title = truncateAtWord(title, v.opts.MaxChars)
	}

	n := len(strings.Fields(title))
	if !existingDocTitle && (n < v.opts.MinWords || n > v.opts.MaxWords) {
		return reject(title, ReasonWordCount)
	}

	return Result{
		Accepted:      true,
		Title:         title,
		Words:         n,
		HasAnchorWord: anchorWord != "" && strings.Contains(textnorm.Fold(title), textnorm.Fold(anchorWord)),
	}
}

func trimEllipsis(s string) (string, bool) {
	switch {
	case strings.HasSuffix(s, "..."):
		return strings.TrimSpace(strings.TrimRight(s, ".")), true
	case strings.HasSuffix(s, "…"):
		return strings.TrimSpace(strings.TrimSuffix(s, "…")), true
	}
	return s, false
}

// truncateAtWord cuts s to at most limit runes at the last space. A single
// word longer than limit is cut hard.
func truncateAtWord(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	cut := string(runes[:limit])
	if len(runes) > limit && runes[limit] == ' ' {
		return strings.TrimSpace(cut)
	}
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(strings.TrimSpace(cut), ",;:-")
}

func trimQuotes(s string) string {
	return strings.TrimSpace(strings.Trim(s, `"'“”‘’«»`))
}
