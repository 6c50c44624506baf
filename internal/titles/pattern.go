package titles

import (
	"strings"
	"unicode"

	"anchorwriter/internal/textnorm"
)

// Structure patterns recorded with title feedback.
const (
	PatternQuestion   = "question"
	PatternHowTo      = "how-to"
	PatternList       = "list"
	PatternComparison = "comparison"
	PatternGuide      = "guide"
	PatternStatement  = "statement"
)

var questionOpeners = []string{"por que", "o que", "qual", "quais", "quando", "onde", "vale a pena", "why", "what", "which"}

// StructurePattern classifies the shape of a title.
func StructurePattern(title string) string {
	folded := textnorm.Fold(title)
	words := textnorm.Words(title)
	if len(words) == 0 {
		return PatternStatement
	}

	if strings.HasSuffix(strings.TrimSpace(title), "?") {
		return PatternQuestion
	}
	for _, q := range questionOpeners {
		if strings.HasPrefix(folded+" ", q+" ") {
			return PatternQuestion
		}
	}
	if words[0] == "como" || strings.HasPrefix(folded, "how to") {
		return PatternHowTo
	}
	if isNumber(words[0]) {
		return PatternList
	}
	for _, w := range words {
		switch w {
		case "vs", "versus", "comparacao", "comparativo", "comparison":
			return PatternComparison
		}
	}
	for _, w := range words {
		switch w {
		case "guia", "tutorial", "guide", "passo":
			return PatternGuide
		}
	}
	return PatternStatement
}

func isNumber(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
