package llm

import (
	"fmt"
	"strings"
)

// DefaultLanguage is the output language when a row does not name one.
const DefaultLanguage = "português do Brasil"

// TitlePromptTemplate asks for a single SEO title around an anchor word.
const TitlePromptTemplate = `Write ONE SEO article title in %s.

REQUIREMENTS:
- Between 9 and 15 words, at most 100 characters
- Must contain the keyword "%s"
- Theme: %s
- Do not start with "Título:", "Title:" or any label
- Do not end with a preposition, article or conjunction
- No quotes, no markdown, no explanations
%s%s
Reply with the title only.`

// BodyPromptTemplate asks for a markdown article body.
const BodyPromptTemplate = `Write an SEO article in %s with the title below.

Title: %s

REQUIREMENTS:
- Around %d words, in markdown
- Use "## " subheadings for each section, never repeat the title as a heading
- Mention the keyword "%s" naturally at least twice, once in the first paragraph
- Theme: %s
- Informative, responsible tone; no invented statistics
- Do not include links, the keyword will be linked later
%s
Reply with the article body only.`

// TitleRequest carries the inputs for a title prompt.
type TitleRequest struct {
	AnchorWord        string
	Theme             string
	Language          string
	Avoid             []string // recent titles the new one must differ from
	PreferredPatterns []string // structure patterns that performed well
}

// TitlePrompt renders the prompt for req.
func TitlePrompt(req TitleRequest) string {
	var avoid, patterns string
	if len(req.Avoid) > 0 {
		var sb strings.Builder
		sb.WriteString("- Must be clearly different from these existing titles:\n")
		for _, t := range req.Avoid {
			fmt.Fprintf(&sb, "  * %s\n", t)
		}
		avoid = sb.String()
	}
	if len(req.PreferredPatterns) > 0 {
		patterns = fmt.Sprintf("- Prefer these structures, which performed well: %s\n",
			strings.Join(req.PreferredPatterns, ", "))
	}
	return fmt.Sprintf(TitlePromptTemplate,
		orDefault(req.Language, DefaultLanguage), req.AnchorWord,
		orDefault(req.Theme, "general"), avoid, patterns)
}

// BodyRequest carries the inputs for a body prompt.
type BodyRequest struct {
	Title      string
	AnchorWord string
	Theme      string
	Language   string
	Words      int
	Rewrite    bool // an earlier version read too much like another article
}

// BodyPrompt renders the prompt for req.
func BodyPrompt(req BodyRequest) string {
	words := req.Words
	if words <= 0 {
		words = 800
	}
	var rewrite string
	if req.Rewrite {
		rewrite = "- Take a clearly different angle, structure and examples from other articles on this keyword\n"
	}
	return fmt.Sprintf(BodyPromptTemplate,
		orDefault(req.Language, DefaultLanguage), req.Title, words,
		req.AnchorWord, orDefault(req.Theme, "general"), rewrite)
}

// FirstLine returns the first non-empty line of a model response.
func FirstLine(s string) string {
	for _, line := range strings.Split(StripCodeFence(s), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// StripCodeFence removes a surrounding ``` block if the model added one.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = ""
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
