package docs

import (
	"strings"
	"unicode"
	"unicode/utf16"

	gdocs "google.golang.org/api/docs/v1"

	"anchorwriter/internal/markdown"
)

const bulletPreset = "BULLET_DISC_CIRCLE_SQUARE"

// paragraph is a laid-out line of the document, in UTF-16 units from the
// start of the inserted text.
type paragraph struct {
	block markdown.Block
	start int64
	end   int64 // exclusive, includes the trailing newline
}

// BuildRequests converts a title and markdown body into Docs batch requests
// that insert the text at the start of an empty document, style headings and
// list items, and link the first occurrence of anchorWord in the body.
//
// Docs indexes count UTF-16 code units and the body starts at index 1.
func BuildRequests(title, body, anchorWord, anchorURL string) ([]*gdocs.Request, error) {
	blocks, err := markdown.Blocks(body)
	if err != nil {
		return nil, err
	}
	if title != "" {
		blocks = append([]markdown.Block{{Kind: markdown.Heading, Level: 1, Text: title}}, blocks...)
	}
	if len(blocks) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	paras := make([]paragraph, 0, len(blocks))
	var offset int64
	for _, b := range blocks {
		line := b.Text + "\n"
		sb.WriteString(line)
		n := utf16Len(line)
		paras = append(paras, paragraph{block: b, start: offset, end: offset + n})
		offset += n
	}

	requests := []*gdocs.Request{{
		InsertText: &gdocs.InsertTextRequest{
			Location: &gdocs.Location{Index: 1},
			Text:     sb.String(),
		},
	}}

	for _, p := range paras {
		rng := &gdocs.Range{StartIndex: 1 + p.start, EndIndex: 1 + p.end}
		switch p.block.Kind {
		case markdown.Heading:
			requests = append(requests, &gdocs.Request{
				UpdateParagraphStyle: &gdocs.UpdateParagraphStyleRequest{
					Range:          rng,
					ParagraphStyle: &gdocs.ParagraphStyle{NamedStyleType: headingStyle(p.block.Level)},
					Fields:         "namedStyleType",
				},
			})
		case markdown.ListItem:
			requests = append(requests, &gdocs.Request{
				CreateParagraphBullets: &gdocs.CreateParagraphBulletsRequest{
					Range:        rng,
					BulletPreset: bulletPreset,
				},
			})
		}
	}

	if anchorWord != "" && anchorURL != "" {
		if start, end, ok := locateAnchor(paras, title != "", anchorWord); ok {
			requests = append(requests, &gdocs.Request{
				UpdateTextStyle: &gdocs.UpdateTextStyleRequest{
					Range:     &gdocs.Range{StartIndex: 1 + start, EndIndex: 1 + end},
					TextStyle: &gdocs.TextStyle{Link: &gdocs.Link{Url: anchorURL}},
					Fields:    "link",
				},
			})
		}
	}
	return requests, nil
}

// headingStyle maps markdown heading levels to Docs named styles. Level 1 is
// reserved for the document title.
func headingStyle(level int) string {
	switch {
	case level <= 1:
		return "HEADING_1"
	case level == 2:
		return "HEADING_2"
	case level == 3:
		return "HEADING_3"
	default:
		return "HEADING_4"
	}
}

// locateAnchor finds the first whole-word, case-insensitive occurrence of word
// in the body paragraphs, preferring plain paragraphs over headings.
func locateAnchor(paras []paragraph, skipFirst bool, word string) (int64, int64, bool) {
	if skipFirst && len(paras) > 0 {
		paras = paras[1:]
	}
	for _, pass := range []func(markdown.Block) bool{
		func(b markdown.Block) bool { return b.Kind != markdown.Heading },
		func(b markdown.Block) bool { return b.Kind == markdown.Heading },
	} {
		for _, p := range paras {
			if !pass(p.block) {
				continue
			}
			if s, e, ok := findWord(p.block.Text, word); ok {
				return p.start + s, p.start + e, true
			}
		}
	}
	return 0, 0, false
}

// findWord returns the UTF-16 span of word inside text.
func findWord(text, word string) (int64, int64, bool) {
	hay := []rune(text)
	needle := []rune(strings.TrimSpace(word))
	if len(needle) == 0 || len(needle) > len(hay) {
		return 0, 0, false
	}
	for i := 0; i+len(needle) <= len(hay); i++ {
		if !runesEqualFold(hay[i:i+len(needle)], needle) {
			continue
		}
		if i > 0 && isWordRune(hay[i-1]) {
			continue
		}
		if j := i + len(needle); j < len(hay) && isWordRune(hay[j]) {
			continue
		}
		start := utf16Len(string(hay[:i]))
		return start, start + utf16Len(string(hay[i:i+len(needle)])), true
	}
	return 0, 0, false
}

func runesEqualFold(a, b []rune) bool {
	for i := range a {
		if unicode.ToLower(a[i]) != unicode.ToLower(b[i]) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func utf16Len(s string) int64 {
	var n int64
	for _, r := range s {
		n += int64(len(utf16.Encode([]rune{r})))
	}
	return n
}
