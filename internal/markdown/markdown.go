// Package markdown turns generated markdown bodies into HTML, plain text and
// flat block lists for the document writer.
package markdown

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"anchorwriter/internal/textnorm"
)

// BlockKind is the structural role of a block.
type BlockKind int

const (
	Paragraph BlockKind = iota
	Heading
	ListItem
)

// Block is one paragraph-level piece of a body.
type Block struct {
	Kind  BlockKind
	Level int // heading level, 1-6
	Text  string
}

// ToHTML converts markdown text to HTML using the common extensions.
func ToHTML(text string) []byte {
	if text == "" {
		return nil
	}
	mdParser := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML([]byte(text), mdParser, renderer)
}

// Blocks flattens markdown into headings, paragraphs and list items, in order.
func Blocks(text string) ([]Block, error) {
	htmlBytes := ToHTML(text)
	if len(htmlBytes) == 0 {
		return nil, nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(htmlBytes))
	if err != nil {
		return nil, err
	}

	var blocks []Block
	doc.Find("h1, h2, h3, h4, h5, h6, p, li").Each(func(_ int, s *goquery.Selection) {
		// Paragraphs inside list items are covered by the li.
		if goquery.NodeName(s) == "p" && s.ParentsFiltered("li").Length() > 0 {
			return
		}
		txt := textnorm.Collapse(s.Text())
		if txt == "" {
			return
		}
		switch name := goquery.NodeName(s); name {
		case "p":
			blocks = append(blocks, Block{Kind: Paragraph, Text: txt})
		case "li":
			blocks = append(blocks, Block{Kind: ListItem, Text: txt})
		default:
			blocks = append(blocks, Block{Kind: Heading, Level: int(name[1] - '0'), Text: txt})
		}
	})
	return blocks, nil
}

// PlainText strips markdown formatting, joining blocks with newlines.
// Unparseable input is returned collapsed.
func PlainText(text string) string {
	blocks, err := Blocks(text)
	if err != nil {
		return textnorm.Collapse(text)
	}
	parts := make([]string, len(blocks))
	for i, b := range blocks {
		parts[i] = b.Text
	}
	return strings.Join(parts, "\n")
}
