package docs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStore writes documents as markdown files under Dir. It backs offline
// runs against an .xlsx workbook.
type LocalStore struct {
	Dir string
}

// NewLocalStore creates dir if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &LocalStore{Dir: dir}, nil
}

// CreateOrUpdate writes doc to <Dir>/<FolderID>/<id>.md. ExistingID is
// reused when set.
func (s *LocalStore) CreateOrUpdate(_ context.Context, doc Document) (Published, error) {
	id := doc.ExistingID
	if id == "" {
		id = uuid.NewString()
	}
	dir := s.Dir
	if doc.FolderID != "" {
		dir = filepath.Join(dir, filepath.Base(doc.FolderID))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Published{}, fmt.Errorf("failed to create folder: %w", err)
		}
	}

	var sb strings.Builder
	if doc.Title != "" {
		fmt.Fprintf(&sb, "# %s\n\n", doc.Title)
	}
	sb.WriteString(linkAnchor(doc.Body, doc.AnchorWord, doc.AnchorURL))
	sb.WriteString("\n")

	path := filepath.Join(dir, id+".md")
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return Published{}, fmt.Errorf("failed to write %s: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return Published{ID: id, URL: "file://" + filepath.ToSlash(abs), FolderID: doc.FolderID}, nil
}

// linkAnchor turns the first whole-word occurrence of word into a markdown link.
func linkAnchor(body, word, url string) string {
	if word == "" || url == "" {
		return body
	}
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		start, end, ok := findWord(line, word)
		if !ok {
			continue
		}
		// findWord reports UTF-16 offsets; convert back through runes.
		r := []rune(line)
		rs, re := utf16ToRune(r, start), utf16ToRune(r, end)
		lines[i] = string(r[:rs]) + "[" + string(r[rs:re]) + "](" + url + ")" + string(r[re:])
		return strings.Join(lines, "\n")
	}
	return body
}

func utf16ToRune(r []rune, units int64) int {
	var n int64
	for i, c := range r {
		if n >= units {
			return i
		}
		n += utf16Len(string(c))
	}
	return len(r)
}
