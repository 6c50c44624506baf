// Package docs publishes generated articles as documents.
package docs

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// ErrNotFound is returned when a referenced document or folder does not exist.
var ErrNotFound = errors.New("document not found")

// Document is an article ready to publish.
type Document struct {
	ExistingID string // rewrite this document instead of creating one
	Title      string
	Body       string // markdown
	AnchorWord string
	AnchorURL  string
	FolderID   string // overrides the store default when set
}

// Published describes where a document ended up. FolderID is the folder the
// store actually used, which may be a fallback.
type Published struct {
	ID       string
	URL      string
	FolderID string
}

// Store creates or rewrites documents.
type Store interface {
	CreateOrUpdate(ctx context.Context, doc Document) (Published, error)
}

var docURLPattern = regexp.MustCompile(`/document/d/([a-zA-Z0-9_-]+)`)

// DocumentURL returns the edit URL for a Google Docs id.
func DocumentURL(id string) string {
	return fmt.Sprintf("https://docs.google.com/document/d/%s/edit", id)
}

// IDFromURL extracts the document id from a Google Docs URL.
func IDFromURL(u string) (string, bool) {
	m := docURLPattern.FindStringSubmatch(u)
	if m == nil {
		return "", false
	}
	return m[1], true
}
