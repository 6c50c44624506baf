package docs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	gdocs "google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"anchorwriter/internal/logger"
)

const folderMimeType = "application/vnd.google-apps.folder"

// DefaultFallbackFolder is the Drive folder created when the configured one
// is unavailable.
const DefaultFallbackFolder = "anchorwriter articles"

// GoogleDocs is a Store backed by Google Docs and Drive.
type GoogleDocs struct {
	docs           *gdocs.Service
	drive          *drive.Service
	defaultFolder  string
	fallbackFolder string
	log            zerolog.Logger
}

// NewGoogleDocs creates the Docs and Drive services. defaultFolder may be
// empty, in which case documents stay in the caller's Drive root.
func NewGoogleDocs(ctx context.Context, defaultFolder, fallbackFolder string, opts ...option.ClientOption) (*GoogleDocs, error) {
	docsSvc, err := gdocs.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create docs service: %w", err)
	}
	driveSvc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	if fallbackFolder == "" {
		fallbackFolder = DefaultFallbackFolder
	}
	return &GoogleDocs{
		docs:           docsSvc,
		drive:          driveSvc,
		defaultFolder:  defaultFolder,
		fallbackFolder: fallbackFolder,
		log:            logger.Component("docs"),
	}, nil
}

// CreateOrUpdate writes doc into a new document, or replaces the content of
// doc.ExistingID, then files it into the target folder.
func (g *GoogleDocs) CreateOrUpdate(ctx context.Context, doc Document) (Published, error) {
	requests, err := BuildRequests(doc.Title, doc.Body, doc.AnchorWord, doc.AnchorURL)
	if err != nil {
		return Published{}, fmt.Errorf("failed to lay out document: %w", err)
	}

	id := doc.ExistingID
	if id != "" {
		if err := g.clear(ctx, id, doc.Title); err != nil {
			return Published{}, err
		}
	} else {
		created, err := g.docs.Documents.Create(&gdocs.Document{Title: doc.Title}).Context(ctx).Do()
		if err != nil {
			return Published{}, fmt.Errorf("failed to create document: %w", err)
		}
		id = created.DocumentId
	}

	if len(requests) > 0 {
		_, err := g.docs.Documents.BatchUpdate(id, &gdocs.BatchUpdateDocumentRequest{Requests: requests}).Context(ctx).Do()
		if err != nil {
			return Published{}, fmt.Errorf("failed to write document %s: %w", id, err)
		}
	}

	folder := doc.FolderID
	if folder == "" {
		folder = g.defaultFolder
	}
	folder, err = g.resolveFolder(ctx, folder)
	if err != nil {
		g.log.Warn().Err(err).Str("document_id", id).Msg("no usable folder, leaving document in place")
		folder = ""
	}
	if folder != "" {
		if err := g.moveToFolder(ctx, id, folder); err != nil {
			g.log.Warn().Err(err).Str("document_id", id).Str("folder_id", folder).Msg("failed to move document")
		}
	}

	return Published{ID: id, URL: DocumentURL(id), FolderID: folder}, nil
}

// clear deletes the body of an existing document and renames it.
func (g *GoogleDocs) clear(ctx context.Context, id, title string) error {
	existing, err := g.docs.Documents.Get(id).Context(ctx).Do()
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("failed to read document %s: %w", id, err)
	}

	var end int64
	if existing.Body != nil && len(existing.Body.Content) > 0 {
		end = existing.Body.Content[len(existing.Body.Content)-1].EndIndex
	}
	// The final newline of a document cannot be deleted.
	if end > 2 {
		req := &gdocs.BatchUpdateDocumentRequest{Requests: []*gdocs.Request{{
			DeleteContentRange: &gdocs.DeleteContentRangeRequest{
				Range: &gdocs.Range{StartIndex: 1, EndIndex: end - 1},
			},
		}}}
		if _, err := g.docs.Documents.BatchUpdate(id, req).Context(ctx).Do(); err != nil {
			return fmt.Errorf("failed to clear document %s: %w", id, err)
		}
	}

	if title != "" && title != existing.Title {
		_, err := g.drive.Files.Update(id, &drive.File{Name: title}).SupportsAllDrives(true).Context(ctx).Do()
		if err != nil {
			g.log.Warn().Err(err).Str("document_id", id).Msg("failed to rename document")
		}
	}
	return nil
}

// resolveFolder returns folderID when it is a live folder, otherwise the id of
// the fallback folder, creating it if needed. An empty folderID stays empty.
func (g *GoogleDocs) resolveFolder(ctx context.Context, folderID string) (string, error) {
	if folderID == "" {
		return "", nil
	}
	f, err := g.drive.Files.Get(folderID).Fields("id", "mimeType", "trashed").SupportsAllDrives(true).Context(ctx).Do()
	if err == nil && f.MimeType == folderMimeType && !f.Trashed {
		return f.Id, nil
	}
	g.log.Warn().Err(err).Str("folder_id", folderID).Str("fallback", g.fallbackFolder).Msg("folder unavailable, using fallback")
	return g.findOrCreateFolder(ctx, g.fallbackFolder)
}

func (g *GoogleDocs) findOrCreateFolder(ctx context.Context, name string) (string, error) {
	q := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false", escapeQuery(name), folderMimeType)
	list, err := g.drive.Files.List().Q(q).Fields("files(id)").PageSize(1).
		SupportsAllDrives(true).IncludeItemsFromAllDrives(true).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to search for folder %q: %w", name, err)
	}
	if len(list.Files) > 0 {
		return list.Files[0].Id, nil
	}

	created, err := g.drive.Files.Create(&drive.File{Name: name, MimeType: folderMimeType}).
		Fields("id").SupportsAllDrives(true).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create folder %q: %w", name, err)
	}
	g.log.Info().Str("folder_id", created.Id).Str("name", name).Msg("created fallback folder")
	return created.Id, nil
}

func (g *GoogleDocs) moveToFolder(ctx context.Context, fileID, folderID string) error {
	f, err := g.drive.Files.Get(fileID).Fields("parents").SupportsAllDrives(true).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read parents: %w", err)
	}
	if slices.Contains(f.Parents, folderID) {
		return nil
	}
	_, err = g.drive.Files.Update(fileID, &drive.File{}).
		AddParents(folderID).
		RemoveParents(strings.Join(f.Parents, ",")).
		SupportsAllDrives(true).Context(ctx).Do()
	return err
}

func escapeQuery(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}

func isNotFound(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusNotFound
}
