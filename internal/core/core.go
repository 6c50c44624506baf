package core

import "time"

// Field is a semantic column role, independent of the literal header text.
type Field string

const (
	FieldID          Field = "id"
	FieldSite        Field = "site"
	FieldAnchorWord  Field = "anchor_word"
	FieldAnchorURL   Field = "anchor_url"
	FieldTitle       Field = "title"
	FieldDocumentURL Field = "document_url"
	FieldTheme       Field = "theme"
	FieldLanguage    Field = "language"
	FieldStatus      Field = "status"
	FieldWordCount   Field = "word_count"
)

// FieldBinding ties a semantic field to a physical column.
type FieldBinding struct {
	Name  string `json:"name"`  // Deduplicated column name
	Index int    `json:"index"` // 0-based column position
}

// Article is one generated piece of content for a spreadsheet row.
type Article struct {
	ID           string    `json:"id"`            // Unique identifier for the article
	SheetRow     int       `json:"sheet_row"`     // 1-based row in the source sheet
	AnchorWord   string    `json:"anchor_word"`   // Keyword that carries the outbound link
	AnchorURL    string    `json:"anchor_url"`    // Link target for the anchor word
	Theme        string    `json:"theme"`         // Topical theme of the row
	Language     string    `json:"language"`      // Language the article was written in
	Title        string    `json:"title"`         // Accepted title
	Body         string    `json:"body"`          // Markdown body
	DocumentID   string    `json:"document_id"`   // Document store id once published
	DocumentURL  string    `json:"document_url"`  // Document store URL once published
	ModelUsed    string    `json:"model_used"`    // LLM model used for generation
	DateCreated  time.Time `json:"date_created"`  // Timestamp when the article was generated
	TitleRetries int       `json:"title_retries"` // Generation attempts spent on the title
	UsedFallback bool      `json:"used_fallback"` // Title was constructed, not generated
}

// GenerationResult is the outcome of producing a title and body.
type GenerationResult struct {
	Title        string `json:"title"`
	Body         string `json:"body"`
	Attempts     int    `json:"attempts"`
	UsedFallback bool   `json:"used_fallback"`
}

// RowOutcome classifies what happened to one sheet row during a run.
type RowOutcome string

const (
	RowProcessed RowOutcome = "processed"
	RowSkipped   RowOutcome = "skipped"
	RowFailed    RowOutcome = "failed"
)
