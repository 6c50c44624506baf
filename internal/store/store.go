package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"anchorwriter/internal/core"
)

// ErrNotFound is returned when no row matches.
var ErrNotFound = errors.New("not found")

// TitleFeedback is an accepted title with the scores it earned.
type TitleFeedback struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	AnchorWord       string    `json:"anchor_word"`
	Theme            string    `json:"theme"`
	StructurePattern string    `json:"structure_pattern"`
	PerformanceScore float64   `json:"performance_score"` // measured, e.g. click-through
	FeedbackScore    float64   `json:"feedback_score"`    // editorial rating
	CreatedAt        time.Time `json:"created_at"`
}

// PatternStat aggregates feedback for one structure pattern.
type PatternStat struct {
	Pattern        string  `json:"pattern"`
	Count          int     `json:"count"`
	AvgPerformance float64 `json:"avg_performance"`
	AvgFeedback    float64 `json:"avg_feedback"`
}

// Stats summarizes the store contents.
type Stats struct {
	FeedbackCount  int            `json:"feedback_count"`
	ScoredCount    int            `json:"scored_count"`
	ArticleCount   int            `json:"article_count"`
	FallbackCount  int            `json:"fallback_count"`
	AvgPerformance float64        `json:"avg_performance"`
	AvgFeedback    float64        `json:"avg_feedback"`
	ByTheme        map[string]int `json:"by_theme"`
}

// Store is the SQLite feedback and generation log.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) anchorwriter.db under dataDir.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "anchorwriter.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{
		db:   db,
		path: dbPath,
	}

	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

func (s *Store) initialize() error {
	feedbackTable := `
	CREATE TABLE IF NOT EXISTS title_feedback (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		anchor_word TEXT,
		theme TEXT,
		structure_pattern TEXT,
		performance_score REAL DEFAULT 0,
		feedback_score REAL DEFAULT 0,
		created_at DATETIME
	);`

	articlesTable := `
	CREATE TABLE IF NOT EXISTS articles (
		id TEXT PRIMARY KEY,
		sheet_id TEXT,
		tab TEXT,
		sheet_row INTEGER,
		anchor_word TEXT,
		title TEXT,
		document_id TEXT,
		document_url TEXT,
		model_used TEXT,
		title_retries INTEGER,
		used_fallback INTEGER,
		date_created DATETIME
	);`

	indexes := `
	CREATE INDEX IF NOT EXISTS idx_feedback_theme ON title_feedback (theme);
	CREATE INDEX IF NOT EXISTS idx_articles_created ON articles (date_created);`

	for _, stmt := range []string{feedbackTable, articlesTable, indexes} {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores fb, assigning an id and timestamp when missing, and returns the id.
func (s *Store) Record(fb TitleFeedback) (string, error) {
	if fb.ID == "" {
		fb.ID = uuid.NewString()
	}
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now().UTC()
	}

	query := `
	INSERT OR REPLACE INTO title_feedback
	(id, title, anchor_word, theme, structure_pattern, performance_score, feedback_score, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.Exec(query, fb.ID, fb.Title, fb.AnchorWord, fb.Theme, fb.StructurePattern,
		fb.PerformanceScore, fb.FeedbackScore, fb.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("failed to record feedback: %w", err)
	}
	return fb.ID, nil
}

const feedbackColumns = `id, title, anchor_word, theme, structure_pattern, performance_score, feedback_score, created_at`

func scanFeedback(row interface{ Scan(...any) error }) (*TitleFeedback, error) {
	var fb TitleFeedback
	err := row.Scan(&fb.ID, &fb.Title, &fb.AnchorWord, &fb.Theme, &fb.StructurePattern,
		&fb.PerformanceScore, &fb.FeedbackScore, &fb.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &fb, nil
}

// Get returns the feedback entry with id.
func (s *Store) Get(id string) (*TitleFeedback, error) {
	row := s.db.QueryRow(`SELECT `+feedbackColumns+` FROM title_feedback WHERE id = ?`, id)
	return scanFeedback(row)
}

// FindByTitle returns the newest entry whose title matches, ignoring case.
func (s *Store) FindByTitle(title string) (*TitleFeedback, error) {
	row := s.db.QueryRow(`SELECT `+feedbackColumns+` FROM title_feedback
	WHERE lower(title) = lower(?) ORDER BY created_at DESC LIMIT 1`, strings.TrimSpace(title))
	return scanFeedback(row)
}

// UpdateScores sets both scores of entry id.
func (s *Store) UpdateScores(id string, performance, feedback float64) error {
	res, err := s.db.Exec(`UPDATE title_feedback SET performance_score = ?, feedback_score = ? WHERE id = ?`,
		performance, feedback, id)
	if err != nil {
		return fmt.Errorf("failed to update scores: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: feedback %s", ErrNotFound, id)
	}
	return nil
}

// TopPatterns ranks structure patterns by combined average score, then by
// use count. An empty theme ranks across all themes.
func (s *Store) TopPatterns(theme string, limit int) ([]PatternStat, error) {
	if limit <= 0 {
		limit = 3
	}
	query := `
	SELECT structure_pattern, COUNT(*), AVG(performance_score), AVG(feedback_score)
	FROM title_feedback
	WHERE structure_pattern != '' AND (? = '' OR theme = ?)
	GROUP BY structure_pattern
	ORDER BY AVG(performance_score) + AVG(feedback_score) DESC, COUNT(*) DESC, structure_pattern ASC
	LIMIT ?`

	rows, err := s.db.Query(query, theme, theme, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query patterns: %w", err)
	}
	defer rows.Close()

	var stats []PatternStat
	for rows.Next() {
		var ps PatternStat
		if err := rows.Scan(&ps.Pattern, &ps.Count, &ps.AvgPerformance, &ps.AvgFeedback); err != nil {
			return nil, err
		}
		stats = append(stats, ps)
	}
	return stats, rows.Err()
}

// RecordArticle logs a generated article for a sheet row.
func (s *Store) RecordArticle(article core.Article, sheetID, tab string) error {
	if article.ID == "" {
		article.ID = uuid.NewString()
	}
	if article.DateCreated.IsZero() {
		article.DateCreated = time.Now().UTC()
	}

	query := `
	INSERT OR REPLACE INTO articles
	(id, sheet_id, tab, sheet_row, anchor_word, title, document_id, document_url, model_used, title_retries, used_fallback, date_created)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.Exec(query, article.ID, sheetID, tab, article.SheetRow, article.AnchorWord, article.Title,
		article.DocumentID, article.DocumentURL, article.ModelUsed, article.TitleRetries,
		article.UsedFallback, article.DateCreated)
	if err != nil {
		return fmt.Errorf("failed to record article: %w", err)
	}
	return nil
}

// RecentTitles returns up to limit article titles, newest first.
func (s *Store) RecentTitles(limit int) ([]string, error) {
	rows, err := s.db.Query(`SELECT title FROM articles WHERE title != '' ORDER BY date_created DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query titles: %w", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		titles = append(titles, t)
	}
	return titles, rows.Err()
}

// Stats summarizes feedback and article counts.
func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{ByTheme: make(map[string]int)}

	err := s.db.QueryRow(`
	SELECT COUNT(*),
		COALESCE(SUM(CASE WHEN performance_score != 0 OR feedback_score != 0 THEN 1 ELSE 0 END), 0),
		COALESCE(AVG(performance_score), 0), COALESCE(AVG(feedback_score), 0)
	FROM title_feedback`).Scan(&stats.FeedbackCount, &stats.ScoredCount, &stats.AvgPerformance, &stats.AvgFeedback)
	if err != nil {
		return nil, fmt.Errorf("failed to read feedback stats: %w", err)
	}

	err = s.db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(used_fallback), 0) FROM articles`).
		Scan(&stats.ArticleCount, &stats.FallbackCount)
	if err != nil {
		return nil, fmt.Errorf("failed to read article stats: %w", err)
	}

	rows, err := s.db.Query(`SELECT COALESCE(theme, ''), COUNT(*) FROM title_feedback GROUP BY theme`)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var theme string
		var n int
		if err := rows.Scan(&theme, &n); err != nil {
			return nil, err
		}
		stats.ByTheme[theme] = n
	}
	return stats, rows.Err()
}

// Prune deletes articles and unscored feedback older than maxAge.
func (s *Store) Prune(maxAge time.Duration) error {
	cutoff := time.Now().UTC().Add(-maxAge)

	if _, err := s.db.Exec(`DELETE FROM articles WHERE date_created < ?`, cutoff); err != nil {
		return fmt.Errorf("failed to prune articles: %w", err)
	}
	_, err := s.db.Exec(`DELETE FROM title_feedback
	WHERE created_at < ? AND performance_score = 0 AND feedback_score = 0`, cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune feedback: %w", err)
	}
	return nil
}
