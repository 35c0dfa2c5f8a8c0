package journal

import (
	"context"
	"database/sql"
	"time"
)

// Schema for the processed_documents table. Applied by Store.Init.
const Schema = `
CREATE TABLE IF NOT EXISTS processed_documents (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	filename TEXT NOT NULL,
	format TEXT NOT NULL,
	size_bytes INTEGER NOT NULL,
	char_count INTEGER NOT NULL,
	word_count INTEGER NOT NULL,
	has_parties INTEGER NOT NULL DEFAULT 0,
	has_subject INTEGER NOT NULL DEFAULT 0,
	has_terms INTEGER NOT NULL DEFAULT 0,
	has_responsibilities INTEGER NOT NULL DEFAULT 0,
	has_signatures INTEGER NOT NULL DEFAULT 0,
	section_count INTEGER NOT NULL DEFAULT 0,
	duration_ms INTEGER NOT NULL,
	error TEXT NOT NULL DEFAULT '',
	processed_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_processed_documents_ts ON processed_documents(processed_at);
`

// Entry is one journal row.
type Entry struct {
	ID                  int64         `json:"id"`
	Filename            string        `json:"filename"`
	Format              string        `json:"format"`
	SizeBytes           int64         `json:"size_bytes"`
	CharCount           int           `json:"char_count"`
	WordCount           int           `json:"word_count"`
	HasParties          bool          `json:"has_parties"`
	HasSubject          bool          `json:"has_subject"`
	HasTerms            bool          `json:"has_terms"`
	HasResponsibilities bool          `json:"has_responsibilities"`
	HasSignatures       bool          `json:"has_signatures"`
	SectionCount        int           `json:"section_count"`
	Duration            time.Duration `json:"-"`
	Error               string        `json:"error,omitempty"`
	ProcessedAt         time.Time     `json:"processed_at"`
}

// Store wraps the journal database.
type Store struct {
	db *sql.DB
}

// NewStore creates a Store backed by the given database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Init creates the journal table if it doesn't exist.
func (s *Store) Init() error {
	_, err := s.db.Exec(Schema)
	return err
}

// Record inserts one journal entry.
func (s *Store) Record(ctx context.Context, e *Entry) error {
	if e.ProcessedAt.IsZero() {
		e.ProcessedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO processed_documents
			(filename, format, size_bytes, char_count, word_count,
			 has_parties, has_subject, has_terms, has_responsibilities, has_signatures,
			 section_count, duration_ms, error, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Filename, e.Format, e.SizeBytes, e.CharCount, e.WordCount,
		boolInt(e.HasParties), boolInt(e.HasSubject), boolInt(e.HasTerms),
		boolInt(e.HasResponsibilities), boolInt(e.HasSignatures),
		e.SectionCount, e.Duration.Milliseconds(), e.Error, e.ProcessedAt.UnixMilli())
	return err
}

// Recent returns the latest n entries, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]*Entry, error) {
	if n <= 0 {
		n = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, filename, format, size_bytes, char_count, word_count,
		       has_parties, has_subject, has_terms, has_responsibilities, has_signatures,
		       section_count, duration_ms, error, processed_at
		FROM processed_documents
		ORDER BY processed_at DESC, id DESC
		LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var e Entry
		var parties, subject, terms, resp, sign int
		var durationMs, processedAt int64
		if err := rows.Scan(&e.ID, &e.Filename, &e.Format, &e.SizeBytes, &e.CharCount, &e.WordCount,
			&parties, &subject, &terms, &resp, &sign,
			&e.SectionCount, &durationMs, &e.Error, &processedAt); err != nil {
			return nil, err
		}
		e.HasParties = parties != 0
		e.HasSubject = subject != 0
		e.HasTerms = terms != 0
		e.HasResponsibilities = resp != 0
		e.HasSignatures = sign != 0
		e.Duration = time.Duration(durationMs) * time.Millisecond
		e.ProcessedAt = time.UnixMilli(processedAt)
		entries = append(entries, &e)
	}
	if entries == nil {
		entries = []*Entry{}
	}
	return entries, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
