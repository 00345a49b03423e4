// Package store persists the topic → subtopic → summary hierarchy in SQLite.
//
// Identifier resolution uses the upsert-then-read pattern: insert-if-absent
// followed by a point lookup on the unique key. The two statements are not
// atomic across processes, so ingestion requires single-writer discipline:
// two concurrent ingesters racing on the same name can read back mismatched
// identifiers.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS topics (
	topic_id   INTEGER PRIMARY KEY AUTOINCREMENT,
	topic_name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS subtopics (
	subtopic_id   INTEGER PRIMARY KEY AUTOINCREMENT,
	topic_id      INTEGER NOT NULL REFERENCES topics(topic_id),
	subtopic_name TEXT NOT NULL,
	UNIQUE(topic_id, subtopic_name)
);

CREATE TABLE IF NOT EXISTS subtopic_summary (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	topic_id        INTEGER NOT NULL REFERENCES topics(topic_id),
	subtopic_id     INTEGER NOT NULL REFERENCES subtopics(subtopic_id),
	summary_content TEXT NOT NULL,
	is_published    INTEGER NOT NULL DEFAULT 1,
	created_at      INTEGER NOT NULL
);
`

// Store wraps the SQLite handle.
type Store struct {
	DB *sql.DB
}

// SummaryRow is one lesson document bound to its resolved identifiers.
// Content holds the serialized structured document.
type SummaryRow struct {
	TopicID     int64
	SubtopicID  int64
	Content     string
	IsPublished bool
}

// Open opens (creating if needed) the database at path with production-safe
// pragmas and the schema applied.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("store: mkdir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: %s: %w", p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: schema: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	return &Store{DB: db}, nil
}

// OpenMemory opens an in-memory store for testing. MaxOpenConns(1) keeps all
// queries on the one connection; each connection to ":memory:" would
// otherwise see a separate database.
func OpenMemory(t testing.TB) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("store.OpenMemory: %v", err)
	}
	s.DB.SetMaxOpenConns(1)
	t.Cleanup(func() { s.Close() })
	return s
}

// Close closes the database.
func (s *Store) Close() error {
	return s.DB.Close()
}

// GetOrCreateTopic resolves a topic name to its stable identifier, creating
// the row if absent. Calling it twice with the same name returns the same
// identifier and never duplicates the row.
func (s *Store) GetOrCreateTopic(ctx context.Context, name string) (int64, error) {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO topics (topic_name) VALUES (?)
		ON CONFLICT(topic_name) DO NOTHING`, name)
	if err != nil {
		return 0, fmt.Errorf("store: upsert topic %q: %w", name, err)
	}
	var id int64
	err = s.DB.QueryRowContext(ctx,
		`SELECT topic_id FROM topics WHERE topic_name = ?`, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("store: read topic %q: %w", name, err)
	}
	return id, nil
}

// GetOrCreateSubtopic resolves (topic_id, subtopic_name) to its identifier,
// creating the row if absent.
func (s *Store) GetOrCreateSubtopic(ctx context.Context, topicID int64, name string) (int64, error) {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO subtopics (topic_id, subtopic_name) VALUES (?, ?)
		ON CONFLICT(topic_id, subtopic_name) DO NOTHING`, topicID, name)
	if err != nil {
		return 0, fmt.Errorf("store: upsert subtopic %q: %w", name, err)
	}
	var id int64
	err = s.DB.QueryRowContext(ctx,
		`SELECT subtopic_id FROM subtopics WHERE topic_id = ? AND subtopic_name = ?`,
		topicID, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("store: read subtopic %q (topic %d): %w", name, topicID, err)
	}
	return id, nil
}

// InsertSummaries writes one batch of summary rows in a single transaction.
// Insertion is insert-only: re-ingesting the same documents produces
// duplicate content rows.
func (s *Store) InsertSummaries(ctx context.Context, rows []SummaryRow) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO subtopic_summary
		(topic_id, subtopic_id, summary_content, is_published, created_at)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("store: prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UnixMilli()
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx,
			r.TopicID, r.SubtopicID, r.Content, r.IsPublished, now); err != nil {
			tx.Rollback()
			return fmt.Errorf("store: insert summary: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

// CountSummaries reports the number of stored summary rows, optionally scoped
// to one subtopic (pass 0 for all).
func (s *Store) CountSummaries(ctx context.Context, subtopicID int64) (int, error) {
	var (
		count int
		err   error
	)
	if subtopicID > 0 {
		err = s.DB.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM subtopic_summary WHERE subtopic_id = ?`, subtopicID).Scan(&count)
	} else {
		err = s.DB.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM subtopic_summary`).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("store: count summaries: %w", err)
	}
	return count, nil
}
