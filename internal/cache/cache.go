// Package cache persists resolved paper records and raw full-text bodies
// in a local SQLite database, keyed by canonical reference id. Failure
// records are cached too, so a reference that exhausted the fetch cascade
// is not retried on every run.
package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/culturebot/litcheck/internal/paper"
	_ "modernc.org/sqlite"
)

// DBFileName is the cache database file created under the cache directory.
const DBFileName = "papers.db"

// Store wraps the SQLite cache database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the cache database under dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	path := filepath.Join(dir, DBFileName)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the location of the database file.
func (s *Store) Path() string {
	return s.path
}

func createSchema(db *sql.DB) error {
	schema := `
		-- Resolved (or failed) paper records, one per canonical reference
		CREATE TABLE IF NOT EXISTS papers (
			canonical TEXT PRIMARY KEY,
			record_json TEXT NOT NULL,
			fetched_at INTEGER NOT NULL
		);

		-- Raw full-text bodies, stored separately so metadata reads stay cheap
		CREATE TABLE IF NOT EXISTS raw_bodies (
			canonical TEXT PRIMARY KEY,
			body BLOB NOT NULL,
			fetched_at INTEGER NOT NULL
		);
	`
	_, err := db.Exec(schema)
	return err
}

// Get retrieves the cached record for a canonical id. Returns nil with no
// error on a cache miss.
func (s *Store) Get(canonical string) (*paper.Record, error) {
	var recordJSON string
	err := s.db.QueryRow(
		`SELECT record_json FROM papers WHERE canonical = ?`, canonical,
	).Scan(&recordJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache for %s: %w", canonical, err)
	}

	var rec paper.Record
	if err := json.Unmarshal([]byte(recordJSON), &rec); err != nil {
		return nil, fmt.Errorf("parsing cached record for %s: %w", canonical, err)
	}
	return &rec, nil
}

// Put stores or replaces the record for its canonical id.
func (s *Store) Put(rec *paper.Record) error {
	if rec.Canonical == "" {
		return fmt.Errorf("record has no canonical id")
	}
	recordJSON, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling record for %s: %w", rec.Canonical, err)
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO papers (canonical, record_json, fetched_at) VALUES (?, ?, ?)`,
		rec.Canonical, string(recordJSON), rec.FetchedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("writing cache for %s: %w", rec.Canonical, err)
	}
	return nil
}

// GetBody retrieves the cached raw body for a canonical id. Returns nil
// with no error on a miss.
func (s *Store) GetBody(canonical string) ([]byte, error) {
	var body []byte
	err := s.db.QueryRow(
		`SELECT body FROM raw_bodies WHERE canonical = ?`, canonical,
	).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cached body for %s: %w", canonical, err)
	}
	return body, nil
}

// PutBody stores or replaces the raw body for a canonical id.
func (s *Store) PutBody(canonical string, body []byte) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO raw_bodies (canonical, body, fetched_at) VALUES (?, ?, ?)`,
		canonical, body, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("writing cached body for %s: %w", canonical, err)
	}
	return nil
}

// Invalidate removes the record and body for a canonical id. Removing a
// cached failure is how a retry is forced. Invalidating an absent id is
// not an error.
func (s *Store) Invalidate(canonical string) error {
	if _, err := s.db.Exec(`DELETE FROM papers WHERE canonical = ?`, canonical); err != nil {
		return fmt.Errorf("invalidating %s: %w", canonical, err)
	}
	if _, err := s.db.Exec(`DELETE FROM raw_bodies WHERE canonical = ?`, canonical); err != nil {
		return fmt.Errorf("invalidating body for %s: %w", canonical, err)
	}
	return nil
}

// InvalidateFailures removes all cached failure records, leaving resolved
// papers in place. Returns the number of records removed.
func (s *Store) InvalidateFailures() (int, error) {
	res, err := s.db.Exec(
		`DELETE FROM papers
		 WHERE json_extract(record_json, '$.abstract') IS NULL
		   AND json_extract(record_json, '$.full_text') IS NULL`,
	)
	if err != nil {
		return 0, fmt.Errorf("invalidating failures: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// Stats summarizes cache contents.
type Stats struct {
	Papers   int `json:"papers"`
	Failures int `json:"failures"`
	Bodies   int `json:"bodies"`
}

// Stats counts cached records, cached failures, and stored bodies.
func (s *Store) Stats() (Stats, error) {
	var st Stats
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM papers`).Scan(&st.Papers); err != nil {
		return st, err
	}
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM papers
		 WHERE json_extract(record_json, '$.abstract') IS NULL
		   AND json_extract(record_json, '$.full_text') IS NULL`,
	).Scan(&st.Failures)
	if err != nil {
		return st, err
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM raw_bodies`).Scan(&st.Bodies); err != nil {
		return st, err
	}
	return st, nil
}
