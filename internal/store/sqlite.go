// Package store persists merged postings in SQLite. The url column
// carries the unique constraint that backs identity at the storage layer.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/entryladder/entryladder/internal/model"
)

// ErrDuplicate reports that a posting with the same URL already exists.
// A concurrent writer achieving the same end state is not a failure, so
// callers treat this as a skip.
var ErrDuplicate = errors.New("posting with this url already exists")

// SQLiteStore implements model.PostingStore on a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and
// ensures the postings table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS postings (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		title       TEXT NOT NULL,
		company     TEXT,
		location    TEXT,
		url         TEXT NOT NULL UNIQUE,
		description TEXT,
		source      TEXT,
		posted_at   TEXT,
		created_at  TEXT NOT NULL
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating postings table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// FindByURL returns the stored posting with the given URL, or nil if none
// exists.
func (s *SQLiteStore) FindByURL(ctx context.Context, url string) (*model.Posting, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, company, location, url, description, source, posted_at, created_at
		 FROM postings WHERE url = ?`, url)

	p, err := scanPosting(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding posting by url: %w", err)
	}
	return p, nil
}

// Save inserts a posting. A unique-constraint collision on url, including
// one raced in by a concurrent writer, is reported as ErrDuplicate.
// On success the posting's ID and CreatedAt are filled in.
func (s *SQLiteStore) Save(ctx context.Context, p *model.Posting) error {
	now := time.Now().UTC()

	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO postings (title, company, location, url, description, source, posted_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.Company, p.Location, p.URL, p.Description, p.Source,
		formatTime(p.PostedAt), now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("saving posting %s: %w", p.URL, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("saving posting %s: %w", p.URL, err)
	}
	if affected == 0 {
		return ErrDuplicate
	}

	if id, err := res.LastInsertId(); err == nil {
		p.ID = &id
	}
	p.CreatedAt = &now
	return nil
}

// ListRecent returns up to limit postings ordered by posted-at descending,
// then created-at, then id, with missing dates last.
func (s *SQLiteStore) ListRecent(ctx context.Context, limit int) ([]model.Posting, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, company, location, url, description, source, posted_at, created_at
		 FROM postings
		 ORDER BY posted_at DESC, created_at DESC, id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing postings: %w", err)
	}
	defer rows.Close()

	var postings []model.Posting
	for rows.Next() {
		p, err := scanPosting(rows)
		if err != nil {
			return nil, fmt.Errorf("listing postings: %w", err)
		}
		postings = append(postings, *p)
	}
	return postings, rows.Err()
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPosting(row rowScanner) (*model.Posting, error) {
	var p model.Posting
	var id int64
	var postedAt, createdAt sql.NullString

	if err := row.Scan(&id, &p.Title, &p.Company, &p.Location, &p.URL,
		&p.Description, &p.Source, &postedAt, &createdAt); err != nil {
		return nil, err
	}

	p.ID = &id
	p.PostedAt = parseStoredTime(postedAt)
	p.CreatedAt = parseStoredTime(createdAt)
	return &p, nil
}

func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseStoredTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return nil
	}
	return &t
}
