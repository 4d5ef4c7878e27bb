package storage

import (
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when no history entry matches.
var ErrNotFound = errors.New("entry not found")

// ErrAmbiguous is returned when an ID prefix matches several entries.
var ErrAmbiguous = errors.New("ambiguous entry id")

// Entry is one copied conversation or message.
type Entry struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Checksum  string    `json:"checksum"`
	Turns     int       `json:"turns"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Checksum returns the hex sha256 of content.
func Checksum(content string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(content)))
}

// Storage manages the history database.
type Storage struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	id         TEXT PRIMARY KEY,
	source     TEXT NOT NULL,
	checksum   TEXT NOT NULL UNIQUE,
	turns      INTEGER NOT NULL,
	content    TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS entries_created_at ON entries (created_at);
`

// NewStorage creates or opens the history database at dbPath.
func NewStorage(dbPath string) (*Storage, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate db: %w", err)
	}
	return &Storage{db: db}, nil
}

// Close closes the database connection.
func (s *Storage) Close() error {
	return s.db.Close()
}

// UpsertEntry stores e. An entry with the same content checksum is not
// duplicated: its source and timestamp are refreshed instead, and it keeps
// its ID. Missing ID, checksum and timestamp are filled in on the stored row
// only; e is left untouched. The stored entry is returned.
func (s *Storage) UpsertEntry(e *Entry) (*Entry, error) {
	id, checksum, createdAt := e.ID, e.Checksum, e.CreatedAt
	if id == "" {
		id = uuid.New().String()
	}
	if checksum == "" {
		checksum = Checksum(e.Content)
	}
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.Exec(`
INSERT INTO entries (id, source, checksum, turns, content, created_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (checksum) DO UPDATE SET
	source = excluded.source,
	created_at = excluded.created_at`,
		id, e.Source, checksum, e.Turns, e.Content, createdAt.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("failed to store entry: %w", err)
	}
	return s.byChecksum(checksum)
}

func (s *Storage) byChecksum(checksum string) (*Entry, error) {
	row := s.db.QueryRow(`SELECT id, source, checksum, turns, content, created_at FROM entries WHERE checksum = ?`, checksum)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

// GetEntry retrieves an entry by ID or by a unique ID prefix.
func (s *Storage) GetEntry(id string) (*Entry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}
	rows, err := s.db.Query(`SELECT id, source, checksum, turns, content, created_at FROM entries WHERE substr(id, 1, ?) = ? LIMIT 2`, len(id), id)
	if err != nil {
		return nil, fmt.Errorf("failed to query entry: %w", err)
	}
	defer rows.Close()

	var found []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		found = append(found, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to query entry: %w", err)
	}

	switch len(found) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return found[0], nil
	}
	for _, e := range found {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrAmbiguous, id)
}

// ListEntries returns up to limit entries, newest first. A limit of zero or
// less lists everything.
func (s *Storage) ListEntries(limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`SELECT id, source, checksum, turns, content, created_at FROM entries ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

// DeleteEntry deletes the entry with the given ID or unique ID prefix.
func (s *Storage) DeleteEntry(id string) error {
	e, err := s.GetEntry(id)
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(`DELETE FROM entries WHERE id = ?`, e.ID); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}

// Clean deletes every entry.
func (s *Storage) Clean() error {
	if _, err := s.db.Exec(`DELETE FROM entries`); err != nil {
		return fmt.Errorf("failed to clean db: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (*Entry, error) {
	var (
		e       Entry
		created int64
	)
	if err := sc.Scan(&e.ID, &e.Source, &e.Checksum, &e.Turns, &e.Content, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan entry: %w", err)
	}
	e.CreatedAt = time.Unix(0, created)
	return &e, nil
}
