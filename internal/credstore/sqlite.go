package credstore

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the credential in a small SQLite database, usually
// under ~/.fitlog/. A database file survives restarts, which is the
// whole point; everything else in the session is rebuilt from it.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (or creates) the credential database at dir/creds.db.
func OpenSQLite(dir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating credential dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "creds.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening credential db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS credentials (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating credentials table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get() (string, error) {
	var token string
	err := s.db.QueryRow(
		`SELECT value FROM credentials WHERE key = ?`, TokenKey,
	).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading credential: %w", err)
	}
	return token, nil
}

func (s *SQLiteStore) Set(token string) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO credentials (key, value) VALUES (?, ?)`,
		TokenKey, token,
	)
	if err != nil {
		return fmt.Errorf("storing credential: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Remove() error {
	_, err := s.db.Exec(`DELETE FROM credentials WHERE key = ?`, TokenKey)
	if err != nil {
		return fmt.Errorf("removing credential: %w", err)
	}
	return nil
}

// Close closes the credential database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
