package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store wraps the SQLite database and hands out repositories. Open it once
// per process; repositories are cheap views over the shared connection pool.
type Store struct {
	db *sql.DB
}

// Open connects to the SQLite database at dsn, applies recommended pragmas
// and brings the schema up to date. Opening an already-migrated database is
// a no-op beyond the version check, so Open is safe to call on every start.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", ErrStoreUnavailable)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect database: %v: %w", err, ErrStoreUnavailable)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %v: %w", err, ErrStoreUnavailable)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Words returns a word repository backed by this store.
func (s *Store) Words() *WordRepo {
	return &WordRepo{q: s.db}
}

// Grammar returns a grammar-concept repository backed by this store.
func (s *Store) Grammar() *GrammarRepo {
	return &GrammarRepo{q: s.db}
}

// ReviewLogs returns a review-log repository backed by this store.
func (s *Store) ReviewLogs() *ReviewLogRepo {
	return &ReviewLogRepo{q: s.db}
}

// Meta returns the key-value metadata repository backed by this store.
func (s *Store) Meta() *MetaRepo {
	return &MetaRepo{q: s.db}
}

// InTx runs fn inside a transaction, committing on nil and rolling back on
// error or panic. Repositories join the transaction via their WithTx method.
func (s *Store) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback (%v) after: %w", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// applyPragmas configures SQLite for single-user on-device use.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. WORDVAULT_DB environment variable
// 2. $XDG_DATA_HOME/wordvault/wordvault.db
// 3. ~/.local/share/wordvault/wordvault.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("WORDVAULT_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "wordvault", "wordvault.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
