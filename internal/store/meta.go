package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// MetaRepo is a small key-value table for store-level flags, like the legacy
// import completion marker.
type MetaRepo struct {
	q DBTX
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *MetaRepo) WithTx(tx *sql.Tx) *MetaRepo {
	return &MetaRepo{q: tx}
}

// Get returns the value for key, with ok false when the key is absent.
func (r *MetaRepo) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.q.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get meta %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores the value for key, replacing any previous value.
func (r *MetaRepo) Set(ctx context.Context, key, value string) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("set meta %q: %w", key, err)
	}
	return nil
}

// Flag reports whether key is set to "1".
func (r *MetaRepo) Flag(ctx context.Context, key string) (bool, error) {
	v, ok, err := r.Get(ctx, key)
	if err != nil {
		return false, err
	}
	return ok && v == "1", nil
}

// SetFlag marks key as done.
func (r *MetaRepo) SetFlag(ctx context.Context, key string) error {
	return r.Set(ctx, key, "1")
}
