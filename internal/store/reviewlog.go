package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/KyryloOleynik/wordvault/internal/vocab"
)

// ReviewLog is one immutable record of a graded review. Rows are only ever
// appended; they disappear solely through the cascade when their word is
// deleted.
type ReviewLog struct {
	ID          int64
	WordID      uuid.UUID
	Grade       int
	TimeTakenMs int64
	ReviewedAt  time.Time
}

// ReviewLogRepo provides append and audit access to the review log. The
// scheduling path never reads it.
type ReviewLogRepo struct {
	q DBTX
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *ReviewLogRepo) WithTx(tx *sql.Tx) *ReviewLogRepo {
	return &ReviewLogRepo{q: tx}
}

// Append records one review. Grades outside 1-4 are rejected; the log never
// holds a value the scheduler could not have produced.
func (r *ReviewLogRepo) Append(ctx context.Context, l *ReviewLog) error {
	if l.Grade < 1 || l.Grade > 4 {
		return fmt.Errorf("grade %d: %w", l.Grade, vocab.ErrInvalidGrade)
	}
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO review_logs (word_id, grade, time_taken_ms, reviewed_at) VALUES (?, ?, ?, ?)`,
		l.WordID.String(), l.Grade, l.TimeTakenMs, millis(l.ReviewedAt))
	if err != nil {
		return fmt.Errorf("append review log for %s: %w", l.WordID, err)
	}
	l.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("review log id: %w", err)
	}
	return nil
}

// ListByWord returns the word's review history, newest first.
func (r *ReviewLogRepo) ListByWord(ctx context.Context, wordID uuid.UUID, limit int) ([]*ReviewLog, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, word_id, grade, time_taken_ms, reviewed_at
		 FROM review_logs WHERE word_id = ?
		 ORDER BY reviewed_at DESC, id DESC LIMIT ?`,
		wordID.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("query review logs for %s: %w", wordID, err)
	}
	defer rows.Close()

	var logs []*ReviewLog
	for rows.Next() {
		var (
			l          ReviewLog
			wid        string
			reviewedAt int64
		)
		if err := rows.Scan(&l.ID, &wid, &l.Grade, &l.TimeTakenMs, &reviewedAt); err != nil {
			return nil, fmt.Errorf("scan review log: %w", err)
		}
		l.WordID, err = uuid.Parse(wid)
		if err != nil {
			return nil, fmt.Errorf("parse review log word id %q: %w", wid, err)
		}
		l.ReviewedAt = fromMillis(reviewedAt)
		logs = append(logs, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review logs: %w", err)
	}
	return logs, nil
}

// CountSince returns how many reviews happened at or after t.
func (r *ReviewLogRepo) CountSince(ctx context.Context, t time.Time) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM review_logs WHERE reviewed_at >= ?`, millis(t)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count reviews since %v: %w", t, err)
	}
	return n, nil
}

// CountByWord returns the total number of logged reviews for a word.
func (r *ReviewLogRepo) CountByWord(ctx context.Context, wordID uuid.UUID) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM review_logs WHERE word_id = ?`, wordID.String()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count reviews for %s: %w", wordID, err)
	}
	return n, nil
}
