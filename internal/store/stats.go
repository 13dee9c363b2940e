package store

import (
	"context"
	"fmt"
	"time"

	"github.com/KyryloOleynik/wordvault/internal/vocab"
)

// Stats aggregates the collection-level numbers shown by the stats command.
type Stats struct {
	TotalWords    int
	ByStatus      map[vocab.Status]int
	DueNow        int
	AvgMastery    float64
	TotalConcepts int
}

// Stats computes collection statistics as of now.
func (s *Store) Stats(ctx context.Context, now time.Time) (*Stats, error) {
	st := &Stats{ByStatus: make(map[vocab.Status]int)}

	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM words GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count words by status: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		st.ByStatus[vocab.Status(status)] = n
		st.TotalWords += n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status counts: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM words WHERE next_review_at <= ?`, millis(now)).Scan(&st.DueNow)
	if err != nil {
		return nil, fmt.Errorf("count due words: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT COALESCE(AVG(mastery_score), 0) FROM words`).Scan(&st.AvgMastery)
	if err != nil {
		return nil, fmt.Errorf("average mastery: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM grammar_concepts`).Scan(&st.TotalConcepts)
	if err != nil {
		return nil, fmt.Errorf("count grammar concepts: %w", err)
	}

	return st, nil
}
