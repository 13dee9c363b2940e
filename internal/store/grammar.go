package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/KyryloOleynik/wordvault/internal/vocab"
)

const grammarColumns = `id, name, description, cefr_level, status,
	practice_count, error_count, examples,
	srs_stability, srs_difficulty, last_reviewed_at, next_review_at,
	mastery_score, created_at, updated_at`

// GrammarRepo provides access to the grammar_concepts table.
type GrammarRepo struct {
	q DBTX
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *GrammarRepo) WithTx(tx *sql.Tx) *GrammarRepo {
	return &GrammarRepo{q: tx}
}

// GetAll returns every concept ordered by name.
func (r *GrammarRepo) GetAll(ctx context.Context) ([]*vocab.GrammarConcept, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+grammarColumns+` FROM grammar_concepts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query grammar concepts: %w", err)
	}
	defer rows.Close()
	return collectConcepts(rows)
}

// GetByID returns the concept with the given id.
func (r *GrammarRepo) GetByID(ctx context.Context, id uuid.UUID) (*vocab.GrammarConcept, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+grammarColumns+` FROM grammar_concepts WHERE id = ?`, id.String())
	g, err := scanConcept(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("grammar concept %s: %w", id, vocab.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get grammar concept %s: %w", id, err)
	}
	return g, nil
}

// GetByName returns the concept with the given name, matched on the
// normalized form.
func (r *GrammarRepo) GetByName(ctx context.Context, name string) (*vocab.GrammarConcept, error) {
	name = vocab.Normalize(name)
	row := r.q.QueryRowContext(ctx, `SELECT `+grammarColumns+` FROM grammar_concepts WHERE name = ?`, name)
	g, err := scanConcept(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("grammar concept %q: %w", name, vocab.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get grammar concept %q: %w", name, err)
	}
	return g, nil
}

// Due returns up to limit concepts due at now, new first, then ascending
// next_review_at.
func (r *GrammarRepo) Due(ctx context.Context, now time.Time, limit int) ([]*vocab.GrammarConcept, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+grammarColumns+` FROM grammar_concepts
		 WHERE next_review_at <= ?
		 ORDER BY CASE WHEN status = 'new' THEN 0 ELSE 1 END, next_review_at, name
		 LIMIT ?`,
		millis(now), limit)
	if err != nil {
		return nil, fmt.Errorf("query due grammar concepts: %w", err)
	}
	defer rows.Close()
	return collectConcepts(rows)
}

// Add inserts a concept. A name collision returns the existing row.
func (r *GrammarRepo) Add(ctx context.Context, g *vocab.GrammarConcept) (*vocab.GrammarConcept, bool, error) {
	g.Name = vocab.Normalize(g.Name)

	args, err := conceptArgs(g)
	if err != nil {
		return nil, false, err
	}
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO grammar_concepts (`+grammarColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO NOTHING`,
		args...)
	if err != nil {
		if isUniqueViolation(err) {
			existing, gerr := r.GetByName(ctx, g.Name)
			if gerr == nil {
				return existing, false, nil
			}
		}
		return nil, false, fmt.Errorf("insert grammar concept %q: %w", g.Name, err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		existing, err := r.GetByName(ctx, g.Name)
		if err != nil {
			return nil, false, fmt.Errorf("resolve duplicate %q: %w", g.Name, err)
		}
		return existing, false, nil
	}
	return g, true, nil
}

// Save writes every mutable column of the concept and stamps updatedAt.
func (r *GrammarRepo) Save(ctx context.Context, g *vocab.GrammarConcept, now time.Time) error {
	g.UpdatedAt = now

	args, err := conceptArgs(g)
	if err != nil {
		return err
	}
	args = append(args[1:], g.ID.String())
	res, err := r.q.ExecContext(ctx,
		`UPDATE grammar_concepts SET
			name = ?, description = ?, cefr_level = ?, status = ?,
			practice_count = ?, error_count = ?, examples = ?,
			srs_stability = ?, srs_difficulty = ?, last_reviewed_at = ?, next_review_at = ?,
			mastery_score = ?, created_at = ?, updated_at = ?
		 WHERE id = ?`,
		args...)
	if err != nil {
		return fmt.Errorf("save grammar concept %s: %w", g.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("grammar concept %s: %w", g.ID, vocab.ErrNotFound)
	}
	return nil
}

// Delete removes the concept.
func (r *GrammarRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM grammar_concepts WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete grammar concept %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("grammar concept %s: %w", id, vocab.ErrNotFound)
	}
	return nil
}

func conceptArgs(g *vocab.GrammarConcept) ([]any, error) {
	examples := g.Examples
	if examples == nil {
		examples = []string{}
	}
	encoded, err := json.Marshal(examples)
	if err != nil {
		return nil, fmt.Errorf("encode examples for %q: %w", g.Name, err)
	}
	return []any{
		g.ID.String(), g.Name, g.Description, g.CEFRLevel, string(g.Status),
		g.PracticeCount, g.ErrorCount, string(encoded),
		floatOrNull(g.Stability), floatOrNull(g.Difficulty),
		millisOrNull(g.LastReviewedAt), millis(g.NextReviewAt),
		g.MasteryScore, millis(g.CreatedAt), millis(g.UpdatedAt),
	}, nil
}

func scanConcept(sc rowScanner) (*vocab.GrammarConcept, error) {
	var (
		g                     vocab.GrammarConcept
		id, status, examples  string
		stability, difficulty sql.NullFloat64
		lastReviewed          sql.NullInt64
		nextReview            int64
		createdAt, updatedAt  int64
	)

	err := sc.Scan(
		&id, &g.Name, &g.Description, &g.CEFRLevel, &status,
		&g.PracticeCount, &g.ErrorCount, &examples,
		&stability, &difficulty, &lastReviewed, &nextReview,
		&g.MasteryScore, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	g.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse grammar concept id %q: %w", id, err)
	}
	g.Status = vocab.Status(status)
	if err := json.Unmarshal([]byte(examples), &g.Examples); err != nil {
		return nil, fmt.Errorf("decode examples for %q: %w", g.Name, err)
	}
	g.Stability = floatFromNull(stability)
	g.Difficulty = floatFromNull(difficulty)
	g.LastReviewedAt = timeFromNull(lastReviewed)
	g.NextReviewAt = fromMillis(nextReview)
	g.CreatedAt = fromMillis(createdAt)
	g.UpdatedAt = fromMillis(updatedAt)

	return &g, nil
}

func collectConcepts(rows *sql.Rows) ([]*vocab.GrammarConcept, error) {
	var concepts []*vocab.GrammarConcept
	for rows.Next() {
		g, err := scanConcept(rows)
		if err != nil {
			return nil, fmt.Errorf("scan grammar concept: %w", err)
		}
		concepts = append(concepts, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate grammar concepts: %w", err)
	}
	return concepts, nil
}
