package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KyryloOleynik/wordvault/internal/mastery"
	"github.com/KyryloOleynik/wordvault/internal/vocab"
)

const wordColumns = `id, text, definition, translation, cefr_level, status,
	times_shown, times_correct, times_wrong,
	srs_stability, srs_difficulty, last_reviewed_at, next_review_at,
	mastery_score, source, created_at, updated_at,
	translation_correct, translation_wrong,
	matching_correct, matching_wrong,
	lesson_correct, lesson_wrong`

// WordRepo provides access to the words table.
type WordRepo struct {
	q DBTX
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *WordRepo) WithTx(tx *sql.Tx) *WordRepo {
	return &WordRepo{q: tx}
}

// GetAll returns every word, newest-created first. Words created in the same
// millisecond (bulk import) tie-break by text.
func (r *WordRepo) GetAll(ctx context.Context) ([]*vocab.Word, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+wordColumns+` FROM words ORDER BY created_at DESC, text`)
	if err != nil {
		return nil, fmt.Errorf("query words: %w", err)
	}
	defer rows.Close()
	return collectWords(rows)
}

// GetByID returns the word with the given id.
func (r *WordRepo) GetByID(ctx context.Context, id uuid.UUID) (*vocab.Word, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+wordColumns+` FROM words WHERE id = ?`, id.String())
	w, err := scanWord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("word %s: %w", id, vocab.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get word %s: %w", id, err)
	}
	return w, nil
}

// GetByText returns the word with the given text, matched on the normalized
// form.
func (r *WordRepo) GetByText(ctx context.Context, text string) (*vocab.Word, error) {
	text = vocab.Normalize(text)
	row := r.q.QueryRowContext(ctx, `SELECT `+wordColumns+` FROM words WHERE text = ?`, text)
	w, err := scanWord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("word %q: %w", text, vocab.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get word %q: %w", text, err)
	}
	return w, nil
}

// Search returns up to limit words whose text starts with prefix, ordered by
// text. The prefix is normalized before matching.
func (r *WordRepo) Search(ctx context.Context, prefix string, limit int) ([]*vocab.Word, error) {
	if limit <= 0 {
		return nil, nil
	}
	pattern := escapeLike(vocab.Normalize(prefix)) + "%"
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+wordColumns+` FROM words WHERE text LIKE ? ESCAPE '\' ORDER BY text LIMIT ?`,
		pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search words %q: %w", prefix, err)
	}
	defer rows.Close()
	return collectWords(rows)
}

// Due returns up to limit words whose review is due at now: new words first,
// then the rest, each group ordered by ascending next_review_at.
func (r *WordRepo) Due(ctx context.Context, now time.Time, limit int) ([]*vocab.Word, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+wordColumns+` FROM words
		 WHERE next_review_at <= ?
		 ORDER BY CASE WHEN status = 'new' THEN 0 ELSE 1 END, next_review_at, text
		 LIMIT ?`,
		millis(now), limit)
	if err != nil {
		return nil, fmt.Errorf("query due words: %w", err)
	}
	defer rows.Close()
	return collectWords(rows)
}

// DueNew returns up to limit due words still in the new state, ordered by
// ascending next_review_at.
func (r *WordRepo) DueNew(ctx context.Context, now time.Time, limit int) ([]*vocab.Word, error) {
	return r.dueWithStatus(ctx, `status = 'new'`, now, limit)
}

// DueReviews returns up to limit due words past the new state, ordered by
// ascending next_review_at.
func (r *WordRepo) DueReviews(ctx context.Context, now time.Time, limit int) ([]*vocab.Word, error) {
	return r.dueWithStatus(ctx, `status != 'new'`, now, limit)
}

func (r *WordRepo) dueWithStatus(ctx context.Context, cond string, now time.Time, limit int) ([]*vocab.Word, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+wordColumns+` FROM words
		 WHERE `+cond+` AND next_review_at <= ?
		 ORDER BY next_review_at, text
		 LIMIT ?`,
		millis(now), limit)
	if err != nil {
		return nil, fmt.Errorf("query due words: %w", err)
	}
	defer rows.Close()
	return collectWords(rows)
}

// Add inserts a word. When a word with the same normalized text already
// exists, the existing row is returned unchanged and created is false.
func (r *WordRepo) Add(ctx context.Context, w *vocab.Word) (*vocab.Word, bool, error) {
	w.Text = vocab.Normalize(w.Text)

	res, err := r.q.ExecContext(ctx,
		`INSERT INTO words (`+wordColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(text) DO NOTHING`,
		wordArgs(w)...)
	if err != nil {
		if isUniqueViolation(err) {
			existing, gerr := r.GetByText(ctx, w.Text)
			if gerr == nil {
				return existing, false, nil
			}
		}
		return nil, false, fmt.Errorf("insert word %q: %w", w.Text, err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		existing, err := r.GetByText(ctx, w.Text)
		if err != nil {
			return nil, false, fmt.Errorf("resolve duplicate %q: %w", w.Text, err)
		}
		return existing, false, nil
	}
	return w, true, nil
}

// Update applies a partial patch to the word and refreshes updatedAt. Only
// non-nil patch fields change; an empty patch touches nothing but updatedAt.
// Mastery is recomputed whenever the patch touches counters or SRS state.
//
// Callers that can race on the same row run this inside Store.InTx via
// WithTx so the read-modify-write is atomic.
func (r *WordRepo) Update(ctx context.Context, id uuid.UUID, p WordPatch, now time.Time) (*vocab.Word, error) {
	w, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.apply(w)
	if p.touchesCounters() || p.touchesSRS() {
		w.MasteryScore = mastery.Score(w, mastery.DefaultMaturityDays)
	}

	if err := r.Save(ctx, w, now); err != nil {
		return nil, err
	}
	return w, nil
}

// Save writes every mutable column of the word and stamps updatedAt.
func (r *WordRepo) Save(ctx context.Context, w *vocab.Word, now time.Time) error {
	w.UpdatedAt = now

	args := wordArgs(w)[1:] // skip id, it goes to the WHERE clause
	args = append(args, w.ID.String())
	res, err := r.q.ExecContext(ctx,
		`UPDATE words SET
			text = ?, definition = ?, translation = ?, cefr_level = ?, status = ?,
			times_shown = ?, times_correct = ?, times_wrong = ?,
			srs_stability = ?, srs_difficulty = ?, last_reviewed_at = ?, next_review_at = ?,
			mastery_score = ?, source = ?, created_at = ?, updated_at = ?,
			translation_correct = ?, translation_wrong = ?,
			matching_correct = ?, matching_wrong = ?,
			lesson_correct = ?, lesson_wrong = ?
		 WHERE id = ?`,
		args...)
	if err != nil {
		return fmt.Errorf("save word %s: %w", w.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("word %s: %w", w.ID, vocab.ErrNotFound)
	}
	return nil
}

// Delete removes the word. Review logs cascade with it.
func (r *WordRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM words WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete word %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("word %s: %w", id, vocab.ErrNotFound)
	}
	return nil
}

// WordPatch is a partial update: nil fields are left untouched. Source and
// creation time are immutable and so have no patch fields.
type WordPatch struct {
	Definition  *string
	Translation *string
	CEFRLevel   *string
	Status      *vocab.Status

	TimesShown   *int
	TimesCorrect *int
	TimesWrong   *int
	Modal        *vocab.ModalityCounters

	Stability      *float64
	Difficulty     *float64
	LastReviewedAt *time.Time
	NextReviewAt   *time.Time
}

func (p WordPatch) apply(w *vocab.Word) {
	if p.Definition != nil {
		w.Definition = *p.Definition
	}
	if p.Translation != nil {
		w.Translation = *p.Translation
	}
	if p.CEFRLevel != nil {
		w.CEFRLevel = *p.CEFRLevel
	}
	if p.Status != nil {
		w.Status = *p.Status
	}
	if p.TimesShown != nil {
		w.TimesShown = *p.TimesShown
	}
	if p.TimesCorrect != nil {
		w.TimesCorrect = *p.TimesCorrect
	}
	if p.TimesWrong != nil {
		w.TimesWrong = *p.TimesWrong
	}
	if p.Modal != nil {
		c := *p.Modal
		w.Modal = &c
	}
	if p.Stability != nil {
		v := *p.Stability
		w.Stability = &v
	}
	if p.Difficulty != nil {
		v := *p.Difficulty
		w.Difficulty = &v
	}
	if p.LastReviewedAt != nil {
		t := *p.LastReviewedAt
		w.LastReviewedAt = &t
	}
	if p.NextReviewAt != nil {
		w.NextReviewAt = *p.NextReviewAt
	}
}

func (p WordPatch) touchesCounters() bool {
	return p.TimesShown != nil || p.TimesCorrect != nil || p.TimesWrong != nil || p.Modal != nil
}

func (p WordPatch) touchesSRS() bool {
	return p.Stability != nil || p.Difficulty != nil || p.LastReviewedAt != nil || p.NextReviewAt != nil
}

func wordArgs(w *vocab.Word) []any {
	args := []any{
		w.ID.String(), w.Text, w.Definition, w.Translation, w.CEFRLevel, string(w.Status),
		w.TimesShown, w.TimesCorrect, w.TimesWrong,
		floatOrNull(w.Stability), floatOrNull(w.Difficulty),
		millisOrNull(w.LastReviewedAt), millis(w.NextReviewAt),
		w.MasteryScore, string(w.Source), millis(w.CreatedAt), millis(w.UpdatedAt),
	}
	if w.Modal == nil {
		return append(args, nil, nil, nil, nil, nil, nil)
	}
	return append(args,
		w.Modal.Correct[vocab.ModalityTranslation], w.Modal.Wrong[vocab.ModalityTranslation],
		w.Modal.Correct[vocab.ModalityMatching], w.Modal.Wrong[vocab.ModalityMatching],
		w.Modal.Correct[vocab.ModalityLesson], w.Modal.Wrong[vocab.ModalityLesson],
	)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWord(sc rowScanner) (*vocab.Word, error) {
	var (
		w                     vocab.Word
		id, status, source    string
		stability, difficulty sql.NullFloat64
		lastReviewed          sql.NullInt64
		nextReview            int64
		createdAt, updatedAt  int64
		trC, trW              sql.NullInt64
		maC, maW              sql.NullInt64
		leC, leW              sql.NullInt64
	)

	err := sc.Scan(
		&id, &w.Text, &w.Definition, &w.Translation, &w.CEFRLevel, &status,
		&w.TimesShown, &w.TimesCorrect, &w.TimesWrong,
		&stability, &difficulty, &lastReviewed, &nextReview,
		&w.MasteryScore, &source, &createdAt, &updatedAt,
		&trC, &trW, &maC, &maW, &leC, &leW,
	)
	if err != nil {
		return nil, err
	}

	w.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse word id %q: %w", id, err)
	}
	w.Status = vocab.Status(status)
	w.Source = vocab.Source(source)
	w.Stability = floatFromNull(stability)
	w.Difficulty = floatFromNull(difficulty)
	w.LastReviewedAt = timeFromNull(lastReviewed)
	w.NextReviewAt = fromMillis(nextReview)
	w.CreatedAt = fromMillis(createdAt)
	w.UpdatedAt = fromMillis(updatedAt)

	// NULL modality columns mark a row predating per-modality tracking; such
	// rows keep aggregate counters only. One column decides for the row.
	if trC.Valid {
		mc := &vocab.ModalityCounters{}
		mc.Correct[vocab.ModalityTranslation] = int(trC.Int64)
		mc.Wrong[vocab.ModalityTranslation] = int(trW.Int64)
		mc.Correct[vocab.ModalityMatching] = int(maC.Int64)
		mc.Wrong[vocab.ModalityMatching] = int(maW.Int64)
		mc.Correct[vocab.ModalityLesson] = int(leC.Int64)
		mc.Wrong[vocab.ModalityLesson] = int(leW.Int64)
		w.Modal = mc
	}

	return &w, nil
}

func collectWords(rows *sql.Rows) ([]*vocab.Word, error) {
	var words []*vocab.Word
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate words: %w", err)
	}
	return words, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
