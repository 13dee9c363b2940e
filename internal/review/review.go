// Package review applies graded exercise outcomes to the vocabulary. It is
// the write path between an exercise screen and the store: load the item,
// run the scheduler, bump the counters, recompute mastery, persist, and log,
// all inside one transaction.
package review

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/KyryloOleynik/wordvault/internal/mastery"
	"github.com/KyryloOleynik/wordvault/internal/spacedrep"
	"github.com/KyryloOleynik/wordvault/internal/store"
	"github.com/KyryloOleynik/wordvault/internal/vocab"
)

// Outcome is one graded answer reported by an exercise.
type Outcome struct {
	Grade       spacedrep.Grade
	Modality    vocab.Modality
	TimeTakenMs int64
}

// Service orchestrates grading. It owns no state of its own; every grade is
// a single read-modify-write transaction, so two concurrent grades on the
// same item serialize instead of losing counters.
type Service struct {
	store *store.Store
	sched *spacedrep.Scheduler
}

// NewService creates a grading service over the given store and scheduler.
func NewService(st *store.Store, sched *spacedrep.Scheduler) *Service {
	return &Service{store: st, sched: sched}
}

// GradeWord records one graded review of a word and returns the updated row.
//
// The aggregate counters move on every grade; the per-modality counters move
// only for rows that carry them, so imported legacy rows keep their variant.
func (s *Service) GradeWord(ctx context.Context, id uuid.UUID, out Outcome, now time.Time) (*vocab.Word, error) {
	if !out.Grade.Valid() {
		return nil, fmt.Errorf("grade %d: %w", int(out.Grade), vocab.ErrInvalidGrade)
	}
	if !out.Modality.Valid() {
		return nil, fmt.Errorf("invalid modality %s", out.Modality)
	}

	var updated *vocab.Word
	err := s.store.InTx(ctx, func(tx *sql.Tx) error {
		words := s.store.Words().WithTx(tx)

		w, err := words.GetByID(ctx, id)
		if err != nil {
			return err
		}

		res, err := s.sched.Review(wordCard(w), out.Grade, now)
		if err != nil {
			return err
		}

		w.Stability = &res.Stability
		w.Difficulty = &res.Difficulty
		w.Status = res.Status
		w.LastReviewedAt = &now
		w.NextReviewAt = res.NextReviewAt

		w.TimesShown++
		if out.Grade.Correct() {
			w.TimesCorrect++
		} else {
			w.TimesWrong++
		}
		if w.Modal != nil {
			w.Modal.Record(out.Modality, out.Grade.Correct())
		}
		w.MasteryScore = mastery.Score(w, s.sched.MaturityDays())

		if err := words.Save(ctx, w, now); err != nil {
			return err
		}

		log := &store.ReviewLog{
			WordID:      w.ID,
			Grade:       int(out.Grade),
			TimeTakenMs: out.TimeTakenMs,
			ReviewedAt:  now,
		}
		if err := s.store.ReviewLogs().WithTx(tx).Append(ctx, log); err != nil {
			return err
		}

		updated = w
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// GradeConcept records one graded review of a grammar concept. Concepts keep
// only aggregate practice counters and have no review log.
func (s *Service) GradeConcept(ctx context.Context, id uuid.UUID, g spacedrep.Grade, now time.Time) (*vocab.GrammarConcept, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("grade %d: %w", int(g), vocab.ErrInvalidGrade)
	}

	var updated *vocab.GrammarConcept
	err := s.store.InTx(ctx, func(tx *sql.Tx) error {
		concepts := s.store.Grammar().WithTx(tx)

		c, err := concepts.GetByID(ctx, id)
		if err != nil {
			return err
		}

		res, err := s.sched.Review(conceptCard(c), g, now)
		if err != nil {
			return err
		}

		c.Stability = &res.Stability
		c.Difficulty = &res.Difficulty
		c.Status = res.Status
		c.LastReviewedAt = &now
		c.NextReviewAt = res.NextReviewAt

		c.PracticeCount++
		if !g.Correct() {
			c.ErrorCount++
		}
		c.MasteryScore = mastery.ConceptScore(c, s.sched.MaturityDays())

		if err := concepts.Save(ctx, c, now); err != nil {
			return err
		}

		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func wordCard(w *vocab.Word) spacedrep.Card {
	return spacedrep.Card{
		Status:         w.Status,
		Stability:      w.Stability,
		Difficulty:     w.Difficulty,
		LastReviewedAt: w.LastReviewedAt,
	}
}

func conceptCard(c *vocab.GrammarConcept) spacedrep.Card {
	return spacedrep.Card{
		Status:         c.Status,
		Stability:      c.Stability,
		Difficulty:     c.Difficulty,
		LastReviewedAt: c.LastReviewedAt,
	}
}
