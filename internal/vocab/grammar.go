package vocab

import (
	"time"

	"github.com/google/uuid"
)

// GrammarConcept is a grammar topic tracked alongside vocabulary. Concepts
// share the word lifecycle and scheduling fields but keep aggregate practice
// counters only, never per-modality ones.
type GrammarConcept struct {
	ID          uuid.UUID
	Name        string // normalized like word text
	Description string
	CEFRLevel   string
	Status      Status

	PracticeCount int
	ErrorCount    int
	Examples      []string

	Stability      *float64
	Difficulty     *float64
	LastReviewedAt *time.Time
	NextReviewAt   time.Time

	MasteryScore float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewGrammarConcept creates a concept in the "new" state, immediately due.
func NewGrammarConcept(name string, now time.Time) *GrammarConcept {
	return &GrammarConcept{
		ID:           uuid.New(),
		Name:         Normalize(name),
		Status:       StatusNew,
		NextReviewAt: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Reviewed reports whether the concept has been graded at least once.
func (g *GrammarConcept) Reviewed() bool {
	return g.Stability != nil
}

// CorrectCount derives correct answers from the practice and error counters.
func (g *GrammarConcept) CorrectCount() int {
	n := g.PracticeCount - g.ErrorCount
	if n < 0 {
		return 0
	}
	return n
}
