package vocab

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status represents a word's position in the learning lifecycle.
type Status string

const (
	StatusNew      Status = "new"
	StatusLearning Status = "learning"
	StatusKnown    Status = "known"
)

// ValidStatus reports whether s is one of the known lifecycle states.
func ValidStatus(s Status) bool {
	switch s {
	case StatusNew, StatusLearning, StatusKnown:
		return true
	}
	return false
}

// Source records where a word entered the vocabulary. Set at creation,
// never changed afterwards.
type Source string

const (
	SourceManual  Source = "manual"
	SourceLookup  Source = "lookup"
	SourceYouTube Source = "youtube"
	SourceLesson  Source = "lesson"
)

// Word is a single learnable vocabulary item.
//
// Stability, Difficulty and LastReviewedAt are nil until the word has been
// reviewed at least once. NextReviewAt is always set; for unreviewed words it
// defaults to the creation time so they are immediately due.
type Word struct {
	ID          uuid.UUID
	Text        string // normalized: lower-cased, trimmed
	Definition  string
	Translation string
	CEFRLevel   string
	Status      Status

	TimesShown   int
	TimesCorrect int
	TimesWrong   int

	// Modal holds per-modality counters. Rows that predate per-modality
	// tracking have nil here and fall back to the aggregate counters.
	Modal *ModalityCounters

	Stability      *float64
	Difficulty     *float64
	LastReviewedAt *time.Time
	NextReviewAt   time.Time

	MasteryScore float64
	Source       Source

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewWord creates a word with the given surface text, normalized, in the
// "new" state and immediately due for practice.
func NewWord(text string, source Source, now time.Time) *Word {
	return &Word{
		ID:           uuid.New(),
		Text:         Normalize(text),
		Status:       StatusNew,
		Modal:        &ModalityCounters{},
		NextReviewAt: now,
		Source:       source,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Normalize maps surface text to its canonical stored form. Uniqueness and
// all lookups are defined over this form.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Reviewed reports whether the word has at least one graded review behind it.
func (w *Word) Reviewed() bool {
	return w.Stability != nil
}

// StabilityOrZero returns the current stability, or 0 for unreviewed words.
func (w *Word) StabilityOrZero() float64 {
	if w.Stability == nil {
		return 0
	}
	return *w.Stability
}
