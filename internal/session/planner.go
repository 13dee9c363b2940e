package session

import (
	"context"
	"math"
	"time"

	"github.com/KyryloOleynik/wordvault/internal/store"
)

// Planner builds practice queues over the due set.
//
// The new-word share is a priority rule, not a hard exclusion: while both
// new words and due reviews are waiting, new words get at most their share
// of the slots; capacity one side cannot fill is handed to the other.
type Planner struct {
	words    *store.WordRepo
	size     int
	newShare float64
}

// NewPlanner creates a planner. A size of 0 or less uses DefaultQueueSize;
// shares outside [0, 1] are clamped.
func NewPlanner(words *store.WordRepo, size int, newShare float64) *Planner {
	if size <= 0 {
		size = DefaultQueueSize
	}
	if newShare < 0 {
		newShare = 0
	}
	if newShare > 1 {
		newShare = 1
	}
	return &Planner{words: words, size: size, newShare: newShare}
}

// Build assembles the practice queue due at now.
func (p *Planner) Build(ctx context.Context, now time.Time) (*Queue, error) {
	news, err := p.words.DueNew(ctx, now, p.size)
	if err != nil {
		return nil, err
	}
	reviews, err := p.words.DueReviews(ctx, now, p.size)
	if err != nil {
		return nil, err
	}

	newCount := int(math.Round(float64(p.size) * p.newShare))
	if newCount > len(news) {
		newCount = len(news)
	}
	reviewCount := p.size - newCount
	if reviewCount > len(reviews) {
		reviewCount = len(reviews)
	}
	// Hand unused review capacity back to new words.
	if free := p.size - newCount - reviewCount; free > 0 && newCount < len(news) {
		extra := len(news) - newCount
		if extra > free {
			extra = free
		}
		newCount += extra
	}

	q := &Queue{Slots: make([]Slot, 0, newCount+reviewCount)}
	for _, w := range news[:newCount] {
		q.Slots = append(q.Slots, Slot{Word: w, Category: CategoryNew})
	}
	for _, w := range reviews[:reviewCount] {
		q.Slots = append(q.Slots, Slot{Word: w, Category: CategoryReview})
	}
	return q, nil
}
