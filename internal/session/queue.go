// Package session assembles bounded practice queues from the due words.
package session

import "github.com/KyryloOleynik/wordvault/internal/vocab"

// SlotCategory records why a word was queued.
type SlotCategory string

const (
	// CategoryNew marks a word that has never been graded.
	CategoryNew SlotCategory = "new"
	// CategoryReview marks a previously learned word that is due again.
	CategoryReview SlotCategory = "review"
)

// Slot is one queued word.
type Slot struct {
	Word     *vocab.Word
	Category SlotCategory
}

// Queue is an ordered practice queue: new words first, due reviews after,
// the way the due listing orders them.
type Queue struct {
	Slots []Slot
}

// Words returns the queued words in practice order.
func (q *Queue) Words() []*vocab.Word {
	words := make([]*vocab.Word, len(q.Slots))
	for i, s := range q.Slots {
		words[i] = s.Word
	}
	return words
}

// DefaultQueueSize is the standard practice queue length.
const DefaultQueueSize = 20

// DefaultNewShare is the default fraction of the queue reserved for new
// words. The rest goes to due reviews so a bulk import cannot starve them.
const DefaultNewShare = 0.3
