package mastery

import "github.com/KyryloOleynik/wordvault/internal/vocab"

const (
	// DefaultMaturityDays is the stability at which an item counts as fully
	// known. Both scheduling promotion and confidence normalization share it.
	DefaultMaturityDays = 21.0

	// ConfidenceWeight and AccuracyWeight blend the two mastery signals.
	ConfidenceWeight = 0.6
	AccuracyWeight   = 0.4

	// SmoothingAttempts damps accuracy computed from few answers: an item
	// answered correctly once scores well below one answered correctly ten
	// times.
	SmoothingAttempts = 2

	// DiversityCap is the modality count at which the diversity factor
	// reaches 1. Success across distinct exercise forms is a stronger
	// signal than repetition in one form.
	DiversityCap = 3
)

// Score computes the blended mastery for a word in [0,1]: scheduling
// confidence weighted against answer accuracy across modalities. Callers
// cache the result on the word; it is never derived lazily at read time.
func Score(w *vocab.Word, maturityDays float64) float64 {
	score := ConfidenceWeight*Confidence(w.StabilityOrZero(), maturityDays) +
		AccuracyWeight*AccuracyScore(w)
	return clamp(score, 0, 1)
}

// ConceptScore is Score for grammar concepts, which keep only aggregate
// counters and so always take the single-modality accuracy path.
func ConceptScore(g *vocab.GrammarConcept, maturityDays float64) float64 {
	stability := 0.0
	if g.Stability != nil {
		stability = *g.Stability
	}
	score := ConfidenceWeight*Confidence(stability, maturityDays) +
		AccuracyWeight*aggregateAccuracy(g.CorrectCount(), g.ErrorCount)
	return clamp(score, 0, 1)
}

// Confidence normalizes stability against the maturity threshold. An item at
// or past maturity has full confidence; an unreviewed item has none.
func Confidence(stability, maturityDays float64) float64 {
	if maturityDays <= 0 || stability <= 0 {
		return 0
	}
	return clamp(stability/maturityDays, 0, 1)
}

// AccuracyScore computes the answer-accuracy signal. Words with per-modality
// counters average smoothed accuracy over the practiced modalities and scale
// it by diversity; rows predating modality tracking fall back to the
// aggregate counters at single-modality diversity.
func AccuracyScore(w *vocab.Word) float64 {
	if w.Modal == nil {
		return aggregateAccuracy(w.TimesCorrect, w.TimesWrong)
	}
	return modalAccuracy(w.Modal)
}

func modalAccuracy(c *vocab.ModalityCounters) float64 {
	practiced := c.Practiced()
	if practiced == 0 {
		return 0
	}
	sum := 0.0
	for _, m := range vocab.Modalities() {
		n := c.Attempts(m)
		if n == 0 {
			continue
		}
		acc, _ := c.Accuracy(m)
		sum += smoothed(acc, n)
	}
	return (sum / float64(practiced)) * diversity(practiced)
}

func aggregateAccuracy(correct, wrong int) float64 {
	n := correct + wrong
	if n == 0 {
		return 0
	}
	acc := float64(correct) / float64(n)
	return smoothed(acc, n) * diversity(1)
}

// smoothed shrinks an accuracy toward zero when it rests on few attempts.
func smoothed(acc float64, attempts int) float64 {
	return acc * float64(attempts) / float64(attempts+SmoothingAttempts)
}

// diversity maps the practiced-modality count to a multiplier reaching 1 at
// DiversityCap.
func diversity(practiced int) float64 {
	if practiced > DiversityCap {
		practiced = DiversityCap
	}
	return float64(1+practiced) / float64(1+DiversityCap)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
