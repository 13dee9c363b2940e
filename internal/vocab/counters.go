package vocab

import "fmt"

// Modality identifies the kind of exercise a review came from. The set is
// closed: new exercise types must map onto one of these buckets.
type Modality int

const (
	ModalityTranslation Modality = iota
	ModalityMatching
	ModalityLesson

	numModalities
)

var modalityNames = [numModalities]string{
	ModalityTranslation: "translation",
	ModalityMatching:    "matching",
	ModalityLesson:      "lesson",
}

func (m Modality) String() string {
	if m < 0 || m >= numModalities {
		return fmt.Sprintf("modality(%d)", int(m))
	}
	return modalityNames[m]
}

// Valid reports whether m is a member of the closed modality set.
func (m Modality) Valid() bool {
	return m >= 0 && m < numModalities
}

// ParseModality maps an exercise name to its counter bucket. Listening and
// fill-blank exercises count as lesson practice.
func ParseModality(s string) (Modality, error) {
	switch s {
	case "translation":
		return ModalityTranslation, nil
	case "matching":
		return ModalityMatching, nil
	case "lesson", "listening", "fill-blank", "fillblank":
		return ModalityLesson, nil
	}
	return 0, fmt.Errorf("unknown modality %q", s)
}

// Modalities returns every member of the modality set, in counter order.
func Modalities() []Modality {
	return []Modality{ModalityTranslation, ModalityMatching, ModalityLesson}
}

// ModalityCounters tracks correct/wrong answers per exercise modality in a
// fixed-size table indexed by Modality.
type ModalityCounters struct {
	Correct [numModalities]int
	Wrong   [numModalities]int
}

// Record adds one answer to the modality's bucket.
func (c *ModalityCounters) Record(m Modality, correct bool) {
	if !m.Valid() {
		return
	}
	if correct {
		c.Correct[m]++
	} else {
		c.Wrong[m]++
	}
}

// Attempts returns the total number of answers recorded for m.
func (c *ModalityCounters) Attempts(m Modality) int {
	if !m.Valid() {
		return 0
	}
	return c.Correct[m] + c.Wrong[m]
}

// Accuracy returns the fraction of correct answers for m, and false when the
// modality has never been practiced.
func (c *ModalityCounters) Accuracy(m Modality) (float64, bool) {
	n := c.Attempts(m)
	if n == 0 {
		return 0, false
	}
	return float64(c.Correct[m]) / float64(n), true
}

// Practiced returns how many distinct modalities have at least one answer.
func (c *ModalityCounters) Practiced() int {
	n := 0
	for _, m := range Modalities() {
		if c.Attempts(m) > 0 {
			n++
		}
	}
	return n
}
