package spacedrep

import (
	"fmt"

	"github.com/KyryloOleynik/wordvault/internal/vocab"
)

// Grade is the user's response to a review prompt.
type Grade int

const (
	Again Grade = 1
	Hard  Grade = 2
	Good  Grade = 3
	Easy  Grade = 4
)

// Valid reports whether g is inside the accepted 1-4 range.
func (g Grade) Valid() bool {
	return g >= Again && g <= Easy
}

// Correct reports whether g counts as a correct answer. Hard means the user
// struggled, so for accuracy purposes it counts as wrong even though it is
// not a scheduling lapse.
func (g Grade) Correct() bool {
	return g >= Good
}

// Lapse reports whether g means the item was forgotten outright.
func (g Grade) Lapse() bool {
	return g == Again
}

func (g Grade) String() string {
	switch g {
	case Again:
		return "again"
	case Hard:
		return "hard"
	case Good:
		return "good"
	case Easy:
		return "easy"
	}
	return fmt.Sprintf("grade(%d)", int(g))
}

// ParseGrade converts a raw integer into a Grade, rejecting anything outside
// the 1-4 range.
func ParseGrade(n int) (Grade, error) {
	g := Grade(n)
	if !g.Valid() {
		return 0, fmt.Errorf("grade %d: %w", n, vocab.ErrInvalidGrade)
	}
	return g, nil
}
