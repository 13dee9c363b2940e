package spacedrep

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/KyryloOleynik/wordvault/internal/vocab"
)

// Card is the scheduling view of a reviewable item. Words and grammar
// concepts both project into it. Stability, Difficulty and LastReviewedAt
// are nil for an item that has never been graded.
type Card struct {
	Status         vocab.Status
	Stability      *float64
	Difficulty     *float64
	LastReviewedAt *time.Time
}

// Result is the updated scheduling state after one graded review.
type Result struct {
	Stability    float64
	Difficulty   float64
	Status       vocab.Status
	Lapsed       bool
	Interval     time.Duration
	NextReviewAt time.Time
}

// Scheduler computes review schedules. It is pure: persistence happens in
// the caller, and the same inputs always produce the same state (only the
// interval jitter draws randomness).
type Scheduler struct {
	params Params
	rand   func() float64 // uniform [0,1), swapped out in tests
}

// New creates a scheduler with the given parameters.
func New(p Params) *Scheduler {
	return &Scheduler{params: p, rand: rand.Float64}
}

// Review grades a card and returns its next scheduling state.
//
// First-ever reviews (nil stability) initialize state from the grade alone.
// Later reviews fold in elapsed time since the last review: a late success
// earns a bigger stability jump than an early one, and a lapse halves
// stability instead of resetting it.
func (s *Scheduler) Review(c Card, g Grade, now time.Time) (Result, error) {
	if !g.Valid() {
		return Result{}, fmt.Errorf("grade %d: %w", int(g), vocab.ErrInvalidGrade)
	}

	var (
		stability  float64
		difficulty float64
		lapsed     bool
	)
	if c.Stability == nil {
		stability, difficulty = s.firstReview(g)
	} else {
		stability, difficulty, lapsed = s.nextState(
			*c.Stability,
			deref(c.Difficulty, s.params.NeutralDifficulty),
			s.elapsed(c, now),
			g,
		)
	}

	interval := s.interval(stability)

	return Result{
		Stability:    stability,
		Difficulty:   difficulty,
		Status:       s.nextStatus(c.Status, g, stability),
		Lapsed:       lapsed,
		Interval:     interval,
		NextReviewAt: now.Add(interval),
	}, nil
}

// Mature reports whether a stability value is past the known threshold.
func (s *Scheduler) Mature(stability float64) bool {
	return stability >= s.params.MaturityDays
}

// MaturityDays returns the stability threshold, in days, for the known state.
func (s *Scheduler) MaturityDays() float64 {
	return s.params.MaturityDays
}

func (s *Scheduler) firstReview(g Grade) (stability, difficulty float64) {
	stability = s.params.InitialStability[g-1]
	difficulty = clamp(
		s.params.NeutralDifficulty-s.params.InitialDifficultySlope*float64(g-Good),
		1, 10,
	)
	return stability, difficulty
}

func (s *Scheduler) nextState(stability, difficulty float64, elapsed time.Duration, g Grade) (float64, float64, bool) {
	p := s.params

	// Stored state can be old or hand-edited; clamp before feeding math.Pow.
	stability = math.Max(stability, p.MinStability)
	difficulty = clamp(difficulty, 1, 10)

	// Difficulty moves first so the grade shapes the growth term below.
	difficulty = clamp(
		(1-p.ReversionWeight)*(difficulty+p.DifficultyDelta[g-1])+p.ReversionWeight*p.NeutralDifficulty,
		1, 10,
	)

	if g.Lapse() {
		return math.Max(p.MinStability, stability*p.LapseFactor), difficulty, true
	}

	r := s.retrievability(elapsed, stability)
	growth := p.GrowthScale *
		math.Pow(difficulty, -p.DifficultyPower) *
		math.Pow(stability, -p.StabilityPower) *
		(math.Exp(p.RetrievabilityScale*(1-r)) - 1)

	return stability * (1 + growth), difficulty, false
}

// retrievability estimates recall probability after elapsed time. Exactly on
// schedule it equals DesiredRetention; immediately after a review it is 1.
func (s *Scheduler) retrievability(elapsed time.Duration, stability float64) float64 {
	days := elapsed.Hours() / 24
	return math.Exp(math.Log(s.params.DesiredRetention) * days / stability)
}

// elapsed returns time since the last review, clamped at zero so clock skew
// never produces negative elapsed time.
func (s *Scheduler) elapsed(c Card, now time.Time) time.Duration {
	if c.LastReviewedAt == nil {
		return 0
	}
	d := now.Sub(*c.LastReviewedAt)
	if d < 0 {
		return 0
	}
	return d
}

func (s *Scheduler) nextStatus(cur vocab.Status, g Grade, stability float64) vocab.Status {
	switch cur {
	case vocab.StatusNew:
		if !g.Correct() {
			return vocab.StatusNew
		}
		if s.Mature(stability) {
			return vocab.StatusKnown
		}
		return vocab.StatusLearning
	case vocab.StatusLearning:
		if s.Mature(stability) {
			return vocab.StatusKnown
		}
		return vocab.StatusLearning
	case vocab.StatusKnown:
		if g.Lapse() {
			return vocab.StatusLearning
		}
		return vocab.StatusKnown
	}
	return cur
}

// interval maps stability in days to a calendar interval, spread by jitter
// and held to the minimum so an "Again" comes back soon but not instantly.
func (s *Scheduler) interval(stability float64) time.Duration {
	d := time.Duration(stability * 24 * float64(time.Hour))
	if s.params.JitterPct > 0 {
		u := s.rand()*2 - 1
		d = time.Duration(float64(d) * (1 + s.params.JitterPct*u))
	}
	if d < s.params.MinInterval {
		d = s.params.MinInterval
	}
	return d
}

func deref(p *float64, fallback float64) float64 {
	if p == nil {
		return fallback
	}
	return *p
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
