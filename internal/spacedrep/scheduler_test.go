package spacedrep

import (
	"errors"
	"testing"
	"time"

	"github.com/KyryloOleynik/wordvault/internal/vocab"
)

// noJitter returns a scheduler with deterministic intervals.
func noJitter() *Scheduler {
	p := DefaultParams()
	p.JitterPct = 0
	return New(p)
}

func ptr(f float64) *float64 { return &f }

func reviewedCard(status vocab.Status, stability, difficulty float64, last time.Time) Card {
	return Card{
		Status:         status,
		Stability:      ptr(stability),
		Difficulty:     ptr(difficulty),
		LastReviewedAt: &last,
	}
}

func TestReview_RejectsInvalidGrade(t *testing.T) {
	s := noJitter()
	now := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	for _, n := range []int{0, 5, -3} {
		_, err := s.Review(Card{Status: vocab.StatusNew}, Grade(n), now)
		if err == nil {
			t.Fatalf("grade %d: expected error", n)
		}
		if !errors.Is(err, vocab.ErrInvalidGrade) {
			t.Errorf("grade %d: error = %v, want ErrInvalidGrade", n, err)
		}
	}
}

func TestReview_FirstReviewSeedsState(t *testing.T) {
	s := noJitter()
	now := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	cases := []struct {
		g              Grade
		wantStability  float64
		wantDifficulty float64
	}{
		{Again, 0.5, 7.2}, // 5.0 - 1.1*(1-3)
		{Hard, 1.2, 6.1},  // 5.0 - 1.1*(2-3)
		{Good, 2.5, 5.0},
		{Easy, 4.0, 3.9}, // 5.0 - 1.1*(4-3)
	}
	for _, c := range cases {
		got, err := s.Review(Card{Status: vocab.StatusNew}, c.g, now)
		if err != nil {
			t.Fatalf("%v: %v", c.g, err)
		}
		if got.Stability != c.wantStability {
			t.Errorf("%v: stability = %f, want %f", c.g, got.Stability, c.wantStability)
		}
		if !closeTo(got.Difficulty, c.wantDifficulty, 1e-9) {
			t.Errorf("%v: difficulty = %f, want %f", c.g, got.Difficulty, c.wantDifficulty)
		}
	}
}

func TestReview_FirstReviewIgnoresLastReviewedAt(t *testing.T) {
	// Stability nil but a stray timestamp present: must still take the
	// first-review path and not divide by a zero stability.
	s := noJitter()
	now := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	stray := now.Add(-48 * time.Hour)
	got, err := s.Review(Card{Status: vocab.StatusNew, LastReviewedAt: &stray}, Good, now)
	if err != nil {
		t.Fatal(err)
	}
	if got.Stability != 2.5 {
		t.Errorf("stability = %f, want 2.5", got.Stability)
	}
}

func TestReview_NewStaysNewOnFailure(t *testing.T) {
	s := noJitter()
	now := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	for _, g := range []Grade{Again, Hard} {
		got, err := s.Review(Card{Status: vocab.StatusNew}, g, now)
		if err != nil {
			t.Fatal(err)
		}
		if got.Status != vocab.StatusNew {
			t.Errorf("%v: status = %q, want %q", g, got.Status, vocab.StatusNew)
		}
	}
}

func TestReview_NewPromotesToLearningOnSuccess(t *testing.T) {
	s := noJitter()
	now := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	for _, g := range []Grade{Good, Easy} {
		got, err := s.Review(Card{Status: vocab.StatusNew}, g, now)
		if err != nil {
			t.Fatal(err)
		}
		if got.Status != vocab.StatusLearning {
			t.Errorf("%v: status = %q, want %q", g, got.Status, vocab.StatusLearning)
		}
	}
}

func TestReview_LearningPromotesToKnownAtMaturity(t *testing.T) {
	// Stability 20, reviewed 40 days late: the low retrievability makes the
	// success jump cross the 21-day maturity threshold.
	s := noJitter()
	last := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	now := last.Add(40 * 24 * time.Hour)
	got, err := s.Review(reviewedCard(vocab.StatusLearning, 20, 5, last), Good, now)
	if err != nil {
		t.Fatal(err)
	}
	if got.Stability < 21 {
		t.Fatalf("stability = %f, expected to cross 21", got.Stability)
	}
	if got.Status != vocab.StatusKnown {
		t.Errorf("status = %q, want %q", got.Status, vocab.StatusKnown)
	}
}

func TestReview_LearningStaysBelowMaturity(t *testing.T) {
	s := noJitter()
	last := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	now := last.Add(3 * 24 * time.Hour)
	got, err := s.Review(reviewedCard(vocab.StatusLearning, 3, 5, last), Good, now)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != vocab.StatusLearning {
		t.Errorf("status = %q, want %q", got.Status, vocab.StatusLearning)
	}
}

func TestReview_KnownLapsesBackToLearning(t *testing.T) {
	s := noJitter()
	last := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	now := last.Add(30 * 24 * time.Hour)
	got, err := s.Review(reviewedCard(vocab.StatusKnown, 30, 5, last), Again, now)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != vocab.StatusLearning {
		t.Errorf("status = %q, want %q", got.Status, vocab.StatusLearning)
	}
	if got.Stability != 15 {
		t.Errorf("stability = %f, want 15 (halved)", got.Stability)
	}
	if !got.Lapsed {
		t.Error("expected Lapsed = true")
	}
}

func TestReview_KnownSurvivesHard(t *testing.T) {
	s := noJitter()
	last := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	now := last.Add(25 * 24 * time.Hour)
	got, err := s.Review(reviewedCard(vocab.StatusKnown, 25, 5, last), Hard, now)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != vocab.StatusKnown {
		t.Errorf("status = %q, want %q", got.Status, vocab.StatusKnown)
	}
	if got.Stability <= 25 {
		t.Errorf("stability = %f, expected growth on a non-lapse grade", got.Stability)
	}
}

func TestReview_RepeatedLapsesConvergeToFloor(t *testing.T) {
	s := noJitter()
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	c := reviewedCard(vocab.StatusLearning, 2, 5, now.Add(-24*time.Hour))
	for i := 0; i < 10; i++ {
		got, err := s.Review(c, Again, now)
		if err != nil {
			t.Fatal(err)
		}
		if got.Stability < 0.5 {
			t.Fatalf("iteration %d: stability = %f, below floor 0.5", i, got.Stability)
		}
		c.Stability = ptr(got.Stability)
	}
	if *c.Stability != 0.5 {
		t.Errorf("stability after repeated lapses = %f, want floor 0.5", *c.Stability)
	}
}

func TestReview_LateSuccessOutgrowsEarlySuccess(t *testing.T) {
	// Same state graded Good after 2, 10 and 20 days. 10 days is on
	// schedule; later reviews must earn strictly larger stability.
	s := noJitter()
	last := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	grow := func(days int) float64 {
		got, err := s.Review(reviewedCard(vocab.StatusLearning, 10, 5, last), Good, last.Add(time.Duration(days)*24*time.Hour))
		if err != nil {
			t.Fatal(err)
		}
		return got.Stability
	}
	early, onTime, late := grow(2), grow(10), grow(20)
	if !(late > onTime && onTime > early) {
		t.Errorf("stability ordering late=%f onTime=%f early=%f, want late > onTime > early", late, onTime, early)
	}
	if early <= 10 {
		t.Errorf("early success stability = %f, must still grow past 10", early)
	}
}

func TestReview_ImmediateRepeatDoesNotGrow(t *testing.T) {
	// Zero elapsed time means retrievability 1, so a success changes nothing.
	s := noJitter()
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	got, err := s.Review(reviewedCard(vocab.StatusLearning, 10, 5, now), Good, now)
	if err != nil {
		t.Fatal(err)
	}
	if got.Stability != 10 {
		t.Errorf("stability = %f, want unchanged 10", got.Stability)
	}
}

func TestReview_ClockSkewClampsElapsed(t *testing.T) {
	// lastReviewedAt a day in the future must behave like zero elapsed time
	// and never produce a negative interval.
	s := noJitter()
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	got, err := s.Review(reviewedCard(vocab.StatusLearning, 10, 5, now.Add(24*time.Hour)), Good, now)
	if err != nil {
		t.Fatal(err)
	}
	if got.Stability != 10 {
		t.Errorf("stability = %f, want unchanged 10", got.Stability)
	}
	if got.Interval <= 0 {
		t.Errorf("interval = %v, want positive", got.Interval)
	}
	if got.NextReviewAt.Before(now) {
		t.Errorf("nextReviewAt = %v, before now %v", got.NextReviewAt, now)
	}
}

func TestReview_AgainNextReviewRespectsFloor(t *testing.T) {
	s := noJitter()
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	got, err := s.Review(Card{Status: vocab.StatusNew}, Again, now)
	if err != nil {
		t.Fatal(err)
	}
	if got.NextReviewAt.Before(now.Add(10 * time.Minute)) {
		t.Errorf("nextReviewAt = %v, want at least now+10m", got.NextReviewAt)
	}
}

func TestReview_DifficultyStaysClamped(t *testing.T) {
	s := noJitter()
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

	c := reviewedCard(vocab.StatusLearning, 5, 9.5, now.Add(-24*time.Hour))
	for i := 0; i < 20; i++ {
		got, err := s.Review(c, Again, now)
		if err != nil {
			t.Fatal(err)
		}
		if got.Difficulty > 10 {
			t.Fatalf("difficulty = %f, above 10", got.Difficulty)
		}
		c.Stability, c.Difficulty = ptr(got.Stability), ptr(got.Difficulty)
	}

	c = reviewedCard(vocab.StatusLearning, 5, 1.5, now.Add(-24*time.Hour))
	for i := 0; i < 20; i++ {
		got, err := s.Review(c, Easy, now)
		if err != nil {
			t.Fatal(err)
		}
		if got.Difficulty < 1 {
			t.Fatalf("difficulty = %f, below 1", got.Difficulty)
		}
		c.Stability, c.Difficulty = ptr(got.Stability), ptr(got.Difficulty)
	}
}

func TestReview_HarderGradeGrowsLess(t *testing.T) {
	// Hard raises difficulty, Easy lowers it, so on identical state Easy
	// must out-grow Good which must out-grow Hard.
	s := noJitter()
	last := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	now := last.Add(10 * 24 * time.Hour)
	grow := func(g Grade) float64 {
		got, err := s.Review(reviewedCard(vocab.StatusLearning, 10, 5, last), g, now)
		if err != nil {
			t.Fatal(err)
		}
		return got.Stability
	}
	hard, good, easy := grow(Hard), grow(Good), grow(Easy)
	if !(easy > good && good > hard && hard > 10) {
		t.Errorf("stability easy=%f good=%f hard=%f, want easy > good > hard > 10", easy, good, hard)
	}
}

func TestInterval_JitterBounds(t *testing.T) {
	p := DefaultParams()
	s := New(p)

	s.rand = func() float64 { return 1 } // u = +1 -> +5%
	upper := s.interval(2.5)
	s.rand = func() float64 { return 0 } // u = -1 -> -5%
	lower := s.interval(2.5)

	base := time.Duration(2.5 * 24 * float64(time.Hour))
	if want := time.Duration(float64(base) * 1.05); upper != want {
		t.Errorf("upper interval = %v, want %v", upper, want)
	}
	if want := time.Duration(float64(base) * 0.95); lower != want {
		t.Errorf("lower interval = %v, want %v", lower, want)
	}
}

func TestInterval_FloorAppliesAfterJitter(t *testing.T) {
	s := New(DefaultParams())
	s.rand = func() float64 { return 0 }
	if got := s.interval(0.001); got != 10*time.Minute {
		t.Errorf("interval = %v, want the 10m floor", got)
	}
}

func TestReview_ZeroJitterIsDeterministic(t *testing.T) {
	s := noJitter()
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	got, err := s.Review(Card{Status: vocab.StatusNew}, Good, now)
	if err != nil {
		t.Fatal(err)
	}
	if want := now.Add(60 * time.Hour); !got.NextReviewAt.Equal(want) {
		t.Errorf("nextReviewAt = %v, want %v (2.5 days)", got.NextReviewAt, want)
	}
}

func closeTo(got, want, eps float64) bool {
	diff := got - want
	if diff < 0 {
		diff = -diff
	}
	return diff <= eps
}
