package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/KyryloOleynik/wordvault/internal/store"
	"github.com/KyryloOleynik/wordvault/internal/vocab"
)

var base = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func ptr[T any](v T) *T { return &v }

// seedNew adds n never-reviewed words, all due at base.
func seedNew(t *testing.T, s *store.Store, n int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		w := vocab.NewWord(fmt.Sprintf("neu%02d", i), vocab.SourceManual, base.Add(-time.Hour))
		if _, _, err := s.Words().Add(ctx, w); err != nil {
			t.Fatalf("seed new word %d: %v", i, err)
		}
	}
}

// seedReviews adds n learning words due at staggered times before base.
func seedReviews(t *testing.T, s *store.Store, n int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		w := vocab.NewWord(fmt.Sprintf("alt%02d", i), vocab.SourceManual, base.Add(-24*time.Hour))
		if _, _, err := s.Words().Add(ctx, w); err != nil {
			t.Fatalf("seed review word %d: %v", i, err)
		}
		due := base.Add(-time.Duration(n-i) * time.Minute)
		_, err := s.Words().Update(ctx, w.ID, store.WordPatch{
			Status:       ptr(vocab.StatusLearning),
			Stability:    ptr(2.0),
			NextReviewAt: &due,
		}, base.Add(-24*time.Hour))
		if err != nil {
			t.Fatalf("seed review word %d: %v", i, err)
		}
	}
}

func countByCategory(q *Queue) (news, reviews int) {
	for _, s := range q.Slots {
		switch s.Category {
		case CategoryNew:
			news++
		case CategoryReview:
			reviews++
		}
	}
	return news, reviews
}

func TestBuild_CapsNewShare(t *testing.T) {
	s := openTestStore(t)
	seedNew(t, s, 10)
	seedReviews(t, s, 10)

	q, err := NewPlanner(s.Words(), 10, 0.3).Build(context.Background(), base)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(q.Slots) != 10 {
		t.Fatalf("queue length = %d, want 10", len(q.Slots))
	}
	news, reviews := countByCategory(q)
	if news != 3 || reviews != 7 {
		t.Errorf("mix = %d new / %d review, want 3/7", news, reviews)
	}
	for i, slot := range q.Slots[:3] {
		if slot.Category != CategoryNew {
			t.Errorf("slot %d category = %q, want new words leading the queue", i, slot.Category)
		}
	}
	for i := 1; i < reviews; i++ {
		a := q.Slots[3+i-1].Word.NextReviewAt
		b := q.Slots[3+i].Word.NextReviewAt
		if a.After(b) {
			t.Errorf("review slots out of order: %v after %v", a, b)
		}
	}
}

func TestBuild_HandsUnusedReviewCapacityToNew(t *testing.T) {
	s := openTestStore(t)
	seedNew(t, s, 10)
	seedReviews(t, s, 1)

	q, err := NewPlanner(s.Words(), 10, 0.3).Build(context.Background(), base)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(q.Slots) != 10 {
		t.Fatalf("queue length = %d, want 10", len(q.Slots))
	}
	news, reviews := countByCategory(q)
	if news != 9 || reviews != 1 {
		t.Errorf("mix = %d new / %d review, want 9/1", news, reviews)
	}
}

func TestBuild_ZeroShareBindsWhileReviewsWait(t *testing.T) {
	s := openTestStore(t)
	seedNew(t, s, 5)
	seedReviews(t, s, 10)

	q, err := NewPlanner(s.Words(), 8, 0).Build(context.Background(), base)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	news, reviews := countByCategory(q)
	if news != 0 || reviews != 8 {
		t.Errorf("mix = %d new / %d review, want 0/8", news, reviews)
	}
}

func TestBuild_ShortQueueWhenLittleIsDue(t *testing.T) {
	s := openTestStore(t)
	seedNew(t, s, 2)
	seedReviews(t, s, 1)

	q, err := NewPlanner(s.Words(), 20, 0.3).Build(context.Background(), base)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(q.Slots) != 3 {
		t.Errorf("queue length = %d, want 3 (everything due, nothing padded)", len(q.Slots))
	}
}

func TestBuild_EmptyStore(t *testing.T) {
	s := openTestStore(t)

	q, err := NewPlanner(s.Words(), 0, DefaultNewShare).Build(context.Background(), base)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(q.Slots) != 0 {
		t.Errorf("queue length = %d, want 0", len(q.Slots))
	}
}

func TestBuild_ExcludesNotYetDue(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	due := vocab.NewWord("heute", vocab.SourceManual, base.Add(-time.Hour))
	if _, _, err := s.Words().Add(ctx, due); err != nil {
		t.Fatalf("add: %v", err)
	}
	later := vocab.NewWord("morgen", vocab.SourceManual, base.Add(48*time.Hour))
	if _, _, err := s.Words().Add(ctx, later); err != nil {
		t.Fatalf("add: %v", err)
	}

	q, err := NewPlanner(s.Words(), 10, 0.5).Build(ctx, base)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	words := q.Words()
	if len(words) != 1 || words[0].Text != "heute" {
		t.Errorf("queue = %d words, want only the due one", len(words))
	}
}
