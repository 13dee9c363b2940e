package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KyryloOleynik/wordvault/internal/vocab"
)

func TestReviewLogs_AppendAndListNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	w := mustAdd(t, s, vocab.NewWord("tisch", vocab.SourceManual, base))

	logs := s.ReviewLogs()
	for i, g := range []int{1, 3, 4} {
		err := logs.Append(ctx, &ReviewLog{
			WordID:      w.ID,
			Grade:       g,
			TimeTakenMs: int64(1000 + i),
			ReviewedAt:  base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	got, err := logs.ListByWord(ctx, w.ID, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("list returned %d logs, want 3", len(got))
	}
	if got[0].Grade != 4 || got[2].Grade != 1 {
		t.Errorf("order = [%d %d %d], want newest first [4 3 1]", got[0].Grade, got[1].Grade, got[2].Grade)
	}
	if got[0].TimeTakenMs != 1002 {
		t.Errorf("timeTakenMs = %d, want 1002", got[0].TimeTakenMs)
	}

	limited, err := logs.ListByWord(ctx, w.ID, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 {
		t.Errorf("list with limit 2 returned %d logs", len(limited))
	}
}

func TestReviewLogs_AppendRejectsBadGrade(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	w := mustAdd(t, s, vocab.NewWord("lampe", vocab.SourceManual, base))
	logs := s.ReviewLogs()

	for _, g := range []int{0, 5, -1} {
		err := logs.Append(ctx, &ReviewLog{WordID: w.ID, Grade: g, ReviewedAt: base})
		if !errors.Is(err, vocab.ErrInvalidGrade) {
			t.Errorf("grade %d: err = %v, want ErrInvalidGrade", g, err)
		}
	}

	got, err := logs.ListByWord(ctx, w.ID, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("rejected grades left %d rows behind", len(got))
	}
}

func TestReviewLogs_CountSinceBoundary(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	w := mustAdd(t, s, vocab.NewWord("stuhl", vocab.SourceManual, base))
	logs := s.ReviewLogs()

	for _, at := range []time.Time{base.Add(-2 * time.Hour), base, base.Add(time.Hour)} {
		if err := logs.Append(ctx, &ReviewLog{WordID: w.ID, Grade: 3, ReviewedAt: at}); err != nil {
			t.Fatal(err)
		}
	}

	n, err := logs.CountSince(ctx, base)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("count since base = %d, want 2 (boundary inclusive)", n)
	}
}
