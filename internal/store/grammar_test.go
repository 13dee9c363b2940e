package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/KyryloOleynik/wordvault/internal/vocab"
)

func TestGrammar_AddAndGetByName(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	g := vocab.NewGrammarConcept("  Dative Case ", base)
	g.Description = "indirect objects"
	g.Examples = []string{"Ich gebe dem Mann das Buch."}

	added, created, err := s.Grammar().Add(ctx, g)
	if err != nil {
		t.Fatal(err)
	}
	if !created {
		t.Fatal("expected a fresh insert")
	}

	got, err := s.Grammar().GetByName(ctx, "DATIVE case")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != added.ID {
		t.Errorf("id = %s, want %s", got.ID, added.ID)
	}
	if got.Name != "dative case" {
		t.Errorf("name = %q, want %q", got.Name, "dative case")
	}
	if len(got.Examples) != 1 || got.Examples[0] != "Ich gebe dem Mann das Buch." {
		t.Errorf("examples = %v, lost on round trip", got.Examples)
	}
}

func TestGrammar_AddDuplicateReturnsExisting(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, _, err := s.Grammar().Add(ctx, vocab.NewGrammarConcept("akkusativ", base))
	if err != nil {
		t.Fatal(err)
	}

	dup, created, err := s.Grammar().Add(ctx, vocab.NewGrammarConcept("  AKKUSATIV ", base))
	if err != nil {
		t.Fatal(err)
	}
	if created {
		t.Error("duplicate add reported created = true")
	}
	if dup.ID != first.ID {
		t.Errorf("duplicate id = %s, want original %s", dup.ID, first.ID)
	}
}

func TestGrammar_SaveRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	g := vocab.NewGrammarConcept("plural", base)
	if _, _, err := s.Grammar().Add(ctx, g); err != nil {
		t.Fatal(err)
	}

	stability := 4.5
	last := base.Add(-time.Hour)
	g.Status = vocab.StatusLearning
	g.PracticeCount, g.ErrorCount = 6, 2
	g.Stability, g.LastReviewedAt = &stability, &last
	g.Examples = []string{"die Bücher", "die Häuser"}

	if err := s.Grammar().Save(ctx, g, base.Add(time.Minute)); err != nil {
		t.Fatal(err)
	}

	got, err := s.Grammar().GetByID(ctx, g.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.PracticeCount != 6 || got.ErrorCount != 2 {
		t.Errorf("counters = (%d, %d), want (6, 2)", got.PracticeCount, got.ErrorCount)
	}
	if got.CorrectCount() != 4 {
		t.Errorf("correct count = %d, want 4", got.CorrectCount())
	}
	if got.Stability == nil || *got.Stability != 4.5 {
		t.Errorf("stability = %v, want 4.5", got.Stability)
	}
	if len(got.Examples) != 2 {
		t.Errorf("examples = %v, want 2 entries", got.Examples)
	}
	if !got.UpdatedAt.Equal(base.Add(time.Minute)) {
		t.Errorf("updatedAt = %v, want %v", got.UpdatedAt, base.Add(time.Minute))
	}
}

func TestGrammar_DueOrdering(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	put := func(name string, status vocab.Status, next time.Time) {
		g := vocab.NewGrammarConcept(name, base.Add(-24*time.Hour))
		g.Status = status
		g.NextReviewAt = next
		if _, _, err := s.Grammar().Add(ctx, g); err != nil {
			t.Fatal(err)
		}
	}

	put("zukunft", vocab.StatusNew, base.Add(-time.Hour))
	put("artikel", vocab.StatusLearning, base.Add(-2*time.Hour))
	put("konjunktiv", vocab.StatusKnown, base.Add(time.Hour)) // not due

	due, err := s.Grammar().Due(ctx, base, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(due) != 2 {
		t.Fatalf("due returned %d concepts, want 2", len(due))
	}
	if due[0].Name != "zukunft" || due[1].Name != "artikel" {
		t.Errorf("due order = [%s %s], want new first", due[0].Name, due[1].Name)
	}
}

func TestGrammar_DeleteAndNotFound(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	g := vocab.NewGrammarConcept("genitiv", base)
	if _, _, err := s.Grammar().Add(ctx, g); err != nil {
		t.Fatal(err)
	}
	if err := s.Grammar().Delete(ctx, g.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Grammar().GetByID(ctx, g.ID); !errors.Is(err, vocab.ErrNotFound) {
		t.Errorf("get after delete = %v, want ErrNotFound", err)
	}
	if err := s.Grammar().Delete(ctx, uuid.New()); !errors.Is(err, vocab.ErrNotFound) {
		t.Errorf("delete missing = %v, want ErrNotFound", err)
	}
}
