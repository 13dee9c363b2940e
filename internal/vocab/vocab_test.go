package vocab

import (
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Hello", "hello"},
		{"  world  ", "world"},
		{"\tMiTTagessen\n", "mittagessen"},
		{"déjà", "déjà"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNewWordDefaults(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	w := NewWord("  Haus ", SourceLookup, now)

	if w.Text != "haus" {
		t.Errorf("text = %q, want %q", w.Text, "haus")
	}
	if w.Status != StatusNew {
		t.Errorf("status = %q, want %q", w.Status, StatusNew)
	}
	if !w.NextReviewAt.Equal(now) {
		t.Errorf("nextReviewAt = %v, want creation time %v", w.NextReviewAt, now)
	}
	if w.Reviewed() {
		t.Error("fresh word reports Reviewed() = true")
	}
	if w.Modal == nil {
		t.Error("fresh word should carry modality counters")
	}
	if w.Source != SourceLookup {
		t.Errorf("source = %q, want %q", w.Source, SourceLookup)
	}
}

func TestParseModality(t *testing.T) {
	cases := []struct {
		in      string
		want    Modality
		wantErr bool
	}{
		{"translation", ModalityTranslation, false},
		{"matching", ModalityMatching, false},
		{"lesson", ModalityLesson, false},
		{"listening", ModalityLesson, false},
		{"fill-blank", ModalityLesson, false},
		{"osmosis", 0, true},
		{"", 0, true},
	}
	for _, c := range cases {
		got, err := ParseModality(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseModality(%q): expected error", c.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseModality(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseModality(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestModalityCounters(t *testing.T) {
	var c ModalityCounters

	c.Record(ModalityTranslation, true)
	c.Record(ModalityTranslation, true)
	c.Record(ModalityTranslation, false)
	c.Record(ModalityLesson, true)

	if got := c.Attempts(ModalityTranslation); got != 3 {
		t.Errorf("translation attempts = %d, want 3", got)
	}
	acc, ok := c.Accuracy(ModalityTranslation)
	if !ok {
		t.Fatal("translation accuracy reported as unpracticed")
	}
	if want := 2.0 / 3.0; acc != want {
		t.Errorf("translation accuracy = %f, want %f", acc, want)
	}
	if _, ok := c.Accuracy(ModalityMatching); ok {
		t.Error("matching accuracy should report unpracticed")
	}
	if got := c.Practiced(); got != 2 {
		t.Errorf("practiced modalities = %d, want 2", got)
	}
}

func TestModalityCountersIgnoreInvalid(t *testing.T) {
	var c ModalityCounters
	c.Record(Modality(99), true)
	if got := c.Practiced(); got != 0 {
		t.Errorf("practiced = %d after invalid record, want 0", got)
	}
	if got := c.Attempts(Modality(-1)); got != 0 {
		t.Errorf("attempts for invalid modality = %d, want 0", got)
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []Status{StatusNew, StatusLearning, StatusKnown} {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = false", s)
		}
	}
	if ValidStatus("mastered") {
		t.Error(`ValidStatus("mastered") = true`)
	}
}
