// Package app wires the engine together and exposes it as one facade. Every
// surface (the CLI, a host UI) talks to an Engine; nothing below this
// package is reached directly.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/KyryloOleynik/wordvault/internal/config"
	"github.com/KyryloOleynik/wordvault/internal/enrich"
	"github.com/KyryloOleynik/wordvault/internal/review"
	"github.com/KyryloOleynik/wordvault/internal/session"
	"github.com/KyryloOleynik/wordvault/internal/spacedrep"
	"github.com/KyryloOleynik/wordvault/internal/store"
	"github.com/KyryloOleynik/wordvault/internal/vocab"
)

// Options configures a new Engine.
type Options struct {
	// Config supplies runtime settings. Nil means built-in defaults.
	Config *config.Config
	// Logger receives operational logging. Nil means slog.Default().
	Logger *slog.Logger
}

// Engine is the application facade.
//
// When the store cannot be opened the engine runs degraded instead of
// failing construction: reads serve empty results and writes return an
// error wrapping store.ErrStoreUnavailable. Err reports why.
type Engine struct {
	store    *store.Store
	sched    *spacedrep.Scheduler
	reviews  *review.Service
	planner  *session.Planner
	importer *store.Importer

	log *slog.Logger
	now func() time.Time
	err error
}

// New builds the engine. It never fails: a store that cannot open yields a
// degraded engine, mirroring how the rest of the app treats persistence as
// optional on platforms without it.
func New(opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = &config.Config{
			BatchSize: store.DefaultImportBatchSize,
			QueueSize: session.DefaultQueueSize,
			NewShare:  session.DefaultNewShare,
		}
	}

	e := &Engine{
		sched: spacedrep.New(spacedrep.DefaultParams()),
		log:   log,
		now:   time.Now,
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			e.err = fmt.Errorf("resolve database path: %v: %w", err, store.ErrStoreUnavailable)
			log.Warn("store unavailable, running degraded", "error", e.err)
			return e
		}
		dbPath = p
	}
	if !strings.HasPrefix(dbPath, "file:") && dbPath != ":memory:" {
		// Best effort; Open reports the real failure.
		_ = store.EnsureDir(dbPath)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		e.err = err
		log.Warn("store unavailable, running degraded", "path", dbPath, "error", err)
		return e
	}

	e.store = st
	e.reviews = review.NewService(st, e.sched)
	e.planner = session.NewPlanner(st.Words(), cfg.QueueSize, cfg.NewShare)
	e.importer = store.NewImporter(st, cfg.BatchSize, log)
	return e
}

// Close releases the engine's resources.
func (e *Engine) Close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}

// Degraded reports whether the engine runs without persistence.
func (e *Engine) Degraded() bool { return e.store == nil }

// Err returns why the engine is degraded, or nil.
func (e *Engine) Err() error { return e.err }

func (e *Engine) unavailable(op string) error {
	return fmt.Errorf("%s: %w", op, store.ErrStoreUnavailable)
}

// AddWord creates a word, or returns the existing row when the normalized
// text is already present.
func (e *Engine) AddWord(ctx context.Context, text string, source vocab.Source) (*vocab.Word, bool, error) {
	if e.store == nil {
		return nil, false, e.unavailable("add word")
	}
	if vocab.Normalize(text) == "" {
		return nil, false, fmt.Errorf("add word: empty text")
	}
	return e.store.Words().Add(ctx, vocab.NewWord(text, source, e.now()))
}

// Words returns the whole vocabulary.
func (e *Engine) Words(ctx context.Context) ([]*vocab.Word, error) {
	if e.store == nil {
		return nil, nil
	}
	return e.store.Words().GetAll(ctx)
}

// Word looks a word up by text.
func (e *Engine) Word(ctx context.Context, text string) (*vocab.Word, error) {
	if e.store == nil {
		return nil, fmt.Errorf("word %q: %w", text, vocab.ErrNotFound)
	}
	return e.store.Words().GetByText(ctx, text)
}

// Search returns up to limit words matching the prefix.
func (e *Engine) Search(ctx context.Context, prefix string, limit int) ([]*vocab.Word, error) {
	if e.store == nil {
		return nil, nil
	}
	return e.store.Words().Search(ctx, prefix, limit)
}

// Due returns up to limit due words, new words first.
func (e *Engine) Due(ctx context.Context, limit int) ([]*vocab.Word, error) {
	if e.store == nil {
		return nil, nil
	}
	return e.store.Words().Due(ctx, e.now(), limit)
}

// Queue builds the practice queue: due reviews mixed with a capped share of
// new words.
func (e *Engine) Queue(ctx context.Context) (*session.Queue, error) {
	if e.store == nil {
		return &session.Queue{}, nil
	}
	return e.planner.Build(ctx, e.now())
}

// GradeWord records a graded review of the word with the given text.
func (e *Engine) GradeWord(ctx context.Context, text string, out review.Outcome) (*vocab.Word, error) {
	if e.store == nil {
		return nil, e.unavailable("grade word")
	}
	w, err := e.store.Words().GetByText(ctx, text)
	if err != nil {
		return nil, err
	}
	return e.reviews.GradeWord(ctx, w.ID, out, e.now())
}

// DeleteWord removes the word with the given text. Its review history
// cascades with it.
func (e *Engine) DeleteWord(ctx context.Context, text string) error {
	if e.store == nil {
		return e.unavailable("delete word")
	}
	w, err := e.store.Words().GetByText(ctx, text)
	if err != nil {
		return err
	}
	return e.store.Words().Delete(ctx, w.ID)
}

// History returns the word's most recent reviews, newest first.
func (e *Engine) History(ctx context.Context, text string, limit int) ([]*store.ReviewLog, error) {
	if e.store == nil {
		return nil, nil
	}
	w, err := e.store.Words().GetByText(ctx, text)
	if err != nil {
		return nil, err
	}
	return e.store.ReviewLogs().ListByWord(ctx, w.ID, limit)
}

// Enrich validates the payload and applies its non-empty fields to the
// matching word. Reports whether anything changed.
func (e *Engine) Enrich(ctx context.Context, p *enrich.Payload) (*vocab.Word, bool, error) {
	if e.store == nil {
		return nil, false, e.unavailable("enrich word")
	}
	if err := p.Validate(); err != nil {
		return nil, false, &enrich.ErrInvalidPayload{Err: err}
	}

	var (
		w       *vocab.Word
		changed bool
	)
	err := e.store.InTx(ctx, func(tx *sql.Tx) error {
		words := e.store.Words().WithTx(tx)
		var err error
		w, err = words.GetByText(ctx, p.Text)
		if err != nil {
			return err
		}
		if changed = enrich.Apply(w, p); !changed {
			return nil
		}
		return words.Save(ctx, w, e.now())
	})
	if err != nil {
		return nil, false, err
	}
	return w, changed, nil
}

// Import runs the one-time legacy export import.
func (e *Engine) Import(ctx context.Context, r io.Reader) (store.ImportStats, error) {
	if e.store == nil {
		return store.ImportStats{}, e.unavailable("import")
	}
	return e.importer.Run(ctx, r, e.now())
}

// Stats returns collection statistics.
func (e *Engine) Stats(ctx context.Context) (*store.Stats, error) {
	if e.store == nil {
		return &store.Stats{ByStatus: map[vocab.Status]int{}}, nil
	}
	return e.store.Stats(ctx, e.now())
}

// ReviewsToday returns how many reviews were logged since local midnight.
func (e *Engine) ReviewsToday(ctx context.Context) (int, error) {
	if e.store == nil {
		return 0, nil
	}
	now := e.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return e.store.ReviewLogs().CountSince(ctx, midnight)
}

// AddConcept creates a grammar concept, or returns the existing row when
// the normalized name is already present.
func (e *Engine) AddConcept(ctx context.Context, name, description string) (*vocab.GrammarConcept, bool, error) {
	if e.store == nil {
		return nil, false, e.unavailable("add concept")
	}
	if vocab.Normalize(name) == "" {
		return nil, false, fmt.Errorf("add concept: empty name")
	}
	c := vocab.NewGrammarConcept(name, e.now())
	c.Description = description
	return e.store.Grammar().Add(ctx, c)
}

// Concepts returns all grammar concepts.
func (e *Engine) Concepts(ctx context.Context) ([]*vocab.GrammarConcept, error) {
	if e.store == nil {
		return nil, nil
	}
	return e.store.Grammar().GetAll(ctx)
}

// DueConcepts returns up to limit grammar concepts due for practice.
func (e *Engine) DueConcepts(ctx context.Context, limit int) ([]*vocab.GrammarConcept, error) {
	if e.store == nil {
		return nil, nil
	}
	return e.store.Grammar().Due(ctx, e.now(), limit)
}

// GradeConcept records a graded review of the named grammar concept.
func (e *Engine) GradeConcept(ctx context.Context, name string, g spacedrep.Grade) (*vocab.GrammarConcept, error) {
	if e.store == nil {
		return nil, e.unavailable("grade concept")
	}
	c, err := e.store.Grammar().GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return e.reviews.GradeConcept(ctx, c.ID, g, e.now())
}
