package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/KyryloOleynik/wordvault/internal/vocab"
)

// legacyImportDoneKey marks a completed import in the meta table. The import
// runs exactly once per database; the flag is what enforces that.
const legacyImportDoneKey = "legacy_import_done"

// DefaultImportBatchSize is how many legacy records commit per transaction.
const DefaultImportBatchSize = 100

// legacyWord mirrors one record of the old app's flat JSON export.
// Timestamps are epoch milliseconds.
type legacyWord struct {
	Text           string   `json:"text"`
	Definition     string   `json:"definition"`
	Translation    string   `json:"translation"`
	CEFRLevel      string   `json:"cefrLevel"`
	Status         string   `json:"status"`
	TimesShown     int      `json:"timesShown"`
	TimesCorrect   int      `json:"timesCorrect"`
	TimesWrong     int      `json:"timesWrong"`
	SRSStability   *float64 `json:"srsStability"`
	SRSDifficulty  *float64 `json:"srsDifficulty"`
	LastReviewedAt *int64   `json:"lastReviewedAt"`
	NextReviewAt   *int64   `json:"nextReviewAt"`
	MasteryScore   float64  `json:"masteryScore"`
	Source         string   `json:"source"`
	CreatedAt      *int64   `json:"createdAt"`
	UpdatedAt      *int64   `json:"updatedAt"`
}

// ImportStats summarizes an import run.
type ImportStats struct {
	Imported    int
	Skipped     int
	Batches     int
	AlreadyDone bool
}

// Importer migrates a legacy flat-list export into the words table. Each
// batch commits in its own transaction, so a failure keeps completed batches
// and the whole run can simply be retried. Imported rows keep NULL modality
// counters: they stay on the aggregate-counter variant.
type Importer struct {
	store     *Store
	batchSize int
	log       *slog.Logger
}

// NewImporter creates an importer. A batchSize of 0 or less uses the default.
func NewImporter(s *Store, batchSize int, log *slog.Logger) *Importer {
	if batchSize <= 0 {
		batchSize = DefaultImportBatchSize
	}
	if log == nil {
		log = slog.Default()
	}
	return &Importer{store: s, batchSize: batchSize, log: log}
}

// Done reports whether a previous import completed.
func (im *Importer) Done(ctx context.Context) (bool, error) {
	return im.store.Meta().Flag(ctx, legacyImportDoneKey)
}

// Run reads the legacy export and imports it. Records whose normalized text
// already exists are skipped, which also makes a retried run converge
// instead of duplicating earlier batches.
func (im *Importer) Run(ctx context.Context, r io.Reader, now time.Time) (ImportStats, error) {
	var stats ImportStats

	done, err := im.Done(ctx)
	if err != nil {
		return stats, err
	}
	if done {
		stats.AlreadyDone = true
		return stats, nil
	}

	var records []legacyWord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return stats, fmt.Errorf("decode legacy export: %v: %w", err, ErrMigrationFailed)
	}

	for start := 0; start < len(records); start += im.batchSize {
		end := start + im.batchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		err := im.store.InTx(ctx, func(tx *sql.Tx) error {
			words := im.store.Words().WithTx(tx)
			for i := range batch {
				created, err := importOne(ctx, words, &batch[i], now)
				if err != nil {
					return err
				}
				if created {
					stats.Imported++
				} else {
					stats.Skipped++
				}
			}
			return nil
		})
		if err != nil {
			return stats, fmt.Errorf("import batch %d: %v: %w", stats.Batches+1, err, ErrMigrationFailed)
		}

		stats.Batches++
		im.log.Info("imported batch",
			"batch", stats.Batches,
			"records", len(batch),
			"imported", stats.Imported,
			"skipped", stats.Skipped,
		)
	}

	if err := im.store.Meta().SetFlag(ctx, legacyImportDoneKey); err != nil {
		return stats, fmt.Errorf("mark import done: %v: %w", err, ErrMigrationFailed)
	}
	return stats, nil
}

func importOne(ctx context.Context, words *WordRepo, rec *legacyWord, now time.Time) (bool, error) {
	if vocab.Normalize(rec.Text) == "" {
		return false, nil // nothing to key the row on
	}

	w := &vocab.Word{
		ID:           uuid.New(),
		Text:         rec.Text,
		Definition:   rec.Definition,
		Translation:  rec.Translation,
		CEFRLevel:    rec.CEFRLevel,
		Status:       vocab.Status(rec.Status),
		TimesShown:   rec.TimesShown,
		TimesCorrect: rec.TimesCorrect,
		TimesWrong:   rec.TimesWrong,
		Modal:        nil, // legacy rows never gain modality counters
		Stability:    rec.SRSStability,
		Difficulty:   rec.SRSDifficulty,
		MasteryScore: rec.MasteryScore,
		Source:       vocab.Source(rec.Source),
		NextReviewAt: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if !vocab.ValidStatus(w.Status) {
		w.Status = vocab.StatusNew
	}
	if w.Source == "" {
		w.Source = vocab.SourceManual
	}
	if rec.LastReviewedAt != nil {
		t := fromMillis(*rec.LastReviewedAt)
		w.LastReviewedAt = &t
	}
	if rec.NextReviewAt != nil {
		w.NextReviewAt = fromMillis(*rec.NextReviewAt)
	}
	if rec.CreatedAt != nil {
		w.CreatedAt = fromMillis(*rec.CreatedAt)
	}
	if rec.UpdatedAt != nil {
		w.UpdatedAt = fromMillis(*rec.UpdatedAt)
	}

	_, created, err := words.Add(ctx, w)
	if err != nil {
		return false, err
	}
	return created, nil
}
