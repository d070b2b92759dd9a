package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/corpusimport/internal/logging"
)

// ImportOptions configures an import run.
type ImportOptions struct {
	// BatchSize is the number of records per INSERT. Values below 1 mean 1.
	BatchSize int

	// OnError selects the row-error policy. Empty means PolicyAbort.
	OnError ErrorPolicy

	// Progress, when set, is called after every row and at phase changes.
	Progress ProgressCallback

	// RunID identifies the run in logs and the result. Generated when empty.
	RunID string
}

// Importer streams corpus files into registered tables.
type Importer struct {
	db   *sql.DB
	opts ImportOptions
}

// NewImporter returns an importer writing through db.
func NewImporter(db *sql.DB, opts ImportOptions) *Importer {
	if opts.BatchSize < 1 {
		opts.BatchSize = 1
	}
	if opts.OnError == "" {
		opts.OnError = PolicyAbort
	}
	return &Importer{db: db, opts: opts}
}

// Import loads the file at path into table inside one transaction.
//
// The run commits only when the whole file has been consumed. When ctx is
// cancelled the transaction is rolled back and an *InterruptedError carrying
// context.Cause(ctx) is returned together with the partial result.
// Cancellation is observed between rows; statements run on a context that
// is never cancelled so the explicit rollback owns cleanup.
func (im *Importer) Import(ctx context.Context, table, path string) (*ImportResult, error) {
	start := time.Now()

	runID := im.opts.RunID
	if runID == "" {
		runID = uuid.New().String()
	}
	ctx = logging.WithRunID(ctx, runID)
	log := logging.WithFields(ctx, "table", table, "file", path)

	result := &ImportResult{RunID: runID, Table: table, File: path}
	defer func() { result.Duration = time.Since(start) }()

	def, ok := Get(table)
	if !ok || !def.Importable() {
		return result, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}

	// Statements must outlive an interrupt so they finish and roll back cleanly.
	dbCtx := context.WithoutCancel(ctx)

	if err := VerifyTable(dbCtx, im.db, def.Schema); err != nil {
		return result, err
	}

	src, err := OpenLineSource(path)
	if err != nil {
		return result, err
	}
	defer src.Close()

	progress := ImportProgress{RunID: runID, Table: table, Phase: PhaseStarting, BytesTotal: src.Size()}
	notify := func(phase ImportPhase, w *batchWriter) {
		if im.opts.Progress == nil {
			return
		}
		progress.Phase = phase
		progress.RowsRead = result.RowsRead
		progress.ShortRows = src.ShortRows()
		progress.BytesRead = src.BytesRead()
		if w != nil {
			progress.Inserted = w.inserted
			progress.Failed = len(w.failed)
		}
		im.opts.Progress(progress)
	}
	notify(PhaseStarting, nil)

	log.Info("import started", "batch_size", im.opts.BatchSize, "on_error", string(im.opts.OnError))

	tx, err := im.db.BeginTx(dbCtx, nil)
	if err != nil {
		notify(PhaseFailed, nil)
		return result, fmt.Errorf("begin transaction: %w", err)
	}
	finished := false
	defer func() {
		if !finished {
			_ = tx.Rollback()
		}
	}()

	w := newBatchWriter(tx, def.Schema, im.opts.BatchSize, im.opts.OnError)
	defer w.close()

	finish := func(phase ImportPhase, err error) (*ImportResult, error) {
		result.ShortRows = src.ShortRows()
		result.FailedRows = w.failed
		notify(phase, w)
		return result, err
	}

	interrupted := func() (*ImportResult, error) {
		rbErr := tx.Rollback()
		finished = true
		ie := &InterruptedError{Cause: context.Cause(ctx), Line: src.Lines(), Rolled: rbErr == nil}
		log.Warn("import interrupted, rolled back",
			"cause", ie.Cause, "line", ie.Line, "rows_read", result.RowsRead, "rollback_ok", ie.Rolled)
		return finish(PhaseInterrupted, ie)
	}

	fail := func(err error) (*ImportResult, error) {
		log.Error("import failed, rolled back", "error", err, "rows_read", result.RowsRead)
		return finish(PhaseFailed, err)
	}

	notify(PhaseInserting, w)

	for {
		if ctx.Err() != nil {
			return interrupted()
		}

		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fail(err)
		}
		result.RowsRead++

		rec, err := def.Extract(row.Fields)
		if err != nil {
			if im.opts.OnError != PolicySkip {
				return fail(&RowError{FirstLine: row.Line, LastLine: row.Line, Err: err})
			}
			w.reject(row, err)
			log.Debug("row rejected", "line", row.Line, "error", err)
			notify(PhaseInserting, w)
			continue
		}

		if err := w.add(dbCtx, row, rec); err != nil {
			return fail(err)
		}
		notify(PhaseInserting, w)
	}

	if err := w.flush(dbCtx); err != nil {
		return fail(err)
	}

	if ctx.Err() != nil {
		return interrupted()
	}

	w.close()
	if err := tx.Commit(); err != nil {
		return fail(fmt.Errorf("commit: %w", err))
	}
	finished = true
	result.Inserted = w.inserted
	result.Committed = true

	log.Info("import committed",
		"rows_read", result.RowsRead,
		"inserted", result.Inserted,
		"short_rows", src.ShortRows(),
		"failed_rows", len(w.failed),
		"duration", time.Since(start))

	return finish(PhaseCommitted, nil)
}
