package core

import (
	"context"
	"database/sql"
	"fmt"
)

// MaxPlaceholders is the MySQL limit on bound parameters per statement.
const MaxPlaceholders = 65535

// ErrorPolicy decides what happens to a row that fails to import.
type ErrorPolicy string

const (
	// PolicyAbort rolls back the whole run on the first failing row.
	PolicyAbort ErrorPolicy = "abort"
	// PolicySkip rolls back only the failing row and continues.
	PolicySkip ErrorPolicy = "skip"
)

// ParsePolicy parses "abort" or "skip".
func ParsePolicy(s string) (ErrorPolicy, error) {
	switch p := ErrorPolicy(s); p {
	case PolicyAbort, PolicySkip:
		return p, nil
	case "":
		return PolicyAbort, nil
	default:
		return "", fmt.Errorf("unknown error policy %q (want abort or skip)", s)
	}
}

type pendingRow struct {
	row Row
	rec Record
}

// batchWriter buffers records and writes them as multi-row INSERTs inside
// one transaction. Under PolicySkip every statement runs under a savepoint
// and a failing batch is replayed row by row.
type batchWriter struct {
	tx      *sql.Tx
	schema  TableSchema
	size    int
	policy  ErrorPolicy
	pending []pendingRow
	stmts   map[int]*sql.Stmt
	spSeq   int

	inserted int
	failed   []FailedRow
}

func newBatchWriter(tx *sql.Tx, schema TableSchema, size int, policy ErrorPolicy) *batchWriter {
	if size <= 0 {
		size = 1
	}
	if limit := MaxPlaceholders / len(schema.Columns); size > limit {
		size = limit
	}
	return &batchWriter{
		tx:      tx,
		schema:  schema,
		size:    size,
		policy:  policy,
		pending: make([]pendingRow, 0, size),
		stmts:   make(map[int]*sql.Stmt),
	}
}

// add buffers a record, flushing when the batch is full.
func (w *batchWriter) add(ctx context.Context, row Row, rec Record) error {
	w.pending = append(w.pending, pendingRow{row: row, rec: rec})
	if len(w.pending) >= w.size {
		return w.flush(ctx)
	}
	return nil
}

// reject records a row that was not imported.
func (w *batchWriter) reject(row Row, err error) {
	w.failed = append(w.failed, FailedRow{
		Line:   row.Line,
		Reason: err.Error(),
		Fields: append([]string(nil), row.Fields...),
	})
}

// flush writes all buffered records.
func (w *batchWriter) flush(ctx context.Context) error {
	if len(w.pending) == 0 {
		return nil
	}
	batch := w.pending
	w.pending = make([]pendingRow, 0, w.size)

	if w.policy != PolicySkip {
		if err := w.exec(ctx, batch); err != nil {
			return &RowError{FirstLine: batch[0].row.Line, LastLine: batch[len(batch)-1].row.Line, Err: err}
		}
		w.inserted += len(batch)
		return nil
	}

	rowErr, err := w.guarded(ctx, batch)
	if err != nil {
		return err
	}
	if rowErr == nil {
		w.inserted += len(batch)
		return nil
	}
	if len(batch) == 1 {
		w.reject(batch[0].row, rowErr)
		return nil
	}

	// Replay row by row to isolate the failures.
	for _, p := range batch {
		rowErr, err := w.guarded(ctx, []pendingRow{p})
		if err != nil {
			return err
		}
		if rowErr != nil {
			w.reject(p.row, rowErr)
			continue
		}
		w.inserted++
	}
	return nil
}

// guarded executes batch under a savepoint, rolling back to it when the
// insert fails. The insert error is returned as rowErr; err is set only when
// the savepoint itself could not be created, which ends the run.
func (w *batchWriter) guarded(ctx context.Context, batch []pendingRow) (rowErr, err error) {
	w.spSeq++
	sp := fmt.Sprintf("sp_%d", w.spSeq)

	if _, err := w.tx.ExecContext(ctx, "SAVEPOINT "+sp); err != nil {
		return nil, fmt.Errorf("create savepoint: %w", err)
	}

	if rowErr := w.exec(ctx, batch); rowErr != nil {
		if _, err := w.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+sp); err != nil {
			return nil, fmt.Errorf("rollback to savepoint: %w", err)
		}
		return rowErr, nil
	}

	_, _ = w.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+sp)
	return nil, nil
}

// exec runs one multi-row INSERT for batch.
func (w *batchWriter) exec(ctx context.Context, batch []pendingRow) error {
	stmt, err := w.stmt(ctx, len(batch))
	if err != nil {
		return err
	}

	args := make([]any, 0, len(batch)*len(w.schema.Columns))
	for _, p := range batch {
		args = append(args, p.rec.Values()...)
	}

	_, err = stmt.ExecContext(ctx, args...)
	return err
}

// stmt returns a prepared INSERT for n rows, preparing it on first use.
func (w *batchWriter) stmt(ctx context.Context, n int) (*sql.Stmt, error) {
	if s, ok := w.stmts[n]; ok {
		return s, nil
	}
	s, err := w.tx.PrepareContext(ctx, insertSQL(w.schema, n))
	if err != nil {
		return nil, fmt.Errorf("prepare insert into %s: %w", w.schema.Name, err)
	}
	w.stmts[n] = s
	return s, nil
}

// close releases prepared statements.
func (w *batchWriter) close() {
	for n, s := range w.stmts {
		s.Close()
		delete(w.stmts, n)
	}
}
