package core

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownTable is returned for a table name that is not registered
	// or does not accept imports.
	ErrUnknownTable = errors.New("unknown table")

	// ErrSchemaMismatch is returned when a live table lacks declared columns.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrShortRow is returned by extractors given fewer fields than they read.
	ErrShortRow = errors.New("short row")

	// ErrBadInteger is returned when an integer field does not parse.
	ErrBadInteger = errors.New("invalid integer")
)

// InterruptedError reports an import that was interrupted by the operator
// and rolled back.
type InterruptedError struct {
	Cause  error // why the run context was cancelled
	Line   int   // last line consumed before the interruption
	Rolled bool  // whether the rollback itself succeeded
}

func (e *InterruptedError) Error() string {
	return fmt.Sprintf("import interrupted after line %d: %v", e.Line, e.Cause)
}

func (e *InterruptedError) Unwrap() error {
	return e.Cause
}

// RowError reports a row, or batch of rows, that could not be imported.
type RowError struct {
	FirstLine int
	LastLine  int
	Err       error
}

func (e *RowError) Error() string {
	if e.LastLine > e.FirstLine {
		return fmt.Sprintf("lines %d-%d: %v", e.FirstLine, e.LastLine, e.Err)
	}
	return fmt.Sprintf("line %d: %v", e.FirstLine, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// IsInterrupted reports whether err is an InterruptedError.
func IsInterrupted(err error) bool {
	var ie *InterruptedError
	return errors.As(err, &ie)
}
