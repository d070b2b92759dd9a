package core

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is the interface for database operations.
// Satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Column is one statically declared table column.
type Column struct {
	Name          string // column name as created
	Type          string // MySQL column type, e.g. "text", "varchar(255)", "int(4)"
	Nullable      bool
	PrimaryKey    bool
	AutoIncrement bool
}

// Index is a non-unique secondary index.
type Index struct {
	Name    string
	Columns []string
}

// TableSchema declares a table's columns and secondary indexes.
// Record values are bound to Columns positionally.
type TableSchema struct {
	Name    string
	Columns []Column
	Indexes []Index
}

// ColumnNames returns the column names in declaration order.
func (s TableSchema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Record is one row destined for a table. Values must be returned in the
// order of the table's Columns.
type Record interface {
	Values() []any
}

// ExtractFunc maps the fields of one parsed row to a record.
type ExtractFunc func(fields []string) (Record, error)

// SeedFunc returns the fixed rows a table is populated with at creation.
type SeedFunc func() []Record

// TableDefinition contains everything needed to create and fill a table.
type TableDefinition struct {
	Schema TableSchema

	// Order fixes the creation sequence; lower values are created first.
	Order int

	// Extract is set for tables that accept imports.
	Extract ExtractFunc

	// Seed is set for tables populated once at creation.
	Seed SeedFunc
}

// Name returns the table name.
func (t TableDefinition) Name() string {
	return t.Schema.Name
}

// Importable reports whether rows can be imported into the table.
func (t TableDefinition) Importable() bool {
	return t.Extract != nil
}

// ImportPhase indicates the current stage of an import run.
type ImportPhase string

const (
	PhaseStarting    ImportPhase = "starting"
	PhaseInserting   ImportPhase = "inserting"
	PhaseCommitted   ImportPhase = "committed"
	PhaseFailed      ImportPhase = "failed"
	PhaseInterrupted ImportPhase = "interrupted"
)

// ImportProgress represents the current state of an import run.
type ImportProgress struct {
	RunID      string
	Table      string
	Phase      ImportPhase
	RowsRead   int   // rows yielded by the line source
	Inserted   int   // rows written inside the open transaction
	ShortRows  int   // rows dropped for having too few fields
	Failed     int   // rows rejected under the skip policy
	BytesRead  int64 // raw bytes consumed from the file
	BytesTotal int64 // file size, 0 if unknown
}

// Percent returns byte-based progress (0-100), or 0 when the size is unknown.
func (p ImportProgress) Percent() int {
	if p.BytesTotal <= 0 {
		return 0
	}
	return int(p.BytesRead * 100 / p.BytesTotal)
}

// ProgressCallback is called as rows are processed.
type ProgressCallback func(ImportProgress)

// FailedRow contains information about a row that could not be imported.
type FailedRow struct {
	Line   int
	Reason string
	Fields []string
}

// ImportResult contains the final result of an import run.
type ImportResult struct {
	RunID      string
	Table      string
	File       string
	RowsRead   int
	Inserted   int // committed rows; zero unless the run committed
	ShortRows  int
	FailedRows []FailedRow
	Duration   time.Duration
	Committed  bool
}
