// Package core loads tab-delimited corpus files into a MySQL database.
//
// It is independent of the CLI and can be driven from tests against any
// database/sql driver that accepts MySQL-style DDL with backtick quoting.
//
// # Table Registry
//
// Tables are registered at init time using [Register], normally by the
// tables subpackage. Each [TableDefinition] carries a static [TableSchema]
// from which DDL and INSERT statements are rendered, plus either an
// [ExtractFunc] for importable tables or a [SeedFunc] for fixed ones.
//
// # Schema Creation
//
// [CreateSchema] runs [SchemaPlan] on one pinned connection: every table
// followed by its indexes, then the seed rows. It is not idempotent.
//
// # Import
//
// [Importer.Import] verifies the live table, then streams rows from a
// [LineSource] through the table's extractor into one transaction:
//
//  1. Rows with fewer than [MinFields] fields are skipped and counted
//  2. Records are buffered and written BatchSize at a time
//  3. Row failures abort the run or, under [PolicySkip], are rolled back
//     to a savepoint and reported as [FailedRow]s
//  4. Cancelling the context rolls the transaction back and returns an
//     [InterruptedError] carrying the cancellation cause
//
// # Error Handling
//
// [Diagnose] maps technical errors to an operator-facing [Diagnosis] with a
// code: CFG (configuration), SCH (schema), ROW (row data), INT (interrupt).
package core
