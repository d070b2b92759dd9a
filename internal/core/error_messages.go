package core

// # Error Codes Reference
//
// Diagnose maps technical errors to an operator-facing message, an action
// and a code. Codes are grouped by category:
//
//	CFG001 - Access denied (MySQL 1045)
//	CFG002 - Unknown database (MySQL 1049)
//	CFG003 - Connection refused / host unreachable
//	CFG004 - Invalid configuration value
//
//	SCH001 - Table already exists (MySQL 1050); create was run before
//	SCH002 - Table missing (MySQL 1146); run create first
//	SCH003 - Live table lacks declared columns
//	SCH004 - Unknown table name
//
//	ROW001 - Duplicate key (MySQL 1062)
//	ROW002 - Incorrect value for a typed column (MySQL 1366, 1264, 1406)
//	ROW003 - Row could not be extracted (short row, bad integer)
//
//	INT001 - Import interrupted by the operator and rolled back
//
//	ERR000 - Anything else
//
// MySQL errors are matched by error number first; other errors fall back
// to case-insensitive substring patterns, first match wins.

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// Category groups error codes.
type Category string

const (
	CategoryConfig      Category = "CFG"
	CategorySchema      Category = "SCH"
	CategoryRow         Category = "ROW"
	CategoryInterrupted Category = "INT"
	CategoryUnknown     Category = "ERR"
)

// Diagnosis is operator-facing information about an error.
type Diagnosis struct {
	Category Category
	Code     string
	Message  string
	Action   string
}

// String formats the diagnosis for terminal output.
func (d Diagnosis) String() string {
	if d.Code == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", d.Message, d.Code, d.Action)
}

var (
	diagAccessDenied = Diagnosis{CategoryConfig, "CFG001", "Access denied", "Check --user and --password"}
	diagUnknownDB    = Diagnosis{CategoryConfig, "CFG002", "Database does not exist", "Create the database or fix --database"}
	diagUnreachable  = Diagnosis{CategoryConfig, "CFG003", "Unable to reach the database server", "Check --host and --port"}
	diagBadConfig    = Diagnosis{CategoryConfig, "CFG004", "Invalid configuration", "Fix the reported settings"}
	diagTableExists  = Diagnosis{CategorySchema, "SCH001", "Tables already exist", "create runs once; drop the tables before re-running it"}
	diagTableMissing = Diagnosis{CategorySchema, "SCH002", "Table does not exist", "Run create before importing"}
	diagMismatch     = Diagnosis{CategorySchema, "SCH003", "Table does not match the expected schema", "Recreate the table with create"}
	diagUnknownTable = Diagnosis{CategorySchema, "SCH004", "Unknown table", "Use one of: lexicon, source, text"}
	diagDuplicate    = Diagnosis{CategoryRow, "ROW001", "A row with this ID already exists", "Remove duplicates or import with --on-error skip"}
	diagBadValue     = Diagnosis{CategoryRow, "ROW002", "A value does not fit its column", "Check the reported line or import with --on-error skip"}
	diagBadRow       = Diagnosis{CategoryRow, "ROW003", "A row could not be parsed", "Check the reported line or import with --on-error skip"}
	diagInterrupted  = Diagnosis{CategoryInterrupted, "INT001", "Import interrupted", "Nothing was committed; re-run the import"}
	defaultDiagnosis = Diagnosis{CategoryUnknown, "ERR000", "An unexpected error occurred", "See the log for details"}
)

var mysqlDiagnoses = map[uint16]Diagnosis{
	1045: diagAccessDenied,
	1049: diagUnknownDB,
	1050: diagTableExists,
	1146: diagTableMissing,
	1062: diagDuplicate,
	1264: diagBadValue,
	1366: diagBadValue,
	1406: diagBadValue,
}

type errorPattern struct {
	pattern string
	diag    Diagnosis
}

// Patterns cover drivers and layers that do not expose MySQL error numbers.
var errorPatterns = []errorPattern{
	{"access denied", diagAccessDenied},
	{"unknown database", diagUnknownDB},
	{"connection refused", diagUnreachable},
	{"no such host", diagUnreachable},
	{"i/o timeout", diagUnreachable},
	{"config validation", diagBadConfig},
	{"already exists", diagTableExists},
	{"doesn't exist", diagTableMissing},
	{"no such table", diagTableMissing},
	{"duplicate entry", diagDuplicate},
	{"unique constraint", diagDuplicate},
	{"incorrect integer value", diagBadValue},
	{"out of range", diagBadValue},
	{"data too long", diagBadValue},
}

// Diagnose maps err to a Diagnosis. A nil error yields the zero value.
func Diagnose(err error) Diagnosis {
	if err == nil {
		return Diagnosis{}
	}

	if IsInterrupted(err) {
		return diagInterrupted
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		if d, ok := mysqlDiagnoses[myErr.Number]; ok {
			return d
		}
	}

	switch {
	case errors.Is(err, ErrUnknownTable):
		return diagUnknownTable
	case errors.Is(err, ErrSchemaMismatch):
		return diagMismatch
	case errors.Is(err, ErrShortRow), errors.Is(err, ErrBadInteger):
		return diagBadRow
	}

	lower := strings.ToLower(err.Error())
	for _, p := range errorPatterns {
		if strings.Contains(lower, p.pattern) {
			return p.diag
		}
	}

	return defaultDiagnosis
}
