package core

// convert.go provides conversions from raw corpus fields to column values.
//
// Corpus fields arrive as untyped strings, often with stray whitespace or a
// trailing carriage return. Integer columns other than IDs are nullable, so
// an empty field becomes NULL rather than an error.

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// CleanField trims surrounding whitespace, including \r from CRLF files.
func CleanField(s string) string {
	return strings.TrimSpace(s)
}

// ParseID parses a required integer identifier.
func ParseID(column, s string) (int64, error) {
	s = CleanField(s)
	if s == "" {
		return 0, fmt.Errorf("%w for %s: empty", ErrBadInteger, column)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w for %s: %q", ErrBadInteger, column, s)
	}
	return n, nil
}

// ParseNullInt parses an optional integer; empty input is NULL.
func ParseNullInt(column, s string) (sql.NullInt64, error) {
	s = CleanField(s)
	if s == "" {
		return sql.NullInt64{}, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return sql.NullInt64{}, fmt.Errorf("%w for %s: %q", ErrBadInteger, column, s)
	}
	return sql.NullInt64{Int64: n, Valid: true}, nil
}

// RequireFields returns ErrShortRow when fields has fewer than n entries.
func RequireFields(fields []string, n int) error {
	if len(fields) < n {
		return fmt.Errorf("%w: need %d fields, got %d", ErrShortRow, n, len(fields))
	}
	return nil
}
