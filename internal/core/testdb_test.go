package core_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/JonMunkholm/corpusimport/internal/core"
	_ "github.com/JonMunkholm/corpusimport/internal/core/tables"
)

// openTestDB returns an empty SQLite database in a temp dir.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "corpus.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Ping())
	return db
}

// createdTestDB returns a database with the full schema applied.
func createdTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db := openTestDB(t)
	require.NoError(t, core.CreateSchema(context.Background(), db))
	return db
}

func writeCorpus(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM `"+table+"`").Scan(&n))
	return n
}
