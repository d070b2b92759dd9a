package core

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// Statement is one step of schema creation.
type Statement struct {
	Label string // what the step does, used in errors and logs
	SQL   string
	Args  []any
}

// String renders the statement with its arguments inlined, for dry runs.
func (s Statement) String() string {
	if len(s.Args) == 0 {
		return s.SQL + ";"
	}

	var b strings.Builder
	args := s.Args
	for _, r := range s.SQL {
		if r == '?' && len(args) > 0 {
			b.WriteString(literal(args[0]))
			args = args[1:]
			continue
		}
		b.WriteRune(r)
	}
	b.WriteString(";")
	return b.String()
}

// literal renders a value as a SQL literal.
func literal(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case string:
		return "'" + strings.ReplaceAll(x, "'", "''") + "'"
	case sql.NullInt64:
		if !x.Valid {
			return "NULL"
		}
		return strconv.FormatInt(x.Int64, 10)
	default:
		return fmt.Sprintf("'%v'", x)
	}
}

// quoteIdent quotes a MySQL identifier.
func quoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// Definition renders the column definition used in CREATE TABLE.
func (c Column) Definition() string {
	var b strings.Builder
	b.WriteString(quoteIdent(c.Name))
	b.WriteString(" ")
	b.WriteString(c.Type)

	switch {
	case c.AutoIncrement:
		// auto_increment implies not null
		b.WriteString(" auto_increment primary key")
	case c.PrimaryKey:
		if c.Nullable {
			b.WriteString(" null primary key")
		} else {
			b.WriteString(" not null primary key")
		}
	case c.Nullable:
		b.WriteString(" null")
	default:
		b.WriteString(" not null")
	}
	return b.String()
}

// CreateTableSQL renders the CREATE TABLE statement.
func (s TableSchema) CreateTableSQL() string {
	defs := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		defs[i] = "    " + c.Definition()
	}
	return fmt.Sprintf("CREATE TABLE %s\n(\n%s\n)", quoteIdent(s.Name), strings.Join(defs, ",\n"))
}

// CreateIndexSQL renders the CREATE INDEX statement for ix on table.
func (ix Index) CreateIndexSQL(table string) string {
	cols := make([]string, len(ix.Columns))
	for i, c := range ix.Columns {
		cols[i] = quoteIdent(c)
	}
	return fmt.Sprintf("CREATE INDEX %s ON %s (%s)", quoteIdent(ix.Name), quoteIdent(table), strings.Join(cols, ", "))
}

// insertSQL renders a multi-row INSERT for rows records.
func insertSQL(s TableSchema, rows int) string {
	cols := make([]string, len(s.Columns))
	marks := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		cols[i] = quoteIdent(c.Name)
		marks[i] = "?"
	}
	tuple := "(" + strings.Join(marks, ", ") + ")"

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES ", quoteIdent(s.Name), strings.Join(cols, ", "))
	for i := 0; i < rows; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(tuple)
	}
	return b.String()
}

// recordArgs flattens records into positional arguments.
func recordArgs(recs []Record) []any {
	var args []any
	for _, r := range recs {
		args = append(args, r.Values()...)
	}
	return args
}

// SchemaPlan returns the statements that create every table in defs, each
// followed by its indexes, and then the seed inserts. The order of defs is
// preserved.
func SchemaPlan(defs []TableDefinition) []Statement {
	var plan []Statement
	for _, def := range defs {
		plan = append(plan, Statement{
			Label: "create table " + def.Name(),
			SQL:   def.Schema.CreateTableSQL(),
		})
		for _, ix := range def.Schema.Indexes {
			plan = append(plan, Statement{
				Label: "create index " + ix.Name,
				SQL:   ix.CreateIndexSQL(def.Name()),
			})
		}
	}

	for _, def := range defs {
		if def.Seed == nil {
			continue
		}
		recs := def.Seed()
		if len(recs) == 0 {
			continue
		}
		plan = append(plan, Statement{
			Label: "seed " + def.Name(),
			SQL:   insertSQL(def.Schema, len(recs)),
			Args:  recordArgs(recs),
		})
	}

	return plan
}

// CreateSchema creates all registered tables and indexes and seeds the
// fixed tables, on a single connection. It is meant to run once against an
// empty database; the first failing statement aborts the run.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	return applyPlan(ctx, conn, SchemaPlan(All()))
}

func applyPlan(ctx context.Context, db DBTX, plan []Statement) error {
	for _, st := range plan {
		if _, err := db.ExecContext(ctx, st.SQL, st.Args...); err != nil {
			return fmt.Errorf("%s: %w", st.Label, err)
		}
	}
	return nil
}

// VerifyTable checks that the live table exists and carries every declared
// column. Column names are compared case-insensitively.
func VerifyTable(ctx context.Context, db DBTX, s TableSchema) error {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT 0", quoteIdent(s.Name)))
	if err != nil {
		return fmt.Errorf("probe table %s: %w", s.Name, err)
	}
	defer rows.Close()

	live, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("probe table %s: %w", s.Name, err)
	}

	have := make(map[string]bool, len(live))
	for _, c := range live {
		have[strings.ToLower(c)] = true
	}

	var missing []string
	for _, c := range s.Columns {
		if !have[strings.ToLower(c.Name)] {
			missing = append(missing, c.Name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: table %s lacks columns %s", ErrSchemaMismatch, s.Name, strings.Join(missing, ", "))
	}

	return rows.Err()
}
