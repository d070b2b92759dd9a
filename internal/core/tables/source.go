package tables

import (
	"database/sql"

	"github.com/JonMunkholm/corpusimport/internal/core"
)

func init() {
	registerSource()
}

// Source describes one source document of the corpus.
type Source struct {
	ID          int64
	Genre       string
	SubgenreID  sql.NullInt64
	Year        sql.NullInt64
	SourceTitle string
	TextTitle   string
}

// Values implements core.Record.
func (s Source) Values() []any {
	return []any{s.ID, s.Genre, s.SubgenreID, s.Year, s.SourceTitle, s.TextTitle}
}

// ExtractSource maps a sources file row. The file orders its fields
// ID, year, genre, subgenreID, sourceTitle, textTitle.
func ExtractSource(fields []string) (core.Record, error) {
	if err := core.RequireFields(fields, 6); err != nil {
		return nil, err
	}

	id, err := core.ParseID("ID", fields[0])
	if err != nil {
		return nil, err
	}
	year, err := core.ParseNullInt("year", fields[1])
	if err != nil {
		return nil, err
	}
	subgenre, err := core.ParseNullInt("subgenreID", fields[3])
	if err != nil {
		return nil, err
	}

	return Source{
		ID:          id,
		Genre:       core.CleanField(fields[2]),
		SubgenreID:  subgenre,
		Year:        year,
		SourceTitle: core.CleanField(fields[4]),
		TextTitle:   core.CleanField(fields[5]),
	}, nil
}

func registerSource() {
	core.Register(core.TableDefinition{
		Schema: core.TableSchema{
			Name: "source",
			Columns: []core.Column{
				idColumn,
				{Name: "genre", Type: "varchar(255)", Nullable: true},
				intColumn("subgenreID", "int"),
				intColumn("year", "int(4)"),
				textColumn("sourceTitle"),
				textColumn("textTitle"),
			},
			Indexes: []core.Index{
				{Name: "text_genre_id", Columns: []string{"subgenreID"}},
			},
		},
		Order:   2,
		Extract: ExtractSource,
	})
}
