package tables

import (
	"database/sql"

	"github.com/JonMunkholm/corpusimport/internal/core"
)

func init() {
	registerText()
}

// Text maps one token position of a source text to its lexicon entry.
type Text struct {
	ID     int64
	TextID sql.NullInt64
	WordID sql.NullInt64
}

// Values implements core.Record.
func (t Text) Values() []any {
	return []any{t.ID, t.TextID, t.WordID}
}

// ExtractText maps a text file row. The file orders its fields
// textID, ID, wordID; anything after the third field is ignored.
func ExtractText(fields []string) (core.Record, error) {
	if err := core.RequireFields(fields, 3); err != nil {
		return nil, err
	}

	textID, err := core.ParseNullInt("textID", fields[0])
	if err != nil {
		return nil, err
	}
	id, err := core.ParseID("ID", fields[1])
	if err != nil {
		return nil, err
	}
	wordID, err := core.ParseNullInt("wordID", fields[2])
	if err != nil {
		return nil, err
	}

	return Text{ID: id, TextID: textID, WordID: wordID}, nil
}

func registerText() {
	core.Register(core.TableDefinition{
		Schema: core.TableSchema{
			Name: "text",
			Columns: []core.Column{
				idColumn,
				intColumn("textID", "int"),
				intColumn("wordID", "int"),
			},
			Indexes: []core.Index{
				{Name: "corpus_lexicon_wordID", Columns: []string{"wordID"}},
				{Name: "corpus_source_id", Columns: []string{"textID"}},
			},
		},
		Order:   4,
		Extract: ExtractText,
	})
}
