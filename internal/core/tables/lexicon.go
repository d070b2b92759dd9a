package tables

import "github.com/JonMunkholm/corpusimport/internal/core"

func init() {
	registerLexicon()
}

// Lexicon is one word form of the corpus lexicon.
type Lexicon struct {
	ID    int64
	Word  string
	Lemma string
	PoS   string
}

// Values implements core.Record.
func (l Lexicon) Values() []any {
	return []any{l.ID, l.Word, l.Lemma, l.PoS}
}

// ExtractLexicon maps ID, word, lemma, PoS.
func ExtractLexicon(fields []string) (core.Record, error) {
	if err := core.RequireFields(fields, 4); err != nil {
		return nil, err
	}

	id, err := core.ParseID("ID", fields[0])
	if err != nil {
		return nil, err
	}

	return Lexicon{
		ID:    id,
		Word:  core.CleanField(fields[1]),
		Lemma: core.CleanField(fields[2]),
		PoS:   core.CleanField(fields[3]),
	}, nil
}

func registerLexicon() {
	core.Register(core.TableDefinition{
		Schema: core.TableSchema{
			Name: "lexicon",
			Columns: []core.Column{
				idColumn,
				textColumn("word"),
				textColumn("lemma"),
				textColumn("PoS"),
			},
		},
		Order:   1,
		Extract: ExtractLexicon,
	})
}
