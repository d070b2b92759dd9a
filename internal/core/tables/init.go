// Package tables registers the corpus table definitions with the core
// registry. Import it for its side effects wherever tables are needed.
//
// Creation order: lexicon, source, subgenre, text. The subgenre table is
// seeded at creation and never imported into.
package tables

import "github.com/JonMunkholm/corpusimport/internal/core"

// idColumn is the surrogate key shared by the importable tables. IDs come
// from the corpus files; auto_increment only applies when one is omitted.
var idColumn = core.Column{Name: "ID", Type: "int", PrimaryKey: true, AutoIncrement: true}

func textColumn(name string) core.Column {
	return core.Column{Name: name, Type: "text", Nullable: true}
}

func intColumn(name, typ string) core.Column {
	return core.Column{Name: name, Type: typ, Nullable: true}
}
