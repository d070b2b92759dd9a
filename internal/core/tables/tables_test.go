package tables

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/corpusimport/internal/core"
)

func TestExtractLexicon(t *testing.T) {
	rec, err := ExtractLexicon([]string{"17", " running ", "run", "vvg\r"})
	require.NoError(t, err)
	assert.Equal(t, Lexicon{ID: 17, Word: "running", Lemma: "run", PoS: "vvg"}, rec)
	assert.Equal(t, []any{int64(17), "running", "run", "vvg"}, rec.Values())
}

func TestExtractSource(t *testing.T) {
	rec, err := ExtractSource([]string{"3", "2001", "NEWS", "137", "Daily Paper", "Headline"})
	require.NoError(t, err)
	assert.Equal(t, Source{
		ID:          3,
		Genre:       "NEWS",
		SubgenreID:  sql.NullInt64{Int64: 137, Valid: true},
		Year:        sql.NullInt64{Int64: 2001, Valid: true},
		SourceTitle: "Daily Paper",
		TextTitle:   "Headline",
	}, rec)

	// values follow column order, not file order
	vals := rec.Values()
	assert.Equal(t, "NEWS", vals[1])
	assert.Equal(t, sql.NullInt64{Int64: 137, Valid: true}, vals[2])
}

func TestExtractSource_NullIntegers(t *testing.T) {
	rec, err := ExtractSource([]string{"3", "", "NEWS", "", "t", "t"})
	require.NoError(t, err)
	src := rec.(Source)
	assert.False(t, src.Year.Valid)
	assert.False(t, src.SubgenreID.Valid)
}

func TestExtractText(t *testing.T) {
	rec, err := ExtractText([]string{"900", "12", "34", "ignored"})
	require.NoError(t, err)
	assert.Equal(t, Text{
		ID:     12,
		TextID: sql.NullInt64{Int64: 900, Valid: true},
		WordID: sql.NullInt64{Int64: 34, Valid: true},
	}, rec)
}

func TestExtract_Errors(t *testing.T) {
	tests := []struct {
		name    string
		extract core.ExtractFunc
		fields  []string
		want    error
	}{
		{"lexicon short", ExtractLexicon, []string{"1", "a", "b"}, core.ErrShortRow},
		{"lexicon bad id", ExtractLexicon, []string{"x", "a", "b", "c"}, core.ErrBadInteger},
		{"lexicon empty id", ExtractLexicon, []string{"", "a", "b", "c"}, core.ErrBadInteger},
		{"source short", ExtractSource, []string{"1", "2000", "FIC", "114"}, core.ErrShortRow},
		{"source bad year", ExtractSource, []string{"1", "MMI", "FIC", "114", "a", "b"}, core.ErrBadInteger},
		{"source bad subgenre", ExtractSource, []string{"1", "2000", "FIC", "x", "a", "b"}, core.ErrBadInteger},
		{"text short", ExtractText, []string{"1", "2"}, core.ErrShortRow},
		{"text bad word", ExtractText, []string{"1", "2", "w", "z"}, core.ErrBadInteger},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := tt.extract(tt.fields)
			assert.Nil(t, rec)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestSubgenres(t *testing.T) {
	list := Subgenres()
	require.Len(t, list, 42)
	assert.Equal(t, Subgenre{ID: 101, Name: "SPOK:ABC"}, list[0])
	assert.Equal(t, Subgenre{ID: 114, Name: "FIC:Gen (Book)"}, list[9])
	assert.Equal(t, Subgenre{ID: 152, Name: "ACAD:Misc"}, list[41])

	seen := make(map[int64]bool)
	prev := int64(0)
	for _, s := range list {
		assert.False(t, seen[s.ID], "duplicate ID %d", s.ID)
		assert.Greater(t, s.ID, prev, "IDs ascend")
		seen[s.ID] = true
		prev = s.ID
	}

	// callers get a copy
	list[0].Name = "changed"
	assert.Equal(t, "SPOK:ABC", Subgenres()[0].Name)
}

func TestDefinitions(t *testing.T) {
	for _, name := range []string{"lexicon", "source", "text"} {
		def, ok := core.Get(name)
		require.True(t, ok, name)
		assert.True(t, def.Importable(), name)
		assert.Nil(t, def.Seed, name)
		assert.Equal(t, "ID", def.Schema.Columns[0].Name)
	}

	sub, ok := core.Get("subgenre")
	require.True(t, ok)
	assert.False(t, sub.Importable())
	assert.Len(t, sub.Seed(), 42)
}

func TestExtract_ReferenceRows(t *testing.T) {
	lex, err := ExtractLexicon([]string{"7", "dog", "dog", "NN"})
	require.NoError(t, err)
	assert.Equal(t, Lexicon{ID: 7, Word: "dog", Lemma: "dog", PoS: "NN"}, lex)

	src, err := ExtractSource([]string{"3", "1995", "FIC", "116", "Some Journal", "Some Story"})
	require.NoError(t, err)
	assert.Equal(t, Source{
		ID:          3,
		Genre:       "FIC",
		SubgenreID:  sql.NullInt64{Int64: 116, Valid: true},
		Year:        sql.NullInt64{Int64: 1995, Valid: true},
		SourceTitle: "Some Journal",
		TextTitle:   "Some Story",
	}, src)

	txt, err := ExtractText([]string{"55", "9", "200"})
	require.NoError(t, err)
	assert.Equal(t, Text{
		ID:     9,
		TextID: sql.NullInt64{Int64: 55, Valid: true},
		WordID: sql.NullInt64{Int64: 200, Valid: true},
	}, txt)
}
