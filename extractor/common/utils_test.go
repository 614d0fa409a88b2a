package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingDocument struct {
	StaticDocument
	failAt int
}

func (d *failingDocument) Page(n int) (Page, error) {
	if n == d.failAt {
		return Page{}, errors.New("broken content stream")
	}
	return d.StaticDocument.Page(n)
}

func TestWalkRows_VisitsInDocumentOrder(t *testing.T) {
	doc := &StaticDocument{Pages: []Page{
		{Text: "page one", Tables: []Table{
			TableFromStrings([][]string{{"H1", "H2"}, {"a", "1"}}),
		}},
		{Text: ""},
		{Text: "page three", Tables: []Table{
			TableFromStrings([][]string{{"H1", "H2"}, {"b", "2"}}),
			{},
			TableFromStrings([][]string{{"X"}, {"c"}}),
		}},
	}}

	var visited []string
	stats, err := WalkRows(doc, func(ref RowRef) {
		if !ref.IsHeader {
			visited = append(visited, ref.Row.Cell(0))
		}
		if ref.IsHeader {
			assert.Equal(t, ref.Row.Cell(0), ref.Header.Cell(0))
		}
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, visited)
	assert.Equal(t, 3, stats.Pages)
	assert.Equal(t, 1, stats.PagesWithoutText)
	assert.Equal(t, 3, stats.Tables)
	assert.Equal(t, 6, stats.Rows)
}

func TestWalkRows_PageErrorAborts(t *testing.T) {
	doc := &failingDocument{
		StaticDocument: StaticDocument{Pages: []Page{
			{Text: "ok", Tables: []Table{TableFromStrings([][]string{{"a"}, {"b"}})}},
			{Text: "never read"},
		}},
		failAt: 2,
	}

	count := 0
	_, err := WalkRows(doc, func(RowRef) { count++ })
	assert.Error(t, err)
	assert.Equal(t, 2, count)
}

func TestStaticDocument_PageOutOfRange(t *testing.T) {
	doc := &StaticDocument{Pages: []Page{{Text: "only"}}}
	_, err := doc.Page(2)
	assert.ErrorIs(t, err, ErrPageOutOfRange)
}

func TestOpenPDF_MissingFile(t *testing.T) {
	_, err := OpenPDF("does-not-exist.pdf", DefaultLayout())
	assert.ErrorIs(t, err, ErrInputNotFound)
}

func TestRow_Helpers(t *testing.T) {
	row := NewRow(" Acme ", "", "10.00")
	assert.Equal(t, "Acme", row.Cell(0))
	assert.Equal(t, "", row.Cell(1))
	assert.Equal(t, "", row.Cell(9))
	assert.Equal(t, "Acme 10.00", row.Text())
	assert.False(t, row.IsBlank())
	assert.True(t, NewRow("", " ").IsBlank())
}
