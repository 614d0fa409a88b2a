package common

import (
	"strings"
)

// Row is one line of a detected table. A nil cell means the detector found
// nothing at that column position.
type Row []*string

// Cell returns the trimmed text at index i, or "" when the cell is absent.
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r) || r[i] == nil {
		return ""
	}
	return strings.TrimSpace(*r[i])
}

// Text joins every present cell with a single space.
func (r Row) Text() string {
	parts := make([]string, 0, len(r))
	for i := range r {
		if s := r.Cell(i); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// IsBlank reports whether no cell in the row carries text.
func (r Row) IsBlank() bool {
	for i := range r {
		if r.Cell(i) != "" {
			return false
		}
	}
	return true
}

// NewRow builds a Row from plain strings; empty strings become absent cells.
func NewRow(cells ...string) Row {
	row := make(Row, len(cells))
	for i, c := range cells {
		if c == "" {
			continue
		}
		s := c
		row[i] = &s
	}
	return row
}

type Table struct {
	Rows []Row
}

// Header returns row 0, which report layouts conventionally use for column titles.
func (t Table) Header() Row {
	if len(t.Rows) == 0 {
		return nil
	}
	return t.Rows[0]
}

// ColumnCount is the width of the widest row.
func (t Table) ColumnCount() int {
	n := 0
	for _, r := range t.Rows {
		if len(r) > n {
			n = len(r)
		}
	}
	return n
}

type Page struct {
	Number int
	Text   string
	Glyphs int
	Tables []Table
}

// HasText reports whether the page yielded any extractable text.
func (p Page) HasText() bool {
	return strings.TrimSpace(p.Text) != ""
}

// Document is the read-only view of a report the extractors work against.
// Pages are numbered from 1.
type Document interface {
	NumPages() int
	Page(n int) (Page, error)
	Close() error
}

// StaticDocument serves pages that were extracted elsewhere.
type StaticDocument struct {
	Pages []Page
}

func (d *StaticDocument) NumPages() int {
	return len(d.Pages)
}

func (d *StaticDocument) Page(n int) (Page, error) {
	if n < 1 || n > len(d.Pages) {
		return Page{}, ErrPageOutOfRange
	}
	page := d.Pages[n-1]
	page.Number = n
	return page, nil
}

func (d *StaticDocument) Close() error {
	return nil
}

// TableFromStrings builds a table from literal cells; "" marks an absent cell.
func TableFromStrings(rows [][]string) Table {
	t := Table{Rows: make([]Row, 0, len(rows))}
	for _, r := range rows {
		t.Rows = append(t.Rows, NewRow(r...))
	}
	return t
}
