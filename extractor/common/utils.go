package common

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/dslipak/pdf"
)

// PDFDocument adapts a dslipak/pdf reader to the Document interface.
// When opened from a path it owns the file handle until Close.
type PDFDocument struct {
	reader *pdf.Reader
	closer io.Closer
	layout LayoutConfig
}

// OpenPDF opens the report at path. The caller must Close the document.
func OpenPDF(path string, layout LayoutConfig) (*PDFDocument, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}

	doc, err := NewPDFDocument(file, info.Size(), layout)
	if err != nil {
		file.Close()
		return nil, err
	}
	doc.closer = file
	return doc, nil
}

// NewPDFDocument reads a PDF held by r, e.g. an uploaded file buffered in memory.
func NewPDFDocument(r io.ReaderAt, size int64, layout LayoutConfig) (doc *PDFDocument, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			doc, err = nil, fmt.Errorf("malformed pdf: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf: %w", err)
	}
	return &PDFDocument{reader: reader, layout: layout}, nil
}

func (d *PDFDocument) NumPages() int {
	return d.reader.NumPage()
}

// Page extracts text, glyph count and detected tables for page n (1-based).
// Reader panics on broken content streams are returned as errors.
func (d *PDFDocument) Page(n int) (page Page, err error) {
	if n < 1 || n > d.NumPages() {
		return Page{}, fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, n, d.NumPages())
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("reading page %d: %v", n, rec)
		}
	}()

	page.Number = n
	p := d.reader.Page(n)
	if p.V.IsNull() {
		return page, nil
	}

	text, err := p.GetPlainText(nil)
	if err != nil {
		return page, fmt.Errorf("extracting text from page %d: %w", n, err)
	}
	page.Text = text

	content := p.Content()
	glyphs := make([]Glyph, 0, len(content.Text))
	for _, t := range content.Text {
		if strings.TrimSpace(t.S) != "" {
			page.Glyphs++
		}
		glyphs = append(glyphs, Glyph{X: t.X, Y: t.Y, W: t.W, FontSize: t.FontSize, S: t.S})
	}
	page.Tables = DetectTables(glyphs, d.layout)

	return page, nil
}

func (d *PDFDocument) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer.Close()
}

// RowRef locates a row inside the document being walked.
type RowRef struct {
	Page     int
	Table    int
	Index    int
	Row      Row
	Header   Row
	IsHeader bool
}

// WalkStats counts what a walk visited.
type WalkStats struct {
	Pages            int
	PagesWithoutText int
	Tables           int
	Rows             int
}

// WalkRows visits every row of every table, page by page, in document order.
// Any page error aborts the walk.
func WalkRows(doc Document, fn func(RowRef)) (WalkStats, error) {
	var stats WalkStats

	for n := 1; n <= doc.NumPages(); n++ {
		page, err := doc.Page(n)
		if err != nil {
			return stats, err
		}
		stats.Pages++
		if !page.HasText() {
			stats.PagesWithoutText++
		}

		for ti, table := range page.Tables {
			if len(table.Rows) == 0 {
				continue
			}
			stats.Tables++
			header := table.Header()
			for ri, row := range table.Rows {
				stats.Rows++
				fn(RowRef{
					Page:     n,
					Table:    ti + 1,
					Index:    ri,
					Row:      row,
					Header:   header,
					IsHeader: ri == 0,
				})
			}
		}
	}

	return stats, nil
}
