package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// word lays out a string as one glyph per rune, 5pt wide, starting at x.
func word(s string, x, y float64) []Glyph {
	glyphs := make([]Glyph, 0, len(s))
	for i, r := range s {
		glyphs = append(glyphs, Glyph{X: x + float64(i)*5, Y: y, W: 5, FontSize: 10, S: string(r)})
	}
	return glyphs
}

func line(y float64, cells map[float64]string) []Glyph {
	var glyphs []Glyph
	for x, s := range cells {
		glyphs = append(glyphs, word(s, x, y)...)
	}
	return glyphs
}

func TestDetectTables_GridWithGaps(t *testing.T) {
	var glyphs []Glyph
	glyphs = append(glyphs, word("AGED PAYABLES", 50, 760)...)
	glyphs = append(glyphs, line(700, map[float64]string{50: "Vendor", 150: "Inv#", 250: "Current", 350: "30"})...)
	glyphs = append(glyphs, line(685, map[float64]string{50: "Acme", 150: "INV-1", 350: "1500.00"})...)
	glyphs = append(glyphs, line(670, map[float64]string{50: "Globex", 150: "INV-2", 250: "20.00"})...)

	tables := DetectTables(glyphs, DefaultLayout())
	require.Len(t, tables, 1)

	table := tables[0]
	require.Len(t, table.Rows, 3)
	assert.Equal(t, 4, table.ColumnCount())

	assert.Equal(t, "Vendor", table.Header().Cell(0))
	assert.Equal(t, "30", table.Header().Cell(3))

	acme := table.Rows[1]
	assert.Equal(t, "Acme", acme.Cell(0))
	assert.Equal(t, "INV-1", acme.Cell(1))
	assert.Nil(t, acme[2])
	assert.Equal(t, "1500.00", acme.Cell(3))

	globex := table.Rows[2]
	assert.Equal(t, "20.00", globex.Cell(2))
	assert.Nil(t, globex[3])
}

func TestDetectTables_WordsWithinCell(t *testing.T) {
	var glyphs []Glyph
	// "Acme" and "Co" sit 6pt apart: a word space, not a column gap
	glyphs = append(glyphs, word("Acme", 50, 700)...)
	glyphs = append(glyphs, word("Co", 76, 700)...)
	glyphs = append(glyphs, word("100.00", 200, 700)...)
	glyphs = append(glyphs, word("Initech", 50, 685)...)
	glyphs = append(glyphs, word("7.00", 200, 685)...)

	tables := DetectTables(glyphs, DefaultLayout())
	require.Len(t, tables, 1)
	assert.Equal(t, "Acme Co", tables[0].Rows[0].Cell(0))
	assert.Equal(t, "100.00", tables[0].Rows[0].Cell(1))
}

func TestDetectTables_SeparateRunsAreSeparateTables(t *testing.T) {
	var glyphs []Glyph
	glyphs = append(glyphs, line(700, map[float64]string{50: "A", 200: "1"})...)
	glyphs = append(glyphs, line(685, map[float64]string{50: "B", 200: "2"})...)
	glyphs = append(glyphs, word("Subtotal section narrative", 50, 650)...)
	glyphs = append(glyphs, line(600, map[float64]string{50: "C", 200: "3"})...)
	glyphs = append(glyphs, line(585, map[float64]string{50: "D", 200: "4"})...)

	tables := DetectTables(glyphs, DefaultLayout())
	require.Len(t, tables, 2)
	assert.Equal(t, "A", tables[0].Header().Cell(0))
	assert.Equal(t, "C", tables[1].Header().Cell(0))
}

func TestDetectTables_SingleRowIsNotATable(t *testing.T) {
	glyphs := line(700, map[float64]string{50: "Lonely", 200: "Row"})
	assert.Empty(t, DetectTables(glyphs, DefaultLayout()))
}

func TestDetectTables_NoGlyphs(t *testing.T) {
	assert.Empty(t, DetectTables(nil, DefaultLayout()))
}
