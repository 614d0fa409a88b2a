package common

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// LayoutConfig tunes the text-based table detector. Distances are in PDF points.
type LayoutConfig struct {
	RowTolerance float64 // Y distance within which glyphs share a line
	ColumnGap    float64 // horizontal gap that starts a new cell
	WordSpacing  float64 // fraction of font size that reads as a space
	MinColumns   int     // segments a line needs to count as a table row
	MinRows      int     // consecutive table rows needed to form a table
}

func DefaultLayout() LayoutConfig {
	return LayoutConfig{
		RowTolerance: 3.0,
		ColumnGap:    12.0,
		WordSpacing:  0.3,
		MinColumns:   2,
		MinRows:      2,
	}
}

// Glyph is a positioned run of text as reported by the PDF reader.
type Glyph struct {
	X, Y     float64
	W        float64
	FontSize float64
	S        string
}

func (g Glyph) right() float64 {
	if g.W > 0 {
		return g.X + g.W
	}
	// some producers report zero widths; approximate half an em per rune
	return g.X + float64(len([]rune(g.S)))*g.FontSize*0.5
}

type segment struct {
	x0, x1 float64
	text   strings.Builder
}

type band struct {
	x0, x1 float64
}

// DetectTables finds runs of column-aligned lines and returns them as grids.
// Row 0 of each table is whatever line opened the run, normally the header.
func DetectTables(glyphs []Glyph, cfg LayoutConfig) []Table {
	lines := groupLines(glyphs, cfg.RowTolerance)

	var tables []Table
	var run [][]*segment

	flush := func() {
		if len(run) >= cfg.MinRows {
			tables = append(tables, buildTable(run))
		}
		run = nil
	}

	for _, line := range lines {
		segs := splitSegments(line, cfg)
		if len(segs) >= cfg.MinColumns {
			run = append(run, segs)
			continue
		}
		flush()
	}
	flush()

	return tables
}

type lineBucket struct {
	yMin, yMax float64
	glyphs     []Glyph
}

func groupLines(glyphs []Glyph, tolerance float64) [][]Glyph {
	var buckets []lineBucket

	for _, g := range glyphs {
		if strings.TrimSpace(g.S) == "" {
			continue
		}
		found := false
		for i := range buckets {
			if g.Y >= buckets[i].yMin-tolerance && g.Y <= buckets[i].yMax+tolerance {
				buckets[i].glyphs = append(buckets[i].glyphs, g)
				buckets[i].yMin = min(buckets[i].yMin, g.Y)
				buckets[i].yMax = max(buckets[i].yMax, g.Y)
				found = true
				break
			}
		}
		if !found {
			buckets = append(buckets, lineBucket{yMin: g.Y, yMax: g.Y, glyphs: []Glyph{g}})
		}
	}

	// PDF y grows upwards, so the top line has the largest y
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].yMax > buckets[j].yMax
	})

	lines := make([][]Glyph, len(buckets))
	for i, b := range buckets {
		sort.SliceStable(b.glyphs, func(x, y int) bool {
			return b.glyphs[x].X < b.glyphs[y].X
		})
		lines[i] = b.glyphs
	}
	return lines
}

func splitSegments(line []Glyph, cfg LayoutConfig) []*segment {
	var segs []*segment
	var cur *segment
	var prev Glyph

	for i, g := range line {
		if i == 0 {
			cur = &segment{x0: g.X, x1: g.right()}
			cur.text.WriteString(g.S)
			segs = append(segs, cur)
			prev = g
			continue
		}

		gap := g.X - prev.right()
		switch {
		case gap >= cfg.ColumnGap:
			cur = &segment{x0: g.X, x1: g.right()}
			cur.text.WriteString(g.S)
			segs = append(segs, cur)
		case gap > max(prev.FontSize*cfg.WordSpacing, 1.0):
			cur.text.WriteByte(' ')
			cur.text.WriteString(g.S)
			cur.x1 = max(cur.x1, g.right())
		default:
			cur.text.WriteString(g.S)
			cur.x1 = max(cur.x1, g.right())
		}
		prev = g
	}
	return segs
}

func buildTable(run [][]*segment) Table {
	var spans []band
	for _, segs := range run {
		for _, s := range segs {
			spans = append(spans, band{x0: s.x0, x1: s.x1})
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].x0 < spans[j].x0 })

	var bands []band
	for _, s := range spans {
		if n := len(bands); n > 0 && s.x0 <= bands[n-1].x1 {
			bands[n-1].x1 = max(bands[n-1].x1, s.x1)
			continue
		}
		bands = append(bands, s)
	}

	table := Table{Rows: make([]Row, 0, len(run))}
	for _, segs := range run {
		row := make(Row, len(bands))
		for _, s := range segs {
			idx := bandIndex(bands, s)
			text := strings.TrimSpace(norm.NFKC.String(s.text.String()))
			if text == "" {
				continue
			}
			if row[idx] != nil {
				text = *row[idx] + " " + text
			}
			row[idx] = &text
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func bandIndex(bands []band, s *segment) int {
	center := (s.x0 + s.x1) / 2
	for i, b := range bands {
		if center >= b.x0 && center <= b.x1 {
			return i
		}
	}
	for i, b := range bands {
		if s.x0 <= b.x1 && s.x1 >= b.x0 {
			return i
		}
	}
	return len(bands) - 1
}
