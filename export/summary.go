package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/aqlanhadi/recon/extractor/analyzer"
	"github.com/aqlanhadi/recon/extractor/common"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"
)

const previewCellWidth = 18

var (
	title   = color.New(color.FgGreen, color.Bold)
	heading = color.New(color.FgCyan, color.Bold)
	muted   = color.New(color.Faint)
	warn    = color.New(color.FgYellow)
)

// FormatMoney renders amount in currency, e.g. "-$1,500.00". Unknown codes
// fall back to USD formatting.
func FormatMoney(amount decimal.Decimal, code string) string {
	currency := money.GetCurrency(code)
	if currency == nil {
		code = "USD"
		currency = money.GetCurrency(code)
	}
	cents := amount.Shift(int32(currency.Fraction)).Round(0).IntPart()
	return money.New(cents, code).Display()
}

// PrintSummary writes a human readable report of an extraction run.
func PrintSummary(w io.Writer, s common.Summary) {
	title.Fprintf(w, "✔ %s: %d rows extracted", s.Report, s.Rows)
	muted.Fprintf(w, " (%d skipped)\n", s.Skipped)

	if s.Source != "" {
		fmt.Fprintf(w, "  %-8s %s\n", "source", s.Source)
	}
	fmt.Fprintf(w, "  %-8s %s\n", "period", s.Period)
	fmt.Fprintf(w, "  %-8s %d\n", "pages", s.Pages)
	fmt.Fprintf(w, "  %-8s %d\n", "tables", s.Tables)
	muted.Fprintf(w, "  %-8s %s\n", "run", s.RunID)

	if s.PagesWithoutText > 0 {
		warn.Fprintf(w, "  ! %d page(s) had no extractable text", s.PagesWithoutText)
		if s.OCRRequested {
			warn.Fprint(w, "; OCR was requested but is not performed")
		}
		fmt.Fprintln(w)
	}

	if len(s.Totals) > 0 {
		fmt.Fprintln(w)
		heading.Fprintln(w, "Totals")
		for _, t := range s.Totals {
			fmt.Fprintf(w, "  %-16s %16s\n", t.Label, FormatMoney(t.Amount, s.Currency))
		}
	}

	if len(s.Header) > 0 {
		fmt.Fprintln(w)
		heading.Fprintf(w, "Preview (first %d of %d)\n", len(s.Preview), s.Rows)
		printGrid(w, s.Header, s.Preview)
	}
}

// PrintAnalysis writes the per-page diagnostics and the extractor recommendation.
func PrintAnalysis(w io.Writer, a *analyzer.Analysis) {
	name := a.Source
	if name == "" {
		name = "document"
	}
	title.Fprintf(w, "Analysis of %s (%d pages)\n", name, a.TotalPages)

	for _, p := range a.Pages {
		fmt.Fprintln(w)
		if !p.HasText {
			heading.Fprintf(w, "Page %d", p.Number)
			warn.Fprintln(w, ": no extractable text, OCR recommended")
			continue
		}
		heading.Fprintf(w, "Page %d", p.Number)
		fmt.Fprintf(w, ": %d characters, %d glyphs, %s\n", p.Characters, p.Glyphs, p.ReportType)
		for _, line := range strings.Split(p.TextPreview, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				muted.Fprintf(w, "  > %s\n", line)
			}
		}

		if len(p.Tables) == 0 {
			muted.Fprintln(w, "  no tables detected")
		}
		for _, t := range p.Tables {
			fmt.Fprintf(w, "  Table %d: %d columns, %d rows (%d data, %d blank)\n",
				t.Index, t.Columns, t.Rows, t.DataRows, t.BlankRows)
			printGrid(w, t.Header, t.Preview)
		}
	}

	fmt.Fprintln(w)
	heading.Fprint(w, "Detected: ")
	fmt.Fprintln(w, a.ReportType)
	heading.Fprint(w, "Recommendation: ")
	fmt.Fprintln(w, a.Recommendation)
}

func printGrid(w io.Writer, header []string, rows [][]string) {
	widths := make([]int, len(header))
	measure := func(row []string) {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], len([]rune(analyzer.Truncate(cell, previewCellWidth))))
		}
	}
	measure(header)
	for _, r := range rows {
		measure(r)
	}

	line := func(row []string) string {
		parts := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(row) {
				cell = analyzer.Truncate(row[i], previewCellWidth)
			}
			parts[i] = cell + strings.Repeat(" ", widths[i]-len([]rune(cell)))
		}
		return strings.TrimRight(strings.Join(parts, " | "), " ")
	}

	fmt.Fprintf(w, "    %s\n", line(header))
	for _, r := range rows {
		fmt.Fprintf(w, "    %s\n", line(r))
	}
}
