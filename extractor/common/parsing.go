package common

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPeriod  = errors.New("period must be in YYYY-MM format")
	ErrInputNotFound  = errors.New("input file not found")
	ErrPageOutOfRange = errors.New("page out of range")
)

var (
	// DateShaped is the loose digits[/-]digits[/-]digits test used to spot date cells.
	DateShaped = regexp.MustCompile(`^\d{1,4}[/-]\d{1,2}[/-]\d{1,4}`)
	// NumericShaped matches cells that read as a single monetary figure.
	NumericShaped = regexp.MustCompile(`^\(?\s*-?\s*[$€£¥]?\s*-?\d[\d,]*(\.\d+)?\s*\)?$`)
	// HasDigit matches any cell carrying at least one digit.
	HasDigit = regexp.MustCompile(`\d`)
	// ThreeDigits and FourDigits find runs of consecutive digits in code cells.
	ThreeDigits = regexp.MustCompile(`\d{3,}`)
	FourDigits  = regexp.MustCompile(`\d{4,}`)

	periodPattern  = regexp.MustCompile(`^\d{4}-\d{2}$`)
	creditNotation = regexp.MustCompile(`(?i)CR`)
	amountNoise    = regexp.MustCompile(`[$€£¥,\s]`)

	parens = strings.NewReplacer("(", "", ")", "")
)

// AmountOptions switches the variant-specific behaviour of the amount normalizer.
type AmountOptions struct {
	// CreditNotation treats a "CR" token anywhere in the cell as a negative marker.
	CreditNotation bool
}

// CleanAmount turns a free-text cell into a signed amount. Blank, dash and
// unparseable input all yield zero.
func CleanAmount(text string, opts AmountOptions) decimal.Decimal {
	amount, ok := parseAmount(text, opts)
	if !ok {
		return decimal.Zero
	}
	return amount
}

func parseAmount(text string, opts AmountOptions) (decimal.Decimal, bool) {
	s := strings.TrimSpace(text)
	if s == "" || s == "-" || s == "—" || s == "–" {
		return decimal.Zero, false
	}

	negative := false
	if opts.CreditNotation && creditNotation.MatchString(s) {
		negative = true
		s = strings.TrimSpace(creditNotation.ReplaceAllString(s, ""))
	}

	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
	}
	s = parens.Replace(s)

	s = amountNoise.ReplaceAllString(s, "")
	if s == "" {
		return decimal.Zero, false
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}

	if negative {
		amount = amount.Abs().Neg()
	}
	return amount, true
}

// dateLayouts is evaluated in order; the first layout that parses wins, so
// 03/04/2025 is always March 4th.
var dateLayouts = []string{
	"1/2/2006",        // MM/DD/YYYY
	"2006-1-2",        // YYYY-MM-DD
	"1-2-2006",        // MM-DD-YYYY
	"2/1/2006",        // DD/MM/YYYY
	"Jan 2, 2006",     // Mon DD, YYYY
	"2-Jan-2006",      // DD-Mon-YYYY
	"January 2, 2006", // Month DD, YYYY
}

// ParseDate returns value in YYYY-MM-DD form, or the trimmed input when no
// known layout matches.
func ParseDate(value string) string {
	s := strings.TrimSpace(value)
	if dt, ok := parseKnownDate(s); ok {
		return dt.Format("2006-01-02")
	}
	return s
}

func parseKnownDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if dt, err := time.Parse(layout, s); err == nil {
			return dt, true
		}
	}
	return time.Time{}, false
}

// ValidatePeriod accepts YYYY-MM with a real calendar month.
func ValidatePeriod(period string) error {
	if !periodPattern.MatchString(period) {
		return ErrInvalidPeriod
	}
	if _, err := time.Parse("2006-01", period); err != nil {
		return ErrInvalidPeriod
	}
	return nil
}

// ShouldSkip applies the shared discard rule: the first cell, upper-cased and
// trimmed, is empty or contains one of the keywords.
func ShouldSkip(row Row, keywords []string) bool {
	first := strings.ToUpper(row.Cell(0))
	if first == "" {
		return true
	}
	for _, kw := range keywords {
		if kw != "" && strings.Contains(first, strings.ToUpper(kw)) {
			return true
		}
	}
	return false
}
