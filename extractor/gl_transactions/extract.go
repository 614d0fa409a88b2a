package gl_transactions

import (
	"context"
	"regexp"
	"unicode/utf8"

	"github.com/aqlanhadi/recon/extractor/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

var (
	debitIndicator  = regexp.MustCompile(`(?i)\b(DR|DEBIT)\b`)
	creditIndicator = regexp.MustCompile(`(?i)\b(CR|CREDIT)\b`)
	numericOnly     = regexp.MustCompile(`^[\d\s.,:;/()+\-$€£¥#]*$`)
)

// minCells is the narrowest row that can hold an account, a narrative and an amount.
const minCells = 3

type Config struct {
	SkipKeywords       []string
	MinNarrativeLength int
}

// DefaultConfig holds the built-in classifier settings.
func DefaultConfig() Config {
	return Config{
		SkipKeywords:       []string{"TOTAL", "PAGE", "DATE"},
		MinNarrativeLength: 11,
	}
}

func loadConfig() Config {
	cfg := DefaultConfig()
	if viper.IsSet("report.gl_transactions.skip_keywords") {
		cfg.SkipKeywords = viper.GetStringSlice("report.gl_transactions.skip_keywords")
	}
	if viper.IsSet("report.gl_transactions.min_narrative_length") {
		cfg.MinNarrativeLength = viper.GetInt("report.gl_transactions.min_narrative_length")
	}
	return cfg
}

// Record is one journal line. Debit and Credit are never negative and
// Amount is Debit minus Credit.
type Record struct {
	AccountCode string
	BookedAt    string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Amount      decimal.Decimal
	Narrative   string
}

func Extract(ctx context.Context, doc common.Document) (common.Extraction[Record], error) {
	cfg := loadConfig()
	return common.Classify(ctx, doc, func(ref common.RowRef) (Record, bool) {
		return ClassifyRow(ref.Row, cfg)
	})
}

// ClassifyRow reads a journal line. Rows without an account code are dropped;
// rows without amounts are kept with zero values.
func ClassifyRow(row common.Row, cfg Config) (Record, bool) {
	if len(row) < minCells || common.ShouldSkip(row, cfg.SkipKeywords) {
		return Record{}, false
	}

	var rec Record
	dateCol := -1
	if first := row.Cell(0); common.DateShaped.MatchString(first) {
		rec.BookedAt = common.ParseDate(first)
		dateCol = 0
	}

	accountCol := -1
	for i := range row {
		if i == dateCol {
			continue
		}
		if cell := row.Cell(i); common.FourDigits.MatchString(cell) {
			rec.AccountCode = cell
			accountCol = i
			break
		}
	}
	if accountCol < 0 {
		return Record{}, false
	}

	for i := range row {
		cell := row.Cell(i)
		if utf8.RuneCountInString(cell) >= cfg.MinNarrativeLength && !numericOnly.MatchString(cell) {
			rec.Narrative = cell
			break
		}
	}

	var amounts []decimal.Decimal
	for i := range row {
		if i == dateCol || i == accountCol {
			continue
		}
		cell := row.Cell(i)
		if !common.NumericShaped.MatchString(cell) {
			continue
		}
		if amount := common.CleanAmount(cell, common.AmountOptions{}); !amount.IsZero() {
			amounts = append(amounts, amount)
		}
	}

	text := row.Text()
	rec.Debit, rec.Credit = Resolve(amounts, debitIndicator.MatchString(text), creditIndicator.MatchString(text))
	rec.Amount = rec.Debit.Sub(rec.Credit)
	return rec, true
}

// Resolve splits a row's amounts into debit and credit, first rule wins:
// two or more amounts are debit then credit; a single amount follows a debit
// indicator, then a credit indicator, then its own sign.
func Resolve(amounts []decimal.Decimal, hasDebit, hasCredit bool) (debit, credit decimal.Decimal) {
	switch {
	case len(amounts) >= 2:
		return amounts[0].Abs(), amounts[1].Abs()
	case len(amounts) == 1 && hasDebit:
		return amounts[0].Abs(), decimal.Zero
	case len(amounts) == 1 && hasCredit:
		return decimal.Zero, amounts[0].Abs()
	case len(amounts) == 1 && amounts[0].IsNegative():
		return decimal.Zero, amounts[0].Abs()
	case len(amounts) == 1:
		return amounts[0], decimal.Zero
	default:
		return decimal.Zero, decimal.Zero
	}
}
