package gl_balance

import (
	"context"
	"regexp"
	"slices"
	"strings"

	"github.com/aqlanhadi/recon/extractor/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

var nonDigits = regexp.MustCompile(`\D`)

// minCells is the narrowest row that can hold a code and a name.
const minCells = 2

type Config struct {
	SkipKeywords    []string
	LiabilityPrefix string
	LiabilityCodes  []string
}

// DefaultConfig holds the built-in classifier settings.
func DefaultConfig() Config {
	return Config{
		SkipKeywords:    []string{"TOTAL", "PAGE", "ACCOUNT"},
		LiabilityPrefix: "2",
		LiabilityCodes:  []string{"20100", "22010", "2000", "2100", "2200", "2300"},
	}
}

func loadConfig() Config {
	cfg := DefaultConfig()
	if viper.IsSet("report.gl_balance.skip_keywords") {
		cfg.SkipKeywords = viper.GetStringSlice("report.gl_balance.skip_keywords")
	}
	if viper.IsSet("report.gl_balance.liability_prefix") {
		cfg.LiabilityPrefix = viper.GetString("report.gl_balance.liability_prefix")
	}
	if viper.IsSet("report.gl_balance.liability_codes") {
		cfg.LiabilityCodes = viper.GetStringSlice("report.gl_balance.liability_codes")
	}
	return cfg
}

// Record is one account balance line.
type Record struct {
	AccountCode string
	AccountName string
	Amount      decimal.Decimal
}

func Extract(ctx context.Context, doc common.Document) (common.Extraction[Record], error) {
	cfg := loadConfig()
	return common.Classify(ctx, doc, func(ref common.RowRef) (Record, bool) {
		return ClassifyRow(ref.Row, cfg)
	})
}

// ClassifyRow reads account code, name and balance from a trial balance row.
// Rows whose first cell has no run of three digits are not accounts.
func ClassifyRow(row common.Row, cfg Config) (Record, bool) {
	if len(row) < minCells || common.ShouldSkip(row, cfg.SkipKeywords) {
		return Record{}, false
	}

	code := row.Cell(0)
	if !common.ThreeDigits.MatchString(code) {
		return Record{}, false
	}

	rec := Record{
		AccountCode: code,
		AccountName: row.Cell(1),
	}

	for i := len(row) - 1; i >= 0; i-- {
		cell := row.Cell(i)
		if common.HasDigit.MatchString(cell) {
			rec.Amount = common.CleanAmount(cell, common.AmountOptions{CreditNotation: true})
			break
		}
	}

	if rec.Amount.IsPositive() && IsLiability(code, cfg) {
		rec.Amount = rec.Amount.Neg()
	}

	return rec, true
}

// IsLiability applies the credit-balance convention: codes starting with the
// liability prefix or listed explicitly, compared on their digits only.
func IsLiability(code string, cfg Config) bool {
	digits := nonDigits.ReplaceAllString(code, "")
	if digits == "" {
		return false
	}
	if cfg.LiabilityPrefix != "" && strings.HasPrefix(digits, cfg.LiabilityPrefix) {
		return true
	}
	return slices.Contains(cfg.LiabilityCodes, digits)
}
