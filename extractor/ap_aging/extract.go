package ap_aging

import (
	"context"
	"strings"

	"github.com/aqlanhadi/recon/extractor/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	BucketCurrent = "Current"
	Bucket30      = "30 Days"
	Bucket60      = "60 Days"
	Bucket90      = "90+ Days"
)

// minCells is the narrowest row that can hold vendor, invoice and an amount.
const minCells = 3

// Buckets lists the aging labels in assignment priority.
var Buckets = [4]string{BucketCurrent, Bucket30, Bucket60, Bucket90}

type Config struct {
	SkipKeywords []string
}

// DefaultConfig holds the built-in classifier settings.
func DefaultConfig() Config {
	return Config{
		SkipKeywords: []string{"TOTAL", "PAGE", "VENDOR"},
	}
}

func loadConfig() Config {
	cfg := DefaultConfig()
	if viper.IsSet("report.ap_aging.skip_keywords") {
		cfg.SkipKeywords = viper.GetStringSlice("report.ap_aging.skip_keywords")
	}
	return cfg
}

// Record is one open payable line.
type Record struct {
	Vendor        string
	InvoiceNumber string
	InvoiceDate   string
	DueDate       string
	Bucket        string
	Amount        decimal.Decimal
}

// Extract classifies every table row of doc as an AP aging line.
func Extract(ctx context.Context, doc common.Document) (common.Extraction[Record], error) {
	cfg := loadConfig()
	return common.Classify(ctx, doc, func(ref common.RowRef) (Record, bool) {
		return ClassifyRow(ref.Row, ref.Header, cfg)
	})
}

// ClassifyRow maps a raw row onto a payable record. header is row 0 of the
// source table and may be nil. Rows carrying no non-zero amount are dropped.
func ClassifyRow(row, header common.Row, cfg Config) (Record, bool) {
	if len(row) < minCells || common.ShouldSkip(row, cfg.SkipKeywords) {
		return Record{}, false
	}

	rec := Record{
		Vendor:        row.Cell(0),
		InvoiceNumber: row.Cell(1),
	}

	// first two date-shaped cells after the invoice number
	dates := 0
	for i := 2; i < len(row) && dates < 2; i++ {
		cell := row.Cell(i)
		if !common.DateShaped.MatchString(cell) {
			continue
		}
		if dates == 0 {
			rec.InvoiceDate = common.ParseDate(cell)
		} else {
			rec.DueDate = common.ParseDate(cell)
		}
		dates++
	}

	if buckets, ok := headerBuckets(row, header); ok {
		rec.Bucket, rec.Amount = AssignBucket(buckets)
		return rec, true
	}

	var amounts []decimal.Decimal
	for i := range row {
		cell := row.Cell(i)
		if !common.NumericShaped.MatchString(cell) {
			continue
		}
		if amount := common.CleanAmount(cell, common.AmountOptions{}); !amount.IsZero() {
			amounts = append(amounts, amount)
		}
	}

	switch {
	case len(amounts) >= 4:
		var buckets [4]decimal.Decimal
		for i := range buckets {
			buckets[i] = amounts[i].Abs()
		}
		rec.Bucket, rec.Amount = AssignBucket(buckets)
	case len(amounts) > 0:
		rec.Bucket = BucketCurrent
		rec.Amount = amounts[len(amounts)-1].Abs().Neg()
	default:
		return Record{}, false
	}

	return rec, true
}

// AssignBucket labels a row by its first positive bucket in
// current, 30, 60, 90+ order and returns the negated bucket sum.
func AssignBucket(buckets [4]decimal.Decimal) (string, decimal.Decimal) {
	label := BucketCurrent
	found := false
	sum := decimal.Zero
	for i, b := range buckets {
		if !found && b.IsPositive() {
			label = Buckets[i]
			found = true
		}
		sum = sum.Add(b.Abs())
	}
	return label, sum.Neg()
}

// headerBuckets reads bucket values by column when the header names at least
// two distinct aging columns. It reports false when no such header exists or
// every named bucket is empty.
func headerBuckets(row, header common.Row) ([4]decimal.Decimal, bool) {
	var buckets [4]decimal.Decimal
	columns := BucketColumns(header)

	named := 0
	for _, col := range columns {
		if col >= 0 {
			named++
		}
	}
	if named < 2 {
		return buckets, false
	}

	populated := false
	for i, col := range columns {
		if col < 0 {
			continue
		}
		buckets[i] = common.CleanAmount(row.Cell(col), common.AmountOptions{}).Abs()
		if buckets[i].IsPositive() {
			populated = true
		}
	}
	return buckets, populated
}

// BucketColumns maps each aging bucket to the header column naming it, or -1.
// Columns 0 and 1 hold vendor and invoice number and are never buckets.
func BucketColumns(header common.Row) [4]int {
	columns := [4]int{-1, -1, -1, -1}
	for i := 2; i < len(header); i++ {
		title := strings.ToUpper(header.Cell(i))
		idx := -1
		switch {
		case strings.Contains(title, "CURRENT"):
			idx = 0
		case strings.Contains(title, "90"):
			idx = 3
		case strings.Contains(title, "60"):
			idx = 2
		case strings.Contains(title, "30"):
			idx = 1
		}
		if idx >= 0 && columns[idx] < 0 {
			columns[idx] = i
		}
	}
	return columns
}
