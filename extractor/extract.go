package extractor

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"

	"github.com/aqlanhadi/recon/export"
	"github.com/aqlanhadi/recon/extractor/ap_aging"
	"github.com/aqlanhadi/recon/extractor/common"
	"github.com/aqlanhadi/recon/extractor/gl_balance"
	"github.com/aqlanhadi/recon/extractor/gl_transactions"
	"github.com/aqlanhadi/recon/logger"
	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

var ErrUnknownKind = errors.New("unknown report kind")

type Kind string

const (
	KindAPAging      Kind = "ap-aging"
	KindGLBalance    Kind = "gl-balance"
	KindTransactions Kind = "transactions"
)

// DefaultAPAccount is the payables control account stamped on AP aging rows.
const DefaultAPAccount = "20100"

type kindDef struct {
	report string
	sheet  string
	run    func(ctx context.Context, doc common.Document, opts Options, s *common.Summary) (any, int, error)
}

var kinds = map[Kind]kindDef{
	KindAPAging:      {report: "AP Aging", sheet: "AP Aging", run: runAPAging},
	KindGLBalance:    {report: "GL Balance", sheet: "GL Balance", run: runGLBalance},
	KindTransactions: {report: "GL Transactions", sheet: "Transactions", run: runTransactions},
}

// Kinds lists the supported report kinds in display order.
func Kinds() []Kind {
	return []Kind{KindAPAging, KindGLBalance, KindTransactions}
}

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := kinds[k]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// SheetName is the workbook sheet title for kind.
func (k Kind) SheetName() string {
	return kinds[k].sheet
}

// Result holds the output rows of a run, a slice of the kind's OutputRow
// type in CSV column order, together with its summary.
type Result struct {
	Kind    Kind
	Rows    any
	Summary common.Summary
}

// Run classifies every row of doc for kind and builds the upload table.
// A run that yields no records fails with export.ErrNoData.
func Run(ctx context.Context, doc common.Document, kind Kind, opts Options) (*Result, error) {
	def, ok := kinds[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	opts = opts.normalize(kind)
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := logger.FromContext(ctx).With().Str("run_id", runID).Str("kind", string(kind)).Logger()
	ctx = logger.WithContext(ctx, log)

	summary := common.Summary{
		RunID:        runID,
		Kind:         string(kind),
		Report:       def.report,
		Source:       opts.Source,
		Period:       opts.Period,
		Currency:     opts.Currency,
		OCRRequested: opts.OCR,
	}

	log.Info().Str("source", opts.Source).Int("pages", doc.NumPages()).Msg("extraction started")

	rows, count, err := def.run(ctx, doc, opts, &summary)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		log.Warn().Int("skipped", summary.Skipped).Msg("no rows extracted")
		return nil, export.ErrNoData
	}
	summary.Rows = count

	header, preview, err := previewRows(rows, previewSize())
	if err != nil {
		return nil, err
	}
	summary.Header = header
	summary.Preview = preview

	if opts.OCR && summary.PagesWithoutText > 0 {
		log.Warn().Int("pages", summary.PagesWithoutText).Msg("pages without text were not processed; OCR is not performed")
	}
	log.Info().Int("rows", count).Int("skipped", summary.Skipped).Msg("extraction finished")

	return &Result{Kind: kind, Rows: rows, Summary: summary}, nil
}

func previewSize() int {
	if viper.IsSet("output.preview_rows") {
		return viper.GetInt("output.preview_rows")
	}
	return 5
}

func applyStats(s *common.Summary, skipped int, stats common.WalkStats) {
	s.Skipped = skipped
	s.Pages = stats.Pages
	s.Tables = stats.Tables
	s.PagesWithoutText = stats.PagesWithoutText
}

func runAPAging(ctx context.Context, doc common.Document, opts Options, s *common.Summary) (any, int, error) {
	ext, err := ap_aging.Extract(ctx, doc)
	if err != nil {
		return nil, 0, err
	}
	applyStats(s, ext.Skipped, ext.Stats)

	rows := make([]ap_aging.OutputRow, 0, len(ext.Records))
	byBucket := make(map[string]decimal.Decimal)
	total := decimal.Zero
	for _, rec := range ext.Records {
		rows = append(rows, rec.Output(opts.Period, opts.Currency, opts.AccountCode))
		byBucket[rec.Bucket] = byBucket[rec.Bucket].Add(rec.Amount)
		total = total.Add(rec.Amount)
	}

	s.Totals = append(s.Totals, common.Total{Label: "Total", Amount: total})
	for _, b := range ap_aging.Buckets {
		if amount, ok := byBucket[b]; ok {
			s.Totals = append(s.Totals, common.Total{Label: b, Amount: amount})
		}
	}
	return rows, len(rows), nil
}

func runGLBalance(ctx context.Context, doc common.Document, opts Options, s *common.Summary) (any, int, error) {
	ext, err := gl_balance.Extract(ctx, doc)
	if err != nil {
		return nil, 0, err
	}
	applyStats(s, ext.Skipped, ext.Stats)

	rows := make([]gl_balance.OutputRow, 0, len(ext.Records))
	debits, credits := decimal.Zero, decimal.Zero
	for _, rec := range ext.Records {
		rows = append(rows, rec.Output(opts.Period, opts.Currency))
		if rec.Amount.IsNegative() {
			credits = credits.Add(rec.Amount)
		} else {
			debits = debits.Add(rec.Amount)
		}
	}

	s.Totals = []common.Total{
		{Label: "Debit balances", Amount: debits},
		{Label: "Credit balances", Amount: credits},
		{Label: "Net", Amount: debits.Add(credits)},
	}
	return rows, len(rows), nil
}

func runTransactions(ctx context.Context, doc common.Document, opts Options, s *common.Summary) (any, int, error) {
	ext, err := gl_transactions.Extract(ctx, doc)
	if err != nil {
		return nil, 0, err
	}
	applyStats(s, ext.Skipped, ext.Stats)

	rows := make([]gl_transactions.OutputRow, 0, len(ext.Records))
	debits, credits := decimal.Zero, decimal.Zero
	for _, rec := range ext.Records {
		rows = append(rows, rec.Output(opts.Period))
		debits = debits.Add(rec.Debit)
		credits = credits.Add(rec.Credit)
	}

	s.Totals = []common.Total{
		{Label: "Debits", Amount: debits},
		{Label: "Credits", Amount: credits},
		{Label: "Net", Amount: debits.Sub(credits)},
	}
	return rows, len(rows), nil
}

// previewRows renders rows through the CSV schema so the preview shows the
// same columns and formatting as the written file.
func previewRows(rows any, n int) ([]string, [][]string, error) {
	out, err := gocsv.MarshalString(rows)
	if err != nil {
		return nil, nil, fmt.Errorf("rendering preview: %w", err)
	}
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("rendering preview: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}
	body := records[1:]
	if n >= 0 && len(body) > n {
		body = body[:n]
	}
	return records[0], body, nil
}
