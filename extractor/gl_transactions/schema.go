package gl_transactions

// OutputRow is the upload schema; field order is the CSV column order.
type OutputRow struct {
	AccountCode  string `csv:"account_code"`
	BookedAt     string `csv:"booked_at"`
	Debit        string `csv:"debit"`
	Credit       string `csv:"credit"`
	Amount       string `csv:"amount"`
	Narrative    string `csv:"narrative"`
	SourcePeriod string `csv:"source_period"`
}

func (r Record) Output(period string) OutputRow {
	return OutputRow{
		AccountCode:  r.AccountCode,
		BookedAt:     r.BookedAt,
		Debit:        r.Debit.StringFixed(2),
		Credit:       r.Credit.StringFixed(2),
		Amount:       r.Amount.StringFixed(2),
		Narrative:    r.Narrative,
		SourcePeriod: period,
	}
}
