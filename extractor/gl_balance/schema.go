package gl_balance

// OutputRow is the upload schema; field order is the CSV column order.
type OutputRow struct {
	AccountCode string `csv:"account_code"`
	AccountName string `csv:"account_name"`
	Period      string `csv:"period"`
	Currency    string `csv:"currency"`
	Amount      string `csv:"amount"`
}

func (r Record) Output(period, currency string) OutputRow {
	return OutputRow{
		AccountCode: r.AccountCode,
		AccountName: r.AccountName,
		Period:      period,
		Currency:    currency,
		Amount:      r.Amount.StringFixed(2),
	}
}
