package ap_aging

// OutputRow is the upload schema; field order is the CSV column order.
type OutputRow struct {
	Vendor        string `csv:"vendor"`
	InvoiceNumber string `csv:"invoice_number"`
	InvoiceDate   string `csv:"invoice_date"`
	DueDate       string `csv:"due_date"`
	AgingBucket   string `csv:"aging_bucket"`
	Currency      string `csv:"currency"`
	Amount        string `csv:"amount"`
	AccountCode   string `csv:"account_code"`
	Period        string `csv:"period"`
}

// Output attaches the run constants to r.
func (r Record) Output(period, currency, accountCode string) OutputRow {
	return OutputRow{
		Vendor:        r.Vendor,
		InvoiceNumber: r.InvoiceNumber,
		InvoiceDate:   r.InvoiceDate,
		DueDate:       r.DueDate,
		AgingBucket:   r.Bucket,
		Currency:      currency,
		Amount:        r.Amount.StringFixed(2),
		AccountCode:   accountCode,
		Period:        period,
	}
}
