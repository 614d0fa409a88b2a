package common

import "github.com/shopspring/decimal"

// Total is a labelled monetary figure shown in a run summary.
type Total struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// Summary describes one extraction run independently of how it is presented.
type Summary struct {
	RunID            string     `json:"run_id"`
	Kind             string     `json:"kind"`
	Report           string     `json:"report"`
	Source           string     `json:"source,omitempty"`
	Period           string     `json:"period"`
	Currency         string     `json:"currency"`
	Rows             int        `json:"rows"`
	Skipped          int        `json:"skipped"`
	Pages            int        `json:"pages"`
	Tables           int        `json:"tables"`
	PagesWithoutText int        `json:"pages_without_text"`
	OCRRequested     bool       `json:"ocr_requested,omitempty"`
	Totals           []Total    `json:"totals"`
	Header           []string   `json:"header"`
	Preview          [][]string `json:"preview"`
}
