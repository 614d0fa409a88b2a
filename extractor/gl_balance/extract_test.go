package gl_balance

import (
	"bytes"
	"context"
	"testing"

	"github.com/aqlanhadi/recon/extractor/common"
	"github.com/gocarina/gocsv"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
report:
  gl_balance:
    liability_prefix: "2"
    liability_codes: ["20100", "22010", "2000", "2100", "2200", "2300", "3100"]
`

func setupTestConfig() {
	viper.Reset()
	viper.SetConfigType("yaml")
	viper.ReadConfig(bytes.NewBufferString(testConfigYAML))
}

func TestClassifyRow_LiabilityFlip(t *testing.T) {
	rec, ok := ClassifyRow(common.NewRow("20100", "Accounts Payable", "500.00"), DefaultConfig())
	require.True(t, ok)
	if rec.Amount.StringFixed(2) != "-500.00" {
		t.Errorf("Expected '-500.00', got '%s'", rec.Amount.StringFixed(2))
	}
}

func TestClassifyRow_AssetKeepsSign(t *testing.T) {
	rec, ok := ClassifyRow(common.NewRow("10100", "Cash at Bank", "500.00"), DefaultConfig())
	require.True(t, ok)
	if rec.Amount.StringFixed(2) != "500.00" {
		t.Errorf("Expected '500.00', got '%s'", rec.Amount.StringFixed(2))
	}
}

func TestClassifyRow_CreditNotation(t *testing.T) {
	rec, ok := ClassifyRow(common.NewRow("4000", "Revenue", "", "1,234.50 CR"), DefaultConfig())
	require.True(t, ok)
	assert.Equal(t, "-1234.50", rec.Amount.StringFixed(2))
}

func TestClassifyRow_NegativeLiabilityUnchanged(t *testing.T) {
	rec, ok := ClassifyRow(common.NewRow("2100", "Accrued Expenses", "(75.00)"), DefaultConfig())
	require.True(t, ok)
	assert.Equal(t, "-75.00", rec.Amount.StringFixed(2))
}

func TestClassifyRow_AmountFromLastDigitCell(t *testing.T) {
	rec, ok := ClassifyRow(common.NewRow("1200", "Receivables", "100.00", "250.00", ""), DefaultConfig())
	require.True(t, ok)
	assert.Equal(t, "Receivables", rec.AccountName)
	assert.Equal(t, "250.00", rec.Amount.StringFixed(2))
}

func TestClassifyRow_NoAmount(t *testing.T) {
	rec, ok := ClassifyRow(common.NewRow("1300", "Prepayments"), DefaultConfig())
	require.True(t, ok)
	assert.Equal(t, "0.00", rec.Amount.StringFixed(2))
}

func TestClassifyRow_Skips(t *testing.T) {
	for _, row := range []common.Row{
		common.NewRow("Account", "Name", "Balance"),
		common.NewRow("Total Assets", "", "9,000.00"),
		common.NewRow("PAGE 3"),
		common.NewRow("", "orphan", "1.00"),
		common.NewRow("Assets", "", ""),
		common.NewRow("12", "Short code", "5.00"),
	} {
		_, ok := ClassifyRow(row, DefaultConfig())
		assert.False(t, ok, "row %q should be skipped", row.Text())
	}
}

func TestClassifyRow_SingleCellRow(t *testing.T) {
	_, ok := ClassifyRow(common.NewRow("Printed 10/31/2025 11:04"), DefaultConfig())
	assert.False(t, ok)

	_, ok = ClassifyRow(common.NewRow("1000"), DefaultConfig())
	assert.False(t, ok)
}

func TestIsLiability(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		code     string
		expected bool
	}{
		{"20100", true},
		{"2-0100", true},
		{"22010", true},
		{"2999", true},
		{"10100", false},
		{"A-1000", false},
		{"ABC", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, IsLiability(tt.code, cfg), "code %q", tt.code)
	}
}

func TestExtract_ConfigOverlay(t *testing.T) {
	setupTestConfig()

	doc := &common.StaticDocument{Pages: []common.Page{{
		Text: "Trial Balance",
		Tables: []common.Table{common.TableFromStrings([][]string{
			{"Account", "Name", "Balance"},
			{"3100", "Retained Earnings", "800.00"},
			{"1000", "Cash", "1,000.00"},
			{"Total", "", "1,800.00"},
		})},
	}}}

	result, err := Extract(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, result.Records, 2)
	assert.Equal(t, "-800.00", result.Records[0].Amount.StringFixed(2))
	assert.Equal(t, "1000.00", result.Records[1].Amount.StringFixed(2))
	assert.Equal(t, 2, result.Skipped)
}

func TestOutput_ColumnOrder(t *testing.T) {
	rec, _ := ClassifyRow(common.NewRow("20100", "Accounts Payable", "500.00"), DefaultConfig())
	rows := []OutputRow{rec.Output("2025-10", "USD")}

	out, err := gocsv.MarshalString(&rows)
	require.NoError(t, err)
	assert.Equal(t,
		"account_code,account_name,period,currency,amount\n20100,Accounts Payable,2025-10,USD,-500.00\n",
		out)
}
