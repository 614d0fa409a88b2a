package ap_aging

import (
	"bytes"
	"context"
	"testing"

	"github.com/aqlanhadi/recon/extractor/common"
	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
report:
  ap_aging:
    skip_keywords: [TOTAL, PAGE, VENDOR, SUBTOTAL]
`

func setupTestConfig() {
	viper.Reset()
	viper.SetConfigType("yaml")
	viper.ReadConfig(bytes.NewBufferString(testConfigYAML))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAssignBucket(t *testing.T) {
	tests := []struct {
		buckets        [4]string
		expectedBucket string
		expectedAmount string
	}{
		{[4]string{"100", "0", "0", "0"}, BucketCurrent, "-100.00"},
		{[4]string{"0", "50", "0", "0"}, Bucket30, "-50.00"},
		{[4]string{"0", "0", "25.5", "0"}, Bucket60, "-25.50"},
		{[4]string{"0", "0", "0", "10"}, Bucket90, "-10.00"},
		{[4]string{"0", "20", "30", "40"}, Bucket30, "-90.00"},
		{[4]string{"0", "0", "0", "0"}, BucketCurrent, "0.00"},
	}

	for _, tt := range tests {
		var buckets [4]decimal.Decimal
		for i, s := range tt.buckets {
			buckets[i] = dec(s)
		}
		bucket, amount := AssignBucket(buckets)
		assert.Equal(t, tt.expectedBucket, bucket, "buckets %v", tt.buckets)
		assert.Equal(t, tt.expectedAmount, amount.StringFixed(2), "buckets %v", tt.buckets)
	}
}

func TestClassifyRow_HeaderAwareBuckets(t *testing.T) {
	table := common.TableFromStrings([][]string{
		{"Vendor", "Inv#", "Date", "Current", "30", "60", "90+"},
		{"Acme Co", "INV-1", "10/01/2025", "", "1500.00", "", ""},
	})

	rec, ok := ClassifyRow(table.Rows[1], table.Header(), DefaultConfig())
	require.True(t, ok)
	assert.Equal(t, "Acme Co", rec.Vendor)
	assert.Equal(t, "INV-1", rec.InvoiceNumber)
	assert.Equal(t, "2025-10-01", rec.InvoiceDate)
	assert.Equal(t, "", rec.DueDate)
	assert.Equal(t, Bucket30, rec.Bucket)
	assert.Equal(t, "-1500.00", rec.Amount.StringFixed(2))
}

func TestClassifyRow_HeaderBucketsSumAllColumns(t *testing.T) {
	header := common.NewRow("Vendor", "Invoice", "Invoice Date", "Due Date", "Current", "1-30", "31-60", "61-90 Days", "Total")
	row := common.NewRow("Globex", "G-77", "09/01/2025", "10/01/2025", "", "200.00", "(50.00)", "", "250.00")

	rec, ok := ClassifyRow(row, header, DefaultConfig())
	require.True(t, ok)
	assert.Equal(t, "2025-09-01", rec.InvoiceDate)
	assert.Equal(t, "2025-10-01", rec.DueDate)
	assert.Equal(t, Bucket30, rec.Bucket)
	assert.Equal(t, "-250.00", rec.Amount.StringFixed(2))
}

func TestClassifyRow_PositionalFourAmounts(t *testing.T) {
	// no recognisable header: amounts are read in encounter order
	row := common.NewRow("Initech", "X-9", "100.00", "(20.00)", "30.00", "40.00")

	rec, ok := ClassifyRow(row, nil, DefaultConfig())
	require.True(t, ok)
	assert.Equal(t, BucketCurrent, rec.Bucket)
	assert.Equal(t, "-190.00", rec.Amount.StringFixed(2))
}

func TestClassifyRow_FewerThanFourAmountsUsesLast(t *testing.T) {
	row := common.NewRow("Umbrella", "U-1", "10/05/2025", "11/05/2025", "75.00", "1,250.00")

	rec, ok := ClassifyRow(row, nil, DefaultConfig())
	require.True(t, ok)
	assert.Equal(t, BucketCurrent, rec.Bucket)
	assert.Equal(t, "-1250.00", rec.Amount.StringFixed(2))
	assert.Equal(t, "2025-10-05", rec.InvoiceDate)
	assert.Equal(t, "2025-11-05", rec.DueDate)
}

func TestClassifyRow_AmountAlwaysNegative(t *testing.T) {
	row := common.NewRow("Hooli", "H-2", "(300.00)")

	rec, ok := ClassifyRow(row, nil, DefaultConfig())
	require.True(t, ok)
	assert.Equal(t, "-300.00", rec.Amount.StringFixed(2))
}

func TestClassifyRow_EmptyHeaderBucketsFallBack(t *testing.T) {
	header := common.NewRow("Vendor", "Inv#", "Current", "30")
	row := common.NewRow("Stark", "S-1", "", "", "88.00")

	rec, ok := ClassifyRow(row, header, DefaultConfig())
	require.True(t, ok)
	assert.Equal(t, BucketCurrent, rec.Bucket)
	assert.Equal(t, "-88.00", rec.Amount.StringFixed(2))
}

func TestClassifyRow_SkipRule(t *testing.T) {
	cfg := DefaultConfig()
	for _, row := range []common.Row{
		common.NewRow("Vendor", "Inv#"),
		common.NewRow("TOTAL", "", "1500.00"),
		common.NewRow("Grand total", "", "1500.00"),
		common.NewRow("Page 1 of 2"),
		common.NewRow("", "INV-3", "10.00"),
	} {
		_, ok := ClassifyRow(row, nil, cfg)
		assert.False(t, ok, "row %q should be skipped", row.Text())
	}
}

func TestClassifyRow_NoAmountDropped(t *testing.T) {
	header := common.NewRow("Vendor", "Inv#", "Date", "Current", "30", "60", "90+")
	for _, row := range []common.Row{
		common.NewRow("Acme Co", "Contact: J. Smith", ""),
		common.NewRow("Acme Co", "INV-1", "10/01/2025"),
		common.NewRow("Acme Co", "INV-1", "10/01/2025", "", "", "", ""),
	} {
		_, ok := ClassifyRow(row, nil, DefaultConfig())
		assert.False(t, ok, "row %q has no amount", row.Text())

		_, ok = ClassifyRow(row, header, DefaultConfig())
		assert.False(t, ok, "row %q has no amount under a bucket header", row.Text())
	}
}

func TestClassifyRow_TooFewCells(t *testing.T) {
	_, ok := ClassifyRow(common.NewRow("Acme Co", "1500.00"), nil, DefaultConfig())
	assert.False(t, ok)
}

func TestBucketColumns(t *testing.T) {
	header := common.NewRow("Vendor", "Inv#", "Date", "Current", "30", "60", "90+")
	assert.Equal(t, [4]int{3, 4, 5, 6}, BucketColumns(header))

	assert.Equal(t, [4]int{-1, -1, -1, -1}, BucketColumns(nil))
}

func TestExtract_EndToEnd(t *testing.T) {
	setupTestConfig()

	doc := &common.StaticDocument{Pages: []common.Page{{
		Text: "Aged Payables Report",
		Tables: []common.Table{common.TableFromStrings([][]string{
			{"Vendor", "Inv#", "Date", "Current", "30", "60", "90+"},
			{"Acme Co", "INV-1", "10/01/2025", "", "1500.00", "", ""},
			{"Subtotal Acme", "", "", "", "1500.00", "", ""},
			{"Globex", "INV-2", "09/02/2025", "20.00", "", "", ""},
			{"Total", "", "", "20.00", "1500.00", "", ""},
		})},
	}}}

	result, err := Extract(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, result.Records, 2)
	assert.Equal(t, 3, result.Skipped)
	assert.Equal(t, Bucket30, result.Records[0].Bucket)
	assert.Equal(t, BucketCurrent, result.Records[1].Bucket)
	assert.Equal(t, "-20.00", result.Records[1].Amount.StringFixed(2))
}

func TestOutput_ColumnOrder(t *testing.T) {
	rec := Record{Vendor: "Acme Co", InvoiceNumber: "INV-1", InvoiceDate: "2025-10-01", Bucket: Bucket30, Amount: dec("-1500")}
	rows := []OutputRow{rec.Output("2025-10", "USD", "20100")}

	out, err := gocsv.MarshalString(&rows)
	require.NoError(t, err)
	assert.Equal(t,
		"vendor,invoice_number,invoice_date,due_date,aging_bucket,currency,amount,account_code,period\n"+
			"Acme Co,INV-1,2025-10-01,,30 Days,USD,-1500.00,20100,2025-10\n",
		out)
}
