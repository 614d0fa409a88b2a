package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/aqlanhadi/recon/export"
	"github.com/aqlanhadi/recon/extractor"
	"github.com/aqlanhadi/recon/extractor/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// extractFlags are the flags shared by the extraction commands.
type extractFlags struct {
	input    string
	output   string
	period   string
	currency string
	account  string
	xlsx     string
	ocr      bool
}

func (f *extractFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "path to the source PDF")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "path of the CSV to write")
	cmd.Flags().StringVarP(&f.period, "period", "p", "", "reporting period, YYYY-MM")
	cmd.Flags().StringVar(&f.xlsx, "xlsx", "", "also write the table to this workbook")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")
	cmd.MarkFlagRequired("period")
}

func (f *extractFlags) registerCurrency(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.currency, "currency", extractor.DefaultCurrency, "currency code stamped on every row")
}

func (f *extractFlags) registerAccount(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.account, "account", extractor.DefaultAPAccount, "account code stamped on every row")
}

// options resolves flags against configuration; an explicit flag wins.
func (f *extractFlags) options(cmd *cobra.Command) extractor.Options {
	currency := f.currency
	if !cmd.Flags().Changed("currency") && viper.IsSet("defaults.currency") {
		currency = viper.GetString("defaults.currency")
	}
	account := f.account
	if cmd.Flags().Lookup("account") != nil && !cmd.Flags().Changed("account") && viper.IsSet("defaults.ap_account") {
		account = viper.GetString("defaults.ap_account")
	}
	return extractor.Options{
		Period:      f.period,
		Currency:    currency,
		AccountCode: account,
		Source:      filepath.Base(f.input),
		OCR:         f.ocr,
	}
}

func layoutConfig() common.LayoutConfig {
	cfg := common.DefaultLayout()
	if viper.IsSet("layout.row_tolerance") {
		cfg.RowTolerance = viper.GetFloat64("layout.row_tolerance")
	}
	if viper.IsSet("layout.column_gap") {
		cfg.ColumnGap = viper.GetFloat64("layout.column_gap")
	}
	if viper.IsSet("layout.word_spacing") {
		cfg.WordSpacing = viper.GetFloat64("layout.word_spacing")
	}
	if viper.IsSet("layout.min_columns") {
		cfg.MinColumns = viper.GetInt("layout.min_columns")
	}
	if viper.IsSet("layout.min_rows") {
		cfg.MinRows = viper.GetInt("layout.min_rows")
	}
	return cfg
}

// runExtraction validates the run parameters, extracts kind from the input
// PDF and writes the CSV. Nothing is written when extraction finds no rows.
func runExtraction(cmd *cobra.Command, kind extractor.Kind, f *extractFlags) error {
	opts := f.options(cmd)
	if err := opts.Validate(); err != nil {
		return err
	}

	doc, err := common.OpenPDF(f.input, layoutConfig())
	if err != nil {
		return err
	}
	defer doc.Close()

	log.Info().Str("input", f.input).Str("kind", string(kind)).Msg("📄 extracting")

	result, err := extractor.Run(commandContext(cmd), doc, kind, opts)
	if err != nil {
		return err
	}

	if err := export.WriteCSV(f.output, result.Rows); err != nil {
		return err
	}
	if f.xlsx != "" {
		if err := export.WriteXLSX(f.xlsx, kind.SheetName(), result.Rows); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	export.PrintSummary(out, result.Summary)
	fmt.Fprintf(out, "\nCSV written to %s\n", f.output)
	if f.xlsx != "" {
		fmt.Fprintf(out, "Workbook written to %s\n", f.xlsx)
	}
	return nil
}
