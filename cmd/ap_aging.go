package cmd

import (
	"github.com/aqlanhadi/recon/extractor"
	"github.com/spf13/cobra"
)

var apAgingFlags extractFlags

var apAgingCmd = &cobra.Command{
	Use:     "ap-aging",
	Aliases: []string{"extract_ap_aging"},
	Short:   "Extract an accounts payable aging report",
	Long: `Reads every table of an AP aging report and writes one CSV row per
open invoice: vendor, invoice number, dates, aging bucket and the amount
as a negative liability.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtraction(cmd, extractor.KindAPAging, &apAgingFlags)
	},
}

func init() {
	rootCmd.AddCommand(apAgingCmd)
	apAgingFlags.register(apAgingCmd)
	apAgingFlags.registerCurrency(apAgingCmd)
	apAgingFlags.registerAccount(apAgingCmd)
}
