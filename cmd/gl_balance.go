package cmd

import (
	"github.com/aqlanhadi/recon/extractor"
	"github.com/spf13/cobra"
)

var glBalanceFlags extractFlags

var glBalanceCmd = &cobra.Command{
	Use:     "gl-balance",
	Aliases: []string{"extract_gl_balance"},
	Short:   "Extract general ledger account balances",
	Long: `Reads a trial balance or GL balance report and writes one CSV row per
account. Liability accounts are always reported as credit (negative) balances.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtraction(cmd, extractor.KindGLBalance, &glBalanceFlags)
	},
}

func init() {
	rootCmd.AddCommand(glBalanceCmd)
	glBalanceFlags.register(glBalanceCmd)
	glBalanceFlags.registerCurrency(glBalanceCmd)
	glBalanceCmd.Flags().BoolVar(&glBalanceFlags.ocr, "ocr", false, "report pages without extractable text (recognition is not performed)")
}
