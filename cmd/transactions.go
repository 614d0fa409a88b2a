package cmd

import (
	"github.com/aqlanhadi/recon/extractor"
	"github.com/spf13/cobra"
)

var transactionsFlags extractFlags

var transactionsCmd = &cobra.Command{
	Use:     "transactions",
	Aliases: []string{"extract_transactions"},
	Short:   "Extract general ledger journal lines",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtraction(cmd, extractor.KindTransactions, &transactionsFlags)
	},
}

func init() {
	rootCmd.AddCommand(transactionsCmd)
	transactionsFlags.register(transactionsCmd)
}
