package cmd

import (
	"encoding/json"
	"errors"
	"path/filepath"

	"github.com/aqlanhadi/recon/export"
	"github.com/aqlanhadi/recon/extractor/analyzer"
	"github.com/aqlanhadi/recon/extractor/common"
	"github.com/spf13/cobra"
)

var (
	analyzeInput string
	analyzePage  int
	analyzeJSON  bool
)

var analyzeCmd = &cobra.Command{
	Use:     "analyze",
	Aliases: []string{"pdf_analyzer"},
	Short:   "Inspect a PDF and suggest which extractor to run",
	Long: `Reports, per page, whether text can be extracted, what kind of report
the page looks like and the shape of each detected table, then recommends
an extraction command. Nothing is written to disk.`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analyzeInput == "" {
		return errors.New("--input is required")
	}

	doc, err := common.OpenPDF(analyzeInput, layoutConfig())
	if err != nil {
		return err
	}
	defer doc.Close()

	log.Info().Str("input", analyzeInput).Int("pages", doc.NumPages()).Msg("📄 analyzing")

	analysis, err := analyzer.Analyze(commandContext(cmd), doc, analyzePage)
	if err != nil {
		return err
	}
	analysis.Source = filepath.Base(analyzeInput)

	if analyzeJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(analysis)
	}
	export.PrintAnalysis(cmd.OutOrStdout(), analysis)
	return nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeInput, "input", "i", "", "path to the PDF to inspect")
	analyzeCmd.Flags().IntVar(&analyzePage, "page", 0, "only analyze this page (1-based)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the analysis as JSON")
}
