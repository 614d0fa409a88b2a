package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aqlanhadi/recon/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Embedded default configuration (from .recon.yaml)
const defaultConfigYAML = `
defaults:
  currency: USD
  ap_account: "20100"
output:
  preview_rows: 5
layout:
  row_tolerance: 3.0
  column_gap: 12.0
  word_spacing: 0.3
  min_columns: 2
  min_rows: 2
report:
  ap_aging:
    skip_keywords: [TOTAL, PAGE, VENDOR]
  gl_balance:
    skip_keywords: [TOTAL, PAGE, ACCOUNT]
    liability_prefix: "2"
    liability_codes: ["20100", "22010", "2000", "2100", "2200", "2300"]
  gl_transactions:
    skip_keywords: [TOTAL, PAGE, DATE]
    min_narrative_length: 11
analyzer:
  preview_rows: 3
  preview_width: 20
  text_preview: 200
server:
  port: "8080"
  max_upload_mb: 32
`

var (
	cfgFile string
	verbose bool
	log     zerolog.Logger
	rootCmd = &cobra.Command{
		Use:   "recon [file.pdf]",
		Short: "Convert financial report PDFs into reconciliation CSVs",
		Long: `recon extracts the tables of printed financial reports (AP aging,
GL balances, GL transaction journals) into fixed-schema CSV files.
Given a single PDF and no command it runs the analyzer on it.`,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				analyzeInput = args[0]
				return runAnalyze(cmd, nil)
			}
			return cmd.Help()
		},
	}
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initLogging)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default is ./.recon.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

func initLogging() {
	log = logger.New(verbose)
}

// commandContext carries the command logger into library calls.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logger.WithContext(ctx, log)
}

func initConfig() {
	if err := loadConfig(cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the embedded defaults, then merges the config file found
// at path, ./.recon.yaml or ~/.recon.yaml on top of them.
func loadConfig(path string) error {
	viper.SetConfigType("yaml")
	if err := viper.ReadConfig(bytes.NewBufferString(defaultConfigYAML)); err != nil {
		return fmt.Errorf("loading embedded configuration: %w", err)
	}

	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".recon")
	}

	viper.SetEnvPrefix("RECON")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	return nil
}
