package cmd

import (
	"fmt"

	"github.com/aqlanhadi/recon/api"
	"github.com/aqlanhadi/recon/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP API server",
	Long:  `Starts the HTTP API server that accepts report PDFs and returns the extracted CSV or an analysis as JSON.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := api.DefaultConfig()
		if viper.IsSet("server.port") {
			cfg.Port = ":" + viper.GetString("server.port")
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = ":" + servePort
		}
		if viper.IsSet("server.max_upload_mb") {
			cfg.MaxUploadBytes = viper.GetInt64("server.max_upload_mb") << 20
		}
		cfg.Layout = layoutConfig()
		cfg.Logger = logger.WithFields(log, map[string]interface{}{"component": "server"})

		server := api.New(cfg)
		fmt.Fprintf(cmd.OutOrStdout(), "listening on %s\n", cfg.Port)
		return server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&servePort, "port", "p", "8080", "Port to run the API server on")
}
