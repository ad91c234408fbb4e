package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"condoku_backend/internals/configs"
	"condoku_backend/internals/helpers/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "importer",
	Short: "Condoku importer - envia planilhas de boletos inadimplentes para a API",
	Long: `importer decodes the delinquency spreadsheet exported by the condominium
administrator and sends it to the Condoku API in sequential parts, the same way
the dashboard does.

API URL and token default to CONDOKU_API_URL and CONDOKU_TOKEN.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		fmt.Fprintf(os.Stderr, "Erro: %v\n", err)
		os.Exit(1)
	}
}

func addAPIFlags(cmd *cobra.Command) {
	cmd.Flags().String("api", configs.GetEnv("CONDOKU_API_URL", "http://localhost:3000"), "Base URL of the Condoku API")
	cmd.Flags().String("token", configs.GetEnv("CONDOKU_TOKEN"), "Supabase access token")
}

func apiFlags(cmd *cobra.Command) (string, string, error) {
	api, _ := cmd.Flags().GetString("api")
	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		return "", "", fmt.Errorf("--token (or CONDOKU_TOKEN) is required")
	}
	return api, token, nil
}
