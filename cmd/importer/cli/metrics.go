package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"condoku_backend/internals/features/delinquency/client"
	"condoku_backend/internals/features/delinquency/controller"
	"condoku_backend/internals/helpers/format"
)

var metricsCmd = &cobra.Command{
	Use:     "metrics",
	Short:   "Print the delinquency metrics",
	Example: `  importer metrics --refs 1,2`,
	RunE:    runMetrics,
}

func init() {
	rootCmd.AddCommand(metricsCmd)

	metricsCmd.Flags().String("refs", "", "Comma separated condominium references")
	addAPIFlags(metricsCmd)
}

func runMetrics(cmd *cobra.Command, args []string) error {
	rawRefs, _ := cmd.Flags().GetString("refs")
	api, token, err := apiFlags(cmd)
	if err != nil {
		return err
	}
	refs, err := controller.ParseRefs(rawRefs)
	if err != nil {
		return fmt.Errorf("invalid --refs: %w", err)
	}

	res, err := client.New(api, token).GetMetrics(cmd.Context(), refs)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if res.Message != "" {
		fmt.Fprintln(out, res.Message)
	}
	m := res.Metrics
	fmt.Fprintf(out, "Unidades:              %s\n", format.Number(float64(m.TotalUnits)))
	fmt.Fprintf(out, "Unidades inadimplentes: %s\n", format.Number(float64(m.DelinquentUnits)))
	fmt.Fprintf(out, "Inadimplência:         %s\n", format.Percentage(m.DelinquencyRate))
	fmt.Fprintf(out, "Valor em aberto:       %s\n", format.Currency(decimal.NewFromFloat(m.OutstandingAmount)))
	fmt.Fprintf(out, "Boletos em aberto:     %s\n", format.Number(float64(m.OpenSlipCount)))
	if res.LastImportDate != nil {
		fmt.Fprintf(out, "Última importação:     %s\n", *res.LastImportDate)
	}
	return nil
}
