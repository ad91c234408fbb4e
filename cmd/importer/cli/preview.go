package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"condoku_backend/internals/features/delinquency/spreadsheet"
	"condoku_backend/internals/helpers/format"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Decode a spreadsheet and print the first rows",
	RunE:  runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().String("file", "", "Spreadsheet to decode (.xlsx)")
	previewCmd.Flags().Int("rows", 10, "Number of rows to print")
	_ = previewCmd.MarkFlagRequired("file")
}

func runPreview(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	limit, _ := cmd.Flags().GetInt("rows")

	decoded, err := spreadsheet.DecodeFile(file)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Aba %q: %s boletos (%d linhas sem documento ignoradas)\n\n",
		decoded.Sheet, format.Number(float64(len(decoded.Rows))), decoded.Dropped)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "REF\tUNIDADE\tDOC\tVENCIMENTO\tVALOR TOTAL")
	for i, r := range decoded.Rows {
		if i >= limit {
			break
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			r.Reference, r.Unit, r.DocumentID, format.DateString(r.DueDate), format.Currency(r.TotalAmount))
	}
	return w.Flush()
}
