package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"condoku_backend/internals/features/delinquency/client"
	"condoku_backend/internals/features/delinquency/dto"
	"condoku_backend/internals/features/delinquency/spreadsheet"
	"condoku_backend/internals/helpers/logger"
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Decode a spreadsheet and upload it in parts",
	Long: `Decodes the .xlsx file and sends its rows to POST /api/upload in sequential
parts of one batch. A failing part stops the upload; parts already sent stay
committed and re-running with the same --batch-id re-sends them safely.`,
	Example: `  # Incremental upload
  importer upload --file boletos.xlsx --token $TOKEN

  # Full replacement, resumable
  importer upload --file boletos.xlsx --reset --batch-id junho-2024`,
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().String("file", "", "Spreadsheet to upload (.xlsx)")
	uploadCmd.Flags().Int("chunk-size", spreadsheet.DefaultChunkSize, "Rows per part")
	uploadCmd.Flags().Bool("reset", false, "Replace the active data set instead of merging")
	uploadCmd.Flags().String("batch-id", "", "Batch id (random when empty)")
	addAPIFlags(uploadCmd)
	_ = uploadCmd.MarkFlagRequired("file")
}

func runUpload(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("upload")

	file, _ := cmd.Flags().GetString("file")
	chunkSize, _ := cmd.Flags().GetInt("chunk-size")
	reset, _ := cmd.Flags().GetBool("reset")
	batchID, _ := cmd.Flags().GetString("batch-id")
	api, token, err := apiFlags(cmd)
	if err != nil {
		return err
	}
	if chunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive")
	}

	decoded, err := spreadsheet.DecodeFile(file)
	if err != nil {
		return err
	}
	log.Info().
		Str("file", file).
		Str("sheet", decoded.Sheet).
		Int("rows", len(decoded.Rows)).
		Int("dropped", decoded.Dropped).
		Msg("spreadsheet decoded")

	out := cmd.OutOrStdout()
	sum, err := client.New(api, token).Upload(cmd.Context(), decoded.Rows,
		client.UploadOptions{ChunkSize: chunkSize, Reset: reset, BatchID: batchID},
		func(part, total int, res dto.UploadResponse) {
			fmt.Fprintf(out, "Parte %d de %d: %s\n", part, total, res.Message)
		})
	if err != nil {
		if sum.BatchID != "" {
			fmt.Fprintf(out, "Lote %s interrompido; reenvie com --batch-id %s\n", sum.BatchID, sum.BatchID)
		}
		return err
	}

	fmt.Fprintf(out, "Lote %s (%d partes): %s\n", sum.BatchID, sum.Parts, dto.ImportMessage(sum.Stats))
	return nil
}
