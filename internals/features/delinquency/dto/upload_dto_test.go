package dto

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"condoku_backend/internals/features/delinquency/service"
)

func TestUploadRequestOptions(t *testing.T) {
	opts := UploadRequest{BatchID: "b", Part: 2, TotalParts: 3, Tipo: "reset"}.Options()
	assert.True(t, opts.ResetMode)
	assert.Equal(t, "b", opts.BatchID)
	assert.Equal(t, 2, opts.PartNumber)

	assert.True(t, UploadRequest{Reset: true}.Options().ResetMode)
	assert.False(t, UploadRequest{Tipo: "incremental"}.Options().ResetMode)
}

func TestSlipRowToModel(t *testing.T) {
	m, err := SlipRow{DocumentID: " D-1 ", DueDate: "15/02/2024", TaxID: "  ", Status: "Aberto"}.ToModel()
	require.NoError(t, err)
	assert.Equal(t, "D-1", m.DocumentID)
	assert.Equal(t, "2024-02-15", m.DueTime().Format("2006-01-02"))
	assert.Nil(t, m.TaxID)
	require.NotNil(t, m.Status)
	assert.Equal(t, "Aberto", *m.Status)

	_, err = ToModels([]SlipRow{{DocumentID: "ok", DueDate: "2024-01-01"}, {DocumentID: "bad", DueDate: "ontem"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrValidation))
	assert.Contains(t, err.Error(), "bad")
}

func TestToModelsDropsBlankDocuments(t *testing.T) {
	in := []SlipRow{
		{DocumentID: "   ", DueDate: "2024-01-10"},
		{DocumentID: " D-1 ", DueDate: "2024-01-10"},
		{DocumentID: "", DueDate: "2024-01-11"},
	}
	assert.Len(t, CompactRows(in), 1)

	out, err := ToModels(in)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "D-1", out[0].DocumentID)

	out, err = ToModels(in[:1])
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSlipRowRejectsNegativeAmounts(t *testing.T) {
	_, err := SlipRow{DocumentID: "N", DueDate: "2024-01-10", OriginalAmount: decimal.NewFromInt(-1)}.ToModel()
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrValidation))

	_, err = SlipRow{DocumentID: "N", DueDate: "2024-01-10", TotalAmount: decimal.RequireFromString("-0.01")}.ToModel()
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrValidation))

	_, err = SlipRow{DocumentID: "Z", DueDate: "2024-01-10"}.ToModel()
	assert.NoError(t, err)
}

func TestImportStats(t *testing.T) {
	total := ImportStats{Inserted: 1, Updated: 2}.Add(ImportStats{Inserted: 3, Settled: 4, Total: 9})
	assert.Equal(t, ImportStats{Inserted: 4, Updated: 2, Settled: 4, Total: 9}, total)

	resp := NewUploadResponse(total)
	assert.True(t, resp.Success)
	assert.Equal(t, "Importação concluída: 4 inseridos, 2 atualizados, 4 marcados como quitados", resp.Message)
}
