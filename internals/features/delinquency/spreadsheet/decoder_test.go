package spreadsheet

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"condoku_backend/internals/features/delinquency/dto"
	"condoku_backend/internals/features/delinquency/service"
)

var header = []interface{}{
	"REFERÊNCIA", "Condomínio", "CNPJ", "Nome Pagador", "Unidade", "Doc", "Complemento",
	"Vencimento", "Vlr Original", "Multa", "Juros", "Vlr Total", "Status",
}

func workbook(t *testing.T, rows ...[]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := r
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestDecode(t *testing.T) {
	buf := workbook(t,
		header,
		[]interface{}{12, "Residencial Aurora", "12.345.678/0001-90", "Maria", "101", "D-1", "Bloco A", 45292, 100.5, 2.01, 0, 102.51, "Aberto"},
		[]interface{}{12, "Residencial Aurora", "", "João", "102", "  ", "", "15/02/2024", 80, "", "", 81.6, ""},
		[]interface{}{"x", "Residencial Aurora", "", "Ana", "103", "D-3", "", "2024-03-10", "abc", 0, 1.5, 90, ""},
	)

	out, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Dropped)
	require.Len(t, out.Rows, 2)

	first := out.Rows[0]
	assert.Equal(t, 12, first.Reference)
	assert.Equal(t, "Maria", first.PayerName)
	assert.Equal(t, "D-1", first.DocumentID)
	assert.Equal(t, "2024-01-01", first.DueDate)
	assert.Equal(t, "100.5", first.OriginalAmount.String())
	require.True(t, first.Penalty.Valid)
	assert.Equal(t, "2.01", first.Penalty.Decimal.String())
	assert.False(t, first.Interest.Valid, "zero interest is treated as absent")
	assert.Equal(t, "102.51", first.TotalAmount.String())

	third := out.Rows[1]
	assert.Equal(t, 0, third.Reference)
	assert.True(t, third.OriginalAmount.IsZero())
	assert.False(t, third.Penalty.Valid)
	assert.Equal(t, "1.5", third.Interest.Decimal.String())
	assert.Equal(t, "2024-03-10", third.DueDate)
}

func TestDecodeMissingColumns(t *testing.T) {
	buf := workbook(t,
		[]interface{}{"Referência", "Condomínio", "Unidade", "Doc", "Venc", "Vlr Total"},
		[]interface{}{1, "X", "101", "D", "2024-01-01", 10},
	)

	_, err := Decode(buf)
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrValidation))
	assert.Equal(t,
		"Colunas obrigatórias não encontradas: CNPJ, Nome do Pagador, Complemento, Vlr Original, Multa, Juros, Status",
		err.Error())
}

func TestDecodeRowsEdgeCases(t *testing.T) {
	_, err := DecodeRows([][]string{{"Referência"}})
	assert.ErrorIs(t, err, service.ErrValidation)

	hdr := []string{"Referência", "Condomínio", "CNPJ", "Nome do Pagador", "Unidade", "Doc", "Complemento", "Venc", "Vlr Original", "Multa", "Juros", "Vlr Total", "Status"}
	_, err = DecodeRows([][]string{hdr, {"1", "X", "", "P", "101", ""}})
	require.Error(t, err)
	assert.Equal(t, "Nenhum boleto válido encontrado no arquivo", err.Error())

	// short rows read missing trailing cells as blank
	out, err := DecodeRows([][]string{hdr, {"1", "X", "", "P", "101", "D-9", "", "01/02/2024", "10"}})
	require.NoError(t, err)
	require.Len(t, out.Rows, 1)
	assert.True(t, out.Rows[0].TotalAmount.IsZero())
	assert.Equal(t, "", out.Rows[0].Status)
	assert.Equal(t, "2024-02-01", out.Rows[0].DueDate)
}

func TestMatchColumnsCaseInsensitive(t *testing.T) {
	idx, missing := MatchColumns([]string{
		"status", "vlr total", "JUROS", "multa", "vlr original", "venc.", "complemento",
		"doc", "unidade", "nome do pagador", "cnpj", "condomínio", "referência",
	})
	assert.Empty(t, missing)
	assert.Equal(t, 12, idx[ColReference])
	assert.Equal(t, 0, idx[ColStatus])
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode(bytes.NewBufferString("not a spreadsheet"))
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestChunk(t *testing.T) {
	rows := make([]dto.SlipRow, 7)
	for i := range rows {
		rows[i].DocumentID = string(rune('a' + i))
	}

	parts := Chunk(rows, 3)
	require.Len(t, parts, 3)
	assert.Len(t, parts[0], 3)
	assert.Len(t, parts[2], 1)

	var flat []dto.SlipRow
	for _, p := range parts {
		flat = append(flat, p...)
	}
	assert.Equal(t, rows, flat)

	assert.Len(t, Chunk(rows, 0), 1)
	assert.Empty(t, Chunk(nil, 5))
}
