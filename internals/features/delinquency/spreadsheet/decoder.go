// Package spreadsheet turns the condominium management export (.xlsx) into upload rows.
package spreadsheet

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"condoku_backend/internals/features/delinquency/dto"
	"condoku_backend/internals/features/delinquency/service"
	"condoku_backend/internals/helpers/dbtime"
)

const (
	ColReference      = "Referência"
	ColPropertyGroup  = "Condomínio"
	ColTaxID          = "CNPJ"
	ColPayerName      = "Nome do Pagador"
	ColUnit           = "Unidade"
	ColDocumentID     = "Doc"
	ColSupplement     = "Complemento"
	ColDueDate        = "Venc"
	ColOriginalAmount = "Vlr Original"
	ColPenalty        = "Multa"
	ColInterest       = "Juros"
	ColTotalAmount    = "Vlr Total"
	ColStatus         = "Status"
)

// RequiredColumns in the order they are reported when missing.
var RequiredColumns = []string{
	ColReference, ColPropertyGroup, ColTaxID, ColPayerName, ColUnit, ColDocumentID,
	ColSupplement, ColDueDate, ColOriginalAmount, ColPenalty, ColInterest, ColTotalAmount, ColStatus,
}

type Decoded struct {
	Sheet   string
	Rows    []dto.SlipRow
	Dropped int
}

func DecodeFile(path string) (*Decoded, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads the first sheet. The first row is the header.
func Decode(r io.Reader) (*Decoded, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, service.NewValidationError("Arquivo inválido: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, service.NewValidationError("Arquivo sem planilhas")
	}
	raw, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, service.NewValidationError("Falha ao ler planilha %s: %v", sheets[0], err)
	}
	out, err := DecodeRows(raw)
	if err != nil {
		return nil, err
	}
	out.Sheet = sheets[0]
	return out, nil
}

// DecodeRows maps a header row plus data rows. Rows with a blank document id are dropped.
func DecodeRows(raw [][]string) (*Decoded, error) {
	if len(raw) < 2 {
		return nil, service.NewValidationError("Arquivo deve conter cabeçalho e pelo menos uma linha de dados")
	}
	idx, missing := MatchColumns(raw[0])
	if len(missing) > 0 {
		return nil, service.NewValidationError("Colunas obrigatórias não encontradas: %s", strings.Join(missing, ", "))
	}

	out := &Decoded{Rows: make([]dto.SlipRow, 0, len(raw)-1)}
	for _, cells := range raw[1:] {
		get := func(col string) string {
			i := idx[col]
			if i >= len(cells) {
				return ""
			}
			return strings.TrimSpace(cells[i])
		}

		doc := get(ColDocumentID)
		if doc == "" {
			out.Dropped++
			continue
		}
		out.Rows = append(out.Rows, dto.SlipRow{
			Reference:      parseInt(get(ColReference)),
			PropertyGroup:  get(ColPropertyGroup),
			TaxID:          get(ColTaxID),
			PayerName:      get(ColPayerName),
			Unit:           get(ColUnit),
			DocumentID:     doc,
			Supplement:     get(ColSupplement),
			DueDate:        normalizeDate(get(ColDueDate)),
			OriginalAmount: parseAmount(get(ColOriginalAmount)),
			Penalty:        parseOptionalAmount(get(ColPenalty)),
			Interest:       parseOptionalAmount(get(ColInterest)),
			TotalAmount:    parseAmount(get(ColTotalAmount)),
			Status:         get(ColStatus),
		})
	}
	if len(out.Rows) == 0 {
		return nil, service.NewValidationError("Nenhum boleto válido encontrado no arquivo")
	}
	return out, nil
}

// MatchColumns finds, for every required column, the first header containing its name
// (case-insensitive, " do " optional). It returns the names it could not find.
func MatchColumns(header []string) (map[string]int, []string) {
	lowered := make([]string, len(header))
	for i, h := range header {
		lowered[i] = strings.ToLower(strings.TrimSpace(h))
	}

	idx := make(map[string]int, len(RequiredColumns))
	var missing []string
	for _, col := range RequiredColumns {
		want := strings.ToLower(col)
		alt := strings.ReplaceAll(want, " do ", " ")
		found := -1
		for i, h := range lowered {
			if h == "" {
				continue
			}
			if strings.Contains(h, want) || strings.Contains(h, alt) {
				found = i
				break
			}
		}
		if found < 0 {
			missing = append(missing, col)
			continue
		}
		idx[col] = found
	}
	return idx, missing
}

func parseInt(s string) int {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int(f)
}

func parseAmount(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return v
}

// parseOptionalAmount treats zero the same as a blank cell.
func parseOptionalAmount(s string) decimal.NullDecimal {
	v := parseAmount(s)
	if v.IsZero() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(v)
}

func normalizeDate(s string) string {
	t, err := dbtime.ParseDate(s)
	if err != nil {
		return s
	}
	return t.Format(dbtime.LayoutISODate)
}
