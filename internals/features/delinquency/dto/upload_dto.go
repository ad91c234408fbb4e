package dto

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"condoku_backend/internals/features/delinquency/model"
	"condoku_backend/internals/features/delinquency/service"
	"condoku_backend/internals/helpers/dbtime"
)

// ====================
// Request DTO
// ====================

// SlipRow is one spreadsheet line as the dashboard sends it.
type SlipRow struct {
	Reference      int                 `json:"referencia"`
	PropertyGroup  string              `json:"condominio"`
	TaxID          string              `json:"cnpj,omitempty"`
	PayerName      string              `json:"nome_pagador"`
	Unit           string              `json:"unidade"`
	DocumentID     string              `json:"doc" validate:"required"`
	Supplement     string              `json:"complemento,omitempty"`
	DueDate        string              `json:"vencimento" validate:"required"`
	OriginalAmount decimal.Decimal     `json:"vlr_original"`
	Penalty        decimal.NullDecimal `json:"multa"`
	Interest       decimal.NullDecimal `json:"juros"`
	TotalAmount    decimal.Decimal     `json:"vlr_total"`
	Status         string              `json:"status,omitempty"`
}

type UploadRequest struct {
	Data       []SlipRow `json:"data" validate:"dive"`
	BatchID    string    `json:"batchId,omitempty" validate:"omitempty,max=128"`
	TotalParts int       `json:"totalParts,omitempty" validate:"gte=0"`
	Part       int       `json:"part,omitempty" validate:"gte=0"`
	Reset      bool      `json:"reset,omitempty"`
	Tipo       string    `json:"tipo,omitempty" validate:"omitempty,oneof=reset incremental"`
}

func (r UploadRequest) Options() service.ImportOptions {
	return service.ImportOptions{
		BatchID:    r.BatchID,
		PartNumber: r.Part,
		TotalParts: r.TotalParts,
		ResetMode:  r.Reset || r.Tipo == string(model.ImportKindReset),
	}
}

// ====================
// Converter: Request → Model
// ====================

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// CompactRows trims document ids and drops rows left without one.
func CompactRows(rows []SlipRow) []SlipRow {
	out := make([]SlipRow, 0, len(rows))
	for _, r := range rows {
		r.DocumentID = strings.TrimSpace(r.DocumentID)
		if r.DocumentID == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (r SlipRow) ToModel() (model.PaymentSlip, error) {
	if r.OriginalAmount.IsNegative() || r.TotalAmount.IsNegative() {
		return model.PaymentSlip{}, service.NewValidationError("Valor negativo no documento %s", r.DocumentID)
	}
	due, err := dbtime.ParseDate(r.DueDate)
	if err != nil {
		return model.PaymentSlip{}, service.NewValidationError("Vencimento inválido no documento %s: %q", r.DocumentID, r.DueDate)
	}
	return model.PaymentSlip{
		Reference:      r.Reference,
		PropertyGroup:  r.PropertyGroup,
		TaxID:          optional(r.TaxID),
		PayerName:      r.PayerName,
		Unit:           r.Unit,
		DocumentID:     strings.TrimSpace(r.DocumentID),
		Supplement:     optional(r.Supplement),
		DueDate:        datatypes.Date(due),
		OriginalAmount: r.OriginalAmount,
		Penalty:        r.Penalty,
		Interest:       r.Interest,
		TotalAmount:    r.TotalAmount,
		Status:         optional(r.Status),
	}, nil
}

// ToModels converts rows, skipping those without a document id.
func ToModels(rows []SlipRow) ([]model.PaymentSlip, error) {
	out := make([]model.PaymentSlip, 0, len(rows))
	for _, r := range CompactRows(rows) {
		m, err := r.ToModel()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// ====================
// Response DTO
// ====================

type ImportStats struct {
	Inserted int `json:"inseridos"`
	Updated  int `json:"atualizados"`
	Settled  int `json:"marcadosQuitados"`
	Total    int `json:"total"`
}

type UploadResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Stats   ImportStats `json:"stats"`
	BatchID string      `json:"batchId,omitempty"`
	Parts   int         `json:"parts,omitempty"`
}

func ToImportStats(r service.ImportResult) ImportStats {
	return ImportStats{Inserted: r.Inserted, Updated: r.Updated, Settled: r.Settled, Total: r.Total}
}

func (s ImportStats) Add(o ImportStats) ImportStats {
	return ImportStats{
		Inserted: s.Inserted + o.Inserted,
		Updated:  s.Updated + o.Updated,
		Settled:  s.Settled + o.Settled,
		Total:    s.Total + o.Total,
	}
}

func ImportMessage(s ImportStats) string {
	return fmt.Sprintf("Importação concluída: %d inseridos, %d atualizados, %d marcados como quitados",
		s.Inserted, s.Updated, s.Settled)
}

func NewUploadResponse(s ImportStats) UploadResponse {
	return UploadResponse{Success: true, Message: ImportMessage(s), Stats: s}
}
