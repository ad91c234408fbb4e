package dto

import (
	"time"

	"condoku_backend/internals/features/delinquency/model"
)

type ImportBatchDTO struct {
	ID           string     `json:"id"`
	Kind         string     `json:"tipo"`
	TotalRecords int        `json:"total_registros"`
	TotalParts   int        `json:"total_parts"`
	LastPart     int        `json:"last_part"`
	Documents    int        `json:"documentos"`
	Completed    bool       `json:"completed"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

func ToImportBatchDTO(b model.ImportBatch, documents int) ImportBatchDTO {
	return ImportBatchDTO{
		ID:           b.ID,
		Kind:         string(b.Kind),
		TotalRecords: b.TotalRecords,
		TotalParts:   b.TotalParts,
		LastPart:     b.LastPart,
		Documents:    documents,
		Completed:    b.CompletedAt != nil,
		CreatedAt:    b.CreatedAt,
		CompletedAt:  b.CompletedAt,
	}
}
