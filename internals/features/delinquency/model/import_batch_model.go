package model

import (
	"strconv"
	"time"
)

type ImportKind string

const (
	ImportKindReset       ImportKind = "reset"
	ImportKindIncremental ImportKind = "incremental"
)

// ImportBatch describes one logical import, possibly sent in several parts.
type ImportBatch struct {
	ID           string     `gorm:"type:text;primaryKey;column:id"`
	Kind         ImportKind `gorm:"type:text;not null;column:tipo"`
	TotalRecords int        `gorm:"not null;default:0;column:total_registros"`
	TotalParts   int        `gorm:"not null;default:1;column:total_parts"`
	LastPart     int        `gorm:"not null;default:0;column:last_part"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	CompletedAt  *time.Time `gorm:"column:completed_at"`
}

func (ImportBatch) TableName() string {
	return "import_batches"
}

// ImportBatchDocument records that a document id was part of a batch. The union over
// all parts drives the settlement sweep of the final part.
type ImportBatchDocument struct {
	BatchID    string `gorm:"type:text;primaryKey;column:batch_id"`
	DocumentID string `gorm:"type:text;primaryKey;column:doc"`
}

func (ImportBatchDocument) TableName() string {
	return "import_batch_documents"
}

func UnitKey(reference int, unit string) string {
	return strconv.Itoa(reference) + "-" + unit
}
