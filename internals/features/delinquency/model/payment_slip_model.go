package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	StatusSettled = "Quitado"
)

// PaymentSlip is one delinquent boleto. Table layout matches the Supabase table the
// dashboard was first built on.
type PaymentSlip struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;column:id"`

	Reference      int                 `gorm:"not null;index:idx_boletos_referencia;column:referencia"`
	PropertyGroup  string              `gorm:"type:text;not null;column:condominio"`
	TaxID          *string             `gorm:"type:text;column:cnpj"`
	PayerName      string              `gorm:"type:text;not null;column:nome_pagador"`
	Unit           string              `gorm:"type:text;not null;column:unidade"`
	DocumentID     string              `gorm:"type:text;not null;uniqueIndex:uq_boletos_doc;column:doc"`
	Supplement     *string             `gorm:"type:text;column:complemento"`
	DueDate        datatypes.Date      `gorm:"type:date;not null;column:vencimento"`
	OriginalAmount decimal.Decimal     `gorm:"type:numeric(14,2);not null;column:vlr_original"`
	Penalty        decimal.NullDecimal `gorm:"type:numeric(14,2);column:multa"`
	Interest       decimal.NullDecimal `gorm:"type:numeric(14,2);column:juros"`
	TotalAmount    decimal.Decimal     `gorm:"type:numeric(14,2);not null;column:vlr_total"`
	Status         *string             `gorm:"type:text;column:status"`

	// storage-managed
	ImportDate datatypes.Date `gorm:"type:date;not null;column:data_importacao"`
	UpdatedAt  time.Time      `gorm:"column:updated_at"`
	Settled    bool           `gorm:"not null;index:idx_boletos_quitado;column:quitado"`
	BatchID    *string        `gorm:"type:text;column:batch_id"`
	ImportedAt *time.Time     `gorm:"column:imported_at"`
	Active     bool           `gorm:"not null;index:idx_boletos_ativo;column:ativo"`
}

func (PaymentSlip) TableName() string {
	return "boletos_inadimplentes"
}

func (p *PaymentSlip) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// UnitKey is the aggregation grain: units are only unique within a reference.
func (p PaymentSlip) UnitKey() string {
	return UnitKey(p.Reference, p.Unit)
}

func (p PaymentSlip) DueTime() time.Time {
	return time.Time(p.DueDate)
}
