package service

import (
	"context"
	"time"

	"condoku_backend/internals/features/delinquency/model"
	helperAuth "condoku_backend/internals/helpers/auth"
)

// SlipStore is the privileged, process-wide handle used by imports.
type SlipStore interface {
	// FindByDocument returns nil, nil when no record carries doc.
	FindByDocument(ctx context.Context, doc string) (*model.PaymentSlip, error)
	InsertSlip(ctx context.Context, slip *model.PaymentSlip) error
	UpdateSlip(ctx context.Context, slip *model.PaymentSlip) error
	DeactivateActive(ctx context.Context) (int64, error)
	ListUnsettledDocuments(ctx context.Context) ([]string, error)
	MarkSettled(ctx context.Context, doc string, at time.Time) error

	FindBatch(ctx context.Context, id string) (*model.ImportBatch, error)
	CreateBatch(ctx context.Context, batch *model.ImportBatch) error
	TouchBatch(ctx context.Context, id string, part int) error
	AppendBatchDocuments(ctx context.Context, batchID string, docs []string) error
	BatchDocuments(ctx context.Context, batchID string) ([]string, error)
	CompleteBatch(ctx context.Context, batchID string, at time.Time) error
}

// SlipReader is what a caller-scoped handle may do.
type SlipReader interface {
	ListOpenSlips(ctx context.Context, refs []int) ([]model.PaymentSlip, error)
	LatestImportDate(ctx context.Context) (*time.Time, error)
}

// ReaderScope builds a SlipReader bound to one caller's identity for the duration of fn.
type ReaderScope interface {
	WithCaller(ctx context.Context, caller *helperAuth.Caller, fn func(SlipReader) error) error
}
