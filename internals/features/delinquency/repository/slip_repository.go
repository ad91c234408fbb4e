// internals/features/delinquency/repository/slip_repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"condoku_backend/internals/features/delinquency/model"
)

// SlipRepository is the GORM-backed store for payment slips and import batches.
type SlipRepository struct {
	DB *gorm.DB
}

func NewSlipRepository(db *gorm.DB) *SlipRepository {
	return &SlipRepository{DB: db}
}

func (r *SlipRepository) db(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx)
}

/* ====================== SLIPS ====================== */

func (r *SlipRepository) FindByDocument(ctx context.Context, doc string) (*model.PaymentSlip, error) {
	var slip model.PaymentSlip
	err := r.db(ctx).Where("doc = ?", doc).Take(&slip).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &slip, nil
}

func (r *SlipRepository) InsertSlip(ctx context.Context, slip *model.PaymentSlip) error {
	return r.db(ctx).Create(slip).Error
}

// UpdateSlip overwrites every column of the record carrying slip.DocumentID, zero values included.
func (r *SlipRepository) UpdateSlip(ctx context.Context, slip *model.PaymentSlip) error {
	return r.db(ctx).
		Model(&model.PaymentSlip{}).
		Where("doc = ?", slip.DocumentID).
		Select("*").
		Omit("id").
		Updates(slip).Error
}

func (r *SlipRepository) DeactivateActive(ctx context.Context) (int64, error) {
	res := r.db(ctx).
		Model(&model.PaymentSlip{}).
		Where("ativo = ?", true).
		Update("ativo", false)
	return res.RowsAffected, res.Error
}

func (r *SlipRepository) ListUnsettledDocuments(ctx context.Context) ([]string, error) {
	var docs []string
	err := r.db(ctx).
		Model(&model.PaymentSlip{}).
		Where("quitado = ?", false).
		Order("doc").
		Pluck("doc", &docs).Error
	return docs, err
}

func (r *SlipRepository) MarkSettled(ctx context.Context, doc string, at time.Time) error {
	return r.db(ctx).
		Model(&model.PaymentSlip{}).
		Where("doc = ?", doc).
		Updates(map[string]any{
			"quitado":    true,
			"status":     model.StatusSettled,
			"updated_at": at,
		}).Error
}

/* ====================== BATCHES ====================== */

func (r *SlipRepository) FindBatch(ctx context.Context, id string) (*model.ImportBatch, error) {
	var b model.ImportBatch
	err := r.db(ctx).Where("id = ?", id).Take(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateBatch ignores an existing row with the same id, which happens when two parts race.
func (r *SlipRepository) CreateBatch(ctx context.Context, b *model.ImportBatch) error {
	return r.db(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(b).Error
}

func (r *SlipRepository) TouchBatch(ctx context.Context, id string, part int) error {
	return r.db(ctx).
		Model(&model.ImportBatch{}).
		Where("id = ? AND last_part < ?", id, part).
		Update("last_part", part).Error
}

func (r *SlipRepository) AppendBatchDocuments(ctx context.Context, batchID string, docs []string) error {
	if len(docs) == 0 {
		return nil
	}
	rows := make([]model.ImportBatchDocument, 0, len(docs))
	seen := make(map[string]struct{}, len(docs))
	for _, d := range docs {
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		rows = append(rows, model.ImportBatchDocument{BatchID: batchID, DocumentID: d})
	}
	return r.db(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(rows, 500).Error
}

func (r *SlipRepository) BatchDocuments(ctx context.Context, batchID string) ([]string, error) {
	var docs []string
	err := r.db(ctx).
		Model(&model.ImportBatchDocument{}).
		Where("batch_id = ?", batchID).
		Pluck("doc", &docs).Error
	return docs, err
}

func (r *SlipRepository) CompleteBatch(ctx context.Context, batchID string, at time.Time) error {
	return r.db(ctx).
		Model(&model.ImportBatch{}).
		Where("id = ?", batchID).
		Update("completed_at", at).Error
}

// PurgeBatchDocuments drops the per-batch document lists of batches completed before cutoff.
func (r *SlipRepository) PurgeBatchDocuments(ctx context.Context, cutoff time.Time) (int64, error) {
	sub := r.db(ctx).
		Model(&model.ImportBatch{}).
		Select("id").
		Where("completed_at IS NOT NULL AND completed_at < ?", cutoff)
	res := r.db(ctx).
		Where("batch_id IN (?)", sub).
		Delete(&model.ImportBatchDocument{})
	return res.RowsAffected, res.Error
}

/* ====================== READS ====================== */

// ListOpenSlips returns active, unsettled slips, restricted to refs when non-empty.
func (r *SlipRepository) ListOpenSlips(ctx context.Context, refs []int) ([]model.PaymentSlip, error) {
	q := r.db(ctx).
		Where("ativo = ? AND quitado = ?", true, false)
	if len(refs) > 0 {
		q = q.Where("referencia IN ?", refs)
	}
	var out []model.PaymentSlip
	if err := q.Order("referencia, unidade, vencimento").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SlipRepository) LatestImportDate(ctx context.Context) (*time.Time, error) {
	var slip model.PaymentSlip
	err := r.db(ctx).
		Select("data_importacao").
		Order("data_importacao DESC").
		Take(&slip).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	d := time.Time(slip.ImportDate)
	return &d, nil
}
