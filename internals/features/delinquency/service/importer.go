package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"condoku_backend/internals/features/delinquency/model"
	helper "condoku_backend/internals/helpers"
	"condoku_backend/internals/helpers/dbtime"
)

// ImportOptions describes where a call sits inside a logical import.
type ImportOptions struct {
	BatchID    string
	PartNumber int
	TotalParts int
	ResetMode  bool
}

func (o ImportOptions) normalized() ImportOptions {
	o.BatchID = strings.TrimSpace(o.BatchID)
	if o.PartNumber <= 0 {
		o.PartNumber = 1
	}
	if o.TotalParts <= 0 {
		o.TotalParts = 1
	}
	return o
}

// MultiPart reports whether settlement has to wait for the last part.
func (o ImportOptions) MultiPart() bool {
	return o.TotalParts > 1
}

func (o ImportOptions) Final() bool {
	return o.PartNumber >= o.TotalParts
}

func (o ImportOptions) kind() model.ImportKind {
	if o.ResetMode {
		return model.ImportKindReset
	}
	return model.ImportKindIncremental
}

type ImportResult struct {
	Inserted int
	Updated  int
	Settled  int
	Total    int
}

// Importer reconciles uploaded slips against the stored set.
type Importer struct {
	Store  SlipStore
	Locker BatchLocker
	Clock  dbtime.Clock
	Log    zerolog.Logger
}

func NewImporter(store SlipStore, locker BatchLocker, clock dbtime.Clock, log zerolog.Logger) *Importer {
	if locker == nil {
		locker = NoopLocker{}
	}
	return &Importer{Store: store, Locker: locker, Clock: clock, Log: log}
}

// Import upserts rows by document id, then settles every unsettled record whose document
// was not delivered. For multi-part batches the sweep runs once, on the final part, against
// the union of documents of all parts.
func (im *Importer) Import(ctx context.Context, rows []model.PaymentSlip, opts ImportOptions) (ImportResult, error) {
	if len(rows) == 0 {
		return ImportResult{}, NewValidationError("Nenhum dado válido enviado")
	}
	opts = opts.normalized()
	if opts.PartNumber > opts.TotalParts {
		return ImportResult{}, NewValidationError("parte %d maior que o total de partes %d", opts.PartNumber, opts.TotalParts)
	}
	if opts.MultiPart() && opts.BatchID == "" {
		return ImportResult{}, NewValidationError("batchId obrigatório para envios em %d partes", opts.TotalParts)
	}

	log := im.Log.With().
		Str("batch_id", opts.BatchID).
		Int("part", opts.PartNumber).
		Int("total_parts", opts.TotalParts).
		Bool("reset", opts.ResetMode).
		Logger()

	if opts.BatchID != "" {
		unlock, err := im.Locker.Lock(ctx, opts.BatchID)
		if err != nil {
			return ImportResult{}, storeErr("lock batch", err)
		}
		defer unlock()

		if err := im.ensureBatch(ctx, opts, len(rows)); err != nil {
			return ImportResult{}, err
		}
	}

	if opts.ResetMode && opts.PartNumber == 1 {
		n, err := im.Store.DeactivateActive(ctx)
		if err != nil {
			return ImportResult{}, storeErr("deactivate records", err)
		}
		log.Info().Int64("deactivated", n).Msg("reset import: active records deactivated")
	}

	res := ImportResult{Total: len(rows)}
	now := im.Clock.Current()
	today := datatypes.Date(im.Clock.Today())

	delivered := make([]string, 0, len(rows))
	for i := range rows {
		if err := ctx.Err(); err != nil {
			log.Warn().Err(err).Int("processed", i).Msg("import interrupted, settlement skipped")
			return res, storeErr("import interrupted", err)
		}
		row := rows[i]
		delivered = append(delivered, row.DocumentID)

		existing, err := im.Store.FindByDocument(ctx, row.DocumentID)
		if err != nil {
			log.Warn().Err(err).Str("doc", row.DocumentID).Msg("lookup failed, row skipped")
			continue
		}

		if opts.BatchID != "" {
			id := opts.BatchID
			row.BatchID = &id
		} else {
			row.BatchID = nil
		}
		importedAt := now
		row.Active = true
		row.Settled = false
		row.UpdatedAt = now
		row.ImportDate = today
		row.ImportedAt = &importedAt

		if existing != nil {
			row.ID = existing.ID
			if err := im.Store.UpdateSlip(ctx, &row); err != nil {
				log.Warn().Err(err).Str("doc", row.DocumentID).Msg("update failed, row skipped")
				continue
			}
			res.Updated++
			continue
		}

		if err := im.Store.InsertSlip(ctx, &row); err != nil {
			// another part inserted the same document first
			if helper.IsUniqueViolation(err) {
				if err := im.Store.UpdateSlip(ctx, &row); err == nil {
					res.Updated++
					continue
				}
			}
			log.Warn().Err(err).Str("doc", row.DocumentID).Msg("insert failed, row skipped")
			continue
		}
		res.Inserted++
	}

	keep := make(map[string]struct{}, len(delivered))
	for _, d := range delivered {
		keep[d] = struct{}{}
	}

	if opts.MultiPart() {
		if err := im.Store.AppendBatchDocuments(ctx, opts.BatchID, delivered); err != nil {
			return res, storeErr("record batch documents", err)
		}
		if !opts.Final() {
			log.Info().
				Int("inserted", res.Inserted).
				Int("updated", res.Updated).
				Msg("partial import stored, settlement deferred to final part")
			return res, nil
		}
		all, err := im.Store.BatchDocuments(ctx, opts.BatchID)
		if err != nil {
			return res, storeErr("load batch documents", err)
		}
		for _, d := range all {
			keep[d] = struct{}{}
		}
	}

	settled, err := im.sweep(ctx, keep, log)
	res.Settled = settled
	if err != nil {
		return res, err
	}

	if opts.BatchID != "" {
		if err := im.Store.CompleteBatch(ctx, opts.BatchID, im.Clock.Current()); err != nil {
			log.Warn().Err(err).Msg("failed to mark batch completed")
		}
	}

	log.Info().
		Int("inserted", res.Inserted).
		Int("updated", res.Updated).
		Int("settled", res.Settled).
		Int("total", res.Total).
		Msg("import finished")
	return res, nil
}

func (im *Importer) ensureBatch(ctx context.Context, opts ImportOptions, rows int) error {
	b, err := im.Store.FindBatch(ctx, opts.BatchID)
	if err != nil {
		return storeErr("find batch", err)
	}
	if b != nil {
		return storeErr("touch batch", im.Store.TouchBatch(ctx, opts.BatchID, opts.PartNumber))
	}
	err = im.Store.CreateBatch(ctx, &model.ImportBatch{
		ID:           opts.BatchID,
		Kind:         opts.kind(),
		TotalRecords: rows,
		TotalParts:   opts.TotalParts,
		LastPart:     opts.PartNumber,
		CreatedAt:    im.Clock.Current(),
	})
	return storeErr("create batch", err)
}

// sweep settles every unsettled record whose document is not in keep.
func (im *Importer) sweep(ctx context.Context, keep map[string]struct{}, log zerolog.Logger) (int, error) {
	docs, err := im.Store.ListUnsettledDocuments(ctx)
	if err != nil {
		return 0, storeErr("list unsettled", err)
	}
	at := im.Clock.Current()
	settled := 0
	for _, d := range docs {
		if _, ok := keep[d]; ok {
			continue
		}
		if err := im.Store.MarkSettled(ctx, d, at); err != nil {
			log.Warn().Err(err).Str("doc", d).Msg("failed to settle record")
			continue
		}
		settled++
	}
	return settled, nil
}
