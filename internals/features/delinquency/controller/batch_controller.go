package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"condoku_backend/internals/features/delinquency/dto"
	"condoku_backend/internals/features/delinquency/repository"
	"condoku_backend/internals/features/delinquency/scheduler"
	helper "condoku_backend/internals/helpers"
)

type BatchController struct {
	Repo *repository.SlipRepository
	TTL  time.Duration
	Log  zerolog.Logger
}

func NewBatchController(repo *repository.SlipRepository, ttl time.Duration, log zerolog.Logger) *BatchController {
	return &BatchController{Repo: repo, TTL: ttl, Log: log}
}

// GET /api/import-batches/:id
func (ctl *BatchController) GetBatch(c *fiber.Ctx) error {
	id := c.Params("id")
	b, err := ctl.Repo.FindBatch(c.UserContext(), id)
	if err != nil {
		ctl.Log.Error().Err(err).Str("batch_id", id).Msg("find batch failed")
		return helper.JsonError(c, fiber.StatusInternalServerError, msgInternal)
	}
	if b == nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Lote não encontrado")
	}
	docs, err := ctl.Repo.BatchDocuments(c.UserContext(), id)
	if err != nil {
		ctl.Log.Error().Err(err).Str("batch_id", id).Msg("load batch documents failed")
		return helper.JsonError(c, fiber.StatusInternalServerError, msgInternal)
	}
	return helper.JsonOK(c, "ok", dto.ToImportBatchDTO(*b, len(docs)))
}

// POST /api/admin/import-batches/purge
func (ctl *BatchController) Purge(c *fiber.Ctx) error {
	n, err := scheduler.RunBatchCleanup(c.UserContext(), ctl.Repo, ctl.TTL, time.Now(), ctl.Log)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, msgInternal)
	}
	return helper.JsonOK(c, "Limpeza concluída", fiber.Map{"removidos": n})
}
