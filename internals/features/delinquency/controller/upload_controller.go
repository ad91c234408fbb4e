package controller

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"condoku_backend/internals/features/delinquency/dto"
	"condoku_backend/internals/features/delinquency/service"
	"condoku_backend/internals/features/delinquency/spreadsheet"
	helper "condoku_backend/internals/helpers"
)

type UploadController struct {
	Importer  *service.Importer
	Validator *validator.Validate
	ChunkSize int
	Log       zerolog.Logger
}

func NewUploadController(im *service.Importer, chunkSize int, log zerolog.Logger) *UploadController {
	if chunkSize <= 0 {
		chunkSize = spreadsheet.DefaultChunkSize
	}
	return &UploadController{
		Importer:  im,
		Validator: validator.New(),
		ChunkSize: chunkSize,
		Log:       log,
	}
}

// POST /api/upload
func (ctl *UploadController) Upload(c *fiber.Ctx) error {
	if !c.Is("json") {
		return helper.JsonError(c, fiber.StatusUnsupportedMediaType, "Content-Type inválido. Use application/json")
	}

	var req dto.UploadRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Corpo da requisição inválido")
	}
	req.Data = dto.CompactRows(req.Data)
	if len(req.Data) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Nenhum dado válido enviado")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorsToMap(err))
	}

	rows, err := dto.ToModels(req.Data)
	if err != nil {
		return writeServiceError(c, ctl.Log, err)
	}

	res, err := ctl.Importer.Import(c.UserContext(), rows, req.Options())
	if err != nil {
		return writeServiceError(c, ctl.Log, err)
	}
	return c.JSON(dto.NewUploadResponse(dto.ToImportStats(res)))
}

// POST /api/upload/file (multipart: file, reset, chunkSize, batchId)
func (ctl *UploadController) UploadFile(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Arquivo não enviado (campo 'file')")
	}
	if !strings.HasSuffix(strings.ToLower(fh.Filename), ".xlsx") {
		return helper.JsonError(c, fiber.StatusBadRequest, "Apenas arquivos .xlsx são aceitos")
	}

	f, err := fh.Open()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Falha ao ler o arquivo")
	}
	defer f.Close()

	decoded, err := spreadsheet.Decode(f)
	if err != nil {
		return writeServiceError(c, ctl.Log, err)
	}

	reset, _ := strconv.ParseBool(c.FormValue("reset", "false"))
	size := ctl.ChunkSize
	if v, err := strconv.Atoi(c.FormValue("chunkSize")); err == nil && v > 0 {
		size = v
	}
	batchID := strings.TrimSpace(c.FormValue("batchId"))
	if batchID == "" {
		batchID = uuid.NewString()
	}

	parts := spreadsheet.Chunk(decoded.Rows, size)
	var total dto.ImportStats
	for i, part := range parts {
		rows, err := dto.ToModels(part)
		if err == nil {
			var res service.ImportResult
			res, err = ctl.Importer.Import(c.UserContext(), rows, service.ImportOptions{
				BatchID:    batchID,
				PartNumber: i + 1,
				TotalParts: len(parts),
				ResetMode:  reset,
			})
			total = total.Add(dto.ToImportStats(res))
		}
		if err != nil {
			status, msg := classify(err)
			if status >= 500 {
				ctl.Log.Error().Err(err).Str("batch_id", batchID).Int("part", i+1).Msg("file import failed")
			}
			return helper.JsonError(c, status, fmt.Sprintf("Parte %d de %d: %s", i+1, len(parts), msg))
		}
	}

	resp := dto.NewUploadResponse(total)
	resp.BatchID = batchID
	resp.Parts = len(parts)
	return c.JSON(resp)
}
