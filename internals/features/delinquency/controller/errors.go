package controller

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"condoku_backend/internals/features/delinquency/service"
	helper "condoku_backend/internals/helpers"
	reqLogger "condoku_backend/internals/middlewares/logger"
)

const (
	msgInternal     = "Erro interno do servidor"
	msgUnauthorized = "Não autorizado"
	msgBusy         = "Lote em processamento por outra requisição. Tente novamente."
	msgTimeout      = "Tempo limite excedido. Envie o arquivo em partes menores."
)

// classify maps service errors to a status and a message safe to return.
func classify(err error) (int, string) {
	var ve *service.ValidationError
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		return fiber.StatusUnauthorized, msgUnauthorized
	case errors.Is(err, service.ErrBatchBusy):
		return fiber.StatusConflict, msgBusy
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout, msgTimeout
	case errors.As(err, &ve):
		return fiber.StatusBadRequest, ve.Message
	default:
		return fiber.StatusInternalServerError, msgInternal
	}
}

func writeServiceError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	status, msg := classify(err)
	if status >= 500 {
		rid, _ := c.Locals(reqLogger.LocRequestID).(string)
		log.Error().Err(err).Str("request_id", rid).Str("path", c.Path()).Msg("request failed")
	}
	return helper.JsonError(c, status, msg)
}
