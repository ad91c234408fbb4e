package controller

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"condoku_backend/internals/features/delinquency/dto"
	"condoku_backend/internals/features/delinquency/service"
	helper "condoku_backend/internals/helpers"
	helperAuth "condoku_backend/internals/helpers/auth"
)

type MetricsController struct {
	Service *service.MetricsService
	Log     zerolog.Logger
}

func NewMetricsController(svc *service.MetricsService, log zerolog.Logger) *MetricsController {
	return &MetricsController{Service: svc, Log: log}
}

// ParseRefs reads "1,2,3"; blanks are skipped.
func ParseRefs(raw string) ([]int, error) {
	var refs []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		refs = append(refs, n)
	}
	return refs, nil
}

// GET /api/metrics?refs=1,2
func (ctl *MetricsController) GetMetrics(c *fiber.Ctx) error {
	refs, err := ParseRefs(c.Query("refs"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Parâmetro refs inválido")
	}

	rep, err := ctl.Service.GetMetrics(c.UserContext(), helperAuth.GetCaller(c), refs)
	if err != nil {
		return writeServiceError(c, ctl.Log, err)
	}
	return c.JSON(dto.ToMetricsResponse(rep))
}
