package controller

import (
	"errors"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"condoku_backend/internals/configs"
	database "condoku_backend/internals/databases"
)

type SystemController struct {
	Config    *configs.Config
	DB        *gorm.DB
	StartedAt time.Time
}

func NewSystemController(cfg *configs.Config, db *gorm.DB) *SystemController {
	return &SystemController{Config: cfg, DB: db, StartedAt: time.Now()}
}

// GET /health
func (ctl *SystemController) Health(c *fiber.Ctx) error {
	dbStatus := "Connected"
	serverStatus := "OK"
	httpStatus := fiber.StatusOK

	if ctl.DB == nil || database.Ping(ctl.DB) != nil {
		dbStatus = "Database connection error"
		serverStatus = "DOWN"
		httpStatus = fiber.StatusServiceUnavailable
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":         serverStatus,
		"database":       dbStatus,
		"server_time":    time.Now().Format(time.RFC3339),
		"uptime_seconds": int(time.Since(ctl.StartedAt).Seconds()),
		"environment":    ctl.Config.Environment,
	})
}

// GET /api/env-check
func (ctl *SystemController) EnvCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":      "ok",
		"environment": ctl.Config.EnvironmentInfo(),
		"message":     "Verificação de variáveis de ambiente",
	})
}

// GET /api/supabase-health probes the auth settings endpoint with the anon key.
func (ctl *SystemController) SupabaseHealth(c *fiber.Ctx) error {
	url, anon := ctl.Config.SupabaseURL, ctl.Config.SupabaseAnonKey
	if url == "" || anon == "" {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"ok": false, "reason": "missing_env"})
	}

	code, body, errs := fiber.Get(url+"/auth/v1/settings").
		Set("apikey", anon).
		Set(fiber.HeaderAuthorization, "Bearer "+anon).
		Timeout(10 * time.Second).
		Bytes()
	if len(errs) > 0 {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok":     false,
			"reason": "exception",
			"error":  errors.Join(errs...).Error(),
		})
	}

	var payload any
	if err := sonic.Unmarshal(body, &payload); err != nil {
		payload = nil
	}
	prefix := anon
	if len(prefix) > 12 {
		prefix = prefix[:12]
	}
	return c.JSON(fiber.Map{
		"ok":        code >= 200 && code < 300,
		"status":    code,
		"json":      payload,
		"keyPrefix": prefix,
	})
}
