package routes

import (
	"github.com/gofiber/fiber/v2"

	"condoku_backend/internals/features/delinquency/controller"
)

func BaseRoutes(app *fiber.App, sys *controller.SystemController) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Condoku API: Fiber & Supabase PostgreSQL connected")
	})

	app.Get("/health", sys.Health)
	app.Get("/api/env-check", sys.EnvCheck)
	app.Get("/api/supabase-health", sys.SupabaseHealth)
}
