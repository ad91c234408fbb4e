// file: internals/route/index.go
package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"condoku_backend/internals/features/delinquency/controller"
	delinquencyRoute "condoku_backend/internals/features/delinquency/route"
	helperAuth "condoku_backend/internals/helpers/auth"
	authMiddleware "condoku_backend/internals/middlewares/auth"
)

func SetupRoutes(app *fiber.App, sys *controller.SystemController, verifier helperAuth.Verifier, deps delinquencyRoute.Deps, log zerolog.Logger) {
	log.Info().Msg("setting up base routes")
	BaseRoutes(app, sys)

	log.Info().Msg("setting up private /api group")
	private := app.Group("/api", authMiddleware.AuthMiddleware(verifier, log))
	delinquencyRoute.UserRoutes(private, deps)
	delinquencyRoute.AdminRoutes(private, deps)
}
