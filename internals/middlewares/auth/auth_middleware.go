// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	helperAuth "condoku_backend/internals/helpers/auth"
)

const MsgUnauthorized = "Não autorizado"

// AuthMiddleware verifies the bearer token and stores the caller in Locals.
func AuthMiddleware(v helperAuth.Verifier, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := helperAuth.BearerToken(c)
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, MsgUnauthorized)
		}

		caller, err := v.Verify(c.UserContext(), token)
		if err != nil {
			log.Debug().Err(err).Str("path", c.Path()).Msg("token rejected")
			return fiber.NewError(fiber.StatusUnauthorized, MsgUnauthorized)
		}

		c.Locals(helperAuth.LocCaller, caller)
		c.Locals("user_id", caller.UserID)
		return c.Next()
	}
}
