package auth

import (
	"github.com/gofiber/fiber/v2"

	helperAuth "condoku_backend/internals/helpers/auth"
)

// OnlyRoles lets through callers whose token role is one of roles.
func OnlyRoles(customMessage string, roles ...string) fiber.Handler {
	if customMessage == "" {
		customMessage = "Acesso negado"
	}
	return func(c *fiber.Ctx) error {
		caller := helperAuth.GetCaller(c)
		if caller == nil {
			return fiber.NewError(fiber.StatusUnauthorized, MsgUnauthorized)
		}
		for _, r := range roles {
			if caller.Role == r {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, customMessage)
	}
}
