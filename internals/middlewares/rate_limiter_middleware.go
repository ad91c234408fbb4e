package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func tooMany(message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTooManyRequests, message)
	}
}

// GlobalRateLimiter is per client IP and covers every endpoint.
func GlobalRateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        300,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: tooMany("Muitas requisições. Tente novamente em instantes."),
	})
}

// UploadRateLimiter is per caller; a large file sends one request per part.
func UploadRateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			if uid, ok := c.Locals("user_id").(string); ok && uid != "" {
				return "upload:" + uid
			}
			return "upload:" + c.IP()
		},
		LimitReached: tooMany("Muitos envios. Aguarde um minuto e continue do mesmo lote."),
	})
}
