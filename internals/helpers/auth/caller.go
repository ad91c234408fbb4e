// file: internals/helpers/auth/caller.go
package helper

import (
	"strings"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
)

// Locals key under which the auth middleware stores the verified caller.
const LocCaller = "caller"

const (
	RoleAuthenticated = "authenticated"
	RoleServiceRole   = "service_role"
)

// Caller is the identity behind one request, as asserted by a Supabase access token.
type Caller struct {
	UserID string
	Email  string
	Role   string
	Token  string
	Claims map[string]any
}

// ClaimsJSON renders the claims the way PostgREST exposes them to row-level policies.
func (c *Caller) ClaimsJSON() (string, error) {
	claims := c.Claims
	if claims == nil {
		claims = map[string]any{"sub": c.UserID, "role": c.Role}
		if c.Email != "" {
			claims["email"] = c.Email
		}
	}
	b, err := sonic.Marshal(claims)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func GetCaller(c *fiber.Ctx) *Caller {
	if v, ok := c.Locals(LocCaller).(*Caller); ok {
		return v
	}
	return nil
}

// BearerToken reads "Authorization: Bearer <token>" tolerating extra spaces and quotes.
func BearerToken(c *fiber.Ctx) string {
	fields := strings.Fields(strings.TrimSpace(c.Get(fiber.HeaderAuthorization)))
	if len(fields) < 2 || !strings.EqualFold(fields[0], "Bearer") {
		return ""
	}
	return strings.Trim(strings.TrimSpace(fields[1]), "\"'")
}
