// file: internals/helpers/auth/verifier.go
package helper

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidToken = errors.New("invalid token")

// Verifier turns a bearer token into a Caller.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Caller, error)
}

/* ======== Local verification (HS256, SUPABASE_JWT_SECRET) ======== */

type JWTVerifier struct {
	Secret []byte
	Skew   time.Duration
	Now    func() time.Time
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{Secret: []byte(secret), Skew: 30 * time.Second, Now: time.Now}
}

func (v *JWTVerifier) Verify(_ context.Context, token string) (*Caller, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrInvalidToken
	}
	claims := jwt.MapClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}), jwt.WithoutClaimsValidation())
	if _, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return v.Secret, nil
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if err := v.checkExpiry(claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	role, _ := claims["role"].(string)
	// the anon key is a valid JWT too; only signed-in users and the service key pass
	if role != RoleAuthenticated && role != RoleServiceRole {
		return nil, fmt.Errorf("%w: role %q not allowed", ErrInvalidToken, role)
	}
	sub, _ := claims["sub"].(string)
	if role == RoleAuthenticated && strings.TrimSpace(sub) == "" {
		return nil, fmt.Errorf("%w: missing sub", ErrInvalidToken)
	}
	email, _ := claims["email"].(string)

	return &Caller{
		UserID: sub,
		Email:  email,
		Role:   role,
		Token:  token,
		Claims: claims,
	}, nil
}

func (v *JWTVerifier) checkExpiry(claims jwt.MapClaims) error {
	var exp int64
	switch t := claims["exp"].(type) {
	case float64:
		exp = int64(t)
	case int64:
		exp = t
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return errors.New("invalid exp")
		}
		exp = n
	case nil:
		return errors.New("token has no exp")
	default:
		return errors.New("invalid exp type")
	}
	now := time.Now
	if v.Now != nil {
		now = v.Now
	}
	if now().After(time.Unix(exp, 0).Add(v.Skew)) {
		return errors.New("token expired")
	}
	return nil
}

/* ======== Remote verification (GET /auth/v1/user) ======== */

// SupabaseUserVerifier asks the auth server who the token belongs to. Used when no JWT
// secret is configured.
type SupabaseUserVerifier struct {
	BaseURL string
	AnonKey string
	Timeout time.Duration
}

type supabaseUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func NewSupabaseUserVerifier(baseURL, anonKey string) *SupabaseUserVerifier {
	return &SupabaseUserVerifier{
		BaseURL: strings.TrimRight(baseURL, "/"),
		AnonKey: anonKey,
		Timeout: 10 * time.Second,
	}
}

func (v *SupabaseUserVerifier) Verify(_ context.Context, token string) (*Caller, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrInvalidToken
	}
	var u supabaseUser
	code, _, errs := fiber.Get(v.BaseURL+"/auth/v1/user").
		Set("apikey", v.AnonKey).
		Set(fiber.HeaderAuthorization, "Bearer "+token).
		Timeout(v.Timeout).
		Struct(&u)
	if len(errs) > 0 {
		return nil, fmt.Errorf("auth server: %w", errors.Join(errs...))
	}
	if code != fiber.StatusOK || u.ID == "" {
		return nil, fmt.Errorf("%w: auth server answered %d", ErrInvalidToken, code)
	}
	role := u.Role
	if role == "" {
		role = RoleAuthenticated
	}
	return &Caller{UserID: u.ID, Email: u.Email, Role: role, Token: token}, nil
}
