package auth

import (
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/intellibazar/intellibazar/internal/respond"
)

const localsKey = "user"

// Middleware validates the bearer token against the issuer's secret. Any
// missing, malformed or expired token yields 401 so clients have a single
// signal for dropping their session.
func (i *Issuer) Middleware() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: i.secret,
		ContextKey: localsKey,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return respond.Fail(c, fiber.StatusUnauthorized, "unauthorized")
		},
	})
}

// RequireRole rejects authenticated callers whose role is not listed.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := ClaimsFromCtx(c)
		if err != nil {
			return respond.Fail(c, fiber.StatusUnauthorized, "unauthorized")
		}
		for _, r := range roles {
			if claims.Role == r {
				return c.Next()
			}
		}
		return respond.Fail(c, fiber.StatusForbidden, "forbidden")
	}
}

// ClaimsFromCtx reads the token placed in locals by Middleware.
func ClaimsFromCtx(c *fiber.Ctx) (Claims, error) {
	tok, ok := c.Locals(localsKey).(*jwt.Token)
	if !ok || tok == nil {
		return Claims{}, fiber.ErrUnauthorized
	}
	claims, err := claimsFromToken(tok)
	if err != nil {
		return Claims{}, fiber.ErrUnauthorized
	}
	return claims, nil
}

// UserIDFromCtx extracts the user_id claim of the authenticated caller.
func UserIDFromCtx(c *fiber.Ctx) (string, error) {
	claims, err := ClaimsFromCtx(c)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}
