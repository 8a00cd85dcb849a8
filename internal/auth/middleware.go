package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Locals keys populated by the token guards.
const (
	LocalsUserID = "user_id"
	LocalsRole   = "role"
)

// JWTMiddleware admits any valid bearer token and stores the user id and
// role in locals for downstream handlers.
func JWTMiddleware(secret string) fiber.Handler {
	validate := tokenValidator(secret)
	return func(c *fiber.Ctx) error {
		claims, err := validate(c)
		if err != nil {
			return err
		}
		c.Locals(LocalsUserID, claims.UserID)
		c.Locals(LocalsRole, claims.Role)
		return c.Next()
	}
}

// AthleteOnly admits athlete tokens only. Run, position and athlete-profile
// writes go through here: coaches read training data, they never produce it.
func AthleteOnly(secret string) fiber.Handler {
	validate := tokenValidator(secret)
	return func(c *fiber.Ctx) error {
		claims, err := validate(c)
		if err != nil {
			return err
		}
		if claims.Role != RoleAthlete {
			return fiber.NewError(fiber.StatusForbidden, "athlete token required")
		}
		c.Locals(LocalsUserID, claims.UserID)
		c.Locals(LocalsRole, claims.Role)
		return c.Next()
	}
}

func tokenValidator(secret string) func(*fiber.Ctx) (*Claims, error) {
	secretBytes := []byte(secret)
	return func(c *fiber.Ctx) (*Claims, error) {
		token := bearerFromHeader(c.Get("Authorization"))
		if token == "" {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		parsed, err := parseMiddlewareClaimsFn(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
			return secretBytes, nil
		})
		if err != nil {
			return nil, fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		claims, ok := parsed.Claims.(*Claims)
		if !ok || !parsed.Valid {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "token invalid")
		}
		return claims, nil
	}
}

var parseMiddlewareClaimsFn = jwt.ParseWithClaims

func bearerFromHeader(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
