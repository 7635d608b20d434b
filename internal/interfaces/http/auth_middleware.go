package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/application/dto"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain/entity"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/pkg/jwt"
)

// Locals keys set by AuthMiddleware.
const (
	LocalUserID       = "user_id"
	LocalRole         = "role"
	LocalLocationKind = "location_kind"
	LocalLocationID   = "location_id"
)

// AuthMiddleware validates the Bearer token and stores the caller's
// identity (user, role, home location) in c.Locals. Tokens are minted by
// the identity service; this API only verifies them.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header required"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "format: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "empty token"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "invalid or expired token"})
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalRole, claims.Role)
		c.Locals(LocalLocationKind, claims.LocationKind)
		c.Locals(LocalLocationID, claims.LocationID)
		return c.Next()
	}
}

// RequireRole rejects callers whose role is not in the allowed set. Apply
// after AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "role not allowed for this operation"})
	}
}

// GetUserID returns the caller's user id (after AuthMiddleware).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetRole returns the caller's role (after AuthMiddleware).
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}

// GetCallerLocation returns the caller's home location from the token
// claims. ok is false when the claims carry no usable location.
func GetCallerLocation(c *fiber.Ctx) (entity.Location, bool) {
	kindStr, _ := c.Locals(LocalLocationKind).(string)
	id, _ := c.Locals(LocalLocationID).(int64)
	kind, ok := entity.ParseLocationKind(kindStr)
	if !ok || id <= 0 {
		return entity.Location{}, false
	}
	return entity.Location{Kind: kind, ID: id}, true
}
