package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/techmaster-vietnam/blogcounter/service"
	"github.com/techmaster-vietnam/blogcounter/utils"
)

const adminClaimsKey = "adminClaims"

// AuthMiddleware handles admin JWT authentication
type AuthMiddleware struct {
	authService *service.AuthService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(authService *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// RequireAdmin middleware requires a valid admin token
func (m *AuthMiddleware) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}
		if err := m.authenticate(c, token); err != nil {
			return err
		}
		return c.Next()
	}
}

// OptionalAdmin stores admin claims when a token is sent and lets anonymous
// requests through. A token that is sent but invalid is still rejected.
func (m *AuthMiddleware) OptionalAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return c.Next()
		}
		if err := m.authenticate(c, token); err != nil {
			return err
		}
		return c.Next()
	}
}

func (m *AuthMiddleware) authenticate(c *fiber.Ctx, token string) error {
	claims, err := m.authService.VerifyToken(token)
	if err != nil {
		if errors.Is(err, service.ErrAdminDisabled) {
			return fiber.NewError(fiber.StatusForbidden, "admin access is disabled")
		}
		return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
	}
	c.Locals(adminClaimsKey, claims)
	return nil
}

// extractToken extracts token from Authorization header or cookie
func extractToken(c *fiber.Ctx) string {
	// Try Authorization header first
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}

	// Try cookie
	return c.Cookies("token")
}

// GetAdminFromContext gets admin claims from context
func GetAdminFromContext(c *fiber.Ctx) (*utils.AdminClaims, bool) {
	claims, ok := c.Locals(adminClaimsKey).(*utils.AdminClaims)
	return claims, ok
}

// IsAdmin reports whether the request carried a valid admin token
func IsAdmin(c *fiber.Ctx) bool {
	_, ok := GetAdminFromContext(c)
	return ok
}
