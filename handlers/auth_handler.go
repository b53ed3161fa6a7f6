package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/techmaster-vietnam/blogcounter/service"
)

// AuthHandler handles admin authentication endpoints
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Token exchanges the admin password for a bearer token
// POST /auth/token  body: { password: string }
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	var req service.TokenRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resp, err := h.authService.IssueToken(req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAdminDisabled):
			return fiber.NewError(fiber.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrInvalidCredentials):
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}
		return err
	}

	return c.JSON(resp)
}
