package service

import (
	"errors"
	"strings"
	"time"

	"github.com/techmaster-vietnam/blogcounter/config"
	"github.com/techmaster-vietnam/blogcounter/utils"
	"github.com/techmaster-vietnam/goerrorkit"
)

var (
	// ErrAdminDisabled is returned when JWT_SECRET or ADMIN_PASSWORD_HASH is not configured
	ErrAdminDisabled = errors.New("admin access is not configured")
	// ErrInvalidCredentials is returned for a wrong password or an unusable token
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// adminSubject is the token subject; there is a single admin identity
const adminSubject = "admin"

// AuthService issues and verifies admin tokens
type AuthService struct {
	config *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{config: cfg}
}

// TokenRequest represents admin login request
type TokenRequest struct {
	Password string `json:"password"`
}

// TokenResponse represents admin login response
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Enabled reports whether admin tokens can be issued
func (s *AuthService) Enabled() bool {
	return s.config.AdminEnabled()
}

// IssueToken checks the admin password and returns a signed token
func (s *AuthService) IssueToken(req TokenRequest) (*TokenResponse, error) {
	if !s.Enabled() {
		return nil, ErrAdminDisabled
	}

	if strings.TrimSpace(req.Password) == "" {
		return nil, goerrorkit.NewValidationError("password is required", map[string]interface{}{
			"field": "password",
		})
	}

	if !utils.CheckPasswordHash(req.Password, s.config.Admin.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := utils.GenerateToken(adminSubject, s.config.JWT.Secret, s.config.JWT.Expiration)
	if err != nil {
		return nil, goerrorkit.WrapWithMessage(err, "Failed to sign token")
	}

	return &TokenResponse{Token: token, ExpiresAt: expiresAt}, nil
}

// VerifyToken validates an admin token
func (s *AuthService) VerifyToken(token string) (*utils.AdminClaims, error) {
	if !s.Enabled() {
		return nil, ErrAdminDisabled
	}
	claims, err := utils.ValidateToken(token, s.config.JWT.Secret)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	return claims, nil
}
