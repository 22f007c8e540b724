package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/admin-console/internal/api/dto"
	consoleauth "github.com/spec-kit/admin-console/internal/auth"
	"github.com/spec-kit/admin-console/internal/service"
	apperrors "github.com/spec-kit/admin-console/pkg/util"
)

// AuthHandler exposes console login and logout.
type AuthHandler struct {
	sessions *service.SessionService
	tokens   *consoleauth.TokenManager
}

// NewAuthHandler constructs handler.
func NewAuthHandler(sessions *service.SessionService, tokens *consoleauth.TokenManager) *AuthHandler {
	return &AuthHandler{sessions: sessions, tokens: tokens}
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	outcome, err := h.sessions.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return apperrors.MapError(err)
	}

	token, exp, err := h.tokens.GenerateToken(outcome.Session.ID())
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	active, _ := outcome.Session.Active()
	return c.JSON(fiber.Map{
		"data": dto.LoginResponse{
			User:  active.Identity,
			Panel: outcome.Panel,
			Auth:  dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Logout handles POST /api/v1/auth/logout. Legal from any state.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sess, ok := consoleauth.SessionFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}
	if err := h.sessions.Logout(c.Context(), sess); err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "logged_out"}})
}
