package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/admin-console/internal/api/dto"
	consoleauth "github.com/spec-kit/admin-console/internal/auth"
	"github.com/spec-kit/admin-console/internal/service"
	apperrors "github.com/spec-kit/admin-console/pkg/util"
)

// DashboardHandler exposes the hierarchical management screens.
type DashboardHandler struct {
	dashboard *service.DashboardService
	sessions  *service.SessionService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboard *service.DashboardService, sessions *service.SessionService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, sessions: sessions}
}

// Get handles GET /api/v1/dashboard.
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	sess, _ := consoleauth.SessionFromContext(c)
	view, err := h.dashboard.Load(c.Context(), sess)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"entries":       view.Entries,
		"countField":    view.CountField,
		"creatableRole": view.CreatableRole,
	}})
}

// CreateUser handles POST /api/v1/dashboard/users.
func (h *DashboardHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	sess, _ := consoleauth.SessionFromContext(c)
	view, err := h.dashboard.CreateUser(c.Context(), sess, req.Username, req.Password)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{
		"entries":       view.Entries,
		"countField":    view.CountField,
		"creatableRole": view.CreatableRole,
	}})
}

// ArchiveUser handles POST /api/v1/dashboard/users/:id/archive.
func (h *DashboardHandler) ArchiveUser(c *fiber.Ctx) error {
	sess, _ := consoleauth.SessionFromContext(c)
	view, err := h.dashboard.ArchiveUser(c.Context(), sess, c.Params("id"))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"entries":       view.Entries,
		"countField":    view.CountField,
		"creatableRole": view.CreatableRole,
	}})
}

// Impersonate handles POST /api/v1/dashboard/users/:id/impersonate.
func (h *DashboardHandler) Impersonate(c *fiber.Ctx) error {
	sess, _ := consoleauth.SessionFromContext(c)
	panel, err := h.dashboard.ViewAs(c.Context(), sess, c.Params("id"))
	if err != nil {
		return apperrors.MapError(err)
	}
	active, _ := sess.Active()
	return c.JSON(fiber.Map{"data": dto.ImpersonationResponse{
		User:  active.Identity,
		Panel: panel,
	}})
}

// EndImpersonation handles POST /api/v1/session/impersonation/end. Idempotent.
func (h *DashboardHandler) EndImpersonation(c *fiber.Ctx) error {
	sess, _ := consoleauth.SessionFromContext(c)
	if err := h.sessions.EndImpersonation(c.Context(), sess); err != nil {
		return apperrors.MapError(err)
	}
	return h.Session(c)
}

// Session handles GET /api/v1/session.
func (h *DashboardHandler) Session(c *fiber.Ctx) error {
	sess, _ := consoleauth.SessionFromContext(c)

	resp := dto.SessionResponse{State: string(sess.State())}
	if active, ok := sess.Active(); ok {
		identity := active.Identity
		resp.User = &identity
	}
	if original, ok := sess.Original(); ok {
		identity := original.Identity
		resp.Impersonating = true
		resp.Original = &identity
	}
	return c.JSON(fiber.Map{"data": resp})
}
