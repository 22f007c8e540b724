package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	consoleauth "github.com/spec-kit/admin-console/internal/auth"
	"github.com/spec-kit/admin-console/internal/service"
)

// NoticesHandler serves the per-session notice feed. It stays reachable for
// anonymous sessions so the forced-logout notice can be shown before the
// client redirects to the entry screen.
type NoticesHandler struct {
	notices *service.NoticeService
}

// NewNoticesHandler constructs handler.
func NewNoticesHandler(notices *service.NoticeService) *NoticesHandler {
	return &NoticesHandler{notices: notices}
}

// List handles GET /api/v1/notices; notices are consumed on read.
func (h *NoticesHandler) List(c *fiber.Ctx) error {
	sess, ok := consoleauth.SessionFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}
	notices := h.notices.Consume(sess.ID())
	if notices == nil {
		notices = []service.Notice{}
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"notices": notices}})
}
