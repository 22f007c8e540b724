package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/admin-console/internal/api/http/handlers"
	"github.com/spec-kit/admin-console/internal/auth"
	"github.com/spec-kit/admin-console/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Dashboard      *handlers.DashboardHandler
	Reports        *handlers.ReportsHandler
	Notices        *handlers.NoticesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api/v1")
	api.Post("/auth/login", cfg.Auth.Login)

	// Routes below need a valid console token; the session may still be
	// anonymous so the forced-logout notice and logout stay reachable.
	attached := api.Group("", cfg.AuthMiddleware.Handle)
	attached.Post("/auth/logout", cfg.Auth.Logout)
	attached.Get("/notices", cfg.Notices.List)
	attached.Get("/session", cfg.Dashboard.Session)
	attached.Post("/session/impersonation/end", cfg.Dashboard.EndImpersonation)

	managing := attached.Group("", auth.RequireAuthenticated(),
		auth.RequireRole(domain.RoleRootAdmin, domain.RoleSuperAdmin, domain.RoleAdmin))
	managing.Get("/dashboard", cfg.Dashboard.Get)
	managing.Post("/dashboard/users", cfg.Dashboard.CreateUser)
	managing.Post("/dashboard/users/:id/archive", cfg.Dashboard.ArchiveUser)
	managing.Post("/dashboard/users/:id/impersonate", cfg.Dashboard.Impersonate)

	managing.Get("/reports/attendance", cfg.Reports.Attendance)
	managing.Get("/reports/attendance/export", cfg.Reports.AttendanceExport)
	managing.Get("/reports/actions", cfg.Reports.ActionLog)
	managing.Get("/reports/actions/export", cfg.Reports.ActionLogExport)
}
