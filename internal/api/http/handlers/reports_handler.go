package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	consoleauth "github.com/spec-kit/admin-console/internal/auth"
	"github.com/spec-kit/admin-console/internal/domain"
	"github.com/spec-kit/admin-console/internal/export"
	"github.com/spec-kit/admin-console/internal/service"
	apperrors "github.com/spec-kit/admin-console/pkg/util"
)

// ReportsHandler exposes the attendance report and the action-log viewer.
type ReportsHandler struct {
	reports *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reports *service.ReportService) *ReportsHandler {
	return &ReportsHandler{reports: reports}
}

// Attendance handles GET /api/v1/reports/attendance.
func (h *ReportsHandler) Attendance(c *fiber.Ctx) error {
	sess, _ := consoleauth.SessionFromContext(c)
	result, err := h.reports.Attendance(c.Context(), sess, attendanceQuery(c))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"records":          result.Page.Items,
		"page":             result.Page.PageNumber,
		"totalPages":       result.Page.TotalPages,
		"total":            result.Page.Total,
		"institutionNames": result.InstitutionNames,
	}})
}

// AttendanceExport handles GET /api/v1/reports/attendance/export. It writes
// the filtered, unpaginated sequence as CSV.
func (h *ReportsHandler) AttendanceExport(c *fiber.Ctx) error {
	sess, _ := consoleauth.SessionFromContext(c)
	records, names, err := h.reports.AttendanceExport(c.Context(), sess, attendanceQuery(c))
	if err != nil {
		return apperrors.MapError(err)
	}

	columns := []export.Column[domain.AttendanceRecord]{
		{Header: "Timestamp", Value: func(r domain.AttendanceRecord) string { return r.Timestamp }},
		{Header: "Institution", Value: func(r domain.AttendanceRecord) string {
			if name, ok := names[r.InstitutionID]; ok {
				return name
			}
			return r.InstitutionID
		}},
		{Header: "Member", Value: func(r domain.AttendanceRecord) string { return r.MemberName }},
		{Header: "Status", Value: func(r domain.AttendanceRecord) string { return r.Status }},
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="attendance.csv"`)
	if err := export.WriteCSV(c.Response().BodyWriter(), columns, records); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// ActionLog handles GET /api/v1/reports/actions.
func (h *ReportsHandler) ActionLog(c *fiber.Ctx) error {
	sess, _ := consoleauth.SessionFromContext(c)
	result, err := h.reports.ActionLog(c.Context(), sess, actionLogQuery(c))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"entries":    result.Page.Items,
		"page":       result.Page.PageNumber,
		"totalPages": result.Page.TotalPages,
		"total":      result.Page.Total,
	}})
}

// ActionLogExport handles GET /api/v1/reports/actions/export.
func (h *ReportsHandler) ActionLogExport(c *fiber.Ctx) error {
	sess, _ := consoleauth.SessionFromContext(c)
	entries, err := h.reports.ActionLogExport(c.Context(), sess, actionLogQuery(c))
	if err != nil {
		return apperrors.MapError(err)
	}

	columns := []export.Column[domain.ActionLogEntry]{
		{Header: "Timestamp", Value: func(e domain.ActionLogEntry) string { return e.Timestamp }},
		{Header: "Actor", Value: func(e domain.ActionLogEntry) string { return e.Actor }},
		{Header: "Role", Value: func(e domain.ActionLogEntry) string { return e.Role }},
		{Header: "Type", Value: func(e domain.ActionLogEntry) string { return e.Type }},
		{Header: "Details", Value: func(e domain.ActionLogEntry) string { return e.Details }},
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="action-log.csv"`)
	if err := export.WriteCSV(c.Response().BodyWriter(), columns, entries); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

func attendanceQuery(c *fiber.Ctx) service.AttendanceQuery {
	return service.AttendanceQuery{
		Start:       c.Query("start"),
		End:         c.Query("end"),
		Institution: c.Query("institution", "all"),
		Status:      c.Query("status", "all"),
		Page:        queryPage(c),
		Reload:      c.QueryBool("reload"),
	}
}

func actionLogQuery(c *fiber.Ctx) service.ActionLogQuery {
	return service.ActionLogQuery{
		Start:  c.Query("start"),
		End:    c.Query("end"),
		Actor:  c.Query("user"),
		Page:   queryPage(c),
		Reload: c.QueryBool("reload"),
	}
}

func queryPage(c *fiber.Ctx) int {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
