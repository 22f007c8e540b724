package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/admin-console/internal/config"
	"github.com/spec-kit/admin-console/internal/domain"
	"github.com/spec-kit/admin-console/internal/events"
	"github.com/spec-kit/admin-console/internal/gateway"
	"github.com/spec-kit/admin-console/internal/report"
	"github.com/spec-kit/admin-console/internal/session"
	apperrors "github.com/spec-kit/admin-console/pkg/util"
)

// attendanceSchema tells the filter engine how to read attendance rows. The
// attendance screen filters by date range, institution and status; it has no
// free-text widget.
var attendanceSchema = report.Schema[domain.AttendanceRecord]{
	Timestamp: func(r domain.AttendanceRecord) string { return r.Timestamp },
	Fields: map[string]func(domain.AttendanceRecord) string{
		"institution": func(r domain.AttendanceRecord) string { return r.InstitutionID },
		"status":      func(r domain.AttendanceRecord) string { return r.Status },
	},
}

// actionLogSchema reads audit rows; the designated text field is the actor.
var actionLogSchema = report.Schema[domain.ActionLogEntry]{
	Timestamp: func(e domain.ActionLogEntry) string { return e.Timestamp },
	Text:      func(e domain.ActionLogEntry) string { return e.Actor },
	Fields: map[string]func(domain.ActionLogEntry) string{
		"role": func(e domain.ActionLogEntry) string { return e.Role },
		"type": func(e domain.ActionLogEntry) string { return e.Type },
	},
}

// AttendanceQuery carries the attendance screen's filter widgets.
type AttendanceQuery struct {
	Start       string
	End         string
	Institution string
	Status      string
	Page        int
	Reload      bool
}

// ActionLogQuery carries the action-log screen's filter widgets.
type ActionLogQuery struct {
	Start  string
	End    string
	Actor  string
	Page   int
	Reload bool
}

// AttendanceReport is one rendered page of the attendance screen.
type AttendanceReport struct {
	Page             report.Page[domain.AttendanceRecord]
	InstitutionNames map[string]string
}

// ActionLogReport is one rendered page of the action-log screen.
type ActionLogReport struct {
	Page report.Page[domain.ActionLogEntry]
}

// reportState caches the loaded record sets per session. Records are fetched
// once and filtered in memory on every query, the way the screens work.
type reportState struct {
	attendance       []domain.AttendanceRecord
	institutionNames map[string]string
	attendanceLoaded bool
	attendanceIssued uint64

	actions       []domain.ActionLogEntry
	actionsLoaded bool
	actionsIssued uint64
}

// ReportService loads record sets through the gateway and serves filtered,
// paginated views plus the unpaginated export sequences.
type ReportService struct {
	gateway    gateway.API
	sessions   *SessionService
	dispatcher events.Dispatcher
	cfg        config.ReportConfig
	logger     *zap.Logger

	mu     sync.Mutex
	states map[string]*reportState
}

// NewReportService builds the service.
func NewReportService(gw gateway.API, sessions *SessionService, dispatcher events.Dispatcher, cfg config.ReportConfig, logger *zap.Logger) *ReportService {
	return &ReportService{
		gateway:    gw,
		sessions:   sessions,
		dispatcher: dispatcher,
		cfg:        cfg,
		logger:     logger.With(zap.String("component", "report_service")),
		states:     make(map[string]*reportState),
	}
}

// RegisterHandlers subscribes the record cache to session lifecycle events.
// The cached sets were fetched with the active pair's token, so an identity
// switch invalidates them and an ended session is evicted entirely.
func (r *ReportService) RegisterHandlers() {
	if r.dispatcher == nil {
		return
	}
	r.dispatcher.Subscribe(events.EventImpersonationStarted, r.handleIdentitySwitch)
	r.dispatcher.Subscribe(events.EventImpersonationEnded, r.handleIdentitySwitch)
	r.dispatcher.Subscribe(events.EventLoggedOut, r.handleSessionEnded)
	r.dispatcher.Subscribe(events.EventForcedLogout, r.handleSessionEnded)
}

// handleIdentitySwitch drops the cached sets and bumps the generations so an
// in-flight fetch issued under the previous identity cannot commit.
func (r *ReportService) handleIdentitySwitch(_ context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.states[event.SessionID]
	if !ok {
		return nil
	}
	state.attendanceIssued++
	state.attendanceLoaded = false
	state.attendance = nil
	state.institutionNames = nil
	state.actionsIssued++
	state.actionsLoaded = false
	state.actions = nil
	return nil
}

func (r *ReportService) handleSessionEnded(_ context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.states, event.SessionID)
	return nil
}

// Attendance filters and paginates the session's attendance records. An empty
// result is rendered as an empty page, never an error.
func (r *ReportService) Attendance(ctx context.Context, sess *session.Session, q AttendanceQuery) (*AttendanceReport, error) {
	records, names, err := r.attendanceRecords(ctx, sess, q.Reload)
	if err != nil {
		return nil, err
	}

	filtered := report.Filter(records, attendanceCriteria(q), attendanceSchema)
	page := report.Paginate(filtered, report.PageWindow{PageSize: r.cfg.AttendancePageSize, PageNumber: q.Page})
	return &AttendanceReport{Page: page, InstitutionNames: names}, nil
}

// AttendanceExport returns the filtered, unpaginated sequence the export
// collaborator operates on, never the page slice.
func (r *ReportService) AttendanceExport(ctx context.Context, sess *session.Session, q AttendanceQuery) ([]domain.AttendanceRecord, map[string]string, error) {
	records, names, err := r.attendanceRecords(ctx, sess, q.Reload)
	if err != nil {
		return nil, nil, err
	}
	return report.Filter(records, attendanceCriteria(q), attendanceSchema), names, nil
}

// ActionLog filters and paginates the session's audit entries.
func (r *ReportService) ActionLog(ctx context.Context, sess *session.Session, q ActionLogQuery) (*ActionLogReport, error) {
	entries, err := r.actionLogEntries(ctx, sess, q.Reload)
	if err != nil {
		return nil, err
	}

	filtered := report.Filter(entries, actionLogCriteria(q), actionLogSchema)
	page := report.Paginate(filtered, report.PageWindow{PageSize: r.cfg.ActionLogPageSize, PageNumber: q.Page})
	return &ActionLogReport{Page: page}, nil
}

// ActionLogExport returns the filtered, unpaginated audit sequence.
func (r *ReportService) ActionLogExport(ctx context.Context, sess *session.Session, q ActionLogQuery) ([]domain.ActionLogEntry, error) {
	entries, err := r.actionLogEntries(ctx, sess, q.Reload)
	if err != nil {
		return nil, err
	}
	return report.Filter(entries, actionLogCriteria(q), actionLogSchema), nil
}

func attendanceCriteria(q AttendanceQuery) report.Criteria {
	return report.Criteria{
		StartDate: q.Start,
		EndDate:   q.End,
		Categorical: map[string]string{
			"institution": q.Institution,
			"status":      q.Status,
		},
	}
}

func actionLogCriteria(q ActionLogQuery) report.Criteria {
	return report.Criteria{
		StartDate: q.Start,
		EndDate:   q.End,
		TextMatch: q.Actor,
	}
}

// attendanceRecords serves the cached record set, loading it through the
// gateway on first use or when a reload is requested. A stale overlapping
// reload is discarded on arrival; the committed set stays the latest issued.
func (r *ReportService) attendanceRecords(ctx context.Context, sess *session.Session, reload bool) ([]domain.AttendanceRecord, map[string]string, error) {
	active, err := r.requireReportRole(sess)
	if err != nil {
		return nil, nil, err
	}

	r.mu.Lock()
	state := r.stateLocked(sess.ID())
	if state.attendanceLoaded && !reload {
		records, names := state.attendance, state.institutionNames
		r.mu.Unlock()
		return records, names, nil
	}
	state.attendanceIssued++
	gen := state.attendanceIssued
	r.mu.Unlock()

	data, err := r.gateway.GetAdminData(ctx, active.Token)
	if err != nil {
		return nil, nil, r.sessions.HandleGatewayError(ctx, sess, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen >= state.attendanceIssued {
		state.attendance = data.Records
		state.institutionNames = data.InstitutionNames
		state.attendanceLoaded = true
	}
	return data.Records, data.InstitutionNames, nil
}

func (r *ReportService) actionLogEntries(ctx context.Context, sess *session.Session, reload bool) ([]domain.ActionLogEntry, error) {
	active, err := r.requireReportRole(sess)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	state := r.stateLocked(sess.ID())
	if state.actionsLoaded && !reload {
		entries := state.actions
		r.mu.Unlock()
		return entries, nil
	}
	state.actionsIssued++
	gen := state.actionsIssued
	r.mu.Unlock()

	entries, err := r.gateway.GetActionLog(ctx, active.Token)
	if err != nil {
		return nil, r.sessions.HandleGatewayError(ctx, sess, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen >= state.actionsIssued {
		state.actions = entries
		state.actionsLoaded = true
	}
	return entries, nil
}

// requireReportRole rejects anonymous sessions and institute identities; the
// report screens belong to the administrative roles.
func (r *ReportService) requireReportRole(sess *session.Session) (session.Snapshot, error) {
	active, ok := sess.Active()
	if !ok {
		return session.Snapshot{}, apperrors.NewUnauthorized("not authenticated")
	}
	if active.Identity.Role == domain.RoleInstitute {
		return session.Snapshot{}, apperrors.NewPermissionDenied("no reports for this role")
	}
	return active, nil
}

func (r *ReportService) stateLocked(sessionID string) *reportState {
	state, ok := r.states[sessionID]
	if !ok {
		state = &reportState{}
		r.states[sessionID] = state
	}
	return state
}
