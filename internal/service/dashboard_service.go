package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/admin-console/internal/domain"
	"github.com/spec-kit/admin-console/internal/events"
	"github.com/spec-kit/admin-console/internal/gateway"
	"github.com/spec-kit/admin-console/internal/session"
	apperrors "github.com/spec-kit/admin-console/pkg/util"
)

// DashboardView is the role-scoped management view: the loaded entries plus
// the two derived values dependents need. CountField names the one count
// meaningful for these entries; CreatableRole is empty when creation is
// disabled for the active role.
type DashboardView struct {
	Entries       []domain.DashboardEntry
	CountField    string
	CreatableRole domain.Role
}

// dashboardState caches the last committed view per session together with the
// generation that produced it.
type dashboardState struct {
	view   *DashboardView
	issued uint64
}

// DashboardService composes the session store, gateway and role tables for
// the hierarchical management screens.
type DashboardService struct {
	gateway    gateway.API
	sessions   *SessionService
	dispatcher events.Dispatcher
	logger     *zap.Logger

	mu     sync.Mutex
	states map[string]*dashboardState
}

// NewDashboardService builds the service.
func NewDashboardService(gw gateway.API, sessions *SessionService, dispatcher events.Dispatcher, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		gateway:    gw,
		sessions:   sessions,
		dispatcher: dispatcher,
		logger:     logger.With(zap.String("component", "dashboard_service")),
		states:     make(map[string]*dashboardState),
	}
}

// RegisterHandlers subscribes the committed-view cache to session lifecycle
// events so identity switches drop it and ended sessions are evicted.
func (s *DashboardService) RegisterHandlers() {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Subscribe(events.EventImpersonationStarted, s.handleIdentitySwitch)
	s.dispatcher.Subscribe(events.EventImpersonationEnded, s.handleIdentitySwitch)
	s.dispatcher.Subscribe(events.EventLoggedOut, s.handleSessionEnded)
	s.dispatcher.Subscribe(events.EventForcedLogout, s.handleSessionEnded)
}

// handleIdentitySwitch drops the committed view and bumps the generation so an
// in-flight load issued under the previous identity cannot commit.
func (s *DashboardService) handleIdentitySwitch(_ context.Context, event events.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state, ok := s.states[event.SessionID]; ok {
		state.issued++
		state.view = nil
	}
	return nil
}

func (s *DashboardService) handleSessionEnded(_ context.Context, event events.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, event.SessionID)
	return nil
}

// Load fetches the role-scoped summary entries. Overlapping reloads race;
// each load takes a fresh generation and only the latest issued one may
// commit, so a stale response arriving late is discarded instead of
// resurrecting old data. On gateway failure the previously committed view is
// left untouched.
func (s *DashboardService) Load(ctx context.Context, sess *session.Session) (*DashboardView, error) {
	active, err := s.requireDashboardRole(sess)
	if err != nil {
		return nil, err
	}

	gen := s.nextGeneration(sess.ID())
	entries, err := s.gateway.GetDashboardData(ctx, active.Token)
	if err != nil {
		return nil, s.sessions.HandleGatewayError(ctx, sess, err)
	}

	view := &DashboardView{
		Entries:    entries,
		CountField: domain.RoleInstitute.CountField(),
	}
	if creatable, ok := active.Identity.Role.CreatableRole(); ok {
		// entries are the creatable subordinates, so their role picks the count
		view.CreatableRole = creatable
		view.CountField = creatable.CountField()
	}

	s.commit(sess.ID(), gen, view)
	return view, nil
}

// CreateUser validates locally, creates the subordinate through the gateway,
// then reloads the dashboard in full. The created role always comes from the
// creatable-role table, never from the caller.
func (s *DashboardService) CreateUser(ctx context.Context, sess *session.Session, username, password string) (*DashboardView, error) {
	active, err := s.requireDashboardRole(sess)
	if err != nil {
		return nil, err
	}
	if username == "" || password == "" {
		return nil, apperrors.NewValidationError("username and password required", nil)
	}
	role, ok := active.Identity.Role.CreatableRole()
	if !ok {
		return nil, apperrors.NewPermissionDenied("role cannot create accounts")
	}

	if err := s.gateway.AddUser(ctx, active.Token, username, password, role); err != nil {
		return nil, s.sessions.HandleGatewayError(ctx, sess, err)
	}

	s.publishUserEvent(ctx, events.EventUserCreated, sess, events.UserChangedPayload{
		Username: username,
		Role:     role,
	})
	return s.Load(ctx, sess)
}

// ArchiveUser archives the subordinate and reloads the dashboard. The
// interactive confirmation happens client-side before this is called.
func (s *DashboardService) ArchiveUser(ctx context.Context, sess *session.Session, id string) (*DashboardView, error) {
	active, err := s.requireDashboardRole(sess)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, apperrors.NewValidationError("user id required", nil)
	}

	if err := s.gateway.ArchiveUser(ctx, active.Token, id); err != nil {
		return nil, s.sessions.HandleGatewayError(ctx, sess, err)
	}

	s.publishUserEvent(ctx, events.EventUserArchived, sess, events.UserChangedPayload{UserID: id})
	return s.Load(ctx, sess)
}

// ViewAs switches the session onto the subordinate's identity and reports the
// panel to navigate to.
func (s *DashboardService) ViewAs(ctx context.Context, sess *session.Session, id string) (domain.Panel, error) {
	target, err := s.sessions.BeginImpersonation(ctx, sess, id)
	if err != nil {
		return "", err
	}
	panel, ok := target.Role.HomePanel()
	if !ok {
		panel = domain.PanelAdmin
	}
	return panel, nil
}

// View returns the last committed view for the session, if any.
func (s *DashboardService) View(sess *session.Session) (*DashboardView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[sess.ID()]
	if !ok || state.view == nil {
		return nil, false
	}
	return state.view, true
}

// requireDashboardRole rejects anonymous sessions and institute identities;
// institutes have no management dashboard.
func (s *DashboardService) requireDashboardRole(sess *session.Session) (session.Snapshot, error) {
	active, ok := sess.Active()
	if !ok {
		return session.Snapshot{}, apperrors.NewUnauthorized("not authenticated")
	}
	if active.Identity.Role == domain.RoleInstitute {
		return session.Snapshot{}, apperrors.NewPermissionDenied("no dashboard for this role")
	}
	return active, nil
}

func (s *DashboardService) nextGeneration(sessionID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[sessionID]
	if !ok {
		state = &dashboardState{}
		s.states[sessionID] = state
	}
	state.issued++
	return state.issued
}

// commit stores the view unless a newer load was issued meanwhile.
func (s *DashboardService) commit(sessionID string, gen uint64, view *DashboardView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[sessionID]
	if !ok || gen < state.issued {
		return
	}
	state.view = view
}

func (s *DashboardService) publishUserEvent(ctx context.Context, eventType events.EventType, sess *session.Session, payload events.UserChangedPayload) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SessionID: sess.ID(),
		Timestamp: time.Now(),
		Payload:   payload,
	}
	if active, ok := sess.Active(); ok {
		actor := active.Identity
		event.Actor = &actor
	}
	_ = s.dispatcher.Publish(ctx, event)
}
