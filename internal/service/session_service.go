package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/admin-console/internal/domain"
	"github.com/spec-kit/admin-console/internal/events"
	"github.com/spec-kit/admin-console/internal/gateway"
	"github.com/spec-kit/admin-console/internal/observability"
	"github.com/spec-kit/admin-console/internal/repository"
	"github.com/spec-kit/admin-console/internal/session"
	apperrors "github.com/spec-kit/admin-console/pkg/util"
)

// SessionService drives the session state machine: login, logout, the two
// impersonation transitions, and the forced logout triggered by
// authentication failures from the gateway.
type SessionService struct {
	gateway    gateway.API
	sessions   repository.SessionRepository
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	ttl        time.Duration
}

// SessionDependencies bundles collaborator requirements.
type SessionDependencies struct {
	Gateway     gateway.API
	SessionRepo repository.SessionRepository
	Dispatcher  events.Dispatcher
	Metrics     *observability.Metrics
}

// NewSessionService builds the service.
func NewSessionService(deps SessionDependencies, ttl time.Duration, logger *zap.Logger) *SessionService {
	return &SessionService{
		gateway:    deps.Gateway,
		sessions:   deps.SessionRepo,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger.With(zap.String("component", "session_service")),
		ttl:        ttl,
	}
}

// LoginOutcome reports a fresh session and the panel its role lands on.
type LoginOutcome struct {
	Session *session.Session
	Panel   domain.Panel
}

// Login exchanges credentials for a backend token via the gateway and opens a
// new console session around it.
func (s *SessionService) Login(ctx context.Context, username, password string) (*LoginOutcome, error) {
	if username == "" || password == "" {
		return nil, apperrors.NewValidationError("username and password required", nil)
	}

	result, err := s.gateway.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	panel, ok := result.User.Role.HomePanel()
	if !ok {
		return nil, apperrors.NewGatewayError("unknown role issued by backend")
	}

	sess := session.New(uuid.NewString())
	if err := sess.Login(result.User, result.Token); err != nil {
		return nil, apperrors.NewGatewayError("backend issued incomplete credentials")
	}
	if err := s.persist(ctx, sess); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventLoginSucceeded, sess, nil)
	s.logger.Info("login",
		zap.String("session_id", sess.ID()),
		zap.String("username", result.User.Username),
		zap.String("role", string(result.User.Role)),
	)
	return &LoginOutcome{Session: sess, Panel: panel}, nil
}

// Resume rebuilds a session from its durable slots.
func (s *SessionService) Resume(ctx context.Context, sessionID string) (*session.Session, error) {
	slots, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return session.FromSlots(sessionID, slots), nil
}

// Logout clears the session from any state, impersonation included. It never
// depends on the impersonation slots being well-formed.
func (s *SessionService) Logout(ctx context.Context, sess *session.Session) error {
	sess.Logout()
	if _, err := s.sessions.Clear(ctx, sess.ID()); err != nil {
		return apperrors.NewInternalError(err)
	}
	s.publish(ctx, events.EventLoggedOut, sess, nil)
	s.logger.Info("logout", zap.String("session_id", sess.ID()))
	return nil
}

// BeginImpersonation exchanges the target id for a subordinate-scoped pair
// and switches the session onto it, saving the current pair for restoration.
func (s *SessionService) BeginImpersonation(ctx context.Context, sess *session.Session, targetID string) (domain.UserDescriptor, error) {
	active, ok := sess.Active()
	if !ok {
		return domain.UserDescriptor{}, apperrors.NewUnauthorized("not authenticated")
	}
	if sess.State() == session.StateImpersonating {
		return domain.UserDescriptor{}, apperrors.NewValidationError("already impersonating", nil)
	}

	result, err := s.gateway.ImpersonateUser(ctx, active.Token, targetID)
	if err != nil {
		return domain.UserDescriptor{}, s.HandleGatewayError(ctx, sess, err)
	}

	if err := sess.BeginImpersonation(session.Snapshot{Identity: result.User, Token: result.Token}); err != nil {
		return domain.UserDescriptor{}, apperrors.NewValidationError(err.Error(), nil)
	}
	if err := s.persist(ctx, sess); err != nil {
		return domain.UserDescriptor{}, err
	}

	s.publish(ctx, events.EventImpersonationStarted, sess, events.ImpersonationPayload{
		OriginalUserID: active.Identity.ID,
		TargetUserID:   result.User.ID,
		TargetRole:     result.User.Role,
	})
	return result.User, nil
}

// EndImpersonation restores the original pair. Calling it while not
// impersonating is a no-op.
func (s *SessionService) EndImpersonation(ctx context.Context, sess *session.Session) error {
	original, _ := sess.Original()
	if !sess.EndImpersonation() {
		return nil
	}
	if err := s.persist(ctx, sess); err != nil {
		return err
	}

	active, _ := sess.Active()
	s.publish(ctx, events.EventImpersonationEnded, sess, events.ImpersonationPayload{
		OriginalUserID: original.Identity.ID,
		TargetUserID:   active.Identity.ID,
	})
	return nil
}

// HandleGatewayError inspects a gateway failure and, when the backend reports
// the credential expired or invalid, forces the session to Anonymous. Every
// request resumes its own Session instance from the slots, so the in-memory
// transition alone cannot arbitrate concurrent failures: the slot delete is
// the durable decision, and only the caller whose delete removed the hash
// emits the metric and notice. The error is returned for surfacing either way.
func (s *SessionService) HandleGatewayError(ctx context.Context, sess *session.Session, err error) error {
	if err == nil || !apperrors.IsAuthFailure(err) {
		return err
	}
	if !sess.Logout() {
		return err
	}

	deleted, clearErr := s.sessions.Clear(ctx, sess.ID())
	if clearErr != nil {
		s.logger.Error("failed to clear session slots on forced logout",
			zap.String("session_id", sess.ID()), zap.Error(clearErr))
		return err
	}
	if !deleted {
		return err
	}
	s.metrics.RecordForcedLogout()
	s.publish(ctx, events.EventForcedLogout, sess, events.ForcedLogoutPayload{
		Message: apperrors.ToDomainError(err).Message,
	})
	s.logger.Warn("forced logout", zap.String("session_id", sess.ID()), zap.Error(err))
	return err
}

func (s *SessionService) persist(ctx context.Context, sess *session.Session) error {
	if err := s.sessions.Save(ctx, sess.ID(), session.ToSlots(sess), s.ttl); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

func (s *SessionService) publish(ctx context.Context, eventType events.EventType, sess *session.Session, payload any) {
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
