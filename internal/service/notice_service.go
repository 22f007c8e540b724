package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/admin-console/internal/events"
)

// Notice is a user-visible message queued for a session. Forced-logout
// notices are what the operator sees before being redirected to the entry
// screen.
type Notice struct {
	ID        string           `json:"id"`
	Type      events.EventType `json:"type"`
	Message   string           `json:"message"`
	CreatedAt time.Time        `json:"createdAt"`
}

// NoticeService turns console events into per-session notices that the UI
// polls and shows once.
type NoticeService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger

	mu        sync.Mutex
	bySession map[string][]Notice
}

// NewNoticeService creates the service.
func NewNoticeService(dispatcher events.Dispatcher, logger *zap.Logger) *NoticeService {
	return &NoticeService{
		dispatcher: dispatcher,
		logger:     logger.With(zap.String("component", "notice_service")),
		bySession:  make(map[string][]Notice),
	}
}

// RegisterHandlers subscribes to the console events worth surfacing.
func (n *NoticeService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventForcedLogout, n.handleForcedLogout)
	n.dispatcher.Subscribe(events.EventLoggedOut, n.handleLoggedOut)
	n.dispatcher.Subscribe(events.EventImpersonationStarted, n.handleImpersonationStarted)
	n.dispatcher.Subscribe(events.EventImpersonationEnded, n.handleImpersonationEnded)
	n.dispatcher.Subscribe(events.EventUserCreated, n.handleUserChanged)
	n.dispatcher.Subscribe(events.EventUserArchived, n.handleUserChanged)
}

// Consume returns the queued notices for the session and clears them.
func (n *NoticeService) Consume(sessionID string) []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	notices := n.bySession[sessionID]
	delete(n.bySession, sessionID)
	return notices
}

// handleForcedLogout replaces whatever was queued: the session is over and
// only the terminal notice is worth showing.
func (n *NoticeService) handleForcedLogout(_ context.Context, event events.Event) error {
	message := "session expired"
	if payload, ok := event.Payload.(events.ForcedLogoutPayload); ok && payload.Message != "" {
		message = payload.Message
	}
	n.mu.Lock()
	delete(n.bySession, event.SessionID)
	n.mu.Unlock()
	n.enqueue(event, message)
	return nil
}

// handleLoggedOut drops the session's queue; a deliberate logout needs no
// notice and leaving the entry behind would leak one per session ever seen.
func (n *NoticeService) handleLoggedOut(_ context.Context, event events.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.bySession, event.SessionID)
	return nil
}

func (n *NoticeService) handleImpersonationStarted(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ImpersonationPayload)
	if !ok {
		return nil
	}
	n.enqueue(event, fmt.Sprintf("now acting as user %s", payload.TargetUserID))
	return nil
}

func (n *NoticeService) handleImpersonationEnded(_ context.Context, event events.Event) error {
	n.enqueue(event, "returned to your own account")
	return nil
}

func (n *NoticeService) handleUserChanged(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.UserChangedPayload)
	if !ok {
		return nil
	}
	if event.Type == events.EventUserCreated {
		n.enqueue(event, fmt.Sprintf("account %q created", payload.Username))
	} else {
		n.enqueue(event, fmt.Sprintf("account %s archived", payload.UserID))
	}
	return nil
}

func (n *NoticeService) enqueue(event events.Event, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.bySession[event.SessionID] = append(n.bySession[event.SessionID], Notice{
		ID:        event.ID,
		Type:      event.Type,
		Message:   message,
		CreatedAt: event.Timestamp,
	})
	n.logger.Debug("notice queued",
		zap.String("session_id", event.SessionID),
		zap.String("event_type", string(event.Type)))
}
