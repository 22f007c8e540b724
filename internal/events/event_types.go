package events

import (
	"time"

	"github.com/spec-kit/admin-console/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLoginSucceeded       EventType = "login_succeeded"
	EventLoggedOut            EventType = "logged_out"
	EventForcedLogout         EventType = "forced_logout"
	EventImpersonationStarted EventType = "impersonation_started"
	EventImpersonationEnded   EventType = "impersonation_ended"
	EventUserCreated          EventType = "user_created"
	EventUserArchived         EventType = "user_archived"
)

// Event represents a console event emitted by services.
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	SessionID string                 `json:"session_id"`
	Actor     *domain.UserDescriptor `json:"actor,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Payload   interface{}            `json:"payload"`
}

// ForcedLogoutPayload carries the backend message that invalidated the
// session; it becomes the user-visible notice shown before redirecting.
type ForcedLogoutPayload struct {
	Message string `json:"message"`
}

// ImpersonationPayload describes an identity switch.
type ImpersonationPayload struct {
	OriginalUserID string      `json:"original_user_id"`
	TargetUserID   string      `json:"target_user_id"`
	TargetRole     domain.Role `json:"target_role,omitempty"`
}

// UserChangedPayload describes a created or archived subordinate account.
type UserChangedPayload struct {
	UserID   string      `json:"user_id,omitempty"`
	Username string      `json:"username,omitempty"`
	Role     domain.Role `json:"role,omitempty"`
}
