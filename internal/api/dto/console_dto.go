package dto

import (
	"time"

	"github.com/spec-kit/admin-console/internal/domain"
)

// LoginRequest payload for console login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LoginResponse reports the issued session and where to navigate.
type LoginResponse struct {
	User  domain.UserDescriptor `json:"user"`
	Panel domain.Panel          `json:"panel"`
	Auth  AuthResponse          `json:"auth"`
}

// CreateUserRequest payload for creating a subordinate account. The role is
// never accepted from the client; it comes from the creatable-role table.
type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionResponse describes the resumed session for the UI banner.
type SessionResponse struct {
	State         string                 `json:"state"`
	User          *domain.UserDescriptor `json:"user,omitempty"`
	Impersonating bool                   `json:"impersonating"`
	Original      *domain.UserDescriptor `json:"original,omitempty"`
}

// ImpersonationResponse reports a completed identity switch.
type ImpersonationResponse struct {
	User  domain.UserDescriptor `json:"user"`
	Panel domain.Panel          `json:"panel"`
}
