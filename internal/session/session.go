// Package session holds the per-operator identity state machine. A session is
// Anonymous, Authenticated, or Impersonating; exactly one (identity, token)
// pair is active at any time and is the one attached to outgoing gateway
// calls. The saved original pair is never used for calls, it exists solely to
// be restored.
package session

import (
	"errors"
	"sync"

	"github.com/spec-kit/admin-console/internal/domain"
)

// State enumerates the session states.
type State string

const (
	StateAnonymous     State = "anonymous"
	StateAuthenticated State = "authenticated"
	StateImpersonating State = "impersonating"
)

// Transition errors.
var (
	ErrMissingCredentials   = errors.New("identity and token are required")
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrAlreadyImpersonating = errors.New("already impersonating; nested impersonation is not supported")
)

// Snapshot is one (identity, token) pair.
type Snapshot struct {
	Identity domain.UserDescriptor
	Token    string
}

// Session is the state machine for one operator. Methods are safe for
// concurrent use. Logout is check-and-clear under the lock, so one instance
// acts on a forced logout at most once; arbitration across instances resumed
// from the same slots happens on the durable slot delete.
type Session struct {
	mu       sync.Mutex
	id       string
	active   *Snapshot
	original *Snapshot
}

// New returns an anonymous session with the given id.
func New(id string) *Session {
	return &Session{id: id}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// State reports the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	switch {
	case s.active == nil:
		return StateAnonymous
	case s.original != nil:
		return StateImpersonating
	default:
		return StateAuthenticated
	}
}

// Active returns the currently acting (identity, token) pair.
func (s *Session) Active() (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return Snapshot{}, false
	}
	return *s.active, true
}

// Original returns the saved pre-impersonation pair while impersonating.
func (s *Session) Original() (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.original == nil {
		return Snapshot{}, false
	}
	return *s.original, true
}

// Login moves Anonymous -> Authenticated. Rejected without both an identity
// and a token.
func (s *Session) Login(identity domain.UserDescriptor, token string) error {
	if token == "" || identity.ID == "" {
		return ErrMissingCredentials
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = &Snapshot{Identity: identity, Token: token}
	s.original = nil
	return nil
}

// BeginImpersonation moves Authenticated -> Impersonating, saving the current
// pair as the original. Only legal from Authenticated.
func (s *Session) BeginImpersonation(target Snapshot) error {
	if target.Token == "" || target.Identity.ID == "" {
		return ErrMissingCredentials
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.stateLocked() {
	case StateAnonymous:
		return ErrNotAuthenticated
	case StateImpersonating:
		return ErrAlreadyImpersonating
	}
	saved := *s.active
	s.original = &saved
	s.active = &Snapshot{Identity: target.Identity, Token: target.Token}
	return nil
}

// EndImpersonation restores the original pair and moves back to
// Authenticated. Calling it while not impersonating is a no-op, not an error.
// A dangling impersonation marker without a well-formed original is treated
// as not impersonating.
func (s *Session) EndImpersonation() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.original == nil || s.original.Token == "" {
		s.original = nil
		return false
	}
	s.active = s.original
	s.original = nil
	return true
}

// Logout unconditionally clears every credential from any state. It never
// inspects the impersonation fields, so it remains the safe recovery path
// when bookkeeping is inconsistent. Returns false when the session was
// already anonymous, which lets callers act exactly once on forced logouts.
func (s *Session) Logout() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	hadCredentials := s.active != nil
	s.active = nil
	s.original = nil
	return hadCredentials
}
