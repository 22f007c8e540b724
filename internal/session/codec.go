package session

import (
	"encoding/json"

	"github.com/spec-kit/admin-console/internal/domain"
)

// Persisted slot names. sessionToken/userData always hold the active pair;
// the impersonation slots exist only while impersonating.
const (
	SlotSessionToken       = "sessionToken"
	SlotUserData           = "userData"
	SlotImpersonationToken = "impersonationToken"
	SlotOriginalUserToken  = "originalUserToken"
	SlotOriginalUserData   = "originalUserData"
)

// ToSlots serializes the session into its durable key-value slots.
func ToSlots(s *Session) map[string]string {
	slots := map[string]string{}
	active, ok := s.Active()
	if !ok {
		return slots
	}
	slots[SlotSessionToken] = active.Token
	slots[SlotUserData] = marshalDescriptor(active.Identity)

	if original, ok := s.Original(); ok {
		slots[SlotImpersonationToken] = active.Token
		slots[SlotOriginalUserToken] = original.Token
		slots[SlotOriginalUserData] = marshalDescriptor(original.Identity)
	}
	return slots
}

// FromSlots rebuilds a session from its durable slots. Unparseable or partial
// slot data degrades rather than fails: a bad active pair yields an anonymous
// session, a bad original drops only the impersonation bookkeeping (logout
// must stay possible regardless).
func FromSlots(id string, slots map[string]string) *Session {
	s := New(id)

	token := slots[SlotSessionToken]
	identity, ok := unmarshalDescriptor(slots[SlotUserData])
	if token == "" || !ok {
		return s
	}
	s.active = &Snapshot{Identity: identity, Token: token}

	if _, impersonating := slots[SlotImpersonationToken]; impersonating {
		originalToken := slots[SlotOriginalUserToken]
		originalIdentity, ok := unmarshalDescriptor(slots[SlotOriginalUserData])
		if originalToken != "" && ok {
			s.original = &Snapshot{Identity: originalIdentity, Token: originalToken}
		}
	}
	return s
}

func marshalDescriptor(d domain.UserDescriptor) string {
	raw, err := json.Marshal(d)
	if err != nil {
		return ""
	}
	return string(raw)
}

func unmarshalDescriptor(raw string) (domain.UserDescriptor, bool) {
	if raw == "" {
		return domain.UserDescriptor{}, false
	}
	var d domain.UserDescriptor
	if err := json.Unmarshal([]byte(raw), &d); err != nil || d.ID == "" {
		return domain.UserDescriptor{}, false
	}
	return d, true
}
