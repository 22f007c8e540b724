package domain

import "encoding/json"

// UserDescriptor identifies an account as issued by the backend. It is
// immutable once issued and replaced wholesale on login or impersonation.
type UserDescriptor struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Role        Role   `json:"role"`
	DisplayName string `json:"displayName,omitempty"`
}

// descriptorWire mirrors UserDescriptor on the wire, where the backend may
// send the id as either a JSON number or a string.
type descriptorWire struct {
	ID          json.RawMessage `json:"id"`
	Username    string          `json:"username"`
	Role        Role            `json:"role"`
	DisplayName string          `json:"displayName,omitempty"`
}

// UnmarshalJSON normalizes numeric ids to their string form.
func (u *UserDescriptor) UnmarshalJSON(data []byte) error {
	var w descriptorWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	u.ID = normalizeRawID(w.ID)
	u.Username = w.Username
	u.Role = w.Role
	u.DisplayName = w.DisplayName
	return nil
}

// normalizeRawID renders a raw id value, string or number, as a string.
func normalizeRawID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
