package domain

import "encoding/json"

// AttendanceRecord is one attendance row as returned by getAdminData.
// Timestamp is a locale string: a date component, the Persian comma
// separator, then a time component.
type AttendanceRecord struct {
	Timestamp     string `json:"timestamp"`
	InstitutionID string `json:"institutionId"`
	MemberID      string `json:"memberId"`
	MemberName    string `json:"memberName"`
	Status        string `json:"status"`
}

type attendanceRecordWire struct {
	Timestamp     string          `json:"timestamp"`
	InstitutionID json.RawMessage `json:"institutionId"`
	MemberID      json.RawMessage `json:"memberId"`
	MemberName    string          `json:"memberName"`
	Status        string          `json:"status"`
}

// UnmarshalJSON normalizes the id fields, which the backend sends as either
// numbers or strings.
func (r *AttendanceRecord) UnmarshalJSON(data []byte) error {
	var w attendanceRecordWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	r.Timestamp = w.Timestamp
	r.InstitutionID = normalizeRawID(w.InstitutionID)
	r.MemberID = normalizeRawID(w.MemberID)
	r.MemberName = w.MemberName
	r.Status = w.Status
	return nil
}

// ActionLogEntry is one audit row as returned by getActionLog.
type ActionLogEntry struct {
	Timestamp string `json:"timestamp"`
	Actor     string `json:"actor"`
	Role      string `json:"role"`
	Type      string `json:"type"`
	Details   string `json:"details"`
}

// DashboardEntry is a role-scoped summary item. Exactly one of MemberCount
// and ManagedUsers is meaningful for a given entry; Role.CountField selects
// which.
type DashboardEntry struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Role         Role   `json:"role"`
	MemberCount  int    `json:"memberCount"`
	ManagedUsers int    `json:"managedUsers"`
}

type dashboardEntryWire struct {
	ID           json.RawMessage `json:"id"`
	Name         string          `json:"name"`
	Role         Role            `json:"role"`
	MemberCount  int             `json:"memberCount"`
	ManagedUsers int             `json:"managedUsers"`
}

// UnmarshalJSON normalizes the id field, which the backend sends as either a
// number or a string.
func (e *DashboardEntry) UnmarshalJSON(data []byte) error {
	var w dashboardEntryWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	e.ID = normalizeRawID(w.ID)
	e.Name = w.Name
	e.Role = w.Role
	e.MemberCount = w.MemberCount
	e.ManagedUsers = w.ManagedUsers
	return nil
}
