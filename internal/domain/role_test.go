package domain

import "testing"

func TestCreatableRole(t *testing.T) {
	tests := []struct {
		role Role
		want Role
		ok   bool
	}{
		{RoleRootAdmin, RoleSuperAdmin, true},
		{RoleSuperAdmin, RoleAdmin, true},
		{RoleAdmin, RoleInstitute, true},
		{RoleInstitute, "", false},
		{"owner", "", false},
	}

	for _, tt := range tests {
		got, ok := tt.role.CreatableRole()
		if got != tt.want || ok != tt.ok {
			t.Errorf("%s.CreatableRole() = (%s, %v), want (%s, %v)", tt.role, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCountField(t *testing.T) {
	if got := RoleInstitute.CountField(); got != "memberCount" {
		t.Errorf("institute count field = %s", got)
	}
	for _, r := range []Role{RoleRootAdmin, RoleSuperAdmin, RoleAdmin} {
		if got := r.CountField(); got != "managedUsers" {
			t.Errorf("%s count field = %s", r, got)
		}
	}
}

func TestHomePanel(t *testing.T) {
	tests := []struct {
		role Role
		want Panel
		ok   bool
	}{
		{RoleRootAdmin, PanelManager, true},
		{RoleSuperAdmin, PanelManager, true},
		{RoleAdmin, PanelAdmin, true},
		{RoleInstitute, PanelAttendance, true},
		{"owner", "", false},
	}

	for _, tt := range tests {
		got, ok := tt.role.HomePanel()
		if got != tt.want || ok != tt.ok {
			t.Errorf("%s.HomePanel() = (%s, %v), want (%s, %v)", tt.role, got, ok, tt.want, tt.ok)
		}
	}
}

func TestOutranks(t *testing.T) {
	if !RoleRootAdmin.Outranks(RoleSuperAdmin) || !RoleAdmin.Outranks(RoleInstitute) {
		t.Error("hierarchy ordering broken")
	}
	if RoleAdmin.Outranks(RoleAdmin) {
		t.Error("a role must not outrank itself")
	}
	if RoleInstitute.Outranks(RoleAdmin) {
		t.Error("institute outranked admin")
	}
}

func TestIsValid(t *testing.T) {
	for _, r := range []Role{RoleRootAdmin, RoleSuperAdmin, RoleAdmin, RoleInstitute} {
		if !r.IsValid() {
			t.Errorf("%s reported invalid", r)
		}
	}
	if Role("owner").IsValid() || Role("").IsValid() {
		t.Error("unknown role reported valid")
	}
}
