package report

import (
	"reflect"
	"testing"
)

type logRow struct {
	timestamp string
	actor     string
	role      string
}

var logSchema = Schema[logRow]{
	Timestamp: func(r logRow) string { return r.timestamp },
	Text:      func(r logRow) string { return r.actor },
	Fields: map[string]func(logRow) string{
		"role": func(r logRow) string { return r.role },
	},
}

func TestDateKey(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"2024-01-05، 10:30", "2024-01-05"},
		{"  2024-01-05 ، 10:30", "2024-01-05"},
		{"2024-01-05", "2024-01-05"},
		{"", ""},
		{"، 10:30", ""},
		{"garbage", "garbage"},
	}

	for _, tt := range tests {
		if got := DateKey(tt.raw); got != tt.want {
			t.Errorf("DateKey(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestFilterDateRange(t *testing.T) {
	records := []logRow{
		{timestamp: "2024-01-05، 08:00", actor: "ali"},
		{timestamp: "2024-02-10، 09:00", actor: "sara"},
	}

	got := Filter(records, Criteria{StartDate: "2024-02-01"}, logSchema)
	if len(got) != 1 || got[0].actor != "sara" {
		t.Fatalf("start-date filter returned %v, want only sara", got)
	}

	got = Filter(records, Criteria{EndDate: "2024-01-31"}, logSchema)
	if len(got) != 1 || got[0].actor != "ali" {
		t.Fatalf("end-date filter returned %v, want only ali", got)
	}

	got = Filter(records, Criteria{StartDate: "2024-01-01", EndDate: "2024-12-31"}, logSchema)
	if len(got) != 2 {
		t.Fatalf("inclusive range returned %d records, want 2", len(got))
	}
}

func TestFilterDefaultsSelectEverything(t *testing.T) {
	records := []logRow{
		{timestamp: "2024-01-05، 08:00", actor: "ali", role: "admin"},
		{timestamp: "bogus", actor: "sara", role: "super_admin"},
		{timestamp: "", actor: "reza", role: "institute"},
	}

	got := Filter(records, Criteria{}, logSchema)
	if !reflect.DeepEqual(got, records) {
		t.Fatalf("empty criteria returned %v, want full input in original order", got)
	}
}

func TestFilterTextMatch(t *testing.T) {
	records := []logRow{
		{timestamp: "2024-01-05، 08:00", actor: "Ali Hosseini"},
		{timestamp: "2024-01-06، 08:00", actor: "Sara"},
	}

	got := Filter(records, Criteria{TextMatch: "ali"}, logSchema)
	if len(got) != 1 || got[0].actor != "Ali Hosseini" {
		t.Fatalf("case-insensitive text match returned %v", got)
	}

	if got := Filter(records, Criteria{TextMatch: "  "}, logSchema); len(got) != 2 {
		t.Fatalf("blank text criterion filtered records: %v", got)
	}
}

func TestFilterCategorical(t *testing.T) {
	records := []logRow{
		{timestamp: "2024-01-05، 08:00", actor: "ali", role: "admin"},
		{timestamp: "2024-01-06، 08:00", actor: "sara", role: "super_admin"},
	}

	tests := []struct {
		name string
		want int
		crit map[string]string
	}{
		{"equality", 1, map[string]string{"role": "admin"}},
		{"all sentinel", 2, map[string]string{"role": AllValues}},
		{"empty value", 2, map[string]string{"role": ""}},
		{"no match", 0, map[string]string{"role": "institute"}},
		{"unknown field", 0, map[string]string{"missing": "x"}},
	}

	for _, tt := range tests {
		got := Filter(records, Criteria{Categorical: tt.crit}, logSchema)
		if len(got) != tt.want {
			t.Errorf("%s: got %d records, want %d", tt.name, len(got), tt.want)
		}
	}
}

func TestFilterMonotonicity(t *testing.T) {
	records := []logRow{
		{timestamp: "2024-01-05، 08:00", actor: "ali", role: "admin"},
		{timestamp: "2024-02-10، 09:00", actor: "sara", role: "super_admin"},
		{timestamp: "2024-03-15، 10:00", actor: "reza", role: "admin"},
	}

	broad := Filter(records, Criteria{StartDate: "2024-01-01"}, logSchema)
	narrow := Filter(records, Criteria{StartDate: "2024-01-01", Categorical: map[string]string{"role": "admin"}}, logSchema)
	if len(narrow) > len(broad) {
		t.Fatalf("narrowing criteria grew the result: %d > %d", len(narrow), len(broad))
	}

	// order preservation under a narrowing filter
	if narrow[0].actor != "ali" || narrow[1].actor != "reza" {
		t.Fatalf("filtered output out of input order: %v", narrow)
	}
}

func TestLooseEqual(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"42", "42", true},
		{"42", "42.0", true},
		{" 42", "42", true},
		{"inst-7", "inst-7", true},
		{"inst-7", "inst-8", false},
		{"42", "43", false},
		{"abc", "0", false},
	}

	for _, tt := range tests {
		if got := LooseEqual(tt.a, tt.b); got != tt.want {
			t.Errorf("LooseEqual(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
