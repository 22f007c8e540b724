// Package report implements the in-memory record filter and pagination engine
// shared by the attendance report and the action-log viewer.
package report

import (
	"strconv"
	"strings"
)

// AllValues is the sentinel criterion meaning "do not filter this field".
const AllValues = "all"

// dateSeparator splits the locale timestamp into its date and time components.
const dateSeparator = "،"

// Criteria narrows a record collection. Zero-value fields select everything.
type Criteria struct {
	StartDate   string
	EndDate     string
	TextMatch   string
	Categorical map[string]string
}

// Schema tells the engine how to read fields off a record of type T.
// Timestamp is required; Text and Fields are optional.
type Schema[T any] struct {
	Timestamp func(T) string
	Text      func(T) string
	Fields    map[string]func(T) string
}

// DateKey extracts the comparable date prefix from a raw timestamp: the
// substring before the locale separator, trimmed. Without a separator the
// whole trimmed string is used. Comparison downstream is lexicographic, not
// calendar-aware; it is only correct while date components share a zero-padded
// big-endian layout. Malformed dates compare as raw strings and may mis-sort
// silently, matching the behavior of the system this replaces.
func DateKey(raw string) string {
	if idx := strings.Index(raw, dateSeparator); idx >= 0 {
		raw = raw[:idx]
	}
	return strings.TrimSpace(raw)
}

// Filter returns the records matching every criterion, preserving input
// order. It is total: malformed input never fails, it only matches or not.
func Filter[T any](records []T, c Criteria, s Schema[T]) []T {
	out := make([]T, 0, len(records))
	text := strings.ToLower(strings.TrimSpace(c.TextMatch))

	for _, rec := range records {
		if !matchDateRange(DateKey(s.Timestamp(rec)), c.StartDate, c.EndDate) {
			continue
		}
		if !matchCategorical(rec, c.Categorical, s.Fields) {
			continue
		}
		if text != "" {
			if s.Text == nil || !strings.Contains(strings.ToLower(s.Text(rec)), text) {
				continue
			}
		}
		out = append(out, rec)
	}
	return out
}

func matchDateRange(key, start, end string) bool {
	if start != "" && key < start {
		return false
	}
	if end != "" && key > end {
		return false
	}
	return true
}

func matchCategorical[T any](rec T, criteria map[string]string, fields map[string]func(T) string) bool {
	for name, want := range criteria {
		if want == "" || want == AllValues {
			continue
		}
		accessor, ok := fields[name]
		if !ok {
			// unknown field names never match anything
			return false
		}
		if !LooseEqual(accessor(rec), want) {
			return false
		}
	}
	return true
}

// LooseEqual compares two identifier values the way the backend mixes them:
// equal as trimmed strings, or equal numerically when both sides parse.
func LooseEqual(a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == b {
		return true
	}
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	return errA == nil && errB == nil && fa == fb
}
