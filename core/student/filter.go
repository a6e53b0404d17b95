package student

import (
	"strings"
	"time"
)

// FilterStudents applies AND semantics over the filter fields against a
// point-in-time `now` (date buckets are relative to it).
func FilterStudents(students []Student, qf QueryFilter, now time.Time) []Student {
	out := make([]Student, 0, len(students))
	for _, st := range students {
		if !matches(st, qf, now) {
			continue
		}
		out = append(out, st)
	}
	return out
}

func matches(st Student, qf QueryFilter, now time.Time) bool {
	if qf.Search != "" {
		needle := strings.ToLower(qf.Search)
		if !strings.Contains(strings.ToLower(st.Name), needle) &&
			!strings.Contains(strings.ToLower(st.RollNumber), needle) {
			return false
		}
	}
	if qf.Status != "" && qf.Status != "All" && string(st.PaymentStatus) != qf.Status {
		return false
	}
	switch qf.Provenance {
	case "Admin":
		if !st.AddedByAdmin {
			return false
		}
	case "Student":
		if st.AddedByAdmin {
			return false
		}
	}
	return InDateBucket(st.PaymentDatetime, qf.DateBucket, now)
}

// InDateBucket reports whether ts falls in the named bucket relative to now.
// Unknown or empty buckets match everything.
func InDateBucket(ts time.Time, bucket string, now time.Time) bool {
	if bucket == "" || bucket == "All" {
		return true
	}
	if ts.IsZero() {
		return false
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	ty, tm, td := ts.Date()
	day := time.Date(ty, tm, td, 0, 0, 0, 0, ts.Location())

	switch bucket {
	case "Today":
		return day.Equal(today)
	case "Last 7 Days":
		return !day.After(today) && today.Sub(day) <= 7*24*time.Hour
	case "This Month":
		return ty == y && tm == m
	}
	return true
}
