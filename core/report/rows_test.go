package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/paycollect/paycollect/core"
	"github.com/paycollect/paycollect/core/report"
	"github.com/paycollect/paycollect/core/student"
)

func TestBuildStudentRows(t *testing.T) {
	students, payments := fixtures()

	rows := report.BuildStudentRows(students, payments, student.QueryFilter{}, fixtureNow)
	if len(rows) != len(students) {
		t.Fatalf("rows = %d; want %d", len(rows), len(students))
	}

	byRoll := make(map[string]report.StudentRow, len(rows))
	for _, row := range rows {
		byRoll[row.RollNumber] = row
	}

	r1 := byRoll["R1"]
	assert.Equal(t, "Asha Rao", r1.Name)
	assert.Equal(t, "Paid", r1.PaymentStatus)
	assert.Equal(t, "13-03-2026 12:00 PM", r1.PaymentDate)
	assert.Equal(t, "Auto", r1.TimestampType)
	assert.Equal(t, "Available", r1.ScreenshotStatus)
	assert.Equal(t, "Student", r1.AddedBy)

	r2 := byRoll["R2"]
	assert.Equal(t, "Deleted", r2.ScreenshotStatus)

	r3 := byRoll["R3"]
	assert.Equal(t, "Admin", r3.AddedBy)
	assert.Equal(t, "Not Available", r3.ScreenshotStatus)
}

func TestBuildStudentRows_filtered(t *testing.T) {
	students, payments := fixtures()

	tests := []struct {
		name   string
		filter student.QueryFilter
		want   int
	}{
		{name: "status Paid", filter: student.QueryFilter{Status: "Paid"}, want: 1},
		{name: "added by admin", filter: student.QueryFilter{Provenance: "Admin"}, want: 1},
		{name: "this month", filter: student.QueryFilter{DateBucket: "This Month"}, want: 2},
		{name: "search", filter: student.QueryFilter{Search: "benoit"}, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := report.BuildStudentRows(students, payments, tt.filter, fixtureNow)
			if len(rows) != tt.want {
				t.Errorf("rows = %d; want %d", len(rows), tt.want)
			}
		})
	}
}

func TestFilterPayments(t *testing.T) {
	students, payments := fixtures()

	tests := []struct {
		name   string
		filter student.QueryFilter
		want   int
	}{
		{name: "all", filter: student.QueryFilter{}, want: 3},
		{name: "status Paid", filter: student.QueryFilter{Status: "Paid"}, want: 2},
		{name: "search matches owner", filter: student.QueryFilter{Search: "asha"}, want: 1},
		// orphaned payments cannot match a search
		{name: "search drops orphans", filter: student.QueryFilter{Search: "tx300"}, want: 0},
		{name: "last 7 days", filter: student.QueryFilter{DateBucket: "Last 7 Days"}, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := report.FilterPayments(payments, students, tt.filter, fixtureNow)
			if len(got) != tt.want {
				t.Errorf("payments = %d; want %d", len(got), tt.want)
			}
		})
	}
}

func TestBuildPaymentRows_skipsOrphans(t *testing.T) {
	students, payments := fixtures()

	rows := report.BuildPaymentRows(payments, students, student.QueryFilter{}, fixtureNow)
	if len(rows) != 2 {
		t.Fatalf("rows = %d; want 2 (orphan dropped)", len(rows))
	}
	for _, row := range rows {
		assert.NotEmpty(t, row.StudentName)
	}
}

func TestBuildSummary(t *testing.T) {
	students, payments := fixtures()

	s := report.BuildSummary(students, payments)

	assert.Equal(t, 3, s.TotalStudents)
	assert.Equal(t, 3, s.TotalPayments)
	assert.Equal(t, 1, s.StatusCounts[core.StatusPaid])
	assert.Equal(t, 1, s.StatusCounts[core.StatusPending])
	assert.Equal(t, 1, s.StatusCounts[core.StatusUnpaid])
	assert.Equal(t, 1, s.AdminAdded)
	assert.Equal(t, 2, s.StudentSubmitted)

	// two Paid payments of 5000 each
	assert.Equal(t, 10000, s.TotalCollected)
	assert.Equal(t, 2, s.PaidTransactions)
	assert.Equal(t, 5000.0, s.AveragePayment)
	assert.Equal(t, 5000, s.PerAccountTotals["First Bank - 111 - Bursar"])
	assert.Equal(t, 5000, s.PerAccountTotals["Second Bank - 222 - Bursar"])

	assert.Equal(t, 2, s.WithScreenshots)
	assert.Equal(t, 1, s.WithoutScreenshots)
	assert.Equal(t, 1, s.DeletedScreenshots)
	assert.Equal(t, 1, s.ActiveScreenshots)
}

func TestBuildSummary_empty(t *testing.T) {
	s := report.BuildSummary(nil, nil)

	assert.Zero(t, s.TotalStudents)
	assert.Zero(t, s.TotalCollected)
	assert.Zero(t, s.AveragePayment)
	assert.Equal(t, 0, s.StatusCounts[core.StatusPaid])
}
