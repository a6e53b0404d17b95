package report

import (
	"strings"
	"time"

	"github.com/paycollect/paycollect/core"
	"github.com/paycollect/paycollect/core/payment"
	"github.com/paycollect/paycollect/core/student"
)

// Projection over the student and payment collections: filtered row sets,
// exports and aggregate summaries. Strictly read-only.

const displayTimeFormat = "02-01-2006 03:04 PM"

func formatTime(ts time.Time) string {
	if ts.IsZero() {
		return "Not specified"
	}
	return ts.Format(displayTimeFormat)
}

func timestampType(auto bool) string {
	if auto {
		return "Auto"
	}
	return "Manual"
}

func submittedBy(byAdmin bool) string {
	if byAdmin {
		return "Admin"
	}
	return "Student"
}

func screenshotStatus(hasScreenshot, deleted bool) string {
	switch {
	case deleted:
		return "Deleted"
	case hasScreenshot:
		return "Available"
	default:
		return "Not Available"
	}
}

// StudentRow is one exported line of the student report.
type StudentRow struct {
	Name             string
	RollNumber       string
	PaymentStatus    string
	PaymentDate      string
	TimestampType    string
	ScreenshotStatus string
	PaymentAccount   string
	AdminRemarks     string
	StudentRemarks   string
	AddedBy          string
	RegistrationDate string
}

var studentHeader = []string{
	"Name", "Roll Number", "Payment Status", "Payment Date", "Timestamp Type",
	"Screenshot Status", "Payment Account Used", "Admin Remarks", "Student Remarks",
	"Added By", "Registration Date",
}

func (r StudentRow) values() []string {
	return []string{
		r.Name, r.RollNumber, r.PaymentStatus, r.PaymentDate, r.TimestampType,
		r.ScreenshotStatus, r.PaymentAccount, r.AdminRemarks, r.StudentRemarks,
		r.AddedBy, r.RegistrationDate,
	}
}

// PaymentRow is one exported line of the payment report, joined with the
// owning student.
type PaymentRow struct {
	StudentName      string
	RollNumber       string
	TransactionID    string
	Amount           int
	Status           string
	PaymentDate      string
	TimestampType    string
	ScreenshotStatus string
	SubmissionDate   string
	PaymentAccount   string
	SubmittedBy      string
	AdminRemarks     string
	StudentRemarks   string
}

var paymentHeader = []string{
	"Student Name", "Roll Number", "Transaction ID", "Amount", "Status",
	"Payment Date", "Timestamp Type", "Screenshot Status", "Form Submission Date",
	"Payment Account", "Submitted By", "Admin Remarks", "Student Remarks",
}

// BuildStudentRows projects filtered students into export rows. The payment
// collection supplies each student's screenshot availability.
func BuildStudentRows(students []student.Student, payments []payment.Payment, qf student.QueryFilter, now time.Time) []StudentRow {
	qf.Clean()
	filtered := student.FilterStudents(students, qf, now)

	hasShot := make(map[string]bool, len(payments))
	for _, pmt := range payments {
		if pmt.Screenshot != "" {
			hasShot[pmt.StudentID] = true
		}
	}

	rows := make([]StudentRow, 0, len(filtered))
	for _, st := range filtered {
		rows = append(rows, StudentRow{
			Name:             st.Name,
			RollNumber:       st.RollNumber,
			PaymentStatus:    string(st.PaymentStatus),
			PaymentDate:      formatTime(st.PaymentDatetime),
			TimestampType:    timestampType(st.AutoTimestamp),
			ScreenshotStatus: screenshotStatus(hasShot[st.ID], st.ScreenshotDeleted),
			PaymentAccount:   st.PaymentAccountUsed,
			AdminRemarks:     st.AdminRemarks,
			StudentRemarks:   st.StudentRemarks,
			AddedBy:          submittedBy(st.AddedByAdmin),
			RegistrationDate: formatTime(st.RegistrationDate),
		})
	}
	return rows
}

// FilterPayments applies the same AND filter semantics to the payment
// collection; the search needle matches the owning student's name or roll.
func FilterPayments(payments []payment.Payment, students []student.Student, qf student.QueryFilter, now time.Time) []payment.Payment {
	qf.Clean()
	byID := studentIndex(students)

	out := make([]payment.Payment, 0, len(payments))
	for _, pmt := range payments {
		if qf.Status != "" && qf.Status != "All" && string(pmt.Status) != qf.Status {
			continue
		}
		switch qf.Provenance {
		case "Admin":
			if !pmt.AddedByAdmin {
				continue
			}
		case "Student":
			if pmt.AddedByAdmin {
				continue
			}
		}
		if !student.InDateBucket(pmt.PaymentDatetime, qf.DateBucket, now) {
			continue
		}
		if qf.Search != "" {
			owner, ok := byID[pmt.StudentID]
			if !ok {
				continue
			}
			needle := strings.ToLower(qf.Search)
			if !strings.Contains(strings.ToLower(owner.Name), needle) &&
				!strings.Contains(strings.ToLower(owner.RollNumber), needle) {
				continue
			}
		}
		out = append(out, pmt)
	}
	return out
}

// BuildPaymentRows projects filtered payments into export rows; payments
// whose owning student is gone are skipped.
func BuildPaymentRows(payments []payment.Payment, students []student.Student, qf student.QueryFilter, now time.Time) []PaymentRow {
	filtered := FilterPayments(payments, students, qf, now)
	byID := studentIndex(students)

	rows := make([]PaymentRow, 0, len(filtered))
	for _, pmt := range filtered {
		owner, ok := byID[pmt.StudentID]
		if !ok {
			continue
		}
		rows = append(rows, PaymentRow{
			StudentName:      owner.Name,
			RollNumber:       owner.RollNumber,
			TransactionID:    pmt.TransactionID,
			Amount:           pmt.Amount,
			Status:           string(pmt.Status),
			PaymentDate:      formatTime(pmt.PaymentDatetime),
			TimestampType:    timestampType(pmt.AutoTimestamp),
			ScreenshotStatus: screenshotStatus(pmt.HasScreenshot(), pmt.ScreenshotDeleted),
			SubmissionDate:   formatTime(pmt.SubmissionDate),
			PaymentAccount:   pmt.PaymentAccount,
			SubmittedBy:      submittedBy(pmt.AddedByAdmin),
			AdminRemarks:     pmt.AdminRemarks,
			StudentRemarks:   pmt.StudentRemarks,
		})
	}
	return rows
}

// Summary aggregates the collections for the admin dashboard and analytics.
type Summary struct {
	TotalStudents int                        `json:"total_students"`
	TotalPayments int                        `json:"total_payments"`
	StatusCounts  map[core.PaymentStatus]int `json:"status_counts"`

	AdminAdded       int `json:"admin_added"`
	StudentSubmitted int `json:"student_submitted"`

	TotalCollected   int            `json:"total_collected"`
	PaidTransactions int            `json:"paid_transactions"`
	AveragePayment   float64        `json:"average_payment"`
	PerAccountTotals map[string]int `json:"per_account_totals"`

	WithScreenshots    int `json:"with_screenshots"`
	WithoutScreenshots int `json:"without_screenshots"`
	DeletedScreenshots int `json:"deleted_screenshots"`
	ActiveScreenshots  int `json:"active_screenshots"`
}

// BuildSummary computes counts by status, collection totals over Paid
// payments and screenshot statistics.
func BuildSummary(students []student.Student, payments []payment.Payment) Summary {
	s := Summary{
		TotalStudents:    len(students),
		TotalPayments:    len(payments),
		StatusCounts:     make(map[core.PaymentStatus]int, len(core.AllStatuses)),
		PerAccountTotals: make(map[string]int),
	}
	for _, status := range core.AllStatuses {
		s.StatusCounts[status] = 0
	}

	for _, st := range students {
		s.StatusCounts[st.PaymentStatus]++
		if st.AddedByAdmin {
			s.AdminAdded++
		} else {
			s.StudentSubmitted++
		}
	}

	for _, pmt := range payments {
		if pmt.Status == core.StatusPaid {
			s.TotalCollected += pmt.Amount
			s.PaidTransactions++
			if pmt.PaymentAccount != "" {
				s.PerAccountTotals[pmt.PaymentAccount] += pmt.Amount
			}
		}
		if pmt.HasScreenshot() {
			s.WithScreenshots++
		}
		if pmt.ScreenshotDeleted {
			s.DeletedScreenshots++
		}
	}
	s.WithoutScreenshots = s.TotalPayments - s.WithScreenshots
	s.ActiveScreenshots = s.WithScreenshots - s.DeletedScreenshots
	if s.PaidTransactions > 0 {
		s.AveragePayment = float64(s.TotalCollected) / float64(s.PaidTransactions)
	}
	return s
}

func studentIndex(students []student.Student) map[string]student.Student {
	byID := make(map[string]student.Student, len(students))
	for _, st := range students {
		byID[st.ID] = st
	}
	return byID
}
