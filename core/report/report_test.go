package report_test

import (
	"time"

	"github.com/paycollect/paycollect/core"
	"github.com/paycollect/paycollect/core/payment"
	"github.com/paycollect/paycollect/core/student"
)

var fixtureNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

// Two self-submissions (one Paid with a live screenshot, one Pending with a
// purged screenshot) plus one admin entry, and one orphaned payment.
func fixtures() ([]student.Student, []payment.Payment) {
	deletedAt := fixtureNow.AddDate(0, 0, -1)

	students := []student.Student{
		{
			ID: "s1", Name: "Asha Rao", RollNumber: "R1",
			PaymentStatus:      core.StatusPaid,
			RegistrationDate:   fixtureNow.AddDate(0, 0, -2),
			PaymentDatetime:    fixtureNow.AddDate(0, 0, -2),
			AutoTimestamp:      true,
			PaymentAccountUsed: "First Bank - 111 - Bursar",
		},
		{
			ID: "s2", Name: "Benoit Kalume", RollNumber: "R2",
			PaymentStatus:      core.StatusPending,
			RegistrationDate:   fixtureNow.AddDate(0, -1, 0),
			PaymentDatetime:    fixtureNow.AddDate(0, -1, 0),
			AutoTimestamp:      true,
			ScreenshotDeleted:  true,
			PaymentAccountUsed: "First Bank - 111 - Bursar",
		},
		{
			ID: "s3", Name: "Chen Wei", RollNumber: "R3",
			PaymentStatus:    core.StatusUnpaid,
			RegistrationDate: fixtureNow,
			PaymentDatetime:  fixtureNow,
			AddedByAdmin:     true,
		},
	}

	payments := []payment.Payment{
		{
			ID: "p1", StudentID: "s1", TransactionID: "TX100", Amount: 5000,
			Status:          core.StatusPaid,
			Screenshot:      "s1_abc.png",
			SubmissionDate:  fixtureNow.AddDate(0, 0, -2),
			PaymentDatetime: fixtureNow.AddDate(0, 0, -2),
			AutoTimestamp:   true,
			PaymentAccount:  "First Bank - 111 - Bursar",
		},
		{
			ID: "p2", StudentID: "s2", TransactionID: "TX200", Amount: 5000,
			Status:                core.StatusPending,
			ScreenshotDeleted:     true,
			ScreenshotDeletedDate: &deletedAt,
			SubmissionDate:        fixtureNow.AddDate(0, -1, 0),
			PaymentDatetime:       fixtureNow.AddDate(0, -1, 0),
			AutoTimestamp:         true,
			PaymentAccount:        "First Bank - 111 - Bursar",
		},
		{
			ID: "p3", StudentID: "ghost", TransactionID: "TX300", Amount: 5000,
			Status:          core.StatusPaid,
			PaymentDatetime: fixtureNow,
			PaymentAccount:  "Second Bank - 222 - Bursar",
		},
	}
	return students, payments
}
