package payment

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/paycollect/paycollect/core"
)

// Payment is a submitted claim of payment tied to one Student.
type Payment struct {
	ID            string             `json:"id"`
	StudentID     string             `json:"student_id"`
	TransactionID string             `json:"transaction_id"`
	Amount        int                `json:"amount"`
	Status        core.PaymentStatus `json:"status"`

	// Screenshot is the live asset filename; once the asset is purged the
	// filename is cleared but the tombstone below records that one existed.
	Screenshot            string     `json:"screenshot"`
	ScreenshotDeleted     bool       `json:"screenshot_deleted"`
	ScreenshotDeletedDate *time.Time `json:"screenshot_deleted_date,omitempty"`

	SubmissionDate  time.Time `json:"submission_date"`
	PaymentDatetime time.Time `json:"payment_datetime"`
	AutoTimestamp   bool      `json:"auto_timestamp"`
	AddedByAdmin    bool      `json:"added_by_admin"`
	VerifiedByAdmin bool      `json:"verified_by_admin,omitempty"`

	PaymentAccount string `json:"payment_account"`
	StudentRemarks string `json:"student_remarks"`
	AdminRemarks   string `json:"admin_remarks"`
}

func (p *Payment) HasScreenshot() bool {
	return p.Screenshot != "" || p.ScreenshotDeleted
}

// NewPayment contains information needed to record a payment claim.
type NewPayment struct {
	StudentID     string `json:"student_id" validate:"required"`
	TransactionID string `json:"transaction_id" validate:"required"`
	Amount        int    `json:"amount" validate:"required,min=1"`
	Screenshot    string `json:"screenshot"`

	PaymentAccount  string             `json:"payment_account"`
	StudentRemarks  string             `json:"student_remarks"`
	AdminRemarks    string             `json:"admin_remarks"`
	PaymentTime     time.Time          `json:"payment_datetime"`
	AutoTimestamp   bool               `json:"auto_timestamp"`
	AddedByAdmin    bool               `json:"added_by_admin"`
	Status          core.PaymentStatus `json:"status"`
	VerifiedByAdmin bool               `json:"verified_by_admin"`
}

func (np *NewPayment) Validate(validate *validator.Validate) error {
	np.TransactionID = core.CleanString(np.TransactionID)
	return validate.Struct(np)
}
