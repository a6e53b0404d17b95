package student

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/paycollect/paycollect/core"
)

// Student is a person registered in the system with a payment status.
type Student struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	RollNumber string `json:"roll_number"`

	PaymentStatus core.PaymentStatus `json:"payment_status"`

	AdminRemarks   string `json:"admin_remarks"`
	StudentRemarks string `json:"student_remarks"`

	RegistrationDate time.Time `json:"registration_date"`
	PaymentDatetime  time.Time `json:"payment_datetime"`
	// AutoTimestamp records provenance: true when PaymentDatetime was stamped
	// by a self-submission, false once an admin overrides it.
	AutoTimestamp bool `json:"auto_timestamp"`

	AddedByAdmin       bool   `json:"added_by_admin"`
	PaymentAccountUsed string `json:"payment_account_used"`
	ScreenshotDeleted  bool   `json:"screenshot_deleted"`
}

// NewStudent contains a student self-submission: the record is always created
// Pending with an auto-stamped payment time.
type NewStudent struct {
	Name           string `json:"name" validate:"required"`
	RollNumber     string `json:"roll_number" validate:"required"`
	TransactionID  string `json:"transaction_id" validate:"required"`
	PaymentAccount string `json:"payment_account" validate:"required"`
	StudentRemarks string `json:"student_remarks"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.RollNumber = core.CleanString(ns.RollNumber)
	ns.TransactionID = core.CleanString(ns.TransactionID)
	return validate.Struct(ns)
}

// AdminNewStudent contains a manual admin entry; it may be created directly
// in Paid state, in which case a verified payment row is synthesized.
type AdminNewStudent struct {
	Name           string             `json:"name" validate:"required"`
	RollNumber     string             `json:"roll_number" validate:"required"`
	Status         core.PaymentStatus `json:"payment_status" validate:"required"`
	PaymentAccount string             `json:"payment_account"`
	TransactionID  string             `json:"transaction_id"`
	Amount         int                `json:"amount"`
	AdminRemarks   string             `json:"admin_remarks"`
	PaymentTime    time.Time          `json:"payment_datetime"`
}

func (ans *AdminNewStudent) Validate(validate *validator.Validate) error {
	ans.Name = core.CleanString(ans.Name)
	ans.RollNumber = core.CleanString(ans.RollNumber)
	ans.TransactionID = core.CleanString(ans.TransactionID)

	if err := validate.Struct(ans); err != nil {
		return err
	}
	if _, err := core.ParseStatus(string(ans.Status)); err != nil {
		return err
	}
	if ans.Status == core.StatusPaid {
		var flds []core.FieldError
		if ans.PaymentAccount == "" {
			flds = append(flds, core.FieldError{Field: "payment_account", Error: "payment account is required for paid entries"})
		}
		if ans.Amount <= 0 {
			flds = append(flds, core.FieldError{Field: "amount", Error: "a positive amount is required for paid entries"})
		}
		if len(flds) > 0 {
			return core.NewValidationError(nil, flds...)
		}
	}
	return nil
}

// UpdateStudent defines the admin-editable fields; nil pointers leave the
// stored value untouched.
type UpdateStudent struct {
	AdminRemarks   *string             `json:"admin_remarks"`
	StudentRemarks *string             `json:"student_remarks"`
	Status         *core.PaymentStatus `json:"payment_status"`
	// PaymentTime overrides the claimed timestamp and flips AutoTimestamp off
	// on the student and every payment row.
	PaymentTime *time.Time `json:"payment_datetime"`
}

func (uu *UpdateStudent) Validate() error {
	if uu.Status != nil {
		if _, err := core.ParseStatus(string(*uu.Status)); err != nil {
			return err
		}
	}
	return nil
}

// QueryFilter narrows student listings.
// Search does a case-insensitive match on Name or RollNumber.
type QueryFilter struct {
	Search     string `query:"search"`
	Status     string `query:"status"`     // All | Paid | Unpaid | Pending
	Provenance string `query:"added_by"`   // All | Admin | Student
	DateBucket string `query:"date_range"` // All | Today | Last 7 Days | This Month
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && (qf.Status == "" || qf.Status == "All") &&
		(qf.Provenance == "" || qf.Provenance == "All") &&
		(qf.DateBucket == "" || qf.DateBucket == "All")
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Status = core.CleanString(qf.Status)
	qf.Provenance = core.CleanString(qf.Provenance)
	qf.DateBucket = core.CleanString(qf.DateBucket)
}
