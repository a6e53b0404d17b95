package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// PaymentStatus is the shared payment workflow state carried by both a
// student record and its payment records. Any state may transition to any
// other; self-submissions always start Pending.
type PaymentStatus string

const (
	StatusPending PaymentStatus = "Pending"
	StatusPaid    PaymentStatus = "Paid"
	StatusUnpaid  PaymentStatus = "Unpaid"
)

var AllStatuses = []PaymentStatus{StatusPending, StatusPaid, StatusUnpaid}

// ParseStatus validates a raw status value.
func ParseStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case StatusPending, StatusPaid, StatusUnpaid:
		return PaymentStatus(s), nil
	}
	return "", NewValidationError(
		errors.New("invalid payment status"),
		FieldError{Field: "status", Error: fmt.Sprintf("%q is not a valid payment status", s)},
	)
}

func (s PaymentStatus) String() string { return string(s) }
