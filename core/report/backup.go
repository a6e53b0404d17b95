package report

import (
	"github.com/paycollect/paycollect/core/admin"
	"github.com/paycollect/paycollect/core/payment"
	"github.com/paycollect/paycollect/core/student"
)

// Backup is the full snapshot of the four persisted documents, downloadable
// as a single JSON object.
type Backup struct {
	Students     []student.Student `json:"students"`
	Admin        admin.Settings    `json:"admin"`
	Payments     []payment.Payment `json:"payments"`
	Instructions string            `json:"instructions"`
}
