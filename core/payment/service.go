package payment

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/paycollect/paycollect/core"
)

var (
	// errors
	ErrNotFound       = errors.New("payment not found")
	ErrUnknownStudent = errors.New("referenced student does not exist")
)

type (
	Repository interface {
		CreatePayment(Payment) (Payment, error)
		QueryAllPayments() ([]Payment, error)
		GetPaymentByID(id string) (Payment, error)
		// GetPaymentsByStudentID returns payments in stored (insertion) order.
		GetPaymentsByStudentID(studentID string) ([]Payment, error)
		UpdatePayment(Payment) (Payment, error)
		DeletePaymentsByStudentID(studentID string) error
	}

	// StudentChecker reports whether a student id is known; it breaks the
	// package cycle between payment and student.
	StudentChecker interface {
		StudentExists(id string) (bool, error)
	}

	Service struct {
		repo     Repository
		students StudentChecker
		validate *validator.Validate
	}
)

func NewService(repo Repository, students StudentChecker, validate *validator.Validate) *Service {
	return &Service{repo: repo, students: students, validate: validate}
}

// Create records a payment claim after checking the referenced student exists.
func (svc *Service) Create(np NewPayment) (Payment, error) {
	if err := np.Validate(svc.validate); err != nil {
		return Payment{}, err
	}
	if ok, err := svc.students.StudentExists(np.StudentID); err != nil {
		return Payment{}, err
	} else if !ok {
		return Payment{}, ErrUnknownStudent
	}

	// self-submissions always start Pending; only admin synthesis may
	// record a different initial status.
	status := np.Status
	if status == "" || !np.AddedByAdmin {
		status = core.StatusPending
	}

	now := time.Now()
	pmt := Payment{
		ID:              uuid.New().String(),
		StudentID:       np.StudentID,
		TransactionID:   np.TransactionID,
		Amount:          np.Amount,
		Status:          status,
		VerifiedByAdmin: np.VerifiedByAdmin,
		Screenshot:      np.Screenshot,
		SubmissionDate:  now,
		PaymentDatetime: np.PaymentTime,
		AutoTimestamp:   np.AutoTimestamp,
		AddedByAdmin:    np.AddedByAdmin,
		PaymentAccount:  np.PaymentAccount,
		StudentRemarks:  np.StudentRemarks,
		AdminRemarks:    np.AdminRemarks,
	}
	if pmt.PaymentDatetime.IsZero() {
		pmt.PaymentDatetime = now
	}
	return svc.repo.CreatePayment(pmt)
}

func (svc *Service) QueryAll() ([]Payment, error) {
	return svc.repo.QueryAllPayments()
}

func (svc *Service) GetByID(id string) (Payment, error) {
	return svc.repo.GetPaymentByID(id)
}

func (svc *Service) GetByStudent(studentID string) ([]Payment, error) {
	return svc.repo.GetPaymentsByStudentID(studentID)
}
