package report

import (
	"io"
	"time"

	"github.com/paycollect/paycollect/core/admin"
	"github.com/paycollect/paycollect/core/payment"
	"github.com/paycollect/paycollect/core/student"
)

// Service loads the collections and delegates to the pure projection
// functions; it never mutates the record store.
type Service struct {
	students student.Repository
	payments payment.Repository
	config   admin.Repository
	assets   AssetReader
}

func NewService(students student.Repository, payments payment.Repository, config admin.Repository, assets AssetReader) *Service {
	return &Service{students: students, payments: payments, config: config, assets: assets}
}

func (svc *Service) load() ([]student.Student, []payment.Payment, error) {
	students, err := svc.students.QueryAllStudents()
	if err != nil {
		return nil, nil, err
	}
	payments, err := svc.payments.QueryAllPayments()
	if err != nil {
		return nil, nil, err
	}
	return students, payments, nil
}

func (svc *Service) StudentRows(qf student.QueryFilter) ([]StudentRow, error) {
	students, payments, err := svc.load()
	if err != nil {
		return nil, err
	}
	return BuildStudentRows(students, payments, qf, time.Now()), nil
}

func (svc *Service) PaymentRows(qf student.QueryFilter) ([]PaymentRow, error) {
	students, payments, err := svc.load()
	if err != nil {
		return nil, err
	}
	return BuildPaymentRows(payments, students, qf, time.Now()), nil
}

func (svc *Service) Summary() (Summary, error) {
	students, payments, err := svc.load()
	if err != nil {
		return Summary{}, err
	}
	return BuildSummary(students, payments), nil
}

func (svc *Service) StudentsCSV(w io.Writer, qf student.QueryFilter) error {
	rows, err := svc.StudentRows(qf)
	if err != nil {
		return err
	}
	return WriteStudentsCSV(w, rows)
}

func (svc *Service) PaymentsCSV(w io.Writer, qf student.QueryFilter) error {
	rows, err := svc.PaymentRows(qf)
	if err != nil {
		return err
	}
	return WritePaymentsCSV(w, rows)
}

func (svc *Service) StudentsXLSX(w io.Writer, qf student.QueryFilter) error {
	rows, err := svc.StudentRows(qf)
	if err != nil {
		return err
	}
	return WriteStudentsXLSX(w, rows)
}

func (svc *Service) PaymentsXLSX(w io.Writer, qf student.QueryFilter) error {
	rows, err := svc.PaymentRows(qf)
	if err != nil {
		return err
	}
	return WritePaymentsXLSX(w, rows)
}

func (svc *Service) ScreenshotBundle(w io.Writer, qf student.QueryFilter) (int, error) {
	students, payments, err := svc.load()
	if err != nil {
		return 0, err
	}
	return WriteScreenshotBundle(w, payments, students, svc.assets, qf, time.Now())
}

func (svc *Service) Backup() (Backup, error) {
	students, payments, err := svc.load()
	if err != nil {
		return Backup{}, err
	}
	settings, err := svc.config.LoadSettings()
	if err != nil {
		return Backup{}, err
	}
	instructions, err := svc.config.LoadInstructions()
	if err != nil {
		return Backup{}, err
	}
	return Backup{
		Students:     students,
		Admin:        settings,
		Payments:     payments,
		Instructions: instructions,
	}, nil
}
