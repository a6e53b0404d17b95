package student

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/paycollect/paycollect/core"
	"github.com/paycollect/paycollect/core/payment"
)

var (
	// errors
	ErrNotFound         = errors.New("student not found")
	ErrRollNumberExists = errors.New("a student with this roll number already exists")
)

type (
	Repository interface {
		CheckRollNumberUniqueness(rollNumber string, excluded ...Student) error
		CreateStudent(Student) (Student, error)
		QueryAllStudents() ([]Student, error)
		GetStudentByID(id string) (Student, error)
		GetStudentByRoll(rollNumber string) (Student, error)
		UpdateStudent(Student) (Student, error)
		DeleteStudentByID(id string) error
	}

	// AssetManager stores and purges screenshot binaries.
	AssetManager interface {
		Store(data []byte, studentID, originalName string) (string, error)
		Delete(name string) bool
	}

	Service struct {
		repo     Repository
		payments payment.Repository
		assets   AssetManager
		validate *validator.Validate
	}
)

func NewService(repo Repository, payments payment.Repository, assets AssetManager, validate *validator.Validate) *Service {
	return &Service{repo: repo, payments: payments, assets: assets, validate: validate}
}

// StudentExists implements payment.StudentChecker.
func (svc *Service) StudentExists(id string) (bool, error) {
	if _, err := svc.repo.GetStudentByID(id); err != nil {
		if err == ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (svc *Service) checkUniqueness(rollNumber string, excl ...Student) error {
	if err := svc.repo.CheckRollNumberUniqueness(rollNumber, excl...); err != nil {
		if err == ErrRollNumberExists {
			return core.NewValidationError(err,
				core.FieldError{Field: "roll_number", Error: err.Error()})
		}
		return err
	}
	return nil
}

// Create registers a student self-submission; it always starts Pending.
// The caller records the matching payment row separately.
func (svc *Service) Create(ns NewStudent) (Student, error) {
	if err := ns.Validate(svc.validate); err != nil {
		return Student{}, err
	}
	if err := svc.checkUniqueness(ns.RollNumber); err != nil {
		return Student{}, err
	}

	now := time.Now()
	st := Student{
		ID:                 uuid.New().String(),
		Name:               ns.Name,
		RollNumber:         ns.RollNumber,
		PaymentStatus:      core.StatusPending,
		StudentRemarks:     ns.StudentRemarks,
		RegistrationDate:   now,
		PaymentDatetime:    now,
		AutoTimestamp:      true,
		AddedByAdmin:       false,
		PaymentAccountUsed: ns.PaymentAccount,
	}
	return svc.repo.CreateStudent(st)
}

// Submit runs the full portal submission: the screenshot is stored first,
// then the student and its payment row are recorded with the configured
// amount. A failed student insert rolls the stored screenshot back.
func (svc *Service) Submit(ns NewStudent, shot []byte, shotName string, amount int) (Student, payment.Payment, error) {
	if err := ns.Validate(svc.validate); err != nil {
		return Student{}, payment.Payment{}, err
	}
	if err := svc.checkUniqueness(ns.RollNumber); err != nil {
		return Student{}, payment.Payment{}, err
	}

	id := uuid.New().String()
	filename, err := svc.assets.Store(shot, id, shotName)
	if err != nil {
		return Student{}, payment.Payment{}, err
	}

	now := time.Now()
	st := Student{
		ID:                 id,
		Name:               ns.Name,
		RollNumber:         ns.RollNumber,
		PaymentStatus:      core.StatusPending,
		StudentRemarks:     ns.StudentRemarks,
		RegistrationDate:   now,
		PaymentDatetime:    now,
		AutoTimestamp:      true,
		AddedByAdmin:       false,
		PaymentAccountUsed: ns.PaymentAccount,
	}
	st, err = svc.repo.CreateStudent(st)
	if err != nil {
		svc.assets.Delete(filename)
		return Student{}, payment.Payment{}, err
	}

	pmt := payment.Payment{
		ID:              uuid.New().String(),
		StudentID:       st.ID,
		TransactionID:   ns.TransactionID,
		Amount:          amount,
		Status:          core.StatusPending,
		Screenshot:      filename,
		SubmissionDate:  now,
		PaymentDatetime: now,
		AutoTimestamp:   true,
		PaymentAccount:  ns.PaymentAccount,
		StudentRemarks:  ns.StudentRemarks,
	}
	pmt, err = svc.payments.CreatePayment(pmt)
	if err != nil {
		return Student{}, payment.Payment{}, err
	}
	return st, pmt, nil
}

// CreateByAdmin registers a manual admin entry; when created directly in Paid
// state a verified payment row is synthesized alongside it.
func (svc *Service) CreateByAdmin(ans AdminNewStudent) (Student, error) {
	if err := ans.Validate(svc.validate); err != nil {
		return Student{}, err
	}
	if err := svc.checkUniqueness(ans.RollNumber); err != nil {
		return Student{}, err
	}

	now := time.Now()
	paymentTime := ans.PaymentTime
	if paymentTime.IsZero() {
		paymentTime = now
	}
	st := Student{
		ID:                 uuid.New().String(),
		Name:               ans.Name,
		RollNumber:         ans.RollNumber,
		PaymentStatus:      ans.Status,
		AdminRemarks:       ans.AdminRemarks,
		RegistrationDate:   now,
		PaymentDatetime:    paymentTime,
		AutoTimestamp:      false,
		AddedByAdmin:       true,
		PaymentAccountUsed: ans.PaymentAccount,
	}
	st, err := svc.repo.CreateStudent(st)
	if err != nil {
		return Student{}, err
	}

	if ans.Status == core.StatusPaid && ans.Amount > 0 {
		txID := ans.TransactionID
		if txID == "" {
			txID = fmt.Sprintf("ADMIN-ADDED-%s", ans.RollNumber)
		}
		pmt := payment.Payment{
			ID:              uuid.New().String(),
			StudentID:       st.ID,
			TransactionID:   txID,
			Amount:          ans.Amount,
			Status:          core.StatusPaid,
			SubmissionDate:  now,
			PaymentDatetime: paymentTime,
			AutoTimestamp:   false,
			AddedByAdmin:    true,
			VerifiedByAdmin: true,
			PaymentAccount:  ans.PaymentAccount,
			AdminRemarks:    ans.AdminRemarks,
		}
		if _, err := svc.payments.CreatePayment(pmt); err != nil {
			return Student{}, err
		}
	}
	return st, nil
}

func (svc *Service) QueryAll() ([]Student, error) {
	return svc.repo.QueryAllStudents()
}

func (svc *Service) GetByID(id string) (Student, error) {
	return svc.repo.GetStudentByID(id)
}

func (svc *Service) GetByRoll(rollNumber string) (Student, error) {
	return svc.repo.GetStudentByRoll(core.CleanString(rollNumber))
}

// UpdateStatus moves the student to the given state and keeps the first
// payment row referencing it in sync. Later payment rows are left untouched.
func (svc *Service) UpdateStatus(id string, status core.PaymentStatus) (Student, error) {
	if _, err := core.ParseStatus(string(status)); err != nil {
		return Student{}, err
	}
	st, err := svc.repo.GetStudentByID(id)
	if err != nil {
		return Student{}, err
	}
	st.PaymentStatus = status
	st, err = svc.repo.UpdateStudent(st)
	if err != nil {
		return Student{}, err
	}

	pmts, err := svc.payments.GetPaymentsByStudentID(id)
	if err != nil {
		return Student{}, err
	}
	if len(pmts) > 0 {
		pmts[0].Status = status
		if _, err := svc.payments.UpdatePayment(pmts[0]); err != nil {
			return Student{}, err
		}
	}
	return st, nil
}

// Update applies admin edits; overriding the payment timestamp marks it as
// manually set on the student and on every payment row.
func (svc *Service) Update(id string, uu UpdateStudent) (Student, error) {
	if err := uu.Validate(); err != nil {
		return Student{}, err
	}
	st, err := svc.repo.GetStudentByID(id)
	if err != nil {
		return Student{}, err
	}

	if uu.AdminRemarks != nil {
		st.AdminRemarks = *uu.AdminRemarks
	}
	if uu.StudentRemarks != nil {
		st.StudentRemarks = *uu.StudentRemarks
	}
	if uu.PaymentTime != nil {
		st.PaymentDatetime = *uu.PaymentTime
		st.AutoTimestamp = false

		pmts, err := svc.payments.GetPaymentsByStudentID(id)
		if err != nil {
			return Student{}, err
		}
		for _, pmt := range pmts {
			pmt.PaymentDatetime = *uu.PaymentTime
			pmt.AutoTimestamp = false
			if _, err := svc.payments.UpdatePayment(pmt); err != nil {
				return Student{}, err
			}
		}
	}
	st, err = svc.repo.UpdateStudent(st)
	if err != nil {
		return Student{}, err
	}

	if uu.Status != nil && *uu.Status != st.PaymentStatus {
		return svc.UpdateStatus(id, *uu.Status)
	}
	return st, nil
}

// Delete removes the student, every payment referencing it and their
// screenshot assets. Deleting an unknown id fails with ErrNotFound.
func (svc *Service) Delete(id string) error {
	if _, err := svc.repo.GetStudentByID(id); err != nil {
		return err
	}

	pmts, err := svc.payments.GetPaymentsByStudentID(id)
	if err != nil {
		return err
	}
	for _, pmt := range pmts {
		if pmt.Screenshot != "" {
			svc.assets.Delete(pmt.Screenshot)
		}
	}
	if err := svc.payments.DeletePaymentsByStudentID(id); err != nil {
		return err
	}
	return svc.repo.DeleteStudentByID(id)
}

// DeleteBulk applies Delete to each id; partial failure is tallied, not
// rolled back.
func (svc *Service) DeleteBulk(ids []string) (succeeded, failed int) {
	for _, id := range ids {
		if err := svc.Delete(id); err != nil {
			failed++
		} else {
			succeeded++
		}
	}
	return succeeded, failed
}

// DeleteScreenshot purges the asset behind a payment and tombstones both the
// payment and the owning student. The historical fact that a screenshot
// existed survives via the tombstone.
func (svc *Service) DeleteScreenshot(paymentID string) error {
	pmt, err := svc.payments.GetPaymentByID(paymentID)
	if err != nil {
		return err
	}
	if pmt.Screenshot != "" {
		svc.assets.Delete(pmt.Screenshot)
	}

	now := time.Now()
	pmt.Screenshot = ""
	pmt.ScreenshotDeleted = true
	pmt.ScreenshotDeletedDate = &now
	if _, err := svc.payments.UpdatePayment(pmt); err != nil {
		return err
	}

	st, err := svc.repo.GetStudentByID(pmt.StudentID)
	if err != nil {
		if err == ErrNotFound {
			return nil // orphaned payment; the tombstone is already set
		}
		return err
	}
	st.ScreenshotDeleted = true
	_, err = svc.repo.UpdateStudent(st)
	return err
}

// DeleteScreenshotsBulk tombstones every active screenshot whose payment
// matches the status and date range filters. Failures on individual rows
// are skipped, not rolled back.
func (svc *Service) DeleteScreenshotsBulk(qf QueryFilter) (int, error) {
	qf.Clean()
	pmts, err := svc.payments.QueryAllPayments()
	if err != nil {
		return 0, err
	}

	now := time.Now()
	deleted := 0
	for _, pmt := range pmts {
		if pmt.Screenshot == "" || pmt.ScreenshotDeleted {
			continue
		}
		if qf.Status != "" && qf.Status != "All" && string(pmt.Status) != qf.Status {
			continue
		}
		if !InDateBucket(pmt.PaymentDatetime, qf.DateBucket, now) {
			continue
		}
		if err := svc.DeleteScreenshot(pmt.ID); err != nil {
			continue
		}
		deleted++
	}
	return deleted, nil
}

// Filter applies AND semantics over the available QueryFilter fields.
func (svc *Service) Filter(qf QueryFilter) ([]Student, error) {
	qf.Clean()
	students, err := svc.repo.QueryAllStudents()
	if err != nil {
		return nil, err
	}
	if qf.IsEmpty() {
		return students, nil
	}
	return FilterStudents(students, qf, time.Now()), nil
}
