package jsondb

import (
	"github.com/paycollect/paycollect/core/payment"
)

type paymentRepository struct {
	db *DB
}

func NewPaymentRepository(db *DB) payment.Repository {
	return &paymentRepository{db: db}
}

func (repo *paymentRepository) all() []payment.Payment {
	payments := []payment.Payment{}
	repo.db.load(paymentsFile, &payments)
	return payments
}

func (repo *paymentRepository) CreatePayment(pmt payment.Payment) (payment.Payment, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	payments := append(repo.all(), pmt)
	if err := repo.db.save(paymentsFile, payments); err != nil {
		return payment.Payment{}, err
	}
	return pmt, nil
}

func (repo *paymentRepository) QueryAllPayments() ([]payment.Payment, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	return repo.all(), nil
}

func (repo *paymentRepository) GetPaymentByID(id string) (payment.Payment, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, pmt := range repo.all() {
		if pmt.ID == id {
			return pmt, nil
		}
	}
	return payment.Payment{}, payment.ErrNotFound
}

func (repo *paymentRepository) GetPaymentsByStudentID(studentID string) ([]payment.Payment, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	out := []payment.Payment{}
	for _, pmt := range repo.all() {
		if pmt.StudentID == studentID {
			out = append(out, pmt)
		}
	}
	return out, nil
}

func (repo *paymentRepository) UpdatePayment(pmt payment.Payment) (payment.Payment, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	payments := repo.all()
	for i := range payments {
		if payments[i].ID == pmt.ID {
			payments[i] = pmt
			if err := repo.db.save(paymentsFile, payments); err != nil {
				return payment.Payment{}, err
			}
			return pmt, nil
		}
	}
	return payment.Payment{}, payment.ErrNotFound
}

func (repo *paymentRepository) DeletePaymentsByStudentID(studentID string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	payments := repo.all()
	kept := payments[:0]
	for _, pmt := range payments {
		if pmt.StudentID == studentID {
			continue
		}
		kept = append(kept, pmt)
	}
	return repo.db.save(paymentsFile, kept)
}
