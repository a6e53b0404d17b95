package inmemdb

import (
	"github.com/paycollect/paycollect/core/payment"
)

type paymentRepository struct {
	db *paymentTable
}

func NewPaymentRepository(db *DB) payment.Repository {
	return &paymentRepository{db: db.payments}
}

func (repo *paymentRepository) CreatePayment(pmt payment.Payment) (payment.Payment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.rows = append(repo.db.rows, pmt)
	return pmt, nil
}

func (repo *paymentRepository) QueryAllPayments() ([]payment.Payment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	out := make([]payment.Payment, len(repo.db.rows))
	copy(out, repo.db.rows)
	return out, nil
}

func (repo *paymentRepository) GetPaymentByID(id string) (payment.Payment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	for _, pmt := range repo.db.rows {
		if pmt.ID == id {
			return pmt, nil
		}
	}
	return payment.Payment{}, payment.ErrNotFound
}

func (repo *paymentRepository) GetPaymentsByStudentID(studentID string) ([]payment.Payment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	out := []payment.Payment{}
	for _, pmt := range repo.db.rows {
		if pmt.StudentID == studentID {
			out = append(out, pmt)
		}
	}
	return out, nil
}

func (repo *paymentRepository) UpdatePayment(pmt payment.Payment) (payment.Payment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	for i := range repo.db.rows {
		if repo.db.rows[i].ID == pmt.ID {
			repo.db.rows[i] = pmt
			return pmt, nil
		}
	}
	return payment.Payment{}, payment.ErrNotFound
}

func (repo *paymentRepository) DeletePaymentsByStudentID(studentID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	kept := repo.db.rows[:0]
	for _, pmt := range repo.db.rows {
		if pmt.StudentID == studentID {
			continue
		}
		kept = append(kept, pmt)
	}
	repo.db.rows = kept
	return nil
}
