package inmemdb

import (
	"sync"

	"github.com/paycollect/paycollect/core/admin"
	"github.com/paycollect/paycollect/core/payment"
	"github.com/paycollect/paycollect/core/student"
)

// In-memory implementations of the repositories and the asset store, used by
// tests and DEV mode.

type (
	DB struct {
		students *studentTable
		payments *paymentTable
		config   *configTable
	}

	studentTable struct {
		sync.RWMutex
		rows []student.Student
	}

	paymentTable struct {
		sync.RWMutex
		rows []payment.Payment
	}

	configTable struct {
		sync.RWMutex
		settings     admin.Settings
		instructions string
	}
)

func Open() (*DB, error) {
	db := &DB{
		students: &studentTable{},
		payments: &paymentTable{},
		config: &configTable{
			settings:     admin.DefaultSettings(),
			instructions: "Default instructions will appear here.",
		},
	}
	return db, nil
}
