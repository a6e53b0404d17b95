package jsondb

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/paycollect/paycollect/core"
	"github.com/paycollect/paycollect/core/payment"
	"github.com/paycollect/paycollect/core/student"
)

func openDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open(): %v", err)
	}
	return db
}

func TestOpen_createsDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	if _, err := Open(dir); err != nil {
		t.Fatalf("Open(): %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("data dir not created: %v", err)
	}
}

func TestStudentRepository_roundtrip(t *testing.T) {
	db := openDB(t)
	repo := NewStudentRepository(db)

	st := student.Student{
		ID:               "s1",
		Name:             "Asha Rao",
		RollNumber:       "R1",
		PaymentStatus:    core.StatusPending,
		RegistrationDate: time.Now().UTC(),
		PaymentDatetime:  time.Now().UTC(),
		AutoTimestamp:    true,
	}
	if _, err := repo.CreateStudent(st); err != nil {
		t.Fatalf("CreateStudent(): %v", err)
	}

	// a fresh handle over the same dir sees the persisted record
	db2, err := Open(db.dir)
	if err != nil {
		t.Fatalf("Open(): %v", err)
	}
	repo2 := NewStudentRepository(db2)

	got, err := repo2.GetStudentByID("s1")
	if err != nil {
		t.Fatalf("GetStudentByID(): %v", err)
	}
	assert.Equal(t, "Asha Rao", got.Name)
	assert.Equal(t, core.StatusPending, got.PaymentStatus)
	assert.True(t, got.AutoTimestamp)

	got, err = repo2.GetStudentByRoll("R1")
	if err != nil {
		t.Fatalf("GetStudentByRoll(): %v", err)
	}
	assert.Equal(t, "s1", got.ID)
}

func TestStudentRepository_uniqueness(t *testing.T) {
	db := openDB(t)
	repo := NewStudentRepository(db)

	st := student.Student{ID: "s1", Name: "Asha", RollNumber: "R1"}
	if _, err := repo.CreateStudent(st); err != nil {
		t.Fatalf("CreateStudent(): %v", err)
	}

	if err := repo.CheckRollNumberUniqueness("R1"); err != student.ErrRollNumberExists {
		t.Errorf("CheckRollNumberUniqueness() err = %v; want %v", err, student.ErrRollNumberExists)
	}
	// the owner itself is excluded when editing
	if err := repo.CheckRollNumberUniqueness("R1", st); err != nil {
		t.Errorf("CheckRollNumberUniqueness(excluded) err = %v; want nil", err)
	}
	if err := repo.CheckRollNumberUniqueness("R2"); err != nil {
		t.Errorf("CheckRollNumberUniqueness(R2) err = %v; want nil", err)
	}
}

func TestStudentRepository_updateDelete(t *testing.T) {
	db := openDB(t)
	repo := NewStudentRepository(db)

	st := student.Student{ID: "s1", Name: "Asha", RollNumber: "R1", PaymentStatus: core.StatusPending}
	if _, err := repo.CreateStudent(st); err != nil {
		t.Fatalf("CreateStudent(): %v", err)
	}

	st.PaymentStatus = core.StatusPaid
	if _, err := repo.UpdateStudent(st); err != nil {
		t.Fatalf("UpdateStudent(): %v", err)
	}
	got, _ := repo.GetStudentByID("s1")
	assert.Equal(t, core.StatusPaid, got.PaymentStatus)

	if err := repo.DeleteStudentByID("s1"); err != nil {
		t.Fatalf("DeleteStudentByID(): %v", err)
	}
	if _, err := repo.GetStudentByID("s1"); err != student.ErrNotFound {
		t.Errorf("GetStudentByID() err = %v; want %v", err, student.ErrNotFound)
	}
	if err := repo.DeleteStudentByID("s1"); err != student.ErrNotFound {
		t.Errorf("DeleteStudentByID() err = %v; want %v", err, student.ErrNotFound)
	}
}

func TestPaymentRepository_roundtrip(t *testing.T) {
	db := openDB(t)
	repo := NewPaymentRepository(db)

	for _, id := range []string{"p1", "p2"} {
		pmt := payment.Payment{ID: id, StudentID: "s1", TransactionID: "TX-" + id, Amount: 5000, Status: core.StatusPending}
		if _, err := repo.CreatePayment(pmt); err != nil {
			t.Fatalf("CreatePayment(%s): %v", id, err)
		}
	}

	pmts, err := repo.GetPaymentsByStudentID("s1")
	if err != nil {
		t.Fatalf("GetPaymentsByStudentID(): %v", err)
	}
	if assert.Len(t, pmts, 2) {
		// insertion order is preserved
		assert.Equal(t, "p1", pmts[0].ID)
	}

	if _, err := repo.GetPaymentByID("nope"); err != payment.ErrNotFound {
		t.Errorf("GetPaymentByID() err = %v; want %v", err, payment.ErrNotFound)
	}

	if err := repo.DeletePaymentsByStudentID("s1"); err != nil {
		t.Fatalf("DeletePaymentsByStudentID(): %v", err)
	}
	all, _ := repo.QueryAllPayments()
	assert.Empty(t, all)
}

func TestAdminRepository_seedsDefaults(t *testing.T) {
	db := openDB(t)
	repo := NewAdminRepository(db)

	s, err := repo.LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings(): %v", err)
	}
	assert.Equal(t, "admin", s.Username)
	assert.NoError(t, s.CheckPassword("admin123"))
	assert.Equal(t, 5000, s.PaymentAmount)

	// the seed is persisted, not regenerated per read
	if _, err := os.Stat(db.path(adminFile)); err != nil {
		t.Fatalf("seeded settings not persisted: %v", err)
	}
	again, _ := repo.LoadSettings()
	assert.Equal(t, s.ShortURLCode, again.ShortURLCode)
}

func TestAdminRepository_corruptFileDegradesToDefaults(t *testing.T) {
	db := openDB(t)
	repo := NewAdminRepository(db)

	if err := os.WriteFile(db.path(adminFile), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile(): %v", err)
	}

	s, err := repo.LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings(): %v", err)
	}
	assert.Equal(t, "admin", s.Username)
}

func TestAdminRepository_instructions(t *testing.T) {
	db := openDB(t)
	repo := NewAdminRepository(db)

	text, err := repo.LoadInstructions()
	if err != nil {
		t.Fatalf("LoadInstructions(): %v", err)
	}
	assert.Equal(t, "Default instructions will appear here.", text)

	if err := repo.SaveInstructions("Pay before Friday."); err != nil {
		t.Fatalf("SaveInstructions(): %v", err)
	}
	text, _ = repo.LoadInstructions()
	assert.Equal(t, "Pay before Friday.", text)
}

func TestDB_saveLeavesNoTempFiles(t *testing.T) {
	db := openDB(t)
	repo := NewAdminRepository(db)

	if err := repo.SaveInstructions("x"); err != nil {
		t.Fatalf("SaveInstructions(): %v", err)
	}

	entries, err := os.ReadDir(db.dir)
	if err != nil {
		t.Fatalf("ReadDir(): %v", err)
	}
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp-")
	}
}
