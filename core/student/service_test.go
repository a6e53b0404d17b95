package student_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/paycollect/paycollect/core"
	"github.com/paycollect/paycollect/core/admin"
	"github.com/paycollect/paycollect/core/payment"
	"github.com/paycollect/paycollect/core/screenshot"
	"github.com/paycollect/paycollect/core/student"
	inmemdb "github.com/paycollect/paycollect/storage/inmem"
)

type testEnv struct {
	svc      *student.Service
	payments payment.Repository
	assets   *inmemdb.AssetStore
	adminSvc *admin.Service
}

func setup(t *testing.T) testEnv {
	t.Helper()

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open(): %v", err)
	}
	validate, _ := core.NewValidator()

	adminSvc := admin.NewService(inmemdb.NewAdminRepository(db), validate)
	assets := inmemdb.NewAssetStore()
	shots := screenshot.NewManager(assets, adminSvc)
	payments := inmemdb.NewPaymentRepository(db)
	svc := student.NewService(inmemdb.NewStudentRepository(db), payments, shots, validate)

	return testEnv{svc: svc, payments: payments, assets: assets, adminSvc: adminSvc}
}

func TestService_Create(t *testing.T) {
	env := setup(t)

	st, err := env.svc.Create(student.NewStudent{
		Name:           "Asha",
		RollNumber:     "R1",
		TransactionID:  "TX100",
		PaymentAccount: "Bank Name - 1234567890 - Account Holder",
	})
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}
	if st.PaymentStatus != core.StatusPending {
		t.Errorf("status = %v; want %v", st.PaymentStatus, core.StatusPending)
	}
	if !st.AutoTimestamp {
		t.Error("AutoTimestamp = false; want true")
	}
	if st.AddedByAdmin {
		t.Error("AddedByAdmin = true; want false")
	}
}

func TestService_Create_duplicateRoll(t *testing.T) {
	env := setup(t)

	ns := student.NewStudent{Name: "Asha", RollNumber: "R1", TransactionID: "TX100", PaymentAccount: "acct"}
	if _, err := env.svc.Create(ns); err != nil {
		t.Fatalf("Create(): %v", err)
	}

	ns2 := student.NewStudent{Name: "Benoit", RollNumber: "R1", TransactionID: "TX200", PaymentAccount: "acct"}
	_, err := env.svc.Create(ns2)
	var vErr *core.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Create() err = %v; want *core.ValidationError", err)
	}
	assert.Equal(t, "roll_number", vErr.Fields[0].Field)

	// rejected duplicate must not change the store
	all, _ := env.svc.QueryAll()
	assert.Len(t, all, 1)
}

func TestService_Submit(t *testing.T) {
	env := setup(t)

	ns := student.NewStudent{
		Name:           "Asha",
		RollNumber:     "R1",
		TransactionID:  "TX100",
		PaymentAccount: "Bank Name - 1234567890 - Account Holder",
		StudentRemarks: "paid via app",
	}
	st, pmt, err := env.svc.Submit(ns, []byte("fake image bytes"), "receipt.jpg", 5000)
	if err != nil {
		t.Fatalf("Submit(): %v", err)
	}

	if pmt.StudentID != st.ID {
		t.Errorf("payment.StudentID = %q; want %q", pmt.StudentID, st.ID)
	}
	if pmt.Amount != 5000 {
		t.Errorf("payment.Amount = %d; want 5000", pmt.Amount)
	}
	if pmt.Status != core.StatusPending {
		t.Errorf("payment.Status = %v; want %v", pmt.Status, core.StatusPending)
	}
	if pmt.Screenshot == "" {
		t.Fatal("payment.Screenshot is empty")
	}
	if env.assets.Len() != 1 {
		t.Errorf("stored assets = %d; want 1", env.assets.Len())
	}
}

func TestService_Submit_oversizedScreenshot(t *testing.T) {
	env := setup(t)

	// default policy caps uploads at 5MB
	big := make([]byte, 6*1024*1024)
	ns := student.NewStudent{Name: "Asha", RollNumber: "R1", TransactionID: "TX100", PaymentAccount: "acct"}
	_, _, err := env.svc.Submit(ns, big, "huge.png", 5000)
	if !screenshot.IsSizeExceeded(err) {
		t.Fatalf("Submit() err = %v; want size exceeded", err)
	}

	// nothing may be persisted on rejection
	all, _ := env.svc.QueryAll()
	assert.Empty(t, all)
	assert.Zero(t, env.assets.Len())
}

func TestService_CreateByAdmin_paidSynthesizesPayment(t *testing.T) {
	env := setup(t)

	st, err := env.svc.CreateByAdmin(student.AdminNewStudent{
		Name:           "Chen",
		RollNumber:     "R2",
		Status:         core.StatusPaid,
		PaymentAccount: "acct",
		Amount:         5000,
	})
	if err != nil {
		t.Fatalf("CreateByAdmin(): %v", err)
	}

	pmts, err := env.payments.GetPaymentsByStudentID(st.ID)
	if err != nil {
		t.Fatalf("GetPaymentsByStudentID(): %v", err)
	}
	if len(pmts) != 1 {
		t.Fatalf("payments = %d; want 1", len(pmts))
	}
	pmt := pmts[0]
	assert.True(t, pmt.VerifiedByAdmin)
	assert.True(t, pmt.AddedByAdmin)
	assert.Equal(t, core.StatusPaid, pmt.Status)
	assert.Equal(t, "ADMIN-ADDED-R2", pmt.TransactionID)
}

func TestService_CreateByAdmin_paidRequiresAccountAndAmount(t *testing.T) {
	env := setup(t)

	_, err := env.svc.CreateByAdmin(student.AdminNewStudent{
		Name:       "Chen",
		RollNumber: "R2",
		Status:     core.StatusPaid,
	})
	var vErr *core.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("CreateByAdmin() err = %v; want *core.ValidationError", err)
	}
	assert.Len(t, vErr.Fields, 2)
}

func TestService_CreateByAdmin_pendingHasNoPayment(t *testing.T) {
	env := setup(t)

	st, err := env.svc.CreateByAdmin(student.AdminNewStudent{
		Name:       "Chen",
		RollNumber: "R2",
		Status:     core.StatusPending,
	})
	if err != nil {
		t.Fatalf("CreateByAdmin(): %v", err)
	}
	pmts, _ := env.payments.GetPaymentsByStudentID(st.ID)
	assert.Empty(t, pmts)
}

func TestService_UpdateStatus_syncsFirstPayment(t *testing.T) {
	env := setup(t)

	ns := student.NewStudent{Name: "Asha", RollNumber: "R1", TransactionID: "TX100", PaymentAccount: "acct"}
	st, _, err := env.svc.Submit(ns, []byte("img"), "a.png", 5000)
	if err != nil {
		t.Fatalf("Submit(): %v", err)
	}

	st, err = env.svc.UpdateStatus(st.ID, core.StatusPaid)
	if err != nil {
		t.Fatalf("UpdateStatus(): %v", err)
	}
	assert.Equal(t, core.StatusPaid, st.PaymentStatus)

	pmts, _ := env.payments.GetPaymentsByStudentID(st.ID)
	if assert.Len(t, pmts, 1) {
		assert.Equal(t, core.StatusPaid, pmts[0].Status)
	}
}

func TestService_UpdateStatus_unknownStatus(t *testing.T) {
	env := setup(t)

	if _, err := env.svc.UpdateStatus("whatever", "Settled"); err == nil {
		t.Fatal("UpdateStatus() expected error on unknown status")
	}
}

func TestService_Update_timestampOverride(t *testing.T) {
	env := setup(t)

	ns := student.NewStudent{Name: "Asha", RollNumber: "R1", TransactionID: "TX100", PaymentAccount: "acct"}
	st, _, err := env.svc.Submit(ns, []byte("img"), "a.png", 5000)
	if err != nil {
		t.Fatalf("Submit(): %v", err)
	}

	override := time.Date(2026, 3, 14, 15, 30, 0, 0, time.UTC)
	st, err = env.svc.Update(st.ID, student.UpdateStudent{PaymentTime: &override})
	if err != nil {
		t.Fatalf("Update(): %v", err)
	}
	assert.False(t, st.AutoTimestamp)
	assert.True(t, st.PaymentDatetime.Equal(override))

	pmts, _ := env.payments.GetPaymentsByStudentID(st.ID)
	if assert.Len(t, pmts, 1) {
		assert.False(t, pmts[0].AutoTimestamp)
		assert.True(t, pmts[0].PaymentDatetime.Equal(override))
	}
}

func TestService_Delete_cascades(t *testing.T) {
	env := setup(t)

	ns := student.NewStudent{Name: "Asha", RollNumber: "R1", TransactionID: "TX100", PaymentAccount: "acct"}
	st, _, err := env.svc.Submit(ns, []byte("img"), "a.png", 5000)
	if err != nil {
		t.Fatalf("Submit(): %v", err)
	}

	if err := env.svc.Delete(st.ID); err != nil {
		t.Fatalf("Delete(): %v", err)
	}
	assert.Zero(t, env.assets.Len())

	pmts, _ := env.payments.GetPaymentsByStudentID(st.ID)
	assert.Empty(t, pmts)

	// deleting again reports not found
	if err := env.svc.Delete(st.ID); err != student.ErrNotFound {
		t.Errorf("Delete() err = %v; want %v", err, student.ErrNotFound)
	}
}

func TestService_DeleteBulk(t *testing.T) {
	env := setup(t)

	st1, _ := env.svc.Create(student.NewStudent{Name: "A", RollNumber: "R1", TransactionID: "T1", PaymentAccount: "acct"})
	st2, _ := env.svc.Create(student.NewStudent{Name: "B", RollNumber: "R2", TransactionID: "T2", PaymentAccount: "acct"})

	succeeded, failed := env.svc.DeleteBulk([]string{st1.ID, "nope", st2.ID})
	assert.Equal(t, 2, succeeded)
	assert.Equal(t, 1, failed)
}

func TestService_DeleteScreenshot_tombstones(t *testing.T) {
	env := setup(t)

	ns := student.NewStudent{Name: "Asha", RollNumber: "R1", TransactionID: "TX100", PaymentAccount: "acct"}
	st, pmt, err := env.svc.Submit(ns, []byte("img"), "a.png", 5000)
	if err != nil {
		t.Fatalf("Submit(): %v", err)
	}

	if err := env.svc.DeleteScreenshot(pmt.ID); err != nil {
		t.Fatalf("DeleteScreenshot(): %v", err)
	}
	assert.Zero(t, env.assets.Len())

	got, _ := env.payments.GetPaymentByID(pmt.ID)
	assert.Empty(t, got.Screenshot)
	assert.True(t, got.ScreenshotDeleted)
	if assert.NotNil(t, got.ScreenshotDeletedDate) {
		assert.WithinDuration(t, time.Now(), *got.ScreenshotDeletedDate, time.Minute)
	}
	// the fact that one existed survives the purge
	assert.True(t, got.HasScreenshot())

	stGot, _ := env.svc.GetByID(st.ID)
	assert.True(t, stGot.ScreenshotDeleted)
}

func TestService_DeleteScreenshotsBulk(t *testing.T) {
	env := setup(t)

	_, pmt1, err := env.svc.Submit(
		student.NewStudent{Name: "A", RollNumber: "R1", TransactionID: "T1", PaymentAccount: "acct"},
		[]byte("img1"), "a.png", 5000)
	if err != nil {
		t.Fatalf("Submit(): %v", err)
	}
	st2, _, err := env.svc.Submit(
		student.NewStudent{Name: "B", RollNumber: "R2", TransactionID: "T2", PaymentAccount: "acct"},
		[]byte("img2"), "b.png", 5000)
	if err != nil {
		t.Fatalf("Submit(): %v", err)
	}
	if _, err := env.svc.UpdateStatus(st2.ID, core.StatusPaid); err != nil {
		t.Fatalf("UpdateStatus(): %v", err)
	}

	deleted, err := env.svc.DeleteScreenshotsBulk(student.QueryFilter{Status: "Paid"})
	if err != nil {
		t.Fatalf("DeleteScreenshotsBulk(): %v", err)
	}
	assert.Equal(t, 1, deleted)

	// the Pending submission keeps its asset
	got, _ := env.payments.GetPaymentByID(pmt1.ID)
	assert.NotEmpty(t, got.Screenshot)
	assert.Equal(t, 1, env.assets.Len())
}

func TestService_Filter(t *testing.T) {
	env := setup(t)

	st1, _ := env.svc.Create(student.NewStudent{Name: "Asha Rao", RollNumber: "R1", TransactionID: "T1", PaymentAccount: "acct"})
	_, _ = env.svc.CreateByAdmin(student.AdminNewStudent{Name: "Benoit", RollNumber: "R2", Status: core.StatusUnpaid})
	if _, err := env.svc.UpdateStatus(st1.ID, core.StatusPaid); err != nil {
		t.Fatalf("UpdateStatus(): %v", err)
	}

	tests := []struct {
		name   string
		filter student.QueryFilter
		want   int
	}{
		{name: "empty matches all", filter: student.QueryFilter{}, want: 2},
		{name: "All matches all", filter: student.QueryFilter{Status: "All", Provenance: "All", DateBucket: "All"}, want: 2},
		{name: "search by name", filter: student.QueryFilter{Search: "asha"}, want: 1},
		{name: "search by roll", filter: student.QueryFilter{Search: "r2"}, want: 1},
		{name: "search misses", filter: student.QueryFilter{Search: "zzz"}, want: 0},
		{name: "status Paid", filter: student.QueryFilter{Status: "Paid"}, want: 1},
		{name: "added by admin", filter: student.QueryFilter{Provenance: "Admin"}, want: 1},
		{name: "added by student", filter: student.QueryFilter{Provenance: "Student"}, want: 1},
		{name: "today", filter: student.QueryFilter{DateBucket: "Today"}, want: 2},
		{name: "combined", filter: student.QueryFilter{Status: "Paid", Provenance: "Admin"}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := env.svc.Filter(tt.filter)
			if err != nil {
				t.Fatalf("Filter(): %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("len = %d; want %d", len(got), tt.want)
			}
		})
	}
}

func TestInDateBucket(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		ts     time.Time
		bucket string
		want   bool
	}{
		{name: "empty bucket matches", ts: now.AddDate(-1, 0, 0), bucket: "", want: true},
		{name: "All matches", ts: now.AddDate(-1, 0, 0), bucket: "All", want: true},
		{name: "today matches", ts: now.Add(-2 * time.Hour), bucket: "Today", want: true},
		{name: "yesterday is not today", ts: now.AddDate(0, 0, -1), bucket: "Today", want: false},
		{name: "within last 7 days", ts: now.AddDate(0, 0, -6), bucket: "Last 7 Days", want: true},
		{name: "8 days ago excluded", ts: now.AddDate(0, 0, -8), bucket: "Last 7 Days", want: false},
		{name: "same month", ts: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), bucket: "This Month", want: true},
		{name: "previous month", ts: time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), bucket: "This Month", want: false},
		{name: "zero time excluded", ts: time.Time{}, bucket: "Today", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := student.InDateBucket(tt.ts, tt.bucket, now); got != tt.want {
				t.Errorf("InDateBucket() = %v; want %v", got, tt.want)
			}
		})
	}
}
