package screenshot_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/paycollect/paycollect/core"
	"github.com/paycollect/paycollect/core/admin"
	"github.com/paycollect/paycollect/core/screenshot"
	inmemdb "github.com/paycollect/paycollect/storage/inmem"
)

func setup(t *testing.T) (*screenshot.Manager, *inmemdb.AssetStore, *admin.Service) {
	t.Helper()

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open(): %v", err)
	}
	validate, _ := core.NewValidator()
	adminSvc := admin.NewService(inmemdb.NewAdminRepository(db), validate)
	store := inmemdb.NewAssetStore()
	return screenshot.NewManager(store, adminSvc), store, adminSvc
}

func TestManager_StoreRetrieve(t *testing.T) {
	mgr, store, _ := setup(t)

	name, err := mgr.Store([]byte("image bytes"), "stu-1", "receipt.JPG")
	if err != nil {
		t.Fatalf("Store(): %v", err)
	}
	if !strings.HasPrefix(name, "stu-1_") {
		t.Errorf("name = %q; want student id prefix", name)
	}
	if !strings.HasSuffix(name, ".jpg") {
		t.Errorf("name = %q; want lowercased extension", name)
	}
	assert.Equal(t, 1, store.Len())

	data, err := mgr.Retrieve(name)
	if err != nil {
		t.Fatalf("Retrieve(): %v", err)
	}
	assert.Equal(t, []byte("image bytes"), data)
}

func TestManager_Store_defaultExtension(t *testing.T) {
	mgr, _, _ := setup(t)

	name, err := mgr.Store([]byte("x"), "stu-1", "noext")
	if err != nil {
		t.Fatalf("Store(): %v", err)
	}
	assert.True(t, strings.HasSuffix(name, ".png"), "name = %q", name)
}

func TestManager_Store_uniqueNames(t *testing.T) {
	mgr, _, _ := setup(t)

	n1, err := mgr.Store([]byte("a"), "stu-1", "shot.png")
	if err != nil {
		t.Fatalf("Store(): %v", err)
	}
	n2, err := mgr.Store([]byte("b"), "stu-1", "shot.png")
	if err != nil {
		t.Fatalf("Store(): %v", err)
	}
	assert.NotEqual(t, n1, n2)
}

func TestManager_Store_sizeLimit(t *testing.T) {
	mgr, store, adminSvc := setup(t)

	// default policy caps at 5MB
	_, err := mgr.Store(make([]byte, 5*1024*1024+1), "stu-1", "big.png")
	if !screenshot.IsSizeExceeded(err) {
		t.Fatalf("Store() err = %v; want size exceeded", err)
	}
	assert.Zero(t, store.Len())

	// exactly at the limit passes
	if _, err := mgr.Store(make([]byte, 5*1024*1024), "stu-1", "max.png"); err != nil {
		t.Fatalf("Store() at limit: %v", err)
	}

	// the policy is read live, not cached
	if _, err := adminSvc.UpdateScreenshotSettings(admin.ScreenshotSettings{MaxFileSizeMB: 1}); err != nil {
		t.Fatalf("UpdateScreenshotSettings(): %v", err)
	}
	if _, err := mgr.Store(make([]byte, 2*1024*1024), "stu-1", "now-too-big.png"); !screenshot.IsSizeExceeded(err) {
		t.Fatalf("Store() err = %v; want size exceeded after policy change", err)
	}
}

func TestManager_Delete(t *testing.T) {
	mgr, store, _ := setup(t)

	name, err := mgr.Store([]byte("x"), "stu-1", "shot.png")
	if err != nil {
		t.Fatalf("Store(): %v", err)
	}

	assert.True(t, mgr.Delete(name))
	assert.Zero(t, store.Len())

	// deleting twice is harmless
	assert.False(t, mgr.Delete(name))
	assert.False(t, mgr.Delete(""))
}

func TestManager_Retrieve_notFound(t *testing.T) {
	mgr, _, _ := setup(t)

	if _, err := mgr.Retrieve("ghost.png"); err != screenshot.ErrNotFound {
		t.Fatalf("Retrieve() err = %v; want %v", err, screenshot.ErrNotFound)
	}
}
