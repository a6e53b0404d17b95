package screenshot

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/paycollect/paycollect/core"
	"github.com/paycollect/paycollect/core/admin"
)

var (
	// errors
	ErrNotFound     = errors.New("screenshot not found")
	ErrSizeExceeded = errors.New("file size exceeds the configured limit")
)

type (
	// Storage abstracts the underlying asset store.
	Storage interface {
		Save(name string, data []byte) error
		Read(name string) ([]byte, error)
		// Remove deletes the asset if present and reports whether it existed.
		Remove(name string) (bool, error)
	}

	// PolicySource yields the live upload policy; read at call time, never cached.
	PolicySource interface {
		ScreenshotPolicy() (admin.ScreenshotSettings, error)
	}

	Manager struct {
		store  Storage
		policy PolicySource
	}
)

func NewManager(store Storage, policy PolicySource) *Manager {
	return &Manager{store: store, policy: policy}
}

// Store writes an uploaded screenshot keyed by the owning student.
// The generated filename embeds the student id and a fresh unique suffix.
// Nothing is written when the size limit is exceeded.
func (m *Manager) Store(data []byte, studentID, originalName string) (string, error) {
	policy, err := m.policy.ScreenshotPolicy()
	if err != nil {
		return "", err
	}
	maxBytes := policy.MaxFileSizeMB * 1024 * 1024
	if len(data) > maxBytes {
		return "", core.NewValidationError(ErrSizeExceeded, core.FieldError{
			Field: "screenshot",
			Error: fmt.Sprintf("file size exceeds maximum allowed size of %dMB", policy.MaxFileSizeMB),
		})
	}

	name := fmt.Sprintf("%s_%s%s", studentID, uuid.New().String(), ext(originalName))
	if err := m.store.Save(name, data); err != nil {
		return "", err
	}
	return name, nil
}

// Retrieve returns the asset bytes, or ErrNotFound when absent.
func (m *Manager) Retrieve(name string) ([]byte, error) {
	return m.store.Read(name)
}

// Delete removes the underlying asset; absent assets report false, not an error.
func (m *Manager) Delete(name string) bool {
	if name == "" {
		return false
	}
	ok, err := m.store.Remove(name)
	if err != nil {
		return false
	}
	return ok
}

func ext(name string) string {
	e := strings.ToLower(filepath.Ext(name))
	if e == "" {
		e = ".png"
	}
	return e
}

// IsSizeExceeded reports whether err wraps the upload size limit rejection.
func IsSizeExceeded(err error) bool {
	if errors.Is(err, ErrSizeExceeded) {
		return true
	}
	var vErr *core.ValidationError
	if errors.As(err, &vErr) {
		return errors.Is(vErr.Err, ErrSizeExceeded)
	}
	return false
}
