package fsstore

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/paycollect/paycollect/core/screenshot"
)

// Store keeps screenshot binaries as flat files under a single directory.
type Store struct {
	dir string
}

var _ screenshot.Storage = (*Store)(nil)

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating uploads dir %s", dir)
	}
	return &Store{dir: dir}, nil
}

// path confines name to the store directory.
func (s *Store) path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

func (s *Store) Save(name string, data []byte) error {
	return errors.Wrapf(os.WriteFile(s.path(name), data, 0o644), "writing asset %s", name)
}

func (s *Store) Read(name string) ([]byte, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, screenshot.ErrNotFound
		}
		return nil, errors.Wrapf(err, "reading asset %s", name)
	}
	return data, nil
}

func (s *Store) Remove(name string) (bool, error) {
	if err := os.Remove(s.path(name)); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, "removing asset %s", name)
	}
	return true, nil
}
