package jsondb

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// Document names backing the four persisted collections.
const (
	studentsFile     = "students.json"
	paymentsFile     = "payments.json"
	adminFile        = "admin.json"
	instructionsFile = "instructions.json"
)

// DB is a whole-document JSON file store: every read reloads the backing
// file and every write rewrites it in full. Writes go through a temp file
// and rename so no partial write is ever observed; across processes the
// semantics stay last-write-wins.
type DB struct {
	dir string
	mu  sync.Mutex
}

func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating data dir %s", dir)
	}
	return &DB{dir: dir}, nil
}

func (db *DB) path(name string) string {
	return filepath.Join(db.dir, name)
}

// load decodes the named document into v. An absent or unreadable document
// silently leaves v at the caller-supplied default.
func (db *DB) load(name string, v interface{}) {
	data, err := os.ReadFile(db.path(name))
	if err != nil {
		return
	}
	_ = json.Unmarshal(data, v)
}

// save rewrites the named document atomically from the caller's point of view.
func (db *DB) save(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "encoding %s", name)
	}

	tmp, err := os.CreateTemp(db.dir, name+".tmp-*")
	if err != nil {
		return errors.Wrapf(err, "creating temp file for %s", name)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "writing %s", name)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", name)
	}
	return errors.Wrapf(os.Rename(tmp.Name(), db.path(name)), "replacing %s", name)
}
