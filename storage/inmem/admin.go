package inmemdb

import (
	"github.com/paycollect/paycollect/core/admin"
)

type adminRepository struct {
	db *configTable
}

func NewAdminRepository(db *DB) admin.Repository {
	return &adminRepository{db: db.config}
}

func (repo *adminRepository) LoadSettings() (admin.Settings, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.db.settings, nil
}

func (repo *adminRepository) SaveSettings(settings admin.Settings) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.settings = settings
	return nil
}

func (repo *adminRepository) LoadInstructions() (string, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.db.instructions, nil
}

func (repo *adminRepository) SaveInstructions(text string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.instructions = text
	return nil
}
