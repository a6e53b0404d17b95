package jsondb

import (
	"os"

	"github.com/paycollect/paycollect/core/admin"
)

type adminRepository struct {
	db *DB
}

func NewAdminRepository(db *DB) admin.Repository {
	return &adminRepository{db: db}
}

// LoadSettings seeds and persists the defaults when the configuration
// document does not exist yet; an unreadable document degrades to defaults
// without persisting over it.
func (repo *adminRepository) LoadSettings() (admin.Settings, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, err := os.Stat(repo.db.path(adminFile)); os.IsNotExist(err) {
		settings := admin.DefaultSettings()
		if err := repo.db.save(adminFile, settings); err != nil {
			return admin.Settings{}, err
		}
		return settings, nil
	}

	settings := admin.DefaultSettings()
	repo.db.load(adminFile, &settings)
	return settings, nil
}

func (repo *adminRepository) SaveSettings(settings admin.Settings) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	return repo.db.save(adminFile, settings)
}

func (repo *adminRepository) LoadInstructions() (string, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	instructions := "Default instructions will appear here."
	repo.db.load(instructionsFile, &instructions)
	return instructions, nil
}

func (repo *adminRepository) SaveInstructions(text string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	return repo.db.save(instructionsFile, text)
}
