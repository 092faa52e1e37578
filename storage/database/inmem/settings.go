package inmemdb

import (
	"github.com/trezcool/elimu/core/settings"
)

type settingsRepository struct {
	db *DB
}

var _ settings.Repository = (*settingsRepository)(nil) // interface compliance check

func NewSettingsRepository(db *DB) settings.Repository {
	return &settingsRepository{db: db}
}

func (repo *settingsRepository) GetSetting(key string) (settings.Setting, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if s, ok := repo.db.settings[key]; ok {
		return *s, nil
	}
	return settings.Setting{}, settings.ErrNotFound
}

func (repo *settingsRepository) SetSetting(s settings.Setting) (settings.Setting, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.settings[s.Key]; !ok {
		repo.db.keyOrder = append(repo.db.keyOrder, s.Key)
	}
	repo.db.settings[s.Key] = &s
	return s, nil
}

func (repo *settingsRepository) QueryAllSettings() ([]settings.Setting, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	all := make([]settings.Setting, 0, len(repo.db.keyOrder))
	for _, key := range repo.db.keyOrder {
		all = append(all, *repo.db.settings[key])
	}
	return all, nil
}
