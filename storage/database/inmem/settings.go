package inmemdb

import (
	"context"

	"github.com/LionGab/sistema-disciplinar-jupiara/core/settings"
)

type settingsRepository struct {
	db *DB
}

var _ settings.Repository = (*settingsRepository)(nil) // interface compliance check

func NewSettingsRepository(db *DB) *settingsRepository {
	return &settingsRepository{db: db}
}

func (repo *settingsRepository) GetSettings(ctx context.Context) (settings.Settings, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if repo.db.settings == nil {
		return settings.Settings{}, settings.ErrNotFound
	}
	return *repo.db.settings, nil
}

func (repo *settingsRepository) SaveSettings(ctx context.Context, s settings.Settings, prevVersion int) (settings.Settings, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	stored := 0
	if repo.db.settings != nil {
		stored = repo.db.settings.Version
	}
	if stored != prevVersion {
		return settings.Settings{}, settings.ErrStaleVersion
	}
	repo.db.settings = &s
	return s, nil
}
