package service

import (
	"context"

	"github.com/saccokit/sacco-backoffice/internal/model"
	"github.com/saccokit/sacco-backoffice/internal/repository"
)

// SettingService exposes the organization key/value settings.
type SettingService struct {
	settings *repository.SettingRepository
}

// NewSettingService creates a new SettingService.
func NewSettingService(settings *repository.SettingRepository) *SettingService {
	return &SettingService{settings: settings}
}

// GetSettings lists all settings.
func (s *SettingService) GetSettings(ctx context.Context) ([]model.Setting, error) {
	return s.settings.GetSettings(ctx)
}

// GetSetting returns one setting by key.
func (s *SettingService) GetSetting(ctx context.Context, key string) (model.Setting, error) {
	return s.settings.GetSetting(ctx, key)
}

// UpsertSetting creates or replaces one setting value and returns the
// stored row.
func (s *SettingService) UpsertSetting(ctx context.Context, key, value string) (model.Setting, error) {
	if err := s.settings.UpsertSetting(ctx, key, value); err != nil {
		return model.Setting{}, err
	}
	return s.settings.GetSetting(ctx, key)
}
