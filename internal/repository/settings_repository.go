package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"
	"go.uber.org/zap"

	"prompt-vault/internal/models"
)

const (
	getSettingQuery  = `SELECT key, value, updated_at FROM app_settings WHERE key = ?`
	listSettingsQuery = `SELECT key, value, updated_at FROM app_settings ORDER BY key`

	upsertSettingQuery = `
		INSERT INTO app_settings (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`
)

// SettingsRepository хранит настройки приложения (ключ -> JSON-строка).
type SettingsRepository struct {
	logger *zap.Logger
}

// NewSettingsRepository создает новый SettingsRepository.
func NewSettingsRepository(logger *zap.Logger) *SettingsRepository {
	return &SettingsRepository{logger: logger.Named("SettingsRepo")}
}

// Get возвращает настройку по ключу.
func (r *SettingsRepository) Get(ctx context.Context, q DBTX, key string) (*models.AppSetting, error) {
	var s models.AppSetting
	if err := sqlscan.Get(ctx, q, &s, getSettingQuery, key); err != nil {
		if sqlscan.NotFound(err) {
			return nil, models.ErrSettingNotFound
		}
		r.logger.Error("Failed to get setting", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("failed to get setting: %w", err)
	}
	return &s, nil
}

// List возвращает все настройки.
func (r *SettingsRepository) List(ctx context.Context, q DBTX) ([]models.AppSetting, error) {
	settings := make([]models.AppSetting, 0)
	if err := sqlscan.Select(ctx, q, &settings, listSettingsQuery); err != nil {
		r.logger.Error("Failed to list settings", zap.Error(err))
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	return settings, nil
}

// Upsert вставляет или обновляет настройку по ключу.
func (r *SettingsRepository) Upsert(ctx context.Context, q DBTX, key, value string, now time.Time) error {
	if _, err := q.ExecContext(ctx, upsertSettingQuery, key, value, now); err != nil {
		r.logger.Error("Failed to upsert setting", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to upsert setting: %w", err)
	}
	return nil
}
