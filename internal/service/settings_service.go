package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"prompt-vault/internal/models"
	"prompt-vault/internal/repository"
)

// SettingsService хранит настройки приложения как JSON-значения по ключу.
type SettingsService struct {
	db           repository.DBTX
	settingsRepo *repository.SettingsRepository
	logger       *zap.Logger
}

// NewSettingsService создает новый SettingsService.
func NewSettingsService(db repository.DBTX, settingsRepo *repository.SettingsRepository, logger *zap.Logger) *SettingsService {
	return &SettingsService{
		db:           db,
		settingsRepo: settingsRepo,
		logger:       logger.Named("SettingsService"),
	}
}

// GetAll возвращает все настройки как карту ключ -> декодированное значение.
// Значения, которые не распаковываются как JSON, отдаются сырой строкой.
func (s *SettingsService) GetAll(ctx context.Context) (map[string]interface{}, error) {
	settings, err := s.settingsRepo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}

	result := make(map[string]interface{}, len(settings))
	for _, setting := range settings {
		var decoded interface{}
		if err := json.Unmarshal([]byte(setting.Value), &decoded); err != nil {
			decoded = setting.Value
		}
		result[setting.Key] = decoded
	}
	return result, nil
}

// Get возвращает одну настройку по ключу.
func (s *SettingsService) Get(ctx context.Context, key string) (*models.AppSetting, error) {
	return s.settingsRepo.Get(ctx, s.db, key)
}

// Set записывает настройку, кодируя значение в JSON. Существующий ключ
// перезаписывается.
func (s *SettingsService) Set(ctx context.Context, key string, value interface{}) (*models.AppSetting, error) {
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("%w: key is required", models.ErrInvalidInput)
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode setting value: %w", err)
	}

	now := time.Now().UTC()
	if err := s.settingsRepo.Upsert(ctx, s.db, key, string(encoded), now); err != nil {
		return nil, err
	}

	s.logger.Info("Setting updated", zap.String("key", key))
	return &models.AppSetting{Key: key, Value: string(encoded), UpdatedAt: now}, nil
}
