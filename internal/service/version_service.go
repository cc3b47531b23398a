package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"prompt-vault/internal/models"
	"prompt-vault/internal/repository"
)

const changeLogNoDescription = "No description"

// VersionService управляет историей версий промптов.
type VersionService struct {
	db          repository.DBTX
	txHelper    *repository.TransactionHelper
	versionRepo *repository.VersionRepository
	promptRepo  *repository.PromptRepository
	logger      *zap.Logger
}

// NewVersionService создает новый VersionService.
func NewVersionService(
	db repository.DBTX,
	txHelper *repository.TransactionHelper,
	versionRepo *repository.VersionRepository,
	promptRepo *repository.PromptRepository,
	logger *zap.Logger,
) *VersionService {
	return &VersionService{
		db:          db,
		txHelper:    txHelper,
		versionRepo: versionRepo,
		promptRepo:  promptRepo,
		logger:      logger.Named("VersionService"),
	}
}

// GetByID возвращает версию вместе с владеющим промптом.
func (s *VersionService) GetByID(ctx context.Context, id string) (*models.PromptVersionWithPrompt, error) {
	version, err := s.versionRepo.GetByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	result := &models.PromptVersionWithPrompt{PromptVersion: *version}
	prompt, err := s.promptRepo.GetByID(ctx, s.db, version.PromptID)
	if err == nil {
		result.Prompt = prompt
	} else if !errors.Is(err, models.ErrPromptNotFound) {
		return nil, err
	}
	return result, nil
}

// ListByPrompt возвращает все версии промпта (новые первыми).
// Для неизвестного промпта возвращается пустой список.
func (s *VersionService) ListByPrompt(ctx context.Context, promptID string) ([]models.PromptVersion, error) {
	return s.versionRepo.ListByPrompt(ctx, s.db, promptID)
}

// Create сохраняет новую версию вручную. Номер выбирается как max+1
// внутри транзакции, поэтому нумерация без пропусков и дубликатов.
func (s *VersionService) Create(ctx context.Context, promptID string, in models.CreateVersionInput) (*models.PromptVersion, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, ErrContentRequired
	}

	changeLog := changeLogNoDescription
	if in.ChangeLog != nil && strings.TrimSpace(*in.ChangeLog) != "" {
		changeLog = *in.ChangeLog
	}

	var version *models.PromptVersion
	err := s.txHelper.WithTransaction(ctx, func(ctx context.Context, tx repository.DBTX) error {
		if _, err := s.promptRepo.GetByID(ctx, tx, promptID); err != nil {
			return err
		}
		max, err := s.versionRepo.MaxVersionNumber(ctx, tx, promptID)
		if err != nil {
			return err
		}

		version = &models.PromptVersion{
			ID:            uuid.NewString(),
			PromptID:      promptID,
			VersionNumber: max + 1,
			Content:       in.Content,
			ChangeLog:     &changeLog,
			CreatedAt:     time.Now().UTC(),
		}
		return s.versionRepo.Insert(ctx, tx, version)
	})
	if err != nil {
		return nil, err
	}
	return version, nil
}

// Restore возвращает промпт к содержимому указанной версии и записывает
// это как новую версию с пометкой об источнике. Исходная версия не меняется.
func (s *VersionService) Restore(ctx context.Context, versionID string) (*models.PromptVersion, error) {
	var restored *models.PromptVersion

	err := s.txHelper.WithTransaction(ctx, func(ctx context.Context, tx repository.DBTX) error {
		source, err := s.versionRepo.GetByID(ctx, tx, versionID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		content := source.Content
		if err := s.promptRepo.UpdateScalars(ctx, tx, source.PromptID, models.UpdatePromptInput{Content: &content}, now); err != nil {
			return err
		}

		max, err := s.versionRepo.MaxVersionNumber(ctx, tx, source.PromptID)
		if err != nil {
			return err
		}

		changeLog := fmt.Sprintf("Restored from version %d", source.VersionNumber)
		restored = &models.PromptVersion{
			ID:            uuid.NewString(),
			PromptID:      source.PromptID,
			VersionNumber: max + 1,
			Content:       source.Content,
			ChangeLog:     &changeLog,
			CreatedAt:     now,
		}
		return s.versionRepo.Insert(ctx, tx, restored)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Version restored",
		zap.String("versionId", versionID),
		zap.String("promptId", restored.PromptID),
		zap.Int64("newVersion", restored.VersionNumber))
	return restored, nil
}
