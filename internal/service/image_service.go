package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"prompt-vault/internal/models"
	"prompt-vault/internal/repository"
	"prompt-vault/internal/storage"
)

// ImageService управляет изображениями промптов: файлами на диске
// и их метаданными в БД.
type ImageService struct {
	db         repository.DBTX
	imageRepo  *repository.ImageRepository
	promptRepo *repository.PromptRepository
	storage    *storage.FileStorage
	logger     *zap.Logger
}

// NewImageService создает новый ImageService.
func NewImageService(
	db repository.DBTX,
	imageRepo *repository.ImageRepository,
	promptRepo *repository.PromptRepository,
	storage *storage.FileStorage,
	logger *zap.Logger,
) *ImageService {
	return &ImageService{
		db:         db,
		imageRepo:  imageRepo,
		promptRepo: promptRepo,
		storage:    storage,
		logger:     logger.Named("ImageService"),
	}
}

// Upload валидирует и сохраняет изображение для промпта.
// Загрузка в удаленный промпт отклоняется: файлы не должны
// накапливаться у скрытых из списков записей.
func (s *ImageService) Upload(ctx context.Context, promptID, filename, mimeType string, data []byte) (*models.PromptImage, error) {
	prompt, err := s.promptRepo.GetByID(ctx, s.db, promptID)
	if err != nil {
		return nil, err
	}
	if prompt.DeletedAt != nil {
		return nil, models.ErrPromptNotFound
	}

	saved, err := s.storage.SaveImage(data, storage.SanitizeFilename(filename), mimeType)
	if err != nil {
		return nil, err
	}

	img := &models.PromptImage{
		ID:         uuid.NewString(),
		PromptID:   promptID,
		Filename:   storage.SanitizeFilename(filename),
		StoredName: saved.StoredName,
		MimeType:   mimeType,
		Size:       int64(saved.Metadata.Size),
		Path:       saved.Path,
		Thumbnail:  saved.Thumbnail,
		Width:      int64(saved.Metadata.Width),
		Height:     int64(saved.Metadata.Height),
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.imageRepo.Insert(ctx, s.db, img); err != nil {
		// Метаданные не записались - файлы на диске не нужны
		s.storage.DeleteImage(saved.Path, saved.Thumbnail)
		return nil, err
	}

	s.logger.Info("Image uploaded",
		zap.String("promptId", promptID),
		zap.String("imageId", img.ID),
		zap.String("storedName", img.StoredName))
	return img, nil
}

// ListByPrompt возвращает изображения промпта (новые первыми).
func (s *ImageService) ListByPrompt(ctx context.Context, promptID string) ([]models.PromptImage, error) {
	if _, err := s.promptRepo.GetByID(ctx, s.db, promptID); err != nil {
		return nil, err
	}
	return s.imageRepo.ListByPrompt(ctx, s.db, promptID)
}

// Delete удаляет запись об изображении и его файлы.
// Файлы удаляются best-effort после успешного удаления строки.
func (s *ImageService) Delete(ctx context.Context, id string) error {
	img, err := s.imageRepo.GetByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if err := s.imageRepo.Delete(ctx, s.db, id); err != nil {
		return err
	}
	s.storage.DeleteImage(img.Path, img.Thumbnail)
	return nil
}
