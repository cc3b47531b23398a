package repository

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/sqlscan"
	"go.uber.org/zap"

	"prompt-vault/internal/models"
)

const imageFields = `id, prompt_id, filename, stored_name, mime_type, size, path, thumbnail, width, height, created_at`

const (
	insertImageQuery = `
		INSERT INTO prompt_images (id, prompt_id, filename, stored_name, mime_type, size, path, thumbnail, width, height, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	getImageByIDQuery = `SELECT ` + imageFields + ` FROM prompt_images WHERE id = ?`

	listImagesByPromptQuery = `
		SELECT ` + imageFields + ` FROM prompt_images
		WHERE prompt_id = ? ORDER BY created_at DESC
	`
	deleteImageQuery = `DELETE FROM prompt_images WHERE id = ?`
)

// ImageRepository хранит метаданные загруженных изображений.
type ImageRepository struct {
	logger *zap.Logger
}

// NewImageRepository создает новый ImageRepository.
func NewImageRepository(logger *zap.Logger) *ImageRepository {
	return &ImageRepository{logger: logger.Named("ImageRepo")}
}

// Insert сохраняет метаданные изображения.
func (r *ImageRepository) Insert(ctx context.Context, q DBTX, img *models.PromptImage) error {
	_, err := q.ExecContext(ctx, insertImageQuery,
		img.ID, img.PromptID, img.Filename, img.StoredName, img.MimeType,
		img.Size, img.Path, img.Thumbnail, img.Width, img.Height, img.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to insert image", zap.String("promptId", img.PromptID), zap.Error(err))
		return fmt.Errorf("failed to insert image: %w", err)
	}
	return nil
}

// GetByID возвращает метаданные изображения.
func (r *ImageRepository) GetByID(ctx context.Context, q DBTX, id string) (*models.PromptImage, error) {
	var img models.PromptImage
	if err := sqlscan.Get(ctx, q, &img, getImageByIDQuery, id); err != nil {
		if sqlscan.NotFound(err) {
			return nil, models.ErrImageNotFound
		}
		r.logger.Error("Failed to get image by id", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get image by id: %w", err)
	}
	return &img, nil
}

// ListByPrompt возвращает изображения промпта (новые первыми).
func (r *ImageRepository) ListByPrompt(ctx context.Context, q DBTX, promptID string) ([]models.PromptImage, error) {
	images := make([]models.PromptImage, 0)
	if err := sqlscan.Select(ctx, q, &images, listImagesByPromptQuery, promptID); err != nil {
		r.logger.Error("Failed to list images", zap.String("promptId", promptID), zap.Error(err))
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	return images, nil
}

// Delete удаляет строку изображения из БД.
func (r *ImageRepository) Delete(ctx context.Context, q DBTX, id string) error {
	result, err := q.ExecContext(ctx, deleteImageQuery, id)
	if err != nil {
		r.logger.Error("Failed to delete image", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete image: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return models.ErrImageNotFound
	}
	return nil
}
