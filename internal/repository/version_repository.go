package repository

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/sqlscan"
	"go.uber.org/zap"

	"prompt-vault/internal/models"
)

const versionFields = `id, prompt_id, version_number, content, change_log, created_at`

const (
	insertVersionQuery = `
		INSERT INTO prompt_versions (id, prompt_id, version_number, content, change_log, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	getVersionByIDQuery = `SELECT ` + versionFields + ` FROM prompt_versions WHERE id = ?`

	listVersionsByPromptQuery = `
		SELECT ` + versionFields + ` FROM prompt_versions
		WHERE prompt_id = ? ORDER BY version_number DESC
	`
	listRecentVersionsQuery = `
		SELECT ` + versionFields + ` FROM prompt_versions
		WHERE prompt_id = ? ORDER BY created_at DESC LIMIT ?
	`
	maxVersionNumberQuery = `
		SELECT COALESCE(MAX(version_number), 0) FROM prompt_versions WHERE prompt_id = ?
	`
)

// VersionRepository хранит версии промптов. Версии никогда не обновляются
// и не удаляются: история строго append-only.
type VersionRepository struct {
	logger *zap.Logger
}

// NewVersionRepository создает новый VersionRepository.
func NewVersionRepository(logger *zap.Logger) *VersionRepository {
	return &VersionRepository{logger: logger.Named("VersionRepo")}
}

// Insert сохраняет новую версию.
func (r *VersionRepository) Insert(ctx context.Context, q DBTX, v *models.PromptVersion) error {
	_, err := q.ExecContext(ctx, insertVersionQuery,
		v.ID, v.PromptID, v.VersionNumber, v.Content, v.ChangeLog, v.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to insert version",
			zap.String("promptId", v.PromptID), zap.Int64("versionNumber", v.VersionNumber), zap.Error(err))
		return fmt.Errorf("failed to insert version: %w", err)
	}
	return nil
}

// GetByID возвращает версию по идентификатору.
func (r *VersionRepository) GetByID(ctx context.Context, q DBTX, id string) (*models.PromptVersion, error) {
	var v models.PromptVersion
	if err := sqlscan.Get(ctx, q, &v, getVersionByIDQuery, id); err != nil {
		if sqlscan.NotFound(err) {
			return nil, models.ErrVersionNotFound
		}
		r.logger.Error("Failed to get version by id", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get version by id: %w", err)
	}
	return &v, nil
}

// ListByPrompt возвращает все версии промпта по убыванию номера.
func (r *VersionRepository) ListByPrompt(ctx context.Context, q DBTX, promptID string) ([]models.PromptVersion, error) {
	versions := make([]models.PromptVersion, 0)
	if err := sqlscan.Select(ctx, q, &versions, listVersionsByPromptQuery, promptID); err != nil {
		r.logger.Error("Failed to list versions", zap.String("promptId", promptID), zap.Error(err))
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	return versions, nil
}

// ListRecent возвращает последние версии промпта (для детального ответа).
func (r *VersionRepository) ListRecent(ctx context.Context, q DBTX, promptID string, limit int) ([]models.PromptVersion, error) {
	versions := make([]models.PromptVersion, 0)
	if err := sqlscan.Select(ctx, q, &versions, listRecentVersionsQuery, promptID, limit); err != nil {
		r.logger.Error("Failed to list recent versions", zap.String("promptId", promptID), zap.Error(err))
		return nil, fmt.Errorf("failed to list recent versions: %w", err)
	}
	return versions, nil
}

// MaxVersionNumber возвращает максимальный номер версии промпта (0, если версий нет).
func (r *VersionRepository) MaxVersionNumber(ctx context.Context, q DBTX, promptID string) (int64, error) {
	var max int64
	if err := q.QueryRowContext(ctx, maxVersionNumberQuery, promptID).Scan(&max); err != nil {
		r.logger.Error("Failed to get max version number", zap.String("promptId", promptID), zap.Error(err))
		return 0, fmt.Errorf("failed to get max version number: %w", err)
	}
	return max, nil
}
