package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/georgysavva/scany/v2/sqlscan"
	"go.uber.org/zap"

	"prompt-vault/internal/models"
)

const tagFields = `id, name, color, icon, created_at`

const (
	insertTagQuery = `INSERT INTO tags (id, name, color, icon, created_at) VALUES (?, ?, ?, ?, ?)`

	getTagByIDQuery = `
		SELECT t.id, t.name, t.color, t.icon, t.created_at,
		       (SELECT COUNT(*) FROM prompt_tags pt WHERE pt.tag_id = t.id) AS prompt_count
		FROM tags t WHERE t.id = ?
	`
	getTagByNameQuery = `SELECT ` + tagFields + ` FROM tags WHERE name = ?`

	listTagsQuery = `
		SELECT t.id, t.name, t.color, t.icon, t.created_at,
		       (SELECT COUNT(*) FROM prompt_tags pt WHERE pt.tag_id = t.id) AS prompt_count
		FROM tags t ORDER BY t.name ASC
	`

	deleteTagQuery = `DELETE FROM tags WHERE id = ?`

	linkPromptTagQuery    = `INSERT OR IGNORE INTO prompt_tags (prompt_id, tag_id) VALUES (?, ?)`
	unlinkAllPromptQuery  = `DELETE FROM prompt_tags WHERE prompt_id = ?`
	listTagsByPromptQuery = `
		SELECT t.id, t.name, t.color, t.icon, t.created_at
		FROM tags t JOIN prompt_tags pt ON pt.tag_id = t.id
		WHERE pt.prompt_id = ? ORDER BY t.name ASC
	`
)

// TagRepository хранит теги и связи промпт-тег.
type TagRepository struct {
	logger *zap.Logger
}

// NewTagRepository создает новый TagRepository.
func NewTagRepository(logger *zap.Logger) *TagRepository {
	return &TagRepository{logger: logger.Named("TagRepo")}
}

// Insert сохраняет новый тег. Дубликат имени возвращает ErrTagAlreadyExists.
func (r *TagRepository) Insert(ctx context.Context, q DBTX, tag *models.Tag) error {
	_, err := q.ExecContext(ctx, insertTagQuery, tag.ID, tag.Name, tag.Color, tag.Icon, tag.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrTagAlreadyExists
		}
		r.logger.Error("Failed to insert tag", zap.String("name", tag.Name), zap.Error(err))
		return fmt.Errorf("failed to insert tag: %w", err)
	}
	r.logger.Info("Tag created", zap.String("id", tag.ID), zap.String("name", tag.Name))
	return nil
}

// GetByID возвращает тег с количеством привязанных промптов.
func (r *TagRepository) GetByID(ctx context.Context, q DBTX, id string) (*models.TagWithCount, error) {
	var tag models.TagWithCount
	if err := sqlscan.Get(ctx, q, &tag, getTagByIDQuery, id); err != nil {
		if sqlscan.NotFound(err) {
			return nil, models.ErrTagNotFound
		}
		r.logger.Error("Failed to get tag by id", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get tag by id: %w", err)
	}
	return &tag, nil
}

// GetByName возвращает тег по уникальному имени.
func (r *TagRepository) GetByName(ctx context.Context, q DBTX, name string) (*models.Tag, error) {
	var tag models.Tag
	if err := sqlscan.Get(ctx, q, &tag, getTagByNameQuery, name); err != nil {
		if sqlscan.NotFound(err) {
			return nil, models.ErrTagNotFound
		}
		r.logger.Error("Failed to get tag by name", zap.String("name", name), zap.Error(err))
		return nil, fmt.Errorf("failed to get tag by name: %w", err)
	}
	return &tag, nil
}

// ListWithCounts возвращает все теги с количеством промптов, по алфавиту.
func (r *TagRepository) ListWithCounts(ctx context.Context, q DBTX) ([]models.TagWithCount, error) {
	tags := make([]models.TagWithCount, 0)
	if err := sqlscan.Select(ctx, q, &tags, listTagsQuery); err != nil {
		r.logger.Error("Failed to list tags", zap.Error(err))
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// Update применяет частичное обновление тега.
func (r *TagRepository) Update(ctx context.Context, q DBTX, id string, name, color, icon *string) error {
	sets := make([]string, 0, 3)
	var args []interface{}

	if name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *name)
	}
	if color != nil {
		sets = append(sets, "color = ?")
		args = append(args, *color)
	}
	if icon != nil {
		sets = append(sets, "icon = ?")
		args = append(args, *icon)
	}
	if len(sets) == 0 {
		return nil
	}

	query := fmt.Sprintf(`UPDATE tags SET %s WHERE id = ?`, strings.Join(sets, ", "))
	args = append(args, id)

	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrTagAlreadyExists
		}
		r.logger.Error("Failed to update tag", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to update tag: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return models.ErrTagNotFound
	}
	return nil
}

// Delete удаляет тег; связи prompt_tags удаляются каскадно.
func (r *TagRepository) Delete(ctx context.Context, q DBTX, id string) error {
	result, err := q.ExecContext(ctx, deleteTagQuery, id)
	if err != nil {
		r.logger.Error("Failed to delete tag", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return models.ErrTagNotFound
	}
	r.logger.Info("Tag deleted", zap.String("id", id))
	return nil
}

// LinkPrompt привязывает тег к промпту (идемпотентно).
func (r *TagRepository) LinkPrompt(ctx context.Context, q DBTX, promptID, tagID string) error {
	if _, err := q.ExecContext(ctx, linkPromptTagQuery, promptID, tagID); err != nil {
		r.logger.Error("Failed to link tag to prompt",
			zap.String("promptId", promptID), zap.String("tagId", tagID), zap.Error(err))
		return fmt.Errorf("failed to link tag to prompt: %w", err)
	}
	return nil
}

// UnlinkAll удаляет все связи промпта с тегами.
// Используется семантикой полной замены набора тегов при обновлении.
func (r *TagRepository) UnlinkAll(ctx context.Context, q DBTX, promptID string) error {
	if _, err := q.ExecContext(ctx, unlinkAllPromptQuery, promptID); err != nil {
		r.logger.Error("Failed to unlink prompt tags", zap.String("promptId", promptID), zap.Error(err))
		return fmt.Errorf("failed to unlink prompt tags: %w", err)
	}
	return nil
}

// ListByPrompt возвращает теги одного промпта.
func (r *TagRepository) ListByPrompt(ctx context.Context, q DBTX, promptID string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0)
	if err := sqlscan.Select(ctx, q, &tags, listTagsByPromptQuery, promptID); err != nil {
		r.logger.Error("Failed to list tags by prompt", zap.String("promptId", promptID), zap.Error(err))
		return nil, fmt.Errorf("failed to list tags by prompt: %w", err)
	}
	return tags, nil
}

// ListByPrompts возвращает теги для набора промптов одной выборкой.
func (r *TagRepository) ListByPrompts(ctx context.Context, q DBTX, promptIDs []string) (map[string][]models.Tag, error) {
	result := make(map[string][]models.Tag, len(promptIDs))
	if len(promptIDs) == 0 {
		return result, nil
	}

	query := fmt.Sprintf(`
		SELECT pt.prompt_id, t.id, t.name, t.color, t.icon, t.created_at
		FROM tags t JOIN prompt_tags pt ON pt.tag_id = t.id
		WHERE pt.prompt_id IN (%s) ORDER BY t.name ASC`, placeholders(len(promptIDs)))

	args := make([]interface{}, 0, len(promptIDs))
	for _, id := range promptIDs {
		args = append(args, id)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list tags by prompts", zap.Error(err))
		return nil, fmt.Errorf("failed to list tags by prompts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var promptID string
		var tag models.Tag
		if err := rows.Scan(&promptID, &tag.ID, &tag.Name, &tag.Color, &tag.Icon, &tag.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan prompt tag row: %w", err)
		}
		result[promptID] = append(result[promptID], tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}

	return result, nil
}
