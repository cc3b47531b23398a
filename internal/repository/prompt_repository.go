package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"
	"go.uber.org/zap"

	"prompt-vault/internal/models"
)

const promptFields = `id, title, description, content, type, language, usage_count, last_used_at, created_at, updated_at, deleted_at`

const (
	insertPromptQuery = `
		INSERT INTO prompts (id, title, description, content, type, language, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	getPromptByIDQuery = `SELECT ` + promptFields + ` FROM prompts WHERE id = ?`

	softDeletePromptQuery = `UPDATE prompts SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`

	incrementPromptUsageQuery = `
		UPDATE prompts SET usage_count = usage_count + 1, last_used_at = ? WHERE id = ?
	`
)

// PromptRepository хранит промпты в SQLite.
type PromptRepository struct {
	logger *zap.Logger
}

// NewPromptRepository создает новый PromptRepository.
func NewPromptRepository(logger *zap.Logger) *PromptRepository {
	return &PromptRepository{logger: logger.Named("PromptRepo")}
}

// Insert сохраняет новый промпт.
func (r *PromptRepository) Insert(ctx context.Context, q DBTX, p *models.Prompt) error {
	_, err := q.ExecContext(ctx, insertPromptQuery,
		p.ID, p.Title, p.Description, p.Content, p.Type, p.Language, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to insert prompt", zap.String("id", p.ID), zap.Error(err))
		return fmt.Errorf("failed to insert prompt: %w", err)
	}
	return nil
}

// GetByID возвращает промпт по идентификатору.
// Мягко удаленные промпты здесь НЕ отфильтровываются: они остаются
// адресуемыми ради истории версий.
func (r *PromptRepository) GetByID(ctx context.Context, q DBTX, id string) (*models.Prompt, error) {
	var p models.Prompt
	if err := sqlscan.Get(ctx, q, &p, getPromptByIDQuery, id); err != nil {
		if sqlscan.NotFound(err) {
			return nil, models.ErrPromptNotFound
		}
		r.logger.Error("Failed to get prompt by id", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get prompt by id: %w", err)
	}
	return &p, nil
}

// List возвращает страницу не удаленных промптов по фильтрам вместе с общим количеством.
// Поле сортировки к этому моменту уже провалидировано сервисным слоем.
func (r *PromptRepository) List(ctx context.Context, q DBTX, f models.SearchFilters) ([]models.Prompt, int64, error) {
	where, args := buildPromptFilter(f)

	sortColumn, ok := models.SortableFields[f.SortBy]
	if !ok {
		sortColumn = "updated_at"
	}
	direction := "DESC"
	if f.SortOrder == models.SortAsc {
		direction = "ASC"
	}

	listQuery := fmt.Sprintf(`SELECT %s FROM prompts %s ORDER BY %s %s LIMIT ? OFFSET ?`,
		promptFields, where, sortColumn, direction)
	listArgs := append(append([]interface{}{}, args...), f.Limit, f.Offset)

	prompts := make([]models.Prompt, 0)
	if err := sqlscan.Select(ctx, q, &prompts, listQuery, listArgs...); err != nil {
		r.logger.Error("Failed to list prompts", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list prompts: %w", err)
	}

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM prompts %s`, where)
	if err := q.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.Error("Failed to count prompts", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count prompts: %w", err)
	}

	return prompts, total, nil
}

// UpdateScalars применяет частичное обновление скалярных полей.
// nil-поля не трогаются; updated_at обновляется всегда.
func (r *PromptRepository) UpdateScalars(ctx context.Context, q DBTX, id string, in models.UpdatePromptInput, now time.Time) error {
	sets := []string{"updated_at = ?"}
	args := []interface{}{now}

	if in.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *in.Title)
	}
	if in.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *in.Description)
	}
	if in.Content != nil {
		sets = append(sets, "content = ?")
		args = append(args, *in.Content)
	}
	if in.Type != nil {
		sets = append(sets, "type = ?")
		args = append(args, *in.Type)
	}
	if in.Language != nil {
		sets = append(sets, "language = ?")
		args = append(args, *in.Language)
	}

	query := fmt.Sprintf(`UPDATE prompts SET %s WHERE id = ?`, strings.Join(sets, ", "))
	args = append(args, id)

	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to update prompt", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to update prompt: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return models.ErrPromptNotFound
	}
	return nil
}

// SoftDelete помечает промпт удаленным через deleted_at, не трогая потомков.
func (r *PromptRepository) SoftDelete(ctx context.Context, q DBTX, id string, now time.Time) error {
	result, err := q.ExecContext(ctx, softDeletePromptQuery, now, now, id)
	if err != nil {
		r.logger.Error("Failed to soft delete prompt", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to soft delete prompt: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return models.ErrPromptNotFound
	}
	r.logger.Info("Prompt soft deleted", zap.String("id", id))
	return nil
}

// IncrementUsage увеличивает счетчик использований и обновляет last_used_at.
func (r *PromptRepository) IncrementUsage(ctx context.Context, q DBTX, id string, now time.Time) error {
	result, err := q.ExecContext(ctx, incrementPromptUsageQuery, now, id)
	if err != nil {
		r.logger.Error("Failed to increment prompt usage", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to increment prompt usage: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return models.ErrPromptNotFound
	}
	return nil
}

// CountRelations возвращает количество версий и запусков для набора промптов.
func (r *PromptRepository) CountRelations(ctx context.Context, q DBTX, ids []string) (map[string]models.PromptCounts, error) {
	counts := make(map[string]models.PromptCounts, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	args := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}

	versionQuery := fmt.Sprintf(
		`SELECT prompt_id, COUNT(*) FROM prompt_versions WHERE prompt_id IN (%s) GROUP BY prompt_id`,
		placeholders(len(ids)))
	if err := r.scanCounts(ctx, q, versionQuery, args, func(id string, n int64) {
		c := counts[id]
		c.Versions = n
		counts[id] = c
	}); err != nil {
		return nil, fmt.Errorf("failed to count versions: %w", err)
	}

	executionQuery := fmt.Sprintf(
		`SELECT prompt_id, COUNT(*) FROM executions WHERE prompt_id IN (%s) GROUP BY prompt_id`,
		placeholders(len(ids)))
	if err := r.scanCounts(ctx, q, executionQuery, args, func(id string, n int64) {
		c := counts[id]
		c.Executions = n
		counts[id] = c
	}); err != nil {
		return nil, fmt.Errorf("failed to count executions: %w", err)
	}

	return counts, nil
}

func (r *PromptRepository) scanCounts(ctx context.Context, q DBTX, query string, args []interface{}, apply func(id string, n int64)) error {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query relation counts", zap.Error(err))
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var n int64
		if err := rows.Scan(&id, &n); err != nil {
			return err
		}
		apply(id, n)
	}
	return rows.Err()
}

// buildPromptFilter собирает WHERE-условие для списков и поиска.
// Пустые срезы означают отсутствие фильтра.
func buildPromptFilter(f models.SearchFilters) (string, []interface{}) {
	conditions := []string{"deleted_at IS NULL"}
	var args []interface{}

	if len(f.Types) > 0 {
		conditions = append(conditions, fmt.Sprintf("type IN (%s)", placeholders(len(f.Types))))
		for _, t := range f.Types {
			args = append(args, t)
		}
	}
	if len(f.Languages) > 0 {
		conditions = append(conditions, fmt.Sprintf("language IN (%s)", placeholders(len(f.Languages))))
		for _, l := range f.Languages {
			args = append(args, l)
		}
	}
	if len(f.Tags) > 0 {
		conditions = append(conditions, fmt.Sprintf(
			`EXISTS (SELECT 1 FROM prompt_tags pt JOIN tags t ON t.id = pt.tag_id WHERE pt.prompt_id = prompts.id AND t.name IN (%s))`,
			placeholders(len(f.Tags))))
		for _, name := range f.Tags {
			args = append(args, name)
		}
	}
	if f.Query != "" {
		// Регистронезависимый substring-поиск по title OR description OR content
		pattern := "%" + strings.ToLower(f.Query) + "%"
		conditions = append(conditions,
			`(LOWER(title) LIKE ? OR LOWER(COALESCE(description, '')) LIKE ? OR LOWER(content) LIKE ?)`)
		args = append(args, pattern, pattern, pattern)
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}
