package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"
	"go.uber.org/zap"

	"prompt-vault/internal/models"
)

const executionFields = `id, prompt_id, input, output, status, error_msg, started_at, completed_at, duration_ms`

const (
	insertExecutionQuery = `
		INSERT INTO executions (id, prompt_id, input, status, started_at)
		VALUES (?, ?, ?, ?, ?)
	`
	finalizeExecutionQuery = `
		UPDATE executions
		SET status = ?, output = ?, error_msg = ?, completed_at = ?, duration_ms = ?
		WHERE id = ?
	`
	getExecutionByIDQuery = `SELECT ` + executionFields + ` FROM executions WHERE id = ?`

	listExecutionsByPromptQuery = `
		SELECT ` + executionFields + ` FROM executions
		WHERE prompt_id = ? ORDER BY started_at DESC LIMIT ?
	`
)

// ExecutionRepository хранит записи о запусках промптов.
type ExecutionRepository struct {
	logger *zap.Logger
}

// NewExecutionRepository создает новый ExecutionRepository.
func NewExecutionRepository(logger *zap.Logger) *ExecutionRepository {
	return &ExecutionRepository{logger: logger.Named("ExecutionRepo")}
}

// Insert создает запись о запуске (обычно в статусе RUNNING).
func (r *ExecutionRepository) Insert(ctx context.Context, q DBTX, e *models.Execution) error {
	_, err := q.ExecContext(ctx, insertExecutionQuery, e.ID, e.PromptID, e.Input, e.Status, e.StartedAt)
	if err != nil {
		r.logger.Error("Failed to insert execution", zap.String("promptId", e.PromptID), zap.Error(err))
		return fmt.Errorf("failed to insert execution: %w", err)
	}
	return nil
}

// Finalize переводит запуск в конечный статус ровно один раз.
func (r *ExecutionRepository) Finalize(ctx context.Context, q DBTX, id string, status models.ExecutionStatus, output, errorMsg *string, completedAt time.Time, durationMS int64) error {
	result, err := q.ExecContext(ctx, finalizeExecutionQuery, status, output, errorMsg, completedAt, durationMS, id)
	if err != nil {
		r.logger.Error("Failed to finalize execution", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to finalize execution: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return models.ErrExecutionNotFound
	}
	return nil
}

// GetByID возвращает запуск по идентификатору.
func (r *ExecutionRepository) GetByID(ctx context.Context, q DBTX, id string) (*models.Execution, error) {
	var e models.Execution
	if err := sqlscan.Get(ctx, q, &e, getExecutionByIDQuery, id); err != nil {
		if sqlscan.NotFound(err) {
			return nil, models.ErrExecutionNotFound
		}
		r.logger.Error("Failed to get execution by id", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get execution by id: %w", err)
	}
	return &e, nil
}

// ListByPrompt возвращает последние запуски промпта (новые первыми).
func (r *ExecutionRepository) ListByPrompt(ctx context.Context, q DBTX, promptID string, limit int) ([]models.Execution, error) {
	executions := make([]models.Execution, 0)
	if err := sqlscan.Select(ctx, q, &executions, listExecutionsByPromptQuery, promptID, limit); err != nil {
		r.logger.Error("Failed to list executions", zap.String("promptId", promptID), zap.Error(err))
		return nil, fmt.Errorf("failed to list executions: %w", err)
	}
	return executions, nil
}
