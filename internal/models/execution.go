package models

import "time"

// ExecutionStatus определяет статус запуска промпта.
type ExecutionStatus string

const (
	// ExecutionStatusPending объявлен, но текущей логикой не выставляется.
	ExecutionStatusPending ExecutionStatus = "PENDING"
	ExecutionStatusRunning ExecutionStatus = "RUNNING"
	ExecutionStatusSuccess ExecutionStatus = "SUCCESS"
	ExecutionStatusFailed  ExecutionStatus = "FAILED"
	// ExecutionStatusCancelled и ExecutionStatusTimeout объявлены, но недостижимы:
	// отмена и таймауты на уровне сервиса не реализованы.
	ExecutionStatusCancelled ExecutionStatus = "CANCELLED"
	ExecutionStatusTimeout   ExecutionStatus = "TIMEOUT"
)

// Execution - запись об одном запуске подстановки шаблона.
// Жизненный цикл: создается в RUNNING, финализируется ровно один раз
// в SUCCESS (с output) или FAILED (с error_msg).
type Execution struct {
	ID          string          `db:"id" json:"id"`
	PromptID    string          `db:"prompt_id" json:"promptId"`
	Input       *string         `db:"input" json:"input"`
	Output      *string         `db:"output" json:"output"`
	Status      ExecutionStatus `db:"status" json:"status"`
	ErrorMsg    *string         `db:"error_msg" json:"errorMsg"`
	StartedAt   time.Time       `db:"started_at" json:"startedAt"`
	CompletedAt *time.Time      `db:"completed_at" json:"completedAt"`
	DurationMS  *int64          `db:"duration_ms" json:"duration"`
}

// ExecutionWithPrompt - запуск вместе с владеющим промптом.
type ExecutionWithPrompt struct {
	Execution
	Prompt *Prompt `json:"prompt"`
}

// ExecutionMetadata - метаданные результата запуска.
type ExecutionMetadata struct {
	Duration int64 `json:"duration"`
}

// ExecutionResult - результат запуска промпта.
// Неуспех подстановки - это данные, а не транспортная ошибка.
type ExecutionResult struct {
	Success  bool              `json:"success"`
	Output   string            `json:"output,omitempty"`
	Error    string            `json:"error,omitempty"`
	Metadata ExecutionMetadata `json:"metadata"`
}
