package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"prompt-vault/internal/models"
	"prompt-vault/internal/repository"
)

const executionHistoryLimit = 50

// ExecutionService выполняет подстановку параметров в шаблон промпта
// и ведет историю запусков.
type ExecutionService struct {
	db            repository.DBTX
	txHelper      *repository.TransactionHelper
	executionRepo *repository.ExecutionRepository
	promptRepo    *repository.PromptRepository
	logger        *zap.Logger
}

// NewExecutionService создает новый ExecutionService.
func NewExecutionService(
	db repository.DBTX,
	txHelper *repository.TransactionHelper,
	executionRepo *repository.ExecutionRepository,
	promptRepo *repository.PromptRepository,
	logger *zap.Logger,
) *ExecutionService {
	return &ExecutionService{
		db:            db,
		txHelper:      txHelper,
		executionRepo: executionRepo,
		promptRepo:    promptRepo,
		logger:        logger.Named("ExecutionService"),
	}
}

// Execute подставляет параметры в плейсхолдеры {{key}} шаблона промпта.
// Запись о запуске создается в статусе RUNNING до поиска промпта, поэтому
// в истории остается ровно одна строка даже для несуществующего промпта.
// Неуспех возвращается как данные (Success=false), а не как ошибка.
func (s *ExecutionService) Execute(ctx context.Context, in models.ExecutePromptInput) (*models.ExecutionResult, error) {
	startedAt := time.Now().UTC()

	input, err := encodeParameters(in.Parameters)
	if err != nil {
		return nil, err
	}

	execution := &models.Execution{
		ID:        uuid.NewString(),
		PromptID:  in.PromptID,
		Input:     input,
		Status:    models.ExecutionStatusRunning,
		StartedAt: startedAt,
	}
	if err := s.executionRepo.Insert(ctx, s.db, execution); err != nil {
		return nil, err
	}

	prompt, err := s.promptRepo.GetByID(ctx, s.db, in.PromptID)
	if err != nil {
		if errors.Is(err, models.ErrPromptNotFound) {
			s.logger.Warn("Execution requested for missing prompt", zap.String("promptId", in.PromptID))
			return s.finalizeFailed(ctx, execution.ID, "Prompt not found", startedAt), nil
		}
		return s.finalizeFailed(ctx, execution.ID, err.Error(), startedAt), nil
	}

	output := substituteParameters(prompt.Content, in.Parameters)
	completedAt := time.Now().UTC()
	duration := completedAt.Sub(startedAt).Milliseconds()

	// Финализация и инкремент счетчика использований атомарны
	err = s.txHelper.WithTransaction(ctx, func(ctx context.Context, tx repository.DBTX) error {
		if err := s.executionRepo.Finalize(ctx, tx, execution.ID, models.ExecutionStatusSuccess, &output, nil, completedAt, duration); err != nil {
			return err
		}
		return s.promptRepo.IncrementUsage(ctx, tx, in.PromptID, completedAt)
	})
	if err != nil {
		return s.finalizeFailed(ctx, execution.ID, err.Error(), startedAt), nil
	}

	s.logger.Info("Prompt executed",
		zap.String("promptId", in.PromptID),
		zap.String("executionId", execution.ID),
		zap.Int64("durationMs", duration))

	return &models.ExecutionResult{
		Success:  true,
		Output:   output,
		Metadata: models.ExecutionMetadata{Duration: duration},
	}, nil
}

// finalizeFailed переводит запуск в FAILED и возвращает неуспех как данные.
// Ошибка самой финализации только логируется: результат для клиента
// в любом случае уже определен.
func (s *ExecutionService) finalizeFailed(ctx context.Context, executionID, errMsg string, startedAt time.Time) *models.ExecutionResult {
	completedAt := time.Now().UTC()
	duration := completedAt.Sub(startedAt).Milliseconds()

	if err := s.executionRepo.Finalize(ctx, s.db, executionID, models.ExecutionStatusFailed, nil, &errMsg, completedAt, duration); err != nil {
		s.logger.Error("Failed to finalize failed execution",
			zap.String("executionId", executionID),
			zap.Error(err))
	}

	return &models.ExecutionResult{
		Success:  false,
		Error:    errMsg,
		Metadata: models.ExecutionMetadata{Duration: duration},
	}
}

// GetByID возвращает запуск вместе с владеющим промптом.
func (s *ExecutionService) GetByID(ctx context.Context, id string) (*models.ExecutionWithPrompt, error) {
	execution, err := s.executionRepo.GetByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	result := &models.ExecutionWithPrompt{Execution: *execution}
	prompt, err := s.promptRepo.GetByID(ctx, s.db, execution.PromptID)
	if err == nil {
		result.Prompt = prompt
	} else if !errors.Is(err, models.ErrPromptNotFound) {
		return nil, err
	}
	return result, nil
}

// ListByPrompt возвращает последние запуски промпта (не более 50).
func (s *ExecutionService) ListByPrompt(ctx context.Context, promptID string) ([]models.Execution, error) {
	return s.executionRepo.ListByPrompt(ctx, s.db, promptID, executionHistoryLimit)
}

// encodeParameters сериализует параметры запуска для хранения в истории.
func encodeParameters(params map[string]interface{}) (*string, error) {
	if params == nil {
		params = map[string]interface{}{}
	}
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to encode parameters: %w", err)
	}
	encoded := string(raw)
	return &encoded, nil
}

// substituteParameters заменяет все вхождения {{key}} (пробелы внутри скобок
// допускаются) на строковое значение параметра. Плейсхолдеры без значения
// остаются в тексте как есть.
func substituteParameters(content string, params map[string]interface{}) string {
	result := content
	for key, value := range params {
		pattern := regexp.MustCompile(`\{\{\s*` + regexp.QuoteMeta(key) + `\s*\}\}`)
		result = pattern.ReplaceAllString(result, fmt.Sprintf("%v", value))
	}
	return result
}
