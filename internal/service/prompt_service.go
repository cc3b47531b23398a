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

const (
	changeLogInitial   = "Initial version"
	changeLogAutoSaved = "Auto-saved version"

	detailVersionsLimit   = 10
	detailExecutionsLimit = 5
)

// PromptService реализует CRUD, версионирование и синхронизацию тегов промптов.
type PromptService struct {
	db            repository.DBTX
	txHelper      *repository.TransactionHelper
	promptRepo    *repository.PromptRepository
	versionRepo   *repository.VersionRepository
	tagRepo       *repository.TagRepository
	executionRepo *repository.ExecutionRepository
	logger        *zap.Logger
}

// NewPromptService создает новый PromptService.
func NewPromptService(
	db repository.DBTX,
	txHelper *repository.TransactionHelper,
	promptRepo *repository.PromptRepository,
	versionRepo *repository.VersionRepository,
	tagRepo *repository.TagRepository,
	executionRepo *repository.ExecutionRepository,
	logger *zap.Logger,
) *PromptService {
	return &PromptService{
		db:            db,
		txHelper:      txHelper,
		promptRepo:    promptRepo,
		versionRepo:   versionRepo,
		tagRepo:       tagRepo,
		executionRepo: executionRepo,
		logger:        logger.Named("PromptService"),
	}
}

// List возвращает страницу не удаленных промптов с тегами и счетчиками.
func (s *PromptService) List(ctx context.Context, f models.SearchFilters) (*models.PromptPage, error) {
	f.Normalize()
	if _, ok := models.SortableFields[f.SortBy]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSortField, f.SortBy)
	}

	items, total, err := s.listWithRelations(ctx, f)
	if err != nil {
		return nil, err
	}

	return &models.PromptPage{
		Data: items,
		Meta: models.PaginationMeta{
			Total:   total,
			Limit:   f.Limit,
			Offset:  f.Offset,
			HasMore: int64(f.Offset+f.Limit) < total,
		},
	}, nil
}

// listWithRelations выполняет выборку и дособирает теги и счетчики.
// Используется также поисковым сервисом.
func (s *PromptService) listWithRelations(ctx context.Context, f models.SearchFilters) ([]models.PromptWithRelations, int64, error) {
	prompts, total, err := s.promptRepo.List(ctx, s.db, f)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]string, 0, len(prompts))
	for _, p := range prompts {
		ids = append(ids, p.ID)
	}

	tagsByPrompt, err := s.tagRepo.ListByPrompts(ctx, s.db, ids)
	if err != nil {
		return nil, 0, err
	}
	counts, err := s.promptRepo.CountRelations(ctx, s.db, ids)
	if err != nil {
		return nil, 0, err
	}

	items := make([]models.PromptWithRelations, 0, len(prompts))
	for _, p := range prompts {
		tags := tagsByPrompt[p.ID]
		if tags == nil {
			tags = []models.Tag{}
		}
		items = append(items, models.PromptWithRelations{
			Prompt: p,
			Tags:   tags,
			Counts: counts[p.ID],
		})
	}
	return items, total, nil
}

// GetByID возвращает промпт с тегами, последними версиями и запусками.
// Мягко удаленные промпты не отфильтровываются: история версий
// остается адресуемой по идентификатору.
func (s *PromptService) GetByID(ctx context.Context, id string) (*models.PromptWithRelations, error) {
	prompt, err := s.promptRepo.GetByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	tags, err := s.tagRepo.ListByPrompt(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	versions, err := s.versionRepo.ListRecent(ctx, s.db, id, detailVersionsLimit)
	if err != nil {
		return nil, err
	}
	executions, err := s.executionRepo.ListByPrompt(ctx, s.db, id, detailExecutionsLimit)
	if err != nil {
		return nil, err
	}
	counts, err := s.promptRepo.CountRelations(ctx, s.db, []string{id})
	if err != nil {
		return nil, err
	}

	return &models.PromptWithRelations{
		Prompt:     *prompt,
		Tags:       tags,
		Versions:   versions,
		Executions: executions,
		Counts:     counts[id],
	}, nil
}

// Create создает промпт, версию #1 и связи с тегами в одной транзакции.
func (s *PromptService) Create(ctx context.Context, in models.CreatePromptInput) (*models.PromptWithRelations, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, ErrContentRequired
	}
	if in.Type == "" {
		in.Type = models.PromptTypeText
	}
	if !models.ValidPromptType(in.Type) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidType, in.Type)
	}
	if in.Language == "" {
		in.Language = models.LanguageEN
	}
	if !models.ValidLanguage(in.Language) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidLanguage, in.Language)
	}

	now := time.Now().UTC()
	prompt := &models.Prompt{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Content:     in.Content,
		Type:        in.Type,
		Language:    in.Language,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.txHelper.WithTransaction(ctx, func(ctx context.Context, tx repository.DBTX) error {
		if err := s.promptRepo.Insert(ctx, tx, prompt); err != nil {
			return err
		}

		initial := changeLogInitial
		version := &models.PromptVersion{
			ID:            uuid.NewString(),
			PromptID:      prompt.ID,
			VersionNumber: 1,
			Content:       prompt.Content,
			ChangeLog:     &initial,
			CreatedAt:     now,
		}
		if err := s.versionRepo.Insert(ctx, tx, version); err != nil {
			return err
		}

		return s.syncTags(ctx, tx, prompt.ID, in.Tags, now)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Prompt created", zap.String("id", prompt.ID), zap.String("title", prompt.Title))
	return s.GetByID(ctx, prompt.ID)
}

// Update применяет частичное обновление. Изменение content порождает новую
// версию; поле tags означает полную замену набора тегов.
func (s *PromptService) Update(ctx context.Context, id string, in models.UpdatePromptInput) (*models.PromptWithRelations, error) {
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return nil, ErrTitleRequired
	}
	if in.Content != nil && strings.TrimSpace(*in.Content) == "" {
		return nil, ErrContentRequired
	}
	if in.Type != nil && !models.ValidPromptType(*in.Type) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidType, *in.Type)
	}
	if in.Language != nil && !models.ValidLanguage(*in.Language) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidLanguage, *in.Language)
	}

	now := time.Now().UTC()

	err := s.txHelper.WithTransaction(ctx, func(ctx context.Context, tx repository.DBTX) error {
		existing, err := s.promptRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}

		// Новая версия создается только если содержимое реально изменилось
		if in.Content != nil && *in.Content != existing.Content {
			max, err := s.versionRepo.MaxVersionNumber(ctx, tx, id)
			if err != nil {
				return err
			}
			autoSaved := changeLogAutoSaved
			version := &models.PromptVersion{
				ID:            uuid.NewString(),
				PromptID:      id,
				VersionNumber: max + 1,
				Content:       *in.Content,
				ChangeLog:     &autoSaved,
				CreatedAt:     now,
			}
			if err := s.versionRepo.Insert(ctx, tx, version); err != nil {
				return err
			}
		}

		if err := s.promptRepo.UpdateScalars(ctx, tx, id, in, now); err != nil {
			return err
		}

		// Полная замена набора тегов, а не инкрементальный diff
		if in.Tags != nil {
			if err := s.tagRepo.UnlinkAll(ctx, tx, id); err != nil {
				return err
			}
			if err := s.syncTags(ctx, tx, id, in.Tags, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// Delete мягко удаляет промпт, не трогая потомков.
func (s *PromptService) Delete(ctx context.Context, id string) error {
	return s.promptRepo.SoftDelete(ctx, s.db, id, time.Now().UTC())
}

// Duplicate клонирует промпт вместе с набором тегов через обычный путь
// создания: копия получает собственную версию #1 и свежие связи.
func (s *PromptService) Duplicate(ctx context.Context, id string) (*models.PromptWithRelations, error) {
	original, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tagNames := make([]string, 0, len(original.Tags))
	for _, t := range original.Tags {
		tagNames = append(tagNames, t.Name)
	}

	return s.Create(ctx, models.CreatePromptInput{
		Title:       original.Title + " (Copy)",
		Description: original.Description,
		Content:     original.Content,
		Type:        original.Type,
		Language:    original.Language,
		Tags:        tagNames,
	})
}

// IncrementUsage увеличивает счетчик использований промпта.
func (s *PromptService) IncrementUsage(ctx context.Context, id string) error {
	return s.promptRepo.IncrementUsage(ctx, s.db, id, time.Now().UTC())
}

// syncTags привязывает к промпту теги по именам (connect-or-create).
func (s *PromptService) syncTags(ctx context.Context, tx repository.DBTX, promptID string, tagNames []string, now time.Time) error {
	for _, name := range tagNames {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		tag, err := s.connectOrCreateTag(ctx, tx, name, now)
		if err != nil {
			return err
		}
		if err := s.tagRepo.LinkPrompt(ctx, tx, promptID, tag.ID); err != nil {
			return err
		}
	}
	return nil
}

// connectOrCreateTag возвращает существующий тег по имени либо создает новый
// с автоматически выбранным цветом палитры.
func (s *PromptService) connectOrCreateTag(ctx context.Context, tx repository.DBTX, name string, now time.Time) (*models.Tag, error) {
	tag, err := s.tagRepo.GetByName(ctx, tx, name)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, models.ErrTagNotFound) {
		return nil, err
	}

	created := &models.Tag{
		ID:        uuid.NewString(),
		Name:      name,
		Color:     pickTagColor(name),
		CreatedAt: now,
	}
	if err := s.tagRepo.Insert(ctx, tx, created); err != nil {
		// Параллельное создание с тем же именем: перечитываем существующий
		if errors.Is(err, models.ErrTagAlreadyExists) {
			return s.tagRepo.GetByName(ctx, tx, name)
		}
		return nil, err
	}
	return created, nil
}
