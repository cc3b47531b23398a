package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"prompt-vault/internal/models"
	"prompt-vault/internal/repository"
)

// TagService управляет тегами.
type TagService struct {
	db      repository.DBTX
	tagRepo *repository.TagRepository
	logger  *zap.Logger
}

// NewTagService создает новый TagService.
func NewTagService(db repository.DBTX, tagRepo *repository.TagRepository, logger *zap.Logger) *TagService {
	return &TagService{
		db:      db,
		tagRepo: tagRepo,
		logger:  logger.Named("TagService"),
	}
}

// List возвращает все теги с количеством промптов, по алфавиту.
func (s *TagService) List(ctx context.Context) ([]models.TagWithCount, error) {
	return s.tagRepo.ListWithCounts(ctx, s.db)
}

// GetByID возвращает тег с количеством привязанных промптов.
func (s *TagService) GetByID(ctx context.Context, id string) (*models.TagWithCount, error) {
	return s.tagRepo.GetByID(ctx, s.db, id)
}

// Create создает тег. Пустой цвет заменяется детерминированным цветом
// из палитры по имени тега.
func (s *TagService) Create(ctx context.Context, in models.CreateTagInput) (*models.Tag, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrTagNameRequired
	}

	color := in.Color
	if color == "" {
		color = pickTagColor(name)
	}

	tag := &models.Tag{
		ID:        uuid.NewString(),
		Name:      name,
		Color:     color,
		Icon:      in.Icon,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.tagRepo.Insert(ctx, s.db, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// Update применяет частичное обновление тега.
func (s *TagService) Update(ctx context.Context, id string, in models.UpdateTagInput) (*models.TagWithCount, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, ErrTagNameRequired
	}
	if err := s.tagRepo.Update(ctx, s.db, id, in.Name, in.Color, in.Icon); err != nil {
		return nil, err
	}
	return s.tagRepo.GetByID(ctx, s.db, id)
}

// Delete удаляет тег вместе со связями prompt_tags.
func (s *TagService) Delete(ctx context.Context, id string) error {
	return s.tagRepo.Delete(ctx, s.db, id)
}
