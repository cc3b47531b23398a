package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"prompt-vault/internal/models"
)

// SearchService выполняет подстрочный поиск по промптам с оценкой релевантности.
type SearchService struct {
	prompts *PromptService
	logger  *zap.Logger
}

// NewSearchService создает новый SearchService.
func NewSearchService(prompts *PromptService, logger *zap.Logger) *SearchService {
	return &SearchService{
		prompts: prompts,
		logger:  logger.Named("SearchService"),
	}
}

// FullTextSearch ищет по подстроке в title/description/content с учетом
// фильтров и возвращает результаты с оценкой релевантности.
func (s *SearchService) FullTextSearch(ctx context.Context, f models.SearchFilters) (*models.SearchPage, error) {
	if strings.TrimSpace(f.Query) == "" {
		return nil, ErrQueryRequired
	}
	f.Normalize()
	if _, ok := models.SortableFields[f.SortBy]; !ok {
		return nil, ErrInvalidSortField
	}

	items, total, err := s.prompts.listWithRelations(ctx, f)
	if err != nil {
		return nil, err
	}

	results := make([]models.SearchResult, 0, len(items))
	for _, item := range items {
		results = append(results, models.SearchResult{
			Prompt: item,
			Score:  calculateRelevanceScore(item.Prompt, f.Query),
		})
	}

	return &models.SearchPage{
		Data: results,
		Meta: models.PaginationMeta{
			Total:   total,
			Limit:   f.Limit,
			Offset:  f.Offset,
			HasMore: int64(f.Offset+f.Limit) < total,
		},
	}, nil
}

// SemanticSearch пока делегирует обычному поиску. Эмбеддинги потребуют
// отдельного индекса, см. TODO в роадмапе настольного клиента.
func (s *SearchService) SemanticSearch(ctx context.Context, f models.SearchFilters) (*models.SearchPage, error) {
	return s.FullTextSearch(ctx, f)
}

// calculateRelevanceScore считает простую оценку совпадения: заголовок весит
// больше описания, описание больше содержимого. Результат в [0, 1].
func calculateRelevanceScore(p models.Prompt, query string) float64 {
	q := strings.ToLower(query)
	score := 0.0

	if strings.Contains(strings.ToLower(p.Title), q) {
		score += 0.5
	}
	if p.Description != nil && strings.Contains(strings.ToLower(*p.Description), q) {
		score += 0.3
	}
	if strings.Contains(strings.ToLower(p.Content), q) {
		score += 0.2
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}
