package models

// SortOrder направляет сортировку списков.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Закрытый список полей сортировки. Значение sortBy из запроса
// валидируется на границе API, неизвестные значения отклоняются.
const (
	SortByTitle      = "title"
	SortByCreatedAt  = "createdAt"
	SortByUpdatedAt  = "updatedAt"
	SortByUsageCount = "usageCount"
	SortByLastUsedAt = "lastUsedAt"
)

// SortableFields отображает публичные имена полей сортировки на колонки БД.
var SortableFields = map[string]string{
	SortByTitle:      "title",
	SortByCreatedAt:  "created_at",
	SortByUpdatedAt:  "updated_at",
	SortByUsageCount: "usage_count",
	SortByLastUsedAt: "last_used_at",
}

// SearchFilters - фильтры списков и поиска.
// Пустые срезы трактуются как "без фильтра", а не "ничего не выбрано".
type SearchFilters struct {
	Query     string
	Types     []PromptType
	Languages []Language
	Tags      []string
	SortBy    string
	SortOrder SortOrder
	Limit     int
	Offset    int
}

// Normalize подставляет значения по умолчанию.
func (f *SearchFilters) Normalize() {
	if f.SortBy == "" {
		f.SortBy = SortByUpdatedAt
	}
	if f.SortOrder != SortAsc && f.SortOrder != SortDesc {
		f.SortOrder = SortDesc
	}
	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// PaginationMeta - метаданные пагинации списочных ответов.
type PaginationMeta struct {
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"hasMore"`
}

// PromptPage - страница промптов со сводными счетчиками.
type PromptPage struct {
	Data []PromptWithRelations `json:"data"`
	Meta PaginationMeta        `json:"meta"`
}

// SearchResult - найденный промпт с информационной оценкой релевантности.
// Оценка в [0,1] не влияет на порядок выдачи.
type SearchResult struct {
	Prompt PromptWithRelations `json:"prompt"`
	Score  float64             `json:"score"`
}

// SearchPage - страница результатов полнотекстового поиска.
type SearchPage struct {
	Data []SearchResult `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

// CreatePromptInput - входные данные создания промпта.
type CreatePromptInput struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Content     string     `json:"content"`
	Type        PromptType `json:"type"`
	Language    Language   `json:"language"`
	Tags        []string   `json:"tags"`
}

// UpdatePromptInput - частичное обновление промпта.
// nil-поля не изменяются; Tags != nil означает полную замену набора тегов.
type UpdatePromptInput struct {
	Title       *string     `json:"title"`
	Description *string     `json:"description"`
	Content     *string     `json:"content"`
	Type        *PromptType `json:"type"`
	Language    *Language   `json:"language"`
	Tags        []string    `json:"tags"`
}

// CreateTagInput - входные данные создания тега.
// Пустой цвет означает автоматический выбор из палитры.
type CreateTagInput struct {
	Name  string  `json:"name"`
	Color string  `json:"color"`
	Icon  *string `json:"icon"`
}

// UpdateTagInput - частичное обновление тега.
type UpdateTagInput struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
	Icon  *string `json:"icon"`
}

// CreateVersionInput - входные данные ручного создания версии.
type CreateVersionInput struct {
	Content   string  `json:"content"`
	ChangeLog *string `json:"changeLog"`
}

// ExecutePromptInput - входные данные запуска промпта.
type ExecutePromptInput struct {
	PromptID   string                 `json:"promptId"`
	Parameters map[string]interface{} `json:"parameters"`
}

// ErrorResponse - стандартная структура для ответа об ошибке в формате JSON.
type ErrorResponse struct {
	Error string `json:"error"`
}
