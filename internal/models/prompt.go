package models

import "time"

// PromptType определяет тип промпта.
type PromptType string

const (
	PromptTypeText   PromptType = "TEXT"
	PromptTypeCode   PromptType = "CODE"
	PromptTypeImage  PromptType = "IMAGE"
	PromptTypeVideo  PromptType = "VIDEO"
	PromptTypeAudio  PromptType = "AUDIO"
	PromptTypeCustom PromptType = "CUSTOM"
)

// Language определяет язык промпта.
type Language string

const (
	LanguageEN Language = "EN"
	LanguageFA Language = "FA"
)

// ValidPromptType проверяет, что значение входит в перечисление типов.
func ValidPromptType(t PromptType) bool {
	switch t {
	case PromptTypeText, PromptTypeCode, PromptTypeImage, PromptTypeVideo, PromptTypeAudio, PromptTypeCustom:
		return true
	}
	return false
}

// ValidLanguage проверяет, что значение входит в перечисление языков.
func ValidLanguage(l Language) bool {
	return l == LanguageEN || l == LanguageFA
}

// Prompt represents a reusable prompt template.
// Шаблонные переменные в Content записываются как {{placeholder}}.
type Prompt struct {
	ID          string     `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description"`
	Content     string     `db:"content" json:"content"`
	Type        PromptType `db:"type" json:"type"`
	Language    Language   `db:"language" json:"language"`
	UsageCount  int64      `db:"usage_count" json:"usageCount"`
	LastUsedAt  *time.Time `db:"last_used_at" json:"lastUsedAt"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
	DeletedAt   *time.Time `db:"deleted_at" json:"deletedAt,omitempty"`
}

// PromptCounts агрегаты по связанным сущностям промпта.
type PromptCounts struct {
	Versions   int64 `json:"versions"`
	Executions int64 `json:"executions"`
}

// PromptWithRelations - промпт вместе со связями для детальных ответов API.
type PromptWithRelations struct {
	Prompt
	Tags       []Tag           `json:"tags"`
	Versions   []PromptVersion `json:"versions,omitempty"`
	Executions []Execution     `json:"executions,omitempty"`
	Counts     PromptCounts    `json:"_count"`
}
