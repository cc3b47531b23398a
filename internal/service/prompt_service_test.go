package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prompt-vault/internal/models"
)

func TestPromptCreate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// 1. Создание с тегами: версия #1 и теги появляются атомарно
	created, err := env.prompts.Create(ctx, models.CreatePromptInput{
		Title:       "Code Review",
		Description: strPtr("Review checklist"),
		Content:     "Review the following code: {{code}}",
		Type:        models.PromptTypeCode,
		Tags:        []string{"go", "review"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.PromptTypeCode, created.Type)
	assert.Equal(t, models.LanguageEN, created.Language, "language should default to EN")

	require.Len(t, created.Versions, 1, "exactly one version after create")
	assert.Equal(t, int64(1), created.Versions[0].VersionNumber)
	require.NotNil(t, created.Versions[0].ChangeLog)
	assert.Equal(t, "Initial version", *created.Versions[0].ChangeLog)

	require.Len(t, created.Tags, 2)
	for _, tag := range created.Tags {
		assert.NotEmpty(t, tag.Color, "auto-created tag should get a palette color")
	}
	assert.Equal(t, int64(1), created.Counts.Versions)
	assert.Equal(t, int64(0), created.Counts.Executions)

	// 2. Повторное использование тега: второй промпт не создает дубликат
	second := env.mustCreatePrompt(t, "Another", "content", "go")
	require.Len(t, second.Tags, 1)
	assert.Equal(t, created.Tags[0].ID, second.Tags[0].ID, "tag 'go' should be connected, not recreated")

	// 3. Валидация обязательных полей
	_, err = env.prompts.Create(ctx, models.CreatePromptInput{Title: "  ", Content: "x"})
	assert.ErrorIs(t, err, ErrTitleRequired)
	_, err = env.prompts.Create(ctx, models.CreatePromptInput{Title: "x", Content: ""})
	assert.ErrorIs(t, err, ErrContentRequired)
	_, err = env.prompts.Create(ctx, models.CreatePromptInput{Title: "x", Content: "y", Type: "BOGUS"})
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestPromptUpdateVersioning(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	created := env.mustCreatePrompt(t, "Draft", "v1 content")

	// 1. Изменение content создает новую версию с пометкой Auto-saved
	updated, err := env.prompts.Update(ctx, created.ID, models.UpdatePromptInput{
		Content: strPtr("v2 content"),
	})
	require.NoError(t, err)
	assert.Equal(t, "v2 content", updated.Content)
	require.Len(t, updated.Versions, 2)
	assert.Equal(t, int64(2), updated.Versions[0].VersionNumber, "versions are listed newest first")
	assert.Equal(t, "Auto-saved version", *updated.Versions[0].ChangeLog)

	// 2. Обновление только title не трогает версии
	updated, err = env.prompts.Update(ctx, created.ID, models.UpdatePromptInput{
		Title: strPtr("Renamed"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Len(t, updated.Versions, 2)

	// 3. Тот же content не порождает новую версию
	updated, err = env.prompts.Update(ctx, created.ID, models.UpdatePromptInput{
		Content: strPtr("v2 content"),
	})
	require.NoError(t, err)
	assert.Len(t, updated.Versions, 2, "unchanged content should not create a version")

	// 4. Обновление несуществующего промпта
	_, err = env.prompts.Update(ctx, "missing", models.UpdatePromptInput{Title: strPtr("x")})
	assert.ErrorIs(t, err, models.ErrPromptNotFound)
}

func TestPromptUpdateTagsReplaceAll(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	created := env.mustCreatePrompt(t, "Tagged", "content", "one", "two")

	// 1. nil Tags не трогает существующие связи
	updated, err := env.prompts.Update(ctx, created.ID, models.UpdatePromptInput{Title: strPtr("T")})
	require.NoError(t, err)
	assert.Len(t, updated.Tags, 2)

	// 2. Непустой список полностью заменяет набор тегов
	updated, err = env.prompts.Update(ctx, created.ID, models.UpdatePromptInput{Tags: []string{"three"}})
	require.NoError(t, err)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "three", updated.Tags[0].Name)

	// 3. Пустой (но не nil) список отвязывает все теги
	updated, err = env.prompts.Update(ctx, created.ID, models.UpdatePromptInput{Tags: []string{}})
	require.NoError(t, err)
	assert.Empty(t, updated.Tags)

	// Сами теги при этом не удаляются
	tags, err := env.tags.List(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 3)
}

func TestPromptSoftDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	created := env.mustCreatePrompt(t, "Ephemeral", "content")

	require.NoError(t, env.prompts.Delete(ctx, created.ID))

	// 1. Из списков промпт исчезает
	page, err := env.prompts.List(ctx, models.SearchFilters{})
	require.NoError(t, err)
	assert.Empty(t, page.Data)
	assert.Equal(t, int64(0), page.Meta.Total)

	// 2. Прямое чтение по id все еще работает, deletedAt заполнен
	got, err := env.prompts.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.DeletedAt)

	// 3. Повторное удаление - not found
	err = env.prompts.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, models.ErrPromptNotFound)
}

func TestPromptDuplicate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	created := env.mustCreatePrompt(t, "Original", "shared content", "go")

	copy, err := env.prompts.Duplicate(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, "Original (Copy)", copy.Title)
	assert.Equal(t, created.Content, copy.Content)
	assert.NotEqual(t, created.ID, copy.ID)

	// Копия получает собственную версию #1 и те же теги
	require.Len(t, copy.Versions, 1)
	assert.Equal(t, int64(1), copy.Versions[0].VersionNumber)
	require.Len(t, copy.Tags, 1)
	assert.Equal(t, created.Tags[0].ID, copy.Tags[0].ID)

	_, err = env.prompts.Duplicate(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrPromptNotFound)
}

func TestPromptListFiltersAndPagination(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.prompts.Create(ctx, models.CreatePromptInput{
		Title: "Go helper", Content: "write go code", Type: models.PromptTypeCode, Tags: []string{"go"},
	})
	require.NoError(t, err)
	_, err = env.prompts.Create(ctx, models.CreatePromptInput{
		Title: "Essay", Content: "write an essay", Type: models.PromptTypeText,
	})
	require.NoError(t, err)

	// 1. Фильтр по типу
	page, err := env.prompts.List(ctx, models.SearchFilters{Types: []models.PromptType{models.PromptTypeCode}})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Go helper", page.Data[0].Title)

	// 2. Фильтр по тегу
	page, err = env.prompts.List(ctx, models.SearchFilters{Tags: []string{"go"}})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Go helper", page.Data[0].Title)

	// 3. Подстрочный поиск без учета регистра
	page, err = env.prompts.List(ctx, models.SearchFilters{Query: "ESSAY"})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Essay", page.Data[0].Title)

	// 4. Пагинация и hasMore
	page, err = env.prompts.List(ctx, models.SearchFilters{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)
	assert.Equal(t, int64(2), page.Meta.Total)
	assert.True(t, page.Meta.HasMore)

	page, err = env.prompts.List(ctx, models.SearchFilters{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)
	assert.False(t, page.Meta.HasMore)

	// 5. Неизвестное поле сортировки отклоняется
	_, err = env.prompts.List(ctx, models.SearchFilters{SortBy: "content"})
	assert.ErrorIs(t, err, ErrInvalidSortField)
}

func TestPromptSortOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.mustCreatePrompt(t, "Bravo", "b")
	env.mustCreatePrompt(t, "Alpha", "a")

	page, err := env.prompts.List(ctx, models.SearchFilters{SortBy: models.SortByTitle, SortOrder: models.SortAsc})
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "Alpha", page.Data[0].Title)
	assert.Equal(t, "Bravo", page.Data[1].Title)
}
