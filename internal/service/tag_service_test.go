package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prompt-vault/internal/models"
)

func TestTagCreate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// 1. Явный цвет сохраняется как есть
	tag, err := env.tags.Create(ctx, models.CreateTagInput{Name: "golang", Color: "#00ADD8"})
	require.NoError(t, err)
	assert.Equal(t, "#00ADD8", tag.Color)

	// 2. Пустой цвет выбирается из палитры детерминированно
	auto1, err := env.tags.Create(ctx, models.CreateTagInput{Name: "backend"})
	require.NoError(t, err)
	assert.Contains(t, tagColorPalette, auto1.Color)

	env2 := newTestEnv(t)
	auto2, err := env2.tags.Create(ctx, models.CreateTagInput{Name: "backend"})
	require.NoError(t, err)
	assert.Equal(t, auto1.Color, auto2.Color, "same name should always map to the same palette color")

	// 3. Дубликат имени отклоняется
	_, err = env.tags.Create(ctx, models.CreateTagInput{Name: "golang"})
	assert.ErrorIs(t, err, models.ErrTagAlreadyExists)

	// 4. Пустое имя отклоняется
	_, err = env.tags.Create(ctx, models.CreateTagInput{Name: "  "})
	assert.ErrorIs(t, err, ErrTagNameRequired)
}

func TestTagListWithCounts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.mustCreatePrompt(t, "One", "c", "zeta", "alpha")
	env.mustCreatePrompt(t, "Two", "c", "alpha")

	tags, err := env.tags.List(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)

	// По алфавиту, с количеством промптов
	assert.Equal(t, "alpha", tags[0].Name)
	assert.Equal(t, int64(2), tags[0].PromptCount)
	assert.Equal(t, "zeta", tags[1].Name)
	assert.Equal(t, int64(1), tags[1].PromptCount)
}

func TestTagUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.tags.Create(ctx, models.CreateTagInput{Name: "draft"})
	require.NoError(t, err)
	other, err := env.tags.Create(ctx, models.CreateTagInput{Name: "final"})
	require.NoError(t, err)

	// 1. Частичное обновление
	updated, err := env.tags.Update(ctx, created.ID, models.UpdateTagInput{Color: strPtr("#FFFFFF")})
	require.NoError(t, err)
	assert.Equal(t, "draft", updated.Name)
	assert.Equal(t, "#FFFFFF", updated.Color)

	// 2. Переименование в занятое имя - конфликт
	_, err = env.tags.Update(ctx, created.ID, models.UpdateTagInput{Name: &other.Name})
	assert.ErrorIs(t, err, models.ErrTagAlreadyExists)

	// 3. Несуществующий тег
	_, err = env.tags.Update(ctx, "missing", models.UpdateTagInput{Color: strPtr("#000000")})
	assert.ErrorIs(t, err, models.ErrTagNotFound)
}

func TestTagDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	prompt := env.mustCreatePrompt(t, "Tagged", "c", "doomed")
	require.Len(t, prompt.Tags, 1)

	require.NoError(t, env.tags.Delete(ctx, prompt.Tags[0].ID))

	// Связь удалена каскадно, промпт остался
	got, err := env.prompts.GetByID(ctx, prompt.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)

	err = env.tags.Delete(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrTagNotFound)
}
