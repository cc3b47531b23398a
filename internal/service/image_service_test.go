package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"prompt-vault/internal/models"
	"prompt-vault/internal/repository"
	"prompt-vault/internal/storage"
)

func newImageService(t *testing.T, env *testEnv) *ImageService {
	t.Helper()
	log := zap.NewNop()
	fileStorage, err := storage.NewFileStorage(t.TempDir(), log)
	require.NoError(t, err)
	return NewImageService(env.db.DB, repository.NewImageRepository(log), repository.NewPromptRepository(log), fileStorage, log)
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestImageUploadAndList(t *testing.T) {
	env := newTestEnv(t)
	images := newImageService(t, env)
	ctx := context.Background()
	prompt := env.mustCreatePrompt(t, "Illustrated", "content")

	uploaded, err := images.Upload(ctx, prompt.ID, "cover image.png", "image/png", testPNG(t))
	require.NoError(t, err)

	// 1. Метаданные заполнены, имя файла очищено
	assert.Equal(t, "cover_image.png", uploaded.Filename)
	assert.Equal(t, prompt.ID, uploaded.PromptID)
	assert.Equal(t, int64(64), uploaded.Width)
	assert.Equal(t, int64(48), uploaded.Height)
	assert.NotEmpty(t, uploaded.Thumbnail)

	// 2. Изображение видно в списке промпта
	listed, err := images.ListByPrompt(ctx, prompt.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, uploaded.ID, listed[0].ID)

	// 3. Загрузка в несуществующий промпт
	_, err = images.Upload(ctx, "missing", "x.png", "image/png", testPNG(t))
	assert.ErrorIs(t, err, models.ErrPromptNotFound)
}

func TestImageUploadRejectedForDeletedPrompt(t *testing.T) {
	env := newTestEnv(t)
	images := newImageService(t, env)
	ctx := context.Background()
	prompt := env.mustCreatePrompt(t, "Gone", "content")

	require.NoError(t, env.prompts.Delete(ctx, prompt.ID))

	_, err := images.Upload(ctx, prompt.ID, "late.png", "image/png", testPNG(t))
	assert.ErrorIs(t, err, models.ErrPromptNotFound)
}

func TestImageUploadValidation(t *testing.T) {
	env := newTestEnv(t)
	images := newImageService(t, env)
	ctx := context.Background()
	prompt := env.mustCreatePrompt(t, "Strict", "content")

	_, err := images.Upload(ctx, prompt.ID, "doc.pdf", "application/pdf", []byte("%PDF"))
	assert.ErrorIs(t, err, storage.ErrUnsupportedType)

	_, err = images.Upload(ctx, prompt.ID, "fake.png", "image/png", []byte("garbage"))
	assert.ErrorIs(t, err, storage.ErrInvalidImage)

	// Отклоненные загрузки не попадают в БД
	listed, err := images.ListByPrompt(ctx, prompt.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestImageDelete(t *testing.T) {
	env := newTestEnv(t)
	images := newImageService(t, env)
	ctx := context.Background()
	prompt := env.mustCreatePrompt(t, "Cleanup", "content")

	uploaded, err := images.Upload(ctx, prompt.ID, "temp.png", "image/png", testPNG(t))
	require.NoError(t, err)

	require.NoError(t, images.Delete(ctx, uploaded.ID))

	// Запись удалена
	listed, err := images.ListByPrompt(ctx, prompt.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)

	// Повторное удаление - not found
	err = images.Delete(ctx, uploaded.ID)
	assert.ErrorIs(t, err, models.ErrImageNotFound)
}
