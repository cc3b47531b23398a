package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prompt-vault/internal/models"
)

func TestSettingsSetAndGet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// 1. Значение кодируется в JSON
	setting, err := env.settings.Set(ctx, "theme", map[string]string{"mode": "dark"})
	require.NoError(t, err)
	assert.Equal(t, "theme", setting.Key)
	assert.JSONEq(t, `{"mode":"dark"}`, setting.Value)

	got, err := env.settings.Get(ctx, "theme")
	require.NoError(t, err)
	assert.JSONEq(t, setting.Value, got.Value)

	// 2. Повторная запись перезаписывает значение
	_, err = env.settings.Set(ctx, "theme", map[string]string{"mode": "light"})
	require.NoError(t, err)
	got, err = env.settings.Get(ctx, "theme")
	require.NoError(t, err)
	assert.JSONEq(t, `{"mode":"light"}`, got.Value)

	// 3. Отсутствующий ключ - not found
	_, err = env.settings.Get(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrSettingNotFound)
}

func TestSettingsGetAll(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.settings.Set(ctx, "density", map[string]string{"mode": "compact"})
	require.NoError(t, err)
	_, err = env.settings.Set(ctx, "pageSize", 25)
	require.NoError(t, err)

	all, err := env.settings.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	// Значения возвращаются декодированными
	density, ok := all["density"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "compact", density["mode"])
	assert.Equal(t, float64(25), all["pageSize"])
}

func TestSettingsEmptyKeyRejected(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.settings.Set(context.Background(), "  ", "value")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}
