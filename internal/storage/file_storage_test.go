package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// pngBytes кодирует одноцветный PNG заданного размера.
func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestStorage(t *testing.T) *FileStorage {
	t.Helper()
	fs, err := NewFileStorage(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	return fs
}

func TestSaveImage(t *testing.T) {
	fs := newTestStorage(t)
	data := pngBytes(t, 400, 300)

	saved, err := fs.SaveImage(data, "photo.png", "image/png")
	require.NoError(t, err)

	// 1. Уникальное имя с сохранением расширения
	assert.NotEqual(t, "photo.png", saved.StoredName)
	assert.Equal(t, ".png", filepath.Ext(saved.StoredName))

	// 2. Пути в БД - URL-пути с прямыми слешами
	assert.Equal(t, "uploads/images/"+saved.StoredName, saved.Path)
	assert.Equal(t, "uploads/thumbnails/thumb_"+saved.StoredName, saved.Thumbnail)

	// 3. Метаданные сняты с декодированного изображения
	assert.Equal(t, 400, saved.Metadata.Width)
	assert.Equal(t, 300, saved.Metadata.Height)
	assert.Equal(t, len(data), saved.Metadata.Size)

	// 4. Оба файла реально записаны
	_, err = os.Stat(fs.diskPath(saved.Path))
	assert.NoError(t, err)
	_, err = os.Stat(fs.diskPath(saved.Thumbnail))
	assert.NoError(t, err)
}

func TestSaveImageValidation(t *testing.T) {
	fs := newTestStorage(t)

	// 1. Неподдерживаемый MIME-тип отклоняется до записи
	_, err := fs.SaveImage(pngBytes(t, 10, 10), "file.bmp", "image/bmp")
	assert.ErrorIs(t, err, ErrUnsupportedType)

	// 2. Мусор вместо изображения
	_, err = fs.SaveImage([]byte("not an image"), "fake.png", "image/png")
	assert.ErrorIs(t, err, ErrInvalidImage)

	// 3. Слишком большие размеры
	_, err = fs.SaveImage(pngBytes(t, MaxImageDimension+1, 10), "wide.png", "image/png")
	assert.ErrorIs(t, err, ErrImageTooLarge)

	// 4. Отклоненная загрузка не оставляет файлов
	entries, err := os.ReadDir(fs.imagesDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "rejected uploads must not leave files on disk")
}

func TestDeleteImageBestEffort(t *testing.T) {
	fs := newTestStorage(t)

	saved, err := fs.SaveImage(pngBytes(t, 50, 50), "gone.png", "image/png")
	require.NoError(t, err)

	fs.DeleteImage(saved.Path, saved.Thumbnail)
	_, err = os.Stat(fs.diskPath(saved.Path))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(fs.diskPath(saved.Thumbnail))
	assert.True(t, os.IsNotExist(err))

	// Повторное удаление не паникует и не ошибается
	fs.DeleteImage(saved.Path, saved.Thumbnail)
}

func TestSanitizeFilename(t *testing.T) {
	// Компоненты пути отрезаются
	assert.Equal(t, "etc_passwd", SanitizeFilename("../../etc passwd"))
	assert.Equal(t, "photo.png", SanitizeFilename("/tmp/photo.png"))
	assert.Equal(t, "name_with_spaces.jpg", SanitizeFilename("name with spaces.jpg"))
	assert.Equal(t, "ok-file_1.webp", SanitizeFilename("ok-file_1.webp"))
}

func TestIsSupportedMimeType(t *testing.T) {
	assert.True(t, IsSupportedMimeType("image/png"))
	assert.True(t, IsSupportedMimeType("image/webp"))
	assert.False(t, IsSupportedMimeType("application/pdf"))
}
