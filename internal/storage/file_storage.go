package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp"
)

// Поддерживаемые MIME-типы изображений.
var SupportedMimeTypes = []string{
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/gif",
	"image/webp",
}

const (
	// MaxFileSize - максимальный размер файла (5 MiB).
	MaxFileSize = 5 * 1024 * 1024
	// MaxImageDimension - максимальный размер стороны изображения в пикселях.
	MaxImageDimension = 4096
	// ThumbnailSize - сторона квадратной миниатюры.
	ThumbnailSize = 200
	// thumbnailQuality - качество JPEG миниатюры.
	thumbnailQuality = 80
)

// Ошибки валидации загружаемых изображений.
var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrFileTooLarge    = errors.New("file size exceeds maximum")
	ErrImageTooLarge   = errors.New("image dimensions exceed maximum")
	ErrInvalidImage    = errors.New("invalid image: unable to decode")
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// ImageMetadata - метаданные декодированного изображения.
type ImageMetadata struct {
	Width  int
	Height int
	Format string
	Size   int
}

// SavedImage - результат сохранения изображения.
// Path и Thumbnail - URL-безопасные относительные пути (всегда прямые слеши).
type SavedImage struct {
	StoredName string
	Path       string
	Thumbnail  string
	Metadata   ImageMetadata
}

// FileStorage валидирует, сохраняет и удаляет изображения на диске,
// синхронно генерируя миниатюры.
type FileStorage struct {
	uploadsDir    string
	imagesDir     string
	thumbnailsDir string
	logger        *zap.Logger
}

// NewFileStorage создает FileStorage и инициализирует каталоги загрузок.
func NewFileStorage(uploadsDir string, logger *zap.Logger) (*FileStorage, error) {
	fs := &FileStorage{
		uploadsDir:    uploadsDir,
		imagesDir:     filepath.Join(uploadsDir, "images"),
		thumbnailsDir: filepath.Join(uploadsDir, "thumbnails"),
		logger:        logger.Named("FileStorage"),
	}

	for _, dir := range []string{fs.imagesDir, fs.thumbnailsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
		}
	}

	fs.logger.Info("Upload directories initialized",
		zap.String("images", fs.imagesDir),
		zap.String("thumbnails", fs.thumbnailsDir))
	return fs, nil
}

// SaveImage валидирует и сохраняет изображение вместе с миниатюрой.
// Вся валидация выполняется ДО записи на диск: отклоненная загрузка
// не оставляет осиротевших файлов.
func (fs *FileStorage) SaveImage(data []byte, originalFilename, mimeType string) (*SavedImage, error) {
	img, meta, err := fs.validate(data, mimeType)
	if err != nil {
		return nil, err
	}

	ext := filepath.Ext(originalFilename)
	storedName := uuid.NewString() + ext
	imagePath := filepath.Join(fs.imagesDir, storedName)

	if err := os.WriteFile(imagePath, data, 0o644); err != nil {
		fs.logger.Error("Failed to write image file", zap.String("storedName", storedName), zap.Error(err))
		return nil, fmt.Errorf("failed to write image file: %w", err)
	}

	thumbnailName := "thumb_" + storedName
	if err := fs.writeThumbnail(img, thumbnailName); err != nil {
		// Не оставляем оригинал без миниатюры
		os.Remove(imagePath)
		return nil, err
	}

	fs.logger.Info("Image saved",
		zap.String("original", originalFilename),
		zap.String("stored", storedName),
		zap.Int("size", meta.Size),
		zap.String("dimensions", fmt.Sprintf("%dx%d", meta.Width, meta.Height)))

	// Пути в БД хранятся как URL-пути: преобразование файлового пути
	// в URL-путь - явная граница, а не побочный эффект конкатенации.
	return &SavedImage{
		StoredName: storedName,
		Path:       path.Join("uploads", "images", storedName),
		Thumbnail:  path.Join("uploads", "thumbnails", thumbnailName),
		Metadata:   meta,
	}, nil
}

// DeleteImage удаляет оригинал и миниатюру best-effort:
// отсутствующие файлы не считаются ошибкой.
func (fs *FileStorage) DeleteImage(urlPath, thumbnailURLPath string) {
	for _, p := range []string{urlPath, thumbnailURLPath} {
		if p == "" {
			continue
		}
		if err := os.Remove(fs.diskPath(p)); err != nil && !os.IsNotExist(err) {
			fs.logger.Warn("Failed to remove image file", zap.String("path", p), zap.Error(err))
		}
	}
	fs.logger.Info("Image files deleted", zap.String("image", urlPath), zap.String("thumbnail", thumbnailURLPath))
}

// SanitizeFilename отрезает компоненты пути и заменяет небезопасные символы,
// предотвращая path traversal через имя загружаемого файла.
func SanitizeFilename(filename string) string {
	base := filepath.Base(filepath.ToSlash(filename))
	return unsafeFilenameChars.ReplaceAllString(base, "_")
}

// IsSupportedMimeType проверяет MIME-тип по белому списку.
func IsSupportedMimeType(mimeType string) bool {
	for _, m := range SupportedMimeTypes {
		if m == mimeType {
			return true
		}
	}
	return false
}

func (fs *FileStorage) validate(data []byte, mimeType string) (image.Image, ImageMetadata, error) {
	var meta ImageMetadata

	if !IsSupportedMimeType(mimeType) {
		return nil, meta, fmt.Errorf("%w: %s (supported: %s)",
			ErrUnsupportedType, mimeType, strings.Join(SupportedMimeTypes, ", "))
	}
	if len(data) > MaxFileSize {
		return nil, meta, fmt.Errorf("%w: %d bytes (max: %d bytes)", ErrFileTooLarge, len(data), MaxFileSize)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		fs.logger.Warn("Image validation failed", zap.String("mimeType", mimeType), zap.Error(err))
		return nil, meta, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	bounds := img.Bounds()
	meta = ImageMetadata{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Format: format,
		Size:   len(data),
	}

	if meta.Width > MaxImageDimension || meta.Height > MaxImageDimension {
		return nil, meta, fmt.Errorf("%w: %dx%d (max: %dx%d)",
			ErrImageTooLarge, meta.Width, meta.Height, MaxImageDimension, MaxImageDimension)
	}

	return img, meta, nil
}

// writeThumbnail записывает центрированную квадратную JPEG-миниатюру.
func (fs *FileStorage) writeThumbnail(img image.Image, thumbnailName string) error {
	thumb := imaging.Fill(img, ThumbnailSize, ThumbnailSize, imaging.Center, imaging.Lanczos)

	f, err := os.Create(filepath.Join(fs.thumbnailsDir, thumbnailName))
	if err != nil {
		fs.logger.Error("Failed to create thumbnail file", zap.String("thumbnail", thumbnailName), zap.Error(err))
		return fmt.Errorf("failed to create thumbnail file: %w", err)
	}
	defer f.Close()

	// Миниатюра всегда кодируется как JPEG, независимо от формата оригинала
	if err := imaging.Encode(f, thumb, imaging.JPEG, imaging.JPEGQuality(thumbnailQuality)); err != nil {
		fs.logger.Error("Failed to encode thumbnail", zap.String("thumbnail", thumbnailName), zap.Error(err))
		return fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return nil
}

// diskPath переводит хранимый URL-путь ("uploads/images/x.png")
// в файловый путь относительно настроенного каталога загрузок.
func (fs *FileStorage) diskPath(urlPath string) string {
	parts := strings.Split(path.Clean(urlPath), "/")
	if len(parts) > 0 && parts[0] == "uploads" {
		parts = parts[1:]
	}
	return filepath.Join(append([]string{fs.uploadsDir}, parts...)...)
}
