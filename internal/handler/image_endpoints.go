package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"prompt-vault/internal/models"
	"prompt-vault/internal/storage"
)

// @Summary Загрузить изображение
// @Description Принимает один файл в multipart-поле "file", валидирует и создает миниатюру
// @Tags images
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Идентификатор промпта"
// @Param file formData file true "Файл изображения (jpeg/png/gif/webp, до 5 МБ)"
// @Success 201 {object} models.PromptImage "Загруженное изображение"
// @Failure 400 {object} models.ErrorResponse "Файл не прошел валидацию"
// @Failure 404 {object} models.ErrorResponse "Промпт не найден"
// @Router /api/prompts/{id}/images [post]
func (h *Handler) uploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: "File field is required"})
		return
	}
	if fileHeader.Size > storage.MaxFileSize {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: storage.ErrFileTooLarge.Error()})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: "Failed to open uploaded file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: "Failed to read uploaded file"})
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	img, err := h.images.Upload(c.Request.Context(), c.Param("id"), fileHeader.Filename, mimeType, data)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	imagesUploadedTotal.Inc()
	c.JSON(http.StatusCreated, img)
}

// @Summary Изображения промпта
// @Tags images
// @Produce json
// @Param id path string true "Идентификатор промпта"
// @Success 200 {array} models.PromptImage "Изображения"
// @Failure 404 {object} models.ErrorResponse "Промпт не найден"
// @Router /api/prompts/{id}/images [get]
func (h *Handler) listImages(c *gin.Context) {
	images, err := h.images.ListByPrompt(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, images)
}

// @Summary Удалить изображение
// @Description Удаляет запись и файлы оригинала и миниатюры
// @Tags images
// @Param id path string true "Идентификатор изображения"
// @Success 204 "Удалено"
// @Failure 404 {object} models.ErrorResponse "Изображение не найдено"
// @Router /api/images/{id} [delete]
func (h *Handler) deleteImage(c *gin.Context) {
	if err := h.images.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
