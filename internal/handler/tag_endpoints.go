package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"prompt-vault/internal/models"
)

// @Summary Список тегов
// @Description Возвращает все теги с количеством промптов, по алфавиту
// @Tags tags
// @Produce json
// @Success 200 {array} models.TagWithCount "Теги"
// @Router /api/tags [get]
func (h *Handler) listTags(c *gin.Context) {
	tags, err := h.tags.List(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

// @Summary Получить тег
// @Tags tags
// @Produce json
// @Param id path string true "Идентификатор тега"
// @Success 200 {object} models.TagWithCount "Тег"
// @Failure 404 {object} models.ErrorResponse "Тег не найден"
// @Router /api/tags/{id} [get]
func (h *Handler) getTag(c *gin.Context) {
	tag, err := h.tags.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

// @Summary Создать тег
// @Description Создает тег; пустой цвет выбирается из палитры автоматически
// @Tags tags
// @Accept json
// @Produce json
// @Param request body models.CreateTagInput true "Данные тега"
// @Success 201 {object} models.Tag "Созданный тег"
// @Failure 400 {object} models.ErrorResponse "Неверные данные запроса"
// @Failure 409 {object} models.ErrorResponse "Имя тега занято"
// @Router /api/tags [post]
func (h *Handler) createTag(c *gin.Context) {
	var req models.CreateTagInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	tag, err := h.tags.Create(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tag)
}

// @Summary Обновить тег
// @Tags tags
// @Accept json
// @Produce json
// @Param id path string true "Идентификатор тега"
// @Param request body models.UpdateTagInput true "Изменяемые поля"
// @Success 200 {object} models.TagWithCount "Обновленный тег"
// @Failure 404 {object} models.ErrorResponse "Тег не найден"
// @Failure 409 {object} models.ErrorResponse "Имя тега занято"
// @Router /api/tags/{id} [patch]
func (h *Handler) updateTag(c *gin.Context) {
	var req models.UpdateTagInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	tag, err := h.tags.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

// @Summary Удалить тег
// @Description Удаляет тег и его связи с промптами
// @Tags tags
// @Param id path string true "Идентификатор тега"
// @Success 204 "Удалено"
// @Failure 404 {object} models.ErrorResponse "Тег не найден"
// @Router /api/tags/{id} [delete]
func (h *Handler) deleteTag(c *gin.Context) {
	if err := h.tags.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
