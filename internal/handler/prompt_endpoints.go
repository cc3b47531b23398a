package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"prompt-vault/internal/models"
)

// @Summary Список промптов
// @Description Возвращает страницу промптов с фильтрами и сортировкой
// @Tags prompts
// @Produce json
// @Param type query []string false "Фильтр по типу (повторяемый)"
// @Param language query []string false "Фильтр по языку (повторяемый)"
// @Param tags query []string false "Фильтр по тегам (повторяемый)"
// @Param sortBy query string false "Поле сортировки"
// @Param sortOrder query string false "asc или desc"
// @Param limit query int false "Размер страницы (по умолчанию 50)"
// @Param offset query int false "Смещение"
// @Success 200 {object} models.PromptPage "Страница промптов"
// @Failure 400 {object} models.ErrorResponse "Неизвестное поле сортировки"
// @Router /api/prompts [get]
func (h *Handler) listPrompts(c *gin.Context) {
	page, err := h.prompts.List(c.Request.Context(), parseSearchFilters(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// @Summary Получить промпт
// @Description Возвращает промпт с тегами, последними версиями и запусками
// @Tags prompts
// @Produce json
// @Param id path string true "Идентификатор промпта"
// @Success 200 {object} models.PromptWithRelations "Промпт"
// @Failure 404 {object} models.ErrorResponse "Промпт не найден"
// @Router /api/prompts/{id} [get]
func (h *Handler) getPrompt(c *gin.Context) {
	prompt, err := h.prompts.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, prompt)
}

// @Summary Создать промпт
// @Description Создает промпт с версией #1 и тегами
// @Tags prompts
// @Accept json
// @Produce json
// @Param request body models.CreatePromptInput true "Данные промпта"
// @Success 201 {object} models.PromptWithRelations "Созданный промпт"
// @Failure 400 {object} models.ErrorResponse "Неверные данные запроса"
// @Router /api/prompts [post]
func (h *Handler) createPrompt(c *gin.Context) {
	var req models.CreatePromptInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	prompt, err := h.prompts.Create(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	promptsCreatedTotal.Inc()
	c.JSON(http.StatusCreated, prompt)
}

// @Summary Обновить промпт
// @Description Частичное обновление; изменение content создает новую версию
// @Tags prompts
// @Accept json
// @Produce json
// @Param id path string true "Идентификатор промпта"
// @Param request body models.UpdatePromptInput true "Изменяемые поля"
// @Success 200 {object} models.PromptWithRelations "Обновленный промпт"
// @Failure 400 {object} models.ErrorResponse "Неверные данные запроса"
// @Failure 404 {object} models.ErrorResponse "Промпт не найден"
// @Router /api/prompts/{id} [patch]
func (h *Handler) updatePrompt(c *gin.Context) {
	var req models.UpdatePromptInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	prompt, err := h.prompts.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, prompt)
}

// @Summary Удалить промпт
// @Description Мягкое удаление; версии и история запусков сохраняются
// @Tags prompts
// @Param id path string true "Идентификатор промпта"
// @Success 204 "Удалено"
// @Failure 404 {object} models.ErrorResponse "Промпт не найден"
// @Router /api/prompts/{id} [delete]
func (h *Handler) deletePrompt(c *gin.Context) {
	if err := h.prompts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Дублировать промпт
// @Description Создает копию промпта с суффиксом " (Copy)" и теми же тегами
// @Tags prompts
// @Produce json
// @Param id path string true "Идентификатор исходного промпта"
// @Success 201 {object} models.PromptWithRelations "Копия промпта"
// @Failure 404 {object} models.ErrorResponse "Промпт не найден"
// @Router /api/prompts/{id}/duplicate [post]
func (h *Handler) duplicatePrompt(c *gin.Context) {
	prompt, err := h.prompts.Duplicate(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, prompt)
}

// @Summary Отметить использование промпта
// @Tags prompts
// @Param id path string true "Идентификатор промпта"
// @Success 204 "Счетчик увеличен"
// @Failure 404 {object} models.ErrorResponse "Промпт не найден"
// @Router /api/prompts/{id}/use [post]
func (h *Handler) usePrompt(c *gin.Context) {
	if err := h.prompts.IncrementUsage(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
