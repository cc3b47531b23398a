package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"prompt-vault/internal/models"
)

// @Summary Список версий промпта
// @Description Возвращает все версии промпта, новые первыми; для неизвестного промпта - пустой список
// @Tags versions
// @Produce json
// @Param promptId path string true "Идентификатор промпта"
// @Success 200 {array} models.PromptVersion "Версии"
// @Router /api/versions/prompt/{promptId} [get]
func (h *Handler) listVersions(c *gin.Context) {
	versions, err := h.versions.ListByPrompt(c.Request.Context(), c.Param("promptId"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, versions)
}

// @Summary Получить версию
// @Description Возвращает версию вместе с владеющим промптом
// @Tags versions
// @Produce json
// @Param id path string true "Идентификатор версии"
// @Success 200 {object} models.PromptVersionWithPrompt "Версия"
// @Failure 404 {object} models.ErrorResponse "Версия не найдена"
// @Router /api/versions/{id} [get]
func (h *Handler) getVersion(c *gin.Context) {
	version, err := h.versions.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, version)
}

// @Summary Создать версию вручную
// @Description Сохраняет новую версию с номером max+1
// @Tags versions
// @Accept json
// @Produce json
// @Param request body createVersionRequest true "Данные версии"
// @Success 201 {object} models.PromptVersion "Созданная версия"
// @Failure 400 {object} models.ErrorResponse "Неверные данные запроса"
// @Failure 404 {object} models.ErrorResponse "Промпт не найден"
// @Router /api/versions [post]
func (h *Handler) createVersion(c *gin.Context) {
	var req createVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	version, err := h.versions.Create(c.Request.Context(), req.PromptID, models.CreateVersionInput{
		Content:   req.Content,
		ChangeLog: req.ChangeLog,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, version)
}

// @Summary Откатить промпт к версии
// @Description Возвращает содержимое промпта к указанной версии, записывая откат как новую версию
// @Tags versions
// @Produce json
// @Param id path string true "Идентификатор версии"
// @Success 200 {object} models.PromptVersion "Версия, созданная откатом"
// @Failure 404 {object} models.ErrorResponse "Версия не найдена"
// @Router /api/versions/{id}/restore [post]
func (h *Handler) restoreVersion(c *gin.Context) {
	restored, err := h.versions.Restore(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"version": restored,
	})
}
