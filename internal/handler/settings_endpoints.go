package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"prompt-vault/internal/models"
)

// @Summary Все настройки
// @Description Возвращает карту ключ -> значение всех настроек приложения
// @Tags settings
// @Produce json
// @Success 200 {object} map[string]interface{} "Настройки"
// @Router /api/settings [get]
func (h *Handler) getAllSettings(c *gin.Context) {
	settings, err := h.settings.GetAll(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// @Summary Получить настройку
// @Tags settings
// @Produce json
// @Param key path string true "Ключ настройки"
// @Success 200 {object} models.AppSetting "Настройка"
// @Failure 404 {object} models.ErrorResponse "Настройка не найдена"
// @Router /api/settings/{key} [get]
func (h *Handler) getSetting(c *gin.Context) {
	setting, err := h.settings.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, setting)
}

// @Summary Записать настройку
// @Description Записывает значение по ключу; существующий ключ перезаписывается
// @Tags settings
// @Accept json
// @Produce json
// @Param key path string true "Ключ настройки"
// @Param request body setSettingRequest true "Новое значение"
// @Success 200 {object} models.AppSetting "Записанная настройка"
// @Failure 400 {object} models.ErrorResponse "Неверные данные запроса"
// @Router /api/settings/{key} [put]
func (h *Handler) setSetting(c *gin.Context) {
	var req setSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	setting, err := h.settings.Set(c.Request.Context(), c.Param("key"), req.Value)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, setting)
}
