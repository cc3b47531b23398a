package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"prompt-vault/internal/models"
)

// @Summary Запустить подстановку шаблона
// @Description Подставляет параметры в плейсхолдеры {{key}}; неуспех возвращается как данные со статусом 201
// @Tags executions
// @Accept json
// @Produce json
// @Param request body models.ExecutePromptInput true "Промпт и параметры"
// @Success 201 {object} models.ExecutionResult "Результат запуска"
// @Failure 400 {object} models.ErrorResponse "Неверные данные запроса"
// @Router /api/executions/execute [post]
func (h *Handler) executePrompt(c *gin.Context) {
	var req models.ExecutePromptInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	if req.PromptID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Error: "promptId is required"})
		return
	}

	result, err := h.executions.Execute(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if result.Success {
		executionsTotal.WithLabelValues(string(models.ExecutionStatusSuccess)).Inc()
	} else {
		executionsTotal.WithLabelValues(string(models.ExecutionStatusFailed)).Inc()
	}

	// Неуспех подстановки - валидный результат, а не транспортная ошибка
	c.JSON(http.StatusCreated, result)
}

// @Summary Получить запуск
// @Description Возвращает запуск вместе с владеющим промптом
// @Tags executions
// @Produce json
// @Param id path string true "Идентификатор запуска"
// @Success 200 {object} models.ExecutionWithPrompt "Запуск"
// @Failure 404 {object} models.ErrorResponse "Запуск не найден"
// @Router /api/executions/{id} [get]
func (h *Handler) getExecution(c *gin.Context) {
	execution, err := h.executions.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, execution)
}

// @Summary История запусков промпта
// @Description Возвращает последние запуски промпта (не более 50)
// @Tags executions
// @Produce json
// @Param promptId path string true "Идентификатор промпта"
// @Success 200 {array} models.Execution "Запуски"
// @Router /api/executions/prompt/{promptId} [get]
func (h *Handler) listExecutions(c *gin.Context) {
	executions, err := h.executions.ListByPrompt(c.Request.Context(), c.Param("promptId"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, executions)
}
