package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Полнотекстовый поиск
// @Description Подстрочный поиск по title/description/content с оценкой релевантности
// @Tags search
// @Produce json
// @Param query query string true "Строка поиска"
// @Param type query []string false "Фильтр по типу (повторяемый)"
// @Param language query []string false "Фильтр по языку (повторяемый)"
// @Param tags query []string false "Фильтр по тегам (повторяемый)"
// @Param limit query int false "Размер страницы (по умолчанию 50)"
// @Param offset query int false "Смещение"
// @Success 200 {object} models.SearchPage "Результаты поиска"
// @Failure 400 {object} models.ErrorResponse "Пустой запрос"
// @Router /api/search/text [get]
func (h *Handler) fullTextSearch(c *gin.Context) {
	page, err := h.search.FullTextSearch(c.Request.Context(), parseSearchFilters(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	searchesTotal.Inc()
	c.JSON(http.StatusOK, page)
}

// @Summary Семантический поиск
// @Description Пока делегирует полнотекстовому поиску
// @Tags search
// @Produce json
// @Param query query string true "Строка поиска"
// @Param limit query int false "Размер страницы (по умолчанию 50)"
// @Success 200 {object} models.SearchPage "Результаты поиска"
// @Failure 400 {object} models.ErrorResponse "Пустой запрос"
// @Router /api/search/semantic [get]
func (h *Handler) semanticSearch(c *gin.Context) {
	page, err := h.search.SemanticSearch(c.Request.Context(), parseSearchFilters(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	searchesTotal.Inc()
	c.JSON(http.StatusOK, page)
}
