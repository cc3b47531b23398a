package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"prompt-vault/internal/models"
)

// --- Request Structs ---

type createVersionRequest struct {
	PromptID  string  `json:"promptId" binding:"required"`
	Content   string  `json:"content"`
	ChangeLog *string `json:"changeLog"`
}

type setSettingRequest struct {
	Value interface{} `json:"value"`
}

// parseSearchFilters разбирает общие параметры фильтрации списков и поиска.
// Параметры type, language и tags повторяемые.
func parseSearchFilters(c *gin.Context) models.SearchFilters {
	f := models.SearchFilters{
		Query:     c.Query("query"),
		SortBy:    c.Query("sortBy"),
		SortOrder: models.SortOrder(c.Query("sortOrder")),
	}

	for _, t := range c.QueryArray("type") {
		f.Types = append(f.Types, models.PromptType(t))
	}
	for _, l := range c.QueryArray("language") {
		f.Languages = append(f.Languages, models.Language(l))
	}
	f.Tags = c.QueryArray("tags")

	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			f.Limit = limit
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if offset, err := strconv.Atoi(raw); err == nil {
			f.Offset = offset
		}
	}
	return f
}
