package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prompt-vault/internal/service"
)

// Handler объединяет все HTTP-эндпоинты приложения.
type Handler struct {
	prompts    *service.PromptService
	tags       *service.TagService
	versions   *service.VersionService
	executions *service.ExecutionService
	search     *service.SearchService
	settings   *service.SettingsService
	images     *service.ImageService
	logger     *zap.Logger
}

// NewHandler создает новый Handler.
func NewHandler(
	prompts *service.PromptService,
	tags *service.TagService,
	versions *service.VersionService,
	executions *service.ExecutionService,
	search *service.SearchService,
	settings *service.SettingsService,
	images *service.ImageService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		prompts:    prompts,
		tags:       tags,
		versions:   versions,
		executions: executions,
		search:     search,
		settings:   settings,
		images:     images,
		logger:     logger.Named("Handler"),
	}
}

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.GET("/health", h.health)

		prompts := api.Group("/prompts")
		{
			prompts.GET("", h.listPrompts)
			prompts.POST("", h.createPrompt)
			prompts.GET("/:id", h.getPrompt)
			prompts.PATCH("/:id", h.updatePrompt)
			prompts.DELETE("/:id", h.deletePrompt)
			prompts.POST("/:id/duplicate", h.duplicatePrompt)
			prompts.POST("/:id/use", h.usePrompt)
			prompts.POST("/:id/images", h.uploadImage)
			prompts.GET("/:id/images", h.listImages)
		}

		tags := api.Group("/tags")
		{
			tags.GET("", h.listTags)
			tags.POST("", h.createTag)
			tags.GET("/:id", h.getTag)
			tags.PATCH("/:id", h.updateTag)
			tags.DELETE("/:id", h.deleteTag)
		}

		versions := api.Group("/versions")
		{
			versions.GET("/prompt/:promptId", h.listVersions)
			versions.GET("/:id", h.getVersion)
			versions.POST("", h.createVersion)
			versions.POST("/:id/restore", h.restoreVersion)
		}

		executions := api.Group("/executions")
		{
			executions.GET("/prompt/:promptId", h.listExecutions)
			executions.GET("/:id", h.getExecution)
			executions.POST("/execute", h.executePrompt)
		}

		search := api.Group("/search")
		{
			search.GET("/text", h.fullTextSearch)
			search.GET("/semantic", h.semanticSearch)
		}

		settings := api.Group("/settings")
		{
			settings.GET("", h.getAllSettings)
			settings.GET("/:key", h.getSetting)
			settings.PUT("/:key", h.setSetting)
		}

		api.DELETE("/images/:id", h.deleteImage)
	}
}

// @Summary Проверка живости сервиса
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{} "Статус сервиса"
// @Router /api/health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
