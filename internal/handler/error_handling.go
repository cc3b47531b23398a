package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prompt-vault/internal/models"
	"prompt-vault/internal/storage"
)

func handleServiceError(c *gin.Context, err error) {
	var statusCode int
	var errResp models.ErrorResponse

	switch {
	case errors.Is(err, models.ErrPromptNotFound):
		statusCode = http.StatusNotFound
		errResp = models.ErrorResponse{Error: "Prompt not found"}
	case errors.Is(err, models.ErrTagNotFound):
		statusCode = http.StatusNotFound
		errResp = models.ErrorResponse{Error: "Tag not found"}
	case errors.Is(err, models.ErrVersionNotFound):
		statusCode = http.StatusNotFound
		errResp = models.ErrorResponse{Error: "Version not found"}
	case errors.Is(err, models.ErrExecutionNotFound):
		statusCode = http.StatusNotFound
		errResp = models.ErrorResponse{Error: "Execution not found"}
	case errors.Is(err, models.ErrImageNotFound):
		statusCode = http.StatusNotFound
		errResp = models.ErrorResponse{Error: "Image not found"}
	case errors.Is(err, models.ErrSettingNotFound):
		statusCode = http.StatusNotFound
		errResp = models.ErrorResponse{Error: "Setting not found"}
	case errors.Is(err, models.ErrTagAlreadyExists):
		statusCode = http.StatusConflict
		errResp = models.ErrorResponse{Error: "Tag with this name already exists"}
	case errors.Is(err, storage.ErrUnsupportedType),
		errors.Is(err, storage.ErrFileTooLarge),
		errors.Is(err, storage.ErrImageTooLarge),
		errors.Is(err, storage.ErrInvalidImage):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Error: err.Error()}
	case errors.Is(err, models.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Error: err.Error()}
	case strings.Contains(err.Error(), "validation error"):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Error: err.Error()}
	default:
		zap.L().Error("Unhandled internal error in handleServiceError", zap.Error(err))
		statusCode = http.StatusInternalServerError
		errResp = models.ErrorResponse{Error: "An unexpected internal error occurred"}
	}

	c.AbortWithStatusJSON(statusCode, errResp)
}
