package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetcare/fleet-service/internal/app/fleet/entity"
	"fleetcare/fleet-service/internal/app/fleet/service"
	"fleetcare/pkg/logger"
)

// respondError переводит ошибку сервиса в HTTP ответ.
// Всё, что не распознано, уходит клиенту как 500 без подробностей
func respondError(c *gin.Context, err error, id string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Error:   "Bad Request",
			Message: err.Error(),
		})
	case errors.Is(err, service.ErrIDMismatch):
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Error:   "Bad Request",
			Message: "ID in body does not match ID in path",
			ID:      id,
		})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, entity.ErrorResponse{
			Error:   "Not Found",
			Message: "Resource not found",
			ID:      id,
		})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, entity.ErrorResponse{
			Error:   "Unauthorized",
			Message: "Invalid username or password",
		})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, entity.ErrorResponse{
			Error:   "Conflict",
			Message: "Resource already exists",
		})
	default:
		logger.Error().
			Err(err).
			Str("request_id", c.GetString(logger.RequestIDKey)).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "An unexpected error occurred",
		})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, entity.ErrorResponse{
		Error:   "Bad Request",
		Message: message,
	})
}

// statusLabel - значение метки status для метрик ресурсов
func statusLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrIDMismatch):
		return "invalid"
	case errors.Is(err, service.ErrNotFound):
		return "not_found"
	case errors.Is(err, service.ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}
