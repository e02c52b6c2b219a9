package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetcare/fleet-service/internal/app/fleet/entity"
	"fleetcare/fleet-service/internal/app/fleet/service"
	"fleetcare/fleet-service/internal/app/fleet/util"
	"fleetcare/pkg/metrics"
)

type AuthHandler struct {
	authService service.AuthServiceInterface
}

func NewAuthHandler(authService service.AuthServiceInterface) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req entity.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.AuthLogins.WithLabelValues("invalid").Inc()
		badRequest(c, "Invalid request body")
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			metrics.AuthLogins.WithLabelValues("failed").Inc()
		case errors.Is(err, service.ErrValidation):
			metrics.AuthLogins.WithLabelValues("invalid").Inc()
		}
		respondError(c, err, "")
		return
	}

	metrics.AuthLogins.WithLabelValues("success").Inc()
	metrics.AuthTokensIssued.WithLabelValues("access").Inc()

	c.JSON(http.StatusOK, resp)
}

// Me возвращает данные из проверенного токена
func (h *AuthHandler) Me(c *gin.Context) {
	value, exists := c.Get(ContextClaims)
	if !exists {
		reject(c, "missing", "Unauthorized")
		return
	}

	claims, ok := value.(*util.JWTClaims)
	if !ok {
		reject(c, "invalid", "Unauthorized")
		return
	}

	resp := entity.MeResponse{
		Subject: claims.Subject,
		Name:    claims.Name,
		Role:    claims.Role,
		UserID:  claims.UserID,
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Time
	}

	c.JSON(http.StatusOK, resp)
}
