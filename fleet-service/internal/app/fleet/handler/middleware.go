package handler

import (
	"context"
	"errors"
	"math"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"fleetcare/fleet-service/internal/app/fleet/entity"
	"fleetcare/fleet-service/internal/app/fleet/util"
	"fleetcare/pkg/logger"
	"fleetcare/pkg/metrics"
)

// Ключи контекста gin, которые заполняет Authenticate
const (
	ContextClaims  = "claims"
	ContextSubject = "subject"
	ContextRole    = "role"
	ContextUserID  = "user_id"
)

// TokenVerifier проверяет подпись и срок действия токена доступа
type TokenVerifier interface {
	ValidateToken(tokenString string) (*util.JWTClaims, error)
}

// RateLimiter решает, пропустить ли очередной запрос с ключом
type RateLimiter interface {
	Allow(ctx context.Context, key string) (util.RateLimitDecision, error)
}

// AccessPolicy - роли, которым разрешено чтение и изменение ресурса
type AccessPolicy struct {
	Read  []entity.Role
	Write []entity.Role
}

var (
	// SharedReadPolicy - читают все роли, изменяет только администратор
	SharedReadPolicy = AccessPolicy{
		Read:  []entity.Role{entity.RoleAdmin, entity.RoleClient},
		Write: []entity.Role{entity.RoleAdmin},
	}
	// AdminOnlyPolicy - любые операции только для администратора
	AdminOnlyPolicy = AccessPolicy{
		Read:  []entity.Role{entity.RoleAdmin},
		Write: []entity.Role{entity.RoleAdmin},
	}
)

type AuthMiddleware struct {
	verifier TokenVerifier
}

func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			reject(c, "missing", "Authorization header required")
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			reject(c, "malformed", "Invalid authorization header format")
			return
		}

		claims, err := m.verifier.ValidateToken(parts[1])
		if err != nil {
			if errors.Is(err, util.ErrExpiredToken) {
				reject(c, "expired", "Token has expired")
				return
			}
			reject(c, "invalid", "Invalid token")
			return
		}

		c.Set(ContextClaims, claims)
		c.Set(ContextSubject, claims.Subject)
		c.Set(ContextRole, claims.Role)
		if claims.UserID != nil {
			c.Set(ContextUserID, *claims.UserID)
		}

		c.Next()
	}
}

// RequireRole пропускает запрос, только если роль из токена входит в roles
func (m *AuthMiddleware) RequireRole(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(ContextRole)
		if !exists {
			reject(c, "missing", "Unauthorized")
			return
		}

		role, ok := value.(entity.Role)
		if !ok {
			reject(c, "invalid", "Unauthorized")
			return
		}

		if !slices.Contains(roles, role) {
			metrics.AuthTokenRejections.WithLabelValues("forbidden").Inc()
			c.AbortWithStatusJSON(http.StatusForbidden, entity.ErrorResponse{
				Error:   "Forbidden",
				Message: "Insufficient permissions",
			})
			return
		}

		c.Next()
	}
}

func reject(c *gin.Context, reason, message string) {
	metrics.AuthTokenRejections.WithLabelValues(reason).Inc()
	c.AbortWithStatusJSON(http.StatusUnauthorized, entity.ErrorResponse{
		Error:   "Unauthorized",
		Message: message,
	})
}

// RateLimit ограничивает частоту запросов с одного IP.
// Недоступность хранилища лимитов не блокирует запросы
func RateLimit(limiter RateLimiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision, err := limiter.Allow(c.Request.Context(), scope+":"+c.ClientIP())
		if err != nil {
			logger.Warn().Err(err).Str("scope", scope).Msg("Rate limiter unavailable, request allowed")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

		if !decision.Allowed {
			metrics.RateLimitRejections.WithLabelValues(scope).Inc()
			retryAfter := int(math.Ceil(decision.RetryAfter.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, entity.ErrorResponse{
				Error:   "Too Many Requests",
				Message: "Too many attempts, try again later",
			})
			return
		}

		c.Next()
	}
}
