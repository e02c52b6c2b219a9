package handler

import (
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fleetcare/pkg/logger"
	"fleetcare/pkg/metrics"
)

// ResourceRegistrar регистрирует маршруты одного ресурса
type ResourceRegistrar interface {
	RegisterRoutes(group *gin.RouterGroup, auth *AuthMiddleware, policy AccessPolicy)
}

// ResourceRoute связывает обработчик ресурса с политикой доступа
type ResourceRoute struct {
	Handler ResourceRegistrar
	Policy  AccessPolicy
}

// Handlers - всё, что нужно роутеру
type Handlers struct {
	Auth      *AuthHandler
	Health    *HealthHandler
	Resources []ResourceRoute
}

// SetupRoutes настраивает все маршруты приложения с использованием Gin.
// X-Forwarded-For учитывается только от trustedProxies, при пустом списке
// клиентом считается адрес соединения. loginLimiter может быть nil, тогда вход не ограничивается
func SetupRoutes(apiPrefix string, trustedProxies []string, handlers Handlers, authMiddleware *AuthMiddleware, loginLimiter RateLimiter) (*gin.Engine, error) {
	router := gin.New()

	if err := router.SetTrustedProxies(trustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	// Panic превращается в 500 без подробностей
	router.Use(logger.GinRecoveryMiddleware())

	// JSON logging middleware для HTTP-запросов (ELK Stack)
	router.Use(logger.GinLoggerMiddleware())

	// Prometheus metrics middleware
	router.Use(metrics.GinPrometheusMiddleware(serviceName))

	// CORS настройки
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowWildcard:    true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Location", "X-Request-ID", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	registerHealth(router.Group("/health"), handlers.Health)

	api := router.Group(apiPrefix)
	registerHealth(api.Group("/health"), handlers.Health)

	auth := api.Group("/auth")
	{
		login := []gin.HandlerFunc{handlers.Auth.Login}
		if loginLimiter != nil {
			login = append([]gin.HandlerFunc{RateLimit(loginLimiter, "login")}, login...)
		}
		auth.POST("/login", login...)

		auth.GET("/me", authMiddleware.Authenticate(), handlers.Auth.Me)
	}

	for _, resource := range handlers.Resources {
		resource.Handler.RegisterRoutes(api, authMiddleware, resource.Policy)
	}

	return router, nil
}

func registerHealth(group *gin.RouterGroup, h *HealthHandler) {
	group.GET("", h.Health)
	group.GET("/ready", h.Ready)
	group.GET("/live", h.Live)
}
