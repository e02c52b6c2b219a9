package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"fleetcare/fleet-service/internal/app/fleet/entity"
	"fleetcare/pkg/metrics"
)

const (
	serviceName = "fleet-service"

	healthCheckTimeout = 5 * time.Second

	statusHealthy   = "Healthy"
	statusUnhealthy = "Unhealthy"
)

// HealthCheck - проверка одной внешней зависимости
type HealthCheck struct {
	Name        string
	Description string
	Check       func(ctx context.Context) error
}

// DatabaseHealthCheck пингует PostgreSQL и заодно снимает статистику пула
func DatabaseHealthCheck(db *gorm.DB) HealthCheck {
	return HealthCheck{
		Name:        "database",
		Description: "PostgreSQL connection",
		Check: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			metrics.RecordDbPoolStats(serviceName, sqlDB.Stats())
			timer := metrics.NewDbTimer(serviceName, metrics.DbOpPing, "")
			defer timer.ObserveDuration()
			if err := sqlDB.PingContext(ctx); err != nil {
				metrics.RecordDbError(serviceName, metrics.DbOpPing)
				return err
			}
			return nil
		},
	}
}

// RedisHealthCheck пингует Redis
func RedisHealthCheck(client *redis.Client) HealthCheck {
	return HealthCheck{
		Name:        "redis",
		Description: "Redis connection",
		Check: func(ctx context.Context) error {
			timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpPing)
			defer timer.ObserveDuration()
			if err := client.Ping(ctx).Err(); err != nil {
				metrics.RecordRedisError(serviceName, metrics.RedisOpPing)
				return err
			}
			return nil
		},
	}
}

type HealthHandler struct {
	version     string
	environment string
	checks      []HealthCheck
	timeout     time.Duration
}

func NewHealthHandler(version, environment string, checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{
		version:     version,
		environment: environment,
		checks:      checks,
		timeout:     healthCheckTimeout,
	}
}

// Health выполняет все проверки и отдаёт подробный отчёт
func (h *HealthHandler) Health(c *gin.Context) {
	timer := metrics.NewTimer()
	results, healthy := h.run(c.Request.Context())

	resp := entity.HealthResponse{
		Status:      statusHealthy,
		Timestamp:   time.Now().UTC(),
		DurationMs:  timer.Milliseconds(),
		Version:     h.version,
		Environment: h.environment,
		Checks:      results,
	}

	code := http.StatusOK
	if !healthy {
		resp.Status = statusUnhealthy
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, resp)
}

// Ready - проба готовности, те же проверки без подробностей
func (h *HealthHandler) Ready(c *gin.Context) {
	if _, healthy := h.run(c.Request.Context()); !healthy {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// Live - проба живости, внешние зависимости не проверяются
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

func (h *HealthHandler) run(ctx context.Context) ([]entity.HealthCheckResult, bool) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	results := make([]entity.HealthCheckResult, 0, len(h.checks))
	healthy := true
	for _, check := range h.checks {
		timer := metrics.NewTimer()
		err := check.Check(ctx)

		result := entity.HealthCheckResult{
			Name:        check.Name,
			Status:      statusHealthy,
			Description: check.Description,
			DurationMs:  timer.Milliseconds(),
		}
		if err != nil {
			healthy = false
			result.Status = statusUnhealthy
			result.Error = err.Error()
		}
		results = append(results, result)
	}
	return results, healthy
}
