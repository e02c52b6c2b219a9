package util

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"fleetcare/pkg/metrics"
)

const serviceName = "fleet-service"

// RateLimitDecision - результат проверки лимита
type RateLimitDecision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// RateLimiter - счётчик с фиксированным окном в Redis
type RateLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
}

func NewRateLimiter(client *redis.Client, prefix string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client: client,
		prefix: prefix,
		limit:  limit,
		window: window,
	}
}

// Allow увеличивает счётчик ключа в текущем окне и решает, пропускать ли запрос.
// Ключ без времени жизни (новый или оставшийся после сбоя EXPIRE) получает окно заново
func (l *RateLimiter) Allow(ctx context.Context, key string) (RateLimitDecision, error) {
	redisKey := l.prefix + ":" + key

	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpIncr)
	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	ttlCmd := pipe.TTL(ctx, redisKey)
	_, err := pipe.Exec(ctx)
	timer.ObserveDuration()
	if err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpIncr)
		return RateLimitDecision{}, fmt.Errorf("failed to increment rate counter: %w", err)
	}

	count := incr.Val()
	ttl := ttlCmd.Val()

	// -1: ключ существует, но не истекает
	if ttl < 0 {
		timer = metrics.NewRedisTimer(serviceName, metrics.RedisOpExpire)
		err = l.client.Expire(ctx, redisKey, l.window).Err()
		timer.ObserveDuration()
		if err != nil {
			metrics.RecordRedisError(serviceName, metrics.RedisOpExpire)
			return RateLimitDecision{}, fmt.Errorf("failed to set rate window: %w", err)
		}
		ttl = l.window
	}

	decision := RateLimitDecision{
		Allowed:   count <= int64(l.limit),
		Limit:     l.limit,
		Remaining: max(l.limit-int(count), 0),
	}
	if !decision.Allowed {
		decision.RetryAfter = ttl
	}

	return decision, nil
}
