package util

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RateLimiterTestSuite struct {
	suite.Suite
	miniRedis *miniredis.Miniredis
	client    *redis.Client
	limiter   *RateLimiter
	ctx       context.Context
}

func (s *RateLimiterTestSuite) SetupSuite() {
	var err error
	s.miniRedis, err = miniredis.Run()
	require.NoError(s.T(), err)

	s.client = redis.NewClient(&redis.Options{Addr: s.miniRedis.Addr()})
	s.ctx = context.Background()
}

func (s *RateLimiterTestSuite) TearDownSuite() {
	s.client.Close()
	s.miniRedis.Close()
}

func (s *RateLimiterTestSuite) SetupTest() {
	s.miniRedis.FlushAll()
	s.limiter = NewRateLimiter(s.client, "ratelimit:login", 3, time.Minute)
}

func TestRateLimiterSuite(t *testing.T) {
	suite.Run(t, new(RateLimiterTestSuite))
}

func (s *RateLimiterTestSuite) TestAllow_UnderLimit() {
	// Act
	decision, err := s.limiter.Allow(s.ctx, "10.0.0.1")

	// Assert
	require.NoError(s.T(), err)
	assert.True(s.T(), decision.Allowed)
	assert.Equal(s.T(), 3, decision.Limit)
	assert.Equal(s.T(), 2, decision.Remaining)
	assert.True(s.T(), s.miniRedis.Exists("ratelimit:login:10.0.0.1"))
	assert.Equal(s.T(), time.Minute, s.miniRedis.TTL("ratelimit:login:10.0.0.1"))
}

func (s *RateLimiterTestSuite) TestAllow_ExceedsLimit() {
	// Arrange
	for i := 0; i < 3; i++ {
		decision, err := s.limiter.Allow(s.ctx, "10.0.0.1")
		require.NoError(s.T(), err)
		require.True(s.T(), decision.Allowed)
	}

	// Act
	decision, err := s.limiter.Allow(s.ctx, "10.0.0.1")

	// Assert
	require.NoError(s.T(), err)
	assert.False(s.T(), decision.Allowed)
	assert.Equal(s.T(), 0, decision.Remaining)
	assert.Equal(s.T(), time.Minute, decision.RetryAfter)
}

func (s *RateLimiterTestSuite) TestAllow_KeysAreIndependent() {
	// Arrange
	for i := 0; i < 4; i++ {
		_, _ = s.limiter.Allow(s.ctx, "10.0.0.1")
	}

	// Act
	decision, err := s.limiter.Allow(s.ctx, "10.0.0.2")

	// Assert
	require.NoError(s.T(), err)
	assert.True(s.T(), decision.Allowed)
}

func (s *RateLimiterTestSuite) TestAllow_WindowResets() {
	// Arrange
	for i := 0; i < 4; i++ {
		_, _ = s.limiter.Allow(s.ctx, "10.0.0.1")
	}
	s.miniRedis.FastForward(time.Minute + time.Second)

	// Act
	decision, err := s.limiter.Allow(s.ctx, "10.0.0.1")

	// Assert
	require.NoError(s.T(), err)
	assert.True(s.T(), decision.Allowed)
	assert.Equal(s.T(), 2, decision.Remaining)
}

func (s *RateLimiterTestSuite) TestAllow_RepairsKeyWithoutExpiry() {
	// Arrange: счётчик остался без TTL после сбоя EXPIRE
	require.NoError(s.T(), s.miniRedis.Set("ratelimit:login:192.0.2.1", "3"))
	require.Zero(s.T(), s.miniRedis.TTL("ratelimit:login:192.0.2.1"))

	// Act
	blocked, err := s.limiter.Allow(s.ctx, "192.0.2.1")
	require.NoError(s.T(), err)
	s.miniRedis.FastForward(time.Minute + time.Second)
	afterWindow, err := s.limiter.Allow(s.ctx, "192.0.2.1")

	// Assert
	require.NoError(s.T(), err)
	assert.False(s.T(), blocked.Allowed)
	assert.Equal(s.T(), time.Minute, blocked.RetryAfter)
	assert.True(s.T(), afterWindow.Allowed)
	assert.Equal(s.T(), 2, afterWindow.Remaining)
	assert.Equal(s.T(), time.Minute, s.miniRedis.TTL("ratelimit:login:192.0.2.1"))
}

func TestRateLimiter_RedisUnavailable(t *testing.T) {
	// Arrange
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	mr.Close()

	limiter := NewRateLimiter(client, "ratelimit:login", 3, time.Minute)

	// Act
	_, err = limiter.Allow(context.Background(), "10.0.0.1")

	// Assert
	assert.Error(t, err)
}
