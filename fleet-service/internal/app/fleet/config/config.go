package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"fleetcare/fleet-service/internal/app/fleet/entity"
)

var (
	ErrMissingJWTSecret   = errors.New("JWT_SECRET is required")
	ErrMissingJWTIssuer   = errors.New("JWT_ISSUER is required")
	ErrMissingJWTAudience = errors.New("JWT_AUDIENCE is required")
)

// Config содержит все настройки приложения
type Config struct {
	Environment  string
	Version      string
	LogLevel     string
	LogstashAddr string
	APIPrefix    string
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Auth         AuthConfig
	RateLimit    RateLimitConfig
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Host           string
	Port           string
	// Прокси, которым доверяется X-Forwarded-For. Пусто - не доверять никому
	TrustedProxies []string
}

// DatabaseConfig - настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	DBName      string
	SSLMode     string
	AutoMigrate bool
}

// RedisConfig - настройки подключения к Redis. Пустой Host отключает Redis
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// JWTConfig - настройки для JWT токенов
type JWTConfig struct {
	SecretKey           string
	Issuer              string
	Audience            string
	AccessTokenDuration time.Duration
}

// StaticCredential - учётная запись из статического списка
type StaticCredential struct {
	Username string
	Secret   string
	Role     entity.Role
}

// AuthConfig - источники учётных данных
type AuthConfig struct {
	StaticUsers []StaticCredential
}

// RateLimitConfig - ограничение частоты попыток входа
type RateLimitConfig struct {
	LoginRequests int
	LoginWindow   time.Duration
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	accessDuration, err := time.ParseDuration(getEnv("JWT_ACCESS_DURATION", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_DURATION: %w", err)
	}

	loginWindow, err := time.ParseDuration(getEnv("RATE_LIMIT_LOGIN_WINDOW", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_LOGIN_WINDOW: %w", err)
	}

	staticUsers, err := parseStaticUsers(os.Getenv("AUTH_STATIC_USERS"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_STATIC_USERS: %w", err)
	}

	cfg := &Config{
		Environment:  getEnv("APP_ENV", "development"),
		Version:      getEnv("APP_VERSION", "1.0.0"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogstashAddr: os.Getenv("LOGSTASH_ADDR"),
		APIPrefix:    getEnv("API_PREFIX", "/api/v1"),
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnv("SERVER_PORT", "8080"),
			TrustedProxies: parseList(os.Getenv("TRUSTED_PROXIES")),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			DBName:      getEnv("DB_NAME", "fleetcare"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			AutoMigrate: getEnvBool("DB_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			Host:     os.Getenv("REDIS_HOST"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			SecretKey:           os.Getenv("JWT_SECRET"),
			Issuer:              os.Getenv("JWT_ISSUER"),
			Audience:            os.Getenv("JWT_AUDIENCE"),
			AccessTokenDuration: accessDuration,
		},
		Auth: AuthConfig{
			StaticUsers: staticUsers,
		},
		RateLimit: RateLimitConfig{
			LoginRequests: getEnvInt("RATE_LIMIT_LOGIN_REQUESTS", 10),
			LoginWindow:   loginWindow,
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.JWT.SecretKey == "":
		return ErrMissingJWTSecret
	case c.JWT.Issuer == "":
		return ErrMissingJWTIssuer
	case c.JWT.Audience == "":
		return ErrMissingJWTAudience
	case c.JWT.AccessTokenDuration <= 0:
		return fmt.Errorf("JWT_ACCESS_DURATION must be positive")
	case c.RateLimit.LoginRequests <= 0:
		return fmt.Errorf("RATE_LIMIT_LOGIN_REQUESTS must be positive")
	}
	return nil
}

// DSN возвращает строку подключения к PostgreSQL
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Enabled сообщает, настроен ли Redis
func (c *RedisConfig) Enabled() bool {
	return c.Host != ""
}

// Address возвращает адрес Redis в формате host:port
func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

// Address возвращает адрес сервера в формате host:port
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// parseStaticUsers разбирает список вида "admin:admin123:ADMIN,user:user123:CLIENT"
func parseStaticUsers(raw string) ([]StaticCredential, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var users []StaticCredential
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		parts := strings.Split(item, ":")
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("entry %q must look like name:secret:ROLE", item)
		}

		role, ok := entity.ParseRole(parts[2])
		if !ok {
			return nil, fmt.Errorf("entry %q has unknown role %q", parts[0], parts[2])
		}

		users = append(users, StaticCredential{
			Username: parts[0],
			Secret:   parts[1],
			Role:     role,
		})
	}

	return users, nil
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
// parseList разбирает список через запятую, пустые элементы пропускаются
func parseList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает значение переменной окружения как int
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
