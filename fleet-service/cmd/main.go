package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"fleetcare/fleet-service/internal/app/fleet/config"
	"fleetcare/fleet-service/internal/app/fleet/entity"
	"fleetcare/fleet-service/internal/app/fleet/handler"
	"fleetcare/fleet-service/internal/app/fleet/repository"
	"fleetcare/fleet-service/internal/app/fleet/service"
	"fleetcare/fleet-service/internal/app/fleet/util"
	"fleetcare/pkg/logger"
)

const serviceName = "fleet-service"

func main() {
	// .env нужен только для локального запуска
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(serviceName, cfg.LogLevel)
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		logger.Warn().Err(envErr).Msg("Failed to read .env file")
	}

	if cfg.LogstashAddr != "" {
		if err := logger.InitLogstash(cfg.LogstashAddr, serviceName, cfg.LogLevel); err != nil {
			logger.Warn().Err(err).Msg("Failed to connect to Logstash, using stdout only")
		} else {
			logger.Info().Str("logstash_addr", cfg.LogstashAddr).Msg("Connected to Logstash")
		}
	}

	db, err := connectDB(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	logger.Info().
		Str("host", cfg.Database.Host).
		Str("database", cfg.Database.DBName).
		Msg("Connected to PostgreSQL")

	if cfg.Database.AutoMigrate {
		if err := repository.AutoMigrate(db); err != nil {
			logger.Fatal().Err(err).Msg("Failed to migrate database")
		}
		logger.Info().Msg("Database schema is up to date")
	}

	healthChecks := []handler.HealthCheck{handler.DatabaseHealthCheck(db)}

	// Redis необязателен: без него вход не ограничивается по частоте
	var loginLimiter handler.RateLimiter
	if cfg.Redis.Enabled() {
		redisClient, err := util.NewRedisClient(cfg.Redis.Address(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal().Err(err).Str("addr", cfg.Redis.Address()).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()
		logger.Info().Str("addr", cfg.Redis.Address()).Msg("Connected to Redis")

		loginLimiter = util.NewRateLimiter(redisClient, "ratelimit", cfg.RateLimit.LoginRequests, cfg.RateLimit.LoginWindow)
		healthChecks = append(healthChecks, handler.RedisHealthCheck(redisClient))
	} else {
		logger.Warn().Msg("REDIS_HOST is not set, login rate limiting is disabled")
	}

	jwtManager, err := util.NewJWTManager(util.JWTSettings{
		SecretKey:      cfg.JWT.SecretKey,
		Issuer:         cfg.JWT.Issuer,
		Audience:       cfg.JWT.Audience,
		AccessDuration: cfg.JWT.AccessTokenDuration,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize JWT manager")
	}

	vehicleRepo := repository.NewVehicleRepository(db)
	userRepo := repository.NewUserRepository(db)
	historyRepo := repository.NewMaintenanceHistoryRepository(db)

	credentials := service.NewChainCredentialValidator(
		service.NewStaticCredentialValidator(staticAccounts(cfg.Auth.StaticUsers)...),
		service.NewUserStoreCredentialValidator(userRepo),
	)
	authService := service.NewAuthService(credentials, jwtManager)

	links := util.NewLinkBuilder()
	handlers := handler.Handlers{
		Auth:   handler.NewAuthHandler(authService),
		Health: handler.NewHealthHandler(cfg.Version, cfg.Environment, healthChecks...),
		Resources: []handler.ResourceRoute{
			{
				Handler: handler.NewResourceHandler[entity.Vehicle, *entity.Vehicle](service.NewVehicleService(vehicleRepo), links),
				Policy:  handler.SharedReadPolicy,
			},
			{
				Handler: handler.NewResourceHandler[entity.User, *entity.User](service.NewUserService(userRepo), links),
				Policy:  handler.AdminOnlyPolicy,
			},
			{
				Handler: handler.NewResourceHandler[entity.MaintenanceHistory, *entity.MaintenanceHistory](service.NewMaintenanceHistoryService(historyRepo), links),
				Policy:  handler.SharedReadPolicy,
			},
		},
	}

	router, err := handler.SetupRoutes(cfg.APIPrefix, cfg.Server.TrustedProxies, handlers, handler.NewAuthMiddleware(jwtManager), loginLimiter)
	if err != nil {
		logger.Fatal().Err(err).Strs("trusted_proxies", cfg.Server.TrustedProxies).Msg("Failed to set up router")
	}

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Str("environment", cfg.Environment).
			Str("version", cfg.Version).
			Msg("Starting Fleet Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Fleet Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Info().Msg("Fleet Service stopped gracefully")
}

func connectDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	var db *gorm.DB
	var err error

	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
		if err == nil {
			sqlDB, sqlErr := db.DB()
			if sqlErr != nil {
				err = sqlErr
			} else if err = sqlDB.Ping(); err == nil {
				sqlDB.SetMaxOpenConns(25)
				sqlDB.SetMaxIdleConns(5)
				sqlDB.SetConnMaxLifetime(5 * time.Minute)
				sqlDB.SetConnMaxIdleTime(1 * time.Minute)
				return db, nil
			}
		}
		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to database, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
}

func staticAccounts(users []config.StaticCredential) []service.StaticAccount {
	accounts := make([]service.StaticAccount, 0, len(users))
	for _, u := range users {
		accounts = append(accounts, service.StaticAccount{
			Username: u.Username,
			Secret:   u.Secret,
			Role:     u.Role,
		})
	}
	return accounts
}
