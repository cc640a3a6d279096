package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Thanush-41/AgriXchange/api-gateway/internal/handlers"
	redisClient "github.com/Thanush-41/AgriXchange/api-gateway/internal/redis"
	"github.com/Thanush-41/AgriXchange/api-gateway/internal/service"
	"github.com/Thanush-41/AgriXchange/shared/auth"
	"github.com/Thanush-41/AgriXchange/shared/config"
	"github.com/Thanush-41/AgriXchange/shared/logger"
)

func main() {
	config.LoadDotEnv(".env")
	cfg := loadConfig()
	logger.SetLevel(cfg.LogLevel)
	logger.Info("starting API gateway", nil)

	redis, err := redisClient.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatal("failed to connect to Redis", map[string]any{"error": err.Error()})
	}
	defer redis.Close()
	logger.Info("connected to Redis", map[string]any{"addr": cfg.RedisAddr})

	authn := auth.NewAuthenticator(cfg.JWTSecret, cfg.TokenTTL)
	catalogService := service.NewCatalogService(redis, authn)

	if cfg.SeedCatalog {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := catalogService.Seed(ctx)
		cancel()
		if err != nil {
			logger.Fatal("failed to seed catalog", map[string]any{"error": err.Error()})
		}
	}

	handler := handlers.NewHandler(catalogService, authn)

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      handler.SetupRoutes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("API gateway listening", map[string]any{"addr": cfg.ServerAddr})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", map[string]any{"error": err.Error()})
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down API gateway", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", map[string]any{"error": err.Error()})
	}

	logger.Info("API gateway stopped", nil)
}

// Config holds application configuration
type Config struct {
	ServerAddr    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	JWTSecret     string
	TokenTTL      time.Duration
	SeedCatalog   bool
	LogLevel      string
}

// loadConfig loads configuration from environment variables
func loadConfig() *Config {
	return &Config{
		ServerAddr:    config.GetEnv("SERVER_ADDR", ":8080"),
		RedisAddr:     config.GetEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: config.GetEnv("REDIS_PASSWORD", ""),
		RedisDB:       config.GetEnvInt("REDIS_DB", 0),
		JWTSecret:     config.GetEnv("JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:      config.GetEnvDuration("TOKEN_TTL", 24*time.Hour),
		SeedCatalog:   config.GetEnv("SEED_CATALOG", "true") == "true",
		LogLevel:      config.GetEnv("LOG_LEVEL", "info"),
	}
}
