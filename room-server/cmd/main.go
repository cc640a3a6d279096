package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Thanush-41/AgriXchange/room-server/internal/events"
	redisStore "github.com/Thanush-41/AgriXchange/room-server/internal/redis"
	wsHandler "github.com/Thanush-41/AgriXchange/room-server/internal/websocket"
	"github.com/Thanush-41/AgriXchange/shared/auth"
	"github.com/Thanush-41/AgriXchange/shared/config"
	"github.com/Thanush-41/AgriXchange/shared/logger"
)

func main() {
	config.LoadDotEnv(".env")
	cfg := loadConfig()
	logger.SetLevel(cfg.LogLevel)
	logger.Info("starting room server", nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Room store
	store, err := redisStore.NewStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatal("failed to connect to Redis", map[string]any{"error": err.Error()})
	}
	defer store.Close()
	logger.Info("connected to Redis", map[string]any{"addr": cfg.RedisAddr})

	// Participation events for archival
	natsConn, err := nats.Connect(cfg.NatsURL)
	if err != nil {
		logger.Fatal("failed to connect to NATS", map[string]any{"error": err.Error()})
	}
	defer natsConn.Close()

	publisher, err := events.NewJetStreamPublisher(ctx, natsConn)
	if err != nil {
		logger.Fatal("failed to set up JetStream", map[string]any{"error": err.Error()})
	}

	// Room fan-out across instances
	subscriber := redisStore.NewSubscriber(store.Client())
	if err := subscriber.SubscribeToRooms(ctx); err != nil {
		logger.Fatal("failed to subscribe to room events", map[string]any{"error": err.Error()})
	}
	defer subscriber.Close()

	hub := wsHandler.NewHub()
	go hub.Run(ctx)

	messageChan := make(chan *redisStore.Message, 256)
	go func() {
		if err := subscriber.Listen(ctx, messageChan); err != nil && ctx.Err() == nil {
			logger.Error("redis listener stopped", map[string]any{"error": err.Error()})
		}
	}()

	// Redis Pub/Sub -> room sessions
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-messageChan:
				hub.Broadcast(msg.RoomID, msg.Payload)
			}
		}
	}()

	authn := auth.NewAuthenticator(cfg.JWTSecret, 0)
	proto := wsHandler.NewProtocol(authn, store, publisher, hub)
	handler := wsHandler.NewHandler(ctx, hub, proto)

	server := &http.Server{
		Addr:        cfg.ServerAddr,
		Handler:     handler.SetupRoutes(),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info("room server listening", map[string]any{"addr": cfg.ServerAddr})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", map[string]any{"error": err.Error()})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down room server", nil)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", map[string]any{"error": err.Error()})
	}
	cancel()

	logger.Info("room server stopped", nil)
}

// Config holds application configuration
type Config struct {
	ServerAddr    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	NatsURL       string
	JWTSecret     string
	LogLevel      string
}

// loadConfig loads configuration from environment variables
func loadConfig() *Config {
	return &Config{
		ServerAddr:    config.GetEnv("SERVER_ADDR", ":8081"),
		RedisAddr:     config.GetEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: config.GetEnv("REDIS_PASSWORD", ""),
		RedisDB:       config.GetEnvInt("REDIS_DB", 0),
		NatsURL:       config.GetEnv("NATS_URL", "nats://localhost:4222"),
		JWTSecret:     config.GetEnv("JWT_SECRET", "dev-secret-change-me"),
		LogLevel:      config.GetEnv("LOG_LEVEL", "info"),
	}
}
