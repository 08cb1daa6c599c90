package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/hackrx/chatgateway/aiservice"
	"github.com/hackrx/chatgateway/api"
	"github.com/hackrx/chatgateway/config"
	"github.com/hackrx/chatgateway/logging"
	"github.com/hackrx/chatgateway/service"
	"github.com/hackrx/chatgateway/store"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(nil, cfg.LogLevel)
	log.Info().
		Int("port", cfg.HTTPPort).
		Str("database", cfg.DatabaseURL).
		Str("ai_service", cfg.AIServiceURL).
		Str("env", cfg.Env).
		Msg("starting chat gateway")

	// Initialize store
	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize store")
	}
	defer db.Close()

	// Initialize AI service client
	aiClient := aiservice.NewClient(cfg.AIServiceURL, cfg.AIServiceAPIKey, aiservice.Timeouts{
		Chat:   cfg.ChatTimeout,
		Run:    cfg.RunTimeout,
		Health: cfg.HealthTimeout,
	})
	if !aiClient.HasAPIKey() {
		log.Warn().Msg("AI_SERVICE_API_KEY not set; outbound calls will be unauthenticated")
	}

	// Initialize service and handlers
	svc := service.New(db, aiClient, logging.Sub(log, "service"))
	h := api.NewHandler(svc, cfg, logging.Sub(log, "api"))

	// Create Echo server
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowCredentials: true,
	}))

	// Register routes
	h.RegisterRoutes(e)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	log.Info().Int("port", cfg.HTTPPort).Msg("chat gateway started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down chat gateway")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to shutdown server gracefully")
	}

	log.Info().Msg("chat gateway stopped")
}
