package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jvera71/MiniRisk/internal/config"
	"github.com/jvera71/MiniRisk/internal/coordinator"
	"github.com/jvera71/MiniRisk/internal/handler"
	"github.com/jvera71/MiniRisk/internal/logger"
	"github.com/jvera71/MiniRisk/internal/middleware"
	"github.com/jvera71/MiniRisk/internal/repository/postgres"
	redisrepo "github.com/jvera71/MiniRisk/internal/repository/redis"
	"github.com/jvera71/MiniRisk/internal/service"
	"github.com/jvera71/MiniRisk/pkg/risk"
)

func main() {
	logger.Init()
	cfg := config.Load()
	log.Info().Str("databaseURL", cfg.DatabaseURL).Msg("Config loaded")

	// Database
	db, err := postgres.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Database connection failed")
	}
	defer db.Close()

	// Redis
	redisClient, err := redisrepo.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Redis connection failed")
	}
	defer redisClient.Close()

	// Archive
	matchRepo := postgres.NewMatchRepo(db)

	// Rules engine and match registry
	engine := risk.NewEngine(nil, nil, risk.Options{
		NeutralInitialArmies: cfg.NeutralInitialArmies,
	})
	coord := coordinator.New(cfg.LockWaitTimeout)

	// WebSocket hub
	wsHub := handler.NewHub()

	// Services
	matchSvc := service.NewMatchService(coord, engine, redisClient, matchRepo)

	// Handlers
	matchHandler := handler.NewMatchHandler(matchSvc)
	wsHandler := handler.NewWSHandler(wsHub, matchSvc)

	// Router
	mux := http.NewServeMux()

	// Health
	mux.HandleFunc("GET /healthz", matchHandler.Health)

	// REST API (lobby browsing and match creation)
	mux.HandleFunc("POST /api/v1/matches", matchHandler.CreateMatch)
	mux.HandleFunc("GET /api/v1/matches", matchHandler.ListMatches)
	mux.HandleFunc("GET /api/v1/matches/{id}", matchHandler.GetMatch)

	// WebSocket (all in-match actions flow through here)
	mux.HandleFunc("GET /api/v1/ws", wsHandler.ServeWS)

	// Apply global middleware
	root := middleware.Chain(mux, middleware.Logger, middleware.CORS("*"), middleware.JSON)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown error")
	}
	log.Info().Msg("Server stopped")
}
