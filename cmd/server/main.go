package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mesa-rpg/api/internal/config"
	"github.com/mesa-rpg/api/internal/database"
	"github.com/mesa-rpg/api/internal/handlers"
	"github.com/mesa-rpg/api/internal/middleware"
	"github.com/mesa-rpg/api/internal/redis"
	"github.com/mesa-rpg/api/internal/store"
)

func main() {
	// Load configuration from .env and the environment
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[API] Invalid configuration: %v", err)
	}

	// Redis is optional; it only serializes id allocation across instances
	var locker database.Locker
	if cfg.Redis.Enabled() {
		log.Println("[API] Initializing Redis connection...")
		redisClient, err := redis.NewClient(&cfg.Redis)
		if err != nil {
			log.Fatalf("[API] Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		locker = redisClient
	}

	// Initialize database connection
	log.Println("[API] Initializing database connection...")
	db, err := database.NewConnection(&cfg.Database, locker)
	if err != nil {
		log.Fatalf("[API] Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := prepare(db, &cfg.Database); err != nil {
		log.Fatalf("[API] Failed to prepare database: %v", err)
	}

	// Setup HTTP routes
	mux := http.NewServeMux()
	handlers.Register(mux, store.New(db), db, store.ReportNames())

	handler := middleware.Chain(mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recover,
		middleware.CORS,
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("[API] Starting server on port %s...", cfg.Port)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[API] Server failed: %v", err)
		}
	case <-ctx.Done():
		log.Println("[API] Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("[API] Graceful shutdown failed: %v", err)
		}
	}
	log.Println("[API] Server stopped")
}

// prepare creates the schema and seeds the catalog when configured to.
func prepare(db *database.DB, cfg *database.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if cfg.AutoMigrate {
		if err := db.InitSchema(ctx); err != nil {
			return err
		}
	}
	if cfg.Seed {
		if err := db.Seed(ctx); err != nil {
			return err
		}
	}
	return nil
}
