package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hirevox/hirevox/api"
	dbfiles "github.com/hirevox/hirevox/db"
	"github.com/hirevox/hirevox/internal/config"
	"github.com/hirevox/hirevox/internal/db"
	"github.com/hirevox/hirevox/pkg/ollama"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	api.SetLogger(logger)
	ollama.SetLogger(logger)

	log.Printf("Starting hirevox server version %s (built at %s)", version, buildTime)

	ctx := context.Background()

	// Open database connection and apply migrations
	conn, err := db.New(ctx, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Migrate(ctx, conn, dbfiles.Migrations); err != nil {
		log.Fatalf("Failed to migrate DB: %v", err)
	}

	// Optional question engine for interview kits
	var engine api.QuestionEngine
	if cfg.Engine.Model != "" {
		client, err := ollama.NewDefaultClient(ollama.Config{
			BaseURL:                 cfg.Engine.BaseURL,
			Model:                   cfg.Engine.Model,
			Timeout:                 cfg.Engine.Timeout,
			Retries:                 cfg.Engine.Retries,
			Backoff:                 cfg.Engine.Backoff,
			CircuitFailureThreshold: cfg.Engine.CircuitFailureThreshold,
			CircuitReset:            cfg.Engine.CircuitReset,
		})
		if err != nil {
			log.Fatalf("Failed to create question engine: %v", err)
		}
		defer client.Close()
		engine = client
	}

	handler, cleanup := api.SetupRoutes(cfg, version, buildTime, conn, engine)
	defer cleanup()

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Close database connection
	if err := conn.Close(); err != nil {
		log.Printf("Error closing DB: %v", err)
	}

	log.Println("Server exited")
}
