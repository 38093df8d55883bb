package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/localnerve/excel-analyzer/internal/ai"
	"github.com/localnerve/excel-analyzer/internal/config"
	"github.com/localnerve/excel-analyzer/internal/database"
	"github.com/localnerve/excel-analyzer/internal/storage"
)

// @title Excel Analyzer API
// @version 1.0.0
// @description Spreadsheet upload, charting, AI summaries and chart export
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/localnerve/excel-analyzer
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:5000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name cookie_session

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// External clients are built once and injected
	serveLocalFiles := cfg.StorageDriver == "local" && cfg.StoragePublicURL == ""
	if serveLocalFiles {
		cfg.StoragePublicURL = localFilesRoute
	}
	store, err := storage.FromConfig(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to create object store: %v", err)
	}

	runtime, ok := ai.GetRuntime(cfg.AIProvider, ai.RuntimeConfig{
		HTTPTimeout: cfg.AITimeout,
		RetryMax:    cfg.AIRetryMax,
		APIKey:      cfg.AIAPIKey,
		BaseURL:     cfg.AIBaseURL,
	})
	if !ok {
		log.Fatalf("Unsupported AI_PROVIDER: %s", cfg.AIProvider)
	}
	if cfg.AIAPIKey == "" {
		log.Printf("AI_API_KEY is not set, summaries will fail")
	}

	srv := newServer(cfg, db, store, runtime, serveLocalFiles)
	app := srv.app

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	// Start server
	port := cfg.Port
	log.Printf("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	// let in-flight chart copies finish
	srv.mirror.Wait()
	log.Println("Server stopped")
}
