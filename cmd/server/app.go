package main

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/localnerve/excel-analyzer/internal/ai"
	"github.com/localnerve/excel-analyzer/internal/config"
	"github.com/localnerve/excel-analyzer/internal/handlers"
	"github.com/localnerve/excel-analyzer/internal/middleware"
	"github.com/localnerve/excel-analyzer/internal/services"
	"github.com/localnerve/excel-analyzer/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	_ "github.com/localnerve/excel-analyzer/docs/api" // Swagger docs
)

// localFilesRoute serves the local object store when no public URL is configured
const localFilesRoute = "/files"

// server is the assembled HTTP app and the chart mirror it drains on shutdown
type server struct {
	app    *fiber.App
	mirror *services.Mirror
}

// newServer wires the routes over injected clients.
// The HTTP metrics register on the default registry next to the domain
// counters, so call it once per process.
func newServer(cfg *config.Config, db *gorm.DB, store storage.ObjectStore, runtime ai.Runtime, serveLocalFiles bool) *server {
	mirror := &services.Mirror{Store: store, Prefix: cfg.S3ChartPrefix}
	auth := services.NewAuthService(db, cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    cfg.MaxUploadBytes,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins}))

	// Prometheus metrics, served from the registry the domain counters use
	prom := fiberprometheus.NewWithRegistry(prometheus.DefaultRegisterer, "excel-analyzer", services.MetricsNamespace, "http", nil)
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	health := &handlers.HealthHandler{Config: cfg, DB: db, Store: store}
	app.Get("/health", health.Health)

	if local, ok := store.(*storage.LocalStore); ok && serveLocalFiles {
		app.Static(localFilesRoute, local.Dir())
	}

	// API routes under /api
	api := app.Group("/api")
	api.Use(middleware.VersionMiddleware())

	handlers.RegisterRoutes(api, &handlers.Handlers{
		Auth:     auth,
		Account:  &handlers.AuthHandler{Auth: auth},
		Upload:   &handlers.UploadHandler{DB: db, Store: store, Prefix: cfg.S3UploadPrefix},
		UserData: &handlers.UserDataHandler{DB: db},
		Summary: &handlers.SummaryHandler{DB: db, Summarizer: &services.Summarizer{
			Runtime: runtime,
			Model:   cfg.AIModel,
		}},
		Export: &handlers.ExportHandler{Mirror: mirror},
		Admin:  &handlers.AdminHandler{DB: db, Store: store},
	})

	// 404 handler
	app.Use(handlers.NotFound)

	return &server{app: app, mirror: mirror}
}
