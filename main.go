package main

import (
	"badge-designer/internal/cache"
	"badge-designer/internal/config"
	"badge-designer/internal/handlers"
	"badge-designer/internal/metrics"
	"badge-designer/internal/store"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg)

	// Initialize image cache
	cache.Init(cfg.CacheDir, cfg.ImageFetchTimeout)

	m := metrics.New()

	templates, err := store.Open(store.Options{
		DSN:        cfg.DatabaseDSN,
		SQLitePath: cfg.SQLitePath,
		CacheTTL:   cfg.TemplateCacheTTL,
		Metrics:    m,
	})
	if err != nil {
		slog.Error("failed to open template store", "err", err)
		os.Exit(1)
	}
	defer templates.Close()

	handlers.Init(handlers.Options{
		Store:      templates,
		Metrics:    m,
		BatchLimit: cfg.BatchLimit,
	})

	app := fiber.New(fiber.Config{
		ServerHeader: "Badge-Designer",
		AppName:      "Badge Designer",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    50 * 1024 * 1024, // batch requests carry many attendees
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	// CORS
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	setupRoutes(app, m)

	slog.Info("badge designer starting", "port", cfg.Port, "cache_dir", cfg.CacheDir)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("failed to start server", "err", err)
		os.Exit(1)
	}
}

func setupLogging(cfg config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var h slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
}

func setupRoutes(app *fiber.App, m *metrics.Metrics) {
	app.Get("/", handlers.ServiceInfo)
	app.Get("/health", handlers.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	// API routes
	api := app.Group("/api")

	// Templates
	api.Post("/template/migrate", handlers.MigrateTemplate)
	api.Post("/template/convert", handlers.ConvertTemplate)
	api.Post("/template/restore", handlers.RestoreTemplate)
	api.Post("/template", handlers.SaveTemplate)
	api.Get("/templates", handlers.ListTemplates)
	api.Get("/template/:id", handlers.GetTemplate)
	api.Get("/template/:id/legacy", handlers.GetTemplateLegacy)
	api.Delete("/template/:id", handlers.DeleteTemplate)

	// Dynamic fields
	api.Get("/fields", handlers.ListFieldTokens)
	api.Post("/fields/convert", handlers.ConvertFields)

	// Typography
	api.Get("/typography/pairings", handlers.ListPairings)
	api.Get("/typography/pairings/:id", handlers.GetPairing)
	api.Get("/typography/presets", handlers.ListPresets)
	api.Get("/typography/presets/:id", handlers.GetPreset)
	api.Get("/typography/scales", handlers.ListScales)
	api.Get("/typography/scales/:id", handlers.GetScale)

	// Previews
	api.Post("/preview/qr", handlers.PreviewQR)

	// Badge generation
	api.Post("/badge/generate", handlers.GenerateBadge)
	api.Post("/badge/batch", handlers.GenerateBadgeBatch)

	// Cache management
	api.Get("/cache/stats", handlers.GetCacheStats)
	api.Post("/cache/clear", handlers.ClearCache)

	app.Use(handlers.NotFound)
}
