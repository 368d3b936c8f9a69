package handlers

import (
	"badge-designer/internal/cache"
	"badge-designer/internal/metrics"
	"badge-designer/internal/models"
	"badge-designer/internal/store"
	"time"

	"github.com/gofiber/fiber/v2"
)

const serviceVersion = "2.1.0"

var (
	startTime = time.Now()

	// Set by Init. templates may be nil, in which case persistence
	// routes answer 503.
	templates  *store.Store
	stats      *metrics.Metrics
	batchLimit = 500
)

type Options struct {
	Store      *store.Store
	Metrics    *metrics.Metrics
	BatchLimit int
}

// Init wires the handlers to their dependencies.
func Init(opts Options) {
	templates = opts.Store
	stats = opts.Metrics
	if opts.BatchLimit > 0 {
		batchLimit = opts.BatchLimit
	}
}

// ServiceInfo describes the service at the root path
func ServiceInfo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service": "Badge Designer",
		"version": serviceVersion,
		"status":  "running",
		"schema":  models.LatestVersion,
	})
}

// HealthCheck handles health check requests
func HealthCheck(c *fiber.Ctx) error {
	return c.JSON(models.HealthResponse{
		Status:  "healthy",
		Version: serviceVersion,
		Uptime:  time.Since(startTime).String(),
	})
}

// GetCacheStats returns cache statistics
func GetCacheStats(c *fiber.Ctx) error {
	return c.JSON(cache.GetCacheStats())
}

// ClearCache clears all cached image data
func ClearCache(c *fiber.Ctx) error {
	if err := cache.ClearCache(); err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Cache cleared",
	})
}

// NotFound is the fallback for unmatched routes
func NotFound(c *fiber.Ctx) error {
	return c.Status(404).JSON(fiber.Map{
		"error": "Not found",
		"path":  c.Path(),
	})
}
