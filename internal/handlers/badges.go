package handlers

import (
	"badge-designer/internal/cache"
	"badge-designer/internal/convert"
	"badge-designer/internal/generator"
	"badge-designer/internal/models"
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/gofiber/fiber/v2"
)

// printable converts the posted template and settles the page size: an
// explicit canvasSize wins over the one stored with the template.
func printable(raw []byte, override *models.CanvasSize) (models.BadgeTemplate, models.CanvasSize, error) {
	bt, canvas, err := convert.ForPrint(raw)
	stats.ObserveConversion("to_legacy", err)
	if err != nil {
		return bt, canvas, err
	}
	if override != nil && override.Width > 0 && override.Height > 0 {
		canvas = *override
	}
	if canvas.Width <= 0 || canvas.Height <= 0 {
		canvas = models.CanvasSize{Width: models.DefaultCanvasWidth, Height: models.DefaultCanvasHeight}
	}
	return bt, canvas, nil
}

// GenerateBadge generates a single badge PDF
func GenerateBadge(c *fiber.Ctx) error {
	var req models.GenerateBadgeRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
	}

	if len(req.Template) == 0 {
		return c.Status(400).JSON(fiber.Map{
			"error": "Template is required",
		})
	}

	tpl, canvas, err := printable(req.Template, req.Canvas)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":   "Invalid template",
			"details": err.Error(),
		})
	}

	// Pre-fetch background and image elements
	imageCache := cache.PreloadImages(generator.ImageRequests(&tpl, canvas))

	gen := generator.NewPDFGenerator(&tpl, canvas, &req.Attendee, req.Event)
	gen.SetImageDataCache(imageCache)

	pdfBytes, err := gen.Generate()
	stats.ObserveBadge(err)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error":   "Failed to generate PDF",
			"details": err.Error(),
		})
	}

	filename := fmt.Sprintf("badge_%s.pdf", badgeName(req.Attendee))

	// Check if client wants base64 or binary
	if c.Get("Accept") == fiber.MIMEApplicationJSON {
		return c.JSON(fiber.Map{
			"success":    true,
			"pdf_base64": base64.StdEncoding.EncodeToString(pdfBytes),
			"filename":   filename,
		})
	}

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", fmt.Sprintf("inline; filename=%s", filename))
	return c.Send(pdfBytes)
}

// GenerateBadgeBatch renders one badge per attendee from a shared template
func GenerateBadgeBatch(c *fiber.Ctx) error {
	var req models.BatchGenerateRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
	}

	if len(req.Template) == 0 {
		return c.Status(400).JSON(fiber.Map{
			"error": "Template is required",
		})
	}

	if len(req.Attendees) == 0 {
		return c.Status(400).JSON(fiber.Map{
			"error": "No attendees provided",
		})
	}

	if len(req.Attendees) > batchLimit {
		return c.Status(400).JSON(fiber.Map{
			"error": fmt.Sprintf("Maximum %d attendees per batch", batchLimit),
		})
	}

	tpl, canvas, err := printable(req.Template, req.Canvas)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":   "Invalid template",
			"details": err.Error(),
		})
	}

	// Images are shared by every badge, so fetch them once
	imageCache := cache.PreloadImages(generator.ImageRequests(&tpl, canvas))

	results := make([]models.BadgeResult, len(req.Attendees))
	var wg sync.WaitGroup
	sem := make(chan struct{}, 50) // Limit concurrency to 50

	for i, attendee := range req.Attendees {
		wg.Add(1)
		go func(idx int, a models.Attendee) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			result := models.BadgeResult{UUID: a.UUID}

			gen := generator.NewPDFGenerator(&tpl, canvas, &a, req.Event)
			gen.SetImageDataCache(imageCache)

			pdfBytes, err := gen.Generate()
			stats.ObserveBadge(err)
			if err != nil {
				result.Success = false
				result.Error = err.Error()
			} else {
				result.Success = true
				result.PDFBase64 = base64.StdEncoding.EncodeToString(pdfBytes)
			}

			results[idx] = result
		}(i, attendee)
	}

	wg.Wait()

	// Count successes
	successCount := 0
	for _, r := range results {
		if r.Success {
			successCount++
		}
	}

	return c.JSON(models.BatchGenerateResponse{
		Success: successCount == len(results),
		Total:   len(results),
		Results: results,
	})
}

func badgeName(a models.Attendee) string {
	if a.UUID != "" {
		return a.UUID
	}
	return "attendee"
}
