package handlers

import (
	"badge-designer/internal/models"
	"badge-designer/internal/preview"

	"github.com/gofiber/fiber/v2"
)

// PreviewQR renders a QR element as an image for the designer canvas.
func PreviewQR(c *fiber.Ctx) error {
	format, err := preview.ParseFormat(c.Query("format"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":   "Invalid format",
			"details": err.Error(),
		})
	}

	var el models.Element
	if err := c.BodyParser(&el); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
	}
	props, ok := el.Props.(models.QRProps)
	if !ok {
		return c.Status(422).JSON(fiber.Map{
			"error": "Element is not a QR code",
			"type":  el.Type(),
		})
	}

	img, err := preview.QR(props, format)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error":   "Failed to render QR code",
			"details": err.Error(),
		})
	}
	stats.IncQRPreview(string(format))

	c.Set("Content-Type", format.ContentType())
	return c.Send(img)
}
