package handlers

import (
	"badge-designer/internal/convert"
	"badge-designer/internal/migrate"
	"badge-designer/internal/models"
	"badge-designer/internal/store"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
)

// MigrateTemplate upgrades a working-format template to the latest version.
// A template with an unknown version is echoed back with a warning, and so
// is a migrated template whose element ids are not unique.
func MigrateTemplate(c *fiber.Ctx) error {
	raw := c.Body()

	from, err := migrate.DetectVersion(raw)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":   "Invalid template",
			"details": err.Error(),
		})
	}

	t, err := migrate.Migrate(raw)
	stats.ObserveMigration(from, err)
	switch {
	case errors.Is(err, migrate.ErrUnknownVersion):
		return c.JSON(fiber.Map{
			"template": json.RawMessage(raw),
			"from":     from,
			"warning":  err.Error(),
		})
	case err != nil:
		return c.Status(400).JSON(fiber.Map{
			"error":   "Invalid template",
			"details": err.Error(),
		})
	}

	resp := fiber.Map{
		"template": t,
		"from":     from,
	}
	if err := t.Validate(); err != nil {
		resp["warning"] = err.Error()
	}
	return c.JSON(resp)
}

// ConvertTemplate turns a designer or legacy template into the legacy
// print format.
func ConvertTemplate(c *fiber.Ctx) error {
	bt, _, err := convert.ForPrint(c.Body())
	stats.ObserveConversion("to_legacy", err)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":   "Invalid template",
			"details": err.Error(),
		})
	}
	return c.JSON(bt)
}

// RestoreTemplate reopens a legacy template in the designer format.
func RestoreTemplate(c *fiber.Ctx) error {
	bt, err := convert.FromJSON(c.Body())
	stats.ObserveConversion("to_designer", err)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":   "Invalid template",
			"details": err.Error(),
		})
	}
	return c.JSON(convert.FromLegacy(bt))
}

// ConvertFields rewrites placeholders in a piece of content. With
// ?direction=restore the print placeholders are turned back.
func ConvertFields(c *fiber.Ctx) error {
	var req models.FieldsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
	}

	switch c.Query("direction", "print") {
	case "print":
		return c.JSON(fiber.Map{"content": convert.DynamicFields(req.Content)})
	case "restore":
		return c.JSON(fiber.Map{"content": convert.RestoreDynamicFields(req.Content)})
	default:
		return c.Status(400).JSON(fiber.Map{
			"error": "direction must be print or restore",
		})
	}
}

// ListFieldTokens returns the designer to print placeholder table.
func ListFieldTokens(c *fiber.Ctx) error {
	tokens := convert.FieldTokens()
	out := make([]fiber.Map, len(tokens))
	for i, t := range tokens {
		out[i] = fiber.Map{"designer": t[0], "print": t[1]}
	}
	return c.JSON(out)
}

// ============ PERSISTENCE ============

// SaveTemplate stores a template as posted. Designer templates whose
// element ids are not unique are rejected with 422.
func SaveTemplate(c *fiber.Ctx) error {
	if templates == nil {
		return storeUnavailable(c)
	}

	body := c.Body()
	if !convert.IsLegacy(body) {
		dt, err := convert.DecodeDesigner(body)
		if err == nil && dt.TemplateJSON != nil {
			if err := dt.TemplateJSON.Validate(); err != nil {
				return c.Status(422).JSON(fiber.Map{
					"error":   "Invalid template",
					"details": err.Error(),
				})
			}
		}
	}

	rec, err := templates.Save(c.UserContext(), body)
	if err != nil {
		if errors.Is(err, store.ErrInvalidJSON) {
			return c.Status(400).JSON(fiber.Map{
				"error":   "Invalid template",
				"details": err.Error(),
			})
		}
		return c.Status(500).JSON(fiber.Map{
			"error":   "Failed to save template",
			"details": err.Error(),
		})
	}

	return c.Status(201).JSON(models.SaveTemplateResponse{
		ID:      rec.ID,
		Format:  rec.Format,
		Version: rec.Version,
	})
}

// GetTemplate returns a stored template exactly as it was saved.
func GetTemplate(c *fiber.Ctx) error {
	rec, ok, err := loadRecord(c)
	if !ok {
		return err
	}
	c.Set("Content-Type", fiber.MIMEApplicationJSON)
	return c.SendString(rec.Body)
}

// GetTemplateLegacy returns a stored template converted for printing.
func GetTemplateLegacy(c *fiber.Ctx) error {
	rec, ok, err := loadRecord(c)
	if !ok {
		return err
	}

	bt, _, err := convert.ForPrint([]byte(rec.Body))
	stats.ObserveConversion("to_legacy", err)
	if err != nil {
		return c.Status(422).JSON(fiber.Map{
			"error":   "Stored template cannot be converted",
			"details": err.Error(),
		})
	}
	return c.JSON(bt)
}

// ListTemplates lists the templates of ?event_id without their bodies.
func ListTemplates(c *fiber.Ctx) error {
	if templates == nil {
		return storeUnavailable(c)
	}

	recs, err := templates.ListByEvent(c.UserContext(), c.QueryInt("event_id"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error":   "Failed to list templates",
			"details": err.Error(),
		})
	}

	out := make([]fiber.Map, len(recs))
	for i, r := range recs {
		out[i] = fiber.Map{
			"id":         r.ID,
			"event_id":   r.EventID,
			"name":       r.Name,
			"status":     r.Status,
			"format":     r.Format,
			"version":    r.Version,
			"updated_at": r.UpdatedAt,
		}
	}
	return c.JSON(out)
}

// DeleteTemplate removes a stored template.
func DeleteTemplate(c *fiber.Ctx) error {
	if templates == nil {
		return storeUnavailable(c)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid template id"})
	}

	if err := templates.Delete(c.UserContext(), uint(id)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Template not found"})
		}
		return c.Status(500).JSON(fiber.Map{
			"error":   "Failed to delete template",
			"details": err.Error(),
		})
	}
	return c.SendStatus(204)
}

// loadRecord fetches the record named by :id. When ok is false the error
// response has already been written and err is what the handler returns.
func loadRecord(c *fiber.Ctx) (rec store.Record, ok bool, err error) {
	if templates == nil {
		return rec, false, storeUnavailable(c)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return rec, false, c.Status(400).JSON(fiber.Map{"error": "Invalid template id"})
	}

	rec, err = templates.Load(c.UserContext(), uint(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return rec, false, c.Status(404).JSON(fiber.Map{"error": "Template not found"})
		}
		return rec, false, c.Status(500).JSON(fiber.Map{
			"error":   "Failed to load template",
			"details": err.Error(),
		})
	}
	return rec, true, nil
}

func storeUnavailable(c *fiber.Ctx) error {
	return c.Status(503).JSON(fiber.Map{"error": "Template store is not configured"})
}
