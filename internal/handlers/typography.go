package handlers

import (
	"badge-designer/internal/typography"
	"sort"

	"github.com/gofiber/fiber/v2"
)

const defaultScaleSteps = 6

// ListPairings returns the font pairings, optionally filtered by ?category.
func ListPairings(c *fiber.Ctx) error {
	if category := c.Query("category"); category != "" {
		return c.JSON(typography.PairingsByCategory(category))
	}
	return c.JSON(typography.FontPairings)
}

func GetPairing(c *fiber.Ctx) error {
	p, ok := typography.PairingByID(c.Params("id"))
	if !ok {
		return c.Status(404).JSON(fiber.Map{"error": "Font pairing not found"})
	}
	return c.JSON(p)
}

// ListPresets returns the text presets, optionally filtered by ?category.
func ListPresets(c *fiber.Ctx) error {
	if category := c.Query("category"); category != "" {
		return c.JSON(typography.PresetsByCategory(category))
	}
	return c.JSON(typography.TextPresets)
}

func GetPreset(c *fiber.Ctx) error {
	p, ok := typography.PresetByID(c.Params("id"))
	if !ok {
		return c.Status(404).JSON(fiber.Map{"error": "Text preset not found"})
	}
	return c.JSON(p)
}

// ListScales returns every type scale ordered by name.
func ListScales(c *fiber.Ctx) error {
	out := make([]typography.Scale, 0, len(typography.Scales))
	for _, s := range typography.Scales {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return c.JSON(out)
}

// GetScale returns one scale with its first ?steps sizes.
func GetScale(c *fiber.Ctx) error {
	s, ok := typography.ScaleByName(c.Params("id"))
	if !ok {
		return c.Status(404).JSON(fiber.Map{"error": "Type scale not found"})
	}
	steps := c.QueryInt("steps", defaultScaleSteps)
	if steps <= 0 || steps > 24 {
		return c.Status(400).JSON(fiber.Map{"error": "steps must be between 1 and 24"})
	}
	return c.JSON(fiber.Map{
		"name":  s.Name,
		"base":  s.Base,
		"ratio": s.Ratio,
		"sizes": s.Sizes(steps),
	})
}
