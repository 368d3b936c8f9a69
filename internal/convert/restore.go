package convert

import (
	"badge-designer/internal/models"
	"sort"
)

// FromLegacy reopens a legacy template in the designer. Only the front
// side is read. Placeholders are restored to their designer form; QR
// codes that were flattened to "QR: ..." text stay text, since the
// original QR settings are gone.
func FromLegacy(bt models.BadgeTemplate) models.DesignerTemplate {
	front := make([]models.LegacyElement, len(bt.TemplateJSON.Front.Elements))
	copy(front, bt.TemplateJSON.Front.Elements)
	sort.SliceStable(front, func(i, j int) bool {
		return front[i].ZIndex < front[j].ZIndex
	})

	objects := make([]models.Element, len(front))
	for i, el := range front {
		objects[i] = FromLegacyElement(el)
	}

	var bg *models.Backgrounds
	if bt.TemplateJSON.Front.Background != nil || bt.TemplateJSON.Back.Background != nil {
		bg = &models.Backgrounds{
			Front: bt.TemplateJSON.Front.Background,
			Back:  bt.TemplateJSON.Back.Background,
		}
	}

	status := bt.Status
	name := bt.Name
	return models.DesignerTemplate{
		ID:              bt.ID,
		EventID:         bt.EventID,
		Name:            &name,
		Status:          &status,
		BackgroundImage: bg,
		TemplateJSON: &models.Template{
			Version: models.LatestVersion,
			Objects: objects,
			Metadata: models.Metadata{
				VersionHistory: []string{models.LatestVersion},
			},
		},
	}
}

// FromLegacyElement maps a legacy record back to a working element.
func FromLegacyElement(el models.LegacyElement) models.Element {
	base := models.Geometry{
		Left:   models.Ptr(el.X),
		Top:    models.Ptr(el.Y),
		Width:  models.Ptr(el.Width),
		Height: models.Ptr(el.Height),
		Angle:  models.Ptr(el.Rotation),
	}

	var props models.Properties
	switch models.ElementType(el.Type) {
	case models.ElementText:
		p := models.TextProps{
			Geometry:   base,
			FontFamily: nonEmpty(el.FontFamily),
			FontWeight: nonEmpty(el.FontWeight),
			Fill:       nonEmpty(el.Color),
			TextAlign:  nonEmpty(el.TextAlign),
		}
		if el.Content != nil {
			p.Content = models.Ptr(RestoreDynamicFields(*el.Content))
		}
		if el.FontSize > 0 {
			p.FontSize = models.Ptr(el.FontSize)
		}
		props = p
	case models.ElementImage:
		props = models.ImageProps{Geometry: base, Src: el.Src}
	case models.ElementShape:
		p := models.ShapeProps{
			Geometry:  base,
			ShapeType: nonEmpty(el.ShapeType),
			Fill:      nonEmpty(el.BackgroundColor),
			Stroke:    nonEmpty(el.BorderColor),
		}
		if el.BorderWidth > 0 {
			p.StrokeWidth = models.Ptr(el.BorderWidth)
		}
		props = p
	default:
		props = models.UnknownProps{Geometry: base, Name: models.ElementType(el.Type)}
	}

	return models.Element{ID: el.ID, Props: props}
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
