package migrate

import (
	"badge-designer/internal/models"
)

const defaultQRSize = 150

// KonvaToFabric converts a Konva-style {elements:[...]} document into
// working-format elements. A nil document yields an empty slice.
func (m *Migrator) KonvaToFabric(doc *models.KonvaTemplate) []models.Element {
	if doc == nil {
		return []models.Element{}
	}
	return m.konvaElements(doc.Elements)
}

func (m *Migrator) konvaElements(in []models.KonvaElement) []models.Element {
	out := make([]models.Element, len(in))
	for i, el := range in {
		out[i] = m.konvaElement(el)
	}
	return out
}

func (m *Migrator) konvaElement(el models.KonvaElement) models.Element {
	id := el.ID
	if id == "" {
		id = m.NewID()
	}

	// Opacity stays absent so that the 2.1 step can default it to 1.
	base := models.Geometry{
		Left:    models.Ptr(models.ValueOr(el.X, 0)),
		Top:     models.Ptr(models.ValueOr(el.Y, 0)),
		Angle:   models.Ptr(models.ValueOr(el.Rotation, 0)),
		Width:   models.Ptr(models.ValueOr(el.Width, 0)),
		Height:  models.Ptr(models.ValueOr(el.Height, 0)),
		ScaleX:  models.Ptr(models.ValueOr(el.ScaleX, 0)),
		ScaleY:  models.Ptr(models.ValueOr(el.ScaleY, 0)),
		Opacity: el.Opacity,
	}

	kind := models.ElementType(el.Type)
	if kind == "" {
		kind = models.ElementText
	}

	var props models.Properties
	switch kind {
	case models.ElementText:
		props = models.TextProps{
			Geometry:   base,
			Content:    el.Text,
			FontSize:   el.FontSize,
			FontFamily: el.FontFamily,
			FontStyle:  el.FontStyle,
			Fill:       el.Fill,
			TextAlign:  el.Align,
		}
	case models.ElementQR:
		props = models.QRProps{
			Geometry: base,
			QRData:   el.Data,
			Size:     models.Ptr(models.ValueOr(el.Size, defaultQRSize)),
		}
	case models.ElementImage:
		props = models.ImageProps{
			Geometry: base,
			Src:      el.Src,
		}
	case models.ElementShape:
		props = models.ShapeProps{
			Geometry:    base,
			ShapeType:   el.ShapeType,
			Fill:        el.Fill,
			Stroke:      el.Stroke,
			StrokeWidth: el.StrokeWidth,
		}
	default:
		props = models.UnknownProps{Geometry: base, Name: kind}
	}

	return models.Element{ID: id, Props: props}
}
