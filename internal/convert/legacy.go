// Package convert translates between the designer's element-based
// templates and the two-sided legacy format read by the print pipeline.
package convert

import (
	"badge-designer/internal/models"
	"bytes"
	"encoding/json"
	"errors"
)

var errInvalidJSON = errors.New("decode template: invalid JSON")

const (
	defaultTemplateName = "Converted Template"
	defaultQRData       = "{uuid}"
	qrContentPrefix     = "QR: "
)

// IsLegacy reports whether raw already is a legacy template: both front
// and back under template_json, or both at the top level.
func IsLegacy(raw []byte) bool {
	top, ok := decodeObject(raw)
	if !ok {
		return false
	}
	if tj, ok := decodeObject(top["template_json"]); ok && hasSides(tj) {
		return true
	}
	return hasSides(top)
}

// FromJSON turns any stored template into a legacy template. Missing or
// empty input gives EmptyBadgeTemplate; legacy input is passed through as
// decoded; anything else is converted with ToLegacy. Values of the wrong
// type are read as absent, so the only error is invalid JSON.
func FromJSON(raw []byte) (models.BadgeTemplate, error) {
	top, ok := decodeObject(raw)
	if !ok {
		if isSyntaxError(raw) {
			return models.EmptyBadgeTemplate(), errInvalidJSON
		}
		return models.EmptyBadgeTemplate(), nil
	}

	tj, hasTemplateJSON := decodeObject(top["template_json"])
	switch {
	case hasTemplateJSON && hasSides(tj):
		bt := models.EmptyBadgeTemplate()
		_ = models.DecodeLenient(raw, &bt)
		return withSideDefaults(bt), nil
	case hasSides(top):
		bt := models.EmptyBadgeTemplate()
		_ = models.DecodeLenient(raw, &bt.TemplateJSON)
		return withSideDefaults(bt), nil
	case !hasTemplateJSON:
		return models.EmptyBadgeTemplate(), nil
	}

	dt, err := DecodeDesigner(raw)
	if err != nil {
		return models.EmptyBadgeTemplate(), err
	}
	return ToLegacy(&dt), nil
}

// withSideDefaults replaces missing element lists and an empty status with
// the values of EmptyBadgeTemplate.
func withSideDefaults(bt models.BadgeTemplate) models.BadgeTemplate {
	if bt.Status == "" {
		bt.Status = models.StatusDraft
	}
	if bt.TemplateJSON.Front.Elements == nil {
		bt.TemplateJSON.Front.Elements = []models.LegacyElement{}
	}
	if bt.TemplateJSON.Back.Elements == nil {
		bt.TemplateJSON.Back.Elements = []models.LegacyElement{}
	}
	return bt
}

// ToLegacy converts a designer template into the legacy print format.
// Only the front side carries elements. Element order becomes zIndex
// (1-based); any zIndex on the working element is ignored.
func ToLegacy(dt *models.DesignerTemplate) models.BadgeTemplate {
	if dt == nil || dt.TemplateJSON == nil {
		return models.EmptyBadgeTemplate()
	}

	elements := make([]models.LegacyElement, 0, len(dt.TemplateJSON.Objects))
	for i, el := range dt.TemplateJSON.Objects {
		elements = append(elements, ToLegacyElement(el, i+1))
	}

	var front, back *string
	if dt.BackgroundImage != nil {
		front = dt.BackgroundImage.Front
		back = dt.BackgroundImage.Back
	}

	return models.BadgeTemplate{
		ID:      dt.ID,
		EventID: dt.EventID,
		Name:    models.ValueOr(dt.Name, defaultTemplateName),
		Status:  models.ValueOr(dt.Status, models.StatusOfficial),
		TemplateJSON: models.Sides{
			Front: models.Side{Elements: elements, Background: front},
			Back:  models.Side{Elements: []models.LegacyElement{}, Background: back},
		},
	}
}

// Canvas returns the designer canvas, defaulting to 400x600.
func Canvas(dt *models.DesignerTemplate) models.CanvasSize {
	if dt == nil || dt.TemplateJSON == nil {
		return models.Template{}.Canvas()
	}
	return dt.TemplateJSON.Canvas()
}

// ToLegacyElement maps one working element to its legacy record at the
// given stacking position.
func ToLegacyElement(el models.Element, zIndex int) models.LegacyElement {
	base := el.Base()
	defaultHeight := 100.0
	if el.Type() == models.ElementText {
		defaultHeight = 30
	}

	out := models.LegacyElement{
		ID:       el.ID,
		Type:     string(el.Type()),
		X:        models.ValueOr(base.Left, 0),
		Y:        models.ValueOr(base.Top, 0),
		Width:    models.ValueOr(base.Width, 100),
		Height:   models.ValueOr(base.Height, defaultHeight),
		Rotation: models.ValueOr(base.Angle, 0),
		ZIndex:   zIndex,
	}

	switch p := el.Props.(type) {
	case models.TextProps:
		out.Content = models.Ptr(DynamicFields(models.ValueOr(p.Content, "")))
		out.FontFamily = models.ValueOr(p.FontFamily, "Helvetica")
		out.FontSize = models.ValueOr(p.FontSize, 16)
		out.FontWeight = models.ValueOr(p.FontWeight, "normal")
		out.Color = models.ValueOr(p.Fill, "#000000")
		out.TextAlign = models.ValueOr(p.TextAlign, "left")
	case models.QRProps:
		// No QR renderer on the print side: the payload is printed as text.
		out.Type = string(models.ElementText)
		out.Content = models.Ptr(qrContentPrefix + DynamicFields(models.ValueOr(p.QRData, defaultQRData)))
		out.FontFamily = "Courier"
		out.FontSize = 10
		out.Color = "#000000"
		out.TextAlign = "center"
	case models.ImageProps:
		out.Src = p.Src
	case models.ShapeProps:
		out.ShapeType = models.ValueOr(p.ShapeType, "rectangle")
		out.BackgroundColor = models.ValueOr(p.Fill, "#cccccc")
		out.BorderColor = "#000000"
		out.BorderWidth = 1
	}

	return out
}

func decodeObject(raw []byte) (map[string]json.RawMessage, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, false
	}
	return obj, true
}

func hasSides(obj map[string]json.RawMessage) bool {
	return present(obj["front"]) && present(obj["back"])
}

func present(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}

func isSyntaxError(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && !json.Valid(raw)
}
