package convert

import (
	"badge-designer/internal/migrate"
	"badge-designer/internal/models"
	"encoding/json"
	"errors"
)

// DecodeDesigner decodes a designer record and migrates its template_json
// to the latest version. A bare working template (objects or elements at
// the top level) is accepted and wrapped in an empty record. Templates with
// an unknown version are kept as decoded. Values of the wrong type are read
// as absent, so the only error is invalid JSON.
func DecodeDesigner(raw []byte) (models.DesignerTemplate, error) {
	top, ok := decodeObject(raw)
	if !ok {
		if isSyntaxError(raw) {
			return models.DesignerTemplate{}, errInvalidJSON
		}
		return models.DesignerTemplate{}, nil
	}

	inner := top["template_json"]
	if !present(inner) {
		if !present(top["objects"]) && !present(top["elements"]) {
			var dt models.DesignerTemplate
			_ = models.DecodeLenient(raw, &dt)
			return dt, nil
		}
		inner, top = raw, nil
	}

	t, err := migrate.Migrate(inner)
	if err != nil && !errors.Is(err, migrate.ErrUnknownVersion) {
		return models.DesignerTemplate{}, err
	}

	var dt models.DesignerTemplate
	if top != nil {
		delete(top, "template_json")
		rest, err := json.Marshal(top)
		if err != nil {
			return models.DesignerTemplate{}, err
		}
		_ = models.DecodeLenient(rest, &dt)
	}
	dt.TemplateJSON = &t
	return dt, nil
}

// ForPrint prepares any template for the print pipeline and returns it with
// the canvas it was designed on. Legacy input carries no canvas and gets
// the zero CanvasSize.
func ForPrint(raw []byte) (models.BadgeTemplate, models.CanvasSize, error) {
	if _, ok := decodeObject(raw); !ok || IsLegacy(raw) {
		bt, err := FromJSON(raw)
		return bt, models.CanvasSize{}, err
	}

	dt, err := DecodeDesigner(raw)
	if err != nil {
		return models.EmptyBadgeTemplate(), models.CanvasSize{}, err
	}
	return ToLegacy(&dt), Canvas(&dt), nil
}
