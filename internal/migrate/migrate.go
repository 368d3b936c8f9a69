// Package migrate upgrades working-format badge templates through the
// schema chain 1.0 -> 2.0 -> 2.1. Every step returns a new value; inputs
// are never modified.
package migrate

import (
	"badge-designer/internal/models"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrUnknownVersion is returned together with the unchanged template when
// its version is not part of the chain. Callers decide what to do with it.
var ErrUnknownVersion = errors.New("unknown template version")

// ErrInvalidJSON is returned for input that is not JSON at all.
var ErrInvalidJSON = errors.New("invalid JSON")

// Migrator carries the clock and element id source used by the chain.
type Migrator struct {
	Now   func() time.Time
	NewID func() string
}

var std = New()

// New returns a Migrator using the wall clock and random UUIDs.
func New() *Migrator {
	return &Migrator{
		Now:   func() time.Time { return time.Now().UTC() },
		NewID: uuid.NewString,
	}
}

// Migrate decodes raw and upgrades it to the latest version using the
// default Migrator.
func Migrate(raw []byte) (models.Template, error) { return std.Migrate(raw) }

// Upgrade upgrades an already decoded 2.x template using the default Migrator.
func Upgrade(t models.Template) (models.Template, error) { return std.Upgrade(t) }

func V1ToV2(t models.KonvaTemplate) models.Template { return std.V1ToV2(t) }

func V2ToV21(t models.Template) models.Template { return std.V2ToV21(t) }

func KonvaToFabric(doc *models.KonvaTemplate) []models.Element { return std.KonvaToFabric(doc) }

// Migrate sniffs the version of raw, decodes the matching schema and runs
// the remaining steps of the chain. A missing version means 1.0, unless the
// elements already carry working-format properties. Values of the wrong
// type are read as absent, so the only errors are invalid JSON and
// ErrUnknownVersion.
func (m *Migrator) Migrate(raw []byte) (models.Template, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = []byte("{}")
	}

	version, err := DetectVersion(raw)
	if err != nil {
		return models.Template{}, err
	}

	if version == models.Version1 && !unversionedWorking(raw) {
		var v1 models.KonvaTemplate
		_ = models.DecodeLenient(raw, &v1)
		return m.V2ToV21(m.V1ToV2(v1)), nil
	}

	var t models.Template
	_ = models.DecodeLenient(raw, &t)
	if version == models.Version1 {
		// Saved by the designer before versions were recorded. The
		// elements are already in the 2.0 shape.
		t.Version = models.Version2
		t.Metadata = t.Metadata.WithVersion(models.Version2, m.Now())
		if t.Metadata.CreatedAt.IsZero() {
			t.Metadata.CreatedAt = t.Metadata.UpdatedAt
		}
	}
	return m.Upgrade(t)
}

// DetectVersion returns the version raw declares. A missing, null, empty
// or non-string version is 1.0, and so is input that is not an object.
// Only invalid JSON is an error.
func DetectVersion(raw []byte) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return models.Version1, nil
	}
	if !json.Valid(raw) {
		return "", fmt.Errorf("decode template version: %w", ErrInvalidJSON)
	}
	var head struct {
		Version json.RawMessage `json:"version"`
	}
	var version string
	if json.Unmarshal(raw, &head) == nil && json.Unmarshal(head.Version, &version) == nil && version != "" {
		return version, nil
	}
	return models.Version1, nil
}

// unversionedWorking reports whether raw has no version but its elements
// use the {id, type, properties} shape of the working format.
func unversionedWorking(raw []byte) bool {
	var head struct {
		Objects  []json.RawMessage `json:"objects"`
		Elements []json.RawMessage `json:"elements"`
	}
	if models.DecodeLenient(raw, &head) != nil {
		return false
	}
	for _, item := range append(head.Objects, head.Elements...) {
		var el map[string]json.RawMessage
		if json.Unmarshal(item, &el) != nil {
			continue
		}
		if _, ok := el["properties"]; ok {
			return true
		}
	}
	return false
}

// Upgrade runs the chain on a decoded 2.x template. 2.1 is terminal and
// comes back as given, except that a history not ending in 2.1 gets it
// appended. Any other version is returned unchanged with ErrUnknownVersion.
func (m *Migrator) Upgrade(t models.Template) (models.Template, error) {
	switch t.Version {
	case models.Version2:
		return m.V2ToV21(t), nil
	case models.Version21:
		if t.Metadata.CurrentVersion() != models.Version21 {
			t.Metadata = t.Metadata.WithVersion(models.Version21, m.Now())
		}
		return t, nil
	default:
		return t, fmt.Errorf("%w: %q", ErrUnknownVersion, t.Version)
	}
}

// V1ToV2 renames the Konva-style fields to the 2.0 names and moves the
// elements into objects.
func (m *Migrator) V1ToV2(t models.KonvaTemplate) models.Template {
	now := m.Now()

	meta := t.Metadata
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = now
	}
	if meta.CurrentVersion() != models.Version1 {
		meta = meta.WithVersion(models.Version1, now)
	}
	meta = meta.WithVersion(models.Version2, now)

	var canvas *models.CanvasSize
	if t.CanvasSize != nil {
		c := *t.CanvasSize
		canvas = &c
	}

	return models.Template{
		Version:    models.Version2,
		Objects:    m.konvaElements(t.Elements),
		CanvasSize: canvas,
		Metadata:   meta,
	}
}

// V2ToV21 defaults opacity to 1 on every object. Shadow is already nil
// (serialised as null) when absent, so nothing else changes.
func (m *Migrator) V2ToV21(t models.Template) models.Template {
	objects := make([]models.Element, len(t.Objects))
	for i, el := range t.Objects {
		objects[i] = withDefaultOpacity(el)
	}

	t.Objects = objects
	t.Version = models.Version21
	t.Metadata = t.Metadata.WithVersion(models.Version21, m.Now())
	return t
}

func withDefaultOpacity(el models.Element) models.Element {
	if el.Props == nil {
		el.Props = models.UnknownProps{}
	}
	base := el.Props.Base()
	if base.Opacity != nil {
		return el
	}
	base.Opacity = models.Ptr(1.0)
	el.Props = models.WithBase(el.Props, base)
	return el
}
