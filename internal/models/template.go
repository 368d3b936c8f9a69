package models

import (
	"errors"
	"fmt"
	"time"
)

// ============ WORKING FORMAT ============

// Schema versions of the working template format, oldest first.
const (
	Version1  = "1.0"
	Version2  = "2.0"
	Version21 = "2.1"

	LatestVersion = Version21
)

// Default badge canvas in designer pixels.
const (
	DefaultCanvasWidth  = 400
	DefaultCanvasHeight = 600
)

var ErrDuplicateElementID = errors.New("duplicate element id")

type CanvasSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Metadata struct {
	CreatedAt      time.Time `json:"createdAt,omitzero"`
	UpdatedAt      time.Time `json:"updatedAt,omitzero"`
	VersionHistory []string  `json:"versionHistory"`
}

// Template is the element-based format edited by the designer.
type Template struct {
	Version    string      `json:"version"`
	Objects    []Element   `json:"objects"`
	CanvasSize *CanvasSize `json:"canvasSize,omitempty"`
	Metadata   Metadata    `json:"metadata"`
}

// UnmarshalJSON accepts both "objects" and the "elements" alias. Fields of
// the wrong type are read as absent; see DecodeLenient.
func (t *Template) UnmarshalJSON(data []byte) error {
	type plain Template
	var aux struct {
		plain
		Elements []Element `json:"elements"`
	}
	if err := DecodeLenient(data, &aux); err != nil {
		return err
	}
	*t = Template(aux.plain)
	if t.Objects == nil && aux.Elements != nil {
		t.Objects = aux.Elements
	}
	return nil
}

// Canvas returns the canvas size, or the default badge size when unset.
func (t Template) Canvas() CanvasSize {
	if t.CanvasSize == nil {
		return CanvasSize{Width: DefaultCanvasWidth, Height: DefaultCanvasHeight}
	}
	return *t.CanvasSize
}

// Validate reports element ids that appear more than once.
func (t Template) Validate() error {
	seen := make(map[string]struct{}, len(t.Objects))
	for _, el := range t.Objects {
		if _, ok := seen[el.ID]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateElementID, el.ID)
		}
		seen[el.ID] = struct{}{}
	}
	return nil
}

// CurrentVersion returns the last entry of the version history.
func (m Metadata) CurrentVersion() string {
	if len(m.VersionHistory) == 0 {
		return ""
	}
	return m.VersionHistory[len(m.VersionHistory)-1]
}

// WithVersion returns a copy of m with version appended to the history.
// The receiver's slice is never written to.
func (m Metadata) WithVersion(version string, at time.Time) Metadata {
	history := make([]string, 0, len(m.VersionHistory)+1)
	history = append(history, m.VersionHistory...)
	history = append(history, version)
	m.VersionHistory = history
	m.UpdatedAt = at
	return m
}

// ============ DESIGNER RECORD ============

type Status string

const (
	StatusDraft    Status = "draft"
	StatusOfficial Status = "official"
)

type Backgrounds struct {
	Front *string `json:"front,omitempty"`
	Back  *string `json:"back,omitempty"`
}

// DesignerTemplate is a saved designer record wrapping the working format.
type DesignerTemplate struct {
	ID              int          `json:"id"`
	EventID         int          `json:"event_id"`
	Name            *string      `json:"name,omitempty"`
	Status          *Status      `json:"status,omitempty"`
	BackgroundImage *Backgrounds `json:"backgroundImage,omitempty"`
	TemplateJSON    *Template    `json:"template_json,omitempty"`
}

// ============ KONVA (1.0) FORMAT ============

// KonvaElement is an element in the oldest schema, where positions are x/y
// and text lives in "text".
type KonvaElement struct {
	ID          string   `json:"id,omitempty"`
	Type        string   `json:"type,omitempty"`
	X           *float64 `json:"x,omitempty"`
	Y           *float64 `json:"y,omitempty"`
	Width       *float64 `json:"width,omitempty"`
	Height      *float64 `json:"height,omitempty"`
	Rotation    *float64 `json:"rotation,omitempty"`
	ScaleX      *float64 `json:"scaleX,omitempty"`
	ScaleY      *float64 `json:"scaleY,omitempty"`
	Opacity     *float64 `json:"opacity,omitempty"`
	Text        *string  `json:"text,omitempty"`
	FontSize    *float64 `json:"fontSize,omitempty"`
	FontFamily  *string  `json:"fontFamily,omitempty"`
	FontStyle   *string  `json:"fontStyle,omitempty"`
	Fill        *string  `json:"fill,omitempty"`
	Align       *string  `json:"align,omitempty"`
	Data        *string  `json:"data,omitempty"`
	Size        *float64 `json:"size,omitempty"`
	Src         *string  `json:"src,omitempty"`
	ShapeType   *string  `json:"shapeType,omitempty"`
	Stroke      *string  `json:"stroke,omitempty"`
	StrokeWidth *float64 `json:"strokeWidth,omitempty"`
}

type KonvaTemplate struct {
	Version    string         `json:"version,omitempty"`
	Elements   []KonvaElement `json:"elements"`
	CanvasSize *CanvasSize    `json:"canvasSize,omitempty"`
	Metadata   Metadata       `json:"metadata"`
}

// UnmarshalJSON accepts both "elements" and the "objects" alias.
func (t *KonvaTemplate) UnmarshalJSON(data []byte) error {
	type plain KonvaTemplate
	var aux struct {
		plain
		Objects []KonvaElement `json:"objects"`
	}
	if err := DecodeLenient(data, &aux); err != nil {
		return err
	}
	*t = KonvaTemplate(aux.plain)
	if t.Elements == nil && aux.Objects != nil {
		t.Elements = aux.Objects
	}
	return nil
}
