package models

import (
	"encoding/json"
	"fmt"
)

// ============ ELEMENT TYPES ============

// ElementType discriminates the properties payload of a BadgeElement.
type ElementType string

const (
	ElementText  ElementType = "text"
	ElementQR    ElementType = "qr"
	ElementImage ElementType = "image"
	ElementShape ElementType = "shape"
)

// Shadow is the drop shadow applied to a whole element (schema 2.1).
type Shadow struct {
	Color   string  `json:"color"`
	Blur    float64 `json:"blur"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

// Geometry holds the properties every element type carries. Nil pointers
// mean the key was absent, which is not the same as zero.
type Geometry struct {
	Left    *float64 `json:"left,omitempty"`
	Top     *float64 `json:"top,omitempty"`
	Width   *float64 `json:"width,omitempty"`
	Height  *float64 `json:"height,omitempty"`
	Angle   *float64 `json:"angle,omitempty"`
	ScaleX  *float64 `json:"scaleX,omitempty"`
	ScaleY  *float64 `json:"scaleY,omitempty"`
	Opacity *float64 `json:"opacity,omitempty"`
	ZIndex  *int     `json:"zIndex,omitempty"`
	Shadow  *Shadow  `json:"shadow"`
}

// Base returns the shared geometry. It is promoted into every payload type.
func (g Geometry) Base() Geometry { return g }

func (Geometry) sealed() {}

// Properties is the per-type payload of an element. The set of
// implementations is closed: TextProps, QRProps, ImageProps, ShapeProps
// and UnknownProps.
type Properties interface {
	Type() ElementType
	Base() Geometry
	sealed()
}

type TextShadow struct {
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
	Blur    float64 `json:"blur"`
	Color   string  `json:"color"`
}

type TextProps struct {
	Geometry
	Content        *string     `json:"content,omitempty"`
	FontSize       *float64    `json:"fontSize,omitempty"`
	FontFamily     *string     `json:"fontFamily,omitempty"`
	Fill           *string     `json:"fill,omitempty"`
	FontWeight     *string     `json:"fontWeight,omitempty"`
	FontStyle      *string     `json:"fontStyle,omitempty"`
	TextAlign      *string     `json:"textAlign,omitempty"`
	LineHeight     *float64    `json:"lineHeight,omitempty"`
	LetterSpacing  *float64    `json:"letterSpacing,omitempty"`
	TextDecoration *string     `json:"textDecoration,omitempty"`
	TextShadow     *TextShadow `json:"textShadow,omitempty"`
}

func (TextProps) Type() ElementType { return ElementText }

type QRColor struct {
	Dark  string `json:"dark"`
	Light string `json:"light"`
}

type QRProps struct {
	Geometry
	QRData  *string  `json:"qrData,omitempty"`
	Size    *float64 `json:"size,omitempty"`
	QRColor *QRColor `json:"qrColor,omitempty"`
	QRStyle *string  `json:"qrStyle,omitempty"`
	QRLogo  *string  `json:"qrLogo,omitempty"`
}

func (QRProps) Type() ElementType { return ElementQR }

type ImageFilter struct {
	Type  string   `json:"type"`
	Value *float64 `json:"value,omitempty"`
}

type ImageProps struct {
	Geometry
	Src          *string       `json:"src,omitempty"`
	ImageFilters []ImageFilter `json:"imageFilters,omitempty"`
}

func (ImageProps) Type() ElementType { return ElementImage }

type ShapeProps struct {
	Geometry
	ShapeType       *string   `json:"shapeType,omitempty"`
	Fill            *string   `json:"fill,omitempty"`
	Stroke          *string   `json:"stroke,omitempty"`
	StrokeWidth     *float64  `json:"strokeWidth,omitempty"`
	StrokeDashArray []float64 `json:"strokeDashArray,omitempty"`
	Rx              *float64  `json:"rx,omitempty"`
	Ry              *float64  `json:"ry,omitempty"`
}

func (ShapeProps) Type() ElementType { return ElementShape }

// UnknownProps keeps elements of types this service does not understand
// (line, polygon, group, table, ...). Non-geometry keys are kept verbatim
// so the element survives migration untouched.
type UnknownProps struct {
	Geometry
	Name  ElementType                `json:"-"`
	Extra map[string]json.RawMessage `json:"-"`
}

func (p UnknownProps) Type() ElementType { return p.Name }

func (p UnknownProps) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(p.Geometry)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	for k, v := range p.Extra {
		if _, ok := fields[k]; !ok {
			fields[k] = v
		}
	}
	return json.Marshal(fields)
}

var geometryKeys = []string{"left", "top", "width", "height", "angle", "scaleX", "scaleY", "opacity", "zIndex", "shadow"}

// WithBase returns a copy of p carrying g as its geometry.
func WithBase(p Properties, g Geometry) Properties {
	switch v := p.(type) {
	case TextProps:
		v.Geometry = g
		return v
	case QRProps:
		v.Geometry = g
		return v
	case ImageProps:
		v.Geometry = g
		return v
	case ShapeProps:
		v.Geometry = g
		return v
	case UnknownProps:
		v.Geometry = g
		return v
	default:
		return UnknownProps{Geometry: g}
	}
}

// ============ ELEMENT ============

// Element is one object placed on the badge canvas.
type Element struct {
	ID    string
	Props Properties
}

// Type reports the element type, or "" when the element has no payload.
func (e Element) Type() ElementType {
	if e.Props == nil {
		return ""
	}
	return e.Props.Type()
}

// Base returns the element geometry, zero when there is no payload.
func (e Element) Base() Geometry {
	if e.Props == nil {
		return Geometry{}
	}
	return e.Props.Base()
}

type elementJSON struct {
	ID         string          `json:"id"`
	Type       ElementType     `json:"type"`
	Properties json.RawMessage `json:"properties"`
}

func (e Element) MarshalJSON() ([]byte, error) {
	props := e.Props
	if props == nil {
		props = UnknownProps{}
	}
	raw, err := json.Marshal(props)
	if err != nil {
		return nil, fmt.Errorf("element %s: %w", e.ID, err)
	}
	return json.Marshal(elementJSON{ID: e.ID, Type: props.Type(), Properties: raw})
}

// UnmarshalJSON never fails on a well-formed object. A numeric id keeps
// its digits, and a properties value that is not an object reads as empty.
func (e *Element) UnmarshalJSON(data []byte) error {
	var aux struct {
		ID         json.RawMessage `json:"id"`
		Type       ElementType     `json:"type"`
		Properties json.RawMessage `json:"properties"`
	}
	if err := DecodeLenient(data, &aux); err != nil {
		return err
	}
	e.ID = idString(aux.ID)
	e.Props = DecodeProperties(aux.Type, aux.Properties)
	return nil
}

func idString(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var n json.Number
	if json.Unmarshal(raw, &n) == nil {
		return n.String()
	}
	return ""
}

// DecodeProperties decodes a raw properties bag into the payload for t.
// Keys that are not meaningful for t are dropped, except for unknown types
// where they are kept in UnknownProps.Extra. Values of the wrong type are
// read as absent.
func DecodeProperties(t ElementType, raw json.RawMessage) Properties {
	if len(raw) == 0 || string(raw) == "null" {
		raw = json.RawMessage("{}")
	}

	switch t {
	case ElementText:
		var p TextProps
		_ = DecodeLenient(raw, &p)
		return p
	case ElementQR:
		var p QRProps
		_ = DecodeLenient(raw, &p)
		return p
	case ElementImage:
		var p ImageProps
		_ = DecodeLenient(raw, &p)
		return p
	case ElementShape:
		var p ShapeProps
		_ = DecodeLenient(raw, &p)
		return p
	default:
		return decodeUnknown(t, raw)
	}
}

func decodeUnknown(t ElementType, raw json.RawMessage) Properties {
	p := UnknownProps{Name: t}
	var extra map[string]json.RawMessage
	if err := json.Unmarshal(raw, &extra); err != nil {
		return p
	}
	_ = DecodeLenient(raw, &p.Geometry)
	for _, k := range geometryKeys {
		delete(extra, k)
	}
	if len(extra) > 0 {
		p.Extra = extra
	}
	return p
}

// ============ HELPERS ============

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

// ValueOr dereferences p, falling back to def when p is nil.
func ValueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
