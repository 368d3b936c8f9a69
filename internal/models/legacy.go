package models

// ============ LEGACY (PRINT) FORMAT ============

// LegacyElement is the flat positional record read by the print pipeline.
// There is no QR type: QR codes arrive as text elements.
type LegacyElement struct {
	ID       string  `json:"id"`
	Type     string  `json:"type"`
	Content  *string `json:"content,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`
	ZIndex   int     `json:"zIndex"`

	// text
	FontFamily string  `json:"fontFamily,omitempty"`
	FontSize   float64 `json:"fontSize,omitempty"`
	FontWeight string  `json:"fontWeight,omitempty"`
	Color      string  `json:"color,omitempty"`
	TextAlign  string  `json:"textAlign,omitempty"`

	// image
	Src *string `json:"src,omitempty"`

	// shape
	ShapeType       string  `json:"shapeType,omitempty"`
	BackgroundColor string  `json:"backgroundColor,omitempty"`
	BorderColor     string  `json:"borderColor,omitempty"`
	BorderWidth     float64 `json:"borderWidth,omitempty"`
}

// Side is one face of a printed badge.
type Side struct {
	Elements   []LegacyElement `json:"elements"`
	Background *string         `json:"background"`
}

// IsEmpty reports whether the side has nothing to print.
func (s Side) IsEmpty() bool {
	return len(s.Elements) == 0 && (s.Background == nil || *s.Background == "")
}

type Sides struct {
	Front Side `json:"front"`
	Back  Side `json:"back"`
}

// BadgeTemplate is the legacy two-sided template consumed by the print
// pipeline. It is always produced fresh from a working template.
type BadgeTemplate struct {
	ID           int    `json:"id"`
	EventID      int    `json:"event_id"`
	Name         string `json:"name"`
	Status       Status `json:"status"`
	TemplateJSON Sides  `json:"template_json"`
}

// EmptyBadgeTemplate is returned for missing or unreadable input.
func EmptyBadgeTemplate() BadgeTemplate {
	return BadgeTemplate{
		Status: StatusDraft,
		TemplateJSON: Sides{
			Front: Side{Elements: []LegacyElement{}},
			Back:  Side{Elements: []LegacyElement{}},
		},
	}
}
