// Package typography holds the static font pairing, text preset and type
// scale tables offered by the badge designer.
package typography

import (
	"badge-designer/internal/models"
	"math"
)

// ============ FONT PAIRINGS ============

type FontPairing struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Heading     string `json:"heading"`
	Body        string `json:"body"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

var FontPairings = []FontPairing{
	{ID: "classic-serif", Name: "Classic", Heading: "Playfair Display", Body: "Source Sans Pro", Category: "elegant", Description: "High-contrast serif names over a neutral body face."},
	{ID: "modern-sans", Name: "Modern", Heading: "Montserrat", Body: "Open Sans", Category: "modern", Description: "Geometric headings for tech and startup events."},
	{ID: "corporate", Name: "Corporate", Heading: "Roboto", Body: "Roboto", Category: "professional", Description: "One family, two weights. Safe for conferences."},
	{ID: "editorial", Name: "Editorial", Heading: "Merriweather", Body: "Lato", Category: "elegant", Description: "Readable serif headings with a warm sans body."},
	{ID: "bold-display", Name: "Bold Display", Heading: "Oswald", Body: "Lato", Category: "bold", Description: "Condensed uppercase names that read from a distance."},
	{ID: "friendly", Name: "Friendly", Heading: "Poppins", Body: "Nunito", Category: "modern", Description: "Rounded shapes for community and festival badges."},
	{ID: "print-safe", Name: "Print Safe", Heading: "Helvetica", Body: "Helvetica", Category: "professional", Description: "Core PDF fonts only; prints identically everywhere."},
}

// PairingByID looks up a font pairing.
func PairingByID(id string) (FontPairing, bool) {
	for _, p := range FontPairings {
		if p.ID == id {
			return p, true
		}
	}
	return FontPairing{}, false
}

// PairingsByCategory returns the pairings in category, in table order.
func PairingsByCategory(category string) []FontPairing {
	var out []FontPairing
	for _, p := range FontPairings {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// ============ TEXT PRESETS ============

type TextPreset struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Content       string  `json:"content"`
	FontFamily    string  `json:"fontFamily"`
	FontSize      float64 `json:"fontSize"`
	FontWeight    string  `json:"fontWeight"`
	Fill          string  `json:"fill"`
	TextAlign     string  `json:"textAlign"`
	LineHeight    float64 `json:"lineHeight"`
	LetterSpacing float64 `json:"letterSpacing"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
}

var TextPresets = []TextPreset{
	{ID: "attendee-name", Name: "Attendee Name", Category: "attendee", Content: "{attendee.name}", FontFamily: "Helvetica", FontSize: 32, FontWeight: "bold", Fill: "#000000", TextAlign: "center", LineHeight: 1.1, Width: 360, Height: 44},
	{ID: "attendee-company", Name: "Company", Category: "attendee", Content: "{attendee.company}", FontFamily: "Helvetica", FontSize: 20, FontWeight: "normal", Fill: "#333333", TextAlign: "center", LineHeight: 1.2, Width: 360, Height: 28},
	{ID: "attendee-title", Name: "Job Title", Category: "attendee", Content: "{attendee.jobtitle}", FontFamily: "Helvetica", FontSize: 16, FontWeight: "normal", Fill: "#555555", TextAlign: "center", LineHeight: 1.2, Width: 360, Height: 24},
	{ID: "guest-type", Name: "Guest Type Banner", Category: "attendee", Content: "{guest_type.name}", FontFamily: "Helvetica", FontSize: 18, FontWeight: "bold", Fill: "#ffffff", TextAlign: "center", LineHeight: 1, LetterSpacing: 2, Width: 400, Height: 36},
	{ID: "event-title", Name: "Event Title", Category: "event", Content: "{event.name}", FontFamily: "Helvetica", FontSize: 24, FontWeight: "bold", Fill: "#000000", TextAlign: "center", LineHeight: 1.1, Width: 360, Height: 34},
	{ID: "event-details", Name: "Event Date & Venue", Category: "event", Content: "{event.date} · {event.location}", FontFamily: "Helvetica", FontSize: 12, FontWeight: "normal", Fill: "#555555", TextAlign: "center", LineHeight: 1.3, Width: 360, Height: 20},
	{ID: "small-print", Name: "Small Print", Category: "body", Content: "Please wear this badge at all times", FontFamily: "Helvetica", FontSize: 9, FontWeight: "normal", Fill: "#777777", TextAlign: "center", LineHeight: 1.3, Width: 360, Height: 16},
}

func PresetByID(id string) (TextPreset, bool) {
	for _, p := range TextPresets {
		if p.ID == id {
			return p, true
		}
	}
	return TextPreset{}, false
}

func PresetsByCategory(category string) []TextPreset {
	var out []TextPreset
	for _, p := range TextPresets {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// ApplyPreset returns props restyled by preset. Content and geometry are
// kept; zero-valued preset fields leave the existing value alone.
func ApplyPreset(props models.TextProps, preset TextPreset) models.TextProps {
	if preset.FontFamily != "" {
		props.FontFamily = models.Ptr(preset.FontFamily)
	}
	if preset.FontSize > 0 {
		props.FontSize = models.Ptr(preset.FontSize)
	}
	if preset.FontWeight != "" {
		props.FontWeight = models.Ptr(preset.FontWeight)
	}
	if preset.Fill != "" {
		props.Fill = models.Ptr(preset.Fill)
	}
	if preset.TextAlign != "" {
		props.TextAlign = models.Ptr(preset.TextAlign)
	}
	if preset.LineHeight > 0 {
		props.LineHeight = models.Ptr(preset.LineHeight)
	}
	if preset.LetterSpacing != 0 {
		props.LetterSpacing = models.Ptr(preset.LetterSpacing)
	}
	return props
}

// NewTextElement builds a text element from preset at the canvas origin.
func NewTextElement(id string, preset TextPreset) models.Element {
	props := ApplyPreset(models.TextProps{
		Geometry: models.Geometry{
			Left:   models.Ptr(0.0),
			Top:    models.Ptr(0.0),
			Width:  models.Ptr(preset.Width),
			Height: models.Ptr(preset.Height),
		},
		Content: models.Ptr(preset.Content),
	}, preset)
	return models.Element{ID: id, Props: props}
}

// ============ TYPE SCALES ============

// Scale is a modular type scale: step n has size Base * Ratio^n.
type Scale struct {
	Name  string  `json:"name"`
	Base  float64 `json:"base"`
	Ratio float64 `json:"ratio"`
}

var Scales = map[string]Scale{
	"minor-third":    {Name: "minor-third", Base: 12, Ratio: 1.2},
	"major-third":    {Name: "major-third", Base: 12, Ratio: 1.25},
	"perfect-fourth": {Name: "perfect-fourth", Base: 12, Ratio: 1.333},
	"golden-ratio":   {Name: "golden-ratio", Base: 10, Ratio: 1.618},
}

func ScaleByName(name string) (Scale, bool) {
	s, ok := Scales[name]
	return s, ok
}

// Size returns the font size at step, rounded to a tenth of a pixel.
// Negative steps go below the base size.
func (s Scale) Size(step int) float64 {
	v := s.Base * math.Pow(s.Ratio, float64(step))
	return math.Round(v*10) / 10
}

// Sizes returns the first n steps starting at the base size.
func (s Scale) Sizes(n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = s.Size(i)
	}
	return out
}
