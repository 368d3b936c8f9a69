package typography

import (
	"badge-designer/internal/models"
	"testing"
)

func TestPairingLookup(t *testing.T) {
	p, ok := PairingByID("modern-sans")
	if !ok || p.Heading != "Montserrat" {
		t.Fatalf("PairingByID(modern-sans) = %+v, %v", p, ok)
	}
	if _, ok := PairingByID("nope"); ok {
		t.Error("expected unknown pairing to be missing")
	}
	for _, p := range PairingsByCategory("elegant") {
		if p.Category != "elegant" {
			t.Errorf("wrong category in result: %+v", p)
		}
	}
	if len(PairingsByCategory("elegant")) != 2 {
		t.Errorf("expected 2 elegant pairings")
	}
}

func TestTableIDsUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, p := range FontPairings {
		if seen[p.ID] {
			t.Errorf("duplicate pairing id %q", p.ID)
		}
		seen[p.ID] = true
	}
	seen = map[string]bool{}
	for _, p := range TextPresets {
		if seen[p.ID] {
			t.Errorf("duplicate preset id %q", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestApplyPresetReturnsNewValue(t *testing.T) {
	preset, ok := PresetByID("attendee-name")
	if !ok {
		t.Fatal("attendee-name preset missing")
	}

	in := models.TextProps{
		Content:  models.Ptr("Keep me"),
		FontSize: models.Ptr(10.0),
	}
	out := ApplyPreset(in, preset)

	if models.ValueOr(out.FontSize, 0) != 32 || models.ValueOr(out.FontWeight, "") != "bold" {
		t.Errorf("preset not applied: %+v", out)
	}
	if models.ValueOr(out.Content, "") != "Keep me" {
		t.Errorf("content replaced: %q", models.ValueOr(out.Content, ""))
	}
	if *in.FontSize != 10 || in.FontWeight != nil {
		t.Errorf("input modified: %+v", in)
	}
	if out.LetterSpacing != nil {
		t.Errorf("zero letter spacing should not be set")
	}
}

func TestNewTextElement(t *testing.T) {
	preset, _ := PresetByID("event-title")
	el := NewTextElement("title", preset)

	if el.ID != "title" || el.Type() != models.ElementText {
		t.Fatalf("unexpected element %+v", el)
	}
	p := el.Props.(models.TextProps)
	if models.ValueOr(p.Content, "") != "{event.name}" || models.ValueOr(p.Width, 0) != preset.Width {
		t.Errorf("unexpected props %+v", p)
	}
	if len(PresetsByCategory("event")) != 2 {
		t.Errorf("expected 2 event presets")
	}
}

func TestScaleSizes(t *testing.T) {
	s, ok := ScaleByName("major-third")
	if !ok {
		t.Fatal("major-third missing")
	}

	tests := []struct {
		step int
		want float64
	}{
		{0, 12},
		{1, 15},
		{2, 18.8},
		{-1, 9.6},
	}
	for _, tt := range tests {
		if got := s.Size(tt.step); got != tt.want {
			t.Errorf("Size(%d) = %v, want %v", tt.step, got, tt.want)
		}
	}

	if got := s.Sizes(3); len(got) != 3 || got[0] != 12 || got[2] != 18.8 {
		t.Errorf("Sizes(3) = %v", got)
	}
	if s.Sizes(0) != nil {
		t.Error("Sizes(0) should be nil")
	}
	if _, ok := ScaleByName("missing"); ok {
		t.Error("expected missing scale")
	}
}
