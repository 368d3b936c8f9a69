package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestElementDecodeSelectsPayloadByType(t *testing.T) {
	raw := `[
		{"id":"t","type":"text","properties":{"left":5,"content":"Hi","qrData":"ignored"}},
		{"id":"q","type":"qr","properties":{"qrData":"{attendee.uuid}","size":120}},
		{"id":"i","type":"image","properties":{"src":"https://cdn.test/logo.png"}},
		{"id":"s","type":"shape","properties":{"shapeType":"circle","fill":"#ff0000"}}
	]`

	var elements []Element
	if err := json.Unmarshal([]byte(raw), &elements); err != nil {
		t.Fatalf("decode: %v", err)
	}

	text, ok := elements[0].Props.(TextProps)
	if !ok {
		t.Fatalf("expected TextProps, got %T", elements[0].Props)
	}
	if ValueOr(text.Content, "") != "Hi" || ValueOr(text.Left, -1) != 5 {
		t.Errorf("unexpected text props: %+v", text)
	}

	qr, ok := elements[1].Props.(QRProps)
	if !ok || ValueOr(qr.QRData, "") != "{attendee.uuid}" || ValueOr(qr.Size, 0) != 120 {
		t.Errorf("unexpected qr props: %#v", elements[1].Props)
	}
	if _, ok := elements[2].Props.(ImageProps); !ok {
		t.Errorf("expected ImageProps, got %T", elements[2].Props)
	}
	shape, ok := elements[3].Props.(ShapeProps)
	if !ok || ValueOr(shape.ShapeType, "") != "circle" {
		t.Errorf("unexpected shape props: %#v", elements[3].Props)
	}

	out, err := json.Marshal(elements[0])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(out), "qrData") {
		t.Errorf("text element kept a qr key: %s", out)
	}
}

func TestUnknownElementKeepsExtraKeys(t *testing.T) {
	raw := `{"id":"l1","type":"line","properties":{"left":1,"points":[0,0,10,10],"stroke":"#000"}}`

	var el Element
	if err := json.Unmarshal([]byte(raw), &el); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if el.Type() != "line" {
		t.Fatalf("expected type line, got %q", el.Type())
	}
	p := el.Props.(UnknownProps)
	if _, ok := p.Extra["points"]; !ok {
		t.Fatalf("points not preserved: %+v", p.Extra)
	}
	if _, ok := p.Extra["left"]; ok {
		t.Fatalf("geometry key leaked into extra")
	}

	out, err := json.Marshal(el)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back struct {
		Type       string                     `json:"type"`
		Properties map[string]json.RawMessage `json:"properties"`
	}
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if back.Type != "line" || string(back.Properties["points"]) != "[0,0,10,10]" || string(back.Properties["left"]) != "1" {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestTemplateAcceptsElementsAlias(t *testing.T) {
	raw := `{"version":"2.0","elements":[{"id":"a","type":"text","properties":{}}],"canvasSize":{"width":300,"height":500}}`

	var tpl Template
	if err := json.Unmarshal([]byte(raw), &tpl); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tpl.Objects) != 1 || tpl.Objects[0].ID != "a" {
		t.Fatalf("elements alias not read: %+v", tpl.Objects)
	}
	if c := tpl.Canvas(); c.Width != 300 || c.Height != 500 {
		t.Errorf("unexpected canvas %+v", c)
	}

	out, _ := json.Marshal(tpl)
	if !strings.Contains(string(out), `"objects"`) {
		t.Errorf("expected objects key in output: %s", out)
	}
}

func TestKonvaTemplateAcceptsObjectsAlias(t *testing.T) {
	var doc KonvaTemplate
	if err := json.Unmarshal([]byte(`{"version":"1.0","objects":[{"id":"a","x":1},{"id":"b","x":"2"}]}`), &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(doc.Elements) != 2 || doc.Elements[0].ID != "a" || ValueOr(doc.Elements[1].X, 0) != 2 {
		t.Fatalf("objects alias not read: %+v", doc.Elements)
	}

	doc = KonvaTemplate{}
	if err := json.Unmarshal([]byte(`{"elements":[{"id":"e"}],"objects":[{"id":"o"}]}`), &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(doc.Elements) != 1 || doc.Elements[0].ID != "e" {
		t.Errorf("elements should win over objects: %+v", doc.Elements)
	}
}

func TestDecodeLenient(t *testing.T) {
	type inner struct {
		N float64 `json:"n"`
	}
	type target struct {
		ID      int         `json:"id"`
		Left    *float64    `json:"left"`
		Name    *string     `json:"name"`
		At      time.Time   `json:"at"`
		Inner   inner       `json:"inner"`
		List    []inner     `json:"list"`
		Numbers []float64   `json:"numbers"`
		Shadow  *TextShadow `json:"shadow"`
	}

	tests := []struct {
		name  string
		raw   string
		check func(target) bool
	}{
		{"well formed", `{"id":3,"left":1.5}`, func(v target) bool { return v.ID == 3 && ValueOr(v.Left, 0) == 1.5 }},
		{"numeric strings", `{"id":"4","left":" 2.5 "}`, func(v target) bool { return v.ID == 4 && ValueOr(v.Left, 0) == 2.5 }},
		{"garbage number", `{"id":"x","left":"y","name":"ok"}`, func(v target) bool {
			return v.ID == 0 && v.Left == nil && ValueOr(v.Name, "") == "ok"
		}},
		{"number for string", `{"name":5,"id":1}`, func(v target) bool { return v.Name == nil && v.ID == 1 }},
		{"epoch time", `{"at":1700000000000}`, func(v target) bool { return v.At.Equal(time.UnixMilli(1700000000000)) }},
		{"bad time", `{"at":true,"id":2}`, func(v target) bool { return v.At.IsZero() && v.ID == 2 }},
		{"nested", `{"inner":{"n":"7"},"id":[]}`, func(v target) bool { return v.Inner.N == 7 && v.ID == 0 }},
		{"list items", `{"list":[{"n":1},5,{"n":"2"}],"numbers":[1,"x",3]}`, func(v target) bool {
			return len(v.List) == 2 && v.List[1].N == 2 && len(v.Numbers) == 2 && v.Numbers[1] == 3
		}},
		{"bad pointer struct", `{"shadow":"none","id":9}`, func(v target) bool { return v.Shadow == nil && v.ID == 9 }},
		{"case insensitive", `{"ID":"6"}`, func(v target) bool { return v.ID == 6 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v target
			if err := DecodeLenient([]byte(tt.raw), &v); err != nil {
				t.Fatalf("DecodeLenient: %v", err)
			}
			if !tt.check(v) {
				t.Errorf("unexpected result %+v", v)
			}
		})
	}

	for _, raw := range []string{`[1]`, `"x"`, `{"id":`} {
		var v target
		if err := DecodeLenient([]byte(raw), &v); err == nil {
			t.Errorf("DecodeLenient(%s) should fail", raw)
		}
	}
}

func TestElementDecodeIsLenient(t *testing.T) {
	raw := `[
		{"id":7,"type":"text","properties":{"left":"10","top":"abc","content":"Hi","fontSize":"18"}},
		{"id":"q","type":"qr","properties":"broken"},
		{"id":"l","type":"line","properties":{"left":"3","points":[1,2]}}
	]`
	var elements []Element
	if err := json.Unmarshal([]byte(raw), &elements); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	text := elements[0].Props.(TextProps)
	if elements[0].ID != "7" || ValueOr(text.Left, 0) != 10 || text.Top != nil || ValueOr(text.FontSize, 0) != 18 || ValueOr(text.Content, "") != "Hi" {
		t.Errorf("text decoded as %q %+v", elements[0].ID, text)
	}
	if qr, ok := elements[1].Props.(QRProps); !ok || qr.QRData != nil {
		t.Errorf("broken properties should read as empty: %#v", elements[1].Props)
	}
	line := elements[2].Props.(UnknownProps)
	if ValueOr(line.Left, 0) != 3 || string(line.Extra["points"]) != "[1,2]" {
		t.Errorf("unknown decoded as %+v", line)
	}
}

func TestTemplateCanvasDefault(t *testing.T) {
	c := Template{}.Canvas()
	if c.Width != 400 || c.Height != 600 {
		t.Errorf("Canvas() = %+v, want 400x600", c)
	}
}

func TestTemplateValidateDuplicateIDs(t *testing.T) {
	tpl := Template{Objects: []Element{
		{ID: "a", Props: TextProps{}},
		{ID: "b", Props: QRProps{}},
		{ID: "a", Props: ShapeProps{}},
	}}
	if err := tpl.Validate(); !errors.Is(err, ErrDuplicateElementID) {
		t.Fatalf("expected ErrDuplicateElementID, got %v", err)
	}

	tpl.Objects = tpl.Objects[:2]
	if err := tpl.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMetadataWithVersionDoesNotShareHistory(t *testing.T) {
	history := make([]string, 1, 4)
	history[0] = "1.0"
	m := Metadata{VersionHistory: history}

	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	a := m.WithVersion("2.0", at)
	b := m.WithVersion("9.9", at)

	if a.CurrentVersion() != "2.0" || b.CurrentVersion() != "9.9" {
		t.Fatalf("histories interfere: %v %v", a.VersionHistory, b.VersionHistory)
	}
	if len(m.VersionHistory) != 1 {
		t.Fatalf("receiver modified: %v", m.VersionHistory)
	}
	if !a.UpdatedAt.Equal(at) {
		t.Errorf("UpdatedAt = %v, want %v", a.UpdatedAt, at)
	}
}

func TestWithBaseKeepsPayload(t *testing.T) {
	p := TextProps{Content: Ptr("Hello")}
	got := WithBase(p, Geometry{Opacity: Ptr(0.5)}).(TextProps)
	if ValueOr(got.Content, "") != "Hello" || ValueOr(got.Opacity, 0) != 0.5 {
		t.Errorf("unexpected props %+v", got)
	}
	if p.Opacity != nil {
		t.Errorf("input modified")
	}
}

func TestPlaceholderValues(t *testing.T) {
	a := &Attendee{
		UUID:      "u-1",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Company:   "Analytical",
		CustomFieldValues: []CustomFieldValue{
			{Name: "tableNumber", Value: "12"},
		},
	}
	values := PlaceholderValues(a, &EventInfo{Name: "GoCon"})

	tests := map[string]string{
		"fullName":    "Ada Lovelace",
		"company":     "Analytical",
		"uuid":        "u-1",
		"eventName":   "GoCon",
		"tableNumber": "12",
	}
	for key, want := range tests {
		if got := values[key]; got != want {
			t.Errorf("values[%q] = %q, want %q", key, got, want)
		}
	}
}

func TestEmptyBadgeTemplate(t *testing.T) {
	bt := EmptyBadgeTemplate()
	out, err := json.Marshal(bt)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":0,"event_id":0,"name":"","status":"draft","template_json":{"front":{"elements":[],"background":null},"back":{"elements":[],"background":null}}}`
	if string(out) != want {
		t.Errorf("got  %s\nwant %s", out, want)
	}
}
