package generator

import (
	"badge-designer/internal/cache"
	"badge-designer/internal/models"
	"bytes"
	"crypto/md5"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// Designer canvases are measured in CSS pixels (96 per inch).
const pxToPt = 0.75

var placeholderRegex = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// PDFGenerator renders a legacy badge template for one attendee.
type PDFGenerator struct {
	template       *models.BadgeTemplate
	values         map[string]string
	canvas         models.CanvasSize
	pdf            *gofpdf.Fpdf
	translate      func(string) string
	imageDataCache map[string][]byte // source -> PNG bytes sized for the element
}

// NewPDFGenerator creates a generator whose pages match canvas.
func NewPDFGenerator(template *models.BadgeTemplate, canvas models.CanvasSize, attendee *models.Attendee, event *models.EventInfo) *PDFGenerator {
	if canvas.Width <= 0 {
		canvas.Width = models.DefaultCanvasWidth
	}
	if canvas.Height <= 0 {
		canvas.Height = models.DefaultCanvasHeight
	}
	if attendee == nil {
		attendee = &models.Attendee{}
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size: gofpdf.SizeType{
			Wd: canvas.Width * pxToPt,
			Ht: canvas.Height * pxToPt,
		},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	return &PDFGenerator{
		template:       template,
		values:         models.PlaceholderValues(attendee, event),
		canvas:         canvas,
		pdf:            pdf,
		translate:      pdf.UnicodeTranslatorFromDescriptor(""), // UTF-8 -> cp1252 for core fonts
		imageDataCache: make(map[string][]byte),
	}
}

// SetImageDataCache sets images fetched ahead of time, keyed by source.
func (g *PDFGenerator) SetImageDataCache(cache map[string][]byte) {
	if cache != nil {
		g.imageDataCache = cache
	}
}

// ImageRequests lists the images a template needs, for prefetching.
func ImageRequests(t *models.BadgeTemplate, canvas models.CanvasSize) []cache.ImageRequest {
	var reqs []cache.ImageRequest
	for _, side := range []models.Side{t.TemplateJSON.Front, t.TemplateJSON.Back} {
		if side.Background != nil && *side.Background != "" {
			reqs = append(reqs, cache.ImageRequest{Source: *side.Background, Width: canvas.Width, Height: canvas.Height})
		}
		for _, el := range side.Elements {
			if el.Type == "image" && el.Src != nil && *el.Src != "" {
				reqs = append(reqs, cache.ImageRequest{Source: *el.Src, Width: el.Width, Height: el.Height})
			}
		}
	}
	return reqs
}

// Generate renders the front side, and the back side when it has
// anything on it, and returns the PDF bytes.
func (g *PDFGenerator) Generate() ([]byte, error) {
	g.renderSide(g.template.TemplateJSON.Front)
	if !g.template.TemplateJSON.Back.IsEmpty() {
		g.renderSide(g.template.TemplateJSON.Back)
	}

	var buf bytes.Buffer
	if err := g.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to output PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *PDFGenerator) renderSide(side models.Side) {
	g.pdf.AddPage()

	if side.Background != nil && *side.Background != "" {
		if err := g.drawImage("background", *side.Background, 0, 0, g.canvas.Width, g.canvas.Height); err != nil {
			slog.Warn("badge background skipped", "src", *side.Background, "err", err)
		}
	}

	for _, el := range sortedElements(side.Elements) {
		if err := g.renderElement(el); err != nil {
			// Keep going: one broken element should not void the badge.
			slog.Warn("badge element skipped", "id", el.ID, "type", el.Type, "err", err)
		}
	}
}

// sortedElements orders by zIndex without touching the template.
func sortedElements(in []models.LegacyElement) []models.LegacyElement {
	out := make([]models.LegacyElement, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ZIndex < out[j].ZIndex
	})
	return out
}

func (g *PDFGenerator) renderElement(el models.LegacyElement) error {
	if el.Rotation != 0 {
		g.pdf.TransformBegin()
		// gofpdf rotates counter-clockwise; the designer rotates clockwise
		// around the top-left corner.
		g.pdf.TransformRotate(-el.Rotation, el.X*pxToPt, el.Y*pxToPt)
		defer g.pdf.TransformEnd()
	}

	switch el.Type {
	case "text":
		return g.renderText(el)
	case "image":
		return g.renderImage(el)
	case "shape":
		return g.renderShape(el)
	default:
		// Unknown element type, skip
		return nil
	}
}

// renderText renders a text element
func (g *PDFGenerator) renderText(el models.LegacyElement) error {
	text := ""
	if el.Content != nil {
		text = g.resolvePlaceholders(*el.Content)
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}

	fontStyle := ""
	switch el.FontWeight {
	case "bold", "bolder", "600", "700", "800", "900":
		fontStyle = "B"
	}

	fontSize := el.FontSize * pxToPt
	if fontSize < 4 {
		fontSize = 4
	}
	if fontSize > 72 {
		fontSize = 72
	}

	g.pdf.SetFont(coreFont(el.FontFamily), fontStyle, fontSize)

	r, gr, b := hexToRGB(el.Color)
	g.pdf.SetTextColor(r, gr, b)

	// gofpdf alignment: Horizontal (L, C, R) + Vertical (T, M, B)
	alignStr := "LM"
	switch el.TextAlign {
	case "center":
		alignStr = "CM"
	case "right":
		alignStr = "RM"
	}

	text = g.translate(text)
	x, y := el.X*pxToPt, el.Y*pxToPt
	w, h := el.Width*pxToPt, el.Height*pxToPt
	g.pdf.SetXY(x, y)

	if strings.Contains(text, "\n") || g.pdf.GetStringWidth(text) > w*0.95 {
		lineHeight := fontSize * 1.2
		if lineHeight > h {
			lineHeight = h
		}
		g.pdf.MultiCell(w, lineHeight, text, "", alignStr[:1], false)
		return nil
	}

	g.pdf.CellFormat(w, h, text, "", 0, alignStr, false, 0, "")
	return nil
}

// renderImage renders an image element
func (g *PDFGenerator) renderImage(el models.LegacyElement) error {
	if el.Src == nil || *el.Src == "" {
		return nil // Nothing to draw
	}
	return g.drawImage(el.ID, *el.Src, el.X, el.Y, el.Width, el.Height)
}

func (g *PDFGenerator) drawImage(id, src string, x, y, w, h float64) error {
	imageData, ok := g.imageDataCache[src]
	if !ok {
		var err error
		imageData, err = cache.GetImageData(src, w, h)
		if err != nil {
			return fmt.Errorf("element '%s': failed to get image data: %w", id, err)
		}
	}

	hash := md5.Sum([]byte(src))
	imageName := fmt.Sprintf("img_%x", hash[:8])

	info := g.pdf.RegisterImageOptionsReader(imageName, gofpdf.ImageOptions{
		ImageType: "PNG", // All processed images are PNG
	}, bytes.NewReader(imageData))
	if info == nil || g.pdf.Err() {
		return fmt.Errorf("element '%s': failed to register image data: %v", id, g.pdf.Error())
	}

	g.pdf.ImageOptions(
		imageName,
		x*pxToPt, y*pxToPt,
		w*pxToPt, h*pxToPt,
		false,
		gofpdf.ImageOptions{ImageType: "PNG"},
		0, "",
	)
	return nil
}

// renderShape renders rectangles, circles and ellipses with fill and border
func (g *PDFGenerator) renderShape(el models.LegacyElement) error {
	style := ""
	if el.BackgroundColor != "" && el.BackgroundColor != "transparent" {
		r, gr, b := hexToRGB(el.BackgroundColor)
		g.pdf.SetFillColor(r, gr, b)
		style += "F"
	}
	if el.BorderWidth > 0 && el.BorderColor != "" && el.BorderColor != "transparent" {
		r, gr, b := hexToRGB(el.BorderColor)
		g.pdf.SetDrawColor(r, gr, b)
		g.pdf.SetLineWidth(el.BorderWidth * pxToPt)
		style += "D"
	}
	if style == "" {
		return nil
	}

	x, y := el.X*pxToPt, el.Y*pxToPt
	w, h := el.Width*pxToPt, el.Height*pxToPt

	switch el.ShapeType {
	case "circle", "ellipse":
		g.pdf.Ellipse(x+w/2, y+h/2, w/2, h/2, 0, style)
	case "rectangle", "rect", "":
		g.pdf.Rect(x, y, w, h, style)
	default:
		return fmt.Errorf("unsupported shape type %q", el.ShapeType)
	}
	return nil
}

// resolvePlaceholders replaces {fullName}, {email}, ... with attendee and
// event values. Unknown placeholders are printed as written.
func (g *PDFGenerator) resolvePlaceholders(content string) string {
	if content == "" {
		return ""
	}
	return placeholderRegex.ReplaceAllStringFunc(content, func(match string) string {
		if v, ok := g.values[match[1:len(match)-1]]; ok {
			return v
		}
		return match
	})
}

// ============ HELPER FUNCTIONS ============

// coreFont maps a designer font family onto one of the PDF core fonts.
func coreFont(family string) string {
	f := strings.ToLower(family)
	switch {
	case strings.Contains(f, "courier"), strings.Contains(f, "mono"):
		return "Courier"
	case strings.Contains(f, "times"), strings.Contains(f, "georgia"),
		strings.Contains(f, "serif") && !strings.Contains(f, "sans"):
		return "Times"
	default:
		return "Helvetica"
	}
}

func hexToRGB(hex string) (int, int, int) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return 0, 0, 0
	}
	r, _ := strconv.ParseInt(hex[0:2], 16, 64)
	gr, _ := strconv.ParseInt(hex[2:4], 16, 64)
	b, _ := strconv.ParseInt(hex[4:6], 16, 64)
	return int(r), int(gr), int(b)
}
