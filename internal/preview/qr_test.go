package preview

import (
	"badge-designer/internal/cache"
	"badge-designer/internal/models"
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"
	"time"

	"github.com/chai2010/webp"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "badge-preview-test")
	if err != nil {
		panic(err)
	}
	cache.Init(dir, time.Second)
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func TestQRPNGSizeAndColours(t *testing.T) {
	out, err := QR(models.QRProps{
		QRData:  models.Ptr("https://example.test/a/1"),
		Size:    models.Ptr(200.0),
		QRColor: &models.QRColor{Dark: "#ff0000", Light: "#fff"},
	}, FormatPNG)
	if err != nil {
		t.Fatalf("QR: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 200 {
		t.Fatalf("unexpected size %v", b)
	}

	// The quiet zone at the corner is background.
	r, g, b, _ := img.At(0, 0).RGBA()
	if r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("corner not white: %d %d %d", r>>8, g>>8, b>>8)
	}
	var sawRed bool
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y && !sawRed; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if r>>8 == 255 && g == 0 && b == 0 {
				sawRed = true
				break
			}
		}
	}
	if !sawRed {
		t.Error("no foreground modules in custom colour")
	}
}

func TestQRWebP(t *testing.T) {
	out, err := QR(models.QRProps{}, FormatWebP)
	if err != nil {
		t.Fatalf("QR: %v", err)
	}
	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("not a webp: %v", err)
	}
	if cfg.Width != defaultQRSize {
		t.Errorf("width = %d, want %d", cfg.Width, defaultQRSize)
	}
}

func TestQRWithLogo(t *testing.T) {
	logo := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := range logo.Pix {
		logo.Pix[i] = 0x80
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, logo); err != nil {
		t.Fatal(err)
	}
	src := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	if _, err := QR(models.QRProps{QRData: models.Ptr("x"), QRLogo: &src}, FormatPNG); err != nil {
		t.Fatalf("QR with logo: %v", err)
	}
	if _, err := QR(models.QRProps{QRLogo: models.Ptr("data:broken")}, FormatPNG); err == nil {
		t.Error("expected error for broken logo")
	}
}

func TestQRSize(t *testing.T) {
	tests := []struct {
		name string
		p    models.QRProps
		want int
	}{
		{"default", models.QRProps{}, defaultQRSize},
		{"explicit", models.QRProps{Size: models.Ptr(300.0)}, 300},
		{"from box", models.QRProps{Geometry: models.Geometry{Width: models.Ptr(120.0), Height: models.Ptr(180.0)}}, 180},
		{"clamped low", models.QRProps{Size: models.Ptr(10.0)}, minQRSize},
		{"clamped high", models.QRProps{Size: models.Ptr(5000.0)}, maxQRSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := qrSize(tt.p); got != tt.want {
				t.Errorf("qrSize = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat(""); err != nil || f != FormatPNG {
		t.Errorf("empty: %v %v", f, err)
	}
	if f, err := ParseFormat("WEBP"); err != nil || f.ContentType() != "image/webp" {
		t.Errorf("webp: %v %v", f, err)
	}
	if _, err := ParseFormat("gif"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestParseHex(t *testing.T) {
	c, ok := parseHex("#336699")
	if !ok || c != (color.RGBA{R: 0x33, G: 0x66, B: 0x99, A: 0xff}) {
		t.Errorf("parseHex = %v %v", c, ok)
	}
	if _, ok := parseHex("navy"); ok {
		t.Error("expected named colour to be rejected")
	}
}
