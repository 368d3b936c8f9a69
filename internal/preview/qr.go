package preview

import (
	"badge-designer/internal/cache"
	"badge-designer/internal/models"
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/skip2/go-qrcode"
)

const (
	defaultQRSize = 150
	minQRSize     = 64
	maxQRSize     = 1024

	// Placeholder payload shown when a QR element has no data yet.
	defaultQRData = "{attendee.uuid}"
)

type Format string

const (
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
)

var ErrUnsupportedFormat = errors.New("unsupported preview format")

// ParseFormat accepts "png" (also the empty string) and "webp".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "png":
		return FormatPNG, nil
	case "webp":
		return FormatWebP, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

func (f Format) ContentType() string {
	if f == FormatWebP {
		return "image/webp"
	}
	return "image/png"
}

// QR renders a working-format QR element as the designer shows it. Tokens in
// qrData are encoded literally.
func QR(p models.QRProps, format Format) ([]byte, error) {
	content := models.ValueOr(p.QRData, defaultQRData)
	if content == "" {
		content = defaultQRData
	}

	level := qrcode.Medium
	logo := models.ValueOr(p.QRLogo, "")
	if logo != "" {
		// A centred logo hides modules, so use the highest recovery level.
		level = qrcode.Highest
	}

	q, err := qrcode.New(content, level)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	q.ForegroundColor = color.Black
	q.BackgroundColor = color.White
	if p.QRColor != nil {
		if c, ok := parseHex(p.QRColor.Dark); ok {
			q.ForegroundColor = c
		}
		if c, ok := parseHex(p.QRColor.Light); ok {
			q.BackgroundColor = c
		}
	}

	size := qrSize(p)
	var img image.Image = q.Image(size)
	if logo != "" {
		img, err = overlayLogo(img, logo, size)
		if err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	switch format {
	case FormatWebP:
		if err := webp.Encode(&buf, img, &webp.Options{Lossless: true}); err != nil {
			return nil, fmt.Errorf("failed to encode WebP: %w", err)
		}
	case FormatPNG, "":
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			return nil, fmt.Errorf("failed to encode PNG: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return buf.Bytes(), nil
}

// qrSize picks size, then the larger box side, clamped to a sane range.
func qrSize(p models.QRProps) int {
	size := models.ValueOr(p.Size, 0)
	if size <= 0 {
		size = max(models.ValueOr(p.Width, 0), models.ValueOr(p.Height, 0))
	}
	if size <= 0 {
		size = defaultQRSize
	}
	return min(max(int(size), minQRSize), maxQRSize)
}

func overlayLogo(qr image.Image, src string, size int) (image.Image, error) {
	side := float64(size) / 4
	data, err := cache.GetImageData(src, side, side)
	if err != nil {
		return nil, fmt.Errorf("qr logo: %w", err)
	}
	logo, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("qr logo: failed to decode: %w", err)
	}
	return imaging.OverlayCenter(qr, logo, 1.0), nil
}

func parseHex(s string) (color.Color, bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return nil, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return nil, false
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, true
}
