// Package export renders a client-supplied chart raster into a downloadable PNG or PDF.
package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"  // decoder registration
	_ "image/jpeg" // decoder registration
	"image/png"
	"regexp"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/localnerve/excel-analyzer/internal/types"
)

// Format is an export target
type Format string

const (
	PDF Format = "pdf"
	PNG Format = "png"
)

const (
	// DefaultFileName is used when the caller supplies no usable name
	DefaultFileName = "chart"

	fitWidth  = 500.0
	fitHeight = 400.0
)

// ParseFormat accepts "pdf" or "png"
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case PDF:
		return PDF, nil
	case PNG:
		return PNG, nil
	}
	return "", types.NewValidationError(fmt.Sprintf("Unsupported export format %q", s))
}

// ContentType is the response media type for the format
func (f Format) ContentType() string {
	if f == PDF {
		return "application/pdf"
	}
	return "image/png"
}

// Raster is a decoded chart image plus its original encoded bytes
type Raster struct {
	Image       image.Image
	Encoded     []byte
	ImageFormat string
}

// DecodeImage decodes base64 image data, with or without a data URL prefix.
func DecodeImage(b64 string) (*Raster, error) {
	b64 = strings.TrimSpace(b64)
	if i := strings.Index(b64, ";base64,"); i >= 0 && strings.HasPrefix(b64, "data:") {
		b64 = b64[i+len(";base64,"):]
	}
	if b64 == "" {
		return nil, types.NewValidationError("Chart image is required")
	}

	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		// some encoders drop padding
		if raw, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(b64, "=")); err != nil {
			return nil, types.NewValidationError("Image data is not valid base64")
		}
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, types.NewValidationError("Image data is not a supported image")
	}
	return &Raster{Image: img, Encoded: raw, ImageFormat: format}, nil
}

// RenderPNG re-encodes the raster as PNG, whatever the client sent.
// Ancillary chunks and trailing bytes of a PNG upload are dropped.
func RenderPNG(r *Raster) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, r.Image); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPDF places the raster on a single Letter page, scaled to fit a
// 500x400pt box with its aspect ratio kept, centered.
func RenderPDF(r *Raster) ([]byte, error) {
	pngData, err := RenderPNG(r)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetCreator("excel-analyzer", true)
	pdf.AddPage()

	opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	pdf.RegisterImageOptionsReader("chart", opts, bytes.NewReader(pngData))

	b := r.Image.Bounds()
	w, h := fit(float64(b.Dx()), float64(b.Dy()), fitWidth, fitHeight)
	pageW, pageH := pdf.GetPageSize()
	pdf.ImageOptions("chart", (pageW-w)/2, (pageH-h)/2, w, h, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// Render produces the export body for the format
func Render(r *Raster, f Format) ([]byte, error) {
	if f == PDF {
		return RenderPDF(r)
	}
	return RenderPNG(r)
}

func fit(w, h, maxW, maxH float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return maxW, maxH
	}
	scale := maxW / w
	if s := maxH / h; s < scale {
		scale = s
	}
	return w * scale, h * scale
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeFileName strips anything but [A-Za-z0-9._-] and any extension the
// client already added for the format.
func SanitizeFileName(name string, f Format) string {
	name = unsafeName.ReplaceAllString(strings.TrimSpace(name), "_")
	name = strings.TrimSuffix(name, "."+string(f))
	name = strings.Trim(name, "._")
	if name == "" {
		return DefaultFileName
	}
	return name
}

// Disposition is the Content-Disposition header for an attachment download
func Disposition(name string, f Format) string {
	return fmt.Sprintf("attachment; filename=\"%s.%s\"", name, f)
}
