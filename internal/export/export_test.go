package export

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/localnerve/excel-analyzer/internal/types"
)

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 78, G: 121, B: 167, A: 255})
	}
	return img
}

func pngDataURL(t *testing.T, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage(w, h)); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestDecodeImage(t *testing.T) {
	r, err := DecodeImage(pngDataURL(t, 40, 20))
	if err != nil {
		t.Fatalf("DecodeImage failed: %v", err)
	}
	if r.ImageFormat != "png" || r.Image.Bounds().Dx() != 40 {
		t.Errorf("Unexpected raster %s %v", r.ImageFormat, r.Image.Bounds())
	}

	for _, in := range []string{"", "data:image/png;base64,", "!!!notbase64", base64.StdEncoding.EncodeToString([]byte("text"))} {
		if _, err := DecodeImage(in); !types.IsKind(err, types.KindValidation) {
			t.Errorf("%q: expected validation error, got %v", in, err)
		}
	}
}

func TestRenderPNGPreservesDimensions(t *testing.T) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, testImage(64, 48), nil); err != nil {
		t.Fatalf("Failed to encode jpeg: %v", err)
	}
	r, err := DecodeImage(base64.StdEncoding.EncodeToString(buf.Bytes()))
	if err != nil {
		t.Fatalf("DecodeImage failed: %v", err)
	}

	out, err := RenderPNG(r)
	if err != nil {
		t.Fatalf("RenderPNG failed: %v", err)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("Output is not an image: %v", err)
	}
	if format != "png" || cfg.Width != 64 || cfg.Height != 48 {
		t.Errorf("Expected 64x48 png, got %dx%d %s", cfg.Width, cfg.Height, format)
	}
}

func TestRenderPNGReencodesPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage(30, 10)); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	clean := len(buf.Bytes())
	buf.WriteString("trailing bytes after IEND")

	r, err := DecodeImage(base64.StdEncoding.EncodeToString(buf.Bytes()))
	if err != nil {
		t.Fatalf("DecodeImage failed: %v", err)
	}
	out, err := RenderPNG(r)
	if err != nil {
		t.Fatalf("RenderPNG failed: %v", err)
	}

	if bytes.Equal(out, r.Encoded) {
		t.Fatal("Expected PNG input to be re-encoded, got the upload back")
	}
	if bytes.Contains(out, []byte("trailing bytes")) {
		t.Error("Expected trailing bytes to be dropped")
	}
	if !bytes.HasSuffix(out, []byte("IEND\xaeB`\x82")) {
		t.Errorf("Expected output to end at IEND, %d bytes (input png was %d)", len(out), clean)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("Output is not a png: %v", err)
	}
	if cfg.Width != 30 || cfg.Height != 10 {
		t.Errorf("Expected 30x10, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestRenderPDF(t *testing.T) {
	r, err := DecodeImage(pngDataURL(t, 1000, 400))
	if err != nil {
		t.Fatalf("DecodeImage failed: %v", err)
	}
	out, err := Render(r, PDF)
	if err != nil {
		t.Fatalf("RenderPDF failed: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Errorf("Expected PDF header, got %q", out[:8])
	}
}

func TestFit(t *testing.T) {
	w, h := fit(1000, 400, fitWidth, fitHeight)
	if w != 500 || h != 200 {
		t.Errorf("Expected 500x200, got %vx%v", w, h)
	}
	w, h = fit(100, 400, fitWidth, fitHeight)
	if w != 100 || h != 400 {
		t.Errorf("Expected 100x400, got %vx%v", w, h)
	}
}

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in   string
		f    Format
		want string
	}{
		{"chart-Region-vs-Sales", PDF, "chart-Region-vs-Sales"},
		{"", PNG, "chart"},
		{"../../etc/passwd", PNG, "etc_passwd"},
		{"my chart.png", PNG, "my_chart"},
		{"quarterly \"report\"", PDF, "quarterly_report"},
	}
	for _, tc := range cases {
		if got := SanitizeFileName(tc.in, tc.f); got != tc.want {
			t.Errorf("%q: expected %q, got %q", tc.in, tc.want, got)
		}
	}
	if Disposition("c", PDF) != `attachment; filename="c.pdf"` {
		t.Errorf("Unexpected disposition %s", Disposition("c", PDF))
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("PDF"); err != nil || f != PDF || f.ContentType() != "application/pdf" {
		t.Errorf("Unexpected %v %v", f, err)
	}
	if _, err := ParseFormat("svg"); !types.IsKind(err, types.KindValidation) {
		t.Errorf("Expected validation error, got %v", err)
	}
}
