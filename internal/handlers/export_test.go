package handlers_test

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/excel-analyzer/internal/testutil"
)

func chartImage(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 320, 200))); err != nil {
		t.Fatalf("Failed to encode image: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestExport(t *testing.T) {
	store := testutil.NewLocalStore(t)
	env := setupTestApp(t, store)
	token, _ := env.register(t, "Ann", "")

	resp := env.do(t, "POST", "/api/export/png", token, fiber.Map{
		"base64Image": chartImage(t), "fileName": "chart-Region-vs-Sales",
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Content-Type") != "image/png" {
		t.Errorf("Unexpected content type %q", resp.Header.Get("Content-Type"))
	}
	if got := resp.Header.Get("Content-Disposition"); got != `attachment; filename="chart-Region-vs-Sales.png"` {
		t.Errorf("Unexpected disposition %q", got)
	}
	body, _ := io.ReadAll(resp.Body)
	cfg, err := png.DecodeConfig(bytes.NewReader(body))
	if err != nil || cfg.Width != 320 || cfg.Height != 200 {
		t.Errorf("Expected 320x200 png, got %+v (%v)", cfg, err)
	}

	resp = env.do(t, "POST", "/api/export/pdf", token, fiber.Map{"base64Image": chartImage(t)})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Disposition"); got != `attachment; filename="chart.pdf"` {
		t.Errorf("Expected default file name, got %q", got)
	}
	body, _ = io.ReadAll(resp.Body)
	if !bytes.HasPrefix(body, []byte("%PDF")) {
		t.Error("Expected a PDF body")
	}

	// the mirror copies land under the chart prefix
	env.mirror.Wait()
	mirrored, _ := filepath.Glob(filepath.Join(store.Dir(), "charts", "*"))
	if len(mirrored) != 2 {
		t.Errorf("Expected 2 mirrored charts, got %d", len(mirrored))
	}
	for _, f := range mirrored {
		if info, err := os.Stat(f); err != nil || info.Size() == 0 {
			t.Errorf("Mirrored chart %s is empty", f)
		}
	}
}

func TestExportMissingImage(t *testing.T) {
	env := setupTestApp(t, nil)
	token, _ := env.register(t, "Ann", "")

	for _, path := range []string{"/api/export/pdf", "/api/export/png"} {
		resp := env.do(t, "POST", path, token, fiber.Map{"fileName": "x"})
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, resp.StatusCode)
		}
		var body map[string]interface{}
		decode(t, resp, &body)
		if body["message"] != "Chart image is required" {
			t.Errorf("Unexpected message %v", body["message"])
		}
	}
}

func TestExportMirrorFailureIsSilent(t *testing.T) {
	env := setupTestApp(t, failingStore{})
	token, _ := env.register(t, "Ann", "")

	resp := env.do(t, "POST", "/api/export/png", token, fiber.Map{"base64Image": chartImage(t)})
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("Mirror failure must not fail the export, got %d", resp.StatusCode)
	}
}
