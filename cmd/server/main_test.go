// main_test.go
//
// Spreadsheet ingestion, charting and AI summary service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of excel-analyzer.
// excel-analyzer is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// excel-analyzer is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with excel-analyzer.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/localnerve/excel-analyzer/internal/ai"
	"github.com/localnerve/excel-analyzer/internal/config"
	"github.com/localnerve/excel-analyzer/internal/testutil"
)

type cannedRuntime struct{}

func (cannedRuntime) Generate(ctx context.Context, req ai.GenerateRequest) (*ai.GenerateResponse, error) {
	return &ai.GenerateResponse{Choices: []ai.Choice{{Message: ai.Message{Role: "assistant", Content: "North leads."}}}}, nil
}

// TestServer drives the assembled app through the main user journey
func TestServer(t *testing.T) {
	cfg := &config.Config{
		DBType:        "sqlite",
		StorageDriver: "local",
		AuthProvider:  config.AuthProviderJWT,
		JWTSecret:     "server-test-secret",
		JWTTTL:        time.Hour,
		AdminSecret:   "server-admin",
		CORSOrigins:   "*",
		S3ChartPrefix: "charts",
	}
	db := testutil.NewTestDB(t)
	store := testutil.NewLocalStore(t)
	srv := newServer(cfg, db, store, cannedRuntime{}, true)

	do := func(req *http.Request) (int, []byte) {
		t.Helper()
		resp, err := srv.app.Test(req, -1)
		if err != nil {
			t.Fatalf("%s %s failed: %v", req.Method, req.URL.Path, err)
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, body
	}
	jsonReq := func(method, path, token string, v interface{}) *http.Request {
		var buf bytes.Buffer
		if v != nil {
			_ = json.NewEncoder(&buf).Encode(v)
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		return req
	}

	t.Run("HealthCheck", func(t *testing.T) {
		status, body := do(httptest.NewRequest(http.MethodGet, "/health", nil))
		if status != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", status, body)
		}
		var result map[string]interface{}
		_ = json.Unmarshal(body, &result)
		if result["status"] != "healthy" || result["ai"] != "unconfigured" {
			t.Errorf("Unexpected health %v", result)
		}
	})

	t.Run("SwaggerUI", func(t *testing.T) {
		status, body := do(httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
		if status != http.StatusOK {
			t.Fatalf("Expected 200, got %d", status)
		}
		if !strings.Contains(string(body), "Excel Analyzer API") || !strings.Contains(string(body), "/ai/summary/{analysisId}") {
			t.Error("Swagger document is missing the API description")
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		if status, _ := do(httptest.NewRequest(http.MethodGet, "/api/nope", nil)); status != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", status)
		}
	})

	var token string
	t.Run("Register", func(t *testing.T) {
		status, body := do(jsonReq(http.MethodPost, "/api/auth/register", "", map[string]string{
			"name": "Ann", "email": "ann@example.com", "password": "pw123456",
		}))
		if status != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", status, body)
		}
		var res struct {
			Token string `json:"token"`
		}
		_ = json.Unmarshal(body, &res)
		token = res.Token
		if token == "" {
			t.Fatal("Expected a token")
		}
	})

	var analysisID, cloudURL string
	t.Run("Upload", func(t *testing.T) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		part, _ := w.CreateFormFile("excelFile", "sales.xlsx")
		_, _ = part.Write(testutil.Workbook(t, [][]interface{}{
			{"Region", "Sales"}, {"North", 10}, {"South", 20},
		}))
		_ = w.Close()

		req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		status, body := do(req)
		if status != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", status, body)
		}
		var res struct {
			AnalysisID string `json:"analysisId"`
			CloudURL   string `json:"cloudUrl"`
		}
		_ = json.Unmarshal(body, &res)
		analysisID, cloudURL = res.AnalysisID, res.CloudURL
	})

	t.Run("LocalFiles", func(t *testing.T) {
		path := localFilesRoute + strings.TrimPrefix(cloudURL, "http://files.test")
		if status, _ := do(httptest.NewRequest(http.MethodGet, path, nil)); status != http.StatusOK {
			t.Errorf("Expected stored upload at %s, got %d", path, status)
		}
	})

	t.Run("ChartAndSummary", func(t *testing.T) {
		status, body := do(jsonReq(http.MethodPost, "/api/analysis/"+analysisID+"/chart", token, map[string]string{
			"x": "Region", "y": "Sales", "chartType": "bar",
		}))
		if status != http.StatusOK || !strings.Contains(string(body), `"kind":"bar"`) {
			t.Fatalf("Unexpected chart response %d: %s", status, body)
		}

		status, body = do(jsonReq(http.MethodPost, "/api/ai/summary/"+analysisID, token, nil))
		if status != http.StatusOK || !strings.Contains(string(body), "North leads.") {
			t.Fatalf("Unexpected summary response %d: %s", status, body)
		}
	})

	t.Run("ExportPNG", func(t *testing.T) {
		var img bytes.Buffer
		_ = png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 40, 30)))
		status, body := do(jsonReq(http.MethodPost, "/api/export/png", token, map[string]string{
			"base64Image": "data:image/png;base64," + base64.StdEncoding.EncodeToString(img.Bytes()),
		}))
		if status != http.StatusOK || !bytes.HasPrefix(body, []byte("\x89PNG")) {
			t.Fatalf("Unexpected export response %d", status)
		}
		srv.mirror.Wait()
	})

	t.Run("PrometheusMetrics", func(t *testing.T) {
		status, body := do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
		if status != http.StatusOK {
			t.Fatalf("Expected 200, got %d", status)
		}
		for _, metric := range []string{"excel_analyzer_uploads_total", "excel_analyzer_exports_total", "excel_analyzer_http_requests_total"} {
			if !strings.Contains(string(body), metric) {
				t.Errorf("Expected metric %s", metric)
			}
		}
	})
}
