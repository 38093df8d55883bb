package handlers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/excel-analyzer/internal/models"
)

func TestUploadAndHistory(t *testing.T) {
	env := setupTestApp(t, nil)
	token, userID := env.register(t, "Ann", "")

	resp := env.upload(t, token, "excelFile", "sales.xlsx", salesWorkbook(t))
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}
	var first struct {
		FileID     string              `json:"fileId"`
		AnalysisID string              `json:"analysisId"`
		CloudURL   string              `json:"cloudUrl"`
		Data       []map[string]string `json:"data"`
		Message    string              `json:"message"`
	}
	decode(t, resp, &first)
	if first.FileID == "" || first.AnalysisID == "" || first.CloudURL == "" {
		t.Errorf("Missing ids in %+v", first)
	}
	if len(first.Data) != 3 || first.Data[1]["Region"] != "South" || first.Data[1]["Sales"] != "20" {
		t.Errorf("Unexpected parsed data %v", first.Data)
	}

	// same bytes again under the alias field: no dedup
	resp = env.upload(t, token, "file", "sales.xlsx", salesWorkbook(t))
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}
	var second struct {
		FileID     string `json:"fileId"`
		AnalysisID string `json:"analysisId"`
	}
	decode(t, resp, &second)
	if second.FileID == first.FileID || second.AnalysisID == first.AnalysisID {
		t.Error("Expected distinct records for a repeated upload")
	}

	resp = env.do(t, "GET", "/api/user/history", token, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var history struct {
		Files    []map[string]interface{} `json:"files"`
		Analyses []map[string]interface{} `json:"analyses"`
	}
	decode(t, resp, &history)
	if len(history.Files) != 2 || len(history.Analyses) != 2 {
		t.Fatalf("Expected 2 files and 2 analyses, got %d and %d", len(history.Files), len(history.Analyses))
	}
	if history.Files[0]["uploadedBy"] != userID || history.Files[0]["originalname"] != "sales.xlsx" {
		t.Errorf("Unexpected file %v", history.Files[0])
	}
	file, ok := history.Analyses[0]["file"].(map[string]interface{})
	if !ok || file["originalname"] != "sales.xlsx" {
		t.Errorf("Expected analysis file expanded, got %v", history.Analyses[0]["file"])
	}
}

func TestUploadRejections(t *testing.T) {
	env := setupTestApp(t, nil)
	token, _ := env.register(t, "Ann", "")

	resp := env.do(t, "POST", "/api/upload", token, nil)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("Expected 400 without a file, got %d", resp.StatusCode)
	}

	resp = env.upload(t, token, "excelFile", "notes.xlsx", []byte("just some text"))
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("Expected 400 for unparseable upload, got %d", resp.StatusCode)
	}
	var body map[string]interface{}
	decode(t, resp, &body)
	if body["type"] != "parse" {
		t.Errorf("Expected parse error type, got %v", body["type"])
	}

	var count int64
	env.db.Model(&models.File{}).Count(&count)
	if count != 0 {
		t.Errorf("Rejected uploads must not create files, found %d", count)
	}
}

func TestUploadStorageFailure(t *testing.T) {
	env := setupTestApp(t, failingStore{})
	token, _ := env.register(t, "Ann", "")

	resp := env.upload(t, token, "excelFile", "sales.xlsx", salesWorkbook(t))
	if resp.StatusCode != fiber.StatusBadGateway {
		t.Errorf("Expected 502, got %d", resp.StatusCode)
	}

	var files, analyses int64
	env.db.Model(&models.File{}).Count(&files)
	env.db.Model(&models.Analysis{}).Count(&analyses)
	if files != 0 || analyses != 0 {
		t.Errorf("Storage failure must leave no records, got %d files %d analyses", files, analyses)
	}
}
