package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/excel-analyzer/internal/ai"
	"github.com/localnerve/excel-analyzer/internal/config"
	"github.com/localnerve/excel-analyzer/internal/handlers"
	"github.com/localnerve/excel-analyzer/internal/services"
	"github.com/localnerve/excel-analyzer/internal/storage"
	"github.com/localnerve/excel-analyzer/internal/testutil"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const adminSecret = "let-me-in"

// fakeRuntime answers summaries without a network call
type fakeRuntime struct {
	calls atomic.Int32
	text  string
	err   error
}

func (f *fakeRuntime) Generate(ctx context.Context, req ai.GenerateRequest) (*ai.GenerateResponse, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return &ai.GenerateResponse{Choices: []ai.Choice{{Message: ai.Message{Role: "assistant", Content: f.text}}}}, nil
}

// failingStore rejects every write
type failingStore struct{}

func (failingStore) Put(context.Context, string, string, []byte, string) (*storage.Object, error) {
	return nil, errors.New("bucket unavailable")
}
func (failingStore) Delete(context.Context, string) error { return nil }
func (failingStore) Ping(context.Context) error           { return nil }

type testEnv struct {
	app     *fiber.App
	db      *gorm.DB
	auth    *services.AuthService
	runtime *fakeRuntime
	mirror  *services.Mirror
}

func setupTestApp(t *testing.T, store storage.ObjectStore) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)
	if store == nil {
		store = testutil.NewLocalStore(t)
	}

	cfg := &config.Config{
		AuthProvider: config.AuthProviderJWT,
		JWTSecret:    "test-secret",
		JWTTTL:       time.Hour,
		AdminSecret:  adminSecret,
	}
	auth := services.NewAuthService(db, cfg)
	auth.BcryptCost = bcrypt.MinCost

	env := &testEnv{
		db:      db,
		auth:    auth,
		runtime: &fakeRuntime{text: "Sales rose steadily."},
		mirror:  &services.Mirror{Store: store, Prefix: "charts"},
	}

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	handlers.RegisterRoutes(app.Group("/api"), &handlers.Handlers{
		Auth:     auth,
		Account:  &handlers.AuthHandler{Auth: auth},
		Upload:   &handlers.UploadHandler{DB: db, Store: store, Prefix: "excel-uploads"},
		UserData: &handlers.UserDataHandler{DB: db},
		Summary:  &handlers.SummaryHandler{DB: db, Summarizer: &services.Summarizer{Runtime: env.runtime, Model: "test-model"}},
		Export:   &handlers.ExportHandler{Mirror: env.mirror},
		Admin:    &handlers.AdminHandler{DB: db, Store: store},
	})
	app.Use(handlers.NotFound)
	env.app = app

	t.Cleanup(env.mirror.Wait)
	return env
}

// register creates an account and returns its token and id
func (env *testEnv) register(t *testing.T, name, role string) (string, string) {
	t.Helper()
	res, err := env.auth.Register(context.Background(), services.RegisterInput{
		Name:        name,
		Email:       strings.ToLower(name) + "@example.com",
		Password:    "secret123",
		Role:        role,
		AdminSecret: adminSecret,
	})
	if err != nil {
		t.Fatalf("Register %s failed: %v", name, err)
	}
	return res.Token, res.ID
}

func (env *testEnv) do(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	return resp
}

func (env *testEnv) upload(t *testing.T, token, field, filename string, data []byte) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	part.Write(data)
	w.Close()

	req := httptest.NewRequest("POST", "/api/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to execute upload: %v", err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

func salesWorkbook(t *testing.T) []byte {
	return testutil.Workbook(t, [][]interface{}{
		{"Region", "Sales", "Units"},
		{"North", 10, 1},
		{"South", 20, 2},
		{"North", 30, 3},
	})
}

// uploadSales uploads the sales workbook and returns the analysis id
func (env *testEnv) uploadSales(t *testing.T, token string) string {
	t.Helper()
	resp := env.upload(t, token, "excelFile", "sales.xlsx", salesWorkbook(t))
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}
	var res struct {
		AnalysisID string `json:"analysisId"`
	}
	decode(t, resp, &res)
	return res.AnalysisID
}
