package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/localnerve/excel-analyzer/internal/models"
	"github.com/localnerve/excel-analyzer/internal/storage"
	"github.com/localnerve/excel-analyzer/internal/testutil"
	"github.com/localnerve/excel-analyzer/internal/types"
	"gorm.io/gorm"
)

// brokenStore fails every operation
type brokenStore struct{}

func (brokenStore) Put(context.Context, string, string, []byte, string) (*storage.Object, error) {
	return nil, errors.New("bucket unavailable")
}
func (brokenStore) Delete(context.Context, string) error { return errors.New("bucket unavailable") }
func (brokenStore) Ping(context.Context) error           { return errors.New("bucket unavailable") }

func createUser(t *testing.T, db *gorm.DB, name, role string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: name + "@example.com", Role: role}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user
}

func ingestCSV(t *testing.T, db *gorm.DB, store storage.ObjectStore, owner, name string) *UploadResult {
	t.Helper()
	res, err := Ingest(context.Background(), db, store, "excel-uploads", UploadInput{
		OwnerID:  owner,
		Filename: name,
		MimeType: "text/csv",
		Data:     []byte("Region,Sales\nNorth,10\nSouth,20\n"),
	})
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	return res
}

func TestIngest(t *testing.T) {
	db := testutil.NewTestDB(t)
	store := testutil.NewLocalStore(t)
	user := createUser(t, db, "ann", "")

	res := ingestCSV(t, db, store, user.ID, "q1 sales.csv")
	if res.FileID == "" || res.AnalysisID == "" || len(res.Data) != 2 {
		t.Fatalf("Unexpected result %+v", res)
	}

	var file models.File
	if err := db.First(&file, "id = ?", res.FileID).Error; err != nil {
		t.Fatalf("File not stored: %v", err)
	}
	if file.URL != res.CloudURL || file.OriginalName != "q1 sales.csv" || file.Size == 0 {
		t.Errorf("Unexpected file record %+v", file)
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), filepath.FromSlash(file.StorageKey))); err != nil {
		t.Errorf("Expected stored object: %v", err)
	}

	var analysis models.Analysis
	db.First(&analysis, "id = ?", res.AnalysisID)
	rows, _ := analysis.Rows()
	if analysis.FileID != file.ID || analysis.UserID != user.ID || rows[1].Value("Sales") != "20" {
		t.Errorf("Unexpected analysis %+v", analysis)
	}
}

func TestIngestFailuresWriteNothing(t *testing.T) {
	db := testutil.NewTestDB(t)
	user := createUser(t, db, "ann", "")
	ctx := context.Background()

	_, err := Ingest(ctx, db, testutil.NewLocalStore(t), "p", UploadInput{OwnerID: user.ID, Filename: "a.xlsx"})
	if !types.IsKind(err, types.KindValidation) {
		t.Errorf("Expected validation error for empty upload, got %v", err)
	}

	_, err = Ingest(ctx, db, testutil.NewLocalStore(t), "p", UploadInput{OwnerID: user.ID, Filename: "a.xlsx", Data: []byte("%PDF-1.4")})
	if !types.IsKind(err, types.KindParse) {
		t.Errorf("Expected parse error, got %v", err)
	}

	_, err = Ingest(ctx, db, brokenStore{}, "p", UploadInput{OwnerID: user.ID, Filename: "a.csv", Data: []byte("a\n1\n")})
	if !types.IsKind(err, types.KindStorage) {
		t.Errorf("Expected storage error, got %v", err)
	}

	var files int64
	db.Model(&models.File{}).Count(&files)
	if files != 0 {
		t.Errorf("Expected no file records, got %d", files)
	}
}

func TestFindOrphansAndReconcile(t *testing.T) {
	db := testutil.NewTestDB(t)
	store := testutil.NewLocalStore(t)
	ctx := context.Background()
	user := createUser(t, db, "ann", "")
	kept := ingestCSV(t, db, store, user.ID, "kept.csv")

	// an upload whose analysis insert never happened
	obj, err := store.Put(ctx, "excel-uploads", "lost.csv", []byte("a\n1\n"), "text/csv")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	old := models.File{StorageKey: obj.Key, URL: obj.URL, OriginalName: "lost.csv", UploadedByID: user.ID, CreatedAt: time.Now().Add(-2 * time.Hour)}
	if err := db.Create(&old).Error; err != nil {
		t.Fatalf("Failed to create old file: %v", err)
	}
	fresh := models.File{StorageKey: "excel-uploads/fresh", URL: "u", OriginalName: "fresh.csv", UploadedByID: user.ID}
	if err := db.Create(&fresh).Error; err != nil {
		t.Fatalf("Failed to create fresh file: %v", err)
	}
	// an analysis whose file is gone
	noRows, err := models.NewJSON(models.Rows{})
	if err != nil {
		t.Fatalf("NewJSON failed: %v", err)
	}
	stray := models.Analysis{UserID: user.ID, FileID: "missing-file", ParsedData: noRows}
	if err := db.Create(&stray).Error; err != nil {
		t.Fatalf("Failed to create stray analysis: %v", err)
	}

	report, err := FindOrphans(ctx, db, time.Hour)
	if err != nil {
		t.Fatalf("FindOrphans failed: %v", err)
	}
	if len(report.FilesWithoutAnalysis) != 1 || report.FilesWithoutAnalysis[0] != old.ID {
		t.Errorf("Expected only the old file outside the grace period, got %v", report.FilesWithoutAnalysis)
	}
	if len(report.AnalysesWithoutFile) != 1 || report.AnalysesWithoutFile[0] != stray.ID {
		t.Errorf("Expected the stray analysis, got %v", report.AnalysesWithoutFile)
	}

	report, err = Reconcile(ctx, db, store, ReconcileOptions{DryRun: true, Grace: time.Hour})
	if err != nil || report.Deleted {
		t.Fatalf("Dry run must not delete: %+v %v", report, err)
	}
	var count int64
	db.Model(&models.File{}).Count(&count)
	if count != 3 {
		t.Fatalf("Dry run changed files: %d", count)
	}

	report, err = Reconcile(ctx, db, store, ReconcileOptions{Grace: time.Hour})
	if err != nil || !report.Deleted {
		t.Fatalf("Reconcile failed: %+v %v", report, err)
	}
	db.Model(&models.File{}).Count(&count)
	if count != 2 {
		t.Errorf("Expected kept and fresh files to remain, got %d", count)
	}
	db.Model(&models.Analysis{}).Count(&count)
	if count != 1 {
		t.Errorf("Expected only the kept analysis, got %d", count)
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), filepath.FromSlash(obj.Key))); !os.IsNotExist(err) {
		t.Errorf("Expected orphaned object removed, got %v", err)
	}

	report, _ = FindOrphans(ctx, db, time.Hour)
	if !report.Empty() {
		t.Errorf("Expected nothing left, got %+v", report)
	}
	if _, err := GetAnalysis(ctx, db, kept.AnalysisID, user); err != nil {
		t.Errorf("Kept analysis lost: %v", err)
	}
}
