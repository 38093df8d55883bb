package services

import (
	"context"
	"log"

	"github.com/localnerve/excel-analyzer/internal/models"
	"github.com/localnerve/excel-analyzer/internal/parser"
	"github.com/localnerve/excel-analyzer/internal/storage"
	"github.com/localnerve/excel-analyzer/internal/types"
	"gorm.io/gorm"
)

// UploadInput is one uploaded spreadsheet
type UploadInput struct {
	OwnerID  string
	Filename string
	MimeType string
	Data     []byte
}

// UploadResult identifies the records an upload created
type UploadResult struct {
	FileID     string      `json:"fileId"`
	AnalysisID string      `json:"analysisId"`
	CloudURL   string      `json:"cloudUrl"`
	Data       models.Rows `json:"data"`
}

// Ingest parses the upload, stores the raw bytes under prefix, then records
// one File and one Analysis. Nothing is written to the database when parsing
// or storage fails. If the Analysis insert fails the File stays behind and is
// left for FindOrphans.
func Ingest(ctx context.Context, db *gorm.DB, store storage.ObjectStore, prefix string, in UploadInput) (*UploadResult, error) {
	if len(in.Data) == 0 {
		uploadsTotal.WithLabelValues("invalid").Inc()
		return nil, types.NewValidationError("No file uploaded")
	}

	rows, err := parser.Parse(in.Data, in.Filename, in.MimeType)
	if err != nil {
		uploadsTotal.WithLabelValues("parse_error").Inc()
		return nil, err
	}

	if rows == nil {
		rows = models.Rows{}
	}

	obj, err := store.Put(ctx, prefix, in.Filename, in.Data, in.MimeType)
	if err != nil {
		uploadsTotal.WithLabelValues("storage_error").Inc()
		if types.IsKind(err, types.KindStorage) {
			return nil, err
		}
		return nil, types.NewStorageError("Failed to store upload", err)
	}

	parsed, err := models.NewJSON(rows)
	if err != nil {
		return nil, types.NewPersistenceError("Failed to encode parsed rows", err)
	}

	file := models.File{
		StorageKey:   obj.Key,
		URL:          obj.URL,
		OriginalName: in.Filename,
		UploadedByID: in.OwnerID,
		Size:         int64(len(in.Data)),
		MimeType:     in.MimeType,
	}
	if err := db.WithContext(ctx).Create(&file).Error; err != nil {
		uploadsTotal.WithLabelValues("persistence_error").Inc()
		log.Printf("Upload stored at %s but file record failed: %v", obj.Key, err)
		return nil, types.NewPersistenceError("Failed to save file record", err)
	}

	analysis := models.Analysis{
		UserID:     in.OwnerID,
		FileID:     file.ID,
		ParsedData: parsed,
	}
	if err := db.WithContext(ctx).Create(&analysis).Error; err != nil {
		uploadsTotal.WithLabelValues("persistence_error").Inc()
		log.Printf("Orphaned file %s: analysis record failed: %v", file.ID, err)
		return nil, types.NewPersistenceError("Failed to save analysis record", err)
	}

	uploadsTotal.WithLabelValues("ok").Inc()
	log.Printf("Ingested %s for user %s: file=%s analysis=%s rows=%d",
		in.Filename, in.OwnerID, file.ID, analysis.ID, len(rows))

	return &UploadResult{
		FileID:     file.ID,
		AnalysisID: analysis.ID,
		CloudURL:   obj.URL,
		Data:       rows,
	}, nil
}
