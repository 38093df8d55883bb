package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// File records one uploaded spreadsheet and where its bytes live in the object store
type File struct {
	ID           string    `gorm:"type:char(36);primaryKey"`
	StorageKey   string    `gorm:"size:512;not null"`
	URL          string    `gorm:"size:2048;not null"`
	OriginalName string    `gorm:"size:512;not null;index"`
	UploadedByID string    `gorm:"type:char(36);not null;index:idx_files_owner_created,priority:1"`
	UploadedBy   *User     `gorm:"foreignKey:UploadedByID;references:ID"`
	Size         int64     `gorm:"not null"`
	MimeType     string    `gorm:"size:255"`
	CreatedAt    time.Time `gorm:"index:idx_files_owner_created,priority:2"`
	UpdatedAt    time.Time
}

// TableName overrides the table name for File
func (File) TableName() string {
	return "files"
}

// BeforeCreate assigns a UUID when none is set
func (f *File) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// Uploader is the expanded form of File.uploadedBy
type Uploader struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// MarshalJSON renders uploadedBy as the uploader id, or as {name, email} when expanded
func (f File) MarshalJSON() ([]byte, error) {
	var uploadedBy interface{} = f.UploadedByID
	if f.UploadedBy != nil {
		uploadedBy = Uploader{ID: f.UploadedBy.ID, Name: f.UploadedBy.Name, Email: f.UploadedBy.Email}
	}
	return json.Marshal(struct {
		ID           string      `json:"_id"`
		Filename     string      `json:"filename"`
		OriginalName string      `json:"originalname"`
		UploadedBy   interface{} `json:"uploadedBy"`
		Path         string      `json:"path"`
		Size         int64       `json:"size"`
		MimeType     string      `json:"mimetype"`
		CreatedAt    time.Time   `json:"createdAt"`
		UpdatedAt    time.Time   `json:"updatedAt"`
	}{
		ID:           f.ID,
		Filename:     f.StorageKey,
		OriginalName: f.OriginalName,
		UploadedBy:   uploadedBy,
		Path:         f.URL,
		Size:         f.Size,
		MimeType:     f.MimeType,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	})
}
