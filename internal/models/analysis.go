package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Chart kinds accepted in Analysis.ChartType
const (
	ChartBar     = "bar"
	ChartLine    = "line"
	ChartPie     = "pie"
	ChartScatter = "scatter"
	Chart3D      = "3d"
)

// Analysis holds the parsed rows of one File and its cached AI summary.
// SelectedX, SelectedY and ChartType are stored but never read back; chart
// selection lives in the client session.
type Analysis struct {
	ID         string    `gorm:"type:char(36);primaryKey"`
	UserID     string    `gorm:"type:char(36);not null;index"`
	FileID     string    `gorm:"type:char(36);not null;index"`
	File       *File     `gorm:"foreignKey:FileID;references:ID"`
	SelectedX  string    `gorm:"size:255"`
	SelectedY  string    `gorm:"size:255"`
	ChartType  string    `gorm:"size:16"`
	ParsedData JSON      `gorm:"not null"`
	Summary    string
	CreatedAt  time.Time `gorm:"index"`
	UpdatedAt  time.Time
}

// TableName overrides the table name for Analysis
func (Analysis) TableName() string {
	return "analyses"
}

// BeforeCreate assigns a UUID when none is set
func (a *Analysis) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// Rows decodes the stored parsed data
func (a *Analysis) Rows() (Rows, error) {
	var rows Rows
	if err := a.ParsedData.Decode(&rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// HasSummary reports whether a summary has been generated and cached
func (a *Analysis) HasSummary() bool {
	return a.Summary != ""
}

// MarshalJSON renders file as the file id, or as the full File when expanded
func (a Analysis) MarshalJSON() ([]byte, error) {
	var file interface{} = a.FileID
	if a.File != nil {
		file = a.File
	}
	return json.Marshal(struct {
		ID         string      `json:"_id"`
		User       string      `json:"user"`
		File       interface{} `json:"file"`
		SelectedX  string      `json:"selectedX,omitempty"`
		SelectedY  string      `json:"selectedY,omitempty"`
		ChartType  string      `json:"chartType,omitempty"`
		ParsedData JSON        `json:"parsedData"`
		Summary    string      `json:"summary,omitempty"`
		CreatedAt  time.Time   `json:"createdAt"`
		UpdatedAt  time.Time   `json:"updatedAt"`
	}{
		ID:         a.ID,
		User:       a.UserID,
		File:       file,
		SelectedX:  a.SelectedX,
		SelectedY:  a.SelectedY,
		ChartType:  a.ChartType,
		ParsedData: a.ParsedData,
		Summary:    a.Summary,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	})
}

// AllModels lists every persisted model for migrations
func AllModels() []interface{} {
	return []interface{}{&User{}, &File{}, &Analysis{}}
}
