package services

import (
	"context"
	"time"

	"github.com/localnerve/excel-analyzer/internal/models"
	"github.com/localnerve/excel-analyzer/internal/storage"
	"github.com/localnerve/excel-analyzer/internal/types"
	"gorm.io/gorm"
)

// OrphanReport lists records left inconsistent by an interrupted upload or delete
type OrphanReport struct {
	FilesWithoutAnalysis []string `json:"filesWithoutAnalysis" yaml:"filesWithoutAnalysis"`
	FilesWithoutUser     []string `json:"filesWithoutUser" yaml:"filesWithoutUser"`
	AnalysesWithoutFile  []string `json:"analysesWithoutFile" yaml:"analysesWithoutFile"`
	AnalysesWithoutUser  []string `json:"analysesWithoutUser" yaml:"analysesWithoutUser"`
	Deleted              bool     `json:"deleted" yaml:"deleted"`
}

// Empty reports whether nothing is orphaned
func (r *OrphanReport) Empty() bool {
	return len(r.FilesWithoutAnalysis)+len(r.FilesWithoutUser)+
		len(r.AnalysesWithoutFile)+len(r.AnalysesWithoutUser) == 0
}

// ReconcileOptions controls Reconcile
type ReconcileOptions struct {
	DryRun bool
	// Grace skips files younger than this, so uploads in flight are not reported
	Grace time.Duration
}

// FindOrphans reports dangling records without changing anything
func FindOrphans(ctx context.Context, db *gorm.DB, grace time.Duration) (*OrphanReport, error) {
	db = db.WithContext(ctx)
	report := &OrphanReport{
		FilesWithoutAnalysis: []string{},
		FilesWithoutUser:     []string{},
		AnalysesWithoutFile:  []string{},
		AnalysesWithoutUser:  []string{},
	}

	hasAnalysis := db.Model(&models.Analysis{}).Select("1").Where("analyses.file_id = files.id")
	filesNoAnalysis := db.Model(&models.File{}).Where("NOT EXISTS (?)", hasAnalysis)
	if grace > 0 {
		filesNoAnalysis = filesNoAnalysis.Where("files.created_at < ?", time.Now().Add(-grace))
	}

	queries := []struct {
		q   *gorm.DB
		out *[]string
	}{
		{filesNoAnalysis, &report.FilesWithoutAnalysis},
		{db.Model(&models.File{}).Where("NOT EXISTS (?)",
			db.Model(&models.User{}).Select("1").Where("users.id = files.uploaded_by_id")), &report.FilesWithoutUser},
		{db.Model(&models.Analysis{}).Where("NOT EXISTS (?)",
			db.Model(&models.File{}).Select("1").Where("files.id = analyses.file_id")), &report.AnalysesWithoutFile},
		{db.Model(&models.Analysis{}).Where("NOT EXISTS (?)",
			db.Model(&models.User{}).Select("1").Where("users.id = analyses.user_id")), &report.AnalysesWithoutUser},
	}
	for _, query := range queries {
		if err := query.q.Order("id").Pluck("id", query.out).Error; err != nil {
			return nil, types.NewPersistenceError("Failed to scan for orphaned records", err)
		}
	}
	return report, nil
}

// Reconcile finds orphans and, unless DryRun, deletes them along with the
// stored objects of orphaned files.
func Reconcile(ctx context.Context, db *gorm.DB, store storage.ObjectStore, opts ReconcileOptions) (*OrphanReport, error) {
	report, err := FindOrphans(ctx, db, opts.Grace)
	if err != nil || opts.DryRun || report.Empty() {
		return report, err
	}

	analysisIDs := union(report.AnalysesWithoutFile, report.AnalysesWithoutUser)
	fileIDs := union(report.FilesWithoutAnalysis, report.FilesWithoutUser)

	var keys []string
	if len(fileIDs) > 0 {
		if err := db.WithContext(ctx).Model(&models.File{}).Where("id IN ?", fileIDs).Pluck("storage_key", &keys).Error; err != nil {
			return nil, types.NewPersistenceError("Failed to list orphaned files", err)
		}
	}

	var analyses, files int64
	steps := []step{
		{"analyses", deleteIn(&models.Analysis{}, analysisIDs)},
		{"files", deleteIn(&models.File{}, fileIDs)},
	}
	if err := runSteps(ctx, db, steps, []*int64{&analyses, &files}); err != nil {
		return nil, err
	}

	removeObjects(ctx, store, keys)
	report.Deleted = true
	return report, nil
}

func deleteIn(model interface{}, ids []string) func(tx *gorm.DB) (int64, error) {
	return func(tx *gorm.DB) (int64, error) {
		if len(ids) == 0 {
			return 0, nil
		}
		res := tx.Where("id IN ?", ids).Delete(model)
		return res.RowsAffected, res.Error
	}
}

func union(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, l := range lists {
		for _, id := range l {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				out = append(out, id)
			}
		}
	}
	return out
}
