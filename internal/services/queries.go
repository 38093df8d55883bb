package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/localnerve/excel-analyzer/internal/database"
	"github.com/localnerve/excel-analyzer/internal/models"
	"github.com/localnerve/excel-analyzer/internal/types"
	"gorm.io/gorm"
)

const (
	// MaxPageLimit bounds the page size of list queries
	MaxPageLimit = 100
	// DefaultSort orders lists newest first
	DefaultSort = "-createdAt"
)

// Page selects a window of a list. A zero Limit returns everything.
type Page struct {
	Page  int
	Limit int
}

func (p Page) apply(q *gorm.DB) *gorm.DB {
	if p.Limit <= 0 {
		return q
	}
	limit := p.Limit
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	page := p.Page
	if page < 1 {
		page = 1
	}
	return q.Offset((page - 1) * limit).Limit(limit)
}

// FileQuery filters file listings
type FileQuery struct {
	OwnerID string
	Search  string // original name or uploader email
	Sort    string
	Expand  bool // load the uploader's name and email
	Page
}

// AnalysisQuery filters analysis listings
type AnalysisQuery struct {
	OwnerID string
	FileID  string
	Expand  bool // load the file
}

// UserQuery filters user listings
type UserQuery struct {
	Search string // name, email or role
	Sort   string
	Page
}

var (
	fileSortColumns = map[string]string{
		"createdAt":    "files.created_at",
		"originalname": "files.original_name",
		"size":         "files.size",
	}
	userSortColumns = map[string]string{
		"createdAt": "users.created_at",
		"name":      "users.name",
		"email":     "users.email",
		"role":      "users.role",
	}
)

// orderBy maps "field" or "-field" to an ORDER BY expression
func orderBy(sort string, columns map[string]string) (string, error) {
	if sort == "" {
		sort = DefaultSort
	}
	dir := "ASC"
	if strings.HasPrefix(sort, "-") {
		dir = "DESC"
		sort = sort[1:]
	}
	col, ok := columns[sort]
	if !ok {
		return "", types.NewValidationError(fmt.Sprintf("Unsupported sort field %q", sort))
	}
	return col + " " + dir, nil
}

// likePattern lower-cases s and escapes LIKE wildcards with '!'
func likePattern(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(strings.ToLower(strings.TrimSpace(s))) + "%"
}

func searchClause(columns ...string) string {
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = fmt.Sprintf("LOWER(%s) LIKE ? ESCAPE '!'", c)
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

func repeat(v interface{}, n int) []interface{} {
	out := make([]interface{}, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// FindFiles lists files with the total count before paging
func FindFiles(ctx context.Context, db *gorm.DB, q FileQuery) ([]models.File, int64, error) {
	order, err := orderBy(q.Sort, fileSortColumns)
	if err != nil {
		return nil, 0, err
	}

	base := database.Reader(db, "files.find").WithContext(ctx).Model(&models.File{})
	if q.OwnerID != "" {
		base = base.Where("files.uploaded_by_id = ?", q.OwnerID)
		if q.Search == "" {
			base = database.UseIndex(base, "idx_files_owner_created")
		}
	}
	if q.Search != "" {
		base = base.Joins("LEFT JOIN users ON users.id = files.uploaded_by_id").
			Where(searchClause("files.original_name", "users.email"), repeat(likePattern(q.Search), 2)...)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, types.NewPersistenceError("Failed to count files", err)
	}

	find := base.Session(&gorm.Session{}).Select("files.*").Order(order)
	if q.Expand {
		find = find.Preload("UploadedBy", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "name", "email")
		})
	}

	files := []models.File{}
	if err := q.Page.apply(find).Find(&files).Error; err != nil {
		return nil, 0, types.NewPersistenceError("Failed to list files", err)
	}
	return files, total, nil
}

// FindAnalyses lists analyses newest first
func FindAnalyses(ctx context.Context, db *gorm.DB, q AnalysisQuery) ([]models.Analysis, error) {
	find := database.Reader(db, "analyses.find").WithContext(ctx).Model(&models.Analysis{})
	if q.OwnerID != "" {
		find = find.Where("user_id = ?", q.OwnerID)
	}
	if q.FileID != "" {
		find = find.Where("file_id = ?", q.FileID)
	}
	if q.Expand {
		find = find.Preload("File")
	}

	analyses := []models.Analysis{}
	if err := find.Order("created_at DESC").Find(&analyses).Error; err != nil {
		return nil, types.NewPersistenceError("Failed to list analyses", err)
	}
	return analyses, nil
}

// FindUsers lists users with the total count before paging
func FindUsers(ctx context.Context, db *gorm.DB, q UserQuery) ([]models.User, int64, error) {
	order, err := orderBy(q.Sort, userSortColumns)
	if err != nil {
		return nil, 0, err
	}

	base := database.Reader(db, "users.find").WithContext(ctx).Model(&models.User{})
	if q.Search != "" {
		base = base.Where(searchClause("users.name", "users.email", "users.role"), repeat(likePattern(q.Search), 3)...)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, types.NewPersistenceError("Failed to count users", err)
	}

	users := []models.User{}
	if err := q.Page.apply(base.Session(&gorm.Session{}).Order(order)).Find(&users).Error; err != nil {
		return nil, 0, types.NewPersistenceError("Failed to list users", err)
	}
	return users, total, nil
}

// History is a user's files (newest first) and analyses with their file
type History struct {
	Files    []models.File     `json:"files"`
	Analyses []models.Analysis `json:"analyses"`
}

// GetHistory loads the upload history of one user
func GetHistory(ctx context.Context, db *gorm.DB, userID string) (*History, error) {
	files, _, err := FindFiles(ctx, db, FileQuery{OwnerID: userID})
	if err != nil {
		return nil, err
	}
	analyses, err := FindAnalyses(ctx, db, AnalysisQuery{OwnerID: userID, Expand: true})
	if err != nil {
		return nil, err
	}
	return &History{Files: files, Analyses: analyses}, nil
}

// GetAnalysis loads one analysis with its file. Analyses owned by someone
// else are reported as not found unless the requester is an admin.
func GetAnalysis(ctx context.Context, db *gorm.DB, id string, requester *models.User) (*models.Analysis, error) {
	var analysis models.Analysis
	err := database.Reader(db, "analyses.get").WithContext(ctx).
		Preload("File").
		First(&analysis, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewNotFoundError("Analysis not found")
		}
		return nil, types.NewPersistenceError("Failed to load analysis", err)
	}
	if requester != nil && !requester.IsAdmin() && analysis.UserID != requester.ID {
		return nil, types.NewNotFoundError("Analysis not found")
	}
	return &analysis, nil
}
