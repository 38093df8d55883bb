// cascade.go
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

package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/localnerve/excel-analyzer/internal/database"
	"github.com/localnerve/excel-analyzer/internal/models"
	"github.com/localnerve/excel-analyzer/internal/storage"
	"github.com/localnerve/excel-analyzer/internal/types"
	"gorm.io/gorm"
)

// CascadeResult counts the records a cascading delete removed
type CascadeResult struct {
	Users    int64 `json:"users"`
	Files    int64 `json:"files"`
	Analyses int64 `json:"analyses"`
}

// step is one ordered write of a cascading delete
type step struct {
	name string
	run  func(tx *gorm.DB) (int64, error)
}

// runSteps executes the steps in order, inside one transaction when the
// dialect has them. The first failing step stops the sequence.
func runSteps(ctx context.Context, db *gorm.DB, steps []step, counts []*int64) error {
	exec := func(tx *gorm.DB) error {
		for i, s := range steps {
			n, err := s.run(tx)
			if err != nil {
				return types.NewPersistenceError(fmt.Sprintf("Delete step %q failed", s.name), err)
			}
			if counts[i] != nil {
				*counts[i] += n
			}
		}
		return nil
	}

	db = db.WithContext(ctx)
	if database.SupportsTransactions(db) {
		return db.Transaction(exec)
	}
	return exec(db)
}

func deleteWhere(model interface{}, query string, args ...interface{}) func(tx *gorm.DB) (int64, error) {
	return func(tx *gorm.DB) (int64, error) {
		res := tx.Where(query, args...).Delete(model)
		return res.RowsAffected, res.Error
	}
}

// DeleteUserCascade removes a user's analyses, then their files, then the user.
// Stored objects of the removed files are deleted afterwards, best effort.
func DeleteUserCascade(ctx context.Context, db *gorm.DB, store storage.ObjectStore, userID string) (*CascadeResult, error) {
	var user models.User
	if err := db.WithContext(ctx).Select("id").First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewNotFoundError("User not found")
		}
		return nil, types.NewPersistenceError("Failed to load user", err)
	}

	var keys []string
	if err := db.WithContext(ctx).Model(&models.File{}).Where("uploaded_by_id = ?", userID).Pluck("storage_key", &keys).Error; err != nil {
		return nil, types.NewPersistenceError("Failed to list user files", err)
	}

	result := &CascadeResult{}
	ownedFiles := db.Model(&models.File{}).Select("id").Where("uploaded_by_id = ?", userID)
	steps := []step{
		{"analyses", deleteWhere(&models.Analysis{}, "user_id = ? OR file_id IN (?)", userID, ownedFiles)},
		{"files", deleteWhere(&models.File{}, "uploaded_by_id = ?", userID)},
		{"user", deleteWhere(&models.User{}, "id = ?", userID)},
	}
	if err := runSteps(ctx, db, steps, []*int64{&result.Analyses, &result.Files, &result.Users}); err != nil {
		return nil, err
	}

	removeObjects(ctx, store, keys)
	log.Printf("Deleted user %s with %d files and %d analyses", userID, result.Files, result.Analyses)
	return result, nil
}

// DeleteFileCascade removes a file's analyses, then the file and its stored object.
func DeleteFileCascade(ctx context.Context, db *gorm.DB, store storage.ObjectStore, fileID string) (*CascadeResult, error) {
	var file models.File
	if err := db.WithContext(ctx).First(&file, "id = ?", fileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewNotFoundError("File not found")
		}
		return nil, types.NewPersistenceError("Failed to load file", err)
	}

	result := &CascadeResult{}
	steps := []step{
		{"analyses", deleteWhere(&models.Analysis{}, "file_id = ?", fileID)},
		{"file", deleteWhere(&models.File{}, "id = ?", fileID)},
	}
	if err := runSteps(ctx, db, steps, []*int64{&result.Analyses, &result.Files}); err != nil {
		return nil, err
	}

	removeObjects(ctx, store, []string{file.StorageKey})
	return result, nil
}

// DeleteFiles cascades each id in turn. Unknown ids are skipped; any other
// failure stops the batch and reports how many were deleted before it.
func DeleteFiles(ctx context.Context, db *gorm.DB, store storage.ObjectStore, ids []string) (*CascadeResult, error) {
	total := &CascadeResult{}
	for _, id := range ids {
		res, err := DeleteFileCascade(ctx, db, store, id)
		if err != nil {
			if types.IsKind(err, types.KindNotFound) {
				continue
			}
			return total, err
		}
		total.Files += res.Files
		total.Analyses += res.Analyses
	}
	return total, nil
}

func removeObjects(ctx context.Context, store storage.ObjectStore, keys []string) {
	if store == nil {
		return
	}
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := store.Delete(ctx, key); err != nil {
			log.Printf("Failed to remove stored object %s: %v", key, err)
		}
	}
}
