// admin.go
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

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/excel-analyzer/internal/models"
	"github.com/localnerve/excel-analyzer/internal/services"
	"github.com/localnerve/excel-analyzer/internal/storage"
	"github.com/localnerve/excel-analyzer/internal/types"
	"github.com/localnerve/excel-analyzer/internal/utils"
	"gorm.io/gorm"
)

// AdminHandler handles user and file administration
type AdminHandler struct {
	DB    *gorm.DB
	Store storage.ObjectStore
}

// UserList is a page of users
type UserList struct {
	Users []models.User `json:"users"`
	Total int64         `json:"total"`
}

// FileList is a page of files with their uploader
type FileList struct {
	Files []models.File `json:"files"`
	Total int64         `json:"total"`
}

// DeleteFilesInput names files to delete, as one id or a list
type DeleteFilesInput struct {
	IDs types.IDList `json:"ids" swaggertype:"array,string"`
}

// ListUsers handles GET /api/admin/users
// @Summary List users
// @Tags Admin
// @Produce json
// @Param search query string false "Case-insensitive match on name, email or role"
// @Param sort query string false "createdAt, name, email or role; prefix - for descending" default(-createdAt)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size, at most 100; 0 lists all"
// @Success 200 {object} UserList
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return err
	}

	users, total, err := services.FindUsers(c.UserContext(), h.DB, services.UserQuery{
		Search: c.Query("search"),
		Sort:   c.Query("sort"),
		Page:   page,
	})
	if err != nil {
		return err
	}
	return c.JSON(UserList{Users: users, Total: total})
}

// DeleteUser handles DELETE /api/admin/users/:userId
// @Summary Delete a user
// @Description Deletes the user's analyses, files and stored objects, then the user
// @Tags Admin
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /admin/users/{userId} [delete]
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	res, err := services.DeleteUserCascade(c.UserContext(), h.DB, h.Store, c.Params("userId"))
	if err != nil {
		return err
	}
	return utils.MessageResponse(c, fiber.StatusOK, "User and related data deleted", fiber.Map{
		"files":    res.Files,
		"analyses": res.Analyses,
	})
}

// ListFiles handles GET /api/admin/files
// @Summary List files
// @Tags Admin
// @Produce json
// @Param search query string false "Case-insensitive match on file name or uploader email"
// @Param sort query string false "createdAt, originalname or size; prefix - for descending" default(-createdAt)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size, at most 100; 0 lists all"
// @Success 200 {object} FileList
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /admin/files [get]
func (h *AdminHandler) ListFiles(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return err
	}

	files, total, err := services.FindFiles(c.UserContext(), h.DB, services.FileQuery{
		Search: c.Query("search"),
		Sort:   c.Query("sort"),
		Expand: true,
		Page:   page,
	})
	if err != nil {
		return err
	}
	return c.JSON(FileList{Files: files, Total: total})
}

// DeleteFile handles DELETE /api/admin/files/:fileId
// @Summary Delete a file
// @Description Deletes the file's analyses, the file and its stored object
// @Tags Admin
// @Produce json
// @Param fileId path string true "File ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /admin/files/{fileId} [delete]
func (h *AdminHandler) DeleteFile(c *fiber.Ctx) error {
	res, err := services.DeleteFileCascade(c.UserContext(), h.DB, h.Store, c.Params("fileId"))
	if err != nil {
		return err
	}
	return utils.MessageResponse(c, fiber.StatusOK, "File and related analysis deleted", fiber.Map{
		"analyses": res.Analyses,
	})
}

// DeleteFiles handles POST /api/admin/files/delete and DELETE /api/admin/files?ids=
// @Summary Delete several files
// @Description Ids come from the body ({"ids": "a"} or {"ids": ["a","b"]}) or the ids query parameter. Unknown ids are skipped.
// @Tags Admin
// @Accept json
// @Produce json
// @Param body body DeleteFilesInput false "File IDs"
// @Param ids query string false "Comma-separated file IDs"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /admin/files/delete [post]
// @Router /admin/files [delete]
func (h *AdminHandler) DeleteFiles(c *fiber.Ctx) error {
	ids := parseQueryList(c, "ids")
	if len(c.Body()) > 0 {
		var in DeleteFilesInput
		if err := c.BodyParser(&in); err != nil {
			return types.NewValidationError("Invalid input")
		}
		ids = append(ids, in.IDs...)
	}
	ids = types.IDList(ids).Normalize()
	if len(ids) == 0 {
		return types.NewValidationError("No file ids given")
	}

	res, err := services.DeleteFiles(c.UserContext(), h.DB, h.Store, ids)
	if err != nil {
		return err
	}
	return utils.MessageResponse(c, fiber.StatusOK, "Files and related analyses deleted", fiber.Map{
		"deleted":  res.Files,
		"analyses": res.Analyses,
	})
}
