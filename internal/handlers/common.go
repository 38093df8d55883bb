// common.go
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
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/excel-analyzer/internal/middleware"
	"github.com/localnerve/excel-analyzer/internal/models"
	"github.com/localnerve/excel-analyzer/internal/services"
	"github.com/localnerve/excel-analyzer/internal/types"
)

// parseQueryList extracts values of a query key, supporting both repeated
// keys and comma-separated values. Order is kept and duplicates dropped.
func parseQueryList(c *fiber.Ctx, name string) []string {
	seen := make(map[string]struct{})
	var values []string

	args := c.Context().QueryArgs()
	for key, value := range args.All() {
		if string(key) != name {
			continue
		}
		for _, v := range strings.Split(string(value), ",") {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			values = append(values, v)
		}
	}

	return values
}

// parsePage reads page and limit; limit is capped and zero means no paging
func parsePage(c *fiber.Ctx) (services.Page, error) {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 0)
	if page < 1 || limit < 0 {
		return services.Page{}, types.NewValidationError("page and limit must be positive")
	}
	if limit > services.MaxPageLimit {
		limit = services.MaxPageLimit
	}
	return services.Page{Page: page, Limit: limit}, nil
}

// requireUser returns the authenticated user or an auth error
func requireUser(c *fiber.Ctx) (*models.User, error) {
	user := middleware.CurrentUser(c)
	if user == nil {
		return nil, types.NewAuthError("Not authorized")
	}
	return user, nil
}
