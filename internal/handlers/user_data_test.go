// user_data_test.go
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

package handlers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestGetAnalysisOwnership(t *testing.T) {
	env := setupTestApp(t, nil)
	owner, _ := env.register(t, "Ann", "")
	other, _ := env.register(t, "Bob", "")
	admin, _ := env.register(t, "Root", "admin")
	id := env.uploadSales(t, owner)

	resp := env.do(t, "GET", "/api/analysis/"+id, owner, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var analysis map[string]interface{}
	decode(t, resp, &analysis)
	if rows, ok := analysis["parsedData"].([]interface{}); !ok || len(rows) != 3 {
		t.Errorf("Unexpected parsedData %v", analysis["parsedData"])
	}

	if resp := env.do(t, "GET", "/api/analysis/"+id, other, nil); resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("Expected 404 for another user's analysis, got %d", resp.StatusCode)
	}
	if resp := env.do(t, "GET", "/api/analysis/"+id, admin, nil); resp.StatusCode != fiber.StatusOK {
		t.Errorf("Expected admin access, got %d", resp.StatusCode)
	}
	if resp := env.do(t, "GET", "/api/analysis/missing", owner, nil); resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("Expected 404, got %d", resp.StatusCode)
	}
}

func TestBuildChart(t *testing.T) {
	env := setupTestApp(t, nil)
	token, _ := env.register(t, "Ann", "")
	id := env.uploadSales(t, token)

	resp := env.do(t, "POST", "/api/analysis/"+id+"/chart", token, fiber.Map{
		"x": "Region", "y": "Sales", "chartType": "line",
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var line struct {
		Kind   string `json:"kind"`
		Series struct {
			Labels []string  `json:"labels"`
			Values []float64 `json:"values"`
		} `json:"series"`
	}
	decode(t, resp, &line)
	if line.Kind != "line" || len(line.Series.Labels) != 3 || line.Series.Labels[2] != "North" || line.Series.Values[2] != 30 {
		t.Errorf("Unexpected line chart %+v", line)
	}

	// three numeric fields switch to 3d even when bar was asked for
	resp = env.do(t, "POST", "/api/analysis/"+id+"/chart", token, fiber.Map{
		"x": "Units", "y": "Sales", "z": "Units", "chartType": "bar", "limit": "2",
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var grid struct {
		Kind       string `json:"kind"`
		Overridden bool   `json:"overridden"`
		Grid       struct {
			XCategories []string `json:"xCategories"`
			Cells       []struct {
				Height float64 `json:"height"`
			} `json:"cells"`
		} `json:"grid"`
	}
	decode(t, resp, &grid)
	if grid.Kind != "3d" || !grid.Overridden || len(grid.Grid.XCategories) != 2 {
		t.Errorf("Unexpected 3d chart %+v", grid)
	}

	resp = env.do(t, "POST", "/api/analysis/"+id+"/chart", token, fiber.Map{"x": "Region"})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("Expected 400 without Y, got %d", resp.StatusCode)
	}
}
