package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/localnerve/excel-analyzer/internal/models"
	"github.com/localnerve/excel-analyzer/internal/types"
)

// Format reads one tabular container into rows keyed by header.
type Format interface {
	CanParse(filename, mimeType string) bool
	Parse(data []byte) (models.Rows, error)
}

var registry []Format

// Register adds a format to the registry. Later registrations are tried first.
func Register(f Format) {
	registry = append([]Format{f}, registry...)
}

// ErrEmpty indicates the upload carried no bytes.
var ErrEmpty = errors.New("empty file")

// Parse selects a format by filename/MIME type, falling back to the workbook
// reader, which tells OOXML and BIFF workbooks apart by content.
// Every failure is returned as a parse error.
func Parse(data []byte, filename, mimeType string) (models.Rows, error) {
	if len(data) == 0 {
		return nil, types.NewParseError("Uploaded file is empty", ErrEmpty)
	}

	var format Format = workbookFormat{}
	for _, f := range registry {
		if f.CanParse(filename, mimeType) {
			format = f
			break
		}
	}

	rows, err := format.Parse(data)
	if err != nil {
		if ce, ok := types.AsCustomError(err); ok {
			return nil, ce
		}
		return nil, types.NewParseError(fmt.Sprintf("Unable to read %q as a spreadsheet", filename), err)
	}
	return rows, nil
}

func init() {
	Register(workbookFormat{})
	Register(legacyFormat{})
	Register(csvFormat{})
}

// buildRows turns a grid whose first non-empty line is the header into records.
// Every header key is present on every record; absent cells become "".
// Fully blank lines are skipped.
func buildRows(grid [][]string) models.Rows {
	start := -1
	width := 0
	for i, line := range grid {
		if start < 0 && !isBlank(line) {
			start = i
		}
		if start >= 0 && len(line) > width {
			width = len(line)
		}
	}
	if start < 0 {
		return models.Rows{}
	}

	headers := headerKeys(grid[start], width)
	rows := make(models.Rows, 0, len(grid)-start-1)
	for _, line := range grid[start+1:] {
		if isBlank(line) {
			continue
		}
		row := models.NewRow()
		for col, key := range headers {
			value := ""
			if col < len(line) {
				value = line[col]
			}
			row.Set(key, value)
		}
		rows = append(rows, row)
	}
	return rows
}

// headerKeys names every column. Blank headers become __EMPTY, __EMPTY_1, ...
// and repeated names get _1, _2 suffixes.
func headerKeys(header []string, width int) []string {
	keys := make([]string, width)
	used := make(map[string]struct{}, width)
	for col := 0; col < width; col++ {
		name := ""
		if col < len(header) {
			name = strings.TrimSpace(header[col])
		}
		if name == "" {
			name = "__EMPTY"
		}
		key := name
		for i := 1; ; i++ {
			if _, taken := used[key]; !taken {
				break
			}
			key = fmt.Sprintf("%s_%d", name, i)
		}
		used[key] = struct{}{}
		keys[col] = key
	}
	return keys
}

func isBlank(line []string) bool {
	for _, cell := range line {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
