package parser

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/localnerve/excel-analyzer/internal/models"
	"github.com/xuri/excelize/v2"
)

type workbookFormat struct{}

func (workbookFormat) CanParse(filename, mimeType string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return true
	}
	return strings.Contains(mimeType, "spreadsheetml") || mimeType == "application/vnd.ms-excel.sheet.macroEnabled.12"
}

func (workbookFormat) Parse(data []byte) (models.Rows, error) {
	return ParseWorkbook(data)
}

// ParseWorkbook reads the first sheet, in workbook order, of a workbook.
func ParseWorkbook(data []byte) (models.Rows, error) {
	return ParseWorkbookSheet(data, "")
}

// ParseWorkbookSheet reads the named sheet, or the first sheet when name is empty.
// Excel 97-2003 workbooks are handed to the BIFF reader.
func ParseWorkbookSheet(data []byte, name string) (models.Rows, error) {
	if IsLegacyWorkbook(data) {
		return parseLegacySheet(data, name)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	sheet := sheets[0]
	if name != "" {
		idx, err := f.GetSheetIndex(name)
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("sheet %q not found", name)
		}
		sheet = name
	}

	// stored values, not display text: "1234.5" rather than "1,234.50"
	grid, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return buildRows(grid), nil
}

// SheetNames lists the sheets of a workbook in order
func SheetNames(data []byte) ([]string, error) {
	if IsLegacyWorkbook(data) {
		return legacySheetNames(data)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return f.GetSheetList(), nil
}
