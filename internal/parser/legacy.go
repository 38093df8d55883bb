package parser

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/localnerve/excel-analyzer/internal/models"
)

// oleMagic opens every compound document, which is the container of BIFF .xls files
var oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

type legacyFormat struct{}

func (legacyFormat) CanParse(filename, mimeType string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xls", ".xlt":
		return true
	}
	return mimeType == "application/vnd.ms-excel"
}

// Parse goes through the content check, since .xlsx files renamed to .xls are common.
func (legacyFormat) Parse(data []byte) (models.Rows, error) {
	return ParseWorkbook(data)
}

// IsLegacyWorkbook reports whether data looks like a BIFF (Excel 97-2003) workbook
func IsLegacyWorkbook(data []byte) bool {
	return bytes.HasPrefix(data, oleMagic)
}

// errLegacyLayout marks a compound document the BIFF reader cannot walk safely
var errLegacyLayout = errors.New("unsupported xls container layout")

const legacySector = 512

// checkLegacyHeader rejects containers whose header points outside the data.
// The reader assumes 512-byte sectors and exits the process on some broken
// sector chains, so those files never reach it.
func checkLegacyHeader(data []byte) error {
	if len(data) < 2*legacySector || !IsLegacyWorkbook(data) {
		return errLegacyLayout
	}
	le := binary.LittleEndian
	if le.Uint16(data[28:]) != 0xFFFE || le.Uint16(data[30:]) != 9 || le.Uint16(data[32:]) != 6 {
		return errLegacyLayout
	}
	inside := func(sid uint32) bool {
		return (int64(sid)+2)*legacySector <= int64(len(data))
	}
	fats := le.Uint32(data[44:])
	if fats == 0 || !inside(le.Uint32(data[48:])) {
		return errLegacyLayout
	}
	if fats > 109 {
		fats = 109
	}
	for i := uint32(0); i < fats; i++ {
		if !inside(le.Uint32(data[76+4*i:])) {
			return errLegacyLayout
		}
	}
	return nil
}

func openLegacy(data []byte) (wb *xls.WorkBook, err error) {
	if err := checkLegacyHeader(data); err != nil {
		return nil, fmt.Errorf("open xls workbook: %w", err)
	}
	// the BIFF reader panics on some truncated or malformed files
	defer func() {
		if r := recover(); r != nil {
			wb, err = nil, fmt.Errorf("open xls workbook: %v", r)
		}
	}()
	wb, err = xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls workbook: %w", err)
	}
	return wb, nil
}

func legacySheetNames(data []byte) ([]string, error) {
	wb, err := openLegacy(data)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, wb.NumSheets())
	for i := 0; i < wb.NumSheets(); i++ {
		if ws := wb.GetSheet(i); ws != nil {
			names = append(names, ws.Name)
		}
	}
	return names, nil
}

// parseLegacySheet reads the named sheet, or the first one, of a BIFF workbook.
// Cells come back as the reader renders them: numbers in plain notation.
func parseLegacySheet(data []byte, name string) (rows models.Rows, err error) {
	wb, err := openLegacy(data)
	if err != nil {
		return nil, err
	}
	if wb.NumSheets() == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	var sheet *xls.WorkSheet
	for i := 0; i < wb.NumSheets(); i++ {
		ws := wb.GetSheet(i)
		if ws == nil {
			continue
		}
		if name == "" || ws.Name == name {
			sheet = ws
			break
		}
	}
	if sheet == nil {
		if name == "" {
			return nil, fmt.Errorf("workbook has no readable sheets")
		}
		return nil, fmt.Errorf("sheet %q not found", name)
	}

	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("read sheet %q: %v", sheet.Name, r)
		}
	}()
	grid := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		grid = append(grid, legacyLine(sheet, i))
	}
	return buildRows(grid), nil
}

// legacyLine returns the cells of row i, or nil when the sheet stores no such row.
func legacyLine(sheet *xls.WorkSheet, i int) (line []string) {
	// Row dereferences the missing entry instead of returning nil
	defer func() {
		if recover() != nil {
			line = nil
		}
	}()
	row := sheet.Row(i)
	line = make([]string, row.LastCol())
	for col := range line {
		line[col] = row.Col(col)
	}
	return line
}
