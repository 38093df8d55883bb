package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/localnerve/excel-analyzer/internal/models"
)

type csvFormat struct{}

func (csvFormat) CanParse(filename, mimeType string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".tsv":
		return true
	}
	return mimeType == "text/csv" || mimeType == "text/tab-separated-values"
}

func (csvFormat) Parse(data []byte) (models.Rows, error) {
	return ParseCSV(data)
}

// ParseCSV reads comma or tab separated text with a header line.
func ParseCSV(data []byte) (models.Rows, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.Comma = sniffDelimiter(data)

	grid, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return buildRows(grid), nil
}

func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte{'\t'}) > bytes.Count(line, []byte{','}) {
		return '\t'
	}
	return ','
}
