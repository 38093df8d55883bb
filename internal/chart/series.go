package chart

import (
	"fmt"
	"math"

	"github.com/localnerve/excel-analyzer/internal/models"
)

// Series is the 2-D chart data: one label and one value per row, in row order.
type Series struct {
	Label  string   `json:"label"`
	Labels []string `json:"labels"`
	Values []Value  `json:"values"`
	Colors []string `json:"colors"`
}

// BuildSeries maps each row to (X label, Y value). Labels are not deduplicated.
// Y values that do not parse are gaps.
func BuildSeries(rows models.Rows, sel Selection) *Series {
	s := &Series{
		Label:  sel.Y,
		Labels: make([]string, len(rows)),
		Values: make([]Value, len(rows)),
		Colors: make([]string, len(rows)),
	}
	for i, row := range rows {
		s.Labels[i] = row.Value(sel.X)
		if f, ok := ParseNumber(row.Value(sel.Y)); ok {
			s.Values[i] = Value(f)
		} else {
			s.Values[i] = Value(math.NaN())
		}
		s.Colors[i] = fmt.Sprintf("hsl(%g, 70%%, 60%%)", float64(i)*360/float64(len(rows))+100)
	}
	return s
}
