// Package chart turns parsed rows and a field selection into a renderable chart description.
// It performs no I/O.
package chart

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/localnerve/excel-analyzer/internal/models"
	"github.com/localnerve/excel-analyzer/internal/types"
)

// Kind is the chart kind
type Kind string

const (
	Bar     Kind = models.ChartBar
	Line    Kind = models.ChartLine
	Scatter Kind = models.ChartScatter
	Pie     Kind = models.ChartPie
	ThreeD  Kind = models.Chart3D
)

// ParseKind normalizes a requested kind. Unknown or empty input selects Bar.
func ParseKind(s string) Kind {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case Bar, Line, Scatter, Pie, ThreeD:
		return k
	}
	return Bar
}

// Selection names the fields plotted on each axis. Z is only used by ThreeD.
type Selection struct {
	X string `json:"x"`
	Y string `json:"y"`
	Z string `json:"z,omitempty"`
}

// Value is a plotted number. NaN marks a gap and encodes as JSON null.
type Value float64

func (v Value) MarshalJSON() ([]byte, error) {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

// IsGap reports whether the value is missing
func (v Value) IsGap() bool {
	return math.IsNaN(float64(v))
}

// Spec is a tagged variant: Series is set for the 2-D kinds, Grid for ThreeD.
type Spec struct {
	Kind       Kind      `json:"kind"`
	Requested  Kind      `json:"requested"`
	Overridden bool      `json:"overridden"`
	Selection  Selection `json:"selection"`
	Series     *Series   `json:"series,omitempty"`
	Grid       *Grid     `json:"grid,omitempty"`
}

// ParseNumber reads a cell as a finite float. Blank or non-numeric text is not a number.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// AllNumeric reports whether every row's value under key parses as a finite number.
// An empty row set is not numeric.
func AllNumeric(rows models.Rows, key string) bool {
	if len(rows) == 0 || key == "" {
		return false
	}
	for _, row := range rows {
		if _, ok := ParseNumber(row.Value(key)); !ok {
			return false
		}
	}
	return true
}

// ResolveKind applies the automatic switch to ThreeD: when X, Y and Z are all
// selected and every row is numeric under each of them, ThreeD wins over the request.
func ResolveKind(rows models.Rows, sel Selection, requested Kind) Kind {
	if sel.X != "" && sel.Y != "" && sel.Z != "" &&
		AllNumeric(rows, sel.X) && AllNumeric(rows, sel.Y) && AllNumeric(rows, sel.Z) {
		return ThreeD
	}
	return requested
}

// Build produces the chart description for rows under the selection.
func Build(rows models.Rows, sel Selection, requested Kind) (*Spec, error) {
	if sel.X == "" || sel.Y == "" {
		return nil, types.NewValidationError("Select both an X and a Y field")
	}
	requested = ParseKind(string(requested))
	kind := ResolveKind(rows, sel, requested)

	if kind == ThreeD && sel.Z == "" {
		return nil, types.NewValidationError("A 3D chart needs a Z field")
	}

	if err := checkFields(rows, sel, kind); err != nil {
		return nil, err
	}

	spec := &Spec{
		Kind:       kind,
		Requested:  requested,
		Overridden: kind != requested,
		Selection:  sel,
	}
	if kind == ThreeD {
		spec.Grid = BuildGrid(rows, sel)
	} else {
		spec.Series = BuildSeries(rows, sel)
	}
	return spec, nil
}

// checkFields rejects selections naming a column the sheet does not have
func checkFields(rows models.Rows, sel Selection, kind Kind) error {
	if len(rows) == 0 {
		return nil
	}
	fields := []string{sel.X, sel.Y}
	if kind == ThreeD {
		fields = append(fields, sel.Z)
	}
	for _, f := range fields {
		if _, ok := rows[0].Get(f); !ok {
			return types.NewValidationError(fmt.Sprintf("Unknown field %q", f))
		}
	}
	return nil
}
